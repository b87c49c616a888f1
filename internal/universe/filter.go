package universe

import (
	"sort"

	"crypto-universe/internal/types"
)

const (
	// MinVolume is the inclusive floor on asset-denominated volume.
	MinVolume = 100.0
	// MinVolumeInUSD is the exclusive floor on USD volume.
	MinVolumeInUSD = 10000.0
	// MaxSymbols caps the size of one selection.
	MaxSymbols = 10
)

// Select returns up to MaxSymbols symbols whose records pass both volume
// floors, ranked by USD volume descending. Records with equal USD volume
// keep their input order. The input slice is not modified.
func Select(records []types.FundamentalRecord) []string {
	qualified := make([]types.FundamentalRecord, 0, len(records))
	for _, r := range records {
		if Qualifies(r) {
			qualified = append(qualified, r)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].VolumeInUSD > qualified[j].VolumeInUSD
	})

	if len(qualified) > MaxSymbols {
		qualified = qualified[:MaxSymbols]
	}

	symbols := make([]string, len(qualified))
	for i, r := range qualified {
		symbols[i] = r.Symbol
	}
	return symbols
}

// Qualifies reports whether a record passes both volume floors.
func Qualifies(r types.FundamentalRecord) bool {
	return r.Volume >= MinVolume && r.VolumeInUSD > MinVolumeInUSD
}
