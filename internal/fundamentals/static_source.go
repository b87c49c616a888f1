package fundamentals

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/types"
)

// majors get quote volumes large enough to dominate the ranking
var majors = []string{
	"BTCUSD", "ETHUSD", "XRPUSD", "LTCUSD", "EOSUSD", "BCHUSD",
	"ETCUSD", "XLMUSD", "TRXUSD", "NEOUSD", "IOTUSD", "ZECUSD",
}

// StaticSource generates a deterministic snapshot per day for dry runs.
// The same date always yields the same records.
type StaticSource struct {
	recordsPerDay int
}

var _ interfaces.FundamentalSource = (*StaticSource)(nil)

func NewStaticSource(recordsPerDay int) *StaticSource {
	return &StaticSource{recordsPerDay: recordsPerDay}
}

func (s *StaticSource) Snapshot(ctx context.Context, date time.Time) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, err
	}
	day := Day(date)
	r := rand.New(rand.NewSource(day.Unix()))

	records := make([]types.FundamentalRecord, 0, s.recordsPerDay)
	for i := 0; i < s.recordsPerDay; i++ {
		records = append(records, s.generateRecord(i, r))
	}
	return types.Snapshot{Date: day, Records: records}, nil
}

func (s *StaticSource) History(ctx context.Context, end time.Time, lookback int) ([]types.Snapshot, error) {
	return history(ctx, s.Snapshot, end, lookback)
}

func (s *StaticSource) generateRecord(i int, r *rand.Rand) types.FundamentalRecord {
	var (
		symbol string
		price  float64
		volume float64
	)
	if i < len(majors) {
		symbol = majors[i]
		price = 10 + r.Float64()*9000
		volume = 1000 + r.Float64()*50000
	} else {
		symbol = fmt.Sprintf("T%03dUSD", i)
		price = 0.01 + r.Float64()*20
		// about a third of the tail misses the volume floor
		volume = r.Float64() * 3000
	}

	open := price * (0.97 + r.Float64()*0.06)
	high := maxf(open, price) * (1 + r.Float64()*0.03)
	low := minf(open, price) * (1 - r.Float64()*0.03)

	return types.FundamentalRecord{
		Symbol:        symbol,
		Open:          open,
		High:          high,
		Low:           low,
		Close:         price,
		Volume:        volume,
		VolumeInQuote: volume * price,
		VolumeInUSD:   volume * price,
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
