package types

import (
	"fmt"
	"strings"
	"time"
)

// FundamentalRecord is one asset's coarse fundamentals for a single snapshot.
type FundamentalRecord struct {
	Symbol        string  `json:"symbol"`
	Open          float64 `json:"open,omitempty"`
	High          float64 `json:"high,omitempty"`
	Low           float64 `json:"low,omitempty"`
	Close         float64 `json:"close,omitempty"`
	Volume        float64 `json:"volume"`
	VolumeInQuote float64 `json:"volume_in_quote,omitempty"`
	VolumeInUSD   float64 `json:"volume_in_usd"`
}

type Snapshot struct {
	Date    time.Time           `json:"date"`
	Records []FundamentalRecord `json:"records"`
}

// SecurityChanges is the change-set raised after a universe refresh.
// Universe holds the full membership after the change was applied.
type SecurityChanges struct {
	Time     time.Time `json:"time"`
	Added    []string  `json:"added"`
	Removed  []string  `json:"removed"`
	Universe []string  `json:"universe"`
}

func (c SecurityChanges) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

func (c SecurityChanges) String() string {
	return fmt.Sprintf("SecurityChanges: Added: [%s] Removed: [%s]",
		strings.Join(c.Added, ", "), strings.Join(c.Removed, ", "))
}

type DaySelection struct {
	Date    time.Time       `json:"date"`
	Records int             `json:"records"`
	Symbols []string        `json:"symbols"`
	Changes SecurityChanges `json:"changes"`
}

type RunResult struct {
	RunID string         `json:"run_id"`
	Start time.Time      `json:"start"`
	End   time.Time      `json:"end"`
	Days  []DaySelection `json:"days"`
}
