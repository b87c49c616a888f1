package universe

import (
	"context"

	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/types"
)

type coarseSelector struct{}

var _ interfaces.Selector = coarseSelector{}

// New returns the coarse volume selector as an interfaces.Selector.
func New() interfaces.Selector {
	return coarseSelector{}
}

func (coarseSelector) Select(_ context.Context, records []types.FundamentalRecord) []string {
	return Select(records)
}
