package interfaces

import (
	"context"

	"crypto-universe/internal/types"
)

// Selector picks the symbols to subscribe to from one fundamentals snapshot.
type Selector interface {
	Select(ctx context.Context, records []types.FundamentalRecord) []string
}
