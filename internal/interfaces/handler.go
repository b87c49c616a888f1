package interfaces

import (
	"context"

	"crypto-universe/internal/types"
)

type ChangeHandler interface {
	OnSecuritiesChanged(ctx context.Context, changes types.SecurityChanges) error
}
