package interfaces

import (
	"context"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// PriceOracle supplies the current market price for a symbol on demand.
// It is unreliable by contract: implementations fail with
// models.ErrPriceUnavailable when the upstream errors, times out, or
// returns a non-positive price, and with models.ErrUnknownSymbol when the
// upstream reports the symbol does not exist. Retry policy belongs to
// callers, not implementations.
type PriceOracle interface {
	GetPrice(ctx context.Context, symbol string) (models.Quote, error)
}
