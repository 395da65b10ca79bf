package priceoracle

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceOracle quotes the USD spot price of a token.
type PriceOracle interface {
	// GetPrice returns a strictly positive price for symbol, or an error when
	// the symbol is unknown or the upstream cannot be reached.
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
