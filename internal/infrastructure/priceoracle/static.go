package priceoracle

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/application/deposit/priceoracle"
)

// StaticOracle serves fixed prices. Used for local runs and tests.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

var _ priceoracle.PriceOracle = (*StaticOracle)(nil)

// NewStaticOracle parses prices keyed by token symbol.
func NewStaticOracle(prices map[string]string) (*StaticOracle, error) {
	o := &StaticOracle{prices: make(map[string]decimal.Decimal, len(prices))}
	for symbol, raw := range prices {
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid static price for %s: %w", symbol, err)
		}
		o.prices[strings.ToUpper(symbol)] = price
	}
	return o, nil
}

// Set replaces the price of one symbol.
func (o *StaticOracle) Set(symbol string, price decimal.Decimal) {
	o.mu.Lock()
	o.prices[strings.ToUpper(symbol)] = price
	o.mu.Unlock()
}

func (o *StaticOracle) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	o.mu.RLock()
	price, ok := o.prices[strings.ToUpper(symbol)]
	o.mu.RUnlock()
	if !ok {
		return decimal.Zero, fmt.Errorf("no static price for %s", symbol)
	}
	return price, nil
}
