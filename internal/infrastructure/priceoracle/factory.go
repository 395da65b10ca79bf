package priceoracle

import (
	"fmt"
	"strings"

	"github.com/ledgerline/depositd/internal/application/deposit/priceoracle"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/config"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

const (
	ProviderCoinGecko = "coingecko"
	ProviderStatic    = "static"
)

// New builds the oracle named by cfg.Provider.
func New(cfg config.OracleConfig, clock biztime.Clock, log logger.Interface) (priceoracle.PriceOracle, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderCoinGecko, "":
		return NewCoinGeckoOracle(cfg, clock, log), nil
	case ProviderStatic:
		oracle, err := NewStaticOracle(cfg.StaticPrices)
		if err != nil {
			return nil, err
		}
		return oracle, nil
	default:
		return nil, fmt.Errorf("unknown price oracle provider %q", cfg.Provider)
	}
}
