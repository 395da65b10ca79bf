package priceoracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ledgerline/depositd/internal/application/deposit/priceoracle"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/config"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

const (
	// Maximum response body size for the quote API (64KB)
	maxQuoteResponseSize = 64 << 10
	quoteCurrency        = "usd"
	demoAPIKeyHeader     = "x-cg-demo-api-key"
)

type cachedQuote struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// CoinGeckoOracle quotes USD prices from the CoinGecko simple price API.
// Quotes are cached per symbol; a refresh that fails upstream falls back to a
// cached quote younger than MaxCacheAge. A refresh cut short by the caller's
// context never falls back.
type CoinGeckoOracle struct {
	baseURL    string
	apiKey     string
	symbolIDs  map[string]string
	cacheTTL   time.Duration
	maxAge     time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[decimal.Decimal]
	group      singleflight.Group
	clock      biztime.Clock
	logger     logger.Interface

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

var _ priceoracle.PriceOracle = (*CoinGeckoOracle)(nil)

func NewCoinGeckoOracle(cfg config.OracleConfig, clock biztime.Clock, log logger.Interface) *CoinGeckoOracle {
	ids := make(map[string]string, len(cfg.SymbolIDs))
	for symbol, id := range cfg.SymbolIDs {
		ids[strings.ToUpper(symbol)] = id
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	settings := gobreaker.Settings{
		Name:        "coingecko",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			threshold := cfg.Breaker.ConsecutiveFailures
			if threshold == 0 {
				threshold = 5
			}
			return c.ConsecutiveFailures >= threshold
		},
		// a caller giving up is not a sign the upstream is unhealthy
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("price oracle circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &CoinGeckoOracle{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		symbolIDs:  ids,
		cacheTTL:   cfg.CacheTTL,
		maxAge:     cfg.MaxCacheAge,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    gobreaker.NewCircuitBreaker[decimal.Decimal](settings),
		clock:      clock,
		logger:     log,
		cache:      make(map[string]cachedQuote),
	}
}

// GetPrice returns the USD price of one unit of symbol.
func (o *CoinGeckoOracle) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	id, ok := o.symbolIDs[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no price source configured for %s", symbol)
	}

	now := o.clock()
	cached, hasCached := o.cached(symbol)
	if hasCached && now.Sub(cached.fetchedAt) < o.cacheTTL {
		return cached.price, nil
	}

	v, err, _ := o.group.Do(symbol, func() (interface{}, error) {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		return o.breaker.Execute(func() (decimal.Decimal, error) {
			return o.fetch(ctx, id)
		})
	})
	if err != nil {
		// the cached fallback covers upstream failures only; a caller that
		// ran out of time or gave up gets the error
		if ctxErr := ctx.Err(); ctxErr != nil {
			return decimal.Zero, fmt.Errorf("failed to get %s price: %w", symbol, errors.Join(ctxErr, err))
		}
		if hasCached && now.Sub(cached.fetchedAt) < o.maxAge {
			o.logger.Warnw("failed to fetch price, using cached value",
				"symbol", symbol,
				"error", err,
				"cache_age", now.Sub(cached.fetchedAt),
			)
			return cached.price, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get %s price: %w", symbol, err)
	}

	price := v.(decimal.Decimal)
	o.mu.Lock()
	o.cache[symbol] = cachedQuote{price: price, fetchedAt: now}
	o.mu.Unlock()

	return price, nil
}

func (o *CoinGeckoOracle) cached(symbol string) (cachedQuote, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	q, ok := o.cache[symbol]
	return q, ok
}

func (o *CoinGeckoOracle) fetch(ctx context.Context, id string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", quoteCurrency)
	endpoint := o.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if o.apiKey != "" {
		req.Header.Set(demoAPIKeyHeader, o.apiKey)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data map[string]map[string]json.Number
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxQuoteResponseSize)).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	raw, ok := data[id][quoteCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s quote for %s in response", quoteCurrency, id)
	}
	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quote %q: %w", raw.String(), err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid price from API: %s", price.String())
	}

	o.logger.Debugw("fetched price", "id", id, "price", price.String())

	return price, nil
}
