package pkm

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// Quoter fetches the latest market price for a provider symbol. It is the
// seam between the resolver and the market data provider; implementations
// must be safe for concurrent use.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// Cache stores resolved prices for a bounded lifetime. Keys are
// "<asset type>:<symbol>".
type Cache interface {
	Get(key string) (float64, bool)
	Set(key string, price float64)
	Invalidate()
}

// DefaultPriceTTL bounds the staleness of cached quotes.
const DefaultPriceTTL = 30 * time.Minute

// TTLCache is an in-memory Cache whose entries expire after a fixed TTL.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]ttlEntry
	now     func() time.Time // test hook
}

type ttlEntry struct {
	price float64
	at    time.Time
}

// NewTTLCache returns a cache with the given entry lifetime. A non-positive
// ttl falls back to DefaultPriceTTL.
func NewTTLCache(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &TTLCache{ttl: ttl, entries: make(map[string]ttlEntry), now: time.Now}
}

func (c *TTLCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= c.ttl {
		return 0, false
	}
	return e.price, true
}

func (c *TTLCache) Set(key string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry{price: price, at: c.now()}
}

func (c *TTLCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]ttlEntry)
}

// NopCache never stores anything. Useful in tests and for forced refreshes.
type NopCache struct{}

func (NopCache) Get(string) (float64, bool) { return 0, false }
func (NopCache) Set(string, float64)        {}
func (NopCache) Invalidate()                {}

// DegradedReason explains why a resolved value is not a live market price.
type DegradedReason string

const (
	// Live means the value came from the provider (or a fresh cache of it).
	Live DegradedReason = ""
	// PriceUnavailable means the provider had no quote and the caller
	// should fall back to the recorded buy price.
	PriceUnavailable DegradedReason = "price unavailable"
	// FXFallback means the pinned fallback exchange rate was used.
	FXFallback DegradedReason = "fx fallback"
	// FXOutOfBand means the provider's rate failed the sanity band and the
	// fallback rate was used instead.
	FXOutOfBand DegradedReason = "fx out of band"
)

// PriceResult carries a resolved price together with its provenance, so the
// fallback decision is taken once, at the valuation boundary, and the
// degradation still surfaces in reports.
type PriceResult struct {
	Price    float64
	Degraded DegradedReason
}

// FX sanity parameters for the settlement pair. A quoted USD/TRY rate
// outside [FXBandLow, FXBandHigh] is treated as a bad tick.
const (
	FXBandLow      = 30.0
	FXBandHigh     = 50.0
	FXFallbackRate = 42.0
)

// fxAliases are tried in order; a rate below 1 is assumed inverted
// (TRY/USD) and flipped.
var fxAliases = []string{"USDTRY=X", "TRY=X", "TRYUSD=X"}

// Resolver turns ledger assets into current prices in their native pricing
// currency, caching per "<type>:<symbol>" key.
type Resolver struct {
	quoter Quoter
	cache  Cache

	fxLow, fxHigh float64
	fxFallback    float64
}

// NewResolver builds a resolver over the given quoter. A nil cache disables
// caching.
func NewResolver(q Quoter, c Cache) *Resolver {
	if c == nil {
		c = NopCache{}
	}
	return &Resolver{
		quoter:     q,
		cache:      c,
		fxLow:      FXBandLow,
		fxHigh:     FXBandHigh,
		fxFallback: FXFallbackRate,
	}
}

// SetFXBounds overrides the FX sanity band and fallback rate.
func (r *Resolver) SetFXBounds(low, high, fallback float64) {
	r.fxLow, r.fxHigh, r.fxFallback = low, high, fallback
}

// Invalidate drops every cached price.
func (r *Resolver) Invalidate() { r.cache.Invalidate() }

// quoteSymbol maps a ledger symbol to the provider's convention: Istanbul
// equities and equity funds trade under a ".IS" suffix, crypto under a
// "-USD" pair.
func quoteSymbol(t AssetType, symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	switch t {
	case AssetEquity, AssetFund:
		if !strings.HasSuffix(symbol, ".IS") {
			symbol += ".IS"
		}
	case AssetCrypto:
		if !strings.Contains(symbol, "-") && !strings.HasSuffix(symbol, "=X") {
			symbol += "-USD"
		}
	}
	return symbol
}

// Resolve returns the current price of a holding in its native pricing
// currency. Cash is always worth 1 per unit. A provider failure is not an
// error: the result is degraded with PriceUnavailable and a zero price, and
// the caller decides what to substitute.
func (r *Resolver) Resolve(ctx context.Context, t AssetType, symbol string) PriceResult {
	if t == AssetCash {
		return PriceResult{Price: 1}
	}
	key := string(t) + ":" + strings.ToUpper(strings.TrimSpace(symbol))
	if p, ok := r.cache.Get(key); ok {
		return PriceResult{Price: p}
	}
	p, err := r.quoter.Quote(ctx, quoteSymbol(t, symbol))
	if err != nil || p <= 0 {
		if err != nil {
			log.Printf("price fetch failed for %s: %v", symbol, err)
		}
		return PriceResult{Degraded: PriceUnavailable}
	}
	r.cache.Set(key, p)
	return PriceResult{Price: p}
}

// ResolveFX returns the USD/TRY settlement rate. The aliases are tried in
// order; an apparently inverted quote is flipped; a quote outside the
// sanity band is discarded. When everything fails the pinned fallback rate
// is returned, degraded accordingly.
func (r *Resolver) ResolveFX(ctx context.Context) PriceResult {
	const key = "fx:USDTRY"
	if p, ok := r.cache.Get(key); ok {
		return PriceResult{Price: p}
	}
	outOfBand := false
	for _, alias := range fxAliases {
		rate, err := r.quoter.Quote(ctx, alias)
		if err != nil || rate <= 0 {
			continue
		}
		if rate < 1 {
			rate = 1 / rate
		}
		if rate < r.fxLow || rate > r.fxHigh {
			log.Printf("discarding out-of-band FX rate %.4f from %s", rate, alias)
			outOfBand = true
			continue
		}
		r.cache.Set(key, rate)
		return PriceResult{Price: rate}
	}
	reason := FXFallback
	if outOfBand {
		reason = FXOutOfBand
	}
	return PriceResult{Price: r.fxFallback, Degraded: reason}
}

// ToSettlement converts a native-currency price to the settlement currency.
// Only USD-priced classes need the FX rate; everything else is already
// quoted in TRY.
func ToSettlement(t AssetType, price, usdTRY float64) float64 {
	if PricingCurrency(t) == "USD" {
		return price * usdTRY
	}
	return price
}
