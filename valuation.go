package pkm

import (
	"context"
	"sync"
)

// Holding is a valued open position: the asset plus its resolved price and
// settlement-currency figures.
type Holding struct {
	Asset

	CurrentPrice float64 // native pricing currency
	Value        float64 // settlement currency
	Cost         float64 // settlement currency
	PnL          float64 // Value - Cost
	PnLPercent   Percent
	Degraded     DegradedReason
}

// CategoryTotal is one slice of the portfolio distribution.
type CategoryTotal struct {
	Type  AssetType
	Label string
	Value float64
	Share Percent
}

// Summary is the aggregate valuation of the whole ledger.
type Summary struct {
	Holdings   []Holding
	Categories []CategoryTotal
	TotalValue float64
	TotalCost  float64
	PnL        float64
	PnLPercent Percent
	TotalDebt  float64
	NetWorth   float64
	USDTRY     float64
	FXDegraded DegradedReason
	// DegradedCount is how many holdings were valued at their buy price
	// because no live quote was available.
	DegradedCount int
}

// Valuer values the ledger through a price resolver. Valuation results are
// memoized until the ledger mutates or the resolver cache is dropped.
type Valuer struct {
	ledger   *Ledger
	resolver *Resolver

	mu     sync.Mutex
	cached *Summary
}

// NewValuer wires a valuer to its ledger and resolver, registering for
// mutation notifications.
func NewValuer(l *Ledger, r *Resolver) *Valuer {
	v := &Valuer{ledger: l, resolver: r}
	l.OnMutate(v.invalidate)
	return v
}

func (v *Valuer) invalidate() {
	v.mu.Lock()
	v.cached = nil
	v.mu.Unlock()
}

// Refresh drops both the memoized summary and the resolver's price cache,
// forcing live quotes on the next valuation.
func (v *Valuer) Refresh() {
	v.resolver.Invalidate()
	v.invalidate()
}

// valueOf values a single asset given the settlement FX rate. A manual-price
// asset never touches the resolver; an unresolvable price degrades to the
// recorded buy price.
func (v *Valuer) valueOf(ctx context.Context, a Asset, usdTRY float64) Holding {
	h := Holding{Asset: a}
	switch {
	case a.Source == SourceManual && a.ManualPrice > 0:
		h.CurrentPrice = a.ManualPrice
	default:
		res := v.resolver.Resolve(ctx, a.Type, a.Symbol)
		if res.Degraded == PriceUnavailable {
			h.CurrentPrice = a.BuyPrice
			h.Degraded = PriceUnavailable
		} else {
			h.CurrentPrice = res.Price
		}
	}
	h.Value = round2(ToSettlement(a.Type, h.CurrentPrice, usdTRY) * a.Amount)
	h.Cost = round2(ToSettlement(a.Type, a.BuyPrice, usdTRY) * a.Amount)
	h.PnL = round2(h.Value - h.Cost)
	h.PnLPercent = percentOf(h.PnL, h.Cost)
	return h
}

// Summary values every open position and aggregates totals, category
// distribution and net worth. The result is cached until the ledger
// mutates.
func (v *Valuer) Summary(ctx context.Context) (*Summary, error) {
	v.mu.Lock()
	if v.cached != nil {
		s := v.cached
		v.mu.Unlock()
		return s, nil
	}
	v.mu.Unlock()

	assets, err := v.ledger.Assets()
	if err != nil {
		return nil, err
	}
	fx := v.resolver.ResolveFX(ctx)

	s := &Summary{USDTRY: fx.Price, FXDegraded: fx.Degraded}
	byType := make(map[AssetType]float64)
	for _, a := range assets {
		h := v.valueOf(ctx, a, fx.Price)
		if h.Degraded != Live {
			s.DegradedCount++
		}
		s.Holdings = append(s.Holdings, h)
		s.TotalValue += h.Value
		s.TotalCost += h.Cost
		byType[a.Type] += h.Value
	}
	s.TotalValue = round2(s.TotalValue)
	s.TotalCost = round2(s.TotalCost)
	s.PnL = round2(s.TotalValue - s.TotalCost)
	s.PnLPercent = percentOf(s.PnL, s.TotalCost)

	for _, t := range AssetTypes {
		value, ok := byType[t]
		if !ok {
			continue
		}
		ct := CategoryTotal{Type: t, Label: t.Label(), Value: round2(value)}
		ct.Share = percentOf(value, s.TotalValue)
		s.Categories = append(s.Categories, ct)
	}

	if s.TotalDebt, err = v.ledger.TotalDebt(); err != nil {
		return nil, err
	}
	s.NetWorth = round2(s.TotalValue - s.TotalDebt)

	v.mu.Lock()
	v.cached = s
	v.mu.Unlock()
	return s, nil
}

// BasketSummary values only the positions tagged with basket. The result is
// never cached; baskets are an ad-hoc reporting view.
func (v *Valuer) BasketSummary(ctx context.Context, basket string) (*Summary, error) {
	assets, err := v.ledger.AssetsByBasket(basket)
	if err != nil {
		return nil, err
	}
	fx := v.resolver.ResolveFX(ctx)
	s := &Summary{USDTRY: fx.Price, FXDegraded: fx.Degraded}
	for _, a := range assets {
		h := v.valueOf(ctx, a, fx.Price)
		if h.Degraded != Live {
			s.DegradedCount++
		}
		s.Holdings = append(s.Holdings, h)
		s.TotalValue += h.Value
		s.TotalCost += h.Cost
	}
	s.TotalValue = round2(s.TotalValue)
	s.TotalCost = round2(s.TotalCost)
	s.PnL = round2(s.TotalValue - s.TotalCost)
	s.PnLPercent = percentOf(s.PnL, s.TotalCost)
	return s, nil
}
