package pkm

import (
	"context"
	"testing"
)

func newTestValuer(t *testing.T, prices map[string]float64) (*Ledger, *Valuer, *fakeQuoter) {
	t.Helper()
	l := newTestLedger(t)
	q := newFakeQuoter(prices)
	v := NewValuer(l, NewResolver(q, NopCache{}))
	return l, v, q
}

func TestSummaryConvertsCryptoOnly(t *testing.T) {
	l, v, _ := newTestValuer(t, map[string]float64{
		"BTC-USD":  100,
		"THYAO.IS": 200,
		"USDTRY=X": 40,
	})
	addAsset(t, l, Asset{Type: AssetCrypto, Symbol: "BTC", Amount: 2, BuyPrice: 80})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 1, BuyPrice: 150})

	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// crypto: 2 * 100 * 40 = 8000, equity: 1 * 200 = 200.
	if s.TotalValue != 8200 {
		t.Errorf("TotalValue = %v, want 8200", s.TotalValue)
	}
	// cost: 2 * 80 * 40 = 6400, plus 150.
	if s.TotalCost != 6550 {
		t.Errorf("TotalCost = %v, want 6550", s.TotalCost)
	}
	if s.USDTRY != 40 {
		t.Errorf("USDTRY = %v", s.USDTRY)
	}
}

func TestSummaryBuyPriceFallback(t *testing.T) {
	l, v, _ := newTestValuer(t, map[string]float64{"USDTRY=X": 40})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "GONE", Amount: 10, BuyPrice: 50})

	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.DegradedCount != 1 {
		t.Errorf("DegradedCount = %d, want 1", s.DegradedCount)
	}
	// Valued at buy price: value == cost, P&L zero.
	if s.TotalValue != 500 || s.PnL != 0 {
		t.Errorf("TotalValue = %v, PnL = %v", s.TotalValue, s.PnL)
	}
	if s.Holdings[0].Degraded != PriceUnavailable {
		t.Errorf("holding degraded = %q", s.Holdings[0].Degraded)
	}
}

func TestSummaryManualPrice(t *testing.T) {
	l, v, q := newTestValuer(t, map[string]float64{"USDTRY=X": 40})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "PRIV", Amount: 2, BuyPrice: 10,
		Source: SourceManual, ManualPrice: 30})

	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalValue != 60 {
		t.Errorf("TotalValue = %v, want 60", s.TotalValue)
	}
	if q.calls["PRIV.IS"] != 0 {
		t.Error("manual-priced asset hit the provider")
	}
}

func TestSummaryEmptyLedger(t *testing.T) {
	_, v, _ := newTestValuer(t, map[string]float64{"USDTRY=X": 40})
	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// No cost, no P&L percent: the zero guard must hold.
	if s.TotalValue != 0 || s.PnLPercent != 0 {
		t.Errorf("empty summary = %+v", s)
	}
	if len(s.Categories) != 0 {
		t.Errorf("Categories = %v", s.Categories)
	}
}

func TestSummaryCategories(t *testing.T) {
	l, v, _ := newTestValuer(t, map[string]float64{
		"THYAO.IS": 100,
		"BTC-USD":  1,
		"USDTRY=X": 40,
	})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 6, BuyPrice: 50})
	addAsset(t, l, Asset{Type: AssetCrypto, Symbol: "BTC", Amount: 10, BuyPrice: 1})

	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// equity 600, crypto 400.
	if len(s.Categories) != 2 {
		t.Fatalf("Categories = %v", s.Categories)
	}
	if s.Categories[0].Label != "Hisse Senetleri" || s.Categories[0].Value != 600 {
		t.Errorf("equity slice = %+v", s.Categories[0])
	}
	if s.Categories[1].Label != "Kripto Paralar" || !s.Categories[1].Share.Equal(40) {
		t.Errorf("crypto slice = %+v", s.Categories[1])
	}
}

func TestSummaryCacheInvalidatedByMutation(t *testing.T) {
	l, v, q := newTestValuer(t, map[string]float64{"THYAO.IS": 100, "USDTRY=X": 40})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 1, BuyPrice: 50})

	if _, err := v.Summary(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Summary(context.Background()); err != nil {
		t.Fatal(err)
	}
	fxCalls := q.calls["USDTRY=X"]
	if fxCalls != 1 {
		t.Errorf("memoized summary still hit the provider %d times", fxCalls)
	}

	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 1, BuyPrice: 60})
	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Holdings) != 2 {
		t.Errorf("summary not recomputed after mutation: %d holdings", len(s.Holdings))
	}
}

func TestNetWorth(t *testing.T) {
	l, v, _ := newTestValuer(t, map[string]float64{"THYAO.IS": 100, "USDTRY=X": 40})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 10, BuyPrice: 50})
	if _, err := l.AddDebt(Debt{Description: "loan", Amount: 300}); err != nil {
		t.Fatal(err)
	}
	s, err := v.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.NetWorth != 700 {
		t.Errorf("NetWorth = %v, want 700", s.NetWorth)
	}
}
