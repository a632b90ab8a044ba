package pkm

import (
	"errors"
	"testing"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewLedger(NewMemStore())
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	return l
}

func addAsset(t *testing.T, l *Ledger, a Asset) Asset {
	t.Helper()
	added, err := l.Add(a)
	if err != nil {
		t.Fatalf("Add(%s): %v", a.Symbol, err)
	}
	return added
}

func TestLedgerAddAssignsSequentialIDs(t *testing.T) {
	l := newTestLedger(t)
	a := addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 10, BuyPrice: 250})
	b := addAsset(t, l, Asset{Type: AssetCrypto, Symbol: "BTC", Amount: 0.5, BuyPrice: 60000})
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", a.ID, b.ID)
	}

	// Deleting the highest ID frees it for reuse: identity is max+1.
	if err := l.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c := addAsset(t, l, Asset{Type: AssetFund, Symbol: "TTE", Amount: 100, BuyPrice: 5})
	if c.ID != 2 {
		t.Errorf("reused ID = %d, want 2", c.ID)
	}
}

func TestLedgerAddValidation(t *testing.T) {
	l := newTestLedger(t)
	tests := []struct {
		name  string
		asset Asset
	}{
		{"empty symbol", Asset{Type: AssetEquity, Amount: 1, BuyPrice: 1}},
		{"zero amount", Asset{Type: AssetEquity, Symbol: "X", BuyPrice: 1}},
		{"negative amount", Asset{Type: AssetEquity, Symbol: "X", Amount: -1, BuyPrice: 1}},
		{"zero buy price", Asset{Type: AssetEquity, Symbol: "X", Amount: 1}},
		{"bad type", Asset{Type: "bond", Symbol: "X", Amount: 1, BuyPrice: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Add(tc.asset)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Add = %v, want ValidationError", err)
			}
		})
	}
}

func TestLedgerEditPreservesIdentity(t *testing.T) {
	l := newTestLedger(t)
	a := addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 10, BuyPrice: 250})

	a.Amount = 20
	a.CreatedAt = "tampered"
	if err := l.Edit(a); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, err := l.Asset(a.ID)
	if err != nil {
		t.Fatalf("Asset: %v", err)
	}
	if got.Amount != 20 {
		t.Errorf("Amount = %v, want 20", got.Amount)
	}
	if got.CreatedAt == "tampered" {
		t.Error("Edit let the caller overwrite CreatedAt")
	}

	if err := l.Edit(Asset{ID: 99, Type: AssetEquity, Symbol: "X", Amount: 1, BuyPrice: 1}); err == nil {
		t.Error("Edit of unknown ID succeeded")
	}
}

func TestLedgerClose(t *testing.T) {
	l := newTestLedger(t)
	a := addAsset(t, l, Asset{Type: AssetEquity, Symbol: "THYAO", Amount: 10, BuyPrice: 100})

	closed, err := l.Close(a.ID, 110, NewDate(2025, 7, 1), "took profit")
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.ProfitLoss != 10 {
		t.Errorf("ProfitLoss = %v, want 10%%", closed.ProfitLoss)
	}
	if closed.SellPrice != 110 || closed.Symbol != "THYAO" {
		t.Errorf("unexpected closed position: %+v", closed)
	}

	// The open position is gone, the archive has one entry.
	if _, err := l.Asset(a.ID); err == nil {
		t.Error("closed asset still open")
	}
	archive, err := l.Closed()
	if err != nil {
		t.Fatalf("Closed: %v", err)
	}
	if len(archive) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(archive))
	}

	// Closing again is NotFound and changes nothing.
	_, err = l.Close(a.ID, 120, NewDate(2025, 7, 2), "")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("second Close = %v, want NotFoundError", err)
	}
	archive, _ = l.Closed()
	if len(archive) != 1 {
		t.Errorf("second Close grew the archive to %d", len(archive))
	}
}

func TestLedgerCloseLoss(t *testing.T) {
	l := newTestLedger(t)
	a := addAsset(t, l, Asset{Type: AssetCrypto, Symbol: "BTC", Amount: 1, BuyPrice: 200})
	closed, err := l.Close(a.ID, 150, Today(), "")
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.ProfitLoss != -25 {
		t.Errorf("ProfitLoss = %v, want -25%%", closed.ProfitLoss)
	}
}

func TestClosedStats(t *testing.T) {
	l := newTestLedger(t)
	day := NewDate(2025, 7, 1)
	for _, c := range []ClosedPosition{
		{Symbol: "A", Type: AssetEquity, Amount: 1, BuyPrice: 100, SellPrice: 110, BuyDate: day, SellDate: day},
		{Symbol: "B", Type: AssetEquity, Amount: 1, BuyPrice: 100, SellPrice: 130, BuyDate: day, SellDate: day},
		{Symbol: "C", Type: AssetEquity, Amount: 1, BuyPrice: 100, SellPrice: 80, BuyDate: day, SellDate: day},
	} {
		if _, err := l.AddClosed(c); err != nil {
			t.Fatalf("AddClosed(%s): %v", c.Symbol, err)
		}
	}
	s, err := l.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Count != 3 || s.Wins != 2 || s.Losses != 1 {
		t.Errorf("counts = %+v", s)
	}
	if !s.WinRate.Equal(Percent(66.67)) {
		t.Errorf("WinRate = %v, want 66.67", s.WinRate)
	}
	if !s.AvgReturn.Equal(Percent(6.67)) {
		t.Errorf("AvgReturn = %v, want 6.67", s.AvgReturn)
	}
	if s.BestReturn != 30 || s.WorstReturn != -20 {
		t.Errorf("best/worst = %v/%v", s.BestReturn, s.WorstReturn)
	}
}

func TestEditClosedRecomputesReturn(t *testing.T) {
	l := newTestLedger(t)
	day := NewDate(2025, 7, 1)
	c, err := l.AddClosed(ClosedPosition{Symbol: "A", Type: AssetEquity, Amount: 1, BuyPrice: 100, SellPrice: 110, BuyDate: day, SellDate: day})
	if err != nil {
		t.Fatalf("AddClosed: %v", err)
	}
	c.SellPrice = 90
	if err := l.EditClosed(c); err != nil {
		t.Fatalf("EditClosed: %v", err)
	}
	list, _ := l.Closed()
	if list[0].ProfitLoss != -10 {
		t.Errorf("ProfitLoss after edit = %v, want -10", list[0].ProfitLoss)
	}
}

func TestBaskets(t *testing.T) {
	l := newTestLedger(t)
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "A", Amount: 1, BuyPrice: 1, Basket: "buffet"})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "B", Amount: 1, BuyPrice: 1, Basket: "tesla"})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "C", Amount: 1, BuyPrice: 1, Basket: "buffet"})
	addAsset(t, l, Asset{Type: AssetEquity, Symbol: "D", Amount: 1, BuyPrice: 1})

	baskets, err := l.Baskets()
	if err != nil {
		t.Fatalf("Baskets: %v", err)
	}
	if len(baskets) != 2 || baskets[0] != "buffet" || baskets[1] != "tesla" {
		t.Errorf("Baskets = %v", baskets)
	}
	inBasket, err := l.AssetsByBasket("buffet")
	if err != nil {
		t.Fatalf("AssetsByBasket: %v", err)
	}
	if len(inBasket) != 2 {
		t.Errorf("buffet has %d assets, want 2", len(inBasket))
	}
}

func TestDebts(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.AddDebt(Debt{Description: "", Amount: 10}); err == nil {
		t.Error("AddDebt accepted an empty description")
	}
	if _, err := l.AddDebt(Debt{Description: "card", Amount: 0}); err == nil {
		t.Error("AddDebt accepted a zero amount")
	}
	d, err := l.AddDebt(Debt{Description: "card", Amount: 1500})
	if err != nil {
		t.Fatalf("AddDebt: %v", err)
	}
	if _, err := l.AddDebt(Debt{Description: "loan", Amount: 500}); err != nil {
		t.Fatalf("AddDebt: %v", err)
	}

	total, err := l.TotalDebt()
	if err != nil {
		t.Fatalf("TotalDebt: %v", err)
	}
	if total != 2000 {
		t.Errorf("TotalDebt = %v, want 2000", total)
	}

	d.Amount = 1000
	if err := l.EditDebt(d); err != nil {
		t.Fatalf("EditDebt: %v", err)
	}
	if err := l.DeleteDebt(2); err != nil {
		t.Fatalf("DeleteDebt: %v", err)
	}
	total, _ = l.TotalDebt()
	if total != 1000 {
		t.Errorf("TotalDebt after edit+delete = %v, want 1000", total)
	}
}
