package pkm

import (
	"errors"
	"testing"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewJournal(NewMemStore())
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	return j
}

func openTrade(t *testing.T, j *Journal, tr Trade) Trade {
	t.Helper()
	opened, err := j.Open(tr)
	if err != nil {
		t.Fatalf("Open(%s): %v", tr.Symbol, err)
	}
	return opened
}

func TestJournalOpenRequiresPlan(t *testing.T) {
	j := newTestJournal(t)
	_, err := j.Open(Trade{Symbol: "BTC", Direction: Long, Lot: 1, EntryPrice: 100})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Open without plan = %v, want ValidationError", err)
	}
}

func TestJournalClosePnL(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		entry     float64
		exit      float64
		lot       float64
		want      float64
	}{
		{"long win", Long, 100, 110, 2, 20},
		{"long loss", Long, 100, 90, 2, -20},
		{"short win", Short, 100, 90, 2, 20},
		{"short loss", Short, 100, 110, 2, -20},
		{"break even", Long, 100, 100, 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := newTestJournal(t)
			tr := openTrade(t, j, Trade{
				Symbol: "X", Direction: tc.direction,
				Lot: tc.lot, EntryPrice: tc.entry, Plan: "breakout",
			})
			closed, err := j.Close(tr.ID, tc.exit, "done")
			if err != nil {
				t.Fatalf("Close: %v", err)
			}
			if closed.PnL != tc.want {
				t.Errorf("PnL = %v, want %v", closed.PnL, tc.want)
			}
			if closed.Status != TradeClosed {
				t.Errorf("Status = %s", closed.Status)
			}
		})
	}
}

func TestJournalCloseTwice(t *testing.T) {
	j := newTestJournal(t)
	tr := openTrade(t, j, Trade{Symbol: "X", Direction: Long, Lot: 1, EntryPrice: 100, Plan: "p"})
	if _, err := j.Close(tr.ID, 110, ""); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := j.Close(tr.ID, 120, ""); err == nil {
		t.Error("closing a closed trade succeeded")
	}
}

func TestJournalUpdateOpenOnly(t *testing.T) {
	j := newTestJournal(t)
	tr := openTrade(t, j, Trade{Symbol: "X", Direction: Long, Lot: 1, EntryPrice: 100, Plan: "p"})

	tr.StopLoss = 95
	tr.Plan = "breakout with tighter stop"
	if err := j.Update(tr); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := j.Trade(tr.ID)
	if got.StopLoss != 95 {
		t.Errorf("StopLoss = %v", got.StopLoss)
	}

	if _, err := j.Close(tr.ID, 110, ""); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := j.Update(got); err == nil {
		t.Error("Update on a closed trade succeeded")
	}
}

func TestJournalAmendClosed(t *testing.T) {
	j := newTestJournal(t)
	tr := openTrade(t, j, Trade{Symbol: "X", Direction: Short, Lot: 2, EntryPrice: 100, Plan: "p"})

	// Amending an open trade is rejected.
	if _, err := j.AmendClosed(tr.ID, 100, 90, 2, ""); err == nil {
		t.Error("AmendClosed on an open trade succeeded")
	}

	if _, err := j.Close(tr.ID, 90, "ok"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	amended, err := j.AmendClosed(tr.ID, 105, 90, 2, "fat-fingered the entry")
	if err != nil {
		t.Fatalf("AmendClosed: %v", err)
	}
	if amended.PnL != 30 {
		t.Errorf("amended PnL = %v, want 30", amended.PnL)
	}
	if amended.Status != TradeClosed {
		t.Errorf("amend changed status to %s", amended.Status)
	}
}

func TestJournalStats(t *testing.T) {
	j := newTestJournal(t)
	a := openTrade(t, j, Trade{Symbol: "A", Direction: Long, Lot: 1, EntryPrice: 100, Plan: "p"})
	b := openTrade(t, j, Trade{Symbol: "B", Direction: Long, Lot: 1, EntryPrice: 100, Plan: "p"})
	openTrade(t, j, Trade{Symbol: "C", Direction: Long, Lot: 1, EntryPrice: 100, Plan: "p"})

	if _, err := j.Close(a.ID, 150, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Close(b.ID, 80, ""); err != nil {
		t.Fatal(err)
	}

	s, err := j.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Closed != 2 || s.Wins != 1 || s.Losses != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.NetPnL != 30 {
		t.Errorf("NetPnL = %v, want 30", s.NetPnL)
	}
	if s.WinRate != 50 {
		t.Errorf("WinRate = %v, want 50", s.WinRate)
	}

	open, err := j.OpenTrades()
	if err != nil {
		t.Fatalf("OpenTrades: %v", err)
	}
	if len(open) != 1 || open[0].Symbol != "C" {
		t.Errorf("OpenTrades = %v", open)
	}
}
