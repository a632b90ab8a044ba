package pkm

import (
	"sort"
	"time"
)

// Direction of a journaled trade.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ParseDirection parses a direction cell.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Long, Short:
		return Direction(s), nil
	default:
		return "", invalidf("unknown trade direction: %q", s)
	}
}

// TradeStatus is the lifecycle state of a journaled trade.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// Trade is a short-term speculative position in the journal. Unlike ledger
// assets, trades keep their row after closing; the status flips instead.
type Trade struct {
	ID         int
	Symbol     string
	Direction  Direction
	Lot        float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Plan       string // the written rationale, mandatory at open
	Status     TradeStatus
	ExitPrice  float64 // zero while open
	PnL        float64 // absolute, in the entry price's currency
	Review     string  // post-mortem note, set at close
	OpenedAt   string
	ClosedAt   string
}

func (t Trade) validate() error {
	if t.Symbol == "" {
		return invalidf("trade symbol must not be empty")
	}
	if _, err := ParseDirection(string(t.Direction)); err != nil {
		return err
	}
	if t.Lot <= 0 {
		return invalidf("trade lot must be > 0, got %v", t.Lot)
	}
	if t.EntryPrice <= 0 {
		return invalidf("trade entry price must be > 0, got %v", t.EntryPrice)
	}
	if t.Plan == "" {
		return invalidf("a trade cannot be opened without a written plan")
	}
	return nil
}

var tradeHeader = []string{"ID", "symbol", "direction", "lot", "entry_price", "stop_loss", "take_profit", "plan", "status", "exit_price", "pnl", "review", "opened_at", "closed_at"}

func tradeFromRow(row []string) Trade {
	d, _ := ParseDirection(cell(row, 2))
	status := TradeStatus(cell(row, 8))
	if status != TradeClosed {
		status = TradeOpen
	}
	return Trade{
		ID:         ParseID(cell(row, 0)),
		Symbol:     cell(row, 1),
		Direction:  d,
		Lot:        ParseDecimal(cell(row, 3)),
		EntryPrice: ParseDecimal(cell(row, 4)),
		StopLoss:   ParseDecimal(cell(row, 5)),
		TakeProfit: ParseDecimal(cell(row, 6)),
		Plan:       cell(row, 7),
		Status:     status,
		ExitPrice:  ParseDecimal(cell(row, 9)),
		PnL:        ParseDecimal(cell(row, 10)),
		Review:     cell(row, 11),
		OpenedAt:   cell(row, 12),
		ClosedAt:   cell(row, 13),
	}
}

func (t Trade) row() []string {
	return []string{
		FormatID(t.ID),
		t.Symbol,
		string(t.Direction),
		FormatDecimal(t.Lot),
		FormatDecimal(t.EntryPrice),
		FormatDecimal(t.StopLoss),
		FormatDecimal(t.TakeProfit),
		t.Plan,
		string(t.Status),
		FormatDecimal(t.ExitPrice),
		FormatDecimal(t.PnL),
		t.Review,
		t.OpenedAt,
		t.ClosedAt,
	}
}

// Journal records speculative trades from open to close.
type Journal struct {
	trades Table
}

// NewJournal opens (or creates) the trade table in s.
func NewJournal(s Store) (*Journal, error) {
	trades, err := s.Table("trades", tradeHeader)
	if err != nil {
		return nil, err
	}
	return &Journal{trades: trades}, nil
}

// Trades returns all journal entries, newest first.
func (j *Journal) Trades() ([]Trade, error) {
	rows, err := j.trades.Rows()
	if err != nil {
		return nil, err
	}
	list := make([]Trade, 0, len(rows))
	for _, row := range rows {
		list = append(list, tradeFromRow(row))
	}
	sort.Slice(list, func(i, k int) bool { return list[i].ID > list[k].ID })
	return list, nil
}

// OpenTrades returns the journal entries still open, oldest first.
func (j *Journal) OpenTrades() ([]Trade, error) {
	all, err := j.Trades()
	if err != nil {
		return nil, err
	}
	list := make([]Trade, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Status == TradeOpen {
			list = append(list, all[i])
		}
	}
	return list, nil
}

// Trade returns the journal entry with the given ID.
func (j *Journal) Trade(id int) (Trade, error) {
	rows, err := j.trades.Rows()
	if err != nil {
		return Trade{}, err
	}
	i := findRow(rows, id)
	if i < 0 {
		return Trade{}, NotFoundError{Collection: "trades", ID: id}
	}
	return tradeFromRow(rows[i]), nil
}

// Open records a new trade. The plan note is mandatory; a trade without a
// written rationale is rejected.
func (j *Journal) Open(t Trade) (Trade, error) {
	if err := t.validate(); err != nil {
		return Trade{}, err
	}
	rows, err := j.trades.Rows()
	if err != nil {
		return Trade{}, err
	}
	t.ID = nextID(rows)
	t.Status = TradeOpen
	t.ExitPrice = 0
	t.PnL = 0
	t.Review = ""
	t.OpenedAt = time.Now().Format(TimestampFormat)
	t.ClosedAt = ""
	if err := j.trades.Append(t.row()); err != nil {
		return Trade{}, err
	}
	return t, nil
}

// Update edits an OPEN trade in place (entry, stops, lot, plan). ID, status
// and OpenedAt are preserved; closed trades are amendable only through
// AmendClosed.
func (j *Journal) Update(t Trade) error {
	if err := t.validate(); err != nil {
		return err
	}
	rows, err := j.trades.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, t.ID)
	if i < 0 {
		return NotFoundError{Collection: "trades", ID: t.ID}
	}
	prev := tradeFromRow(rows[i])
	if prev.Status != TradeOpen {
		return invalidf("trade %d is closed; use amend to correct it", t.ID)
	}
	t.Status = TradeOpen
	t.ExitPrice = 0
	t.PnL = 0
	t.Review = ""
	t.OpenedAt = prev.OpenedAt
	t.ClosedAt = ""
	if err := j.trades.Update(i, t.row()); err != nil {
		return err
	}
	return nil
}

// tradePnL is the absolute profit of a filled trade.
func tradePnL(d Direction, entry, exit, lot float64) float64 {
	if d == Short {
		return round2((entry - exit) * lot)
	}
	return round2((exit - entry) * lot)
}

// Close settles an open trade at exitPrice. P&L is directional: a short
// profits when the exit is below the entry. Closing a closed trade fails.
func (j *Journal) Close(id int, exitPrice float64, review string) (Trade, error) {
	if exitPrice <= 0 {
		return Trade{}, invalidf("exit price must be > 0, got %v", exitPrice)
	}
	rows, err := j.trades.Rows()
	if err != nil {
		return Trade{}, err
	}
	i := findRow(rows, id)
	if i < 0 {
		return Trade{}, NotFoundError{Collection: "trades", ID: id}
	}
	t := tradeFromRow(rows[i])
	if t.Status != TradeOpen {
		return Trade{}, invalidf("trade %d is already closed", id)
	}
	t.Status = TradeClosed
	t.ExitPrice = exitPrice
	t.PnL = tradePnL(t.Direction, t.EntryPrice, exitPrice, t.Lot)
	t.Review = review
	t.ClosedAt = time.Now().Format(TimestampFormat)
	if err := j.trades.Update(i, t.row()); err != nil {
		return Trade{}, err
	}
	return t, nil
}

// AmendClosed corrects the fills of a closed trade and recomputes its P&L.
// The lifecycle fields (status, OpenedAt, ClosedAt) stay as they are.
func (j *Journal) AmendClosed(id int, entryPrice, exitPrice, lot float64, review string) (Trade, error) {
	if entryPrice <= 0 || exitPrice <= 0 {
		return Trade{}, invalidf("amended prices must be > 0")
	}
	if lot <= 0 {
		return Trade{}, invalidf("amended lot must be > 0, got %v", lot)
	}
	rows, err := j.trades.Rows()
	if err != nil {
		return Trade{}, err
	}
	i := findRow(rows, id)
	if i < 0 {
		return Trade{}, NotFoundError{Collection: "trades", ID: id}
	}
	t := tradeFromRow(rows[i])
	if t.Status != TradeClosed {
		return Trade{}, invalidf("trade %d is still open; close it first", id)
	}
	t.EntryPrice = entryPrice
	t.ExitPrice = exitPrice
	t.Lot = lot
	t.PnL = tradePnL(t.Direction, entryPrice, exitPrice, lot)
	if review != "" {
		t.Review = review
	}
	if err := j.trades.Update(i, t.row()); err != nil {
		return Trade{}, err
	}
	return t, nil
}

// Delete removes a journal entry regardless of status.
func (j *Journal) Delete(id int) error {
	rows, err := j.trades.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, id)
	if i < 0 {
		return NotFoundError{Collection: "trades", ID: id}
	}
	return j.trades.Delete(i)
}

// JournalStats summarizes the closed trades of the journal.
type JournalStats struct {
	Closed  int
	Wins    int
	Losses  int
	WinRate Percent
	NetPnL  float64
}

// Stats aggregates the closed entries. Break-even trades count as neither
// win nor loss.
func (j *Journal) Stats() (JournalStats, error) {
	all, err := j.Trades()
	if err != nil {
		return JournalStats{}, err
	}
	var s JournalStats
	for _, t := range all {
		if t.Status != TradeClosed {
			continue
		}
		s.Closed++
		s.NetPnL += t.PnL
		switch {
		case t.PnL > 0:
			s.Wins++
		case t.PnL < 0:
			s.Losses++
		}
	}
	s.NetPnL = round2(s.NetPnL)
	s.WinRate = percentOf(float64(s.Wins), float64(s.Closed))
	return s, nil
}
