package pkm

import (
	"sort"
	"time"
)

// Ledger holds the open positions, the closed-position archive and the debt
// entries of a portfolio, all backed by the same tabular store.
//
// Every mutation notifies the registered OnMutate hooks so that downstream
// caches (valuation rows, FX) can invalidate themselves.
type Ledger struct {
	assets Table
	closed Table
	debts  Table

	hooks []func()
}

// NewLedger opens (or creates) the three ledger tables in s.
func NewLedger(s Store) (*Ledger, error) {
	assets, err := s.Table("assets", assetHeader)
	if err != nil {
		return nil, err
	}
	closed, err := s.Table("closed_positions", closedHeader)
	if err != nil {
		return nil, err
	}
	debts, err := s.Table("debts", debtHeader)
	if err != nil {
		return nil, err
	}
	return &Ledger{assets: assets, closed: closed, debts: debts}, nil
}

// OnMutate registers fn to run after every successful mutation.
func (l *Ledger) OnMutate(fn func()) { l.hooks = append(l.hooks, fn) }

func (l *Ledger) mutated() {
	for _, fn := range l.hooks {
		fn()
	}
}

// Assets returns all open positions, sorted by ID.
func (l *Ledger) Assets() ([]Asset, error) {
	rows, err := l.assets.Rows()
	if err != nil {
		return nil, err
	}
	list := make([]Asset, 0, len(rows))
	for _, row := range rows {
		list = append(list, assetFromRow(row))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// AssetsByType returns the open positions of one asset class.
func (l *Ledger) AssetsByType(t AssetType) ([]Asset, error) {
	all, err := l.Assets()
	if err != nil {
		return nil, err
	}
	list := make([]Asset, 0, len(all))
	for _, a := range all {
		if a.Type == t {
			list = append(list, a)
		}
	}
	return list, nil
}

// Asset returns the open position with the given ID.
func (l *Ledger) Asset(id int) (Asset, error) {
	all, err := l.Assets()
	if err != nil {
		return Asset{}, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return Asset{}, NotFoundError{Collection: "assets", ID: id}
}

// Add validates a and appends it with the next free ID. The asset's ID and
// CreatedAt are assigned here, whatever the caller set.
func (l *Ledger) Add(a Asset) (Asset, error) {
	if err := a.validate(); err != nil {
		return Asset{}, err
	}
	rows, err := l.assets.Rows()
	if err != nil {
		return Asset{}, err
	}
	a.ID = nextID(rows)
	a.CreatedAt = time.Now().Format(TimestampFormat)
	if err := l.assets.Append(a.row()); err != nil {
		return Asset{}, err
	}
	l.mutated()
	return a, nil
}

// Edit replaces the stored asset with the same ID. ID and CreatedAt are
// preserved from the stored row.
func (l *Ledger) Edit(a Asset) error {
	if err := a.validate(); err != nil {
		return err
	}
	rows, err := l.assets.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, a.ID)
	if i < 0 {
		return NotFoundError{Collection: "assets", ID: a.ID}
	}
	prev := assetFromRow(rows[i])
	a.CreatedAt = prev.CreatedAt
	if err := l.assets.Update(i, a.row()); err != nil {
		return err
	}
	l.mutated()
	return nil
}

// Delete removes an open position without archiving it.
func (l *Ledger) Delete(id int) error {
	rows, err := l.assets.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, id)
	if i < 0 {
		return NotFoundError{Collection: "assets", ID: id}
	}
	if err := l.assets.Delete(i); err != nil {
		return err
	}
	l.mutated()
	return nil
}

// Close archives the open position id as a closed position and removes it
// from the open ledger, in that order. The profit/loss percentage is
// computed from the recorded buy price and the given sell price.
//
// Closing an already-closed (or unknown) ID returns a NotFoundError and
// leaves both tables untouched.
func (l *Ledger) Close(id int, sellPrice float64, sellDate Date, notes string) (ClosedPosition, error) {
	if sellPrice <= 0 {
		return ClosedPosition{}, invalidf("sell price must be > 0, got %v", sellPrice)
	}
	rows, err := l.assets.Rows()
	if err != nil {
		return ClosedPosition{}, err
	}
	i := findRow(rows, id)
	if i < 0 {
		return ClosedPosition{}, NotFoundError{Collection: "assets", ID: id}
	}
	a := assetFromRow(rows[i])

	buyDate := sellDate
	if t, err := ParseDate(a.CreatedAt); err == nil {
		buyDate = t
	}
	c := ClosedPosition{
		Symbol:     a.Symbol,
		Type:       a.Type,
		Amount:     a.Amount,
		BuyPrice:   a.BuyPrice,
		SellPrice:  sellPrice,
		ProfitLoss: profitLossPercent(a.BuyPrice, sellPrice),
		BuyDate:    buyDate,
		SellDate:   sellDate,
		Notes:      notes,
		CreatedAt:  time.Now().Format(TimestampFormat),
	}
	closedRows, err := l.closed.Rows()
	if err != nil {
		return ClosedPosition{}, err
	}
	c.ID = nextID(closedRows)
	// Archive first: a crash between the two writes leaves a duplicate to
	// clean up rather than a silently vanished position.
	if err := l.closed.Append(c.row()); err != nil {
		return ClosedPosition{}, err
	}
	if err := l.assets.Delete(i); err != nil {
		return ClosedPosition{}, err
	}
	l.mutated()
	return c, nil
}

// profitLossPercent is the long-position return of a buy/sell price pair.
// A zero buy price yields zero, so a hand-mangled row never divides by zero.
func profitLossPercent(buy, sell float64) Percent {
	return percentOf(sell-buy, buy)
}

// Closed returns the closed-position archive, most recent sell date first.
func (l *Ledger) Closed() ([]ClosedPosition, error) {
	rows, err := l.closed.Rows()
	if err != nil {
		return nil, err
	}
	list := make([]ClosedPosition, 0, len(rows))
	for _, row := range rows {
		list = append(list, closedFromRow(row))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SellDate == list[j].SellDate {
			return list[i].ID > list[j].ID
		}
		return list[i].SellDate.After(list[j].SellDate)
	})
	return list, nil
}

// AddClosed appends a manually entered closed position (an import of a trade
// closed outside the tool). ProfitLoss is recomputed from the prices.
func (l *Ledger) AddClosed(c ClosedPosition) (ClosedPosition, error) {
	if err := validateClosed(c); err != nil {
		return ClosedPosition{}, err
	}
	rows, err := l.closed.Rows()
	if err != nil {
		return ClosedPosition{}, err
	}
	c.ID = nextID(rows)
	c.ProfitLoss = profitLossPercent(c.BuyPrice, c.SellPrice)
	c.CreatedAt = time.Now().Format(TimestampFormat)
	if err := l.closed.Append(c.row()); err != nil {
		return ClosedPosition{}, err
	}
	l.mutated()
	return c, nil
}

// EditClosed replaces a closed position, preserving ID and CreatedAt and
// recomputing ProfitLoss.
func (l *Ledger) EditClosed(c ClosedPosition) error {
	if err := validateClosed(c); err != nil {
		return err
	}
	rows, err := l.closed.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, c.ID)
	if i < 0 {
		return NotFoundError{Collection: "closed_positions", ID: c.ID}
	}
	prev := closedFromRow(rows[i])
	c.CreatedAt = prev.CreatedAt
	c.ProfitLoss = profitLossPercent(c.BuyPrice, c.SellPrice)
	if err := l.closed.Update(i, c.row()); err != nil {
		return err
	}
	l.mutated()
	return nil
}

// DeleteClosed removes an archived position.
func (l *Ledger) DeleteClosed(id int) error {
	rows, err := l.closed.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, id)
	if i < 0 {
		return NotFoundError{Collection: "closed_positions", ID: id}
	}
	if err := l.closed.Delete(i); err != nil {
		return err
	}
	l.mutated()
	return nil
}

func validateClosed(c ClosedPosition) error {
	if c.Symbol == "" {
		return invalidf("closed position symbol must not be empty")
	}
	if c.Amount <= 0 {
		return invalidf("closed position amount must be > 0, got %v", c.Amount)
	}
	if c.BuyPrice <= 0 || c.SellPrice <= 0 {
		return invalidf("closed position prices must be > 0")
	}
	if c.SellDate.Before(c.BuyDate) {
		return invalidf("sell date %s precedes buy date %s", c.SellDate, c.BuyDate)
	}
	return nil
}

// ClosedStats summarizes the archive for reporting.
type ClosedStats struct {
	Count       int
	Wins        int
	Losses      int
	WinRate     Percent
	AvgReturn   Percent
	BestReturn  Percent
	WorstReturn Percent
}

// Stats aggregates the closed-position archive. Positions with a zero
// profit/loss count as neither win nor loss.
func (l *Ledger) Stats() (ClosedStats, error) {
	list, err := l.Closed()
	if err != nil {
		return ClosedStats{}, err
	}
	var s ClosedStats
	s.Count = len(list)
	if s.Count == 0 {
		return s, nil
	}
	var sum float64
	s.BestReturn = list[0].ProfitLoss
	s.WorstReturn = list[0].ProfitLoss
	for _, c := range list {
		sum += float64(c.ProfitLoss)
		switch {
		case c.ProfitLoss > 0:
			s.Wins++
		case c.ProfitLoss < 0:
			s.Losses++
		}
		if c.ProfitLoss > s.BestReturn {
			s.BestReturn = c.ProfitLoss
		}
		if c.ProfitLoss < s.WorstReturn {
			s.WorstReturn = c.ProfitLoss
		}
	}
	s.WinRate = percentOf(float64(s.Wins), float64(s.Count))
	s.AvgReturn = Percent(round2(sum / float64(s.Count)))
	return s, nil
}

// Baskets returns the distinct non-empty basket tags of the open ledger.
func (l *Ledger) Baskets() ([]string, error) {
	all, err := l.Assets()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var baskets []string
	for _, a := range all {
		if a.Basket != "" && !seen[a.Basket] {
			seen[a.Basket] = true
			baskets = append(baskets, a.Basket)
		}
	}
	sort.Strings(baskets)
	return baskets, nil
}

// AssetsByBasket returns the open positions tagged with basket.
func (l *Ledger) AssetsByBasket(basket string) ([]Asset, error) {
	all, err := l.Assets()
	if err != nil {
		return nil, err
	}
	list := make([]Asset, 0, len(all))
	for _, a := range all {
		if a.Basket == basket {
			list = append(list, a)
		}
	}
	return list, nil
}

// Debts returns all debt entries, sorted by ID.
func (l *Ledger) Debts() ([]Debt, error) {
	rows, err := l.debts.Rows()
	if err != nil {
		return nil, err
	}
	list := make([]Debt, 0, len(rows))
	for _, row := range rows {
		list = append(list, debtFromRow(row))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// AddDebt appends a debt entry.
func (l *Ledger) AddDebt(d Debt) (Debt, error) {
	if d.Description == "" {
		return Debt{}, invalidf("debt description must not be empty")
	}
	if d.Amount <= 0 {
		return Debt{}, invalidf("debt amount must be > 0, got %v", d.Amount)
	}
	rows, err := l.debts.Rows()
	if err != nil {
		return Debt{}, err
	}
	d.ID = nextID(rows)
	d.CreatedAt = time.Now().Format(TimestampFormat)
	if err := l.debts.Append(d.row()); err != nil {
		return Debt{}, err
	}
	l.mutated()
	return d, nil
}

// EditDebt replaces a debt entry, preserving ID and CreatedAt.
func (l *Ledger) EditDebt(d Debt) error {
	if d.Description == "" {
		return invalidf("debt description must not be empty")
	}
	if d.Amount <= 0 {
		return invalidf("debt amount must be > 0, got %v", d.Amount)
	}
	rows, err := l.debts.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, d.ID)
	if i < 0 {
		return NotFoundError{Collection: "debts", ID: d.ID}
	}
	prev := debtFromRow(rows[i])
	d.CreatedAt = prev.CreatedAt
	if err := l.debts.Update(i, d.row()); err != nil {
		return err
	}
	l.mutated()
	return nil
}

// DeleteDebt removes a debt entry.
func (l *Ledger) DeleteDebt(id int) error {
	rows, err := l.debts.Rows()
	if err != nil {
		return err
	}
	i := findRow(rows, id)
	if i < 0 {
		return NotFoundError{Collection: "debts", ID: id}
	}
	if err := l.debts.Delete(i); err != nil {
		return err
	}
	l.mutated()
	return nil
}

// TotalDebt sums all debt amounts.
func (l *Ledger) TotalDebt() (float64, error) {
	list, err := l.Debts()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, d := range list {
		total += d.Amount
	}
	return total, nil
}
