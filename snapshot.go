package pkm

import "sort"

// Snapshot is a dated total in the settlement currency.
type Snapshot struct {
	Date  Date
	Total float64
}

// History is an append-only series of daily totals. One snapshot per
// calendar day: committing a second total for the same date is rejected, so
// the series can never be silently rewritten.
type History struct {
	table Table
}

var historyHeader = []string{"date", "total"}

// NewHistory opens (or creates) the named history table in s. The engine
// keeps two: "asset_history" and "debt_history".
func NewHistory(s Store, name string) (*History, error) {
	table, err := s.Table(name, historyHeader)
	if err != nil {
		return nil, err
	}
	return &History{table: table}, nil
}

// Series returns all snapshots in chronological order.
func (h *History) Series() ([]Snapshot, error) {
	rows, err := h.table.Rows()
	if err != nil {
		return nil, err
	}
	list := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		d, err := ParseDate(cell(row, 0))
		if err != nil {
			continue // tolerate a hand-mangled row rather than losing the series
		}
		list = append(list, Snapshot{Date: d, Total: ParseDecimal(cell(row, 1))})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

// Latest returns the most recent snapshot, or false for an empty series.
func (h *History) Latest() (Snapshot, bool, error) {
	list, err := h.Series()
	if err != nil {
		return Snapshot{}, false, err
	}
	if len(list) == 0 {
		return Snapshot{}, false, nil
	}
	return list[len(list)-1], true, nil
}

// On returns the snapshot for a given date, or false when that day was
// never committed.
func (h *History) On(d Date) (Snapshot, bool, error) {
	list, err := h.Series()
	if err != nil {
		return Snapshot{}, false, err
	}
	for _, s := range list {
		if s.Date == d {
			return s, true, nil
		}
	}
	return Snapshot{}, false, nil
}

// Commit appends a snapshot for date d. A snapshot already recorded for d
// returns a DuplicateSnapshotError and leaves the series unchanged.
func (h *History) Commit(d Date, total float64) (Snapshot, error) {
	if _, ok, err := h.On(d); err != nil {
		return Snapshot{}, err
	} else if ok {
		return Snapshot{}, DuplicateSnapshotError{Table: h.table.Name(), Date: d}
	}
	s := Snapshot{Date: d, Total: round2(total)}
	if err := h.table.Append([]string{d.String(), FormatDecimal(s.Total)}); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// CommitPair appends one snapshot to each of two histories for the same
// date. Both dates are checked up front, so a day already present in either
// series leaves both untouched.
func CommitPair(assets, debts *History, d Date, assetTotal, debtTotal float64) (Snapshot, Snapshot, error) {
	for _, h := range []*History{assets, debts} {
		if _, ok, err := h.On(d); err != nil {
			return Snapshot{}, Snapshot{}, err
		} else if ok {
			return Snapshot{}, Snapshot{}, DuplicateSnapshotError{Table: h.table.Name(), Date: d}
		}
	}
	a, err := assets.Commit(d, assetTotal)
	if err != nil {
		return Snapshot{}, Snapshot{}, err
	}
	b, err := debts.Commit(d, debtTotal)
	if err != nil {
		return Snapshot{}, Snapshot{}, err
	}
	return a, b, nil
}

// Change returns the difference between the two most recent snapshots, or
// false when the series has fewer than two points.
func (h *History) Change() (float64, bool, error) {
	list, err := h.Series()
	if err != nil {
		return 0, false, err
	}
	if len(list) < 2 {
		return 0, false, nil
	}
	return round2(list[len(list)-1].Total - list[len(list)-2].Total), true, nil
}
