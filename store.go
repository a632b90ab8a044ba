package pkm

import (
	"fmt"
	"sync"
)

// Table is one named sheet of the tabular store: a fixed header row followed
// by data rows addressed by position. This mirrors the full surface the
// engine needs from its backing store: bulk read, single-row append,
// single-row update and single-row delete.
type Table interface {
	// Name identifies the table within its store.
	Name() string
	// Header returns the fixed header row.
	Header() []string
	// Rows returns all data rows (the header excluded). Cells are plain
	// strings regardless of apparent numeric type.
	Rows() ([][]string, error)
	// Append adds one row at the end.
	Append(row []string) error
	// Update replaces the row at the given 0-based position.
	Update(i int, row []string) error
	// Delete removes the row at the given 0-based position.
	Delete(i int) error
	// Clear removes all data rows, keeping the header.
	Clear() error
}

// Store opens named tables, creating them with the given header when absent.
type Store interface {
	Table(name string, header []string) (Table, error)
}

// nextID assigns row identity as max existing ID + 1, reading the first
// column of each row through the normalizer.
func nextID(rows [][]string) int {
	max := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if id := ParseID(row[0]); id > max {
			max = id
		}
	}
	return max + 1
}

// findRow returns the position of the row whose first column matches id, or
// -1 if absent.
func findRow(rows [][]string, id int) int {
	for i, row := range rows {
		if len(row) > 0 && ParseID(row[0]) == id {
			return i
		}
	}
	return -1
}

// cell returns the i-th cell of a row, tolerating short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// MemStore is an in-memory Store. The backing store serializes row-level
// writes; MemStore does the same with a single mutex so tests exercise the
// same discipline.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

func (s *MemStore) Table(name string, header []string) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		t = &memTable{store: s, name: name, header: append([]string(nil), header...)}
		s.tables[name] = t
	}
	return t, nil
}

type memTable struct {
	store  *MemStore
	name   string
	header []string
	rows   [][]string
}

func (t *memTable) Name() string { return t.name }

func (t *memTable) Header() []string { return t.header }

func (t *memTable) Rows() ([][]string, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (t *memTable) Append(row []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

func (t *memTable) Update(i int, row []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("row %d out of range (%d rows)", i, len(t.rows))
	}
	t.rows[i] = append([]string(nil), row...)
	return nil
}

func (t *memTable) Delete(i int) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("row %d out of range (%d rows)", i, len(t.rows))
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *memTable) Clear() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.rows = nil
	return nil
}
