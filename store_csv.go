package pkm

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CSVStore persists each table as one CSV file in a directory, the local
// stand-in for the original spreadsheet workbook. Every mutation rewrites
// the file atomically (write to temp, rename), and a store-wide mutex
// serializes row-level writes.
type CSVStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSVStore opens (and creates if needed) a directory-backed store.
func NewCSVStore(dir string) (*CSVStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create store directory %q: %w", dir, err)
	}
	return &CSVStore{dir: dir}, nil
}

func (s *CSVStore) Table(name string, header []string) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &csvTable{
		store:  s,
		name:   name,
		path:   filepath.Join(s.dir, name+".csv"),
		header: append([]string(nil), header...),
	}
	if _, err := os.Stat(t.path); os.IsNotExist(err) {
		if err := t.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return t, nil
}

type csvTable struct {
	store  *CSVStore
	name   string
	path   string
	header []string
}

func (t *csvTable) Name() string { return t.name }

func (t *csvTable) Header() []string { return t.header }

// read loads all data rows from disk. The header row is skipped; rows are
// not required to have the full header width (sheets leave trailing cells
// empty), so FieldsPerRecord checking is disabled.
func (t *csvTable) read() ([][]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("could not open table %q: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read table %q: %w", t.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// write persists the header plus the given rows atomically.
func (t *csvTable) write(rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".tmp*")
	if err != nil {
		return err
	}
	w := csv.NewWriter(tmp)
	if err := w.Write(t.header); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), t.path)
}

func (t *csvTable) Rows() ([][]string, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.read()
}

func (t *csvTable) Append(row []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rows, err := t.read()
	if err != nil {
		return err
	}
	return t.write(append(rows, row))
}

func (t *csvTable) Update(i int, row []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rows, err := t.read()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(rows) {
		return fmt.Errorf("table %q: row %d out of range (%d rows)", t.path, i, len(rows))
	}
	rows[i] = row
	return t.write(rows)
}

func (t *csvTable) Delete(i int) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rows, err := t.read()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(rows) {
		return fmt.Errorf("table %q: row %d out of range (%d rows)", t.path, i, len(rows))
	}
	return t.write(append(rows[:i], rows[i+1:]...))
}

func (t *csvTable) Clear() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.write(nil)
}
