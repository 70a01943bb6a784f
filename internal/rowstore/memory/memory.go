// Package memory is an in-memory rowstore.Store for tests and dev
// environments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/skarthik/gatepass/internal/rowstore"
)

type Store struct {
	mu     sync.RWMutex
	tables map[string][]rowstore.Row
}

func New() *Store {
	return &Store{tables: make(map[string][]rowstore.Row)}
}

func (s *Store) ReadAll(_ context.Context, table string) ([]rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.tables[table]
	out := make([]rowstore.Row, len(rows))
	for i, r := range rows {
		cp := make(rowstore.Row, len(r))
		copy(cp, r)
		out[i] = cp
	}
	return out, nil
}

func (s *Store) Append(_ context.Context, table string, row rowstore.Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(rowstore.Row, len(row))
	copy(cp, row)
	s.tables[table] = append(s.tables[table], cp)
	return len(s.tables[table]) - 1, nil
}

func (s *Store) WriteCell(_ context.Context, table string, rowIndex, col int, value string) error {
	if col < 0 {
		return fmt.Errorf("invalid column %d", col)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tables[table]
	if rowIndex < 0 || rowIndex >= len(rows) {
		return fmt.Errorf("row %d out of range for table %q", rowIndex, table)
	}
	row := rows[rowIndex]
	for len(row) <= col {
		row = append(row, "")
	}
	row[col] = value
	s.tables[table][rowIndex] = row
	return nil
}

// Seed replaces the contents of table. Test helper.
func (s *Store) Seed(table string, rows []rowstore.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = rows
}
