// Package sqlite is the durable rowstore.Store. Each logical table is a
// set of (sheet, row_idx) rows holding the cell values as a JSON array,
// mirroring the whole-row shape of the shared sheets the gate office
// already keeps. The adapter exposes nothing beyond the rowstore
// boundary: no querying, no transactions for callers.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/skarthik/gatepass/internal/rowstore"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

// Store owns its connection lifecycle explicitly: Disconnected →
// Connecting → Connected, dropping back to Disconnected on any driver
// failure so the next call reconnects. Callers never see a half-open
// handle.
type Store struct {
	path string

	mu    sync.Mutex
	db    *sql.DB
	state connState
}

func Open(path string) (*Store, error) {
	s := &Store{path: path}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connectLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) connectLocked() error {
	if s.state == stateConnected && s.db != nil {
		return nil
	}
	s.state = stateConnecting
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL", s.path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		s.state = stateDisconnected
		return fmt.Errorf("%w: open %s: %v", rowstore.ErrUnavailable, s.path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		s.state = stateDisconnected
		return fmt.Errorf("%w: ping: %v", rowstore.ErrUnavailable, err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		s.state = stateDisconnected
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	s.db = db
	s.state = stateConnected
	return nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to init migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// handle returns the live connection, reconnecting if a previous call
// dropped it.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connectLocked(); err != nil {
		return nil, err
	}
	return s.db, nil
}

// fail marks the connection dead and maps err to a retryable
// ErrUnavailable. The next call goes through connectLocked again.
func (s *Store) fail(op string, err error) error {
	s.mu.Lock()
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	s.state = stateDisconnected
	s.mu.Unlock()
	return fmt.Errorf("%w: %s: %v", rowstore.ErrUnavailable, op, err)
}

func (s *Store) ReadAll(ctx context.Context, table string) ([]rowstore.Row, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY row_idx ASC
	`, table)
	if err != nil {
		return nil, s.fail("read "+table, err)
	}
	defer rows.Close()

	var out []rowstore.Row
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, s.fail("scan "+table, err)
		}
		var cells rowstore.Row
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("corrupt row in table %q: %w", table, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("iterate "+table, err)
	}
	return out, nil
}

func (s *Store) Append(ctx context.Context, table string, row rowstore.Row) (int, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return 0, fmt.Errorf("failed to encode row: %w", err)
	}
	var idx int
	err = db.QueryRowContext(ctx, `
		INSERT INTO sheet_rows (sheet, row_idx, cells)
		SELECT ?, COALESCE(MAX(row_idx) + 1, 0), ? FROM sheet_rows WHERE sheet = ?
		RETURNING row_idx
	`, table, string(raw), table).Scan(&idx)
	if err != nil {
		return 0, s.fail("append "+table, err)
	}
	return idx, nil
}

func (s *Store) WriteCell(ctx context.Context, table string, rowIndex, col int, value string) error {
	if col < 0 {
		return fmt.Errorf("invalid column %d", col)
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	// The read-modify-write below is internal to the adapter; the boundary
	// still offers callers nothing stronger than a single-cell write.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("begin "+table, err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `
		SELECT cells FROM sheet_rows WHERE sheet = ? AND row_idx = ?
	`, table, rowIndex).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("row %d out of range for table %q", rowIndex, table)
	}
	if err != nil {
		return s.fail("read cell "+table, err)
	}

	var cells rowstore.Row
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return fmt.Errorf("corrupt row %d in table %q: %w", rowIndex, table, err)
	}
	for len(cells) <= col {
		cells = append(cells, "")
	}
	cells[col] = value

	updated, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE sheet_rows SET cells = ? WHERE sheet = ? AND row_idx = ?
	`, string(updated), table, rowIndex); err != nil {
		return s.fail("write cell "+table, err)
	}
	if err := tx.Commit(); err != nil {
		return s.fail("commit "+table, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateDisconnected
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
