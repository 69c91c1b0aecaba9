// Package storage persists catalog rows into a single-table SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/davosmed/fb2sqlite/internal/common"
)

// TableName is the fixed destination table for catalog rows.
const TableName = "data"

// CatalogStore is the single writer to the output database. One run hands it
// a header, then rows in order, then a commit; nothing else touches the
// database in between. A mid-stream failure rolls the whole transaction
// back, so a partial catalog is never left visible.
type CatalogStore struct {
	db      *sql.DB
	tx      *sql.Tx
	insert  *sql.Stmt
	dbPath  string
	columns int
}

// NewCatalogStore opens (or creates) the database at dbPath.
func NewCatalogStore(dbPath string) (*CatalogStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty database path", common.ErrSink)
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %v", common.ErrSink, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", common.ErrSink, err)
	}

	// A single connection both suits SQLite and enforces the single-writer
	// invariant at the pool level.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", common.ErrSink, err)
	}

	return &CatalogStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *CatalogStore) Close() error {
	return s.db.Close()
}

// Begin derives the schema from the header row, drops and recreates the
// destination table with one TEXT column per field, and opens the
// transaction every insert runs in.
func (s *CatalogStore) Begin(ctx context.Context, header []string) error {
	if len(header) == 0 {
		return fmt.Errorf("%w: empty header row", common.ErrSink)
	}
	if s.tx != nil {
		return fmt.Errorf("%w: transaction already open", common.ErrSink)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", common.ErrSink, err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = fmt.Sprintf("%q TEXT", SanitizeColumn(h))
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+TableName); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: dropping table: %v", common.ErrSink, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: creating table: %v", common.ErrSink, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", TableName, placeholders))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: preparing insert: %v", common.ErrSink, err)
	}

	s.tx = tx
	s.insert = insert
	s.columns = len(header)
	return nil
}

// Write inserts one row inside the open transaction. Short rows are padded
// with empty strings to the column count; long rows are cut to it.
func (s *CatalogStore) Write(ctx context.Context, row []string) error {
	if s.insert == nil {
		return fmt.Errorf("%w: write before Begin", common.ErrSink)
	}

	vals := make([]any, s.columns)
	for i := range vals {
		if i < len(row) {
			vals[i] = row[i]
		} else {
			vals[i] = ""
		}
	}
	if _, err := s.insert.ExecContext(ctx, vals...); err != nil {
		return fmt.Errorf("%w: inserting row: %v", common.ErrSink, err)
	}
	return nil
}

// Commit finishes the run's transaction. The coordinator calls it only after
// every row has been handed over.
func (s *CatalogStore) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("%w: commit before Begin", common.ErrSink)
	}
	_ = s.insert.Close()
	err := s.tx.Commit()
	s.tx = nil
	s.insert = nil
	if err != nil {
		return fmt.Errorf("%w: committing: %v", common.ErrSink, err)
	}
	return nil
}

// Rollback abandons the open transaction, if any.
func (s *CatalogStore) Rollback() error {
	if s.tx == nil {
		return nil
	}
	if s.insert != nil {
		_ = s.insert.Close()
	}
	err := s.tx.Rollback()
	s.tx = nil
	s.insert = nil
	return err
}

// SanitizeColumn replaces every non-alphanumeric rune with an underscore so
// arbitrary header text becomes a valid column name.
func SanitizeColumn(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
}
