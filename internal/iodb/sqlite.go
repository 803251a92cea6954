// Package iodb implements catalog store operators for SQLite (modernc,
// no cgo) and PostgreSQL (pgx). This is an impure I/O package that
// implements contracts defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/db"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteOperator implements db.Operator for a SQLite file.
type sqliteOperator struct {
	path string
	db   *sql.DB
}

// NewSQLiteOperator creates a new SQLite operator (without connecting).
func NewSQLiteOperator() db.Operator {
	return &sqliteOperator{}
}

// Connect opens the SQLite file, creating its directory when needed.
// The store runs on a single connection with foreign keys enforced.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.Config,
) error {
	path := cfg.SQLitePath()

	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return ConnectionError("sqlite", path, err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"+
			"&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return ConnectionError("sqlite", path, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return ConnectionError("sqlite", path, err)
	}

	s.path = path
	s.db = sqlDB
	return nil
}

// Close closes the SQLite handle.
func (s *sqliteOperator) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqliteOperator) DB() *sql.DB { return s.db }

func (s *sqliteOperator) Driver() string { return "sqlite" }

// Rebind is a no-op, SQLite understands `?`.
func (s *sqliteOperator) Rebind(query string) string { return query }

func (s *sqliteOperator) IsUniqueViolation(err error) bool {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return false
	}
	switch sErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func (s *sqliteOperator) IsForeignKeyViolation(err error) bool {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return false
	}
	return sErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// TableExists checks sqlite_master for the table.
func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT count(*) FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`

	var n int
	err := s.db.QueryRowContext(ctx, query, tableName).Scan(&n)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return n > 0, nil
}

// HasTables checks if the file has any user tables.
func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT count(*) FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	`

	var n int
	err := s.db.QueryRowContext(ctx, query).Scan(&n)
	if err != nil {
		return false, TableCheckError(err)
	}
	return n > 0, nil
}

// DropAllTables drops user tables. Foreign keys are switched off for
// the duration, so the drop order does not matter.
func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	if s.db == nil {
		return NotConnectedError()
	}

	query := `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	`
	tables, err := queryTableNames(ctx, s.db, query)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return QueryTablesError(err)
	}
	defer func() {
		_, _ = s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	}()

	for _, table := range tables {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := s.db.ExecContext(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func queryTableNames(
	ctx context.Context,
	sqlDB *sql.DB,
	query string,
) ([]string, error) {
	rows, err := sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, QueryTablesError(err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, ScanTableError(err)
		}
		tables = append(tables, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, ScanTableError(err)
	}
	return tables, nil
}
