package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// ConnectionError is returned when the store cannot be opened.
func ConnectionError(driver, target string, err error) error {
	msg := `Cannot connect to <em>%s</em> catalog at <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running or settings are wrong
  - SQLite file directory is not writable

<em>How to fix:</em>
  1. Check the database section of config.yaml
  2. For PostgreSQL run <em>pg_isready</em>
  3. For SQLite check permissions of the file directory`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{driver, target},
		Err:  fmt.Errorf("failed to connect to %s at %s: %w", driver, target, err),
	}
}

// UnsupportedDriverError is returned for unknown database drivers.
func UnsupportedDriverError(driver string) error {
	msg := `Database driver <em>%s</em> is not supported

<em>How to fix:</em>
  Set database.driver to "sqlite" or "postgres"`

	return &gn.Error{
		Code: errcode.DBUnsupportedDriverError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("unsupported database driver %q", driver),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError is returned when a table lookup fails.
func TableExistsCheckError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  "Cannot check if table <em>%s</em> exists",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// TableCheckError is returned when listing tables fails.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Cannot verify database state",
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// QueryTablesError is returned when table names cannot be queried.
func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Cannot query table names",
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError is returned when a table name cannot be scanned.
func ScanTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  "Cannot read table names",
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := `Cannot drop table <em>%s</em>

<em>Possible causes:</em>
  - Insufficient permissions
  - The table is locked by another process`

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
