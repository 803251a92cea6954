package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to database with GORM

<em>Possible causes:</em>
  - Connection pool not initialized
  - Database configuration issue

<em>How to fix:</em>
  1. Ensure database operator is connected
  2. Check database configuration`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(table string, err error) error {
	msg := `Cannot create table <em>%s</em> of the catalog

<em>Possible causes:</em>
  - The table already exists
  - Insufficient database permissions

<em>How to fix:</em>
  1. Run <em>mddb create --force</em> to recreate the schema
  2. Check database user has CREATE permissions`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to create schema at %s: %w", table, err),
	}
}

// ForeignKeyError creates an error for constraints that could not
// be added after AutoMigrate.
func ForeignKeyError(table, column string, err error) error {
	msg := "Cannot add foreign key to <em>%s.%s</em>"

	return &gn.Error{
		Code: errcode.SchemaForeignKeyError,
		Msg:  msg,
		Vars: []any{table, column},
		Err: fmt.Errorf("failed to add foreign key %s.%s: %w",
			table, column, err),
	}
}

// ResetError creates an error for failures to empty a table.
func ResetError(table string, err error) error {
	msg := `Cannot delete rows of <em>%s</em>

<em>How to fix:</em>
  Recreate the catalog with <em>mddb create --force</em>`

	return &gn.Error{
		Code: errcode.SchemaResetError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to reset %s: %w", table, err),
	}
}
