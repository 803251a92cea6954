package db

import (
	"context"
	"database/sql"

	"github.com/mdverse/mddb/pkg/config"
)

// Operator defines the interface for basic catalog store management.
// It owns the connection and exposes *sql.DB so that the schema
// manager, the resolver and the ingester can run their own SQL.
// Queries are written with `?` placeholders and passed through Rebind.
type Operator interface {
	// Connect opens the store described by the configuration.
	Connect(context.Context, *config.Config) error

	// Close closes the store.
	Close() error

	// DB returns the underlying handle, nil before Connect.
	DB() *sql.DB

	// Driver returns "sqlite" or "postgres".
	Driver() string

	// Rebind converts `?` placeholders to the driver's bind style.
	Rebind(query string) string

	// IsUniqueViolation reports whether err comes from a unique or
	// primary key constraint.
	IsUniqueViolation(err error) bool

	// IsForeignKeyViolation reports whether err comes from a foreign key
	// constraint.
	IsForeignKeyViolation(err error) bool

	// TableExists checks if a table exists in the store.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the store has any tables.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops every table of the store.
	DropAllTables(ctx context.Context) error
}
