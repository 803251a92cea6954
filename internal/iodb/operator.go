package iodb

import (
	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/db"
)

// NewOperator returns the operator for the configured driver.
func NewOperator(cfg *config.Config) (db.Operator, error) {
	switch cfg.Database.Driver {
	case "", "sqlite":
		return NewSQLiteOperator(), nil
	case "postgres":
		return NewPgxOperator(), nil
	default:
		return nil, UnsupportedDriverError(cfg.Database.Driver)
	}
}
