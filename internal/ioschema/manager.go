// Package ioschema implements SchemaManager interface for
// catalog schema management. SQLite schema is built from DDL
// tags of models, PostgreSQL schema from GORM AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/mddb"
	"github.com/mdverse/mddb/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the mddb.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) mddb.SchemaManager {
	return &manager{operator: op}
}

// Create creates all tables of the catalog with their constraints
// and indexes.
func (m *manager) Create(ctx context.Context) error {
	if m.operator.DB() == nil {
		return NotConnectedError()
	}

	if m.operator.Driver() == "postgres" {
		return m.createPostgres(ctx)
	}
	return m.createSQLite(ctx)
}

// createSQLite runs generated DDL in one transaction.
func (m *manager) createSQLite(ctx context.Context) error {
	tx, err := m.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return CreateSchemaError("", err)
	}
	defer tx.Rollback()

	for _, model := range schema.AllModels() {
		stmts := append([]string{model.TableDDL()}, model.IndexDDL()...)
		for _, q := range stmts {
			if _, err = tx.ExecContext(ctx, q); err != nil {
				return CreateSchemaError(model.TableName(), err)
			}
		}
		slog.Debug("Created table", "table", model.TableName())
	}

	if err = tx.Commit(); err != nil {
		return CreateSchemaError("", err)
	}
	return nil
}

// createPostgres runs GORM AutoMigrate and then adds foreign keys.
func (m *manager) createPostgres(ctx context.Context) error {
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: m.operator.DB()}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError("", err)
	}

	return m.addForeignKeys(ctx)
}

// addForeignKeys adds constraints that GORM does not know about,
// because models do not declare associations.
func (m *manager) addForeignKeys(ctx context.Context) error {
	for _, fk := range schema.ForeignKeys() {
		_, err := m.operator.DB().ExecContext(ctx, fk.AlterDDL())
		if err != nil {
			return ForeignKeyError(fk.Table, fk.Column, err)
		}
	}
	return nil
}

// Reset deletes rows of fact, extension and link tables in one
// transaction, children first.
func (m *manager) Reset(ctx context.Context) error {
	if m.operator.DB() == nil {
		return NotConnectedError()
	}

	tx, err := m.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return ResetError("", err)
	}
	defer tx.Rollback()

	for _, table := range schema.ResettableTables() {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return ResetError(table, err)
		}
		n, _ := res.RowsAffected()
		slog.Info("Reset table", "table", table, "rows", n)
	}

	if err = tx.Commit(); err != nil {
		return ResetError("", err)
	}
	return nil
}
