package iodb_test

import (
	"context"
	"os"
	"testing"

	"github.com/mdverse/mddb/internal/iodb"
	"github.com/mdverse/mddb/internal/iotesting"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperator(t *testing.T) {
	cfg := config.New()
	op, err := iodb.NewOperator(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", op.Driver())

	cfg.Update([]config.Option{config.OptDatabaseDriver("postgres")})
	op, err = iodb.NewOperator(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", op.Driver())
	assert.Equal(t, "SELECT $1", op.Rebind("SELECT ?"))

	cfg.Database.Driver = "mysql"
	_, err = iodb.NewOperator(cfg)
	assert.Error(t, err)
}

func TestSQLiteOperator_NotConnected(t *testing.T) {
	op := iodb.NewSQLiteOperator()
	ctx := context.Background()

	assert.Nil(t, op.DB())
	_, err := op.TableExists(ctx, "files")
	assert.Error(t, err)
	_, err = op.HasTables(ctx)
	assert.Error(t, err)
	assert.Error(t, op.DropAllTables(ctx))
	assert.NoError(t, op.Close())
}

func TestSQLiteOperator_Connect(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	op := iodb.NewSQLiteOperator()
	ctx := context.Background()

	err := op.Connect(ctx, cfg)
	require.NoError(t, err)
	defer op.Close()

	_, err = os.Stat(cfg.SQLitePath())
	assert.NoError(t, err, "SQLite file should be created")

	var fk int
	err = op.DB().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "Foreign keys should be enforced")

	hasTables, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, hasTables)
}

func TestSQLiteOperator_Tables(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	op := iodb.NewSQLiteOperator()
	ctx := context.Background()

	require.NoError(t, op.Connect(ctx, cfg))
	defer op.Close()

	db := op.DB()
	_, err := db.ExecContext(ctx,
		"CREATE TABLE parents (id INTEGER PRIMARY KEY, name TEXT UNIQUE)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`CREATE TABLE children (
			id INTEGER PRIMARY KEY,
			parent_id INTEGER NOT NULL REFERENCES parents(id)
		)`)
	require.NoError(t, err)

	exists, err := op.TableExists(ctx, "parents")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = op.TableExists(ctx, "nonexistent_table")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = db.ExecContext(ctx, "INSERT INTO parents (id, name) VALUES (1, 'a')")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO children (parent_id) VALUES (1)")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO parents (name) VALUES ('a')")
	require.Error(t, err)
	assert.True(t, op.IsUniqueViolation(err))
	assert.False(t, op.IsForeignKeyViolation(err))

	_, err = db.ExecContext(ctx, "INSERT INTO children (parent_id) VALUES (42)")
	require.Error(t, err)
	assert.True(t, op.IsForeignKeyViolation(err))
	assert.False(t, op.IsUniqueViolation(err))

	err = op.DropAllTables(ctx)
	require.NoError(t, err)

	hasTables, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, hasTables, "All tables should be dropped")
}

func TestPgxOperator_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestPostgresConfig(t))
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()

	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err)
	assert.False(t, exists)
}
