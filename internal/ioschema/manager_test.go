package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/iodb"
	"github.com/mdverse/mddb/internal/ioschema"
	"github.com/mdverse/mddb/internal/iotesting"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/mdverse/mddb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) db.Operator {
	t.Helper()

	op := iodb.NewSQLiteOperator()
	err := op.Connect(context.Background(), iotesting.GetTestConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { op.Close() })
	return op
}

func count(t *testing.T, op db.Operator, table string) int {
	t.Helper()

	var n int
	err := op.DB().QueryRow("SELECT count(*) FROM " + table).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestManager_NotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewSQLiteOperator())
	err := mgr.Create(context.Background())

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestManager_Create(t *testing.T) {
	ctx := context.Background()
	op := connect(t)
	mgr := ioschema.NewManager(op)

	err := mgr.Create(ctx)
	require.NoError(t, err)

	for _, table := range schema.TableNames() {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	err = mgr.Create(ctx)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.SchemaCreateError, gnErr.Code)
}

func TestManager_Constraints(t *testing.T) {
	ctx := context.Background()
	op := connect(t)
	require.NoError(t, ioschema.NewManager(op).Create(ctx))
	sqlDB := op.DB()

	_, err := sqlDB.Exec(`INSERT INTO datasets (origin_id, id_in_origin, title)
		VALUES (42, '1', 'T')`)
	require.Error(t, err)
	assert.True(t, op.IsForeignKeyViolation(err), "origin must exist")

	_, err = sqlDB.Exec("INSERT INTO thermostats (name) VALUES ('berendsen')")
	require.NoError(t, err)
	_, err = sqlDB.Exec("INSERT INTO thermostats (name) VALUES ('berendsen')")
	require.Error(t, err)
	assert.True(t, op.IsUniqueViolation(err))

	_, err = sqlDB.Exec("INSERT INTO software (name, version) VALUES ('gromacs', '2020')")
	require.NoError(t, err)
	_, err = sqlDB.Exec("INSERT INTO software (name, version) VALUES ('gromacs', '2021')")
	require.NoError(t, err)
	_, err = sqlDB.Exec("INSERT INTO software (name, version) VALUES ('gromacs', '2021')")
	assert.True(t, op.IsUniqueViolation(err))

	_, err = sqlDB.Exec("INSERT INTO authors (name) VALUES ('A. Name')")
	require.NoError(t, err)
	_, err = sqlDB.Exec("INSERT INTO authors (name) VALUES ('A. Name')")
	require.NoError(t, err, "authors without orcid are deduplicated by resolver")
	_, err = sqlDB.Exec("INSERT INTO authors (name, orcid) VALUES ('B', '0000-0001')")
	require.NoError(t, err)
	_, err = sqlDB.Exec("INSERT INTO authors (name, orcid) VALUES ('C', '0000-0001')")
	assert.True(t, op.IsUniqueViolation(err))
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()
	op := connect(t)
	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx))
	sqlDB := op.DB()

	stmts := []string{
		"INSERT INTO dataset_origins (origin_id, name) VALUES (1, 'zenodo')",
		"INSERT INTO file_types (file_type_id, name) VALUES (1, 'zip')",
		"INSERT INTO file_types (file_type_id, name) VALUES (2, 'gro')",
		"INSERT INTO authors (author_id, name) VALUES (1, 'A. Name')",
		`INSERT INTO datasets (dataset_id, origin_id, id_in_origin, title)
			VALUES (1, 1, '100', 'T')`,
		"INSERT INTO datasets_authors_link (dataset_id, author_id) VALUES (1, 1)",
		`INSERT INTO files (file_id, dataset_id, name, file_type_id)
			VALUES (1, 1, 'a.zip', 1)`,
		`INSERT INTO files (file_id, dataset_id, name, file_type_id,
			is_from_zip_file, parent_zip_file_id)
			VALUES (2, 1, 'a.gro', 2, TRUE, 1)`,
		"INSERT INTO topology_files (file_id, atom_number) VALUES (2, 10)",
	}
	for _, q := range stmts {
		_, err := sqlDB.Exec(q)
		require.NoError(t, err, q)
	}

	err := mgr.Reset(ctx)
	require.NoError(t, err)

	for _, table := range schema.ResettableTables() {
		assert.Equal(t, 0, count(t, op, table), table)
	}
	assert.Equal(t, 1, count(t, op, "dataset_origins"))
	assert.Equal(t, 2, count(t, op, "file_types"))
	assert.Equal(t, 1, count(t, op, "authors"))
}
