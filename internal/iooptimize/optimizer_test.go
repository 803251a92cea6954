package iooptimize_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/iodb"
	"github.com/mdverse/mddb/internal/iooptimize"
	"github.com/mdverse/mddb/internal/ioschema"
	"github.com/mdverse/mddb/internal/iotesting"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) db.Operator {
	t.Helper()

	ctx := context.Background()
	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestConfig(t)))
	t.Cleanup(func() { op.Close() })
	require.NoError(t, ioschema.NewManager(op).Create(ctx))

	stmts := []string{
		"INSERT INTO dataset_origins (origin_id, name) VALUES (1, 'zenodo')",
		`INSERT INTO datasets (dataset_id, origin_id, id_in_origin, title)
			VALUES (1, 1, '1', 'A')`,
		"INSERT INTO authors (author_id, name) VALUES (1, 'Ada')",
		"INSERT INTO authors (author_id, name) VALUES (2, 'Bob')",
		"INSERT INTO authors (author_id, name) VALUES (3, 'Cy')",
		"INSERT INTO datasets_authors_link (dataset_id, author_id) VALUES (1, 1)",
		"INSERT INTO keywords (keyword_id, name) VALUES (1, 'lipid')",
	}
	for _, q := range stmts {
		_, err := op.DB().Exec(q)
		require.NoError(t, err, q)
	}
	return op
}

func count(t *testing.T, op db.Operator, table string) int {
	t.Helper()
	var n int
	err := op.DB().QueryRow("SELECT count(*) FROM " + table).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestOptimize(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		msg           string
		removeOrphans bool
		authors       int
		keywords      int
	}{
		{"keep orphans", false, 3, 1},
		{"remove orphans", true, 1, 0},
	}

	for _, v := range tests {
		op := setup(t)
		err := iooptimize.New(op, v.removeOrphans).Optimize(context.Background())
		require.NoError(t, err, v.msg)
		assert.Equal(v.authors, count(t, op, "authors"), v.msg)
		assert.Equal(v.keywords, count(t, op, "keywords"), v.msg)
		assert.Equal(1, count(t, op, "datasets"), v.msg)
	}
}

func TestOptimize_NoSchema(t *testing.T) {
	ctx := context.Background()
	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestConfig(t)))
	defer op.Close()

	err := iooptimize.New(op, true).Optimize(ctx)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.OptimizeOrphansError, gnErr.Code)
}
