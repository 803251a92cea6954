package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/iodb"
	"github.com/mdverse/mddb/internal/iotesting"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetCreateCmd_ForceFlag verifies --force flag exists.
func TestGetCreateCmd_ForceFlag(t *testing.T) {
	cmd := getCreateCmd()
	assert.Equal(t, "create", cmd.Use)
	assert.Contains(t, cmd.Short, "schema")

	forceFlag := cmd.Flags().Lookup("force")
	require.NotNil(t, forceFlag, "--force flag should exist")
	assert.Equal(t, "f", forceFlag.Shorthand)
	assert.Equal(t, "false", forceFlag.DefValue)
	assert.Contains(t, forceFlag.Usage, "drop")
}

// TestGetCreateCmd_HelpText verifies help text content.
func TestGetCreateCmd_HelpText(t *testing.T) {
	cmd := getCreateCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "mddb create --force")
	assert.Contains(t, helpText, "GORM AutoMigrate")
	assert.Contains(t, helpText, "Examples:")
}

func tableCount(t *testing.T) int {
	t.Helper()
	ctx := context.Background()
	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, cfg))
	defer op.Close()

	var n int
	err := op.DB().QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table'",
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestRunCreate(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)

	err := runCreate(nil, strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Equal(t, 21, tableCount(t))

	t.Run("declined", func(t *testing.T) {
		err := runCreate(nil, strings.NewReader("no\n"), false)
		require.NoError(t, err)
		assert.Equal(t, 21, tableCount(t))
	})

	t.Run("confirmed", func(t *testing.T) {
		err := runCreate(nil, strings.NewReader("yes\n"), false)
		require.NoError(t, err)
		assert.Equal(t, 21, tableCount(t))
	})

	t.Run("forced", func(t *testing.T) {
		err := runCreate(nil, strings.NewReader(""), true)
		require.NoError(t, err)
		assert.Equal(t, 21, tableCount(t))
	})
}

func TestRunIngest_EmptyCatalog(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)

	cmd := getIngestCmd()
	err := runIngest(cmd, false, "", "")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBEmptyDatabaseError, gnErr.Code)
}

func TestRunReport(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)
	require.NoError(t, runCreate(nil, strings.NewReader(""), true))

	cmd := getReportCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	err := runReport(cmd)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dataset_origins")
	assert.Contains(t, buf.String(), "first created")
}

func TestRunOptimize(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)

	err := runOptimize(true)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBEmptyDatabaseError, gnErr.Code)

	require.NoError(t, runCreate(nil, strings.NewReader(""), true))
	assert.NoError(t, runOptimize(true))
}
