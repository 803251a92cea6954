package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mdverse/mddb/internal/iofs"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "mddb", cmd.Use)
	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)
}

func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()

	var names []string
	for _, v := range cmd.Commands() {
		names = append(names, v.Name())
	}
	for _, v := range []string{"create", "fetch", "clean", "ingest", "report", "optimize"} {
		assert.Contains(t, names, v)
	}

	sub, _, err := cmd.Find([]string{"populate"})
	require.NoError(t, err)
	assert.Equal(t, "ingest", sub.Name(), "populate is an alias of ingest")
}

// TestGetRootCmd_ShortVersionFlag verifies
// -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	for _, flag := range []string{"-V", "--version"} {
		cmd := getRootCmd()
		cmd.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{flag})

		err := cmd.Execute()
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "v1.2.3", flag)
		assert.Contains(t, output, "abc123", flag)
		assert.NotContains(t, output, "mddb version:",
			"Should use custom version template")
	}
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "molecular dynamics")
	assert.Contains(t, helpText, "MDDB_")
	assert.Contains(t, helpText, "--driver")
}

// TestGetRootCmd_InvalidCommand verifies error on
// invalid command.
func TestGetRootCmd_InvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t,
		strings.Contains(buf.String(), "unknown") ||
			strings.Contains(err.Error(), "unknown"),
		"Error should indicate unknown command")
}

func TestFlagOptions(t *testing.T) {
	cmd := getRootCmd()
	err := cmd.ParseFlags([]string{
		"--driver", "Postgres", "--db-host", "db.example.org", "-j", "3",
	})
	require.NoError(t, err)

	c := config.New()
	c.Update(flagOptions(cmd))
	assert.Equal(t, "postgres", c.Database.Driver)
	assert.Equal(t, "db.example.org", c.Database.Host)
	assert.Equal(t, 5432, c.Database.Port, "unset flags keep defaults")
	assert.Equal(t, 3, c.JobsNumber)
}

func TestInitConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("MDDB_DATABASE_DRIVER", "postgres")
	t.Setenv("MDDB_FETCH_RECORD_ID", "123")
	t.Setenv("MDDB_INGEST_METRICS_FILE", "/tmp/mddb.prom")

	c := config.New()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))

	res, err := initConfig(home)
	require.NoError(t, err)
	c.Update(res.ToOptions())

	assert.Equal(t, "postgres", c.Database.Driver, "env overrides config file")
	assert.Equal(t, "123", c.Fetch.RecordID)
	assert.Equal(t, "https://zenodo.org", c.Fetch.ZenodoURL, "value from config file")
	assert.Equal(t, "/tmp/mddb.prom", c.Ingest.MetricsFile)
}
