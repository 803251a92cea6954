package cmd

import (
	"testing"

	"github.com/mdverse/mddb/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIngestCmd_Flags(t *testing.T) {
	cmd := getIngestCmd()
	assert.Equal(t, "ingest", cmd.Use)
	assert.Equal(t, []string{"populate"}, cmd.Aliases)

	tests := []struct {
		name  string
		short string
		def   string
	}{
		{"reset", "r", "false"},
		{"metrics-file", "m", ""},
		{"input", "i", ""},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, f, tt.name)
		assert.Equal(t, tt.short, f.Shorthand, tt.name)
		assert.Equal(t, tt.def, f.DefValue, tt.name)
	}
}

func TestGetFetchCmd_Flags(t *testing.T) {
	cmd := getFetchCmd()
	assert.Equal(t, "fetch", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("source"))
	require.NotNil(t, cmd.Flags().Lookup("record-id"))
	assert.Contains(t, cmd.Long, "MD5")
}

func TestGetCleanCmd_Flags(t *testing.T) {
	cmd := getCleanCmd()
	assert.Equal(t, "clean", cmd.Use)
	require.NotNil(t, cmd.Flags().ShorthandLookup("i"))
	require.NotNil(t, cmd.Flags().ShorthandLookup("o"))
}

func TestRunIngestOptions(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)
	dir := t.TempDir()

	cmd := getIngestCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--reset", "-i", dir}))

	// the catalog is empty, options are applied before the check
	err := runIngest(cmd, true, "", dir)
	require.Error(t, err)
	assert.True(t, cfg.Ingest.Reset)
	assert.Equal(t, dir, cfg.IngestDir())
	assert.Empty(t, cfg.Ingest.MetricsFile)
}
