package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mdverse/mddb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "mddb"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "mddb"),
		},
		{
			msg: "raw dir",
			fn:  config.RawDir,
			res: filepath.Join(tempHome, ".cache", "mddb", "raw"),
		},
		{
			msg: "cleaned dir",
			fn:  config.CleanedDir,
			res: filepath.Join(tempHome, ".cache", "mddb", "cleaned"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "mddb", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "mddb", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Empty(t, cfg.Database.Path)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "mddb", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		assert.Equal(t, "zenodo", cfg.Fetch.Source)
		assert.Equal(t, "https://zenodo.org", cfg.Fetch.ZenodoURL)
		assert.Equal(t, "7856806", cfg.Fetch.RecordID)
		assert.Equal(t, 3, cfg.Fetch.Retries)

		assert.False(t, cfg.Ingest.Reset)
		assert.Empty(t, cfg.Ingest.MetricsFile)

		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestSQLitePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/md")})
	assert.Equal(t,
		filepath.Join("/home/md", ".local", "share", "mddb", "mddb.sqlite"),
		cfg.SQLitePath())

	cfg.Update([]config.Option{config.OptDatabasePath("/tmp/cat.sqlite")})
	assert.Equal(t, "/tmp/cat.sqlite", cfg.SQLitePath())
}

func TestIngestDir(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/md")})
	assert.Equal(t, config.CleanedDir("/home/md"), cfg.IngestDir())

	cfg.Update([]config.Option{config.OptIngestInputDir(" /data/csv ")})
	assert.Equal(t, "/data/csv", cfg.IngestDir())
}

func TestOptionDatabaseDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets postgres",
			input:    "postgres",
			expected: "postgres",
		},
		{
			name:     "normalizes case",
			input:    " Postgres ",
			expected: "postgres",
		},
		{
			name:     "ignores unknown driver",
			input:    "mysql",
			expected: "sqlite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseDriver(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionDatabasePort(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid port",
			input:    6432,
			expected: 6432,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 5432,
		},
		{
			name:     "ignores negative",
			input:    -100,
			expected: 5432,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabasePort(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Port)
		})
	}
}

func TestOptionFetch(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptFetchSource("S3"),
		config.OptFetchZenodoURL("https://sandbox.zenodo.org/"),
		config.OptFetchRecordID(" 42 "),
		config.OptFetchRetries(0),
		config.OptFetchS3Bucket("mdverse"),
		config.OptFetchS3Prefix("/snapshots/2025"),
		config.OptFetchS3Credentials("key", ""),
	})

	assert.Equal(t, "s3", cfg.Fetch.Source)
	assert.Equal(t, "https://sandbox.zenodo.org", cfg.Fetch.ZenodoURL)
	assert.Equal(t, "42", cfg.Fetch.RecordID)
	assert.Equal(t, 3, cfg.Fetch.Retries, "zero retries are ignored")
	assert.Equal(t, "mdverse", cfg.Fetch.S3.Bucket)
	assert.Equal(t, "snapshots/2025", cfg.Fetch.S3.Prefix)
	assert.Empty(t, cfg.Fetch.S3.AccessKey, "incomplete credentials are ignored")
}

func TestOptionLog(t *testing.T) {
	tests := []struct {
		name   string
		opt    config.Option
		getter func(*config.Config) string
		res    string
	}{
		{"level debug", config.OptLogLevel("DEBUG"),
			func(c *config.Config) string { return c.Log.Level }, "debug"},
		{"bad level", config.OptLogLevel("trace"),
			func(c *config.Config) string { return c.Log.Level }, "info"},
		{"format text", config.OptLogFormat("text"),
			func(c *config.Config) string { return c.Log.Format }, "text"},
		{"bad format", config.OptLogFormat("xml"),
			func(c *config.Config) string { return c.Log.Format }, "json"},
		{"stderr", config.OptLogDestination("stderr"),
			func(c *config.Config) string { return c.Log.Destination }, "stderr"},
		{"bad destination", config.OptLogDestination("syslog"),
			func(c *config.Config) string { return c.Log.Destination }, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.res, tt.getter(cfg))
		})
	}
}

func TestOptionIngest(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptIngestReset(true),
		config.OptIngestMetricsFile("/tmp/mddb.prom"),
	})
	assert.True(t, cfg.Ingest.Reset)
	assert.Equal(t, "/tmp/mddb.prom", cfg.Ingest.MetricsFile)
}

func TestToOptions(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabasePath("/srv/mddb.sqlite"),
		config.OptDatabaseHost("db"),
		config.OptFetchSource("s3"),
		config.OptFetchS3Bucket("bucket"),
		config.OptFetchS3Credentials("k", "s"),
		config.OptLogLevel("warn"),
		config.OptJobsNumber(2),
		config.OptIngestReset(true),
		config.OptIngestInputDir("/data/csv"),
		config.OptIngestMetricsFile("/tmp/mddb.prom"),
		config.OptHomeDir("/home/md"),
	})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Equal(t, src.Database, dst.Database)
	assert.Equal(t, src.Fetch, dst.Fetch)
	assert.Equal(t, src.Log, dst.Log)
	assert.Equal(t, 2, dst.JobsNumber)
	assert.Equal(t, "/data/csv", dst.Ingest.InputDir)
	assert.Equal(t, "/tmp/mddb.prom", dst.Ingest.MetricsFile)

	// runtime-only fields are not carried over
	assert.False(t, dst.Ingest.Reset)
	assert.Empty(t, dst.HomeDir)
}
