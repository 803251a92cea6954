// Package config provides configuration management for MDdb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database, ssl_mode
//   - Fetch: source, zenodo_url, record_id, retries, s3.*
//   - Ingest: input_dir, metrics_file
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Ingest.Reset (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use MDDB_ prefix with underscores for nesting:
//
//	MDDB_DATABASE_DRIVER=sqlite
//	MDDB_DATABASE_PATH=/data/mddb.sqlite
//	MDDB_FETCH_RECORD_ID=7856806
//	MDDB_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete MDdb configuration.
type Config struct {
	// Database contains connection settings of the catalog store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Fetch contains settings of the snapshot retriever.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Ingest contains settings specific to the ingest command.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber limits parallel downloads of snapshot files.
	// Ingestion itself is always sequential.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains the catalog store parameters.
type DatabaseConfig struct {
	// Driver is either "sqlite" (default) or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. When empty, the file is kept
	// in the data directory (see SQLitePath).
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// FetchConfig describes where raw snapshot files come from.
type FetchConfig struct {
	// Source is "zenodo" (default) or "s3".
	Source string `mapstructure:"source" yaml:"source"`

	// ZenodoURL is the base URL of the Zenodo instance.
	ZenodoURL string `mapstructure:"zenodo_url" yaml:"zenodo_url"`

	// RecordID is the Zenodo record that holds the Parquet snapshot.
	RecordID string `mapstructure:"record_id" yaml:"record_id"`

	// Retries is the number of retries for each HTTP request.
	Retries int `mapstructure:"retries" yaml:"retries"`

	S3 S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config points to a bucket that mirrors the snapshot.
type S3Config struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Region string `mapstructure:"region" yaml:"region"`
	// Endpoint is set for S3-compatible stores (MinIO, Ceph...).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// AccessKey and SecretKey are optional, the default AWS credential
	// chain is used when they are empty.
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
}

// IngestConfig contains settings of a single ingestion run.
type IngestConfig struct {
	// InputDir holds the cleaned CSV tables. When empty, the cleaned
	// cache directory is used.
	InputDir string `mapstructure:"input_dir" yaml:"input_dir"`

	// Reset removes fact, extension and link rows before loading.
	// Dimension rows are kept.
	Reset bool `mapstructure:"reset" yaml:"reset"`

	// MetricsFile, if set, receives Prometheus metrics of the run in
	// the text exposition format.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "mddb",
			SSLMode:  "disable",
		},
		Fetch: FetchConfig{
			Source:    "zenodo",
			ZenodoURL: "https://zenodo.org",
			RecordID:  "7856806",
			Retries:   3,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
