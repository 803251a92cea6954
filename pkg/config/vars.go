package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "mddb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/mddb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/mddb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// RawDir is where the retriever stores Parquet snapshot files.
func RawDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "raw")
}

// CleanedDir is where the cleaner writes CSV tables for ingestion.
func CleanedDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "cleaned")
}

// DataDir returns the directory for the default SQLite catalog.
// Returns ~/.local/share/mddb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/mddb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/mddb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLitePath returns the SQLite catalog file: Database.Path when it is
// set, otherwise mddb.sqlite in the data directory.
func (c *Config) SQLitePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(DataDir(c.HomeDir), AppName+".sqlite")
}

// IngestDir returns the directory with cleaned tables for ingestion.
func (c *Config) IngestDir() string {
	if c.Ingest.InputDir != "" {
		return c.Ingest.InputDir
	}
	return CleanedDir(c.HomeDir)
}
