// Package iotesting provides shared test utilities for store tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdverse/mddb/pkg/config"
)

const (
	// TestDatabaseName is the PostgreSQL database used by integration
	// tests. Tests never run against a production catalog.
	TestDatabaseName = "mddb_test"
)

// GetTestConfig returns a configuration with a temporary home
// directory and a SQLite catalog inside it. The directory is removed
// when the test finishes.
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptDatabasePath(filepath.Join(home, "mddb.sqlite")),
		config.OptIngestInputDir(filepath.Join(home, "cleaned")),
		config.OptJobsNumber(2),
	})
	return cfg
}

// GetTestPostgresConfig returns a PostgreSQL configuration for
// integration tests. Credentials come from MDDB_DATABASE_* variables,
// the database name is always TestDatabaseName.
func GetTestPostgresConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := GetTestConfig(t)
	opts := []config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabaseDatabase(TestDatabaseName),
	}
	if host := os.Getenv("MDDB_DATABASE_HOST"); host != "" {
		opts = append(opts, config.OptDatabaseHost(host))
	}
	if user := os.Getenv("MDDB_DATABASE_USER"); user != "" {
		opts = append(opts, config.OptDatabaseUser(user))
	}
	if pass := os.Getenv("MDDB_DATABASE_PASSWORD"); pass != "" {
		opts = append(opts, config.OptDatabasePassword(pass))
	}
	cfg.Update(opts)
	return cfg
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	err = os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
