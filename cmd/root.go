/*
Copyright © 2026 The MDverse authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/iodb"
	"github.com/mdverse/mddb/internal/iofs"
	"github.com/mdverse/mddb/internal/iologger"
	app "github.com/mdverse/mddb/pkg"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
	logFile io.Closer
)

// getRootCmd returns the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "mddb",
		Short:   "MDdb builds a catalog of molecular dynamics datasets",
		Long: `MDdb builds a relational catalog of molecular dynamics datasets
harvested from public repositories such as Zenodo, Figshare and OSF.

The lifecycle of the catalog:
  - fetch:  download the Parquet snapshot (Zenodo or S3)
  - clean:  convert the snapshot into cleaned CSV tables
  - create: create the schema in SQLite or PostgreSQL
  - ingest: load cleaned tables, resolving vocabulary and archives
  - report: print table sizes and datasets per origin

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (MDDB_*)
  3. Config file (~/.config/mddb/config.yaml)
  4. Built-in defaults

Environment variables use underscores for nested fields,
for example MDDB_DATABASE_DRIVER or MDDB_FETCH_RECORD_ID.`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	// Remove the automatic "mddb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for mddb")

	databaseFlags(rootCmd)

	rootCmd.AddCommand(
		getCreateCmd(),
		getFetchCmd(),
		getCleanCmd(),
		getIngestCmd(),
		getReportCmd(),
		getOptimizeCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Logging with defaults until the config is read.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if logFile, err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	cfg.Update(flagOptions(cmd))

	logFile.Close()
	logDir := config.LogDir(cfg.HomeDir)
	if logFile, err = iologger.Init(logDir, cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// connect opens the catalog store set in the configuration.
func connect(ctx context.Context) (db.Operator, error) {
	op, err := iodb.NewOperator(cfg)
	if err != nil {
		return nil, err
	}
	if err = op.Connect(ctx, cfg); err != nil {
		return nil, err
	}

	if op.Driver() == "sqlite" {
		gn.Info("Connected to SQLite catalog <em>%s</em>", cfg.SQLitePath())
	} else {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	}
	return op, nil
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ParseConfigError(err)
	}

	res := config.New()
	if err = v.Unmarshal(res); err != nil {
		return nil, iofs.ParseConfigError(err)
	}

	return res, nil
}

// initEnvVars lists the allowed environment variables. They match the
// persistent fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("MDDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"database.driver",
		"database.path",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",

		"fetch.source",
		"fetch.zenodo_url",
		"fetch.record_id",
		"fetch.retries",
		"fetch.s3.bucket",
		"fetch.s3.prefix",
		"fetch.s3.region",
		"fetch.s3.endpoint",
		"fetch.s3.access_key",
		"fetch.s3.secret_key",

		"ingest.input_dir",
		"ingest.metrics_file",

		"log.level",
		"log.format",
		"log.destination",

		"jobs_number",
	}
	for _, k := range keys {
		env := "MDDB_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))
		v.BindEnv(k, env)
	}

	v.AutomaticEnv()
}
