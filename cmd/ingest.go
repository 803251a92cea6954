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
	"errors"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/ioingest"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/spf13/cobra"
)

// getIngestCmd returns the ingest command.
func getIngestCmd() *cobra.Command {
	var (
		reset       bool
		metricsFile string
		inputDir    string
	)

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load cleaned tables into the catalog",
		Long: `Load cleaned CSV tables into the catalog.

This command:
  1. Connects to the catalog created by 'mddb create'
  2. Reads datasets, files, topology, parameter, trajectory and
     molecule tables
  3. Loads them in phases:
     - Vocabulary (origins, file types, thermostats, keywords...)
     - Datasets with authors and keywords
     - Files, archives before their members
     - Topology, parameter and trajectory attributes
     - Molecules
  4. Verifies archive chains and prints a summary

Records that cannot be loaded are skipped and counted by kind
(referential, duplicate, malformed).

Running ingest twice on the same tables duplicates datasets and
files. Use --reset to delete them first; vocabulary is kept.

Examples:
  mddb ingest
  mddb ingest --reset
  mddb populate -i ./cleaned -m /var/lib/node_exporter/mddb.prom`,
		Aliases: []string{"populate"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runIngest(cmd, reset, metricsFile, inputDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	ingestCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"delete datasets, files and their links before loading")
	ingestCmd.Flags().StringVarP(&metricsFile, "metrics-file", "m", "",
		"write Prometheus metrics of the run to a file")
	ingestCmd.Flags().StringVarP(&inputDir, "input", "i", "",
		"directory with cleaned tables (default ~/.cache/mddb/cleaned)")

	return ingestCmd
}

func runIngest(
	cmd *cobra.Command,
	reset bool,
	metricsFile, inputDir string,
) error {
	ctx := context.Background()

	var ingestOpts []config.Option
	if cmd.Flags().Changed("reset") {
		ingestOpts = append(ingestOpts, config.OptIngestReset(reset))
	}
	if cmd.Flags().Changed("metrics-file") {
		ingestOpts = append(ingestOpts, config.OptIngestMetricsFile(metricsFile))
	}
	if cmd.Flags().Changed("input") {
		ingestOpts = append(ingestOpts, config.OptIngestInputDir(inputDir))
	}
	cfg.Update(ingestOpts)

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}
	if !hasTables {
		return &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Catalog appears to be empty.</err>
   Run <em>'mddb create'</em> first to initialize the schema.`,
			Err: errors.New("cannot ingest into empty catalog"),
		}
	}

	ingester := ioingest.New(cfg, op)
	if _, err = ingester.Ingest(ctx, cfg.IngestDir()); err != nil {
		return err
	}

	gn.Info("Next step: run '<em>mddb report</em>'")
	return nil
}
