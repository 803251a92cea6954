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

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/ioclean"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/spf13/cobra"
)

// getCleanCmd returns the clean command.
func getCleanCmd() *cobra.Command {
	var rawDir, outDir string

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Convert the raw snapshot into cleaned tables",
		Long: `Convert raw Parquet files into cleaned CSV tables.

Cleaning renames columns, repairs broken UTF-8, replaces missing
thermostat, barostat and integrator values with sentinels
('unknown', 'undefined') and normalizes dates.

Examples:
  mddb clean
  mddb clean -i ./raw -o ./cleaned`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runClean(rawDir, outDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cleanCmd.Flags().StringVarP(&rawDir, "input", "i", "",
		"directory with raw Parquet files (default ~/.cache/mddb/raw)")
	cleanCmd.Flags().StringVarP(&outDir, "output", "o", "",
		"directory for cleaned tables (default ~/.cache/mddb/cleaned)")

	return cleanCmd
}

func runClean(rawDir, outDir string) error {
	ctx := context.Background()

	if rawDir == "" {
		rawDir = config.RawDir(cfg.HomeDir)
	}
	if outDir == "" {
		outDir = config.CleanedDir(cfg.HomeDir)
	}

	if err := ioclean.New().Clean(ctx, rawDir, outDir); err != nil {
		return err
	}

	gn.Info("Cleaned tables are in <em>%s</em>", outDir)
	gn.Info("Next step: run '<em>mddb ingest</em>'")
	return nil
}
