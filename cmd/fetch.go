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
	"github.com/mdverse/mddb/internal/iofetch"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	var source, recordID string

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the raw Parquet snapshot",
		Long: `Download the raw snapshot of the catalog as Parquet files.

Sources:
  zenodo  every *.parquet file of a Zenodo record, MD5 verified
  s3      every *.parquet object under a bucket prefix

Files are saved to ~/.cache/mddb/raw. Downloads run in parallel,
limited by jobs_number.

Examples:
  mddb fetch
  mddb fetch --record-id 7856806
  mddb fetch -s s3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(cmd, source, recordID)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fetchCmd.Flags().StringVarP(&source, "source", "s", "",
		"snapshot source: zenodo or s3")
	fetchCmd.Flags().StringVar(&recordID, "record-id", "",
		"Zenodo record with the snapshot")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, source, recordID string) error {
	ctx := context.Background()

	var fetchOpts []config.Option
	if cmd.Flags().Changed("source") {
		fetchOpts = append(fetchOpts, config.OptFetchSource(source))
	}
	if cmd.Flags().Changed("record-id") {
		fetchOpts = append(fetchOpts, config.OptFetchRecordID(recordID))
	}
	cfg.Update(fetchOpts)

	r, err := iofetch.New(cfg)
	if err != nil {
		return err
	}

	dir := config.RawDir(cfg.HomeDir)
	files, err := r.Fetch(ctx, dir)
	if err != nil {
		return err
	}

	gn.Info("Downloaded <em>%d</em> files to <em>%s</em>", len(files), dir)
	gn.Info("Next step: run '<em>mddb clean</em>'")
	return nil
}
