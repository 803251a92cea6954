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
	"github.com/mdverse/mddb/internal/iooptimize"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/spf13/cobra"
)

// getOptimizeCmd returns the optimize command.
func getOptimizeCmd() *cobra.Command {
	var removeOrphans bool

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compact the catalog and refresh statistics",
		Long: `Compact the catalog after ingestion.

With --remove-orphans, authors, keywords and software that no dataset
or file refers to are deleted first. Then VACUUM and ANALYZE run on
the store.

Examples:
  mddb optimize
  mddb optimize --remove-orphans`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runOptimize(removeOrphans)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	optimizeCmd.Flags().BoolVar(&removeOrphans, "remove-orphans", false,
		"delete vocabulary rows nothing refers to")

	return optimizeCmd
}

func runOptimize(removeOrphans bool) error {
	ctx := context.Background()

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
			Err: errors.New("cannot optimize empty catalog"),
		}
	}

	return iooptimize.New(op, removeOrphans).Optimize(ctx)
}
