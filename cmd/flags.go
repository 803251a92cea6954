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
	"github.com/mdverse/mddb/pkg/config"
	"github.com/spf13/cobra"
)

// databaseFlags adds flags shared by all subcommands.
func databaseFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("driver", "", "catalog store: sqlite or postgres")
	pf.String("db-path", "", "SQLite catalog file")
	pf.String("db-host", "", "PostgreSQL host")
	pf.Int("db-port", 0, "PostgreSQL port")
	pf.String("db-name", "", "PostgreSQL database")
	pf.IntP("jobs", "j", 0, "number of parallel downloads")
}

// flagOptions converts flags set on the command line into options.
// Flags that were not set keep values from config and environment.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()

	if fs.Changed("driver") {
		s, _ := fs.GetString("driver")
		res = append(res, config.OptDatabaseDriver(s))
	}
	if fs.Changed("db-path") {
		s, _ := fs.GetString("db-path")
		res = append(res, config.OptDatabasePath(s))
	}
	if fs.Changed("db-host") {
		s, _ := fs.GetString("db-host")
		res = append(res, config.OptDatabaseHost(s))
	}
	if fs.Changed("db-port") {
		i, _ := fs.GetInt("db-port")
		res = append(res, config.OptDatabasePort(i))
	}
	if fs.Changed("db-name") {
		s, _ := fs.GetString("db-name")
		res = append(res, config.OptDatabaseDatabase(s))
	}
	if fs.Changed("jobs") {
		i, _ := fs.GetInt("jobs")
		res = append(res, config.OptJobsNumber(i))
	}
	return res
}
