// Package ioreport prints summaries of the catalog content.
package ioreport

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/mddb"
	"github.com/mdverse/mddb/pkg/schema"
)

// TableCount is the size of a catalog table.
type TableCount struct {
	Table   string
	Rows    int
	Columns int
}

// OriginCount summarizes datasets of one origin.
type OriginCount struct {
	Origin    string
	Datasets  int
	Files     int
	FirstDate string
	LastDate  string
}

type reporter struct {
	operator db.Operator
}

// New creates a new Reporter.
func New(op db.Operator) mddb.Reporter {
	return &reporter{operator: op}
}

// Report writes table sizes and dataset counts per origin.
func (r *reporter) Report(ctx context.Context, w io.Writer) error {
	tables, err := TableCounts(ctx, r.operator)
	if err != nil {
		return err
	}
	origins, err := OriginCounts(ctx, r.operator)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"table", "rows", "columns"})
	for _, v := range tables {
		t.AppendRow(table.Row{v.Table, humanize.Comma(int64(v.Rows)), v.Columns})
	}
	t.Render()
	fmt.Fprintln(w)

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"origin", "datasets", "files", "first created", "last created"})
	for _, v := range origins {
		t.AppendRow(table.Row{
			v.Origin,
			humanize.Comma(int64(v.Datasets)),
			humanize.Comma(int64(v.Files)),
			v.FirstDate,
			v.LastDate,
		})
	}
	t.Render()
	return nil
}

// TableCounts returns row and column numbers of every catalog table.
func TableCounts(ctx context.Context, op db.Operator) ([]TableCount, error) {
	sqlDB := op.DB()
	res := make([]TableCount, 0, len(schema.TableNames()))
	for _, name := range schema.TableNames() {
		tc := TableCount{Table: name}

		rows, err := sqlDB.QueryContext(ctx, "SELECT * FROM "+name+" LIMIT 0")
		if err != nil {
			return nil, QueryError(name, err)
		}
		cols, err := rows.Columns()
		rows.Close()
		if err != nil {
			return nil, QueryError(name, err)
		}
		tc.Columns = len(cols)

		err = sqlDB.QueryRowContext(ctx, "SELECT count(*) FROM "+name).Scan(&tc.Rows)
		if err != nil {
			return nil, QueryError(name, err)
		}
		res = append(res, tc)
	}
	return res, nil
}

// OriginCounts returns dataset numbers and creation date range per
// origin, ordered by origin name.
func OriginCounts(ctx context.Context, op db.Operator) ([]OriginCount, error) {
	q := `
		SELECT o.name, count(DISTINCT d.dataset_id), count(f.file_id),
			min(d.date_created), max(d.date_created)
		FROM dataset_origins o
		JOIN datasets d ON d.origin_id = o.origin_id
		LEFT JOIN files f ON f.dataset_id = d.dataset_id
		GROUP BY o.name
		ORDER BY o.name
	`
	rows, err := op.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, QueryError("origins", err)
	}
	defer rows.Close()

	var res []OriginCount
	for rows.Next() {
		var oc OriginCount
		var first, last sql.NullString
		err = rows.Scan(&oc.Origin, &oc.Datasets, &oc.Files, &first, &last)
		if err != nil {
			return nil, QueryError("origins", err)
		}
		oc.FirstDate = shortDate(first)
		oc.LastDate = shortDate(last)
		res = append(res, oc)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError("origins", err)
	}
	return res, nil
}

// shortDate keeps the day part of dates that drivers return as
// timestamps.
func shortDate(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	if len(s.String) > 10 {
		return s.String[:10]
	}
	return s.String
}
