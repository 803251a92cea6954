// Package iooptimize compacts the catalog after ingestion. It can drop
// vocabulary rows no dataset or file refers to anymore and then runs
// VACUUM and ANALYZE on the store.
package iooptimize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/mddb"
)

// orphan describes a vocabulary table and the column that references
// it from a link or fact table.
type orphan struct {
	table, key, refTable string
}

// orphans are checked in order. Molecules are left alone because
// external database references hang off them.
var orphans = []orphan{
	{table: "authors", key: "author_id", refTable: "datasets_authors_link"},
	{table: "keywords", key: "keyword_id", refTable: "datasets_keywords_link"},
	{table: "software", key: "software_id", refTable: "files"},
}

type optimizer struct {
	op            db.Operator
	removeOrphans bool
}

// New returns an Optimizer working through op.
func New(op db.Operator, removeOrphans bool) mddb.Optimizer {
	return &optimizer{op: op, removeOrphans: removeOrphans}
}

// Optimize implements mddb.Optimizer.
func (o *optimizer) Optimize(ctx context.Context) error {
	if o.removeOrphans {
		var total int64
		for _, v := range orphans {
			n, err := o.deleteOrphans(ctx, v)
			if err != nil {
				return err
			}
			if n > 0 {
				gn.Info("Removed <em>%s</em> orphan rows from %s",
					humanize.Comma(n), v.table)
			}
			total += n
		}
		slog.Info("orphans removed", "rows", total)
	}

	gn.Info("Running VACUUM and ANALYZE")
	if err := o.vacuum(ctx); err != nil {
		return err
	}
	gn.Info("Catalog optimized")
	return nil
}

func (o *optimizer) deleteOrphans(ctx context.Context, v orphan) (int64, error) {
	q := fmt.Sprintf(
		`DELETE FROM %[1]s WHERE %[2]s NOT IN (
			SELECT %[2]s FROM %[3]s WHERE %[2]s IS NOT NULL)`,
		v.table, v.key, v.refTable,
	)
	res, err := o.op.DB().ExecContext(ctx, q)
	if err != nil {
		return 0, OrphansError(v.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, OrphansError(v.table, err)
	}
	return n, nil
}

// vacuum runs outside a transaction, neither store allows VACUUM
// inside one.
func (o *optimizer) vacuum(ctx context.Context) error {
	stmts := []string{"VACUUM", "ANALYZE"}
	if o.op.Driver() == "postgres" {
		stmts = []string{"VACUUM ANALYZE"}
	}
	for _, q := range stmts {
		if _, err := o.op.DB().ExecContext(ctx, q); err != nil {
			return VacuumError(err)
		}
	}
	return nil
}
