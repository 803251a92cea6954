// Package ioingest implements the Ingester interface. It loads cleaned
// tables into the catalog in dependency order: dimensions, datasets,
// files, extension tables and molecule links.
package ioingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/mdverse/mddb/internal/ioresolve"
	"github.com/mdverse/mddb/internal/ioschema"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/mddb"
)

// datasetKey identifies a dataset in a snapshot.
type datasetKey struct {
	origin     string
	idInOrigin string
}

func (k datasetKey) String() string {
	return k.origin + ":" + k.idInOrigin
}

// fileKey identifies files by name within a dataset. Names are not
// unique, so the arena keeps every id for a key.
type fileKey struct {
	datasetID int64
	name      string
}

// recordRef points to a record in a cleaned table.
type recordRef struct {
	table string
	line  int
	key   string
}

// tables holds the cleaned inputs of a run.
type tables struct {
	datasets, files, topology, parameter, trajectory, molecules *iotable.Table
}

// ingester implements the mddb.Ingester interface.
type ingester struct {
	cfg      *config.Config
	operator db.Operator
	res      *ioresolve.Resolver
	sum      *mddb.Summary

	// arena of the run
	datasets  map[datasetKey]int64
	files     map[fileKey][]int64
	fileTypes map[int64]string
	extended  map[int64]catalog.Extension
}

// New creates a new Ingester.
func New(cfg *config.Config, op db.Operator) mddb.Ingester {
	return &ingester{cfg: cfg, operator: op}
}

// Ingest loads cleaned tables from dir. Per-record errors are counted
// in the summary, store failures stop the run.
func (i *ingester) Ingest(
	ctx context.Context,
	dir string,
) (*mddb.Summary, error) {
	if i.operator.DB() == nil {
		return nil, NotConnectedError()
	}

	startTime := time.Now()
	i.reset()
	slog.Info("Starting ingestion", "run_id", i.sum.RunID, "dir", dir)

	tbls, err := loadTables(dir)
	if err != nil {
		return nil, err
	}

	if err = i.prepareCatalog(ctx); err != nil {
		return nil, err
	}

	phases := []struct {
		msg string
		fn  func(context.Context, *tables) error
	}{
		{"Resolving dimensions", i.loadDimensions},
		{"Loading datasets", i.loadDatasets},
		{"Loading files", i.loadFiles},
		{"Loading file attributes", i.loadExtensions},
		{"Linking molecules", i.loadMolecules},
	}

	for n, ph := range phases {
		gn.Info("(%d/%d) %s...", n+1, len(phases), ph.msg)
		if err = ph.fn(ctx, tbls); err != nil {
			return nil, err
		}
	}

	if err = i.verifyZipHierarchy(ctx); err != nil {
		return nil, err
	}

	for table, st := range i.res.Stats() {
		if st.Created > 0 {
			i.sum.Resolved[table] = st.Created
		}
		i.sum.RecoveredDuplicates += st.Recovered
	}
	i.sum.Duration = time.Since(startTime)

	if path := i.cfg.Ingest.MetricsFile; path != "" {
		if err = writeMetrics(path, i.sum); err != nil {
			return nil, err
		}
	}

	i.report()
	return i.sum, nil
}

// reset prepares a fresh arena and resolver for a run.
func (i *ingester) reset() {
	i.res = ioresolve.New(i.operator)
	i.sum = mddb.NewSummary(uuid.NewString())
	i.datasets = make(map[datasetKey]int64)
	i.files = make(map[fileKey][]int64)
	i.fileTypes = make(map[int64]string)
	i.extended = make(map[int64]catalog.Extension)
}

func loadTables(dir string) (*tables, error) {
	var res tables
	targets := []struct {
		layout catalog.Layout
		tbl    **iotable.Table
	}{
		{catalog.DatasetsLayout, &res.datasets},
		{catalog.FilesLayout, &res.files},
		{catalog.TopologyLayout, &res.topology},
		{catalog.ParameterLayout, &res.parameter},
		{catalog.TrajectoryLayout, &res.trajectory},
		{catalog.MoleculesLayout, &res.molecules},
	}

	for _, v := range targets {
		tbl, err := iotable.Load(dir, v.layout)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded table", "table", v.layout.Name, "rows", len(tbl.Rows))
		*v.tbl = tbl
	}
	return &res, nil
}

// prepareCatalog resets fact tables when asked to, or warns that the
// catalog already has datasets that will be duplicated.
func (i *ingester) prepareCatalog(ctx context.Context) error {
	var n int
	err := i.operator.DB().
		QueryRowContext(ctx, "SELECT count(*) FROM datasets").Scan(&n)
	if err != nil {
		return StoreError("datasets", err)
	}
	if n == 0 {
		return nil
	}

	if i.cfg.Ingest.Reset {
		gn.Info("Deleting <em>%s</em> datasets with their files", humanize.Comma(int64(n)))
		return ioschema.NewManager(i.operator).Reset(ctx)
	}

	gn.Warn("Catalog has %s datasets already, they will be duplicated. "+
		"Use --reset to replace them", humanize.Comma(int64(n)))
	slog.Warn("Ingesting into non-empty catalog", "datasets", n)
	return nil
}

// skip records a per-record error, or returns it when it is fatal.
func (i *ingester) skip(err error) error {
	kind, ok := kindOf(err)
	if !ok {
		return err
	}
	i.sum.Skipped[kind]++
	slog.Warn("Skipped record", "kind", kind, "error", err)
	return nil
}

// withTx runs f in one transaction. Constraint violations become
// per-record errors.
func (i *ingester) withTx(
	ctx context.Context,
	ref recordRef,
	f func(*sql.Tx) error,
) error {
	tx, err := i.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return StoreError(ref.table, err)
	}

	if err = f(tx); err != nil {
		_ = tx.Rollback()
		switch {
		case i.operator.IsForeignKeyViolation(err):
			return ReferentialError(ref, err.Error())
		case i.operator.IsUniqueViolation(err):
			return DuplicateKeyError(ref, err.Error())
		default:
			return StoreError(ref.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return StoreError(ref.table, err)
	}
	return nil
}

// exec runs a rebound statement in a transaction and returns the
// number of affected rows.
func (i *ingester) exec(
	ctx context.Context,
	tx *sql.Tx,
	q string,
	args ...any,
) (int, error) {
	res, err := tx.ExecContext(ctx, i.operator.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// resolveErr turns an empty key of a required dimension into a
// ReferentialError. Store errors stay fatal.
func resolveErr(ref recordRef, what string, err error) error {
	if isEmptyKey(err) {
		return ReferentialError(ref, "empty "+what)
	}
	return err
}

func (i *ingester) report() {
	s := i.sum
	slog.Info("Ingestion complete",
		"run_id", s.RunID,
		"skipped", s.SkippedTotal(),
		"recovered_duplicates", s.RecoveredDuplicates,
		"max_zip_depth", s.MaxZipDepth,
		"duration", gnfmt.TimeString(s.Duration.Seconds()),
	)

	for _, table := range s.Tables() {
		msg := fmt.Sprintf("%-26s %s", table, humanize.Comma(int64(s.Inserted[table])))
		gn.Message(msg)
	}

	gn.Info(`Ingestion complete
Skipped records: referential %s, duplicate %s, malformed %s.
Recovered duplicate keys: %s.
Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(s.Skipped[mddb.Referential])),
		humanize.Comma(int64(s.Skipped[mddb.Duplicate])),
		humanize.Comma(int64(s.Skipped[mddb.Malformed])),
		humanize.Comma(int64(s.RecoveredDuplicates)),
		gnfmt.TimeString(s.Duration.Seconds()),
	)
}
