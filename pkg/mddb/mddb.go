// Package mddb declares the contracts of the catalog lifecycle:
// retrieving snapshots, cleaning them, creating the schema, ingesting
// cleaned tables and reporting on the result.
package mddb

import (
	"context"
	"io"
)

// SchemaManager creates and resets the catalog schema.
type SchemaManager interface {
	// Create creates every table, constraint and index of the catalog.
	// Tables that already exist are an error, callers drop them first.
	Create(ctx context.Context) error

	// Reset deletes all fact, extension and link rows. Dimension rows
	// are kept, so surrogate ids of vocabulary stay stable.
	Reset(ctx context.Context) error
}

// Retriever downloads the raw snapshot of the catalog.
type Retriever interface {
	// Fetch populates dir with one file per logical table and returns
	// the paths of downloaded files.
	Fetch(ctx context.Context, dir string) ([]string, error)
}

// Cleaner converts raw snapshot files into cleaned tables.
type Cleaner interface {
	// Clean reads raw files from rawDir and writes cleaned tables to
	// outDir.
	Clean(ctx context.Context, rawDir, outDir string) error
}

// Ingester loads cleaned tables into the catalog.
type Ingester interface {
	// Ingest loads tables from dir. Only fatal errors are returned,
	// per-record problems are reported in the summary.
	Ingest(ctx context.Context, dir string) (*Summary, error)
}

// Reporter writes row counts and origin summaries of the catalog.
type Reporter interface {
	Report(ctx context.Context, w io.Writer) error
}

// Optimizer compacts the catalog store after ingestion.
type Optimizer interface {
	// Optimize removes unreferenced vocabulary rows when asked to and
	// refreshes planner statistics.
	Optimize(ctx context.Context) error
}
