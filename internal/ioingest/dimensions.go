package ioingest

import (
	"context"
	"log/slog"

	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
)

// dimensionColumn is a column of a cleaned table with vocabulary
// values.
type dimensionColumn struct {
	tbl    *iotable.Table
	column string
	dim    catalog.Dimension
	split  func(string) []string
}

// loadDimensions resolves every vocabulary value of the inputs before
// fact rows are loaded. Empty values are left to the record phases,
// where they are reported with their line.
func (i *ingester) loadDimensions(ctx context.Context, t *tables) error {
	cols := []dimensionColumn{
		{t.datasets, "dataset_origin", catalog.Origin, nil},
		{t.files, "file_type", catalog.FileType, nil},
		{t.parameter, "thermostat", catalog.Thermostat, nil},
		{t.parameter, "barostat", catalog.Barostat, nil},
		{t.parameter, "integrator", catalog.Integrator, nil},
		{t.molecules, "molecule_type", catalog.MoleculeType, nil},
		{t.molecules, "db_name", catalog.Database, nil},
		{t.datasets, "keywords", catalog.Keyword, catalog.SplitKeywords},
	}

	for _, c := range cols {
		for _, row := range c.tbl.Rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			values := []string{row.Get(c.column)}
			if c.split != nil {
				values = c.split(values[0])
			}
			for _, v := range values {
				_, err := i.res.Resolve(ctx, c.dim, v)
				if err != nil && !isEmptyKey(err) {
					return err
				}
			}
		}
	}

	for _, row := range t.files.Rows {
		_, err := i.res.ResolveSoftware(ctx,
			row.Get("software_name"), row.Get("software_version"))
		if err != nil {
			return err
		}
	}

	for table, st := range i.res.Stats() {
		slog.Info("Resolved dimension", "table", table,
			"created", st.Created, "found", st.StoreHits)
	}
	return nil
}
