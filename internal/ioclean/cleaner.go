// Package ioclean converts the raw Parquet snapshot into the cleaned
// CSV tables read by ingestion.
package ioclean

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
	"github.com/mdverse/mddb/pkg/mddb"
)

// transform maps a raw value to its cleaned form.
type transform func(string) string

// source describes how a raw file turns into a cleaned table.
type source struct {
	file   string
	layout catalog.Layout
	// renames maps cleaned columns to raw ones with another name.
	renames map[string]string
	// required raw columns, others become empty when absent.
	required []string
	clean    map[string]transform
	// optional sources produce a header-only table when the raw file
	// is absent.
	optional bool
}

var idRenames = map[string]string{
	"id_in_origin": "dataset_id",
	"name":         "file_name",
}

var sources = []source{
	{
		file:   "datasets.parquet",
		layout: catalog.DatasetsLayout,
		renames: map[string]string{
			"id_in_origin":      "dataset_id",
			"date_created":      "date_creation",
			"date_last_crawled": "date_fetched",
			"url":               "dataset_url",
		},
		required: []string{"dataset_origin", "dataset_id", "title"},
		clean: map[string]transform{
			"date_created":       date(catalog.DateLayout),
			"date_last_modified": date(catalog.DateLayout),
			"date_last_crawled":  date(catalog.CrawlTimeLayout),
			"author":             catalog.JoinAuthors,
		},
	},
	{
		file:   "files.parquet",
		layout: catalog.FilesLayout,
		renames: map[string]string{
			"id_in_origin":     "dataset_id",
			"name":             "file_name",
			"size_in_bytes":    "file_size",
			"md5":              "file_md5",
			"url":              "file_url",
			"is_from_zip_file": "from_zip_file",
			"parent_zip_file":  "origin_zip_file",
		},
		required: []string{"dataset_origin", "dataset_id", "file_name", "file_type"},
		clean: map[string]transform{
			"file_type":        dimension(catalog.FileType),
			"is_from_zip_file": boolean,
		},
	},
	{
		file:     "gromacs_gro_files.parquet",
		layout:   catalog.TopologyLayout,
		renames:  idRenames,
		required: []string{"dataset_origin", "dataset_id", "file_name"},
		clean: map[string]transform{
			"has_protein":   boolean,
			"has_nucleic":   boolean,
			"has_lipid":     boolean,
			"has_glucid":    boolean,
			"has_water_ion": boolean,
		},
	},
	{
		file:     "gromacs_mdp_files.parquet",
		layout:   catalog.ParameterLayout,
		renames:  idRenames,
		required: []string{"dataset_origin", "dataset_id", "file_name"},
		clean: map[string]transform{
			"thermostat": dimension(catalog.Thermostat),
			"barostat":   dimension(catalog.Barostat),
			"integrator": dimension(catalog.Integrator),
		},
	},
	{
		file:     "gromacs_xtc_files.parquet",
		layout:   catalog.TrajectoryLayout,
		renames:  idRenames,
		required: []string{"dataset_origin", "dataset_id", "file_name"},
	},
	{
		file:   "molecules.parquet",
		layout: catalog.MoleculesLayout,
		renames: map[string]string{
			"id_in_origin": "dataset_id",
		},
		required: []string{"dataset_origin", "dataset_id", "file_name", "name"},
		clean: map[string]transform{
			"molecule_type": dimension(catalog.MoleculeType),
		},
		optional: true,
	},
}

type cleaner struct{}

// New creates a Cleaner of the raw snapshot.
func New() mddb.Cleaner {
	return &cleaner{}
}

// Clean converts every raw file of rawDir into a cleaned table in
// outDir.
func (c *cleaner) Clean(ctx context.Context, rawDir, outDir string) error {
	for i, src := range sources {
		gn.Info("(%d/%d) Cleaning %s...", i+1, len(sources), src.layout.Name)
		n, err := c.cleanSource(ctx, rawDir, outDir, src)
		if err != nil {
			return err
		}
		slog.Info("Cleaned table", "table", src.layout.Name, "rows", n)
	}
	return nil
}

func (c *cleaner) cleanSource(
	ctx context.Context,
	rawDir, outDir string,
	src source,
) (int, error) {
	path := filepath.Join(rawDir, src.file)
	if _, err := os.Stat(path); src.optional && errors.Is(err, os.ErrNotExist) {
		gn.Warn("No <em>%s</em>, writing empty %s table", src.file, src.layout.Name)
		return 0, iotable.Write(outDir, src.layout, nil)
	}

	raw, err := readParquet(ctx, path)
	if err != nil {
		return 0, err
	}

	var missing []string
	for _, col := range src.required {
		if !raw.has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return 0, MissingColumnError(path, missing)
	}
	for _, col := range src.rawColumns() {
		if typ, ok := raw.unsupported[col]; ok {
			return 0, UnsupportedTypeError(path, col, typ)
		}
	}

	rows := make([][]string, raw.rows)
	for i := range rows {
		rows[i] = src.row(raw, i)
	}
	return len(rows), iotable.Write(outDir, src.layout, rows)
}

// rawColumns lists raw columns read into the cleaned table.
func (src source) rawColumns() []string {
	res := make([]string, len(src.layout.Columns))
	for i, col := range src.layout.Columns {
		res[i] = col
		if v, ok := src.renames[col]; ok {
			res[i] = v
		}
	}
	return res
}

// row builds one cleaned record from a raw one.
func (src source) row(raw *rawTable, i int) []string {
	res := make([]string, len(src.layout.Columns))
	for j, rawCol := range src.rawColumns() {
		col := src.layout.Columns[j]
		v := text(raw.get(rawCol, i))
		if f, ok := src.clean[col]; ok {
			v = f(v)
		}
		res[j] = v
	}
	if src.layout.Name == catalog.FilesLayout.Name {
		fixZipFlag(src.layout, res)
	}
	return res
}

// fixZipFlag marks files with a named parent archive as extracted.
func fixZipFlag(layout catalog.Layout, rec []string) {
	var flag, parent int
	for i, col := range layout.Columns {
		switch col {
		case "is_from_zip_file":
			flag = i
		case "parent_zip_file":
			parent = i
		}
	}
	if rec[parent] != "" {
		rec[flag] = "true"
	}
	if rec[flag] == "" {
		rec[flag] = "false"
	}
}

// text repairs broken UTF-8 and blanks missing values.
func text(s string) string {
	return iotable.Text(gnlib.FixUtf8(s))
}

func dimension(d catalog.Dimension) transform {
	return func(s string) string {
		return catalog.Normalize(d, s)
	}
}

// boolean writes booleans as true/false. Unparseable values are kept
// so that ingestion reports them as malformed.
func boolean(s string) string {
	if s == "" {
		return ""
	}
	b, err := iotable.Bool(s)
	if err != nil {
		return s
	}
	if b {
		return "true"
	}
	return "false"
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// date reformats dates and times to layout. Timestamps are cut to
// the precision of the layout, unparseable values are kept.
func date(layout string) transform {
	return func(s string) string {
		if s == "" {
			return ""
		}
		for _, l := range dateLayouts {
			t, err := time.Parse(l, s)
			if err == nil {
				return t.Format(layout)
			}
		}
		slog.Warn("Cannot parse date", "value", s)
		return strings.TrimSpace(s)
	}
}
