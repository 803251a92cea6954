package ioclean_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/pqarrow"
	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/ioclean"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column is a fixture column. Values are string, int64, bool or
// []string (a list column), nil is a null.
type column struct {
	name   string
	values []any
}

func writeParquet(t *testing.T, dir, name string, cols ...column) {
	t.Helper()

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		var typ arrow.DataType = arrow.BinaryTypes.String
		for _, v := range c.values {
			switch v.(type) {
			case int64:
				typ = arrow.PrimitiveTypes.Int64
			case bool:
				typ = arrow.FixedWidthTypes.Boolean
			case []string:
				typ = arrow.ListOf(arrow.BinaryTypes.String)
			}
		}
		fields[i] = arrow.Field{Name: c.name, Type: typ, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()
	for i, c := range cols {
		for _, v := range c.values {
			switch b := builder.Field(i).(type) {
			case *array.StringBuilder:
				if v == nil {
					b.AppendNull()
				} else {
					b.Append(v.(string))
				}
			case *array.Int64Builder:
				if v == nil {
					b.AppendNull()
				} else {
					b.Append(v.(int64))
				}
			case *array.BooleanBuilder:
				if v == nil {
					b.AppendNull()
				} else {
					b.Append(v.(bool))
				}
			case *array.ListBuilder:
				if v == nil {
					b.AppendNull()
					continue
				}
				b.Append(true)
				vb := b.ValueBuilder().(*array.StringBuilder)
				for _, s := range v.([]string) {
					vb.Append(s)
				}
			}
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	buf := new(bytes.Buffer)
	writer, err := pqarrow.NewFileWriter(
		schema, buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps(),
	)
	require.NoError(t, err)
	require.NoError(t, writer.Write(record))
	require.NoError(t, writer.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644))
}

func snapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeParquet(t, dir, "datasets.parquet",
		column{"dataset_origin", []any{"zenodo", "zenodo"}},
		column{"dataset_id", []any{"101", "102"}},
		column{"doi", []any{"10.5281/zenodo.101", nil}},
		column{"date_creation", []any{"2021-03-04T10:11:12", "2022-01-02"}},
		column{"date_last_modified", []any{"2021-03-05", "None"}},
		column{"date_fetched", []any{"2023-05-01 08:09:10", nil}},
		column{"file_number", []any{int64(3), int64(1)}},
		column{"download_number", []any{int64(10), nil}},
		column{"view_number", []any{int64(20), int64(5)}},
		column{"license", []any{"cc-by-4.0", ""}},
		column{"dataset_url", []any{"https://zenodo.org/record/101", ""}},
		column{"title", []any{"  Lipid bilayer ", "Protein"}},
		column{"author", []any{"A. Name, B. Other", "C. Third;D. Fourth"}},
		column{"keywords", []any{"membrane, lipid", nil}},
		column{"description", []any{"nan", "text"}},
	)
	writeParquet(t, dir, "files.parquet",
		column{"dataset_origin", []any{"zenodo", "zenodo", "zenodo"}},
		column{"dataset_id", []any{"101", "101", "101"}},
		column{"file_name", []any{"sim.zip", "conf.gro", "run.mdp"}},
		column{"file_type", []any{"ZIP", ".gro", "mdp"}},
		column{"file_size", []any{int64(1000), int64(200), int64(10)}},
		column{"file_md5", []any{"aaa", "bbb", nil}},
		column{"file_url", []any{"https://x/sim.zip", "", ""}},
		column{"from_zip_file", []any{false, false, true}},
		column{"origin_zip_file", []any{nil, "sim.zip", "sim.zip"}},
	)
	writeParquet(t, dir, "gromacs_gro_files.parquet",
		column{"dataset_origin", []any{"zenodo"}},
		column{"dataset_id", []any{"101"}},
		column{"file_name", []any{"conf.gro"}},
		column{"atom_number", []any{int64(1234)}},
		column{"has_protein", []any{true}},
		column{"has_nucleic", []any{false}},
		column{"has_lipid", []any{true}},
		column{"has_glucid", []any{nil}},
		column{"has_water_ion", []any{true}},
	)
	writeParquet(t, dir, "gromacs_mdp_files.parquet",
		column{"dataset_origin", []any{"zenodo"}},
		column{"dataset_id", []any{"101"}},
		column{"file_name", []any{"run.mdp"}},
		column{"dt", []any{"0.002"}},
		column{"nsteps", []any{int64(500000)}},
		column{"temperature", []any{"300"}},
		column{"thermostat", []any{"Nose-Hoover"}},
		column{"barostat", []any{nil}},
		column{"integrator", []any{""}},
	)
	writeParquet(t, dir, "gromacs_xtc_files.parquet",
		column{"dataset_origin", []any{"zenodo"}},
		column{"dataset_id", []any{"101"}},
		column{"file_name", []any{"traj.xtc"}},
		column{"atom_number", []any{int64(1234)}},
		column{"frame_number", []any{int64(101)}},
	)
	return dir
}

func rows(t *testing.T, dir string, layout catalog.Layout) []map[string]string {
	t.Helper()
	tbl, err := iotable.Load(dir, layout)
	require.NoError(t, err)

	var res []map[string]string
	for _, r := range tbl.Rows {
		require.NoError(t, r.Err)
		m := make(map[string]string)
		for _, col := range layout.Columns {
			m[col] = r.Get(col)
		}
		res = append(res, m)
	}
	return res
}

func TestClean(t *testing.T) {
	raw := snapshot(t)
	out := filepath.Join(t.TempDir(), "cleaned")

	err := ioclean.New().Clean(context.Background(), raw, out)
	require.NoError(t, err)

	t.Run("datasets", func(t *testing.T) {
		res := rows(t, out, catalog.DatasetsLayout)
		require.Len(t, res, 2)
		assert.Equal(t, "101", res[0]["id_in_origin"])
		assert.Equal(t, "2021-03-04", res[0]["date_created"])
		assert.Equal(t, "2023-05-01T08:09:10", res[0]["date_last_crawled"])
		assert.Equal(t, "3", res[0]["file_number"])
		assert.Equal(t, "https://zenodo.org/record/101", res[0]["url"])
		assert.Equal(t, "Lipid bilayer", res[0]["title"])
		assert.Equal(t, "A. Name;B. Other", res[0]["author"])
		assert.Equal(t, "", res[0]["description"])

		assert.Equal(t, "", res[1]["doi"])
		assert.Equal(t, "", res[1]["date_last_modified"])
		assert.Equal(t, "", res[1]["download_number"])
		assert.Equal(t, "C. Third;D. Fourth", res[1]["author"])
	})

	t.Run("files", func(t *testing.T) {
		res := rows(t, out, catalog.FilesLayout)
		require.Len(t, res, 3)
		assert.Equal(t, "zip", res[0]["file_type"])
		assert.Equal(t, "false", res[0]["is_from_zip_file"])
		assert.Equal(t, "", res[0]["parent_zip_file"])
		assert.Equal(t, "1000", res[0]["size_in_bytes"])

		assert.Equal(t, "gro", res[1]["file_type"])
		assert.Equal(t, "true", res[1]["is_from_zip_file"],
			"a named parent marks the file as extracted")
		assert.Equal(t, "sim.zip", res[1]["parent_zip_file"])
		assert.Equal(t, "", res[1]["software_name"])
	})

	t.Run("extensions", func(t *testing.T) {
		gro := rows(t, out, catalog.TopologyLayout)
		require.Len(t, gro, 1)
		assert.Equal(t, "conf.gro", gro[0]["name"])
		assert.Equal(t, "true", gro[0]["has_protein"])
		assert.Equal(t, "", gro[0]["has_glucid"])

		mdp := rows(t, out, catalog.ParameterLayout)
		require.Len(t, mdp, 1)
		assert.Equal(t, "Nose-Hoover", mdp[0]["thermostat"])
		assert.Equal(t, catalog.Unknown, mdp[0]["barostat"])
		assert.Equal(t, catalog.Undefined, mdp[0]["integrator"])
		assert.Equal(t, "500000", mdp[0]["nsteps"])

		xtc := rows(t, out, catalog.TrajectoryLayout)
		require.Len(t, xtc, 1)
		assert.Equal(t, "101", xtc[0]["frame_number"])
	})

	t.Run("molecules absent", func(t *testing.T) {
		res := rows(t, out, catalog.MoleculesLayout)
		assert.Empty(t, res)
	})
}

func TestCleanErrors(t *testing.T) {
	t.Run("missing raw file", func(t *testing.T) {
		raw := snapshot(t)
		require.NoError(t, os.Remove(filepath.Join(raw, "files.parquet")))

		err := ioclean.New().Clean(context.Background(), raw, t.TempDir())
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "Error should be of type *gn.Error")
		assert.Equal(t, errcode.CleanParquetReadError, gnErr.Code)
	})

	t.Run("not a parquet file", func(t *testing.T) {
		raw := snapshot(t)
		path := filepath.Join(raw, "datasets.parquet")
		require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))

		err := ioclean.New().Clean(context.Background(), raw, t.TempDir())
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "Error should be of type *gn.Error")
		assert.Equal(t, errcode.CleanParquetReadError, gnErr.Code)
	})

	t.Run("missing column", func(t *testing.T) {
		raw := snapshot(t)
		writeParquet(t, raw, "gromacs_xtc_files.parquet",
			column{"dataset_origin", []any{"zenodo"}},
			column{"file_name", []any{"traj.xtc"}},
		)

		err := ioclean.New().Clean(context.Background(), raw, t.TempDir())
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "Error should be of type *gn.Error")
		assert.Equal(t, errcode.CleanMissingColumnError, gnErr.Code)
		assert.Contains(t, gnErr.Err.Error(), "dataset_id")
	})

	t.Run("unsupported column type", func(t *testing.T) {
		raw := snapshot(t)
		writeParquet(t, raw, "gromacs_xtc_files.parquet",
			column{"dataset_origin", []any{"zenodo"}},
			column{"dataset_id", []any{"101"}},
			column{"file_name", []any{"traj.xtc"}},
			column{"atom_number", []any{[]string{"1234"}}},
			column{"frame_number", []any{int64(101)}},
		)

		err := ioclean.New().Clean(context.Background(), raw, t.TempDir())
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "Error should be of type *gn.Error")
		assert.Equal(t, errcode.CleanUnsupportedTypeError, gnErr.Code)
		assert.Contains(t, gnErr.Err.Error(), "atom_number")
	})
}

func TestClean_UnusedUnsupportedColumn(t *testing.T) {
	raw := snapshot(t)
	writeParquet(t, raw, "gromacs_xtc_files.parquet",
		column{"dataset_origin", []any{"zenodo"}},
		column{"dataset_id", []any{"101"}},
		column{"file_name", []any{"traj.xtc"}},
		column{"atom_number", []any{int64(1234)}},
		column{"frame_number", []any{int64(101)}},
		column{"tags", []any{[]string{"a", "b"}}},
	)
	out := t.TempDir()

	require.NoError(t, ioclean.New().Clean(context.Background(), raw, out))
	tbl, err := iotable.Load(out, catalog.TrajectoryLayout)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "1234", tbl.Rows[0].Get("atom_number"))
}
