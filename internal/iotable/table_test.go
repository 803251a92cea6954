package iotable_test

import (
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/internal/iotesting"
	"github.com/mdverse/mddb/pkg/catalog"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	header := strings.Join(catalog.TrajectoryLayout.Columns, ",")
	iotesting.WriteFile(t, dir, "trajectory_files.csv", header+"\n"+
		"zenodo,100,a.xtc,3000,1001\n"+
		"zenodo,100,\"b, c.xtc\",,\n"+
		"zenodo,100\n")

	tbl, err := iotable.Load(dir, catalog.TrajectoryLayout)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 3)

	row := tbl.Rows[0]
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, "a.xtc", row.Get("name"))
	assert.Equal(t, "1001", row.Get("frame_number"))
	assert.Equal(t, "", row.Get("no_such_column"))
	assert.NoError(t, row.Err)

	assert.Equal(t, "b, c.xtc", tbl.Rows[1].Get("name"))
	assert.Equal(t, 4, tbl.Rows[2].Line)
	assert.Error(t, tbl.Rows[2].Err, "short record is malformed")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := iotable.Load(dir, catalog.DatasetsLayout)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.IngestSourceReadError, gnErr.Code)

	iotesting.WriteFile(t, dir, "files.csv", "dataset_origin,id_in_origin,name\n")
	_, err = iotable.Load(dir, catalog.FilesLayout)
	gnErr, ok = err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.IngestSourceReadError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "file_type")

	iotesting.WriteFile(t, dir, "molecules.csv", "")
	_, err = iotable.Load(dir, catalog.MoleculesLayout)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	rows := [][]string{
		{"zenodo", "100", "a.gro", "10", "true", "false", "false", "false", "true"},
	}

	err := iotable.Write(dir, catalog.TopologyLayout, rows)
	require.NoError(t, err)

	tbl, err := iotable.Load(dir, catalog.TopologyLayout)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, catalog.TopologyLayout.Columns, tbl.Header)
	assert.Equal(t, "true", tbl.Rows[0].Get("has_water_ion"))
}

func TestParse(t *testing.T) {
	i, err := iotable.Int("12.0")
	require.NoError(t, err)
	assert.Equal(t, int64(12), i)

	i, err = iotable.Int("nan")
	require.NoError(t, err)
	assert.Equal(t, int64(0), i)

	_, err = iotable.Int("12.5")
	assert.Error(t, err)
	_, err = iotable.Int("twelve")
	assert.Error(t, err)

	f, err := iotable.Float(" 0.002 ")
	require.NoError(t, err)
	assert.InDelta(t, 0.002, f, 1e-9)
	_, err = iotable.Float("fast")
	assert.Error(t, err)

	b, err := iotable.Bool("True")
	require.NoError(t, err)
	assert.True(t, b)
	b, err = iotable.Bool("")
	require.NoError(t, err)
	assert.False(t, b)
	_, err = iotable.Bool("maybe")
	assert.Error(t, err)

	d, err := iotable.Time("2023-04-05", catalog.DateLayout)
	require.NoError(t, err)
	assert.True(t, d.Valid)
	assert.Equal(t, 2023, d.Time.Year())

	d, err = iotable.Time("NaT", catalog.DateLayout)
	require.NoError(t, err)
	assert.False(t, d.Valid)

	_, err = iotable.Time("05/04/2023", catalog.DateLayout)
	assert.Error(t, err)

	assert.Equal(t, "", iotable.Text("None"))
	assert.Equal(t, "x", iotable.Text(" x "))
}
