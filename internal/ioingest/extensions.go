package ioingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
)

// extensionLoader inserts one row of an extension table.
type extensionLoader func(context.Context, recordRef, int64, iotable.Row) error

func (i *ingester) loadExtensions(ctx context.Context, t *tables) error {
	exts := []struct {
		tbl  *iotable.Table
		ext  catalog.Extension
		load extensionLoader
	}{
		{t.topology, catalog.Topology, i.insertTopology},
		{t.parameter, catalog.Parameter, i.insertParameter},
		{t.trajectory, catalog.Trajectory, i.insertTrajectory},
	}

	for _, e := range exts {
		for _, row := range e.tbl.Rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := i.loadExtension(ctx, e.tbl.Layout.Name, e.ext, row, e.load)
			if err != nil {
				if err = i.skip(err); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (i *ingester) loadExtension(
	ctx context.Context,
	table string,
	ext catalog.Extension,
	row iotable.Row,
	load extensionLoader,
) error {
	ref, fileID, err := i.matchFile(table, ext, row, "name")
	if err != nil {
		return err
	}
	if row.Err != nil {
		return MalformedRecordError(ref, row.Err)
	}

	if prev, ok := i.extended[fileID]; ok {
		return DuplicateKeyError(ref,
			fmt.Sprintf("file %d already has %s attributes", fileID, prev))
	}

	if err = load(ctx, ref, fileID, row); err != nil {
		return err
	}

	i.extended[fileID] = ext
	i.sum.Inserted[table]++
	return nil
}

// matchFile finds the file of a record by dataset key, file name and
// the file types of an extension.
func (i *ingester) matchFile(
	table string,
	ext catalog.Extension,
	row iotable.Row,
	nameColumn string,
) (recordRef, int64, error) {
	key := datasetKey{
		origin:     iotable.Text(row.Get("dataset_origin")),
		idInOrigin: iotable.Text(row.Get("id_in_origin")),
	}
	name := iotable.Text(row.Get(nameColumn))
	ref := recordRef{table: table, line: row.Line, key: key.String() + ":" + name}

	datasetID, ok := i.datasets[key]
	if !ok {
		return ref, 0, ReferentialError(ref, "dataset "+key.String()+" is not loaded")
	}

	types := catalog.FileTypesOf(ext)
	var ids []int64
	for _, id := range i.files[fileKey{datasetID: datasetID, name: name}] {
		if slices.Contains(types, i.fileTypes[id]) {
			ids = append(ids, id)
		}
	}

	switch len(ids) {
	case 0:
		return ref, 0, ReferentialError(ref,
			fmt.Sprintf("no %s file %q in dataset", ext, name))
	case 1:
		return ref, ids[0], nil
	default:
		return ref, 0, ReferentialError(ref,
			fmt.Sprintf("%d %s files are named %q", len(ids), ext, name))
	}
}

func (i *ingester) insertTopology(
	ctx context.Context,
	ref recordRef,
	fileID int64,
	row iotable.Row,
) error {
	var errs []error
	atoms, err := iotable.Int(row.Get("atom_number"))
	errs = append(errs, err)
	flags := make([]any, 0, 5)
	for _, col := range []string{
		"has_protein", "has_nucleic", "has_lipid", "has_glucid", "has_water_ion",
	} {
		b, err := iotable.Bool(row.Get(col))
		errs = append(errs, err)
		flags = append(flags, b)
	}
	if err = errors.Join(errs...); err != nil {
		return MalformedRecordError(ref, err)
	}

	return i.withTx(ctx, ref, func(tx *sql.Tx) error {
		args := append([]any{fileID, atoms}, flags...)
		_, err := i.exec(ctx, tx, `INSERT INTO topology_files (
			file_id, atom_number, has_protein, has_nucleic, has_lipid,
			has_glucid, has_water_ion
		) VALUES (?, ?, ?, ?, ?, ?, ?)`, args...)
		return err
	})
}

func (i *ingester) insertParameter(
	ctx context.Context,
	ref recordRef,
	fileID int64,
	row iotable.Row,
) error {
	var errs []error
	dt, err := iotable.Float(row.Get("dt"))
	errs = append(errs, err)
	nsteps, err := iotable.Int(row.Get("nsteps"))
	errs = append(errs, err)
	temp, err := iotable.Float(row.Get("temperature"))
	errs = append(errs, err)
	if err = errors.Join(errs...); err != nil {
		return MalformedRecordError(ref, err)
	}

	vocab := []struct {
		dim catalog.Dimension
		col string
	}{
		{catalog.Thermostat, "thermostat"},
		{catalog.Barostat, "barostat"},
		{catalog.Integrator, "integrator"},
	}
	ids := make([]int64, len(vocab))
	for n, v := range vocab {
		ids[n], err = i.res.Resolve(ctx, v.dim, row.Get(v.col))
		if err != nil {
			return resolveErr(ref, v.col, err)
		}
	}

	return i.withTx(ctx, ref, func(tx *sql.Tx) error {
		_, err := i.exec(ctx, tx, `INSERT INTO parameter_files (
			file_id, dt, nsteps, temperature, thermostat_id, barostat_id,
			integrator_id
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fileID, dt, nsteps, temp, ids[0], ids[1], ids[2])
		return err
	})
}

func (i *ingester) insertTrajectory(
	ctx context.Context,
	ref recordRef,
	fileID int64,
	row iotable.Row,
) error {
	var errs []error
	atoms, err := iotable.Int(row.Get("atom_number"))
	errs = append(errs, err)
	frames, err := iotable.Int(row.Get("frame_number"))
	errs = append(errs, err)
	if err = errors.Join(errs...); err != nil {
		return MalformedRecordError(ref, err)
	}

	return i.withTx(ctx, ref, func(tx *sql.Tx) error {
		_, err := i.exec(ctx, tx, `INSERT INTO trajectory_files (
			file_id, atom_number, frame_number
		) VALUES (?, ?, ?)`, fileID, atoms, frames)
		return err
	})
}
