package ioingest

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/mdverse/mddb/internal/ioresolve"
	"github.com/mdverse/mddb/internal/iotable"
	"github.com/mdverse/mddb/pkg/catalog"
)

// loadMolecules links molecules to topology files and datasets.
func (i *ingester) loadMolecules(ctx context.Context, t *tables) error {
	for _, row := range t.molecules.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := i.loadMolecule(ctx, row)
		if err != nil {
			if err = i.skip(err); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *ingester) loadMolecule(ctx context.Context, row iotable.Row) error {
	table := catalog.MoleculesLayout.Name
	ref, fileID, err := i.matchFile(table, catalog.Topology, row, "file_name")
	if err != nil {
		return err
	}
	if row.Err != nil {
		return MalformedRecordError(ref, row.Err)
	}
	if i.extended[fileID] != catalog.Topology {
		return ReferentialError(ref, "topology file has no attributes")
	}

	mk := ioresolve.MoleculeKey{
		Name:     row.Get("name"),
		Formula:  row.Get("formula"),
		Sequence: row.Get("sequence"),
		Type:     row.Get("molecule_type"),
	}
	if iotable.Text(mk.Name) == "" {
		return MalformedRecordError(ref, errors.New("empty molecule name"))
	}
	moleculeID, err := i.res.ResolveMolecule(ctx, mk)
	if err != nil {
		return err
	}

	dbName := iotable.Text(row.Get("db_name"))
	idInDB := iotable.Text(row.Get("id_in_external_db"))
	if dbName != "" && idInDB != "" {
		dbID, err := i.res.Resolve(ctx, catalog.Database, dbName)
		if err != nil {
			return err
		}
		_, err = i.res.ResolveExternalRef(ctx, moleculeID, dbID, dbName, idInDB)
		if err != nil {
			return err
		}
	} else if dbName != "" || idInDB != "" {
		slog.Debug("Incomplete external reference",
			"table", table, "line", ref.line, "db_name", dbName, "id", idInDB)
	}

	datasetID := i.datasets[datasetKey{
		origin:     iotable.Text(row.Get("dataset_origin")),
		idInOrigin: iotable.Text(row.Get("id_in_origin")),
	}]

	var topoLinks, dsLinks int
	err = i.withTx(ctx, ref, func(tx *sql.Tx) error {
		var err error
		topoLinks, err = i.exec(ctx, tx, `INSERT INTO molecules_topologies_link
			(molecule_id, file_id) VALUES (?, ?)
			ON CONFLICT DO NOTHING`, moleculeID, fileID)
		if err != nil {
			return err
		}
		dsLinks, err = i.exec(ctx, tx, `INSERT INTO datasets_molecules_link
			(dataset_id, molecule_id) VALUES (?, ?)
			ON CONFLICT DO NOTHING`, datasetID, moleculeID)
		return err
	})
	if err != nil {
		return err
	}

	i.sum.Inserted["molecules_topologies_link"] += topoLinks
	i.sum.Inserted["datasets_molecules_link"] += dsLinks
	return nil
}
