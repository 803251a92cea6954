package schema

import (
	"fmt"

	"github.com/mdverse/mddb/pkg/catalog"
)

// ForeignKey is a reference from Table.Column to RefTable.RefColumn.
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// Name is the constraint name used by PostgreSQL.
func (fk ForeignKey) Name() string {
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// Clause is the inline table constraint used by SQLite.
func (fk ForeignKey) Clause() string {
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
		fk.Column, fk.RefTable, fk.RefColumn)
}

// AlterDDL adds the constraint to an existing table.
func (fk ForeignKey) AlterDDL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s",
		fk.Table, fk.Name(), fk.Clause())
}

// ForeignKeys returns every foreign key of the catalog.
func ForeignKeys() []ForeignKey {
	return []ForeignKey{
		{"datasets", "origin_id", "dataset_origins", "origin_id"},

		{"files", "dataset_id", "datasets", "dataset_id"},
		{"files", "file_type_id", "file_types", "file_type_id"},
		{"files", "software_id", "software", "software_id"},
		{"files", "parent_zip_file_id", "files", "file_id"},

		{"topology_files", "file_id", "files", "file_id"},
		{"parameter_files", "file_id", "files", "file_id"},
		{"parameter_files", "thermostat_id", "thermostats", "thermostat_id"},
		{"parameter_files", "barostat_id", "barostats", "barostat_id"},
		{"parameter_files", "integrator_id", "integrators", "integrator_id"},
		{"trajectory_files", "file_id", "files", "file_id"},

		{"molecules", "molecule_type_id", "molecule_types", "molecule_type_id"},
		{"molecules_external_db", "molecule_id", "molecules", "molecule_id"},
		{"molecules_external_db", "database_id", "databases", "database_id"},

		{"datasets_authors_link", "dataset_id", "datasets", "dataset_id"},
		{"datasets_authors_link", "author_id", "authors", "author_id"},
		{"datasets_keywords_link", "dataset_id", "datasets", "dataset_id"},
		{"datasets_keywords_link", "keyword_id", "keywords", "keyword_id"},
		{"datasets_molecules_link", "dataset_id", "datasets", "dataset_id"},
		{"datasets_molecules_link", "molecule_id", "molecules", "molecule_id"},
		{"molecules_topologies_link", "molecule_id", "molecules", "molecule_id"},
		{"molecules_topologies_link", "file_id", "topology_files", "file_id"},
	}
}

func foreignKeyClauses(table string) []string {
	var res []string
	for _, fk := range ForeignKeys() {
		if fk.Table == table {
			res = append(res, fk.Clause())
		}
	}
	return res
}

// DimensionTable describes how a dimension is stored.
type DimensionTable struct {
	Table      string
	IDColumn   string
	KeyColumns []string
}

var dimensionTables = map[catalog.Dimension]DimensionTable{
	catalog.Origin:       {"dataset_origins", "origin_id", []string{"name"}},
	catalog.FileType:     {"file_types", "file_type_id", []string{"name"}},
	catalog.Software:     {"software", "software_id", []string{"name", "version"}},
	catalog.MoleculeType: {"molecule_types", "molecule_type_id", []string{"name"}},
	catalog.Thermostat:   {"thermostats", "thermostat_id", []string{"name"}},
	catalog.Barostat:     {"barostats", "barostat_id", []string{"name"}},
	catalog.Integrator:   {"integrators", "integrator_id", []string{"name"}},
	catalog.Database:     {"databases", "database_id", []string{"name"}},
	catalog.Keyword:      {"keywords", "keyword_id", []string{"name"}},
}

// DimensionTableOf returns the storage description of a dimension.
func DimensionTableOf(d catalog.Dimension) (DimensionTable, bool) {
	res, ok := dimensionTables[d]
	return res, ok
}

// ResettableTables lists tables emptied by a reset, children first.
// Dimension tables, authors and molecules are kept.
func ResettableTables() []string {
	return []string{
		"molecules_topologies_link",
		"datasets_molecules_link",
		"datasets_keywords_link",
		"datasets_authors_link",
		"topology_files",
		"parameter_files",
		"trajectory_files",
		"files",
		"datasets",
	}
}
