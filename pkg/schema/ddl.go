package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
// Table constraints are appended after the columns, followed by the
// foreign keys of the table.
func generateDDL(
	model any,
	tableName string,
	constraints ...string,
) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	constraints = append(constraints, foreignKeyClauses(tableName)...)
	for _, c := range constraints {
		columns = append(columns, "    "+c)
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Dimension tables

func (m DatasetOrigin) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m DatasetOrigin) IndexDDL() []string { return []string{} }
func (m DatasetOrigin) TableName() string  { return "dataset_origins" }

func (m FileType) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m FileType) IndexDDL() []string { return []string{} }
func (m FileType) TableName() string  { return "file_types" }

func (m Software) TableDDL() string {
	return generateDDL(m, m.TableName(), "UNIQUE (name, version)")
}
func (m Software) IndexDDL() []string { return []string{} }
func (m Software) TableName() string  { return "software" }

func (m MoleculeType) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m MoleculeType) IndexDDL() []string { return []string{} }
func (m MoleculeType) TableName() string  { return "molecule_types" }

func (m Thermostat) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m Thermostat) IndexDDL() []string { return []string{} }
func (m Thermostat) TableName() string  { return "thermostats" }

func (m Barostat) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m Barostat) IndexDDL() []string { return []string{} }
func (m Barostat) TableName() string  { return "barostats" }

func (m Integrator) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m Integrator) IndexDDL() []string { return []string{} }
func (m Integrator) TableName() string  { return "integrators" }

func (m Database) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m Database) IndexDDL() []string { return []string{} }
func (m Database) TableName() string  { return "databases" }

func (m Keyword) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m Keyword) IndexDDL() []string { return []string{} }
func (m Keyword) TableName() string  { return "keywords" }

// Author DDL methods
func (m Author) TableDDL() string { return generateDDL(m, m.TableName()) }

func (m Author) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_authors_name ON authors(name);",
	}
}

func (m Author) TableName() string { return "authors" }

// Dataset DDL methods
func (m Dataset) TableDDL() string { return generateDDL(m, m.TableName()) }

func (m Dataset) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_datasets_origin ON datasets(origin_id, id_in_origin);",
	}
}

func (m Dataset) TableName() string { return "datasets" }

// File DDL methods
func (m File) TableDDL() string { return generateDDL(m, m.TableName()) }

func (m File) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_files_dataset_name ON files(dataset_id, name);",
		"CREATE INDEX idx_files_file_type_id ON files(file_type_id);",
		"CREATE INDEX idx_files_is_from_zip_file ON files(is_from_zip_file);",
		"CREATE INDEX idx_files_parent_zip_file_id ON files(parent_zip_file_id);",
	}
}

func (m File) TableName() string { return "files" }

// Extension tables

func (m TopologyFile) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m TopologyFile) IndexDDL() []string { return []string{} }
func (m TopologyFile) TableName() string  { return "topology_files" }

func (m ParameterFile) TableDDL() string { return generateDDL(m, m.TableName()) }

func (m ParameterFile) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_parameter_files_thermostat_id ON parameter_files(thermostat_id);",
		"CREATE INDEX idx_parameter_files_barostat_id ON parameter_files(barostat_id);",
		"CREATE INDEX idx_parameter_files_integrator_id ON parameter_files(integrator_id);",
	}
}

func (m ParameterFile) TableName() string { return "parameter_files" }

func (m TrajectoryFile) TableDDL() string  { return generateDDL(m, m.TableName()) }
func (m TrajectoryFile) IndexDDL() []string { return []string{} }
func (m TrajectoryFile) TableName() string  { return "trajectory_files" }

// Molecule DDL methods
func (m Molecule) TableDDL() string {
	return generateDDL(m, m.TableName(), "UNIQUE (name, formula, sequence)")
}
func (m Molecule) IndexDDL() []string { return []string{} }
func (m Molecule) TableName() string  { return "molecules" }

// MoleculeExternalDB DDL methods
func (m MoleculeExternalDB) TableDDL() string {
	return generateDDL(m, m.TableName(),
		"UNIQUE (molecule_id, database_id, id_in_external_db)")
}

func (m MoleculeExternalDB) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_molecules_external_db_db_name ON molecules_external_db(db_name);",
	}
}

func (m MoleculeExternalDB) TableName() string { return "molecules_external_db" }

// Link tables

func (m DatasetAuthorLink) TableDDL() string {
	return generateDDL(m, m.TableName(), "PRIMARY KEY (dataset_id, author_id)")
}
func (m DatasetAuthorLink) IndexDDL() []string { return []string{} }
func (m DatasetAuthorLink) TableName() string  { return "datasets_authors_link" }

func (m DatasetKeywordLink) TableDDL() string {
	return generateDDL(m, m.TableName(), "PRIMARY KEY (dataset_id, keyword_id)")
}
func (m DatasetKeywordLink) IndexDDL() []string { return []string{} }
func (m DatasetKeywordLink) TableName() string  { return "datasets_keywords_link" }

func (m DatasetMoleculeLink) TableDDL() string {
	return generateDDL(m, m.TableName(), "PRIMARY KEY (dataset_id, molecule_id)")
}
func (m DatasetMoleculeLink) IndexDDL() []string { return []string{} }
func (m DatasetMoleculeLink) TableName() string  { return "datasets_molecules_link" }

func (m MoleculeTopologyLink) TableDDL() string {
	return generateDDL(m, m.TableName(), "PRIMARY KEY (molecule_id, file_id)")
}
func (m MoleculeTopologyLink) IndexDDL() []string { return []string{} }
func (m MoleculeTopologyLink) TableName() string  { return "molecules_topologies_link" }
