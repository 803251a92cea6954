package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models, referenced tables first.
// The same order is used for GORM AutoMigrate and for SQLite DDL.
func AllModels() []DDLGenerator {
	return []DDLGenerator{
		&DatasetOrigin{},
		&FileType{},
		&Software{},
		&MoleculeType{},
		&Thermostat{},
		&Barostat{},
		&Integrator{},
		&Database{},
		&Keyword{},
		&Author{},
		&Dataset{},
		&File{},
		&TopologyFile{},
		&ParameterFile{},
		&TrajectoryFile{},
		&Molecule{},
		&MoleculeExternalDB{},
		&DatasetAuthorLink{},
		&DatasetKeywordLink{},
		&DatasetMoleculeLink{},
		&MoleculeTopologyLink{},
	}
}

// TableNames returns names of all tables in creation order.
func TableNames() []string {
	models := AllModels()
	res := make([]string, len(models))
	for i, m := range models {
		res[i] = m.TableName()
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
// Foreign keys are not declared as GORM associations, they are added
// afterwards from ForeignKeys().
func Migrate(db *gorm.DB) error {
	models := AllModels()
	res := make([]any, len(models))
	for i, m := range models {
		res[i] = m
	}
	return db.AutoMigrate(res...)
}
