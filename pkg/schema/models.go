// Package schema provides database schema models for MDdb.
// Models carry `ddl` tags for SQLite and `gorm` tags for PostgreSQL
// AutoMigrate. Foreign keys of both dialects come from ForeignKeys().
package schema

import (
	"database/sql"
)

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// DatasetOrigin is a repository datasets were harvested from
// (zenodo, figshare, osf...).
type DatasetOrigin struct {
	OriginID int64  `db:"origin_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:origin_id;primaryKey"`
	Name     string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// FileType is a file extension, such as gro, mdp, xtc or zip.
type FileType struct {
	FileTypeID int64  `db:"file_type_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:file_type_id;primaryKey"`
	Name       string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Software that produced a file. Name and version together are the
// natural key.
type Software struct {
	SoftwareID int64  `db:"software_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:software_id;primaryKey"`
	Name       string `db:"name" ddl:"TEXT NOT NULL" gorm:"column:name;not null;uniqueIndex:idx_software_name_version"`
	Version    string `db:"version" ddl:"TEXT NOT NULL" gorm:"column:version;not null;uniqueIndex:idx_software_name_version"`
}

// MoleculeType is a class of molecules (protein, lipid, ...).
type MoleculeType struct {
	MoleculeTypeID int64  `db:"molecule_type_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:molecule_type_id;primaryKey"`
	Name           string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Thermostat used by a simulation.
type Thermostat struct {
	ThermostatID int64  `db:"thermostat_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:thermostat_id;primaryKey"`
	Name         string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Barostat used by a simulation.
type Barostat struct {
	BarostatID int64  `db:"barostat_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:barostat_id;primaryKey"`
	Name       string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Integrator used by a simulation.
type Integrator struct {
	IntegratorID int64  `db:"integrator_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:integrator_id;primaryKey"`
	Name         string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Database is an external molecule database (PDB, UniProt...).
type Database struct {
	DatabaseID int64  `db:"database_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:database_id;primaryKey"`
	Name       string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Keyword attached to datasets.
type Keyword struct {
	KeywordID int64  `db:"keyword_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:keyword_id;primaryKey"`
	Name      string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"column:name;not null;uniqueIndex"`
}

// Author of datasets. ORCID is unique when it is known.
type Author struct {
	AuthorID int64          `db:"author_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:author_id;primaryKey"`
	Name     string         `db:"name" ddl:"TEXT NOT NULL" gorm:"column:name;not null;index"`
	ORCID    sql.NullString `db:"orcid" ddl:"TEXT UNIQUE" gorm:"column:orcid;uniqueIndex"`
}

// Dataset is one record of a repository.
type Dataset struct {
	DatasetID int64 `db:"dataset_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:dataset_id;primaryKey"`
	OriginID  int64 `db:"origin_id" ddl:"INTEGER NOT NULL" gorm:"column:origin_id;not null;index:idx_datasets_origin"`
	// IDInOrigin is the identifier of the dataset in its repository.
	IDInOrigin string `db:"id_in_origin" ddl:"TEXT NOT NULL" gorm:"column:id_in_origin;not null;index:idx_datasets_origin"`
	DOI        string `db:"doi" ddl:"TEXT" gorm:"column:doi"`
	// DateCreated and DateLastModified have day precision.
	DateCreated      sql.NullTime `db:"date_created" ddl:"DATE" gorm:"column:date_created;type:date"`
	DateLastModified sql.NullTime `db:"date_last_modified" ddl:"DATE" gorm:"column:date_last_modified;type:date"`
	DateLastCrawled  sql.NullTime `db:"date_last_crawled" ddl:"DATETIME" gorm:"column:date_last_crawled;type:timestamp"`
	FileNumber       int64        `db:"file_number" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"column:file_number;not null;default:0"`
	DownloadNumber   int64        `db:"download_number" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"column:download_number;not null;default:0"`
	ViewNumber       int64        `db:"view_number" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"column:view_number;not null;default:0"`
	License          string       `db:"license" ddl:"TEXT" gorm:"column:license"`
	URL              string       `db:"url" ddl:"TEXT" gorm:"column:url"`
	Title            string       `db:"title" ddl:"TEXT NOT NULL" gorm:"column:title;not null"`
	Description      string       `db:"description" ddl:"TEXT" gorm:"column:description"`
}

// File belongs to a dataset. Files extracted from archives point to
// their container with ParentZipFileID.
type File struct {
	FileID          int64         `db:"file_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:file_id;primaryKey"`
	DatasetID       int64         `db:"dataset_id" ddl:"INTEGER NOT NULL" gorm:"column:dataset_id;not null;index:idx_files_dataset_name"`
	Name            string        `db:"name" ddl:"TEXT NOT NULL" gorm:"column:name;not null;index:idx_files_dataset_name"`
	FileTypeID      int64         `db:"file_type_id" ddl:"INTEGER NOT NULL" gorm:"column:file_type_id;not null;index"`
	SizeInBytes     int64         `db:"size_in_bytes" ddl:"INTEGER" gorm:"column:size_in_bytes"`
	MD5             string        `db:"md5" ddl:"TEXT" gorm:"column:md5"`
	URL             string        `db:"url" ddl:"TEXT" gorm:"column:url"`
	SoftwareID      sql.NullInt64 `db:"software_id" ddl:"INTEGER" gorm:"column:software_id"`
	IsFromZipFile   bool          `db:"is_from_zip_file" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_from_zip_file;not null;default:false;index"`
	ParentZipFileID sql.NullInt64 `db:"parent_zip_file_id" ddl:"INTEGER" gorm:"column:parent_zip_file_id;index"`
}

// TopologyFile holds attributes of structure files (gro).
type TopologyFile struct {
	FileID      int64 `db:"file_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:file_id;primaryKey;autoIncrement:false"`
	AtomNumber  int64 `db:"atom_number" ddl:"INTEGER" gorm:"column:atom_number"`
	HasProtein  bool  `db:"has_protein" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:has_protein;not null;default:false"`
	HasNucleic  bool  `db:"has_nucleic" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:has_nucleic;not null;default:false"`
	HasLipid    bool  `db:"has_lipid" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:has_lipid;not null;default:false"`
	HasGlucid   bool  `db:"has_glucid" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:has_glucid;not null;default:false"`
	HasWaterIon bool  `db:"has_water_ion" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:has_water_ion;not null;default:false"`
}

// ParameterFile holds simulation settings (mdp).
type ParameterFile struct {
	FileID       int64   `db:"file_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:file_id;primaryKey;autoIncrement:false"`
	Dt           float64 `db:"dt" ddl:"REAL" gorm:"column:dt"`
	NSteps       int64   `db:"nsteps" ddl:"INTEGER" gorm:"column:nsteps"`
	Temperature  float64 `db:"temperature" ddl:"REAL" gorm:"column:temperature"`
	ThermostatID int64   `db:"thermostat_id" ddl:"INTEGER NOT NULL" gorm:"column:thermostat_id;not null;index"`
	BarostatID   int64   `db:"barostat_id" ddl:"INTEGER NOT NULL" gorm:"column:barostat_id;not null;index"`
	IntegratorID int64   `db:"integrator_id" ddl:"INTEGER NOT NULL" gorm:"column:integrator_id;not null;index"`
}

// TrajectoryFile holds attributes of trajectories (xtc, trr).
type TrajectoryFile struct {
	FileID      int64 `db:"file_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:file_id;primaryKey;autoIncrement:false"`
	AtomNumber  int64 `db:"atom_number" ddl:"INTEGER" gorm:"column:atom_number"`
	FrameNumber int64 `db:"frame_number" ddl:"INTEGER" gorm:"column:frame_number"`
}

// Molecule found in topology files. Name, formula and sequence
// together are the natural key.
type Molecule struct {
	MoleculeID     int64         `db:"molecule_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:molecule_id;primaryKey"`
	Name           string        `db:"name" ddl:"TEXT NOT NULL" gorm:"column:name;not null;uniqueIndex:idx_molecules_key"`
	Formula        string        `db:"formula" ddl:"TEXT NOT NULL DEFAULT ''" gorm:"column:formula;not null;default:'';uniqueIndex:idx_molecules_key"`
	Sequence       string        `db:"sequence" ddl:"TEXT NOT NULL DEFAULT ''" gorm:"column:sequence;not null;default:'';uniqueIndex:idx_molecules_key"`
	MoleculeTypeID sql.NullInt64 `db:"molecule_type_id" ddl:"INTEGER" gorm:"column:molecule_type_id"`
}

// MoleculeExternalDB is a reference of a molecule in an external
// database.
type MoleculeExternalDB struct {
	MolExtDBID     int64  `db:"mol_ext_db_id" ddl:"INTEGER PRIMARY KEY" gorm:"column:mol_ext_db_id;primaryKey"`
	MoleculeID     int64  `db:"molecule_id" ddl:"INTEGER NOT NULL" gorm:"column:molecule_id;not null;uniqueIndex:idx_mol_ext_db_key"`
	DBName         string `db:"db_name" ddl:"TEXT NOT NULL" gorm:"column:db_name;not null;index"`
	IDInExternalDB string `db:"id_in_external_db" ddl:"TEXT NOT NULL" gorm:"column:id_in_external_db;not null;uniqueIndex:idx_mol_ext_db_key"`
	DatabaseID     int64  `db:"database_id" ddl:"INTEGER NOT NULL" gorm:"column:database_id;not null;uniqueIndex:idx_mol_ext_db_key"`
}

// DatasetAuthorLink connects datasets and authors.
type DatasetAuthorLink struct {
	DatasetID int64 `db:"dataset_id" ddl:"INTEGER NOT NULL" gorm:"column:dataset_id;primaryKey;autoIncrement:false"`
	AuthorID  int64 `db:"author_id" ddl:"INTEGER NOT NULL" gorm:"column:author_id;primaryKey;autoIncrement:false"`
}

// DatasetKeywordLink connects datasets and keywords.
type DatasetKeywordLink struct {
	DatasetID int64 `db:"dataset_id" ddl:"INTEGER NOT NULL" gorm:"column:dataset_id;primaryKey;autoIncrement:false"`
	KeywordID int64 `db:"keyword_id" ddl:"INTEGER NOT NULL" gorm:"column:keyword_id;primaryKey;autoIncrement:false"`
}

// DatasetMoleculeLink connects datasets and molecules.
type DatasetMoleculeLink struct {
	DatasetID  int64 `db:"dataset_id" ddl:"INTEGER NOT NULL" gorm:"column:dataset_id;primaryKey;autoIncrement:false"`
	MoleculeID int64 `db:"molecule_id" ddl:"INTEGER NOT NULL" gorm:"column:molecule_id;primaryKey;autoIncrement:false"`
}

// MoleculeTopologyLink connects molecules and topology files.
type MoleculeTopologyLink struct {
	MoleculeID int64 `db:"molecule_id" ddl:"INTEGER NOT NULL" gorm:"column:molecule_id;primaryKey;autoIncrement:false"`
	FileID     int64 `db:"file_id" ddl:"INTEGER NOT NULL" gorm:"column:file_id;primaryKey;autoIncrement:false"`
}
