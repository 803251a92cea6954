package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ConfigParseError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBUnsupportedDriverError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaForeignKeyError
	SchemaResetError

	// Resolver errors
	ResolverEmptyKeyError
	ResolverLookupError
	ResolverInsertError
	ResolverDuplicateKeyError

	// Ingest errors
	IngestSourceReadError
	IngestReferentialError
	IngestDuplicateKeyError
	IngestMalformedRecordError
	IngestDatasetsError
	IngestFilesError
	IngestZipHierarchyError
	IngestMetricsError

	// Fetch errors
	FetchRecordError
	FetchDownloadError
	FetchChecksumError
	FetchNoFilesError
	FetchS3Error
	FetchFileNameError
	FetchNameClashError

	// Clean errors
	CleanParquetReadError
	CleanMissingColumnError
	CleanUnsupportedTypeError
	CleanWriteError

	// Report errors
	ReportQueryError

	// Optimize errors
	OptimizeOrphansError
	OptimizeVacuumError
)
