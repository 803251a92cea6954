package ioingest

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/mdverse/mddb/pkg/mddb"
)

// NotConnectedError creates an error for when ingest
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Ingest operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// ReferentialError is a per-record error for a foreign key target
// that cannot be resolved.
func ReferentialError(ref recordRef, reason string) error {
	return &gn.Error{
		Code: errcode.IngestReferentialError,
		Msg:  "%s:%d <em>%s</em>: %s",
		Vars: []any{ref.table, ref.line, ref.key, reason},
		Err: fmt.Errorf("%s line %d (%s): unresolved reference: %s",
			ref.table, ref.line, ref.key, reason),
	}
}

// DuplicateKeyError is a per-record error for a fact or extension row
// that is already present.
func DuplicateKeyError(ref recordRef, reason string) error {
	return &gn.Error{
		Code: errcode.IngestDuplicateKeyError,
		Msg:  "%s:%d <em>%s</em>: %s",
		Vars: []any{ref.table, ref.line, ref.key, reason},
		Err: fmt.Errorf("%s line %d (%s): duplicate: %s",
			ref.table, ref.line, ref.key, reason),
	}
}

// MalformedRecordError is a per-record error for a value that cannot
// be coerced to its column type.
func MalformedRecordError(ref recordRef, err error) error {
	return &gn.Error{
		Code: errcode.IngestMalformedRecordError,
		Msg:  "%s:%d <em>%s</em>: %s",
		Vars: []any{ref.table, ref.line, ref.key, err},
		Err: fmt.Errorf("%s line %d (%s): malformed: %w",
			ref.table, ref.line, ref.key, err),
	}
}

// StoreError is a fatal error of a store operation during a phase.
func StoreError(table string, err error) error {
	msg := `Cannot load <em>%s</em> into the catalog

<em>Possible causes:</em>
  - The catalog schema was not created
  - The database went away during ingestion

<em>How to fix:</em>
  1. Run <em>mddb create</em>
  2. Check the log file for details`

	code := errcode.IngestDatasetsError
	if table != "datasets" {
		code = errcode.IngestFilesError
	}

	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to load %s: %w", table, err),
	}
}

// ZipHierarchyError is returned when the archive post-pass finds a
// parent chain that does not terminate or points nowhere.
func ZipHierarchyError(fileID int64, reason string) error {
	msg := `Broken archive hierarchy at file <em>%d</em>: %s

<em>How to fix:</em>
  Recreate the catalog with <em>mddb create --force</em> and ingest again`

	return &gn.Error{
		Code: errcode.IngestZipHierarchyError,
		Msg:  msg,
		Vars: []any{fileID, reason},
		Err:  fmt.Errorf("file %d: %s", fileID, reason),
	}
}

// MetricsError is returned when run metrics cannot be written.
func MetricsError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestMetricsError,
		Msg:  "Cannot write ingestion metrics to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("cannot write metrics %s: %w", path, err),
	}
}

// kindOf classifies per-record errors. The second value is false for
// errors that must stop the run.
func kindOf(err error) (mddb.ErrorKind, bool) {
	gnErr, ok := err.(*gn.Error)
	if !ok {
		return "", false
	}
	switch gnErr.Code {
	case errcode.IngestReferentialError:
		return mddb.Referential, true
	case errcode.IngestDuplicateKeyError:
		return mddb.Duplicate, true
	case errcode.IngestMalformedRecordError:
		return mddb.Malformed, true
	}
	return "", false
}

func isEmptyKey(err error) bool {
	gnErr, ok := err.(*gn.Error)
	return ok && gnErr.Code == errcode.ResolverEmptyKeyError
}
