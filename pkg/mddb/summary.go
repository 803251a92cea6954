package mddb

import (
	"maps"
	"slices"
	"time"
)

// ErrorKind classifies per-record ingestion errors.
type ErrorKind string

const (
	// Referential means a required foreign key target was not found.
	Referential ErrorKind = "referential"
	// Duplicate means a fact or extension row already exists.
	Duplicate ErrorKind = "duplicate"
	// Malformed means a value could not be coerced to its column type.
	Malformed ErrorKind = "malformed"
)

// Summary is the outcome of one ingestion run.
type Summary struct {
	// RunID identifies the run in logs and metrics.
	RunID    string
	Duration time.Duration

	// Inserted counts inserted rows per table.
	Inserted map[string]int
	// Skipped counts skipped records per error kind.
	Skipped map[ErrorKind]int
	// Resolved counts dimension rows created during the run per table.
	Resolved map[string]int
	// RecoveredDuplicates counts unique violations that the resolver
	// turned into lookups.
	RecoveredDuplicates int
	// MaxZipDepth is the longest archive nesting found in files.
	MaxZipDepth int
}

// NewSummary returns an empty summary for a run.
func NewSummary(runID string) *Summary {
	return &Summary{
		RunID:    runID,
		Inserted: make(map[string]int),
		Skipped:  make(map[ErrorKind]int),
		Resolved: make(map[string]int),
	}
}

// SkippedTotal is the number of records skipped for any reason.
func (s *Summary) SkippedTotal() int {
	var res int
	for _, v := range s.Skipped {
		res += v
	}
	return res
}

// Tables returns names of tables with inserted rows in sorted order.
func (s *Summary) Tables() []string {
	return slices.Sorted(maps.Keys(s.Inserted))
}
