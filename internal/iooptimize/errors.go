package iooptimize

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// OrphansError is returned when unreferenced rows cannot be removed.
func OrphansError(table string, err error) error {
	msg := "Cannot remove orphan rows from <em>%s</em>"

	return &gn.Error{
		Code: errcode.OptimizeOrphansError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("remove orphans from %s: %w", table, err),
	}
}

// VacuumError is returned when the store cannot be compacted.
func VacuumError(err error) error {
	msg := `Cannot vacuum the catalog

<em>How to fix:</em>
  Make sure no other process holds the database, then retry`

	return &gn.Error{
		Code: errcode.OptimizeVacuumError,
		Msg:  msg,
		Err:  fmt.Errorf("vacuum failed: %w", err),
	}
}
