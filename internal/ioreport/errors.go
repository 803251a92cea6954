package ioreport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// QueryError is returned when a report query fails.
func QueryError(what string, err error) error {
	msg := `Cannot build report of <em>%s</em>

<em>How to fix:</em>
  Make sure the catalog was created with <em>mddb create</em>`

	return &gn.Error{
		Code: errcode.ReportQueryError,
		Msg:  msg,
		Vars: []any{what},
		Err:  fmt.Errorf("report query %s failed: %w", what, err),
	}
}
