package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be opened for
// writing.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open log file <em>%s</em>

<em>How to fix:</em>
  Check permissions of the log directory, or set
  <em>MDDB_LOG_DESTINATION=stderr</em> to log to the terminal`

	pc, _, _, _ := runtime.Caller(1)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err: fmt.Errorf("%s: open log file %s: %w",
			runtime.FuncForPC(pc).Name(), path, err),
	}
}
