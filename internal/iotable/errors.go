package iotable

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// SourceReadError is returned when a cleaned table is missing or
// cannot be parsed.
func SourceReadError(path string, err error) error {
	msg := `Cannot read table <em>%s</em>

<em>How to fix:</em>
  1. Run <em>mddb fetch</em> and <em>mddb clean</em>
  2. Or point <em>--input</em> to a directory with cleaned tables`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestSourceReadError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

// MissingColumnsError is returned when a header lacks required columns.
func MissingColumnsError(path string, cols []string) error {
	msg := "Table <em>%s</em> misses columns <em>%s</em>"
	return &gn.Error{
		Code: errcode.IngestSourceReadError,
		Msg:  msg,
		Vars: []any{path, strings.Join(cols, ", ")},
		Err:  fmt.Errorf("%s lacks columns %v", path, cols),
	}
}

// WriteError is returned when a cleaned table cannot be written.
func WriteError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CleanWriteError,
		Msg:  "Cannot write <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}
