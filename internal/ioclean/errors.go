package ioclean

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// ParquetReadError is returned when a raw snapshot file is missing or
// is not a readable Parquet file.
func ParquetReadError(path string, err error) error {
	msg := `Cannot read raw file <em>%s</em>

<em>How to fix:</em>
  Run <em>mddb fetch</em> to download the snapshot`

	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CleanParquetReadError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

// MissingColumnError is returned when a raw file lacks columns
// required by its cleaned table.
func MissingColumnError(path string, cols []string) error {
	return &gn.Error{
		Code: errcode.CleanMissingColumnError,
		Msg:  "Raw file <em>%s</em> misses columns <em>%s</em>",
		Vars: []any{path, strings.Join(cols, ", ")},
		Err:  fmt.Errorf("%s lacks columns %v", path, cols),
	}
}

// UnsupportedTypeError is returned when a raw column needed by a
// cleaned table has an arrow type that cannot be converted to text.
func UnsupportedTypeError(path, col, typ string) error {
	return &gn.Error{
		Code: errcode.CleanUnsupportedTypeError,
		Msg:  "Column <em>%s</em> of %s has unsupported type %s",
		Vars: []any{col, path, typ},
		Err:  fmt.Errorf("%s: column %s has unsupported type %s", path, col, typ),
	}
}
