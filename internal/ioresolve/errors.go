package ioresolve

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/errcode"
)

// EmptyKeyError is returned when a required natural key is empty and
// the table has no sentinel for it.
func EmptyKeyError(table string) error {
	return &gn.Error{
		Code: errcode.ResolverEmptyKeyError,
		Msg:  "Empty natural key for <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("empty natural key for %s", table),
	}
}

// LookupError is returned when a SELECT by natural key fails.
func LookupError(table, key string, err error) error {
	return &gn.Error{
		Code: errcode.ResolverLookupError,
		Msg:  "Cannot look up <em>%s</em> in <em>%s</em>",
		Vars: []any{key, table},
		Err:  fmt.Errorf("lookup of %q in %s failed: %w", key, table, err),
	}
}

// InsertError is returned when a new dimension row cannot be inserted.
func InsertError(table, key string, err error) error {
	msg := `Cannot insert <em>%s</em> into <em>%s</em>

<em>Possible causes:</em>
  - The catalog schema is outdated
  - The database is read-only`

	return &gn.Error{
		Code: errcode.ResolverInsertError,
		Msg:  msg,
		Vars: []any{key, table},
		Err:  fmt.Errorf("insert of %q into %s failed: %w", key, table, err),
	}
}

// DuplicateKeyError describes a unique violation on insert. The
// resolver recovers from it with a second lookup.
func DuplicateKeyError(table, key string, err error) error {
	return &gn.Error{
		Code: errcode.ResolverDuplicateKeyError,
		Msg:  "Row <em>%s</em> already exists in <em>%s</em>",
		Vars: []any{key, table},
		Err:  fmt.Errorf("duplicate key %q in %s: %w", key, table, err),
	}
}
