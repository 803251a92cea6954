package iotable

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mdverse/mddb/pkg/catalog"
)

// Int parses an integer column. Missing values give 0. Values such
// as "12.0" that pandas writes for integer columns with gaps are
// accepted when they have no fraction.
func Int(s string) (int64, error) {
	if catalog.IsMissing(s) {
		return 0, nil
	}
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), nil
}

// Float parses a float column. Missing values give 0.
func Float(s string) (float64, error) {
	if catalog.IsMissing(s) {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// Bool parses a boolean column. Missing values give false.
func Bool(s string) (bool, error) {
	if catalog.IsMissing(s) {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes":
		return true, nil
	case "false", "f", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// Time parses a date or time column with a layout. Missing values
// give an invalid sql.NullTime.
func Time(s, layout string) (sql.NullTime, error) {
	var res sql.NullTime
	if catalog.IsMissing(s) {
		return res, nil
	}
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return res, fmt.Errorf("not a %s date: %q", layout, s)
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

// Text returns a trimmed value, or an empty string for missing ones.
func Text(s string) string {
	if catalog.IsMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
