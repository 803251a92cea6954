package catalog

import (
	"slices"
	"strings"
)

const (
	// Unknown replaces missing thermostat, barostat and molecule type
	// values, and missing software versions.
	Unknown = "unknown"
	// Undefined replaces missing integrator values.
	Undefined = "undefined"
)

var sentinels = map[Dimension]string{
	Thermostat:   Unknown,
	Barostat:     Unknown,
	Integrator:   Undefined,
	MoleculeType: Unknown,
}

// Sentinel returns the value stored instead of an empty key of the
// dimension. Dimensions without a sentinel return an empty string.
func Sentinel(d Dimension) string {
	return sentinels[d]
}

// IsMissing reports whether a raw value means "no value". Snapshot
// exports spell missing values in several ways.
func IsMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null", "<na>", "nat":
		return true
	}
	return false
}

// Normalize trims a natural key and replaces a missing value with the
// sentinel of the dimension. The result is empty only for dimensions
// without a sentinel.
func Normalize(d Dimension, s string) string {
	if IsMissing(s) {
		return Sentinel(d)
	}
	s = strings.TrimSpace(s)
	if d == FileType {
		s = normalizeType(s)
	}
	return s
}

// NormalizeVersion returns a software version or Unknown.
func NormalizeVersion(s string) string {
	if IsMissing(s) {
		return Unknown
	}
	return strings.TrimSpace(s)
}

func normalizeType(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ".")
	return strings.ToLower(s)
}

// SplitAuthors splits the author field of a cleaned dataset record.
// Names are separated by semicolons.
func SplitAuthors(s string) []string {
	return splitUnique(s, ";")
}

// SplitKeywords splits keywords separated by semicolons or commas.
func SplitKeywords(s string) []string {
	s = strings.ReplaceAll(s, ",", ";")
	return splitUnique(s, ";")
}

// JoinAuthors converts a raw author field to the cleaned form. Raw
// fields use semicolons, or commas when there are no semicolons.
func JoinAuthors(s string) string {
	sep := ";"
	if !strings.Contains(s, ";") {
		sep = ","
	}
	return strings.Join(splitUnique(s, sep), ";")
}

func splitUnique(s, sep string) []string {
	if IsMissing(s) {
		return nil
	}
	var res []string
	for _, v := range strings.Split(s, sep) {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" || IsMissing(v) || slices.Contains(res, v) {
			continue
		}
		res = append(res, v)
	}
	return res
}
