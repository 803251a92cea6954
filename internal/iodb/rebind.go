package iodb

import (
	"strconv"
	"strings"
)

// rebindDollar replaces `?` placeholders with $1, $2... Question marks
// inside single-quoted literals are kept.
func rebindDollar(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)

	var n int
	var quoted bool
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			sb.WriteRune(r)
		case r == '?' && !quoted:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
