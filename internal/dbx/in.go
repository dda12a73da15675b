package dbx

import (
	"strconv"
	"strings"
)

// InList renders "$start, $start+1, ..." for len(values) parameters and
// returns the values as query args. It lets IN clauses be built without
// array types, which keeps queries portable across drivers.
func InList(start int, values []string) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
		args = append(args, v)
	}
	return b.String(), args
}
