package schema

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Sanitize coerces raw field values into their canonical types: int64 for
// integer, float64 for decimal, bool for boolean, trimmed string for
// string/text, "YYYY-MM-DD" for date. Null and empty-string values become
// nil regardless of declared type. Fields the schema does not know are
// passed through untouched.
//
// Sanitize never fails: it assumes the record already passed Validate, and
// malformed values degrade silently (zero values, false) instead of
// erroring. Always validate before sanitizing.
func Sanitize(table string, data map[string]any) map[string]any {
	t := Table(table)
	out := make(map[string]any, len(data))

	for key, raw := range data {
		if isEmpty(raw) {
			out[key] = nil
			continue
		}
		fs, known := t.lookup(key)
		if !known {
			out[key] = raw
			continue
		}
		out[key] = coerce(fs.Type, raw)
	}

	return out
}

func coerce(ft FieldType, raw any) any {
	switch ft {
	case TypeInteger:
		n, _ := parseInteger(raw)
		return n
	case TypeDecimal:
		f, _ := parseDecimal(raw)
		return f
	case TypeBoolean:
		return isTruthy(raw)
	case TypeString, TypeText:
		return strings.TrimSpace(stringify(raw))
	case TypeDate:
		t, ok := parseDate(raw)
		if !ok {
			return nil
		}
		// Local calendar components, not UTC: a date entered as 2024-03-05
		// must not shift to 2024-03-04 for users west of Greenwich.
		return t.In(time.Local).Format("2006-01-02")
	}
	return raw
}

// isTruthy mirrors the boolean acceptance set of the validator but maps
// everything outside it to false instead of erroring.
func isTruthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x == 1
	case int:
		return x == 1
	case string:
		return x == "true"
	}
	return false
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprintf("%v", v)
	}
}
