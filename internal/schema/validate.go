package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Validate checks data against the named table schema and returns a flat,
// human-readable error list (empty = accepted). Values may still carry the
// loose types the JSON decoder produces (string, float64, bool, nil).
//
// Rules:
//   - null / empty-string values only ever trigger a "required" error; no
//     range or type check runs on an empty value.
//   - keys absent from the schema are ignored.
//   - required fields entirely absent from data are reported after the
//     per-field checks, in schema declaration order.
//
// Pure function; panics only on an unknown table name (see Table).
func Validate(table string, data map[string]any) []string {
	t := Table(table)
	var errs []string

	// Per-field checks iterate in schema declaration order so output is
	// deterministic across runs.
	for _, f := range t.Fields {
		raw, present := data[f.Name]
		if !present {
			continue
		}
		if isEmpty(raw) {
			if f.Schema.Required {
				errs = append(errs, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		errs = append(errs, checkField(f.Name, f.Schema, raw)...)
	}

	// Required fields missing entirely (distinct from present-but-empty).
	for _, f := range t.Fields {
		if _, present := data[f.Name]; !present && f.Schema.Required {
			errs = append(errs, fmt.Sprintf("%s is required", f.Name))
		}
	}

	return errs
}

func checkField(name string, fs FieldSchema, raw any) []string {
	var errs []string
	switch fs.Type {
	case TypeString, TypeText:
		s, ok := raw.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", name)}
		}
		// text fields only enforce an upper bound
		if fs.Type == TypeString && fs.MinLength > 0 && len(s) < fs.MinLength {
			errs = append(errs, fmt.Sprintf("%s must be at least %d characters", name, fs.MinLength))
		}
		if fs.MaxLength > 0 && len(s) > fs.MaxLength {
			errs = append(errs, fmt.Sprintf("%s must be at most %d characters", name, fs.MaxLength))
		}
	case TypeInteger:
		n, ok := parseInteger(raw)
		if !ok {
			return []string{fmt.Sprintf("%s must be a valid integer", name)}
		}
		errs = append(errs, checkRange(name, float64(n), fs)...)
	case TypeDecimal:
		f, ok := parseDecimal(raw)
		if !ok {
			return []string{fmt.Sprintf("%s must be a valid number", name)}
		}
		errs = append(errs, checkRange(name, f, fs)...)
		if fs.Precision != nil && decimalDigits(f) > *fs.Precision {
			errs = append(errs, fmt.Sprintf("%s must have at most %d digits after the decimal point", name, *fs.Precision))
		}
	case TypeBoolean:
		if !isBooleanLike(raw) {
			errs = append(errs, fmt.Sprintf("%s must be a boolean", name))
		}
	case TypeDate:
		if _, ok := parseDate(raw); !ok {
			errs = append(errs, fmt.Sprintf("%s must be a valid date", name))
		}
	}
	return errs
}

func checkRange(name string, v float64, fs FieldSchema) []string {
	var errs []string
	if fs.Min != nil && v < *fs.Min {
		errs = append(errs, fmt.Sprintf("%s must be at least %s", name, formatNumber(*fs.Min)))
	}
	if fs.Max != nil && v > *fs.Max {
		errs = append(errs, fmt.Sprintf("%s must be at most %s", name, formatNumber(*fs.Max)))
	}
	return errs
}

// isEmpty reports the canonical "no value" inputs: null and the empty
// string. Absent keys are handled by the caller.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// parseInteger accepts native ints, floats and numeric strings. Non-integral
// numeric input is truncated rather than rejected, matching the sanitizer.
func parseInteger(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(math.Trunc(x)), true
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(math.Trunc(f)), true
		}
	}
	return 0, false
}

func parseDecimal(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// decimalDigits counts digits after the decimal point in the parsed value's
// shortest string form. Known limitation: this inspects the parsed float,
// not the original input, so representation artifacts near binary rounding
// boundaries can leak through.
func decimalDigits(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// isBooleanLike accepts native booleans, numeric 1/0 and the literal
// strings "true"/"false".
func isBooleanLike(v any) bool {
	switch x := v.(type) {
	case bool:
		return true
	case float64:
		return x == 0 || x == 1
	case int:
		return x == 0 || x == 1
	case string:
		return x == "true" || x == "false"
	}
	return false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// parseDate parses date-only layouts in the local zone so the calendar date
// survives unchanged; zoned timestamps are converted to local afterwards.
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t.In(time.Local), true
			}
		}
	}
	return time.Time{}, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
