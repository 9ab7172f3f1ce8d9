package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseNumber parses user input for number and currency columns. It
// accepts a comma as decimal separator when no dot is present. NaN and
// infinities are rejected with ErrInvalidNumber.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidNumber)
	}
	return f, nil
}

// coerce converts draft input to the value type of t. Numeric types become
// float64; everything else stays a string.
func coerce(t ColumnType, s string) (any, error) {
	if t.Numeric() {
		return ParseNumber(s)
	}
	return s, nil
}

// toFloat converts a numeric row value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case *int64:
		if n == nil {
			return 0, false
		}
		return float64(*n), true
	default:
		return 0, false
	}
}

// truthy reports the boolean reading of a row value.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case *bool:
		return b != nil && *b
	case nil:
		return false
	default:
		f, ok := toFloat(v)
		return ok && f != 0
	}
}

// editText returns the text an edit input is seeded with.
func editText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case time.Time:
		return x.Format(time.DateOnly)
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if isNilPointer(v) {
		return ""
	}
	return fmt.Sprint(v)
}

func isNilPointer(v any) bool {
	switch x := v.(type) {
	case *float64:
		return x == nil
	case *int64:
		return x == nil
	case *bool:
		return x == nil
	case *string:
		return x == nil
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
