package roll

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseAmount for text that is not a decimal number.
var ErrNotANumber = errors.New("not a number")

// ParseNumber converts text using either ',' or '.' as the decimal separator.
// Anything that does not parse, including empty text and non-finite values,
// yields 0.
func ParseNumber(v string) float64 {
	f, err := ParseAmount(v)
	if err != nil {
		return 0
	}
	return f
}

// ParseAmount is the strict form of ParseNumber used where user input must be
// rejected rather than defaulted.
func ParseAmount(v string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrNotANumber)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, v)
	}
	return f, nil
}

// CoerceNumber reads a raw JSON value that is expected to hold a number. JSON
// numbers are taken as is, strings go through ParseNumber and every other
// shape (null, bool, object, array, garbage) becomes 0.
func CoerceNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseNumber(s)
	}
	return 0
}

// CoerceInt is CoerceNumber truncated toward zero, for counters.
func CoerceInt(raw json.RawMessage) int {
	f := CoerceNumber(raw)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// CoerceString reads a raw JSON value expected to be text. null and absent
// values give "", numbers and booleans keep their literal spelling.
func CoerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}
