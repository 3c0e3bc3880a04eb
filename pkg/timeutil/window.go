// Package timeutil parses the time windows used by usage reports and charts.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is the report window used when none is given.
	DefaultWindow = "4w"

	// All selects every recorded event.
	All = "all"

	day = 24 * time.Hour
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]time.Duration{
		"h":      time.Hour,
		"hr":     time.Hour,
		"hrs":    time.Hour,
		"hour":   time.Hour,
		"hours":  time.Hour,
		"d":      day,
		"day":    day,
		"days":   day,
		"w":      7 * day,
		"wk":     7 * day,
		"wks":    7 * day,
		"week":   7 * day,
		"weeks":  7 * day,
		"mo":     30 * day,
		"month":  30 * day,
		"months": 30 * day,
		"y":      365 * day,
		"yr":     365 * day,
		"year":   365 * day,
		"years":  365 * day,
	}
)

// ParseWindow parses a duration such as "1w", "3d" or "1mo2w" and returns it
// with a compact label. Empty input is DefaultWindow. "all" is a zero
// duration, meaning no lower bound.
func ParseWindow(input string) (time.Duration, string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		trimmed = DefaultWindow
	}
	if trimmed == All {
		return 0, All, nil
	}

	remaining := trimmed
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = strings.TrimSpace(remaining[len(matches[0]):])
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders a duration with week, day and hour tokens.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	units := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * day},
		{"d", day},
		{"h", time.Hour},
	}

	var parts []string
	remaining := d
	for _, u := range units {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		parts = append(parts, fmt.Sprintf("%d%s", count, u.label))
	}
	return strings.Join(parts, "")
}

// Bounds resolves a window ending at now. The since bound is zero for "all".
func Bounds(input string, now time.Time) (since, until time.Time, label string, err error) {
	d, label, err := ParseWindow(input)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if d == 0 {
		return time.Time{}, now, label, nil
	}
	return now.Add(-d), now, label, nil
}

// MonthOf parses "YYYY-MM" into the first of that month in loc. Empty input
// is the month of now.
func MonthOf(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", input, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", input)
	}
	return t, nil
}
