package roll

import (
	"encoding/json"
	"strings"
	"time"
)

// LayoutISO is the on-disk timestamp form: naive UTC with microseconds.
const LayoutISO = "2006-01-02T15:04:05.000000"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts the timestamp spellings found in inventory files. Values
// without an offset are UTC.
func ParseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTime renders t in LayoutISO.
func FormatTime(t time.Time) string {
	return t.UTC().Format(LayoutISO)
}

// Timestamp is a point in time that survives a round trip through the file
// even when the stored text could not be understood.
type Timestamp struct {
	time.Time
	raw string
	ok  bool
}

// NewTimestamp wraps t, truncated to the precision the file keeps.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond), ok: true}
}

// TimestampFrom parses text with ParseTime, keeping the text verbatim when it
// is not a recognised timestamp.
func TimestampFrom(v string) Timestamp {
	if t, ok := ParseTime(v); ok {
		return NewTimestamp(t)
	}
	return Timestamp{raw: v}
}

// Valid reports whether the timestamp holds a parsed time. The zero time is
// valid when it was parsed from the file.
func (t Timestamp) Valid() bool {
	return t.ok
}

func (t Timestamp) String() string {
	if t.Valid() {
		return FormatTime(t.Time)
	}
	return t.raw
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. Non-string values become the zero
// Timestamp.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = TimestampFrom(s)
	return nil
}
