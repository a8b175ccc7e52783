package normalize

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// layouts accepted by ParseDate, tried in order.
// utc marks forms that carry no zone and are read as UTC (date-only ISO);
// the other zone-less forms are read in local time.
var layouts = []struct {
	layout string
	utc    bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999Z0700", false},
	{"2006-01-02T15:04Z07:00", false},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05.999999999Z07:00", false},
	{"2006-01-02 15:04:05.999999999", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", true},
	{"2006-01", true},
	{"2006/01/02 15:04:05", false},
	{"2006/01/02", false},
	{"2006/1/2", false},
	{"01/02/2006 15:04:05", false},
	{"01/02/2006", false},
	{"1/2/2006", false},
	{time.RFC1123, false},
	{time.RFC1123Z, false},
	{time.RFC850, false},
	{time.ANSIC, false},
	{"Mon Jan 02 2006 15:04:05 GMT-0700", false},
	{"Mon Jan 02 2006", false},
	{"January 2, 2006", false},
	{"Jan 2, 2006", false},
	{"2 January 2006", false},
	{"2 Jan 2006", false},
}

// SafeDate converts value into an ISO-8601 instant string (see ISOLayout).
// Falsy values and anything that does not parse into a representable
// instant yield "". SafeDate never panics.
func SafeDate(value any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	if IsFalsy(value) {
		return ""
	}
	t, ok := toTime(value)
	if !ok {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

// ParseDate parses a stored or external date string. It accepts the same
// forms as SafeDate.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// "Mon Jan 01 2024 00:00:00 GMT+0000 (Coordinated Universal Time)"
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	for _, l := range layouts {
		loc := time.Local
		if l.utc {
			loc = time.UTC
		}
		t, err := time.ParseInLocation(l.layout, s, loc)
		if err == nil {
			return t, representable(t)
		}
	}
	return time.Time{}, false
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, representable(v)
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, representable(*v)
	case string:
		return ParseDate(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromMillis(f)
	case float64:
		return fromMillis(v)
	case float32:
		return fromMillis(float64(v))
	case int:
		return fromMillis(float64(v))
	case int64:
		return fromMillis(float64(v))
	case int32:
		return fromMillis(float64(v))
	default:
		return time.Time{}, false
	}
}

// fromMillis reads a number as milliseconds since the Unix epoch.
func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	// Keep well inside int64 nanoseconds; representable() narrows further.
	if math.Abs(ms) > 8.64e15 {
		return time.Time{}, false
	}
	t := time.UnixMilli(int64(math.Trunc(ms))).UTC()
	return t, representable(t)
}

// representable reports whether t round-trips through ISOLayout.
func representable(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}
