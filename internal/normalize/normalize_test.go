package normalize

import (
	"encoding/json"
	"math"
	"testing"
	"time"
	"unicode"
	"unicode/utf8"
)

func TestEnum(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		fallback string
		expected string
	}{
		{name: "nil uses fallback", value: nil, fallback: "Available", expected: "Available"},
		{name: "empty uses fallback", value: "", fallback: "Other", expected: "Other"},
		{name: "whitespace uses fallback", value: "   ", fallback: "Other", expected: "Other"},
		{name: "upper case", value: "BREAKDOWN", fallback: "Available", expected: "Breakdown"},
		{name: "lower case", value: "maintenance", fallback: "Available", expected: "Maintenance"},
		{name: "trimmed", value: "  assigned ", fallback: "Available", expected: "Assigned"},
		{name: "unknown label passes through", value: "foobar", fallback: "Available", expected: "Foobar"},
		{name: "acronym is title-cased", value: "ANDT", fallback: "Other", expected: "Andt"},
		{name: "number", value: 42.0, fallback: "Other", expected: "42"},
		{name: "zero is falsy", value: 0, fallback: "Other", expected: "Other"},
		{name: "false is falsy", value: false, fallback: "Other", expected: "Other"},
		{name: "non ascii first letter", value: "éCOLE", fallback: "Other", expected: "École"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enum(tt.value, tt.fallback); got != tt.expected {
				t.Errorf("Enum(%v, %q) = %q, want %q", tt.value, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestEnumCasingProperty(t *testing.T) {
	inputs := []any{"a", "Ab", "aB", "MARINE", "octg", "x y Z", "123abc", "ñandú", true, json.Number("7")}

	for _, in := range inputs {
		got := Enum(in, "Fallback")
		r, size := utf8.DecodeRuneInString(got)
		if unicode.IsLower(r) {
			t.Errorf("Enum(%v) = %q, first rune should not be lower case", in, got)
		}
		for _, rest := range got[size:] {
			if unicode.IsUpper(rest) {
				t.Errorf("Enum(%v) = %q, tail should be lower case", in, got)
				break
			}
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: ""},
		{name: "string", value: "Rig 7", expected: "Rig 7"},
		{name: "integer float", value: 42.0, expected: "42"},
		{name: "fraction", value: 4.5, expected: "4.5"},
		{name: "json number keeps digits", value: json.Number("12345678901234567890"), expected: "12345678901234567890"},
		{name: "json number integral float", value: json.Number("42.0"), expected: "42"},
		{name: "json number exponent", value: json.Number("4.20e1"), expected: "42"},
		{name: "json number thousand", value: json.Number("1e3"), expected: "1000"},
		{name: "json number fraction", value: json.Number("2.50"), expected: "2.5"},
		{name: "json number negative", value: json.Number("-17"), expected: "-17"},
		{name: "int", value: 7, expected: "7"},
		{name: "bool", value: true, expected: "true"},
		{name: "map", value: map[string]any{"a": 1.0}, expected: `{"a":1}`},
		{name: "zero", value: 0.0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.value); got != tt.expected {
				t.Errorf("String(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSafeDate(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: ""},
		{name: "empty", value: "", expected: ""},
		{name: "garbage", value: "not a date", expected: ""},
		{name: "date only is utc midnight", value: "2024-01-01", expected: "2024-01-01T00:00:00.000Z"},
		{name: "rfc3339 with offset", value: "2024-03-10T12:30:00+02:00", expected: "2024-03-10T10:30:00.000Z"},
		{name: "already normalized", value: "2024-01-01T00:00:00.000Z", expected: "2024-01-01T00:00:00.000Z"},
		{name: "epoch millis", value: 1704067200000.0, expected: "2024-01-01T00:00:00.000Z"},
		{name: "epoch millis json number", value: json.Number("1704067200000"), expected: "2024-01-01T00:00:00.000Z"},
		{name: "time value", value: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), expected: "2025-06-01T08:00:00.000Z"},
		{name: "zero time", value: time.Time{}, expected: ""},
		{name: "invalid month", value: "2024-13-01", expected: ""},
		{name: "nan", value: math.NaN(), expected: ""},
		{name: "infinity", value: math.Inf(1), expected: ""},
		{name: "out of range millis", value: 1e300, expected: ""},
		{name: "bool", value: true, expected: ""},
		{name: "map", value: map[string]any{"date": "2024-01-01"}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeDate(tt.value); got != tt.expected {
				t.Errorf("SafeDate(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSafeDateRoundTrip(t *testing.T) {
	inputs := []any{
		"2024-01-01",
		"2024-02-29T23:59:59.999Z",
		"2023/07/14",
		"07/14/2023",
		"Jan 2, 2024",
		"2024-05-06 10:11:12",
		"Mon, 02 Jan 2006 15:04:05 MST",
		1.5e12,
		"9999-12-31T23:59:59Z",
		"garbage",
	}

	for _, in := range inputs {
		out := SafeDate(in)
		if out == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, out)
		if err != nil {
			t.Errorf("SafeDate(%v) = %q does not re-parse: %v", in, out, err)
			continue
		}
		if again := SafeDate(out); again != out {
			t.Errorf("SafeDate(%q) = %q, want stable %q", out, again, out)
		}
		if parsed.UTC().Format(ISOLayout) != out {
			t.Errorf("SafeDate(%v) = %q, re-formats to %q", in, out, parsed.UTC().Format(ISOLayout))
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate(""); ok {
		t.Error("ParseDate(\"\") should fail")
	}
	if _, ok := ParseDate("10000-01-01"); ok {
		t.Error("ParseDate() should reject years past 9999")
	}

	got, ok := ParseDate("2024-01-01T00:00:00.000Z")
	if !ok {
		t.Fatal("ParseDate() failed on ISO instant")
	}
	if !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate() = %v, want 2024-01-01 UTC", got)
	}
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("GenerateID() returned empty id")
		}
		if seen[id] {
			t.Fatalf("GenerateID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}
