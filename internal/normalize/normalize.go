// Package normalize coerces loosely-typed values coming from external
// sources into the string forms stored on an equipment record.
//
// None of the functions in this package return an error: a value that
// cannot be interpreted falls back to a documented default.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ISOLayout is the instant format written for every date field.
// Millisecond precision, always UTC.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Enum stringifies value, trims it and fixes its casing: first letter
// upper-case, the rest lower-case. Empty or falsy input yields fallback.
//
// The result is not checked against a closed set of labels: "foobar"
// becomes "Foobar".
func Enum(value any, fallback string) string {
	s := strings.TrimSpace(String(value))
	if s == "" {
		return fallback
	}
	return TitleFirst(s)
}

// TitleFirst upper-cases the first rune of s and lower-cases the rest.
func TitleFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(s)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// String returns the string form of a truthy value, "" otherwise.
// Maps and slices are rendered as compact JSON.
func String(value any) string {
	if IsFalsy(value) {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return numberString(v)
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(ISOLayout)
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// IsFalsy reports whether value counts as absent: nil, "", false, zero
// numbers, NaN and the zero time.
func IsFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return v == "" || (err == nil && (f == 0 || math.IsNaN(f)))
	case float64:
		return v == 0 || math.IsNaN(v)
	case float32:
		return v == 0 || math.IsNaN(float64(v))
	case int:
		return v == 0
	case int64:
		return v == 0
	case int32:
		return v == 0
	case uint64:
		return v == 0
	case uint:
		return v == 0
	case time.Time:
		return v.IsZero()
	default:
		return false
	}
}

// GenerateID returns a random opaque identifier.
func GenerateID() string {
	return uuid.NewString()
}

// numberString keeps integer literals exact and renders any other
// literal through its float value, so 42.0 and 4.2e1 both give "42".
func numberString(n json.Number) string {
	lit := n.String()
	if isIntegerLiteral(lit) {
		return lit
	}
	f, err := n.Float64()
	if err != nil {
		return lit
	}
	return formatFloat(f)
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
