// Package money provides numeric coercion, currency formatting, and the
// ease-out interpolation used to animate headline figures.
package money

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Numberify coerces an arbitrary value to a finite float64.
// Strings are read like a lenient float parse: leading whitespace is skipped
// and the longest numeric prefix wins ("12.5km" -> 12.5). Anything that
// yields no number, or a non-finite one, becomes 0.
func Numberify(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case Number:
		f = float64(x)
	case json.Number:
		f = ParseNumber(string(x))
	case string:
		f = ParseNumber(x)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseNumber parses the numeric prefix of s, returning 0 when there is none.
func ParseNumber(s string) float64 {
	prefix := numericPrefix(strings.TrimSpace(s))
	if prefix == "" {
		return 0
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// numericPrefix returns the longest prefix of s of the form
// [+-]digits[.digits][(e|E)[+-]digits].
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	out := s[:i]
	// decimal rejects a bare trailing dot and a leading "+".
	out = strings.TrimSuffix(strings.TrimPrefix(out, "+"), ".")
	if strings.HasPrefix(out, ".") || strings.HasPrefix(out, "-.") {
		out = strings.Replace(out, ".", "0.", 1)
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Number is a float64 that decodes leniently from JSON: numbers, numeric
// strings, booleans and null are all accepted. Booleans, null and anything
// unparseable decode to 0 instead of failing the whole document.
type Number float64

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ParseNumber(s))
	case 't', 'f':
		*n = 0
	default:
		*n = Number(ParseNumber(string(data)))
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Non-finite values encode as 0.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(FormatInput(float64(n))), nil
}

// FormatInput renders v with the shortest representation that parses back
// to the same float64. It is the value written into bound number inputs.
func FormatInput(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
