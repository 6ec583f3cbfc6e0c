package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency prefix used when none is configured.
const DefaultSymbol = "Rs "

// Round rounds v to places decimal places, halves away from zero.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// FormatCurrency renders v as a whole amount with Indian digit grouping,
// e.g. 1234567.4 -> "Rs 12,34,567". The sign follows the symbol.
func FormatCurrency(symbol string, v float64) string {
	return symbol + FormatGrouped(v)
}

// FormatGrouped rounds v to an integer and groups its digits the en-IN way:
// the last three digits, then pairs.
func FormatGrouped(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	n := decimal.NewFromFloat(v).Round(0).IntPart()
	if n < 0 {
		return "-" + groupIndian(strconv.FormatInt(-n, 10))
	}
	return groupIndian(strconv.FormatInt(n, 10))
}

func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
