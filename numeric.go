package pkm

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// This file normalizes the stringly-typed cells of the tabular store.
// The backing sheet may be kept under a Turkish locale, so a money cell can
// arrive as "16,23", "1.234,56 TL" or "₺42". Every column representing money
// or quantity must pass through ParseDecimal before arithmetic.

// currency decorations stripped before numeric parsing.
var currencyMarkers = []string{"₺", "TL", "$", "USD"}

// ParseDecimal parses a locale-ambiguous numeric cell into a float64.
//
// It strips currency symbols and suffixes, accepts both decimal-comma
// ("16,23") and thousands-dot ("1.234,56") encodings, and returns 0.0 on
// empty input or on text that still fails to parse. The zero fallback is a
// deliberate silent degrade: a malformed cell must not take down a whole
// valuation pass.
func ParseDecimal(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimSpace(s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// "1.234,56": dots are thousands separators, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// "1,234.56": commas are thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// "16,23": decimal comma.
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ParseID parses an ID cell as an integer, falling back to 0 on malformed
// input, mirroring the ParseDecimal degrade policy.
func ParseID(raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return id
}

// FormatDecimal is the write-side counterpart of ParseDecimal: it renders a
// value in canonical decimal-point form so ParseDecimal(FormatDecimal(x)) == x.
func FormatDecimal(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// FormatID renders an ID cell.
func FormatID(id int) string { return strconv.Itoa(id) }
