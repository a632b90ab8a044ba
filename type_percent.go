package pkm

import "fmt"

// Percent is a relative change expressed in percentage points.
type Percent float64

// percentOf expresses part as a share of whole in percentage points,
// rounded to two decimals. A zero whole yields zero, never an infinity.
func percentOf(part, whole float64) Percent {
	if whole == 0 {
		return 0
	}
	return Percent(round2(part / whole * 100))
}

// Values round-trip through the store as strings, so comparisons need a
// tolerance.
const percentEpsilon = 1e-4

func (p Percent) Equal(q Percent) bool {
	d := float64(p - q)
	return d < percentEpsilon && d > -percentEpsilon
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString carries an explicit sign so gains and losses read apart in
// tables; anything that formats to zero renders as "-".
func (p Percent) SignedString() string {
	s := fmt.Sprintf("%+.2f%%", float64(p))
	switch s {
	case "+0.00%", "-0.00%":
		return "-"
	}
	return s
}
