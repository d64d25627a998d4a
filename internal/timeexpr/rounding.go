package timeexpr

import (
	"strings"

	"github.com/Tiliavir/worklog/internal/timecalc"
)

// ParseRounding reads a rounding spec: an optional mode prefix, a decimal
// granularity and an optional unit letter (s, m, h, d; minutes by default).
//
//	+ U u        round up
//	- _ D d      round down
//	= H h e      round half
//
// Without a prefix the mode is half, so "7.5" means half to 7.5 minutes.
func ParseRounding(s string) (timecalc.Rounding, error) {
	sc := newScanner(strings.TrimSpace(s))

	mode := timecalc.RoundHalf
	switch sc.peek() {
	case '+', 'U', 'u':
		mode = timecalc.RoundUp
		sc.pos++
	case '-', '_', 'D', 'd':
		mode = timecalc.RoundDown
		sc.pos++
	case '=', 'H', 'h', 'e':
		sc.pos++
	}

	n, err := sc.decimal("granularity")
	if err != nil {
		return timecalc.NoRounding, err
	}
	g := n * sc.unit()
	if err := sc.end(); err != nil {
		return timecalc.NoRounding, err
	}
	return timecalc.Rounding{Mode: mode, Granularity: g}, nil
}
