package timeexpr

import (
	"math"
	"strings"
	"time"
)

// maxShift is the largest offset, in seconds, a time.Duration can carry.
const maxShift = float64(math.MaxInt64) / float64(time.Second)

// ParseOffset reads a relative offset and returns it in seconds. A sign is
// required: '+' moves forward, '-' or '_' moves back. The magnitude is either
// a decimal with an optional unit letter (minutes by default) or H:MM.
func ParseOffset(s string) (float64, error) {
	sc := newScanner(strings.TrimSpace(s))
	return sc.offset()
}

func (sc *scanner) offset() (float64, error) {
	sign := 1.0
	switch sc.peek() {
	case '+':
	case '-', '_':
		sign = -1
	default:
		return 0, sc.fail("expected '+', '-' or '_'")
	}
	sc.pos++

	start := sc.pos
	whole := sc.digits()
	if whole != "" && sc.accept(':') {
		sc.pos = start
		h, err := sc.integer("hours")
		if err != nil {
			return 0, err
		}
		sc.pos++ // ':'
		mStart := sc.pos
		m := sc.digits()
		if len(m) != 2 {
			return 0, sc.failAt(mStart, "expected two-digit minutes")
		}
		if err := sc.end(); err != nil {
			return 0, err
		}
		minutes := float64(m[0]-'0')*10 + float64(m[1]-'0')
		return sign * (float64(h)*3600 + minutes*60), nil
	}

	sc.pos = start
	n, err := sc.decimal("offset")
	if err != nil {
		return 0, err
	}
	secs := sign * n * sc.unit()
	if err := sc.end(); err != nil {
		return 0, err
	}
	return secs, nil
}

// Shift moves ref by secs seconds. It fails with ErrOverflow when the offset
// or the result falls outside what a timestamp can hold.
func Shift(ref time.Time, secs float64) (time.Time, error) {
	if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) >= maxShift {
		return ref, overflow("", "offset is too large")
	}
	t := ref.Add(time.Duration(math.Round(secs * float64(time.Second))))
	if y := t.Year(); y < 0 || y > 9999 {
		return ref, overflow("", "resulting year is out of range")
	}
	return t, nil
}

// ApplyOffset parses s as an offset and shifts ref by it.
func ApplyOffset(s string, ref time.Time) (time.Time, error) {
	secs, err := ParseOffset(s)
	if err != nil {
		return ref, err
	}
	t, err := Shift(ref, secs)
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.Input = s
		}
		return ref, err
	}
	return t, nil
}
