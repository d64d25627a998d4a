package timeexpr

import (
	"strconv"
	"strings"
	"time"
)

// Fields is a parsed date-time expression. Nil pointers are components the
// input left out; Apply fills them from a reference instant. Clock values are
// kept as written and only range-checked by Apply.
type Fields struct {
	Year       *int
	Month      *int
	Day        *int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	// Offset is seconds east of UTC.
	Offset *int
}

// ParseFields reads a date-time expression:
//
//	[[YYYY sep] M sep D (space|T)] H:MM[:[SS[.frac]]] [am|pm] [Z|UTC|±HH[:MM]]
//
// where sep is '-' or '/'. A date alone means midnight. The am/pm suffix is
// case-insensitive and may follow a stray period.
func ParseFields(s string) (Fields, error) {
	var f Fields
	sc := newScanner(strings.TrimSpace(s))

	first, err := sc.integer("a time or a date")
	if err != nil {
		return f, err
	}

	switch sc.peek() {
	case ':':
		return f, sc.clock(&f, first)
	case '-', '/':
	default:
		return f, sc.fail("expected ':' after the hour or '-' or '/' in a date")
	}

	if err := sc.date(&f, first); err != nil {
		return f, err
	}
	if sc.eof() {
		return f, nil
	}
	if !sc.accept('T') && !sc.accept('t') && sc.skipSpace() == 0 {
		return f, sc.fail("expected whitespace or 'T' between date and time")
	}
	hour, err := sc.integer("hour")
	if err != nil {
		return f, err
	}
	return f, sc.clock(&f, hour)
}

// date reads the rest of a two or three part date whose first number has
// already been consumed.
func (sc *scanner) date(f *Fields, first int) error {
	sc.pos++
	second, err := sc.integer("day or month")
	if err != nil {
		return err
	}
	if sc.peek() != '-' && sc.peek() != '/' {
		f.Month, f.Day = &first, &second
		return nil
	}
	sc.pos++
	third, err := sc.integer("day")
	if err != nil {
		return err
	}
	f.Year, f.Month, f.Day = &first, &second, &third
	return nil
}

// clock reads ":MM[:[SS[.frac]]]", the optional meridiem and zone, and the
// end of input.
func (sc *scanner) clock(f *Fields, hour int) error {
	f.Hour = hour
	if !sc.accept(':') {
		return sc.fail("expected ':'")
	}
	minute, err := sc.integer("minute")
	if err != nil {
		return err
	}
	f.Minute = minute

	if sc.accept(':') {
		if isDigit(sc.peek()) {
			if f.Second, err = sc.integer("second"); err != nil {
				return err
			}
			if sc.accept('.') {
				frac := sc.digits()
				f.Nanosecond = nanoseconds(frac)
			}
		}
	} else if sc.peek() == '.' && !isDigit(sc.peekAt(1)) {
		sc.pos++
	}

	sc.skipSpace()
	sc.meridiem(f)
	sc.skipSpace()
	if sc.eof() {
		return nil
	}
	if err := sc.zone(f); err != nil {
		return err
	}
	return sc.end()
}

// meridiem applies an am/pm suffix. 12am is hour 0, 12pm stays 12 and hours
// past 12 are left alone.
func (sc *scanner) meridiem(f *Fields) {
	c := sc.peek()
	if c != 'a' && c != 'A' && c != 'p' && c != 'P' {
		return
	}
	save := sc.pos
	sc.pos++
	sc.accept('.')
	if !sc.acceptFold("m") {
		sc.pos = save
		return
	}
	sc.accept('.')

	pm := c == 'p' || c == 'P'
	switch {
	case pm && f.Hour < 12:
		f.Hour += 12
	case !pm && f.Hour == 12:
		f.Hour = 0
	}
}

func (sc *scanner) zone(f *Fields) error {
	if sc.acceptFold("UTC") || sc.acceptFold("Z") {
		off := 0
		f.Offset = &off
		return nil
	}

	sign := 1
	switch sc.peek() {
	case '+':
	case '-':
		sign = -1
	default:
		return sc.fail("expected a UTC offset")
	}
	sc.pos++

	start := sc.pos
	d := sc.digits()
	var hh, mm string
	switch len(d) {
	case 1, 2:
		hh = d
		if sc.accept(':') {
			mStart := sc.pos
			mm = sc.digits()
			if len(mm) != 2 {
				return sc.failAt(mStart, "expected two-digit offset minutes")
			}
		}
	case 4:
		hh, mm = d[:2], d[2:]
	default:
		return sc.failAt(start, "expected offset hours")
	}

	h, _ := strconv.Atoi(hh)
	m := 0
	if mm != "" {
		m, _ = strconv.Atoi(mm)
	}
	if m > 59 {
		return sc.failAt(start, "offset minutes must be below 60")
	}
	off := sign * (h*3600 + m*60)
	f.Offset = &off
	return nil
}

// nanoseconds reads fraction digits exactly, truncating past nine places.
func nanoseconds(frac string) int {
	if frac == "" {
		return 0
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	frac += strings.Repeat("0", 9-len(frac))
	n, _ := strconv.Atoi(frac)
	return n
}

// Apply builds a concrete instant from f. Missing date parts and the offset
// come from ref, read in ref's own zone.
func (f Fields) Apply(ref time.Time) (time.Time, error) {
	year, month, day := ref.Date()
	m := int(month)
	if f.Year != nil {
		year = *f.Year
	}
	if f.Month != nil {
		m = *f.Month
	}
	if f.Day != nil {
		day = *f.Day
	}
	_, off := ref.Zone()
	if f.Offset != nil {
		off = *f.Offset
	}

	switch {
	case year < 0 || year > 9999:
		return ref, &RangeError{Field: FieldYear, Value: year}
	case m < 1 || m > 12:
		return ref, &RangeError{Field: FieldMonth, Value: m}
	case day < 1 || day > daysIn(year, time.Month(m)):
		return ref, &RangeError{Field: FieldDay, Value: day}
	case f.Hour < 0 || f.Hour > 23:
		return ref, &RangeError{Field: FieldHour, Value: f.Hour}
	case f.Minute < 0 || f.Minute > 59:
		return ref, &RangeError{Field: FieldMinute, Value: f.Minute}
	case f.Second < 0 || f.Second > 59:
		return ref, &RangeError{Field: FieldSecond, Value: f.Second}
	case f.Nanosecond < 0 || f.Nanosecond > 999999999:
		return ref, &RangeError{Field: FieldNanosecond, Value: f.Nanosecond}
	case off <= -24*3600 || off >= 24*3600:
		return ref, &RangeError{Field: FieldOffset, Value: off}
	}

	loc := time.FixedZone("", off)
	return time.Date(year, time.Month(m), day, f.Hour, f.Minute, f.Second, f.Nanosecond, loc), nil
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDateTime parses s and applies it to ref.
func ParseDateTime(s string, ref time.Time) (time.Time, error) {
	f, err := ParseFields(s)
	if err != nil {
		return ref, err
	}
	return f.Apply(ref)
}
