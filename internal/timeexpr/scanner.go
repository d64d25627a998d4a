package timeexpr

import (
	"strconv"
	"strings"
)

// scanner is a byte cursor over one expression. The grammar is ASCII only;
// any other byte simply fails to match.
type scanner struct {
	in  string
	pos int
}

func newScanner(s string) *scanner {
	return &scanner{in: s}
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.in) }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.in[sc.pos]
}

func (sc *scanner) peekAt(n int) byte {
	if sc.pos+n >= len(sc.in) {
		return 0
	}
	return sc.in[sc.pos+n]
}

func (sc *scanner) accept(c byte) bool {
	if sc.peek() == c {
		sc.pos++
		return true
	}
	return false
}

// acceptFold consumes word if the input continues with it, ignoring case.
func (sc *scanner) acceptFold(word string) bool {
	end := sc.pos + len(word)
	if end > len(sc.in) || !strings.EqualFold(sc.in[sc.pos:end], word) {
		return false
	}
	sc.pos = end
	return true
}

func (sc *scanner) skipSpace() int {
	start := sc.pos
	for sc.peek() == ' ' || sc.peek() == '\t' {
		sc.pos++
	}
	return sc.pos - start
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digits consumes a run of ASCII digits, possibly empty.
func (sc *scanner) digits() string {
	start := sc.pos
	for isDigit(sc.peek()) {
		sc.pos++
	}
	return sc.in[start:sc.pos]
}

// integer consumes a non-empty digit run.
func (sc *scanner) integer(what string) (int, error) {
	start := sc.pos
	d := sc.digits()
	if d == "" {
		return 0, sc.failAt(start, "expected "+what)
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, sc.failAt(start, what+" is too large")
	}
	return n, nil
}

// decimal consumes digits with an optional fractional part. At least one
// digit is required on either side of the point.
func (sc *scanner) decimal(what string) (float64, error) {
	start := sc.pos
	whole := sc.digits()
	frac := ""
	if sc.peek() == '.' && isDigit(sc.peekAt(1)) {
		sc.pos++
		frac = sc.digits()
	}
	if whole == "" && frac == "" {
		return 0, sc.failAt(start, "expected "+what)
	}
	v, err := strconv.ParseFloat(sc.in[start:sc.pos], 64)
	if err != nil {
		return 0, sc.failAt(start, what+" is not a number")
	}
	return v, nil
}

// unit consumes an optional unit letter and returns its size in seconds.
// Without a letter the unit is minutes.
func (sc *scanner) unit() float64 {
	switch sc.peek() {
	case 's', 'S':
		sc.pos++
		return 1
	case 'm', 'M':
		sc.pos++
		return 60
	case 'h', 'H':
		sc.pos++
		return 3600
	case 'd', 'D':
		sc.pos++
		return 86400
	}
	return 60
}

func (sc *scanner) end() error {
	if !sc.eof() {
		return sc.fail("unexpected " + strconv.Quote(sc.in[sc.pos:]))
	}
	return nil
}

func (sc *scanner) fail(msg string) error {
	return sc.failAt(sc.pos, msg)
}

func (sc *scanner) failAt(pos int, msg string) error {
	return &SyntaxError{Kind: ErrSyntax, Input: sc.in, Pos: pos, Msg: msg}
}
