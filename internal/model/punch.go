package model

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the way a punch moves the clock.
type Direction int

const (
	In Direction = iota
	Out
)

// ParseDirection decodes "in" or "out", ignoring case and surrounding whitespace.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// String returns the capitalized ledger form, "In" or "Out".
func (d Direction) String() string {
	if d == Out {
		return "Out"
	}
	return "In"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Punch is a single clock event. Instant keeps the fixed UTC offset it was
// recorded under; it is never normalized to UTC.
type Punch struct {
	Direction Direction `json:"direction"`
	Instant   time.Time `json:"instant"`
	Memo      string    `json:"memo"`
}

// NewPunch returns a punch with the instant pinned to its own fixed offset.
func NewPunch(d Direction, t time.Time, memo string) Punch {
	return Punch{Direction: d, Instant: FixedOffset(t), Memo: memo}
}

// FixedOffset returns t re-expressed in an unnamed fixed zone carrying the
// offset t currently has, so later DST rules of a named zone cannot move it.
func FixedOffset(t time.Time) time.Time {
	_, off := t.Zone()
	return t.In(time.FixedZone("", off))
}

// String renders the punch the way the log view shows it, e.g.
// "In  2017-01-05 02:04 pm Test".
func (p Punch) String() string {
	return fmt.Sprintf("%-3s %s %s", p.Direction, p.Instant.Format("2006-01-02 03:04 pm"), p.Memo)
}
