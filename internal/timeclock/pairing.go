// Package timeclock reconciles an ordered punch sequence into work intervals
// and folds those intervals into per-day totals.
package timeclock

import (
	"time"

	"github.com/Tiliavir/worklog/internal/model"
)

// SlotKind is the carrier state of the pairing machine.
type SlotKind int

const (
	SlotEmpty SlotKind = iota
	SlotIn
	SlotOut
)

func (k SlotKind) String() string {
	switch k {
	case SlotIn:
		return "in"
	case SlotOut:
		return "out"
	default:
		return "empty"
	}
}

// Slot is the one-punch lookahead held between steps.
type Slot struct {
	Kind  SlotKind
	Punch model.Punch
}

// Hold wraps p in the slot matching its direction.
func Hold(p model.Punch) Slot {
	if p.Direction == model.Out {
		return Slot{Kind: SlotOut, Punch: p}
	}
	return Slot{Kind: SlotIn, Punch: p}
}

// Step is the pure transition function of the pairing machine. Given the
// current slot and the next input (Kind == SlotEmpty when the input is
// exhausted) it returns the interval to emit, whether one was emitted, and
// the new slot.
//
//	In(a),  In(b)        -> (a, Out@a, incomplete),   slot b
//	In(a),  none         -> (a, Out@now, incomplete), empty
//	In(a),  Out(b)       -> (a, b, complete),         empty
//	Out(b), In(c)/Out(c) -> (In@b, b, incomplete),    slot c
//	Out(b), none         -> (In@b, b, incomplete),    empty
//	empty,  none         -> nothing; the machine stops
//
// Synthesized punches carry an empty memo. The slot is always refilled
// before Step is called, so an empty slot with pending input is a caller bug
// and is treated as termination.
func Step(cur, next Slot, now time.Time) (model.Interval, bool, Slot) {
	switch cur.Kind {
	case SlotIn:
		start := cur.Punch
		switch next.Kind {
		case SlotIn:
			end := model.Punch{Direction: model.Out, Instant: start.Instant}
			return model.NewInterval(start, end, false), true, next
		case SlotOut:
			return model.NewInterval(start, next.Punch, true), true, Slot{}
		default:
			end := model.Punch{Direction: model.Out, Instant: now}
			return model.NewInterval(start, end, false), true, Slot{}
		}
	case SlotOut:
		end := cur.Punch
		start := model.Punch{Direction: model.In, Instant: end.Instant}
		return model.NewInterval(start, end, false), true, next
	default:
		return model.Interval{}, false, Slot{}
	}
}

// Pairer walks a punch sequence one Step at a time.
type Pairer struct {
	punches []model.Punch
	pos     int
	slot    Slot
	now     time.Time
}

// NewPairer returns a Pairer over punches, which must be sorted ascending by
// instant. now is the instant an unmatched trailing In is closed at.
func NewPairer(punches []model.Punch, now time.Time) *Pairer {
	return &Pairer{punches: punches, now: now}
}

func (p *Pairer) take() Slot {
	if p.pos >= len(p.punches) {
		return Slot{}
	}
	s := Hold(p.punches[p.pos])
	p.pos++
	return s
}

// Next returns the next interval, or false once the sequence is exhausted.
func (p *Pairer) Next() (model.Interval, bool) {
	if p.slot.Kind == SlotEmpty {
		p.slot = p.take()
	}
	iv, ok, slot := Step(p.slot, p.take(), p.now)
	p.slot = slot
	return iv, ok
}

// Pair reconciles punches into intervals, synthesizing the counterpart of
// every unmatched punch. It never fails; malformed input only shows up as
// intervals with Complete == false.
func Pair(punches []model.Punch, now time.Time) []model.Interval {
	p := NewPairer(punches, now)
	var out []model.Interval
	for {
		iv, ok := p.Next()
		if !ok {
			return out
		}
		out = append(out, iv)
	}
}
