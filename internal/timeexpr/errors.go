package timeexpr

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax marks input that does not match the grammar.
	ErrSyntax = errors.New("invalid time expression")
	// ErrRange marks a well-formed field whose value cannot exist on a clock
	// or calendar.
	ErrRange = errors.New("value out of range")
	// ErrOverflow marks an offset that moves an instant outside the
	// representable range.
	ErrOverflow = errors.New("time overflow")
)

// SyntaxError reports input that cannot be turned into a value. Kind is
// ErrSyntax when the input does not match the grammar and ErrOverflow when it
// matches but denotes something unrepresentable.
type SyntaxError struct {
	Kind  error
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s in %q at offset %d: %s", e.kind(), e.Input, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.kind() }

func (e *SyntaxError) kind() error {
	if e.Kind == nil {
		return ErrSyntax
	}
	return e.Kind
}

// Field names a date-time component.
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldNanosecond
	FieldOffset
)

func (f Field) String() string {
	switch f {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "minute"
	case FieldSecond:
		return "second"
	case FieldNanosecond:
		return "nanosecond"
	case FieldOffset:
		return "offset"
	default:
		return "field"
	}
}

// RangeError reports a parsed field that fails when applied to build a
// concrete date-time.
type RangeError struct {
	Field Field
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("the specified %s is invalid: %d", e.Field, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrRange }

func overflow(input string, msg string) error {
	return &SyntaxError{Kind: ErrOverflow, Input: input, Msg: msg}
}
