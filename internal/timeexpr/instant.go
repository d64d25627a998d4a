package timeexpr

import (
	"strings"
	"time"

	"github.com/Tiliavir/worklog/internal/model"
)

// ParseInstant resolves a clock argument against now. The argument is the
// keyword "now", a signed offset from now, or a date-time expression.
func ParseInstant(s string, now time.Time) (time.Time, error) {
	e := strings.TrimSpace(s)
	if strings.EqualFold(e, "now") {
		return now, nil
	}
	if e != "" {
		switch e[0] {
		case '+', '-', '_':
			return ApplyOffset(e, now)
		}
	}
	return ParseDateTime(e, now)
}

// Parser resolves expressions against an injected clock.
type Parser struct {
	clock func() time.Time
}

// NewParser returns a Parser reading the current time from clock, or from
// time.Now when clock is nil.
func NewParser(clock func() time.Time) *Parser {
	if clock == nil {
		clock = time.Now
	}
	return &Parser{clock: clock}
}

// Now is the reference instant: the clock truncated to whole seconds and
// pinned to its current UTC offset.
func (p *Parser) Now() time.Time {
	return model.FixedOffset(p.clock().Truncate(time.Second))
}

// Instant resolves s against Now.
func (p *Parser) Instant(s string) (time.Time, error) {
	return ParseInstant(s, p.Now())
}

// DateTime resolves a date-time expression against Now.
func (p *Parser) DateTime(s string) (time.Time, error) {
	return ParseDateTime(s, p.Now())
}
