package model

import (
	"time"

	"github.com/Tiliavir/worklog/internal/timecalc"
)

// Interval is one reconciled work session. Complete is true only when both
// punches are real and in In/Out order.
type Interval struct {
	Start    Punch  `json:"start"`
	End      Punch  `json:"end"`
	Complete bool   `json:"complete"`
	Memo     string `json:"memo"`
}

// NewInterval pairs start and end, joining their memos with ", ".
func NewInterval(start, end Punch, complete bool) Interval {
	return Interval{
		Start:    start,
		End:      end,
		Complete: complete,
		Memo:     JoinMemo(start.Memo, end.Memo),
	}
}

// Seconds is end minus start. It is negative only when the input punches
// were not sorted.
func (iv Interval) Seconds() float64 {
	return iv.End.Instant.Sub(iv.Start.Instant).Seconds()
}

// Date is the calendar day of the start punch, in the start punch's offset.
func (iv Interval) Date() time.Time {
	return timecalc.StartOfDay(iv.Start.Instant)
}

// JoinMemo concatenates a and b with ", ", skipping whichever side is empty.
func JoinMemo(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + ", " + b
	}
}
