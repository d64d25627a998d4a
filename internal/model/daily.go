package model

import (
	"fmt"
	"time"

	"github.com/Tiliavir/worklog/internal/timecalc"
)

// MissingAnnotation is appended to the rendering of an incomplete day.
const MissingAnnotation = " Missing record(s)"

// DailyRecord is the worked total for one calendar date.
type DailyRecord struct {
	// Date is midnight of the day in the offset of the first contributing
	// start punch.
	Date     time.Time `json:"date"`
	Seconds  float64   `json:"duration_seconds"`
	Memo     string    `json:"memo"`
	Complete bool      `json:"complete"`
}

// RecordFromInterval derives the one-day record of a single interval.
func RecordFromInterval(iv Interval) DailyRecord {
	return DailyRecord{
		Date:     iv.Date(),
		Seconds:  iv.Seconds(),
		Memo:     iv.Memo,
		Complete: iv.Complete,
	}
}

// Hours is the duration in hours.
func (r DailyRecord) Hours() float64 {
	return r.Seconds / 3600
}

// AppendMemo adds memo to the record's memo, separated by ", " when both are
// non-empty. An empty memo leaves the record unchanged.
func (r *DailyRecord) AppendMemo(memo string) {
	r.Memo = JoinMemo(r.Memo, memo)
}

// Combine folds other into r when both fall on the same calendar date and
// reports whether it did. On a date mismatch r is left untouched.
func (r *DailyRecord) Combine(other DailyRecord) bool {
	if !timecalc.SameDay(r.Date, other.Date) {
		return false
	}
	r.Seconds += other.Seconds
	r.AppendMemo(other.Memo)
	r.Complete = r.Complete && other.Complete
	return true
}

// DateString formats the date as YYYY-MM-DD.
func (r DailyRecord) DateString() string {
	return r.Date.Format("2006-01-02")
}

// String renders "<YYYY-MM-DD> <hours> <memo>", followed by the missing
// records annotation when the day is incomplete.
func (r DailyRecord) String() string {
	s := fmt.Sprintf("%s %.2f %s", r.DateString(), r.Hours(), r.Memo)
	if !r.Complete {
		s += MissingAnnotation
	}
	return s
}
