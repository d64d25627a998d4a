package timeclock

import (
	"time"

	"github.com/Tiliavir/worklog/internal/model"
)

// Collect merges adjacent records that share a calendar date. Records must
// arrive in non-decreasing date order, which sorted punches guarantee; this is
// an adjacency merge, not a group-by.
func Collect(records []model.DailyRecord) []model.DailyRecord {
	var out []model.DailyRecord
	for _, rec := range records {
		if n := len(out); n > 0 && out[n-1].Combine(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Records derives one record per interval.
func Records(intervals []model.Interval) []model.DailyRecord {
	out := make([]model.DailyRecord, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, model.RecordFromInterval(iv))
	}
	return out
}

// DailyRecords runs the whole reconciliation: pair, derive, merge.
func DailyRecords(punches []model.Punch, now time.Time) []model.DailyRecord {
	return Collect(Records(Pair(punches, now)))
}

// Since drops records whose calendar date is before from's calendar date.
func Since(records []model.DailyRecord, from time.Time) []model.DailyRecord {
	var out []model.DailyRecord
	for _, rec := range records {
		if sameOrAfterDay(rec.Date, from) {
			out = append(out, rec)
		}
	}
	return out
}

func sameOrAfterDay(d, from time.Time) bool {
	dy, dm, dd := d.Date()
	fy, fm, fd := from.Date()
	if dy != fy {
		return dy > fy
	}
	if dm != fm {
		return dm > fm
	}
	return dd >= fd
}
