package msgraph

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // IANA zones on hosts without a zoneinfo database

	"go.uber.org/zap"

	"github.com/Tiliavir/worklog/internal/ledger"
	"github.com/Tiliavir/worklog/internal/logger"
	"github.com/Tiliavir/worklog/internal/model"
)

// Status is the outcome of importing one event.
type Status int

const (
	Imported Status = iota
	Skipped
	Duplicate
	Failed
)

func (s Status) String() string {
	switch s {
	case Imported:
		return "imported"
	case Skipped:
		return "skipped"
	case Duplicate:
		return "duplicate"
	default:
		return "error"
	}
}

// Outcome records what happened to one event.
type Outcome struct {
	Subject string
	Status  Status
	Reason  string // why it was skipped or failed
	Seconds float64
}

// SyncResult is the merged ledger plus per-event outcomes.
type SyncResult struct {
	// Punches is the existing ledger merged with Added, sorted ascending.
	Punches  []model.Punch
	Added    []model.Punch
	Outcomes []Outcome
}

// Count returns how many outcomes have status s.
func (r SyncResult) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown timezone %q: %w", tz, err)
		}
		loc = l
	}

	// Graph returns fractional seconds: "2026-02-27T09:00:00.0000000"
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// skipReason returns why an event should not be imported, or "".
func skipReason(event CalendarEvent) string {
	switch {
	case event.IsCancelled:
		return "cancelled"
	case event.IsAllDay:
		return "all-day"
	case event.Sensitivity == "private":
		return "private"
	case event.ShowAs == "free":
		return "shown as free"
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return "no start or end"
	}
	return ""
}

// EventPunches maps an event to an In punch at its start and an Out punch at
// its end, both carrying the subject as memo.
func EventPunches(event CalendarEvent, timezone string) (model.Punch, model.Punch, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Punch{}, model.Punch{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Punch{}, model.Punch{}, fmt.Errorf("parsing end time: %w", err)
	}
	if end.Before(start) {
		return model.Punch{}, model.Punch{}, fmt.Errorf("event ends before it starts")
	}
	memo := strings.TrimSpace(event.Subject)
	return model.NewPunch(model.In, start, memo), model.NewPunch(model.Out, end, memo), nil
}

type punchKey struct {
	dir  model.Direction
	unix int64
	memo string
}

func keyOf(p model.Punch) punchKey {
	return punchKey{dir: p.Direction, unix: p.Instant.UnixNano(), memo: p.Memo}
}

// SyncEvents merges events into existing. A punch already present with the
// same direction, instant and memo is not added again, so repeated syncs of
// the same window are idempotent. existing is not modified.
func SyncEvents(existing []model.Punch, events []CalendarEvent, timezone string, log *zap.Logger) SyncResult {
	if log == nil {
		log = logger.Nop()
	}

	seen := make(map[punchKey]bool, len(existing))
	for _, p := range existing {
		seen[keyOf(p)] = true
	}

	var result SyncResult
	for _, event := range events {
		if reason := skipReason(event); reason != "" {
			log.Debug("skipping event", zap.String("subject", event.Subject), zap.String("reason", reason))
			result.Outcomes = append(result.Outcomes, Outcome{Subject: event.Subject, Status: Skipped, Reason: reason})
			continue
		}

		in, out, err := EventPunches(event, timezone)
		if err != nil {
			log.Warn("cannot map event", zap.String("subject", event.Subject), zap.Error(err))
			result.Outcomes = append(result.Outcomes, Outcome{Subject: event.Subject, Status: Failed, Reason: err.Error()})
			continue
		}

		secs := out.Instant.Sub(in.Instant).Seconds()
		added := 0
		for _, p := range []model.Punch{in, out} {
			if seen[keyOf(p)] {
				continue
			}
			seen[keyOf(p)] = true
			result.Added = append(result.Added, p)
			added++
		}
		if added == 0 {
			result.Outcomes = append(result.Outcomes, Outcome{Subject: event.Subject, Status: Duplicate, Seconds: secs})
			continue
		}
		result.Outcomes = append(result.Outcomes, Outcome{Subject: event.Subject, Status: Imported, Seconds: secs})
	}

	result.Punches = make([]model.Punch, 0, len(existing)+len(result.Added))
	result.Punches = append(result.Punches, existing...)
	result.Punches = append(result.Punches, result.Added...)
	ledger.Sort(result.Punches)

	log.Debug("merged calendar events",
		zap.Int("events", len(events)),
		zap.Int("added_punches", len(result.Added)),
		zap.Int("ledger_punches", len(result.Punches)),
	)
	return result
}
