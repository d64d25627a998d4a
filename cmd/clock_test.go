package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/worklog/internal/model"
	"github.com/Tiliavir/worklog/internal/msgraph"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

func TestClockMessage(t *testing.T) {
	at := time.Date(2017, 4, 30, 9, 22, 0, 0, time.FixedZone("", -5*3600))
	if got := clockMessage(model.NewPunch(model.In, at, "")); got != "Clocked in at 2017-04-30 09:22 am" {
		t.Errorf("clockMessage(In) = %q", got)
	}
	if got := clockMessage(model.NewPunch(model.Out, at.Add(12*time.Hour), "")); got != "Clocked out at 2017-04-30 09:22 pm" {
		t.Errorf("clockMessage(Out) = %q", got)
	}
}

func TestPunchesSince(t *testing.T) {
	loc := time.FixedZone("", -6*3600)
	punches := []model.Punch{
		model.NewPunch(model.In, time.Date(2017, 1, 5, 8, 0, 0, 0, loc), ""),
		model.NewPunch(model.Out, time.Date(2017, 1, 5, 12, 0, 0, 0, loc), ""),
		model.NewPunch(model.In, time.Date(2017, 1, 6, 8, 0, 0, 0, loc), ""),
	}
	got := punchesSince(punches, time.Date(2017, 1, 5, 12, 0, 0, 0, loc))
	if len(got) != 2 || got[0].Direction != model.Out {
		t.Errorf("punchesSince = %v", got)
	}
}

func TestPrintPunches(t *testing.T) {
	at := time.Date(2017, 1, 5, 14, 4, 16, 0, time.FixedZone("", -6*3600))
	var buf bytes.Buffer
	printPunches(&buf, []model.Punch{model.NewPunch(model.In, at, "Test")})
	if got := buf.String(); got != "In  2017-01-05 02:04 pm Test\n" {
		t.Errorf("printPunches = %q", got)
	}

	buf.Reset()
	printPunches(&buf, nil)
	if got := buf.String(); got != "No punches recorded.\n" {
		t.Errorf("printPunches(nil) = %q", got)
	}
}

func TestResolveExpr(t *testing.T) {
	now := time.Date(2017, 4, 30, 15, 55, 31, 0, time.FixedZone("", -5*3600))
	tests := []struct {
		kind, expr, want string
	}{
		{"time", "12:24pm", "2017-04-30T12:24:00-05:00 (Sun 2017-04-30 12:24:00 pm)"},
		{"time", "now", "2017-04-30T15:55:31-05:00 (Sun 2017-04-30 03:55:31 pm)"},
		{"offset", "_1:30", "-5400 seconds (-01:30:00)"},
		{"offset", "+2.5h", "+9000 seconds (02:30:00)"},
		{"round", "+15m", "up to every 900s"},
		{"round", "7.5", "half to every 450s"},
	}
	for _, tt := range tests {
		got, err := resolveExpr(tt.kind, tt.expr, now)
		if err != nil {
			t.Errorf("resolveExpr(%q, %q): %v", tt.kind, tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveExpr(%q, %q) = %q, want %q", tt.kind, tt.expr, got, tt.want)
		}
	}
}

func TestResolveExprErrors(t *testing.T) {
	now := time.Date(2017, 4, 30, 15, 55, 31, 0, time.UTC)
	tests := []struct {
		kind, expr, prefix string
	}{
		{"time", "99:00", "out of range:"},
		{"time", "+9999999999h", "overflow:"},
		{"time", "2017-4-309:22", "syntax:"},
		{"round", "x", "syntax:"},
		{"color", "red", "unknown --kind"},
	}
	for _, tt := range tests {
		_, err := resolveExpr(tt.kind, tt.expr, now)
		if err == nil {
			t.Errorf("resolveExpr(%q, %q): expected error", tt.kind, tt.expr)
			continue
		}
		if !strings.HasPrefix(err.Error(), tt.prefix) {
			t.Errorf("resolveExpr(%q, %q) error = %q, want prefix %q", tt.kind, tt.expr, err, tt.prefix)
		}
	}
}

func TestSyncWindow(t *testing.T) {
	loc := time.FixedZone("", 3600)
	p := timeexpr.NewParser(func() time.Time { return time.Date(2026, 2, 27, 15, 0, 0, 0, loc) })
	const layout = "2006-01-02 15:04:05"

	from, to, err := syncWindow(p, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if from.Format(layout) != "2026-02-27 00:00:00" || to.Format(layout) != "2026-02-27 23:59:59" {
		t.Errorf("default window = %s .. %s", from.Format(layout), to.Format(layout))
	}

	from, to, err = syncWindow(p, "2/20", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if from.Format(layout) != "2026-02-20 00:00:00" || to.Format(layout) != "2026-02-20 23:59:59" {
		t.Errorf("--date window = %s .. %s", from.Format(layout), to.Format(layout))
	}

	from, to, err = syncWindow(p, "", "-7d", "")
	if err != nil {
		t.Fatal(err)
	}
	if from.Format(layout) != "2026-02-20 00:00:00" || to.Format(layout) != "2026-02-27 23:59:59" {
		t.Errorf("--from window = %s .. %s", from.Format(layout), to.Format(layout))
	}

	for _, args := range [][3]string{
		{"", "", "2026-02-27"},
		{"", "2026-02-27", "2026-02-20"},
		{"someday", "", ""},
	} {
		if _, _, err := syncWindow(p, args[0], args[1], args[2]); err == nil {
			t.Errorf("syncWindow%v: expected error", args)
		}
	}
}

func TestPrintOutcomes(t *testing.T) {
	result := msgraph.SyncResult{Outcomes: []msgraph.Outcome{
		{Subject: "Board", Status: msgraph.Imported, Seconds: 5400},
		{Subject: "Standup", Status: msgraph.Duplicate},
		{Subject: "Lunch", Status: msgraph.Skipped, Reason: "shown as free"},
	}}
	var buf bytes.Buffer
	printOutcomes(&buf, result)
	out := buf.String()
	for _, want := range []string{
		"✓ Imported: Board (1h 30m)",
		"– Skipped:  Standup (already in ledger)",
		"– Skipped:  Lunch (shown as free)",
		"1 imported",
		"2 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "errors") {
		t.Errorf("unexpected error count:\n%s", out)
	}
}
