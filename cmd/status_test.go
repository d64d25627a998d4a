package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/worklog/internal/model"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{59, "59s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{3600, "1h 0m 0s"},
		{3661, "1h 1m 1s"},
		{7322, "2h 2m 2s"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return model.FixedOffset(v)
}

func TestPrintStatusClockedIn(t *testing.T) {
	now := mustParse(t, "2017-01-05T17:30:00-06:00")
	punches := []model.Punch{
		model.NewPunch(model.In, mustParse(t, "2017-01-05T08:00:00-06:00"), ""),
		model.NewPunch(model.Out, mustParse(t, "2017-01-05T12:00:00-06:00"), ""),
		model.NewPunch(model.In, mustParse(t, "2017-01-05T13:00:00-06:00"), "afternoon"),
	}

	var buf bytes.Buffer
	printStatus(&buf, punches, now)
	out := buf.String()

	for _, want := range []string{
		"Clocked in:",
		"Since: 2017-01-05 01:00 pm (4 hours ago)",
		"Elapsed: 4h 30m 0s",
		"Memo: afternoon",
		"Today: 8h 30m logged.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatusClockedOut(t *testing.T) {
	now := mustParse(t, "2017-01-06T09:00:00-06:00")
	punches := []model.Punch{
		model.NewPunch(model.In, mustParse(t, "2017-01-05T08:00:00-06:00"), ""),
		model.NewPunch(model.Out, mustParse(t, "2017-01-05T12:00:00-06:00"), ""),
	}

	var buf bytes.Buffer
	printStatus(&buf, punches, now)
	out := buf.String()

	if !strings.Contains(out, "Clocked out at 2017-01-05 12:00 pm (21 hours ago).") {
		t.Errorf("unexpected status output:\n%s", out)
	}
	if !strings.Contains(out, "Today: 0s logged.") {
		t.Errorf("expected nothing logged today:\n%s", out)
	}
}

func TestPrintStatusEmpty(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, nil, time.Now())
	if got := buf.String(); got != "No punches recorded.\n" {
		t.Errorf("printStatus(nil) = %q", got)
	}
}
