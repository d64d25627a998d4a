package ledger_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/worklog/internal/ledger"
	"github.com/Tiliavir/worklog/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := ledger.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q): %v", s, err)
	}
	return v
}

func TestLoadNotExist(t *testing.T) {
	punches, err := ledger.Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(punches) != 0 {
		t.Errorf("Load punches = %d, want 0", len(punches))
	}
}

func TestReadSortsAscending(t *testing.T) {
	rows := strings.Join([]string{
		"Out,2016-12-18T16:53:33-0600,",
		"In,2016-12-19T20:54:53-0600,",
		"In,2016-12-18T13:01:50-0600,",
		"Out,2016-12-19T20:54:57-0600,",
	}, "\n")

	punches, err := ledger.Read(strings.NewReader(rows))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []struct {
		dir model.Direction
		at  string
	}{
		{model.In, "2016-12-18T13:01:50-06:00"},
		{model.Out, "2016-12-18T16:53:33-06:00"},
		{model.In, "2016-12-19T20:54:53-06:00"},
		{model.Out, "2016-12-19T20:54:57-06:00"},
	}
	if len(punches) != len(want) {
		t.Fatalf("Read punches = %d, want %d", len(punches), len(want))
	}
	for i, w := range want {
		if punches[i].Direction != w.dir {
			t.Errorf("punch %d direction = %s, want %s", i, punches[i].Direction, w.dir)
		}
		if got := punches[i].Instant.Format(time.RFC3339); got != w.at {
			t.Errorf("punch %d instant = %s, want %s", i, got, w.at)
		}
	}
}

func TestReadKeepsOffsets(t *testing.T) {
	rows := "In,2016-12-18T13:01:50-0500,a\nOut,2016-12-18T13:01:50-06:00,b\n"
	punches, err := ledger.Read(strings.NewReader(rows))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(punches) != 2 {
		t.Fatalf("Read punches = %d, want 2", len(punches))
	}
	if _, off := punches[0].Instant.Zone(); off != -5*3600 {
		t.Errorf("first offset = %d, want %d", off, -5*3600)
	}
	if _, off := punches[1].Instant.Zone(); off != -6*3600 {
		t.Errorf("second offset = %d, want %d", off, -6*3600)
	}
	if d := punches[1].Instant.Sub(punches[0].Instant); d != time.Hour {
		t.Errorf("gap = %s, want 1h", d)
	}
}

func TestReadTrimsDirection(t *testing.T) {
	punches, err := ledger.Read(strings.NewReader(" out ,2017-01-18T12:50:13-06:00,memo\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if punches[0].Direction != model.Out || punches[0].Memo != "memo" {
		t.Errorf("Read = %+v", punches[0])
	}
}

func TestReadKeepsMemoWhitespace(t *testing.T) {
	punches, err := ledger.Read(strings.NewReader("In, 2017-01-18T12:50:13-06:00, x\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if punches[0].Memo != " x" {
		t.Errorf("Memo = %q, want %q", punches[0].Memo, " x")
	}
}

func TestParseTimestampRequiresNumericOffset(t *testing.T) {
	for _, s := range []string{"2017-01-18T12:50:13Z", "2017-01-18T12:50:13z", "2017-01-18 12:50:13Z"} {
		if _, err := ledger.ParseTimestamp(s); err == nil {
			t.Errorf("ParseTimestamp(%q) succeeded, want error", s)
		}
	}
	if _, err := ledger.DecodeRow([]string{"In", "2017-01-18T12:50:13Z", ""}); !errors.Is(err, ledger.ErrMalformedRow) {
		t.Errorf("DecodeRow with Z offset = %v, want ErrMalformedRow", err)
	}
	got := mustTime(t, "2017-01-18T12:50:13.5+00:00")
	if _, off := got.Zone(); off != 0 || got.Nanosecond() != 500000000 {
		t.Errorf("ParseTimestamp = %s", got)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		rows string
		line int
	}{
		{"haggis", "haggis\n", 1},
		{"bad direction", "In,2017-01-18T12:50:13-06:00,\nSideways,2017-01-18T13:50:13-06:00,\n", 2},
		{"bad timestamp", "In,2017-01-18T12:50:13-06:00,\nOut,yesterday,\n", 2},
		{"missing offset", "In,2017-01-18T12:50:13,\n", 1},
		{"two fields", "In,2017-01-18T12:50:13-06:00\n", 1},
		{"four fields", "In,2017-01-18T12:50:13-06:00,a,b\n", 1},
		{"bare quote", "In,2017-01-18T12:50:13-06:00,a\"b\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Read(strings.NewReader(tt.rows))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ledger.ErrMalformedRow) {
				t.Errorf("error %v is not ErrMalformedRow", err)
			}
			var re *ledger.RowError
			if !errors.As(err, &re) {
				t.Fatalf("error %v is not a RowError", err)
			}
			if re.Line != tt.line {
				t.Errorf("RowError.Line = %d, want %d", re.Line, tt.line)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte("haggis, neeps, tatties\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := ledger.Load(path)
	if !errors.Is(err, ledger.ErrMalformedRow) {
		t.Fatalf("Load error = %v, want ErrMalformedRow", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Load error %q does not name the file", err)
	}
}

func TestEncodeRow(t *testing.T) {
	p := model.NewPunch(model.In, mustTime(t, "2017-01-18T12:50:13-0600"), "Test")
	got := ledger.EncodeRow(p)
	want := []string{"In", "2017-01-18T12:50:13-06:00", "Test"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EncodeRow[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	utc := model.NewPunch(model.Out, time.Date(2017, 1, 18, 12, 0, 0, 0, time.UTC), "")
	if got := ledger.EncodeRow(utc)[1]; got != "2017-01-18T12:00:00+00:00" {
		t.Errorf("EncodeRow UTC timestamp = %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.csv")
	punches := []model.Punch{
		model.NewPunch(model.In, mustTime(t, "2017-01-18T08:00:00-05:00"), "standup, planning"),
		model.NewPunch(model.Out, mustTime(t, "2017-01-18T12:00:00-06:00"), ""),
	}

	if err := ledger.Save(path, punches); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	loaded, err := ledger.Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if len(loaded) != len(punches) {
		t.Fatalf("Load punches = %d, want %d", len(loaded), len(punches))
	}
	for i := range punches {
		if loaded[i].Direction != punches[i].Direction || loaded[i].Memo != punches[i].Memo {
			t.Errorf("punch %d = %+v, want %+v", i, loaded[i], punches[i])
		}
		if got, want := loaded[i].Instant.Format(time.RFC3339), punches[i].Instant.Format(time.RFC3339); got != want {
			t.Errorf("punch %d instant = %s, want %s", i, got, want)
		}
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	first := model.NewPunch(model.In, mustTime(t, "2017-01-18T08:00:00-06:00"), "")
	second := model.NewPunch(model.Out, mustTime(t, "2017-01-18T12:30:00-06:00"), "done")

	for _, p := range []model.Punch{first, second} {
		if err := ledger.Append(path, p); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "In,2017-01-18T08:00:00-06:00,\nOut,2017-01-18T12:30:00-06:00,done\n"
	if string(data) != want {
		t.Errorf("ledger contents = %q, want %q", data, want)
	}
}
