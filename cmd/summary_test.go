package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worklog/internal/config"
	"github.com/Tiliavir/worklog/internal/model"
	"github.com/Tiliavir/worklog/internal/timecalc"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

func day(date string, seconds float64, memo string, complete bool) model.DailyRecord {
	d, _ := time.ParseInLocation("2006-01-02", date, time.FixedZone("", -6*3600))
	return model.DailyRecord{Date: d, Seconds: seconds, Memo: memo, Complete: complete}
}

func sampleRecords() []model.DailyRecord {
	return []model.DailyRecord{
		day("2017-01-07", 38160.12345, "a, b", true),
		day("2017-01-08", 3600, "", false),
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, sampleRecords(), timecalc.Up(900))

	want := "2017-01-07 10.75 a, b\n" +
		"2017-01-08 1.00  Missing record(s)\n" +
		"Total Hours: 11.75\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, nil, timecalc.NoRounding)
	assert.Equal(t, "Total Hours: 0.00\n", buf.String())
}

func TestRoundRecordsLeavesInputAlone(t *testing.T) {
	records := sampleRecords()
	rounded := roundRecords(records, timecalc.Down(1800))
	assert.Equal(t, 37800.0, rounded[0].Seconds)
	assert.Equal(t, 38160.12345, records[0].Seconds)
}

func TestRoundingForPrefersFlag(t *testing.T) {
	appConfig = config.Config{RoundingSpec: "-30m"}
	t.Cleanup(func() { appConfig = config.Config{} })

	r, err := roundingFor("")
	require.NoError(t, err)
	assert.Equal(t, timecalc.Down(1800), r)

	r, err = roundingFor("+15m")
	require.NoError(t, err)
	assert.Equal(t, timecalc.Up(900), r)

	_, err = roundingFor("sideways")
	assert.Error(t, err)
}

func TestWindowStart(t *testing.T) {
	appConfig = config.Config{WeekStartDay: "saturday"}
	t.Cleanup(func() { appConfig = config.Config{} })

	loc := time.FixedZone("", -6*3600)
	// Thursday.
	now := time.Date(2017, 1, 5, 15, 0, 0, 0, loc)
	p := timeexpr.NewParser(func() time.Time { return now })

	from, err := windowStart(p, "", now)
	require.NoError(t, err)
	assert.Equal(t, "2016-12-31 00:00", from.Format("2006-01-02 15:04"))

	from, err = windowStart(p, "1/3", now)
	require.NoError(t, err)
	assert.Equal(t, "2017-01-03 00:00", from.Format("2006-01-02 15:04"))

	_, err = windowStart(p, "someday", now)
	assert.Error(t, err)
}

func TestWriteExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "csv", sampleRecords(), timecalc.Up(900)))

	want := "date,hours,complete,memo\n" +
		"2017-01-07,10.75,true,\"a, b\"\n" +
		"2017-01-08,1.00,false,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "json", sampleRecords(), timecalc.NoRounding))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2017-01-07", got[0]["date"])
	assert.Equal(t, 38160.12345, got[0]["duration_seconds"])
	assert.Equal(t, true, got[0]["complete"])
	assert.Equal(t, false, got[1]["complete"])
	assert.Equal(t, 1.0, got[1]["hours"])
}

func TestWriteExportMarkdown(t *testing.T) {
	records := []model.DailyRecord{day("2017-01-07", 5400, "a|b", true)}
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "md", records, timecalc.NoRounding))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Date | Hours | Complete | Memo |", lines[0])
	assert.Equal(t, `| 2017-01-07 | 1.50 | ✓ | a\|b |`, lines[2])
	assert.Equal(t, "| **Total** | **1.50** | | |", lines[3])
}
