package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/worklog/internal/model"
	"github.com/Tiliavir/worklog/internal/timecalc"
	"github.com/Tiliavir/worklog/internal/timeclock"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

// windowFlags selects and rounds daily records; summary and export share them.
type windowFlags struct {
	all   bool
	since string
	round string
}

func (f *windowFlags) register(c *cobra.Command) {
	c.Flags().BoolVar(&f.all, "all", false, "Include every day in the ledger")
	c.Flags().StringVar(&f.since, "since", "", "First day to include (default: start of the week)")
	c.Flags().StringVar(&f.round, "round", "", `Round each day, e.g. "+15m", "-30m", "=1h" (default: config)`)
}

var summaryFlags windowFlags

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show worked hours per day",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryFlags.register(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	records, rounding := dailyRecords(summaryFlags)
	printSummary(os.Stdout, records, rounding)
	return nil
}

// dailyRecords loads, pairs and aggregates the ledger, then applies the
// window. Bad flag values exit with status 1.
func dailyRecords(f windowFlags) ([]model.DailyRecord, timecalc.Rounding) {
	p := parser()
	now := p.Now()

	rounding, err := roundingFor(f.round)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid rounding: %v\n", err)
		os.Exit(1)
	}

	var from time.Time
	if !f.all {
		from, err = windowStart(p, f.since, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --since value %q: %v\n", f.since, err)
			os.Exit(1)
		}
	}

	punches := loadPunches()
	records := timeclock.DailyRecords(punches, now)
	if !f.all {
		records = timeclock.Since(records, from)
	}
	appLog.Debug("daily records",
		zap.Int("punches", len(punches)),
		zap.Int("records", len(records)),
		zap.Stringer("rounding", rounding),
	)
	return records, rounding
}

// roundingFor parses the --round flag, falling back to the configured spec.
func roundingFor(flag string) (timecalc.Rounding, error) {
	if flag != "" {
		return timeexpr.ParseRounding(flag)
	}
	return appConfig.Rounding()
}

// windowStart is the start of the configured week, or the --since date.
func windowStart(p *timeexpr.Parser, since string, now time.Time) (time.Time, error) {
	if since != "" {
		return p.Instant(since)
	}
	first, err := appConfig.WeekStart()
	if err != nil {
		return time.Time{}, err
	}
	return timecalc.WeekStart(now, first), nil
}

// roundRecords returns a copy of records with each day's seconds rounded.
func roundRecords(records []model.DailyRecord, r timecalc.Rounding) []model.DailyRecord {
	out := make([]model.DailyRecord, len(records))
	for i, rec := range records {
		rec.Seconds = timecalc.Round(rec.Seconds, r)
		out[i] = rec
	}
	return out
}

// printSummary writes one line per day and the total, rounding each day first.
func printSummary(w io.Writer, records []model.DailyRecord, r timecalc.Rounding) {
	var total float64
	for _, rec := range roundRecords(records, r) {
		total += rec.Seconds
		fmt.Fprintln(w, rec)
	}
	fmt.Fprintf(w, "Total Hours: %.2f\n", total/3600)
}
