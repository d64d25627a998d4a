package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/worklog/internal/model"
	"github.com/Tiliavir/worklog/internal/timecalc"
	"github.com/Tiliavir/worklog/internal/timeclock"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether you are clocked in and today's total",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := parser().Now()
	printStatus(os.Stdout, loadPunches(), now)
	return nil
}

func printStatus(w io.Writer, punches []model.Punch, now time.Time) {
	if len(punches) == 0 {
		fmt.Fprintln(w, "No punches recorded.")
		return
	}

	last := punches[len(punches)-1]
	when := humanize.RelTime(last.Instant, now, "ago", "from now")
	if last.Direction == model.In {
		elapsed := int64(now.Sub(last.Instant).Seconds())
		fmt.Fprintln(w, "Clocked in:")
		fmt.Fprintf(w, "  Since: %s (%s)\n", last.Instant.Format("2006-01-02 03:04 pm"), when)
		fmt.Fprintf(w, "  Elapsed: %s\n", formatElapsed(elapsed))
		if last.Memo != "" {
			fmt.Fprintf(w, "  Memo: %s\n", last.Memo)
		}
	} else {
		fmt.Fprintf(w, "Clocked out at %s (%s).\n", last.Instant.Format("2006-01-02 03:04 pm"), when)
	}

	var today float64
	for _, rec := range timeclock.DailyRecords(punches, now) {
		if timecalc.SameDay(rec.Date, now) {
			today += rec.Seconds
		}
	}
	fmt.Fprintf(w, "Today: %s logged.\n", timecalc.FormatDuration(int64(today)))
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
