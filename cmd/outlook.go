package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worklog/internal/config"
	"github.com/Tiliavir/worklog/internal/ledger"
	"github.com/Tiliavir/worklog/internal/msgraph"
	"github.com/Tiliavir/worklog/internal/timecalc"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as punches",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "First day to import; required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "Last day to import; defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Import a single day (default: today)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned imports without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncWindow resolves the day flags to [from, to]. Days may be any date-time
// expression, e.g. "2026-02-27", "2/27" or "-7d".
func syncWindow(p *timeexpr.Parser, date, fromFlag, toFlag string) (time.Time, time.Time, error) {
	now := p.Now()
	switch {
	case date != "":
		d, err := p.Instant(date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", date, err)
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case fromFlag != "" || toFlag != "":
		if fromFlag == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		from, err := p.Instant(fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", fromFlag, err)
		}
		to := now
		if toFlag != "" {
			if to, err = p.Instant(toFlag); err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", toFlag, err)
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil

	default:
		return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
	}
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncWindow(parser(), outlookSyncDate, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = appConfig.Outlook.Timezone
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)
	fmt.Println()

	existing := loadPunches()

	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	tokenPath := msgraph.TokenPath(dir)

	ctx := context.Background()
	tok, oauthCfg, err := msgraph.Authenticate(ctx, msgraph.AuthOptions{
		TenantID:  appConfig.Outlook.TenantID,
		ClientID:  appConfig.Outlook.ClientID,
		TokenPath: tokenPath,
		Prompt:    os.Stdout,
		Log:       appLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, tok, oauthCfg, tokenPath, appLog)
	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	result := msgraph.SyncEvents(existing, events, timezone, appLog)
	printOutcomes(os.Stdout, result)

	if !outlookSyncDryRun && len(result.Added) > 0 {
		if err := ledger.Save(appConfig.Ledger, result.Punches); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	if result.Count(msgraph.Failed) > 0 {
		os.Exit(2)
	}
	return nil
}

func printOutcomes(w io.Writer, result msgraph.SyncResult) {
	for _, o := range result.Outcomes {
		switch o.Status {
		case msgraph.Imported:
			fmt.Fprintf(w, "  ✓ Imported: %s (%s)\n", o.Subject, timecalc.FormatDuration(int64(o.Seconds)))
		case msgraph.Duplicate:
			fmt.Fprintf(w, "  – Skipped:  %s (already in ledger)\n", o.Subject)
		case msgraph.Skipped:
			fmt.Fprintf(w, "  – Skipped:  %s (%s)\n", o.Subject, o.Reason)
		case msgraph.Failed:
			fmt.Fprintf(w, "  ! Error:    %s: %s\n", o.Subject, o.Reason)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d imported\n", result.Count(msgraph.Imported))
	fmt.Fprintf(w, "  %d skipped\n", result.Count(msgraph.Skipped)+result.Count(msgraph.Duplicate))
	if n := result.Count(msgraph.Failed); n > 0 {
		fmt.Fprintf(w, "  %d errors\n", n)
	}
}
