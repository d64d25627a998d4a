package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worklog/internal/timecalc"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

var resolveKind string

var resolveCmd = &cobra.Command{
	Use:   "resolve <expression>",
	Short: "Show how a time, offset or rounding expression is understood",
	Example: `  worklog resolve "9:22 pm"
  worklog resolve --kind offset _1:30
  worklog resolve --kind round +15m`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveKind, "kind", "time", "Expression kind: time, offset, round")
}

func runResolve(cmd *cobra.Command, args []string) error {
	out, err := resolveExpr(resolveKind, args[0], parser().Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(out)
	return nil
}

func resolveExpr(kind, expr string, now time.Time) (string, error) {
	switch kind {
	case "time":
		t, err := timeexpr.ParseInstant(expr, now)
		if err != nil {
			return "", describeErr(err)
		}
		return fmt.Sprintf("%s (%s)", t.Format(time.RFC3339Nano), t.Format("Mon 2006-01-02 03:04:05 pm")), nil
	case "offset":
		secs, err := timeexpr.ParseOffset(expr)
		if err != nil {
			return "", describeErr(err)
		}
		return fmt.Sprintf("%+g seconds (%s)", secs, timecalc.FormatDurationHHMMSS(int64(secs))), nil
	case "round":
		r, err := timeexpr.ParseRounding(expr)
		if err != nil {
			return "", describeErr(err)
		}
		return fmt.Sprintf("%s to every %gs", r.Mode, r.Granularity), nil
	default:
		return "", fmt.Errorf("unknown --kind %q (want time, offset or round)", kind)
	}
}

// describeErr prefixes the error with its class.
func describeErr(err error) error {
	var re *timeexpr.RangeError
	switch {
	case errors.As(err, &re):
		return fmt.Errorf("out of range: %w", err)
	case errors.Is(err, timeexpr.ErrOverflow):
		return fmt.Errorf("overflow: %w", err)
	default:
		return fmt.Errorf("syntax: %w", err)
	}
}
