package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worklog/internal/model"
)

var logSince string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List recorded punches",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVar(&logSince, "since", "", "Only punches at or after this time (e.g. \"4/2\" or \"-8h\")")
}

func runLog(cmd *cobra.Command, args []string) error {
	punches := loadPunches()

	if logSince != "" {
		from, err := parser().Instant(logSince)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --since value %q: %v\n", logSince, err)
			os.Exit(1)
		}
		punches = punchesSince(punches, from)
	}

	printPunches(os.Stdout, punches)
	return nil
}

func punchesSince(punches []model.Punch, from time.Time) []model.Punch {
	var out []model.Punch
	for _, p := range punches {
		if !p.Instant.Before(from) {
			out = append(out, p)
		}
	}
	return out
}

func printPunches(w io.Writer, punches []model.Punch) {
	if len(punches) == 0 {
		fmt.Fprintln(w, "No punches recorded.")
		return
	}
	for _, p := range punches {
		fmt.Fprintln(w, p)
	}
}
