package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/worklog/internal/ledger"
	"github.com/Tiliavir/worklog/internal/model"
)

var (
	clockTime string
	clockMemo string
)

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClock(model.In)
	},
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClock(model.Out)
	},
}

func init() {
	for _, c := range []*cobra.Command{inCmd, outCmd} {
		c.Flags().StringVarP(&clockTime, "time", "t", "now", `When: "now", an offset like "-15m" or "_1:30", or a time like "9:22 am"`)
		c.Flags().StringVarP(&clockMemo, "memo", "m", "", "Note stored with the punch")
	}
}

func runClock(dir model.Direction) error {
	at, err := parser().Instant(clockTime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --time value %q: %v\n", clockTime, err)
		os.Exit(1)
	}
	p := model.NewPunch(dir, at, clockMemo)

	if last, ok := lastPunch(); ok && last.Direction == dir && !p.Instant.Before(last.Instant) {
		appLog.Warn("previous punch has the same direction",
			zap.String("direction", dir.String()),
			zap.Time("previous", last.Instant),
		)
	}

	if err := ledger.Append(appConfig.Ledger, p); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	appLog.Debug("punch appended", zap.String("path", appConfig.Ledger), zap.Stringer("punch", p))

	fmt.Println(clockMessage(p))
	return nil
}

// lastPunch returns the latest punch in the ledger. A ledger that cannot be
// read only disables the check.
func lastPunch() (model.Punch, bool) {
	punches, err := ledger.Load(appConfig.Ledger)
	if err != nil {
		appLog.Warn("cannot read ledger", zap.Error(err))
		return model.Punch{}, false
	}
	if len(punches) == 0 {
		return model.Punch{}, false
	}
	return punches[len(punches)-1], true
}

// clockMessage renders the confirmation, e.g. "Clocked in at 2017-04-30 09:22 am".
func clockMessage(p model.Punch) string {
	return fmt.Sprintf("Clocked %s at %s", strings.ToLower(p.Direction.String()), p.Instant.Format("2006-01-02 03:04 pm"))
}
