package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/worklog/internal/config"
	"github.com/Tiliavir/worklog/internal/ledger"
	"github.com/Tiliavir/worklog/internal/logger"
	"github.com/Tiliavir/worklog/internal/model"
	"github.com/Tiliavir/worklog/internal/timeexpr"
)

var (
	rootLedger   string
	rootLogLevel string

	appConfig config.Config
	appLog    = logger.Nop()

	// clock is the source of the reference instant.
	clock = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "worklog – clock in, clock out, see your hours",
	Long: `worklog records clock-in and clock-out punches in a plain CSV ledger
(~/.worklog.csv) and reconciles them into daily worked-hours totals.
Times may be written freely: "now", "9:22 pm", "4/2 9:22", "-15m" or "_1:30".`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = appLog.Sync()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLedger, "ledger", "", "Ledger file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")

	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(outlookCmd)
}

// setup loads the configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if rootLedger != "" {
		cfg.Ledger = rootLedger
	}
	if rootLogLevel != "" {
		cfg.LogLevel = rootLogLevel
	}
	appConfig = cfg
	appLog = logger.New(cfg.LogLevel, os.Stderr)
	appLog.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("ledger", cfg.Ledger),
		zap.String("week_start", cfg.WeekStartDay),
		zap.String("rounding", cfg.RoundingSpec),
	)
	return nil
}

// parser resolves time expressions against the command clock.
func parser() *timeexpr.Parser {
	return timeexpr.NewParser(clock)
}

// loadPunches reads the configured ledger, exiting with status 2 on failure.
func loadPunches() []model.Punch {
	punches, err := ledger.Load(appConfig.Ledger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	appLog.Debug("ledger loaded", zap.String("path", appConfig.Ledger), zap.Int("punches", len(punches)))
	return punches
}
