package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worklog/internal/model"
	"github.com/Tiliavir/worklog/internal/timecalc"
)

var (
	exportFormat string
	exportFlags  windowFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export daily totals to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportFlags.register(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json", "md":
	default:
		fmt.Fprintf(os.Stderr, "unknown --format %q (want csv, json or md)\n", exportFormat)
		os.Exit(1)
	}

	records, rounding := dailyRecords(exportFlags)
	if err := writeExport(os.Stdout, exportFormat, records, rounding); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}

// exportRecord is the JSON shape of one day.
type exportRecord struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Seconds  float64 `json:"duration_seconds"`
	Complete bool    `json:"complete"`
	Memo     string  `json:"memo"`
}

func writeExport(w io.Writer, format string, records []model.DailyRecord, r timecalc.Rounding) error {
	records = roundRecords(records, r)
	switch format {
	case "json":
		out := make([]exportRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, exportRecord{
				Date:     rec.DateString(),
				Hours:    rec.Hours(),
				Seconds:  rec.Seconds,
				Complete: rec.Complete,
				Memo:     rec.Memo,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "md":
		printMarkdown(w, records)
		return nil
	default:
		return writeCSV(w, records)
	}
}

func writeCSV(w io.Writer, records []model.DailyRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "hours", "complete", "memo"})
	for _, rec := range records {
		_ = cw.Write([]string{
			rec.DateString(),
			strconv.FormatFloat(rec.Hours(), 'f', 2, 64),
			strconv.FormatBool(rec.Complete),
			rec.Memo,
		})
	}
	cw.Flush()
	return cw.Error()
}

func printMarkdown(w io.Writer, records []model.DailyRecord) {
	var total float64
	fmt.Fprintln(w, "| Date | Hours | Complete | Memo |")
	fmt.Fprintln(w, "|------|------:|:--------:|------|")
	for _, rec := range records {
		total += rec.Seconds
		mark := "✓"
		if !rec.Complete {
			mark = "✗"
		}
		memo := strings.ReplaceAll(rec.Memo, "|", `\|`)
		fmt.Fprintf(w, "| %s | %.2f | %s | %s |\n", rec.DateString(), rec.Hours(), mark, memo)
	}
	fmt.Fprintf(w, "| **Total** | **%.2f** | | |\n", total/3600)
}
