package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/report"
	"github.com/tnorth/worktime/internal/timeexpr"
	"github.com/tnorth/worktime/internal/ui"
)

var (
	statsBucket  string
	statsProject string
	statsNoGraph bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [period...]",
	Short: "Aggregate recorded time per project",
	Long: `Aggregates recorded time per project over a period.

Totals roll up the project tree: a parent's total includes its whole
subtree. Period arguments work like 'wt show'. --bucket splits the period
into day, week or month columns; --project restricts the report to one
subtree.`,
	Args: cobra.ArbitraryArgs,
	RunE: runStats,
}

type statsRow struct {
	ID      int64   `json:"id"`
	Project string  `json:"project"`
	Self    int64   `json:"self_seconds"`
	Total   int64   `json:"total_seconds"`
	Buckets []int64 `json:"bucket_seconds,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	now := time.Now()

	width, err := timeexpr.ParseBucketWidth(statsBucket)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	opts, fallback, err := loadSheetOptions()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	period, err := timeexpr.ParsePeriodArgs(args, fallback, now, opts)
	if err != nil {
		return handleError(ErrInvalidInput, err, "Try 'wt stats thisweek' or 'wt stats from -1w'")
	}

	params := report.Params{Period: period, Width: width, Opts: opts, Now: now}
	if statsProject != "" {
		project, err := s.ProjectByPath(statsProject)
		if err != nil {
			return handleError(ErrProjectNotFound, err, "Run 'wt project list' to see projects")
		}
		params.Root = project.ID
	}

	r, err := report.Build(s, params)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputStatsJSON(r)
		return nil
	}

	fmt.Println(ui.Header(fmt.Sprintf("Stats from %s to %s",
		ui.FormatDate(r.Period.From), ui.FormatDate(r.Period.To.Add(-time.Second)))))
	if len(r.Rows) == 0 {
		fmt.Println("No records.")
		return nil
	}

	if width == timeexpr.BucketNone {
		printStatsTable(r)
	} else {
		printBucketedStats(r, width)
	}
	fmt.Printf("\n%s %s\n", ui.Header("Total:"), ui.FormatDuration(r.GrandTotal))
	return nil
}

func outputStatsJSON(r *report.Report) {
	rows := make([]statsRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		out := statsRow{
			ID:      row.Project.ID,
			Project: row.Project.Path,
			Self:    int64(row.Self / time.Second),
			Total:   int64(row.Total / time.Second),
		}
		for _, d := range row.Buckets {
			out.Buckets = append(out.Buckets, int64(d/time.Second))
		}
		rows = append(rows, out)
	}

	data := map[string]interface{}{
		"from":          r.Period.From.Format(time.RFC3339),
		"to":            r.Period.To.Format(time.RFC3339),
		"projects":      rows,
		"total_seconds": int64(r.GrandTotal / time.Second),
	}
	if len(r.Buckets) > 0 {
		buckets := make([]map[string]interface{}, 0, len(r.Buckets))
		for i, b := range r.Buckets {
			buckets = append(buckets, map[string]interface{}{
				"from":          b.From.Format(time.RFC3339),
				"to":            b.To.Format(time.RFC3339),
				"total_seconds": int64(r.BucketTotals[i] / time.Second),
			})
		}
		data["buckets"] = buckets
	}
	var warnings []Warning
	if len(rows) == 0 {
		warnings = append(warnings, Warning{Code: WarnNoRecords, Message: "no records in period"})
	}
	outputSuccessWithWarnings(data, warnings, &Meta{Count: len(rows)})
}

func printStatsTable(r *report.Report) {
	display := ui.NewDisplayContext()
	maxTotal := r.MaxTotal()

	// Bars scale against the longest row and shrink on narrow terminals.
	barWidth := display.AvailableWidth(50)
	if barWidth > 40 {
		barWidth = 40
	}

	tbl := ui.NewTable(4).Align(1, ui.AlignRight).Align(2, ui.AlignRight)
	tbl.AddRow("", ui.Hint("self"), ui.Hint("total"), "")
	for _, row := range r.Rows {
		name := ui.TreePrefix(row.Depth) + displayName(row)
		bar := ""
		if !statsNoGraph && barWidth > 0 {
			bar = ui.Bar(row.Total, maxTotal, barWidth)
		}
		tbl.AddRow(name, ui.FormatDuration(row.Self), ui.FormatDuration(row.Total), bar)
	}
	fmt.Print(tbl.String())
}

func printBucketedStats(r *report.Report, width timeexpr.BucketWidth) {
	cols := len(r.Buckets)
	tbl := ui.NewTable(cols + 2)
	for i := 1; i <= cols+1; i++ {
		tbl.Align(i, ui.AlignRight)
	}

	header := make([]string, 0, cols+2)
	header = append(header, "")
	for _, b := range r.Buckets {
		header = append(header, ui.Hint(b.Label(width)))
	}
	header = append(header, ui.Hint("total"))
	tbl.AddRow(header...)

	for _, row := range r.Rows {
		cells := make([]string, 0, cols+2)
		cells = append(cells, ui.TreePrefix(row.Depth)+displayName(row))
		for _, d := range row.Buckets {
			if d == 0 {
				cells = append(cells, ui.Hint("-"))
			} else {
				cells = append(cells, ui.FormatDuration(d))
			}
		}
		cells = append(cells, ui.FormatDuration(row.Total))
		tbl.AddRow(cells...)
	}

	footer := make([]string, 0, cols+2)
	footer = append(footer, ui.Header("all projects"))
	for _, d := range r.BucketTotals {
		footer = append(footer, ui.FormatDuration(d))
	}
	footer = append(footer, ui.FormatDuration(r.GrandTotal))
	tbl.AddRow(footer...)

	fmt.Print(tbl.String())
}

// displayName renders a row's name: nested rows show only the final
// segment under their parent, top-level rows the full path.
func displayName(row report.Row) string {
	if row.Depth == 0 {
		return ui.ProjectPath(row.Project.Path)
	}
	return ui.ProjectPath(row.Project.Name)
}

func init() {
	statsCmd.Flags().StringVar(&statsBucket, "bucket", "", "Split the period into buckets: day, week or month")
	statsCmd.Flags().StringVar(&statsProject, "project", "", "Restrict the report to this project and its subprojects")
	statsCmd.Flags().BoolVar(&statsNoGraph, "no-graph", false, "Suppress the bar graph")
	rootCmd.AddCommand(statsCmd)
}
