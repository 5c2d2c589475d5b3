package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/store"
	"github.com/tnorth/worktime/internal/timeexpr"
	"github.com/tnorth/worktime/internal/ui"
)

var (
	showLast    int
	showProject string
)

var showCmd = &cobra.Command{
	Use:   "show [period...]",
	Short: "List work records in a period",
	Long: `Lists records in a period as a table.

Period arguments:
  today, yesterday, thisweek, lastweek, thismonth, lastmonth
  from <offset|time> [for <duration>]    e.g. from -1w for 2d

With no arguments the timesheet's configured default period is used.
--last N ignores the period and lists the N most recent records.`,
	Args: cobra.ArbitraryArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	now := time.Now()

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	var records []store.Record
	var period timeexpr.Period

	if showLast > 0 {
		if len(args) > 0 {
			return handleErrorMsg(ErrInvalidInput, "--last cannot be combined with period arguments", "")
		}
		records, err = s.LastRecords(showLast)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
	} else {
		opts, fallback, err := loadSheetOptions()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		period, err = timeexpr.ParsePeriodArgs(args, fallback, now, opts)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Try 'wt show thisweek' or 'wt show from -1w for 2d'")
		}
		records, err = s.RecordsInPeriod(period)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
	}

	if showProject != "" {
		records, err = filterRecordsByProject(s, records, showProject)
		if err != nil {
			return handleError(ErrProjectNotFound, err, "Run 'wt project list' to see projects")
		}
	}

	if isJSONOutput() {
		rows := make([]recordRow, 0, len(records))
		open := 0
		for _, r := range records {
			if r.Open() {
				open++
			}
			rows = append(rows, toRecordRow(r, now))
		}
		data := map[string]interface{}{"records": rows}
		if !period.IsZero() {
			data["from"] = period.From.Format(time.RFC3339)
			data["to"] = period.To.Format(time.RFC3339)
		}
		var warnings []Warning
		if open > 0 {
			warnings = append(warnings, Warning{
				Code:    WarnOpenRecords,
				Message: fmt.Sprintf("%d open %s counted up to now", open, pluralRecords(open)),
			})
		}
		outputSuccessWithWarnings(data, warnings, &Meta{Count: len(rows)})
		return nil
	}

	if !period.IsZero() {
		fmt.Println(ui.Header(fmt.Sprintf("Records from %s to %s",
			ui.FormatDate(period.From), ui.FormatDate(period.To.Add(-time.Second)))))
	}
	if len(records) == 0 {
		fmt.Println("No records.")
		return nil
	}

	var total time.Duration
	tbl := ui.NewTable(4).Align(2, ui.AlignRight)
	for _, r := range records {
		d := r.Duration(now)
		total += d
		duration := ui.FormatDuration(d)
		if r.Open() {
			duration += " " + ui.Accent.Render(ui.SymbolRunning)
		}
		note := ""
		if r.Note != "" {
			note = ui.Hint(r.Note)
		}
		tbl.AddRow(ui.RecordID(r.ID), ui.ProjectPath(r.ProjectPath)+"  "+recordSpan(r), duration, note)
	}
	fmt.Print(tbl.String())
	fmt.Printf("\n%s %s %s\n", ui.Header("Total:"), ui.FormatDuration(total), ui.Count(len(records), "record", "records"))
	return nil
}

// filterRecordsByProject keeps records belonging to the project or any of
// its descendants.
func filterRecordsByProject(s *store.Store, records []store.Record, path string) ([]store.Record, error) {
	t, err := s.Tree()
	if err != nil {
		return nil, err
	}
	n, ok := t.ByPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrProjectNotFound, path)
	}
	keep := map[int64]bool{n.ID: true}
	for _, id := range t.Subtree(n.ID) {
		keep[id] = true
	}

	var out []store.Record
	for _, r := range records {
		if keep[r.ProjectID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func init() {
	showCmd.Flags().IntVar(&showLast, "last", 0, "Show the N most recent records instead of a period")
	showCmd.Flags().StringVar(&showProject, "project", "", "Only records of this project and its subprojects")
	rootCmd.AddCommand(showCmd)
}
