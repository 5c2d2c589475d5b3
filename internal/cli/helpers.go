package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tnorth/worktime/internal/config"
	"github.com/tnorth/worktime/internal/store"
	"github.com/tnorth/worktime/internal/timeexpr"
	"github.com/tnorth/worktime/internal/ui"
)

// openStore opens the database of the resolved timesheet.
func openStore() (*store.Store, error) {
	s, err := store.Open(getSheetPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open timesheet database: %w", err)
	}
	return s, nil
}

// loadSheetOptions loads the per-timesheet config and returns the period
// resolution options plus the configured default period keyword.
func loadSheetOptions() (timeexpr.Options, string, error) {
	sheetCfg, err := config.LoadSheetConfig(getSheetPath())
	if err != nil {
		return timeexpr.DefaultOptions(), "", err
	}
	opts, err := sheetCfg.PeriodOptions()
	if err != nil {
		return timeexpr.DefaultOptions(), "", err
	}
	return opts, sheetCfg.GetDefaultPeriod(), nil
}

// parseRecordIDs parses positional record id arguments.
func parseRecordIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "#")
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// recordRow is the JSON shape of a record in command output.
type recordRow struct {
	ID      int64  `json:"id"`
	Project string `json:"project"`
	Start   string `json:"start"`
	End     string `json:"end,omitempty"`
	Seconds int64  `json:"seconds"`
	Open    bool   `json:"open"`
	Note    string `json:"note,omitempty"`
}

func toRecordRow(r store.Record, now time.Time) recordRow {
	row := recordRow{
		ID:      r.ID,
		Project: r.ProjectPath,
		Start:   r.Start.Format(time.RFC3339),
		Seconds: int64(r.Duration(now) / time.Second),
		Open:    r.Open(),
		Note:    r.Note,
	}
	if r.End != nil {
		row.End = r.End.Format(time.RFC3339)
	}
	return row
}

// recordSpan formats a record's start-end span for table output, eliding
// the date on the end side when it matches the start date.
func recordSpan(r store.Record) string {
	start := ui.FormatInstant(r.Start)
	if r.End == nil {
		return start + " - ..."
	}
	if r.End.Year() == r.Start.Year() && r.End.YearDay() == r.Start.YearDay() {
		return start + " - " + ui.FormatClock(*r.End)
	}
	return start + " - " + ui.FormatInstant(*r.End)
}

// describeOverlaps summarizes overlapping records for error messages.
func describeOverlaps(records []store.Record) string {
	var parts []string
	for _, r := range records {
		parts = append(parts, fmt.Sprintf("#%d %s (%s)", r.ID, r.ProjectPath, recordSpan(r)))
	}
	return strings.Join(parts, ", ")
}
