package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/store"
	"github.com/tnorth/worktime/internal/timeexpr"
	"github.com/tnorth/worktime/internal/ui"
)

var (
	editProject string
	editFrom    string
	editTo      string
	editNote    string
	editForce   bool
)

var editCmd = &cobra.Command{
	Use:   "edit <record-id>",
	Short: "Modify a work record",
	Long: `Modifies an existing record: its project, start, end or note.

The new endpoints are checked against other records; an edit that would
create an overlap is refused unless --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	now := time.Now()

	ids, err := parseRecordIDs(args)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}
	id := ids[0]

	if editProject == "" && editFrom == "" && editTo == "" && !cmd.Flags().Changed("note") {
		return handleErrorMsg(ErrMissingArgument, "nothing to change", "Pass --project, --from, --to or --note")
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	rec, err := s.RecordByID(id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return handleError(ErrRecordNotFound, err, "Run 'wt show --last 10' to see recent record ids")
		}
		return handleError(ErrDatabaseError, err, "")
	}

	var upd store.RecordUpdate

	if editProject != "" {
		project, err := s.ProjectByPath(editProject)
		if err != nil {
			return handleError(ErrProjectNotFound, err, "Run 'wt project list' to see projects")
		}
		upd.ProjectID = &project.ID
	}

	newStart := rec.Start
	if editFrom != "" {
		t, err := timeexpr.ParseInstant(editFrom, now)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use a time like 9:00 or 2024-04-15_09:00")
		}
		upd.Start = &t
		newStart = t
	}

	newEnd := rec.End
	if editTo != "" {
		t, err := timeexpr.ParseInstant(editTo, now)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use a time like 17:30 or 2024-04-15_17:30")
		}
		upd.End = &t
		newEnd = &t
	}
	if newEnd != nil && !newStart.Before(*newEnd) {
		return handleErrorMsg(ErrInvalidInput,
			fmt.Sprintf("record would end (%s) before it starts (%s)",
				ui.FormatInstant(*newEnd), ui.FormatInstant(newStart)), "")
	}

	if cmd.Flags().Changed("note") {
		upd.Note = &editNote
	}

	if !editForce && (upd.Start != nil || upd.End != nil) {
		overlaps, err := overlapsExcluding(s, id, newStart, newEnd)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if len(overlaps) > 0 {
			return handleErrorWithDetails(ErrRecordOverlap,
				fmt.Sprintf("edit would overlap: %s", describeOverlaps(overlaps)),
				"Re-run with --force to apply anyway", overlaps)
		}
	}

	if err := s.UpdateRecord(id, upd); err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	updated, err := s.RecordByID(id)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"record": toRecordRow(*updated, now)}, nil)
		return nil
	}

	fmt.Println(ui.Successf("Updated %s: %s %s (%s)",
		ui.RecordID(updated.ID), ui.ProjectPath(updated.ProjectPath),
		recordSpan(*updated), ui.FormatDuration(updated.Duration(now))))
	return nil
}

// overlapsExcluding returns records overlapping either endpoint, the record
// being edited excluded.
func overlapsExcluding(s *store.Store, id int64, start time.Time, end *time.Time) ([]store.Record, error) {
	candidates, err := s.OverlappingRecords(start)
	if err != nil {
		return nil, err
	}
	if end != nil {
		more, err := s.OverlappingRecords(*end)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, more...)
	}

	seen := make(map[int64]bool)
	var out []store.Record
	for _, r := range candidates {
		if r.ID == id || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

func init() {
	editCmd.Flags().StringVar(&editProject, "project", "", "Move the record to this project")
	editCmd.Flags().StringVar(&editFrom, "from", "", "New start time")
	editCmd.Flags().StringVar(&editTo, "to", "", "New end time")
	editCmd.Flags().StringVar(&editNote, "note", "", "New note (empty clears it)")
	editCmd.Flags().BoolVar(&editForce, "force", false, "Apply the edit even if it overlaps other records")
	rootCmd.AddCommand(editCmd)
}
