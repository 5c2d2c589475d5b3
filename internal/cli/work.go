package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/store"
	"github.com/tnorth/worktime/internal/timeexpr"
	"github.com/tnorth/worktime/internal/ui"
)

var (
	workAtFlag    string
	workForFlag   string
	workForce     bool
	workNote      string
	workDoneAt    string
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Start and stop work records",
	Args:  cobra.NoArgs,
	RunE:  runWorkStatus,
}

var workOnCmd = &cobra.Command{
	Use:   "on <project>",
	Short: "Start working on a project",
	Long: `Starts a work record for a project identified by its dotted path.

With no flags the record starts now and stays open until 'wt work done'.
--at moves the start ('--at 9:00', '--at 2024-04-15_09:00'), --for records
a closed interval of the given length ('--for 2h30m').

A record that would overlap existing ones is refused; --force closes the
overlapped records at the new start instant instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkOn,
}

var workDoneCmd = &cobra.Command{
	Use:   "done",
	Short: "Close all open work records",
	Args:  cobra.NoArgs,
	RunE:  runWorkDone,
}

func runWorkOn(cmd *cobra.Command, args []string) error {
	now := time.Now()

	start := now
	if workAtFlag != "" {
		var err error
		start, err = timeexpr.ParseInstant(workAtFlag, now)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use a time like 9:00, 2024-04-15_09:00 or now")
		}
	}

	var end *time.Time
	if workForFlag != "" {
		d, err := timeexpr.ParseDuration(workForFlag)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use a duration like 2h30m or 1:20")
		}
		t := start.Add(d)
		end = &t
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	project, err := s.ProjectByPath(args[0])
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return handleError(ErrProjectNotFound, err,
				fmt.Sprintf("Run 'wt project add %s' to create it", strings.TrimSpace(args[0])))
		}
		return handleError(ErrDatabaseError, err, "")
	}

	overlaps, err := s.OverlappingRecords(start)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	if end != nil {
		endOverlaps, err := s.OverlappingRecords(*end)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		seen := make(map[int64]bool, len(overlaps))
		for _, r := range overlaps {
			seen[r.ID] = true
		}
		for _, r := range endOverlaps {
			if !seen[r.ID] {
				overlaps = append(overlaps, r)
			}
		}
	}

	var clipped []int64
	if len(overlaps) > 0 {
		if !workForce {
			return handleErrorWithDetails(ErrRecordOverlap,
				fmt.Sprintf("overlapping records: %s", describeOverlaps(overlaps)),
				"Re-run with --force to close the overlapping records at the new start",
				overlaps)
		}
		for _, r := range overlaps {
			clipped = append(clipped, r.ID)
		}
		if err := s.ClipRecordsEnd(clipped, start); err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
	}

	rec, err := s.StartRecord(project.ID, start, end, workNote)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"record":  toRecordRow(*rec, now),
			"clipped": clipped,
		}, nil)
		return nil
	}

	for _, id := range clipped {
		fmt.Println(ui.Warningf("closed record #%d at %s", id, ui.FormatInstant(start)))
	}
	if end != nil {
		fmt.Println(ui.Successf("Recorded %s on %s (%s)",
			ui.FormatDuration(rec.Duration(now)), ui.ProjectPath(rec.ProjectPath), recordSpan(*rec)))
	} else {
		fmt.Println(ui.Successf("Started work on %s at %s %s",
			ui.ProjectPath(rec.ProjectPath), ui.FormatInstant(start), ui.RecordID(rec.ID)))
	}
	return nil
}

func runWorkDone(cmd *cobra.Command, args []string) error {
	now := time.Now()

	at := now
	if workDoneAt != "" {
		var err error
		at, err = timeexpr.ParseInstant(workDoneAt, now)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use a time like 17:30 or now")
		}
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	open, err := s.OpenRecords()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	if len(open) == 0 {
		return handleErrorMsg(ErrNoOpenRecord, "no open records", "Start one with 'wt work on <project>'")
	}
	for _, r := range open {
		if !r.Start.Before(at) {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("record #%d started %s, after the requested end", r.ID, ui.FormatInstant(r.Start)), "")
		}
	}

	count, err := s.CloseOpenRecords(at)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		rows := make([]recordRow, 0, len(open))
		for _, r := range open {
			r.End = &at
			rows = append(rows, toRecordRow(r, now))
		}
		outputSuccess(map[string]interface{}{"closed": rows}, &Meta{Count: int(count)})
		return nil
	}

	for _, r := range open {
		fmt.Println(ui.Successf("Closed %s on %s %s",
			ui.FormatDuration(at.Sub(r.Start)), ui.ProjectPath(r.ProjectPath), ui.RecordID(r.ID)))
	}
	return nil
}

func runWorkStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	open, err := s.OpenRecords()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		rows := make([]recordRow, 0, len(open))
		for _, r := range open {
			rows = append(rows, toRecordRow(r, now))
		}
		outputSuccess(map[string]interface{}{"open": rows}, &Meta{Count: len(rows)})
		return nil
	}

	if len(open) == 0 {
		fmt.Println("Not working on anything.")
		fmt.Println(ui.Hint("Start with 'wt work on <project>'"))
		return nil
	}
	for _, r := range open {
		fmt.Println(ui.Running(fmt.Sprintf("%s since %s (%s) %s",
			ui.ProjectPath(r.ProjectPath), ui.FormatInstant(r.Start),
			ui.FormatDuration(r.Duration(now)), ui.RecordID(r.ID))))
	}
	return nil
}

func init() {
	workOnCmd.Flags().StringVar(&workAtFlag, "at", "", "Start time (default: now)")
	workOnCmd.Flags().StringVar(&workForFlag, "for", "", "Record a closed interval of this length")
	workOnCmd.Flags().BoolVar(&workForce, "force", false, "Close overlapping records at the new start")
	workOnCmd.Flags().StringVar(&workNote, "note", "", "Attach a note to the record")
	workDoneCmd.Flags().StringVar(&workDoneAt, "at", "", "End time (default: now)")

	workCmd.AddCommand(workOnCmd)
	workCmd.AddCommand(workDoneCmd)
	rootCmd.AddCommand(workCmd)
}
