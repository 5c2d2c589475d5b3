package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/ui"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:   "rm <record-id>...",
	Short: "Delete work records",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	now := time.Now()

	ids, err := parseRecordIDs(args)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	// Show what is about to go away before asking.
	var doomed []recordRow
	for _, id := range ids {
		rec, err := s.RecordByID(id)
		if err != nil {
			return handleError(ErrRecordNotFound, err, "Run 'wt show --last 10' to see recent record ids")
		}
		doomed = append(doomed, toRecordRow(*rec, now))
	}

	if !rmYes && !isJSONOutput() {
		for _, row := range doomed {
			span := row.Start
			if row.End != "" {
				span += " - " + row.End
			}
			fmt.Printf("  %s %s %s\n", ui.RecordID(row.ID), ui.ProjectPath(row.Project), ui.Hint(span))
		}
		if !promptForConfirm(fmt.Sprintf("Delete %d record(s)?", len(ids))) {
			return handleErrorMsg(ErrConfirmationRequired, "deletion not confirmed", "Re-run with --yes to skip the prompt")
		}
	}

	count, err := s.DeleteRecords(ids)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"deleted": doomed}, &Meta{Count: int(count)})
		return nil
	}

	fmt.Println(ui.Successf("Deleted %d %s", count, pluralRecords(int(count))))
	return nil
}

func pluralRecords(n int) string {
	if n == 1 {
		return "record"
	}
	return "records"
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Delete without confirmation")
	rootCmd.AddCommand(rmCmd)
}
