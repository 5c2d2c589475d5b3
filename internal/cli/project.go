package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/store"
	"github.com/tnorth/worktime/internal/ui"
)

type projectRow struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	CreatedAt string `json:"created_at"`
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project hierarchy",
	Long: `Manage the project hierarchy.

Projects are identified by dot-separated paths like 'client.backend.api'.
Time recorded on a project counts towards every ancestor in reports.`,
	Args: cobra.NoArgs,
	RunE: runProjectList,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Create a project",
	Long: `Creates the project named by a dotted path.

Parent projects must already exist: 'wt project add client.backend'
requires 'client'. This keeps typos from silently creating top-level
projects.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRm,
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a project's final segment",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectRename,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show a project's details and recent records",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

func runProjectList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	tree, err := s.Tree()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		var rows []projectRow
		tree.Walk(func(n *store.Node, depth int) {
			rows = append(rows, projectRow{
				ID:        n.ID,
				Path:      n.Path,
				CreatedAt: n.CreatedAt.Format(time.RFC3339),
			})
		})
		outputSuccess(map[string]interface{}{"projects": rows}, &Meta{Count: len(rows)})
		return nil
	}

	empty := true
	tbl := ui.NewTable(2)
	tree.Walk(func(n *store.Node, depth int) {
		empty = false
		name := n.Path
		if depth > 0 {
			name = ui.TreePrefix(depth) + n.Name
		}
		tbl.AddRow(ui.RecordID(n.ID), ui.ProjectPath(name))
	})
	if empty {
		fmt.Println("No projects.")
		fmt.Println(ui.Hint("Create one with 'wt project add <name>'"))
		return nil
	}
	fmt.Print(tbl.String())
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	project, err := s.CreateProject(args[0])
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProjectExists):
			return handleError(ErrProjectExists, err, "")
		case errors.Is(err, store.ErrProjectNotFound):
			parent := parentPath(args[0])
			return handleError(ErrProjectNotFound, err,
				fmt.Sprintf("Run 'wt project add %s' first", parent))
		default:
			return handleError(ErrInvalidInput, err, "")
		}
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"project": projectRow{
				ID:        project.ID,
				Path:      project.Path,
				CreatedAt: project.CreatedAt.Format(time.RFC3339),
			},
		}, nil)
		return nil
	}

	fmt.Println(ui.Successf("Created project %s %s", ui.ProjectPath(project.Path), ui.RecordID(project.ID)))
	return nil
}

func runProjectRm(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	project, err := s.ProjectByPath(args[0])
	if err != nil {
		return handleError(ErrProjectNotFound, err, "Run 'wt project list' to see projects")
	}

	if err := s.DeleteProject(project.ID); err != nil {
		if errors.Is(err, store.ErrProjectInUse) {
			return handleError(ErrProjectInUse, err,
				"Delete or move its records first ('wt show --project "+project.Path+"')")
		}
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"deleted": project.Path}, nil)
		return nil
	}

	fmt.Println(ui.Successf("Deleted project %s", ui.ProjectPath(project.Path)))
	return nil
}

func runProjectRename(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	project, err := s.ProjectByPath(args[0])
	if err != nil {
		return handleError(ErrProjectNotFound, err, "Run 'wt project list' to see projects")
	}

	if err := s.RenameProject(project.ID, args[1]); err != nil {
		if errors.Is(err, store.ErrProjectExists) {
			return handleError(ErrProjectExists, err, "")
		}
		return handleError(ErrInvalidInput, err, "")
	}

	renamed, err := s.ProjectByID(project.ID)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"previous": project.Path,
			"path":     renamed.Path,
		}, nil)
		return nil
	}

	fmt.Println(ui.Successf("Renamed %s to %s", ui.ProjectPath(project.Path), ui.ProjectPath(renamed.Path)))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	now := time.Now()

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer s.Close()

	tree, err := s.Tree()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	node, ok := tree.ByPath(args[0])
	if !ok {
		return handleError(ErrProjectNotFound,
			fmt.Errorf("%w: %s", store.ErrProjectNotFound, strings.TrimSpace(args[0])),
			"Run 'wt project list' to see projects")
	}

	records, err := s.LastRecords(200)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	keep := map[int64]bool{node.ID: true}
	for _, id := range tree.Subtree(node.ID) {
		keep[id] = true
	}
	var recent []store.Record
	for _, r := range records {
		if keep[r.ProjectID] {
			recent = append(recent, r)
		}
		if len(recent) == 10 {
			break
		}
	}

	if isJSONOutput() {
		rows := make([]recordRow, 0, len(recent))
		for _, r := range recent {
			rows = append(rows, toRecordRow(r, now))
		}
		children := make([]string, 0, len(node.Children))
		for _, c := range node.Children {
			children = append(children, c.Path)
		}
		outputSuccess(map[string]interface{}{
			"project": projectRow{
				ID:        node.ID,
				Path:      node.Path,
				CreatedAt: node.CreatedAt.Format(time.RFC3339),
			},
			"children":       children,
			"recent_records": rows,
		}, nil)
		return nil
	}

	fmt.Printf("%s %s\n", ui.Header(node.Path), ui.RecordID(node.ID))
	fmt.Printf("created: %s\n", ui.FormatDate(node.CreatedAt))
	if len(node.Children) > 0 {
		names := make([]string, 0, len(node.Children))
		for _, c := range node.Children {
			names = append(names, c.Name)
		}
		fmt.Printf("subprojects: %s\n", strings.Join(names, ", "))
	}
	if len(recent) == 0 {
		fmt.Println("\nNo records yet.")
		return nil
	}
	fmt.Println()
	tbl := ui.NewTable(3).Align(2, ui.AlignRight)
	for _, r := range recent {
		tbl.AddRow(ui.RecordID(r.ID), recordSpan(r), ui.FormatDuration(r.Duration(now)))
	}
	fmt.Print(tbl.String())
	return nil
}

func parentPath(path string) string {
	segments := store.SplitPath(path)
	if len(segments) < 2 {
		return path
	}
	return strings.Join(segments[:len(segments)-1], store.PathSeparator)
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}
