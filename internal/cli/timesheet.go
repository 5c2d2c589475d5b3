package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/config"
)

type sheetContext struct {
	cfg        *config.Config
	state      *config.State
	configPath string
	statePath  string
}

type sheetRow struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}

type currentSheetInfo struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Source        string `json:"source"`
	ActiveMissing bool   `json:"active_missing"`
}

var (
	sheetAddReplace         bool
	sheetAddPin             bool
	sheetRemoveClearDefault bool
	sheetRemoveClearActive  bool
)

func loadSheetContext() (*sheetContext, error) {
	loadedCfg, resolvedConfigPath, err := loadGlobalConfigWithPath()
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	resolvedStatePath := config.ResolveStatePath(statePathFlag, resolvedConfigPath, loadedCfg)
	state, err := config.LoadState(resolvedStatePath)
	if err != nil {
		return nil, err
	}

	return &sheetContext{
		cfg:        loadedCfg,
		state:      state,
		configPath: resolvedConfigPath,
		statePath:  resolvedStatePath,
	}, nil
}

func sheetRows(cfg *config.Config, state *config.State) ([]sheetRow, string, string, bool) {
	sheets := cfg.ListTimesheets()
	defaultName := strings.TrimSpace(cfg.DefaultTimesheet)
	activeName := ""
	if state != nil {
		activeName = strings.TrimSpace(state.ActiveTimesheet)
	}

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]sheetRow, 0, len(names))
	activeMissing := activeName != ""
	for _, name := range names {
		rows = append(rows, sheetRow{
			Name:      name,
			Path:      sheets[name],
			IsDefault: name == defaultName,
			IsActive:  name == activeName,
		})
		if name == activeName {
			activeMissing = false
		}
	}

	return rows, defaultName, activeName, activeMissing
}

func resolveCurrentSheet(cfg *config.Config, state *config.State) (*currentSheetInfo, error) {
	activeName := ""
	if state != nil {
		activeName = strings.TrimSpace(state.ActiveTimesheet)
	}

	if activeName != "" {
		path, err := cfg.GetTimesheetPath(activeName)
		if err == nil {
			return &currentSheetInfo{
				Name:   activeName,
				Path:   path,
				Source: "active_timesheet",
			}, nil
		}
	}

	defaultPath, err := cfg.GetTimesheetPath("")
	if err != nil {
		if activeName != "" {
			return nil, fmt.Errorf("active timesheet '%s' not found in config and no default timesheet configured", activeName)
		}
		return nil, err
	}

	source := "default_timesheet"
	activeMissing := false
	if activeName != "" {
		source = "default_timesheet_fallback"
		activeMissing = true
	}

	return &currentSheetInfo{
		Name:          strings.TrimSpace(cfg.DefaultTimesheet),
		Path:          defaultPath,
		Source:        source,
		ActiveMissing: activeMissing,
	}, nil
}

func runSheetList(cmd *cobra.Command, args []string) error {
	ctx, err := loadSheetContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	rows, defaultName, activeName, activeMissing := sheetRows(ctx.cfg, ctx.state)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":       ctx.configPath,
			"state_path":        ctx.statePath,
			"default_timesheet": defaultName,
			"active_timesheet":  activeName,
			"active_missing":    activeMissing,
			"timesheets":        rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No timesheets configured.")
		fmt.Printf("Config: %s\n", ctx.configPath)
		fmt.Println()
		fmt.Println("Add timesheets to config.toml:")
		fmt.Println()
		fmt.Println("  default_timesheet = \"personal\"")
		fmt.Println()
		fmt.Println("  [timesheets]")
		fmt.Println("  personal = \"/path/to/timesheets/personal\"")
		return nil
	}

	for _, row := range rows {
		prefix := "  "
		if row.IsActive && row.IsDefault {
			prefix = ">*"
		} else if row.IsActive {
			prefix = "> "
		} else if row.IsDefault {
			prefix = " *"
		}
		fmt.Printf("%s %-12s -> %s\n", prefix, row.Name, row.Path)
	}

	fmt.Println()
	fmt.Println("> = active timesheet (state)")
	fmt.Println("* = default timesheet (config)")
	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("state:  %s\n", ctx.statePath)
	if activeMissing {
		fmt.Printf("warning: active timesheet '%s' in state is not configured\n", activeName)
	}

	return nil
}

var sheetCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Manage configured timesheets and active selection",
	Long: `Manage configured timesheets and active selection.

The active timesheet is stored in state.toml.
The default timesheet is stored in config.toml and used as fallback.`,
	Args: cobra.NoArgs,
	RunE: runSheetList,
}

var sheetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured timesheets",
	Args:  cobra.NoArgs,
	RunE:  runSheetList,
}

var sheetPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the resolved timesheet directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadSheetContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		// --timesheet-path and --timesheet bypass state resolution entirely.
		if sheetPathFlag != "" {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"path": sheetPathFlag, "source": "flag"}, nil)
				return nil
			}
			fmt.Println(sheetPathFlag)
			return nil
		}
		if sheetName != "" {
			path, err := ctx.cfg.GetTimesheetPath(sheetName)
			if err != nil {
				return handleError(ErrTimesheetNotFound, err, "Run 'wt timesheet list' to see configured timesheets")
			}
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"name": sheetName, "path": path, "source": "flag"}, nil)
				return nil
			}
			fmt.Println(path)
			return nil
		}

		current, err := resolveCurrentSheet(ctx.cfg, ctx.state)
		if err != nil {
			return handleError(ErrTimesheetNotSpecified, err, "Use 'wt timesheet use <name>' or set default_timesheet in config.toml")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":           current.Name,
				"path":           current.Path,
				"source":         current.Source,
				"active_missing": current.ActiveMissing,
				"config_path":    ctx.configPath,
				"state_path":     ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Println(current.Path)
		if current.ActiveMissing {
			fmt.Fprintf(os.Stderr, "warning: active timesheet '%s' is missing; using default\n", strings.TrimSpace(ctx.state.ActiveTimesheet))
		}
		return nil
	},
}

var sheetUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active timesheet in state.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadSheetContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetTimesheetPath(name)
		if err != nil {
			return handleError(ErrTimesheetNotFound, err, "Run 'wt timesheet list' to see configured timesheets")
		}

		ctx.state.ActiveTimesheet = name
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_timesheet": name,
				"path":             path,
				"state_path":       ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Printf("Active timesheet set to '%s' -> %s\n", name, path)
		fmt.Printf("state: %s\n", ctx.statePath)
		return nil
	},
}

var sheetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear active timesheet from state.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadSheetContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		prev := strings.TrimSpace(ctx.state.ActiveTimesheet)
		ctx.state.ActiveTimesheet = ""
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"cleared":    true,
				"previous":   prev,
				"state_path": ctx.statePath,
			}, nil)
			return nil
		}

		if prev == "" {
			fmt.Println("Active timesheet already clear.")
		} else {
			fmt.Printf("Cleared active timesheet '%s'.\n", prev)
		}
		fmt.Printf("state: %s\n", ctx.statePath)
		return nil
	},
}

var sheetPinCmd = &cobra.Command{
	Use:   "pin <name>",
	Short: "Set default_timesheet in config.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadSheetContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetTimesheetPath(name)
		if err != nil {
			return handleError(ErrTimesheetNotFound, err, "Run 'wt timesheet list' to see configured timesheets")
		}

		ctx.cfg.DefaultTimesheet = name
		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default_timesheet": name,
				"path":              path,
				"config_path":       ctx.configPath,
			}, nil)
			return nil
		}

		fmt.Printf("Default timesheet set to '%s' -> %s\n", name, path)
		fmt.Printf("config: %s\n", ctx.configPath)
		return nil
	},
}

var sheetAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a timesheet to config.toml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		rawPath := strings.TrimSpace(args[1])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "timesheet name is required", "")
		}
		if rawPath == "" {
			return handleErrorMsg(ErrMissingArgument, "timesheet path is required", "")
		}

		ctx, err := loadSheetContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		absPath, err := filepath.Abs(rawPath)
		if err != nil {
			return handleError(ErrInvalidInput, fmt.Errorf("failed to resolve timesheet path: %w", err), "")
		}

		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("timesheet path does not exist: %s", absPath), "Run 'wt init "+absPath+"' to create it first")
			}
			return handleError(ErrInvalidInput, err, "")
		}
		if !info.IsDir() {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("timesheet path must be a directory: %s", absPath), "")
		}

		if ctx.cfg.Timesheets == nil {
			ctx.cfg.Timesheets = make(map[string]string)
		}

		prevPath, existed := ctx.cfg.Timesheets[name]
		if existed && !sheetAddReplace {
			return handleErrorMsg(ErrDuplicateName, fmt.Sprintf("timesheet '%s' already exists", name), "Use --replace to update the path")
		}

		ctx.cfg.Timesheets[name] = absPath
		if sheetAddPin {
			ctx.cfg.DefaultTimesheet = name
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":              name,
				"path":              absPath,
				"config_path":       ctx.configPath,
				"replaced":          existed,
				"previous_path":     prevPath,
				"pinned":            sheetAddPin,
				"default_timesheet": ctx.cfg.DefaultTimesheet,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Updated timesheet '%s' -> %s\n", name, absPath)
		} else {
			fmt.Printf("Added timesheet '%s' -> %s\n", name, absPath)
		}
		if sheetAddPin {
			fmt.Printf("Default timesheet set to '%s'.\n", name)
		}
		fmt.Printf("config: %s\n", ctx.configPath)
		return nil
	},
}

var sheetRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a timesheet from config.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "timesheet name is required", "")
		}

		ctx, err := loadSheetContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		activeName := strings.TrimSpace(ctx.state.ActiveTimesheet)
		defaultName := strings.TrimSpace(ctx.cfg.DefaultTimesheet)
		removingActive := activeName != "" && name == activeName
		removingDefault := defaultName != "" && name == defaultName

		if removingDefault && !sheetRemoveClearDefault {
			return handleErrorMsg(ErrConfirmationRequired, fmt.Sprintf("timesheet '%s' is the current default timesheet", name), "Use --clear-default to clear default_timesheet as part of removal, or pin another timesheet first")
		}
		if removingActive && !sheetRemoveClearActive {
			return handleErrorMsg(ErrConfirmationRequired, fmt.Sprintf("timesheet '%s' is the current active timesheet", name), "Use --clear-active to clear active_timesheet as part of removal, or switch active timesheet first")
		}

		removedPath := ""
		if ctx.cfg.Timesheets != nil {
			if p, ok := ctx.cfg.Timesheets[name]; ok {
				removedPath = p
				delete(ctx.cfg.Timesheets, name)
			}
		}
		if removedPath == "" {
			return handleErrorMsg(ErrTimesheetNotFound, fmt.Sprintf("timesheet '%s' not found in config", name), "Run 'wt timesheet list' to see configured timesheets")
		}

		defaultCleared := false
		if removingDefault && sheetRemoveClearDefault {
			ctx.cfg.DefaultTimesheet = ""
			defaultCleared = true
		}

		activeCleared := false
		if removingActive && sheetRemoveClearActive {
			ctx.state.ActiveTimesheet = ""
			activeCleared = true
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if activeCleared {
			if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":            name,
				"removed_path":    removedPath,
				"default_cleared": defaultCleared,
				"active_cleared":  activeCleared,
				"config_path":     ctx.configPath,
				"state_path":      ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Printf("Removed timesheet '%s' (%s)\n", name, removedPath)
		if defaultCleared {
			fmt.Println("Cleared default timesheet.")
		}
		if activeCleared {
			fmt.Println("Cleared active timesheet.")
		}
		fmt.Printf("config: %s\n", ctx.configPath)
		if activeCleared {
			fmt.Printf("state:  %s\n", ctx.statePath)
		}
		return nil
	},
}

func init() {
	sheetCmd.AddCommand(sheetListCmd)
	sheetCmd.AddCommand(sheetPathCmd)
	sheetCmd.AddCommand(sheetUseCmd)
	sheetCmd.AddCommand(sheetPinCmd)
	sheetCmd.AddCommand(sheetClearCmd)
	sheetCmd.AddCommand(sheetAddCmd)
	sheetCmd.AddCommand(sheetRemoveCmd)

	sheetAddCmd.Flags().BoolVar(&sheetAddReplace, "replace", false, "Replace existing timesheet path if name already exists")
	sheetAddCmd.Flags().BoolVar(&sheetAddPin, "pin", false, "Also set this timesheet as default_timesheet")
	sheetRemoveCmd.Flags().BoolVar(&sheetRemoveClearDefault, "clear-default", false, "Clear default_timesheet when removing the default")
	sheetRemoveCmd.Flags().BoolVar(&sheetRemoveClearActive, "clear-active", false, "Clear active_timesheet when removing the active timesheet")

	rootCmd.AddCommand(sheetCmd)
}
