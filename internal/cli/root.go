// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/config"
	"github.com/tnorth/worktime/internal/ui"
)

var (
	// Global flags
	sheetName     string // Named timesheet from config
	sheetPathFlag string // Explicit path (rare)
	configPath    string
	statePathFlag string

	// Resolved values
	resolvedSheetPath  string
	resolvedConfigPath string
	resolvedStatePath  string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wt",
	Short: "worktime - a personal time tracker",
	Long: `worktime is a personal command-line time tracker.

Record which project you work on ('wt work on client.backend'), close the
record when you stop ('wt work done'), then query aggregated reports over
date ranges ('wt stats thisweek'). Projects form a dot-separated hierarchy
and a parent's total always includes its whole subtree.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip timesheet resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "timesheet", "completion", "help", "version":
			return nil
		}
		// Also skip for completion/timesheet subcommands.
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "timesheet") {
			return nil
		}

		// Load config
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
		ui.ConfigureTheme(cfg.UI.Accent)

		// Resolve timesheet path: explicit path > named timesheet > active state > default
		if sheetPathFlag != "" {
			resolvedSheetPath = sheetPathFlag
		} else if sheetName != "" {
			resolvedSheetPath, err = cfg.GetTimesheetPath(sheetName)
			if err != nil {
				return fmt.Errorf("timesheet '%s' not found\n\nRun 'wt timesheet list' to see configured timesheets", sheetName)
			}
		} else {
			state, stateErr := config.LoadState(resolvedStatePath)
			if stateErr != nil {
				return fmt.Errorf("failed to load state: %w", stateErr)
			}

			activeName := strings.TrimSpace(state.ActiveTimesheet)
			if activeName != "" {
				resolvedSheetPath, err = cfg.GetTimesheetPath(activeName)
				if err != nil {
					resolvedSheetPath, err = cfg.GetTimesheetPath("")
					if err != nil {
						return fmt.Errorf("active timesheet '%s' not found in config and no default timesheet configured\n\nRun 'wt timesheet use <name>' or set default_timesheet in config.toml", activeName)
					}
					if !jsonOutput {
						fmt.Fprintf(os.Stderr, "warning: active timesheet '%s' not found in config, falling back to default\n", activeName)
					}
				}
			} else {
				resolvedSheetPath, err = cfg.GetTimesheetPath("")
				if err != nil {
					return fmt.Errorf(`no timesheet specified

Either:
  1. Use --timesheet <name> (from config)
  2. Use --timesheet-path /path/to/timesheet
  3. Run 'wt timesheet use <name>' to set active_timesheet in state.toml
  4. Set default_timesheet in ~/.config/worktime/config.toml
  5. Run 'wt init /path/to/new/timesheet' to create one`)
				}
			}
		}

		// Verify timesheet directory exists
		if _, err := os.Stat(resolvedSheetPath); os.IsNotExist(err) {
			return fmt.Errorf("timesheet not found: %s\n\nRun 'wt init %s' to create it", resolvedSheetPath, resolvedSheetPath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&sheetName, "timesheet", "t", "", "Named timesheet from config")
	rootCmd.PersistentFlags().StringVar(&sheetPathFlag, "timesheet-path", "", "Explicit path to timesheet directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getSheetPath returns the resolved timesheet directory.
func getSheetPath() string {
	return resolvedSheetPath
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

// getStatePath returns the resolved global state path.
func getStatePath() string {
	return resolvedStatePath
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
