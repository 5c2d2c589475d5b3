package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tnorth/worktime/internal/config"
	"github.com/tnorth/worktime/internal/store"
)

var (
	initName string
	initUse  bool
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new timesheet",
	Long: `Creates a new timesheet at the specified path.

Creates:
  - worktime.yaml  (timesheet configuration)
  - worktime.db    (record database)

With --name the timesheet is also registered in config.toml; add --use to
make it the active timesheet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		fmt.Printf("Initializing timesheet at: %s\n", absPath)

		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("failed to create timesheet directory: %w", err)
		}

		createdConfig, err := config.CreateDefaultSheetConfig(absPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", config.SheetFileName, err)
		}

		// Opening the store creates the database and schema.
		dbPath := filepath.Join(absPath, store.DBFileName)
		_, statErr := os.Stat(dbPath)
		dbExisted := statErr == nil
		s, err := store.Open(absPath)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		s.Close()

		if createdConfig {
			fmt.Printf("✓ Created %s (timesheet configuration)\n", config.SheetFileName)
		} else {
			fmt.Printf("• %s already exists (kept)\n", config.SheetFileName)
		}
		if dbExisted {
			fmt.Printf("• %s already exists (kept)\n", store.DBFileName)
		} else {
			fmt.Printf("✓ Created %s (record database)\n", store.DBFileName)
		}

		if initName != "" {
			name := strings.TrimSpace(initName)
			ctx, err := loadSheetContext()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if ctx.cfg.Timesheets == nil {
				ctx.cfg.Timesheets = make(map[string]string)
			}
			_, existed := ctx.cfg.Timesheets[name]
			ctx.cfg.Timesheets[name] = absPath
			if ctx.cfg.DefaultTimesheet == "" {
				ctx.cfg.DefaultTimesheet = name
			}
			if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			if existed {
				fmt.Printf("✓ Updated timesheet '%s' in %s\n", name, ctx.configPath)
			} else {
				fmt.Printf("✓ Registered timesheet '%s' in %s\n", name, ctx.configPath)
			}

			if initUse {
				ctx.state.ActiveTimesheet = name
				if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
					return fmt.Errorf("failed to write state: %w", err)
				}
				fmt.Printf("✓ Active timesheet set to '%s'\n", name)
			}
		}

		if createdConfig {
			fmt.Println("\nTimesheet initialized! Create a project with 'wt project add <name>'.")
		} else {
			fmt.Println("\nExisting timesheet detected. Configuration preserved.")
		}

		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Register the timesheet under this name in config.toml")
	initCmd.Flags().BoolVar(&initUse, "use", false, "Also set the timesheet active (requires --name)")
	rootCmd.AddCommand(initCmd)
}
