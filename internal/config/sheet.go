package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tnorth/worktime/internal/atomicfile"
	"github.com/tnorth/worktime/internal/timeexpr"
)

// SheetFileName is the per-timesheet config file name.
const SheetFileName = "worktime.yaml"

// SheetConfig represents timesheet-level configuration from worktime.yaml.
type SheetConfig struct {
	// WeekStart is the first day of the working week ("monday", "sunday", ...).
	// Defaults to monday.
	WeekStart string `yaml:"week_start,omitempty"`

	// WeekDays is the number of days a week-period spans, counted from
	// WeekStart. 5 limits thisweek/lastweek to the working days.
	// Defaults to 7.
	WeekDays int `yaml:"week_days,omitempty"`

	// DefaultPeriod is the period used when show/stats get no period
	// arguments ("today", "thisweek", ...). Defaults to thisweek.
	DefaultPeriod string `yaml:"default_period,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// PeriodOptions converts the sheet config into period resolution options.
func (sc *SheetConfig) PeriodOptions() (timeexpr.Options, error) {
	opts := timeexpr.DefaultOptions()
	opts.WeekDays = sc.WeekDays

	if ws := strings.ToLower(strings.TrimSpace(sc.WeekStart)); ws != "" {
		day, ok := weekdayNames[ws]
		if !ok {
			return opts, fmt.Errorf("invalid week_start %q", sc.WeekStart)
		}
		opts.WeekStart = day
	}

	if sc.WeekDays < 0 || sc.WeekDays > 7 {
		return opts, fmt.Errorf("week_days must be between 0 and 7, got %d", sc.WeekDays)
	}

	return opts, nil
}

// GetDefaultPeriod returns the configured default period keyword.
func (sc *SheetConfig) GetDefaultPeriod() string {
	if p := strings.TrimSpace(sc.DefaultPeriod); p != "" {
		return p
	}
	return "thisweek"
}

// Validate checks the sheet config for invalid values.
func (sc *SheetConfig) Validate() error {
	if _, err := sc.PeriodOptions(); err != nil {
		return err
	}
	if p := strings.TrimSpace(sc.DefaultPeriod); p != "" && !timeexpr.IsPeriodKeyword(p) {
		return fmt.Errorf("invalid default_period %q", sc.DefaultPeriod)
	}
	return nil
}

// DefaultSheetConfig returns the default timesheet configuration.
func DefaultSheetConfig() *SheetConfig {
	return &SheetConfig{}
}

// LoadSheetConfig loads timesheet configuration from worktime.yaml.
// Returns default config if the file doesn't exist.
func LoadSheetConfig(sheetPath string) (*SheetConfig, error) {
	configPath := filepath.Join(sheetPath, SheetFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultSheetConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read timesheet config %s: %w", configPath, err)
	}

	var config SheetConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse timesheet config %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timesheet config %s: %w", configPath, err)
	}

	return &config, nil
}

// CreateDefaultSheetConfig creates a default worktime.yaml in the timesheet
// directory. Returns true if a new file was created, false if one existed.
func CreateDefaultSheetConfig(sheetPath string) (bool, error) {
	configPath := filepath.Join(sheetPath, SheetFileName)

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# worktime timesheet configuration

# First day of the working week (default: monday)
# week_start: monday

# Number of days a week-period spans, counted from week_start.
# 5 limits thisweek/lastweek to the working days. (default: 7)
# week_days: 5

# Period used when show/stats get no period arguments (default: thisweek)
# default_period: today
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write timesheet config: %w", err)
	}

	return true, nil
}

// SaveSheetConfig writes the timesheet config back to worktime.yaml.
func SaveSheetConfig(sheetPath string, cfg *SheetConfig) error {
	configPath := filepath.Join(sheetPath, SheetFileName)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", SheetFileName, err)
	}

	return nil
}
