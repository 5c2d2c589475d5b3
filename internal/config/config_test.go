package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigGetTimesheetPath(t *testing.T) {
	t.Run("named timesheet", func(t *testing.T) {
		cfg := &Config{
			Timesheets: map[string]string{
				"work":     "/path/to/work",
				"personal": "/path/to/personal",
			},
		}

		path, err := cfg.GetTimesheetPath("work")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/work" {
			t.Errorf("expected '/path/to/work', got %q", path)
		}
	})

	t.Run("default timesheet", func(t *testing.T) {
		cfg := &Config{
			DefaultTimesheet: "personal",
			Timesheets: map[string]string{
				"work":     "/path/to/work",
				"personal": "/path/to/personal",
			},
		}

		path, err := cfg.GetTimesheetPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/personal" {
			t.Errorf("expected '/path/to/personal', got %q", path)
		}
	})

	t.Run("timesheet not found", func(t *testing.T) {
		cfg := &Config{
			Timesheets: map[string]string{
				"work": "/path/to/work",
			},
		}

		if _, err := cfg.GetTimesheetPath("nonexistent"); err == nil {
			t.Errorf("expected error for unknown timesheet")
		}
	})

	t.Run("no default configured", func(t *testing.T) {
		cfg := &Config{}
		if _, err := cfg.GetTimesheetPath(""); err == nil {
			t.Errorf("expected error when no default is configured")
		}
	})
}

func TestLoadFrom(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	content := `default_timesheet = "work"

[timesheets]
work = "/data/work"
personal = "/data/personal"

[ui]
accent = "#FF8800"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DefaultTimesheet != "work" {
		t.Errorf("default_timesheet = %q", cfg.DefaultTimesheet)
	}
	if len(cfg.Timesheets) != 2 || cfg.Timesheets["personal"] != "/data/personal" {
		t.Errorf("timesheets = %v", cfg.Timesheets)
	}
	if cfg.UI.Accent != "#FF8800" {
		t.Errorf("accent = %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestListTimesheets(t *testing.T) {
	cfg := &Config{
		Timesheets: map[string]string{
			"work": "/data/work",
		},
	}
	sheets := cfg.ListTimesheets()
	if len(sheets) != 1 || sheets["work"] != "/data/work" {
		t.Errorf("sheets = %v", sheets)
	}
}
