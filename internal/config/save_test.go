package config

import (
	"path/filepath"
	"testing"
)

func TestSaveToRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	cfg := &Config{
		DefaultTimesheet: "work",
		Timesheets: map[string]string{
			"work":     "/tmp/work-timesheet",
			"personal": "/tmp/personal-timesheet",
		},
		UI: UIConfig{Accent: "#A78BFA"},
	}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if loaded.DefaultTimesheet != "work" {
		t.Fatalf("expected default_timesheet=work, got %q", loaded.DefaultTimesheet)
	}
	if loaded.Timesheets["personal"] != "/tmp/personal-timesheet" {
		t.Fatalf("timesheets = %v", loaded.Timesheets)
	}
	if loaded.UI.Accent != "#A78BFA" {
		t.Fatalf("accent = %q", loaded.UI.Accent)
	}
}

func TestSaveToOmitsEmptyFields(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	if err := SaveTo(path, &Config{}); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if loaded.DefaultTimesheet != "" || len(loaded.Timesheets) != 0 || loaded.UI.Accent != "" {
		t.Fatalf("expected empty config, got %#v", loaded)
	}
}
