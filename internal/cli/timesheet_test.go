package cli

import (
	"testing"

	"github.com/tnorth/worktime/internal/config"
)

func TestSheetRows(t *testing.T) {
	cfg := &config.Config{
		DefaultTimesheet: "work",
		Timesheets: map[string]string{
			"work":     "/sheets/work",
			"personal": "/sheets/personal",
		},
	}
	state := &config.State{ActiveTimesheet: "personal"}

	rows, defaultName, activeName, activeMissing := sheetRows(cfg, state)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if defaultName != "work" {
		t.Fatalf("expected default_name=work, got %q", defaultName)
	}
	if activeName != "personal" {
		t.Fatalf("expected active_name=personal, got %q", activeName)
	}
	if activeMissing {
		t.Fatalf("expected active_missing=false")
	}
	// Sorted by name.
	if rows[0].Name != "personal" || rows[1].Name != "work" {
		t.Fatalf("expected rows sorted by name, got %q, %q", rows[0].Name, rows[1].Name)
	}
	if !rows[0].IsActive || rows[0].IsDefault {
		t.Fatalf("personal should be active and not default: %+v", rows[0])
	}
	if rows[1].IsActive || !rows[1].IsDefault {
		t.Fatalf("work should be default and not active: %+v", rows[1])
	}
}

func TestSheetRowsActiveMissing(t *testing.T) {
	cfg := &config.Config{
		Timesheets: map[string]string{"work": "/sheets/work"},
	}
	state := &config.State{ActiveTimesheet: "gone"}

	_, _, activeName, activeMissing := sheetRows(cfg, state)
	if activeName != "gone" {
		t.Fatalf("expected active_name=gone, got %q", activeName)
	}
	if !activeMissing {
		t.Fatalf("expected active_missing=true")
	}
}

func TestResolveCurrentSheet(t *testing.T) {
	t.Run("prefers active timesheet", func(t *testing.T) {
		cfg := &config.Config{
			DefaultTimesheet: "work",
			Timesheets: map[string]string{
				"work":     "/sheets/work",
				"personal": "/sheets/personal",
			},
		}
		state := &config.State{ActiveTimesheet: "personal"}

		got, err := resolveCurrentSheet(cfg, state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "personal" {
			t.Fatalf("expected name=personal, got %q", got.Name)
		}
		if got.Path != "/sheets/personal" {
			t.Fatalf("expected path=/sheets/personal, got %q", got.Path)
		}
		if got.Source != "active_timesheet" {
			t.Fatalf("expected source=active_timesheet, got %q", got.Source)
		}
	})

	t.Run("falls back to default when active missing", func(t *testing.T) {
		cfg := &config.Config{
			DefaultTimesheet: "work",
			Timesheets:       map[string]string{"work": "/sheets/work"},
		}
		state := &config.State{ActiveTimesheet: "gone"}

		got, err := resolveCurrentSheet(cfg, state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "work" {
			t.Fatalf("expected name=work, got %q", got.Name)
		}
		if got.Source != "default_timesheet_fallback" {
			t.Fatalf("expected fallback source, got %q", got.Source)
		}
		if !got.ActiveMissing {
			t.Fatalf("expected active_missing=true")
		}
	})

	t.Run("errors when nothing configured", func(t *testing.T) {
		if _, err := resolveCurrentSheet(&config.Config{}, &config.State{}); err == nil {
			t.Fatal("expected error for empty config")
		}
	})
}
