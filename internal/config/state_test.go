package config

import (
	"path/filepath"
	"testing"
)

func TestResolveStatePath(t *testing.T) {
	configPath := "/tmp/worktime/config.toml"

	t.Run("explicit state path wins", func(t *testing.T) {
		got := ResolveStatePath("/tmp/custom/state.toml", configPath, &Config{
			StateFile: "state-from-config.toml",
		})
		if got != "/tmp/custom/state.toml" {
			t.Fatalf("expected explicit state path, got %q", got)
		}
	})

	t.Run("config state_file absolute", func(t *testing.T) {
		got := ResolveStatePath("", configPath, &Config{
			StateFile: "/var/tmp/worktime-state.toml",
		})
		if got != "/var/tmp/worktime-state.toml" {
			t.Fatalf("expected absolute state path, got %q", got)
		}
	})

	t.Run("config state_file relative to config dir", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/worktime/config.toml", &Config{
			StateFile: "runtime/state.toml",
		})
		want := "/Users/me/.config/worktime/runtime/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("fallback sibling state.toml", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/worktime/config.toml", &Config{})
		want := "/Users/me/.config/worktime/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestLoadStateMissingReturnsDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.toml")

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, state.Version)
	}
	if state.ActiveTimesheet != "" {
		t.Fatalf("expected empty active timesheet, got %q", state.ActiveTimesheet)
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.toml")

	err := SaveState(path, &State{
		ActiveTimesheet: "work",
	})
	if err != nil {
		t.Fatalf("save state: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, loaded.Version)
	}
	if loaded.ActiveTimesheet != "work" {
		t.Fatalf("expected active timesheet 'work', got %q", loaded.ActiveTimesheet)
	}
}

func TestSaveStateTrimsWhitespace(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.toml")

	if err := SaveState(path, &State{ActiveTimesheet: "  work  "}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded.ActiveTimesheet != "work" {
		t.Fatalf("expected trimmed name, got %q", loaded.ActiveTimesheet)
	}
}
