package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestGlobalFlagsRegistered(t *testing.T) {
	want := map[string]bool{
		"timesheet":      false,
		"timesheet-path": false,
		"config":         false,
		"state":          false,
		"json":           false,
	}

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	})

	for name, seen := range want {
		if !seen {
			t.Errorf("global flag --%s not registered", name)
		}
	}

	if f := rootCmd.PersistentFlags().ShorthandLookup("t"); f == nil || f.Name != "timesheet" {
		t.Errorf("-t should be shorthand for --timesheet")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"init", "work", "show", "stats", "edit", "rm",
		"project", "timesheet", "version",
	}

	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}

	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}
