package ui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{30 * time.Minute, "0:30"},
		{time.Hour + 5*time.Minute, "1:05"},
		{26*time.Hour + 45*time.Minute, "26:45"},
		{90 * time.Second, "0:02"}, // rounds to nearest minute
		{-time.Hour, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	full := Bar(time.Hour, time.Hour, 10)
	if !strings.Contains(full, strings.Repeat(barFull, 10)) {
		t.Errorf("full bar should fill the width: %q", full)
	}

	half := Bar(30*time.Minute, time.Hour, 10)
	if !strings.Contains(half, strings.Repeat(barFull, 5)) {
		t.Errorf("half bar should be 5 cells: %q", half)
	}

	// Tiny but non-zero durations still render a sliver.
	sliver := Bar(time.Second, 100*time.Hour, 10)
	if sliver == "" {
		t.Errorf("non-zero duration should render a sliver")
	}

	if Bar(0, time.Hour, 10) != "" {
		t.Errorf("zero duration should render nothing")
	}
	if Bar(time.Hour, 0, 10) != "" {
		t.Errorf("zero max should render nothing")
	}
}

func TestTreePrefix(t *testing.T) {
	if got := TreePrefix(0); got != "" {
		t.Errorf("depth 0 prefix = %q", got)
	}
	if got := TreePrefix(1); got != "└─ " {
		t.Errorf("depth 1 prefix = %q", got)
	}
	if got := TreePrefix(3); got != "    └─ " {
		t.Errorf("depth 3 prefix = %q", got)
	}
}

func TestTableAlignment(t *testing.T) {
	tbl := NewTable(2).Align(1, AlignRight)
	tbl.AddRow("Client", "2:30")
	tbl.AddRow("Client.Backend", "12:00")

	lines := strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], " 2:30") {
		t.Errorf("right-aligned column should pad short cells: %q", lines[0])
	}
	if len(lines[0]) != len(lines[1]) {
		t.Errorf("rows should have equal width: %q vs %q", lines[0], lines[1])
	}
}

func TestStatusMessages(t *testing.T) {
	if got := Successf("closed %d records", 2); got != "✓ closed 2 records" {
		t.Errorf("Successf = %q", got)
	}
	if got := Count(1, "record", "records"); got != "(1 record)" {
		t.Errorf("Count = %q", got)
	}
	if got := Count(3, "record", "records"); got != "(3 records)" {
		t.Errorf("Count = %q", got)
	}
}
