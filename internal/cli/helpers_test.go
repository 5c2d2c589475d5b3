package cli

import (
	"testing"
	"time"

	"github.com/tnorth/worktime/internal/store"
)

func TestParseRecordIDs(t *testing.T) {
	tests := []struct {
		args    []string
		want    []int64
		wantErr bool
	}{
		{args: []string{"12"}, want: []int64{12}},
		{args: []string{"#7", "3"}, want: []int64{7, 3}},
		{args: []string{" 5 "}, want: []int64{5}},
		{args: []string{"abc"}, wantErr: true},
		{args: []string{"#"}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseRecordIDs(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseRecordIDs(%v) expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRecordIDs(%v) unexpected error: %v", tt.args, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseRecordIDs(%v) = %v, want %v", tt.args, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseRecordIDs(%v) = %v, want %v", tt.args, got, tt.want)
				break
			}
		}
	}
}

func TestRecordSpan(t *testing.T) {
	start := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	sameDay := time.Date(2024, 4, 15, 17, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 4, 16, 1, 0, 0, 0, time.UTC)

	open := store.Record{Start: start}
	if got := recordSpan(open); got != "2024-04-15 09:00 - ..." {
		t.Errorf("open span = %q", got)
	}

	closed := store.Record{Start: start, End: &sameDay}
	if got := recordSpan(closed); got != "2024-04-15 09:00 - 17:30" {
		t.Errorf("same-day span = %q", got)
	}

	overnight := store.Record{Start: start, End: &nextDay}
	if got := recordSpan(overnight); got != "2024-04-15 09:00 - 2024-04-16 01:00" {
		t.Errorf("overnight span = %q", got)
	}
}

func TestFilterRecordsByProject(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	client, err := s.CreateProject("client")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	backend, err := s.CreateProject("client.backend")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	personal, err := s.CreateProject("personal")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	start := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	records := []store.Record{
		{ProjectID: client.ID, Start: start},
		{ProjectID: backend.ID, Start: start.Add(time.Hour)},
		{ProjectID: personal.ID, Start: start.Add(2 * time.Hour)},
	}

	got, err := filterRecordsByProject(s, records, "client")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records under client, got %d", len(got))
	}
	for _, r := range got {
		if r.ProjectID == personal.ID {
			t.Fatal("personal record leaked into client filter")
		}
	}

	if _, err := filterRecordsByProject(s, records, "nonexistent"); err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestOverlapsExcluding(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	project, err := s.CreateProject("client")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	start := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	rec, err := s.StartRecord(project.ID, start, &end, "")
	if err != nil {
		t.Fatalf("failed to start record: %v", err)
	}

	// A record never conflicts with itself.
	mid := start.Add(time.Hour)
	overlaps, err := overlapsExcluding(s, rec.ID, mid, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overlaps) != 0 {
		t.Fatalf("expected no overlaps excluding self, got %d", len(overlaps))
	}

	// Another record moved into the occupied span does.
	other, err := s.StartRecord(project.ID, end.Add(time.Hour), nil, "")
	if err != nil {
		t.Fatalf("failed to start record: %v", err)
	}
	overlaps, err = overlapsExcluding(s, other.ID, mid, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overlaps) != 1 || overlaps[0].ID != rec.ID {
		t.Fatalf("expected overlap with #%d, got %+v", rec.ID, overlaps)
	}
}
