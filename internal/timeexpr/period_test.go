package timeexpr

import (
	"testing"
	"time"
)

// Wednesday 2024-04-17.
var periodNow = time.Date(2024, 4, 17, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveKeyword(t *testing.T) {
	tests := []struct {
		kw   string
		opts Options
		from time.Time
		to   time.Time
	}{
		{"today", DefaultOptions(), day(2024, 4, 17), day(2024, 4, 18)},
		{"yesterday", DefaultOptions(), day(2024, 4, 16), day(2024, 4, 17)},
		{"thisweek", DefaultOptions(), day(2024, 4, 15), day(2024, 4, 22)},
		{"thisweek", Options{WeekStart: time.Monday, WeekDays: 5}, day(2024, 4, 15), day(2024, 4, 20)},
		{"thisweek", Options{WeekStart: time.Wednesday}, day(2024, 4, 17), day(2024, 4, 24)},
		{"thisweek", Options{WeekStart: time.Sunday}, day(2024, 4, 14), day(2024, 4, 21)},
		{"lastweek", DefaultOptions(), day(2024, 4, 8), day(2024, 4, 15)},
		{"thismonth", DefaultOptions(), day(2024, 4, 1), day(2024, 5, 1)},
		{"lastmonth", DefaultOptions(), day(2024, 3, 1), day(2024, 4, 1)},
	}
	for _, tt := range tests {
		p, ok := ResolveKeyword(tt.kw, periodNow, tt.opts)
		if !ok {
			t.Fatalf("ResolveKeyword(%q): not resolved", tt.kw)
		}
		if !p.From.Equal(tt.from) || !p.To.Equal(tt.to) {
			t.Errorf("ResolveKeyword(%q) = [%v, %v), want [%v, %v)", tt.kw, p.From, p.To, tt.from, tt.to)
		}
	}

	if _, ok := ResolveKeyword("nextweek", periodNow, Options{}); ok {
		t.Errorf("ResolveKeyword(nextweek): expected not resolved")
	}
}

func TestParsePeriodArgsKeyword(t *testing.T) {
	p, err := ParsePeriodArgs([]string{"yesterday"}, "", periodNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(day(2024, 4, 16)) || !p.To.Equal(day(2024, 4, 17)) {
		t.Errorf("got [%v, %v)", p.From, p.To)
	}
}

func TestParsePeriodArgsDefault(t *testing.T) {
	p, err := ParsePeriodArgs(nil, "", periodNow, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Defaults to thisweek.
	if !p.From.Equal(day(2024, 4, 15)) {
		t.Errorf("default period starts %v, want Monday", p.From)
	}

	p, err = ParsePeriodArgs(nil, "today", periodNow, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(day(2024, 4, 17)) {
		t.Errorf("configured default period starts %v, want today", p.From)
	}
}

func TestParsePeriodArgsFromFor(t *testing.T) {
	p, err := ParsePeriodArgs([]string{"from", "-1w", "for", "2d"}, "", periodNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(day(2024, 4, 10)) || !p.To.Equal(day(2024, 4, 12)) {
		t.Errorf("got [%v, %v)", p.From, p.To)
	}

	// Open-ended "from": runs through the end of today.
	p, err = ParsePeriodArgs([]string{"from", "-3d"}, "", periodNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(day(2024, 4, 14)) || !p.To.Equal(day(2024, 4, 18)) {
		t.Errorf("got [%v, %v)", p.From, p.To)
	}

	// Absolute from.
	p, err = ParsePeriodArgs([]string{"from", "2024-04-01", "for", "1w"}, "", periodNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(day(2024, 4, 1)) || !p.To.Equal(day(2024, 4, 8)) {
		t.Errorf("got [%v, %v)", p.From, p.To)
	}
}

func TestParsePeriodArgsInvalid(t *testing.T) {
	cases := [][]string{
		{"from"},
		{"for", "2d"},
		{"banana"},
		{"from", "banana"},
		{"from", "-1w", "for"},
	}
	for _, args := range cases {
		if _, err := ParsePeriodArgs(args, "", periodNow, Options{}); err == nil {
			t.Errorf("ParsePeriodArgs(%v): expected error", args)
		}
	}
}

func TestBucketsDay(t *testing.T) {
	p := Period{From: day(2024, 4, 15), To: day(2024, 4, 18)}
	buckets := p.Buckets(BucketDay, Options{})
	if len(buckets) != 3 {
		t.Fatalf("expected 3 day buckets, got %d", len(buckets))
	}
	if !buckets[0].From.Equal(day(2024, 4, 15)) || !buckets[2].To.Equal(day(2024, 4, 18)) {
		t.Errorf("bucket edges wrong: first %v, last %v", buckets[0].From, buckets[2].To)
	}
}

func TestBucketsWeekClipped(t *testing.T) {
	// Wednesday to Wednesday: first and last buckets are partial weeks.
	p := Period{From: day(2024, 4, 10), To: day(2024, 4, 24)}
	buckets := p.Buckets(BucketWeek, DefaultOptions())
	if len(buckets) != 3 {
		t.Fatalf("expected 3 week buckets, got %d", len(buckets))
	}
	if !buckets[0].To.Equal(day(2024, 4, 15)) {
		t.Errorf("first bucket ends %v, want Monday 04-15", buckets[0].To)
	}
	if !buckets[1].To.Equal(day(2024, 4, 22)) {
		t.Errorf("second bucket ends %v, want Monday 04-22", buckets[1].To)
	}
	if !buckets[2].To.Equal(day(2024, 4, 24)) {
		t.Errorf("last bucket ends %v, want period end", buckets[2].To)
	}
}

func TestBucketsMonth(t *testing.T) {
	p := Period{From: day(2024, 3, 20), To: day(2024, 5, 10)}
	buckets := p.Buckets(BucketMonth, Options{})
	if len(buckets) != 3 {
		t.Fatalf("expected 3 month buckets, got %d", len(buckets))
	}
	if !buckets[1].From.Equal(day(2024, 4, 1)) || !buckets[1].To.Equal(day(2024, 5, 1)) {
		t.Errorf("middle bucket [%v, %v)", buckets[1].From, buckets[1].To)
	}
}

func TestBucketsNone(t *testing.T) {
	p := Period{From: day(2024, 4, 15), To: day(2024, 4, 18)}
	buckets := p.Buckets(BucketNone, Options{})
	if len(buckets) != 1 || buckets[0] != p {
		t.Errorf("BucketNone should return the period itself, got %v", buckets)
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{From: day(2024, 4, 15), To: day(2024, 4, 16)}
	if !p.Contains(day(2024, 4, 15)) {
		t.Errorf("period should contain its start")
	}
	if p.Contains(day(2024, 4, 16)) {
		t.Errorf("period should not contain its end (half-open)")
	}
}
