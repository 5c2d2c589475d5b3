package timeexpr

import (
	"fmt"
	"strings"
	"time"
)

// Period is a half-open [From, To) date-time range used to filter records.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.To.Sub(p.From)
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.From.IsZero() && p.To.IsZero()
}

// BucketWidth selects how a period is subdivided for reporting.
type BucketWidth int

const (
	BucketNone BucketWidth = iota
	BucketDay
	BucketWeek
	BucketMonth
)

// ParseBucketWidth parses a bucket width name.
func ParseBucketWidth(s string) (BucketWidth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return BucketNone, nil
	case "day":
		return BucketDay, nil
	case "week":
		return BucketWeek, nil
	case "month":
		return BucketMonth, nil
	default:
		return BucketNone, fmt.Errorf("invalid bucket width %q (use day, week or month)", s)
	}
}

// String returns the canonical name of the bucket width.
func (w BucketWidth) String() string {
	switch w {
	case BucketDay:
		return "day"
	case BucketWeek:
		return "week"
	case BucketMonth:
		return "month"
	default:
		return "none"
	}
}

// Options control how relative periods are resolved.
type Options struct {
	// WeekStart is the first day of the week. Taken literally: the zero
	// value is Sunday. Callers wanting a Monday default should use
	// DefaultOptions as their base.
	WeekStart time.Weekday

	// WeekDays is the length of "thisweek"/"lastweek" in days (default 7).
	// A working-week configuration of 5 reproduces Monday-to-Friday periods.
	WeekDays int
}

// DefaultOptions returns the standard period options: Monday-based
// seven-day weeks.
func DefaultOptions() Options {
	return Options{WeekStart: time.Monday}
}

func (o Options) weekDays() int {
	if o.WeekDays <= 0 || o.WeekDays > 7 {
		return 7
	}
	return o.WeekDays
}

// IsPeriodKeyword reports whether kw is a supported period keyword.
func IsPeriodKeyword(kw string) bool {
	switch strings.ToLower(strings.TrimSpace(kw)) {
	case "today", "yesterday", "thisweek", "lastweek", "thismonth", "lastmonth":
		return true
	}
	return false
}

// ResolveKeyword resolves a period keyword relative to now.
func ResolveKeyword(kw string, now time.Time, opts Options) (Period, bool) {
	today := startOfDay(now)

	switch strings.ToLower(strings.TrimSpace(kw)) {
	case "today":
		return Period{From: today, To: today.AddDate(0, 0, 1)}, true
	case "yesterday":
		return Period{From: today.AddDate(0, 0, -1), To: today}, true
	case "thisweek":
		start := startOfWeek(today, opts.WeekStart)
		return Period{From: start, To: start.AddDate(0, 0, opts.weekDays())}, true
	case "lastweek":
		start := startOfWeek(today, opts.WeekStart).AddDate(0, 0, -7)
		return Period{From: start, To: start.AddDate(0, 0, opts.weekDays())}, true
	case "thismonth":
		start := startOfMonth(today)
		return Period{From: start, To: start.AddDate(0, 1, 0)}, true
	case "lastmonth":
		start := startOfMonth(today).AddDate(0, -1, 0)
		return Period{From: start, To: start.AddDate(0, 1, 0)}, true
	}
	return Period{}, false
}

// ParsePeriodArgs resolves the period grammar used by show and stats:
//
//	<keyword>
//	from <offset|time> [for <duration>]
//
// An empty argument list resolves the fallback keyword.
func ParsePeriodArgs(args []string, fallback string, now time.Time, opts Options) (Period, error) {
	if len(args) == 0 {
		if fallback == "" {
			fallback = "thisweek"
		}
		p, ok := ResolveKeyword(fallback, now, opts)
		if !ok {
			return Period{}, fmt.Errorf("invalid default period %q", fallback)
		}
		return p, nil
	}

	if len(args) == 1 {
		if p, ok := ResolveKeyword(args[0], now, opts); ok {
			return p, nil
		}
	}

	var p Period
	rest := args
	for len(rest) > 0 {
		switch strings.ToLower(rest[0]) {
		case "from":
			if len(rest) < 2 {
				return Period{}, fmt.Errorf("'from' needs a value (e.g. from -1w)")
			}
			from, err := resolveFrom(rest[1], now)
			if err != nil {
				return Period{}, err
			}
			p.From = from
			rest = rest[2:]
		case "for":
			if len(rest) < 2 {
				return Period{}, fmt.Errorf("'for' needs a duration (e.g. for 2d)")
			}
			d, err := ParseDuration(rest[1])
			if err != nil {
				return Period{}, err
			}
			if p.From.IsZero() {
				return Period{}, fmt.Errorf("'for' needs a starting point; combine it with 'from' or a keyword")
			}
			p.To = p.From.Add(d)
			rest = rest[2:]
		default:
			return Period{}, fmt.Errorf("invalid period argument %q", rest[0])
		}
	}

	if p.From.IsZero() {
		return Period{}, fmt.Errorf("period needs a starting point")
	}
	if p.To.IsZero() {
		// Open-ended "from X": run through the end of today.
		p.To = startOfDay(now).AddDate(0, 0, 1)
	}
	if !p.From.Before(p.To) {
		return Period{}, fmt.Errorf("period is empty (%s to %s)", p.From.Format(time.DateTime), p.To.Format(time.DateTime))
	}
	return p, nil
}

func resolveFrom(arg string, now time.Time) (time.Time, error) {
	if IsOffset(arg) {
		off, err := ParseOffset(arg)
		if err != nil {
			return time.Time{}, err
		}
		return startOfDay(now).Add(off), nil
	}
	return ParseInstant(arg, now)
}

// Buckets splits the period into sub-periods of the given width. The first
// and last bucket are clipped to the period edges. Week buckets align on
// opts.WeekStart, month buckets on calendar months.
func (p Period) Buckets(w BucketWidth, opts Options) []Period {
	if w == BucketNone || !p.From.Before(p.To) {
		return []Period{p}
	}

	var buckets []Period
	cur := p.From
	for cur.Before(p.To) {
		next := nextBoundary(cur, w, opts)
		if next.After(p.To) {
			next = p.To
		}
		buckets = append(buckets, Period{From: cur, To: next})
		cur = next
	}
	return buckets
}

func nextBoundary(t time.Time, w BucketWidth, opts Options) time.Time {
	switch w {
	case BucketDay:
		return startOfDay(t).AddDate(0, 0, 1)
	case BucketWeek:
		start := startOfWeek(startOfDay(t), opts.WeekStart)
		next := start.AddDate(0, 0, 7)
		if !next.After(t) {
			next = next.AddDate(0, 0, 7)
		}
		return next
	case BucketMonth:
		return startOfMonth(t).AddDate(0, 1, 0)
	default:
		return t
	}
}

// Label returns a short display label for a bucket of the given width.
func (p Period) Label(w BucketWidth) string {
	switch w {
	case BucketDay:
		return p.From.Format("Mon 2006-01-02")
	case BucketWeek:
		return "wk " + p.From.Format("2006-01-02")
	case BucketMonth:
		return p.From.Format("Jan 2006")
	default:
		return p.From.Format("2006-01-02") + " to " + p.To.Format("2006-01-02")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	diff := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
