// Package timeexpr provides canonical parsing for the time expressions
// accepted on the command line.
//
// This package exists to avoid duplicating parsing logic across:
// - work/edit time arguments ("now", "8:30", "2024-04-15_9:10")
// - duration arguments ("2h10m30s", "1:20", "1w3d")
// - period offsets ("-1w", "+2d3h")
// - period keywords ("thisweek", "lastmonth")
package timeexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRegex  = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
	hmsRegex    = regexp.MustCompile(`^(?:(\d+(?:\.\d+)?)h)?(?:(\d+(?:\.\d+)?)m)?(?:(\d+(?:\.\d+)?)s)?$`)
	wdhRegex    = regexp.MustCompile(`^(?:(\d+(?:\.\d+)?)w)?(?:(\d+(?:\.\d+)?)d)?(?:(\d+(?:\.\d+)?)h)?$`)
	offsetRegex = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d+)?[wdh])+$`)
)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsOffset reports whether s looks like a signed week/day/hour offset
// such as "-1w", "+2d3h" or "1d".
func IsOffset(s string) bool {
	return offsetRegex.MatchString(strings.TrimSpace(s))
}

// ParseInstant parses an absolute point in time.
//
// Accepted forms:
//   - "now"
//   - "YYYY-MM-DD" (midnight, local time)
//   - "YYYY-MM-DD_HH:MM" and "YYYY-MM-DD_HH:MM:SS"
//   - "HH:MM", "H:MM", "HH:MM:SS" (today)
//   - "9h30m" (clock time today, hour/minute/second units)
//
// Bare clock times anchor to the day and location of now.
func ParseInstant(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid time: empty")
	}

	if s == "now" {
		return now, nil
	}

	if date, clock, ok := strings.Cut(s, "_"); ok {
		d, err := parseDatePart(date)
		if err != nil {
			return time.Time{}, err
		}
		h, m, sec, err := parseClockPart(clock)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(d.Year(), d.Month(), d.Day(), h, m, sec, 0, now.Location()), nil
	}

	if dateRegex.MatchString(s) {
		d, err := parseDatePart(s)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	if clockRegex.MatchString(s) {
		h, m, sec, err := parseClockPart(s)
		if err != nil {
			return time.Time{}, err
		}
		return atClock(now, h, m, sec), nil
	}

	// Unit form: "9h", "9h30m". Whole units only for a clock position.
	if hasAnyUnit(s, "h", "m", "s") {
		if mm := hmsRegex.FindStringSubmatch(s); mm != nil {
			h := int(groupFloat(mm[1]))
			m := int(groupFloat(mm[2]))
			sec := int(groupFloat(mm[3]))
			if h > 23 || m > 59 || sec > 59 {
				return time.Time{}, fmt.Errorf("invalid clock time: %q", s)
			}
			return atClock(now, h, m, sec), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time: %q", s)
}

// ParseDuration parses a length of time.
//
// Accepted forms:
//   - "2h10m30s" (any subset of h/m/s units, fractions allowed)
//   - "1:20" (hours:minutes; seconds are normally omitted) and "1:20:30"
//   - "1w3d5h" (week/day/hour units)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty")
	}

	// Week/day forms share the offset grammar.
	if hasAnyUnit(s, "w", "d") {
		d, err := ParseOffset(s)
		if err != nil {
			return 0, err
		}
		if d < 0 {
			return 0, fmt.Errorf("invalid duration: %q (negative)", s)
		}
		return d, nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			s = parts[0] + "h" + parts[1] + "m"
		case 3:
			s = parts[0] + "h" + parts[1] + "m" + parts[2] + "s"
		default:
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
	}

	if !hasAnyUnit(s, "h", "m", "s") {
		return 0, fmt.Errorf("invalid duration: %q (expected units like 2h30m)", s)
	}
	mm := hmsRegex.FindStringSubmatch(s)
	if mm == nil || (mm[1] == "" && mm[2] == "" && mm[3] == "") {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	secs := groupFloat(mm[1])*3600 + groupFloat(mm[2])*60 + groupFloat(mm[3])
	return time.Duration(secs * float64(time.Second)), nil
}

// ParseOffset parses a signed week/day/hour offset such as "-1w", "+1w1d2h"
// or "3d". A missing sign means forward in time.
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid offset: empty")
	}

	sign := time.Duration(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}

	mm := wdhRegex.FindStringSubmatch(s)
	if mm == nil || (mm[1] == "" && mm[2] == "" && mm[3] == "") {
		return 0, fmt.Errorf("invalid offset: %q (expected forms like -1w, +2d3h)", s)
	}

	hours := groupFloat(mm[1])*7*24 + groupFloat(mm[2])*24 + groupFloat(mm[3])
	return sign * time.Duration(hours*float64(time.Hour)), nil
}

func parseDatePart(s string) (time.Time, error) {
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse("2006-01-02", s)
}

func parseClockPart(s string) (hour, minute, second int, err error) {
	if !clockRegex.MatchString(s) {
		return 0, 0, 0, fmt.Errorf("invalid clock time: %q", s)
	}
	parts := strings.Split(s, ":")
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	if len(parts) == 3 {
		second, _ = strconv.Atoi(parts[2])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("invalid clock time: %q", s)
	}
	return hour, minute, second, nil
}

func atClock(now time.Time, h, m, s int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), h, m, s, 0, now.Location())
}

func hasAnyUnit(s string, units ...string) bool {
	for _, u := range units {
		if strings.Contains(s, u) {
			return true
		}
	}
	return false
}

func groupFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
