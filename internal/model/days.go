package model

import (
	"fmt"
	"strings"
	"time"
)

// Days is an ordered set of weekdays. An empty set means "no preference".
type Days []time.Weekday

// ParseWeekday converts a weekday name ("Monday", "monday") to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("%w: invalid weekday %q", ErrValidation, name)
}

// ParseDays converts weekday names into a Days set, rejecting duplicates.
func ParseDays(names []string) (Days, error) {
	var days Days
	for _, n := range names {
		d, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		if days.Contains(d) {
			return nil, fmt.Errorf("%w: duplicate weekday %q", ErrValidation, n)
		}
		days = append(days, d)
	}
	return days, nil
}

func (d Days) Contains(w time.Weekday) bool {
	for _, day := range d {
		if day == w {
			return true
		}
	}
	return false
}

func (d Days) IsEmpty() bool { return len(d) == 0 }

// Intersect returns the days present in both sets, preserving d's order.
func (d Days) Intersect(other Days) Days {
	var out Days
	for _, day := range d {
		if other.Contains(day) {
			out = append(out, day)
		}
	}
	return out
}

// Union returns the days present in either set, d's entries first.
func (d Days) Union(other Days) Days {
	out := make(Days, len(d))
	copy(out, d)
	for _, day := range other {
		if !out.Contains(day) {
			out = append(out, day)
		}
	}
	return out
}

// Disjoint reports whether the two sets share no day.
func (d Days) Disjoint(other Days) bool {
	return len(d.Intersect(other)) == 0
}

// Names returns the full weekday names in set order.
func (d Days) Names() []string {
	names := make([]string, len(d))
	for i, day := range d {
		names[i] = day.String()
	}
	return names
}

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return t, nil
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// WeekdayOf returns the weekday of a "YYYY-MM-DD" date string.
func WeekdayOf(date string) (time.Weekday, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// ParseTimeHHMM validates a 24h "HH:MM" time string and returns its offset
// from midnight in minutes.
func ParseTimeHHMM(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: invalid time %q, want HH:MM", ErrValidation, s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: invalid time %q, want HH:MM", ErrValidation, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrValidation, s)
	}
	return h*60 + m, nil
}
