package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeSlot is a start time within a day's schedule and the number of courts
// the facility makes available at that time.
type TimeSlot struct {
	Time   string `validate:"hhmm"`
	Courts int    `validate:"min=0"`
}

// DaySchedule is the ordered list of start times for one weekday.
type DaySchedule struct {
	Slots []TimeSlot
}

// WeeklySchedule holds one DaySchedule per weekday, indexed by time.Weekday.
type WeeklySchedule struct {
	Days [7]DaySchedule
}

// On returns the slots for a weekday.
func (w *WeeklySchedule) On(day time.Weekday) []TimeSlot {
	return w.Days[day].Slots
}

// Facility is a court venue with a weekly availability template and a list of
// fully-unavailable calendar dates.
type Facility struct {
	ID               int    `validate:"min=1"`
	Name             string `validate:"required"`
	ShortName        string `validate:"omitempty,max=10"`
	Location         string
	TotalCourts      int `validate:"min=0"`
	Schedule         WeeklySchedule
	UnavailableDates []string // "YYYY-MM-DD"
}

// Validate checks the facility shape, every slot's time string, and the
// unavailable-dates list.
func (f *Facility) Validate() error {
	if err := checkStruct(f); err != nil {
		return fmt.Errorf("facility %q: %w", f.Name, err)
	}
	for day, ds := range f.Schedule.Days {
		for _, slot := range ds.Slots {
			if _, err := ParseTimeHHMM(slot.Time); err != nil {
				return fmt.Errorf("facility %q, %s: %w", f.Name, time.Weekday(day), err)
			}
			if slot.Courts < 0 {
				return fmt.Errorf("%w: facility %q, %s %s: negative court count",
					ErrValidation, f.Name, time.Weekday(day), slot.Time)
			}
		}
	}
	for _, d := range f.UnavailableDates {
		if _, err := ParseDate(d); err != nil {
			return fmt.Errorf("facility %q: %w", f.Name, err)
		}
	}
	return nil
}

// IsAvailableOn reports whether the facility is open at all on a date.
func (f *Facility) IsAvailableOn(date string) bool {
	for _, d := range f.UnavailableDates {
		if d == date {
			return false
		}
	}
	return true
}

// CourtsAt returns the configured court count for a date's weekday at an
// exact start time, or 0 when the date is unavailable or the time is not in
// the template.
func (f *Facility) CourtsAt(date, t string) int {
	if !f.IsAvailableOn(date) {
		return 0
	}
	wd, err := WeekdayOf(date)
	if err != nil {
		return 0
	}
	for _, slot := range f.Schedule.On(wd) {
		if slot.Time == t {
			return slot.Courts
		}
	}
	return 0
}

// SlotsOn returns the weekly-template slots for a date, or nil when the date
// is in the unavailable list.
func (f *Facility) SlotsOn(date string) []TimeSlot {
	if !f.IsAvailableOn(date) {
		return nil
	}
	wd, err := WeekdayOf(date)
	if err != nil {
		return nil
	}
	return f.Schedule.On(wd)
}

// ShortenName derives a short display name from a facility name: initials of
// multi-word names, else the name truncated to ten characters.
func ShortenName(name string) string {
	words := strings.Fields(name)
	if len(words) >= 2 {
		var b strings.Builder
		for _, w := range words {
			r := []rune(w)
			b.WriteRune(r[0])
		}
		s := strings.ToUpper(b.String())
		if len(s) > 10 {
			s = s[:10]
		}
		return s
	}
	if len(name) > 10 {
		return name[:10]
	}
	return name
}
