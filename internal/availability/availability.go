// Package availability answers "how many courts are free at facility F,
// date D, time T", netting the facility's weekly template against committed
// bookings and the dry-run overlay.
package availability

import (
	"fmt"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/overlay"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// Model reads committed bookings from the store and tentative ones from the
// overlay. Overlay may be nil when only committed state matters.
type Model struct {
	Store   store.Store
	Overlay *overlay.Overlay
}

func New(st store.Store, ov *overlay.Overlay) *Model {
	return &Model{Store: st, Overlay: ov}
}

// committedLines counts lines of committed scheduled matches holding the
// exact (facility, date, time) slot.
func (a *Model) committedLines(facilityID int, date, t string) (int, error) {
	matches, err := a.Store.ListMatches(store.MatchFilter{FacilityID: facilityID, Type: store.MatchScheduled})
	if err != nil {
		return 0, fmt.Errorf("listing facility bookings: %w", err)
	}
	lines := 0
	for _, m := range matches {
		if m.Date() == date {
			lines += m.LinesAt(t)
		}
	}
	return lines, nil
}

// BookedLines returns committed + overlay lines at the exact slot.
func (a *Model) BookedLines(facilityID int, date, t string) (int, error) {
	committed, err := a.committedLines(facilityID, date, t)
	if err != nil {
		return 0, err
	}
	if a.Overlay != nil {
		committed += a.Overlay.SlotCount(facilityID, date, t)
	}
	return committed, nil
}

// AvailableCourts returns the facility's spare court count at (date, time):
// the configured count for that weekday slot, zero when the date is in the
// unavailable list, minus committed and overlay bookings.
func (a *Model) AvailableCourts(f *model.Facility, date, t string) (int, error) {
	configured := f.CourtsAt(date, t)
	if configured == 0 {
		return 0, nil
	}
	booked, err := a.BookedLines(f.ID, date, t)
	if err != nil {
		return 0, err
	}
	spare := configured - booked
	if spare < 0 {
		spare = 0
	}
	return spare, nil
}

// Slot is one weekly-template slot annotated with current spare capacity.
type Slot struct {
	Time     string
	Capacity int // configured courts at this time
	Spare    int
}

// OpenSlots returns the facility's template slots for a date with spare
// capacity computed, in template order. Unavailable dates yield nil.
func (a *Model) OpenSlots(f *model.Facility, date string) ([]Slot, error) {
	var out []Slot
	for _, ts := range f.SlotsOn(date) {
		spare, err := a.AvailableCourts(f, date, ts.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, Slot{Time: ts.Time, Capacity: ts.Courts, Spare: spare})
	}
	return out, nil
}

// SameTimeSlot returns the first template slot with enough spare capacity
// for all lines at once.
func (a *Model) SameTimeSlot(f *model.Facility, date string, lines int) (string, bool, error) {
	slots, err := a.OpenSlots(f, date)
	if err != nil {
		return "", false, err
	}
	for _, s := range slots {
		if s.Spare >= lines {
			return s.Time, true, nil
		}
	}
	return "", false, nil
}

// SplitSlot is one leg of a split-time plan: a start time and the number of
// lines assigned to it.
type SplitSlot struct {
	Time  string
	Lines int
}

// SplitPlan finds two template slots within maxGapMinutes of each other
// whose combined spare capacity covers the lines. The first slot takes the
// ceiling half (capped by its spare); the second takes the remainder.
func (a *Model) SplitPlan(f *model.Facility, date string, lines, maxGapMinutes int) ([]SplitSlot, bool, error) {
	slots, err := a.OpenSlots(f, date)
	if err != nil {
		return nil, false, err
	}
	for i := 0; i < len(slots); i++ {
		if slots[i].Spare == 0 {
			continue
		}
		si, err := model.ParseTimeHHMM(slots[i].Time)
		if err != nil {
			return nil, false, err
		}
		for j := i + 1; j < len(slots); j++ {
			if slots[j].Spare == 0 {
				continue
			}
			sj, err := model.ParseTimeHHMM(slots[j].Time)
			if err != nil {
				return nil, false, err
			}
			gap := sj - si
			if gap < 0 {
				gap = -gap
			}
			if gap > maxGapMinutes {
				continue
			}
			first := (lines + 1) / 2
			if first > slots[i].Spare {
				first = slots[i].Spare
			}
			rest := lines - first
			if rest < 1 || slots[j].Spare < rest {
				continue
			}
			return []SplitSlot{
				{Time: slots[i].Time, Lines: first},
				{Time: slots[j].Time, Lines: rest},
			}, true, nil
		}
	}
	return nil, false, nil
}

// CanAccommodate reports whether the facility can host the league's line
// count on a date, in one slot or (when the league allows it) split across
// two slots within maxGapMinutes.
func (a *Model) CanAccommodate(league *model.League, f *model.Facility, date string, maxGapMinutes int) (bool, error) {
	if _, ok, err := a.SameTimeSlot(f, date, league.NumLinesPerMatch); err != nil || ok {
		return ok, err
	}
	if !league.AllowSplitLines {
		return false, nil
	}
	_, ok, err := a.SplitPlan(f, date, league.NumLinesPerMatch, maxGapMinutes)
	return ok, err
}
