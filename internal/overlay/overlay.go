// Package overlay holds the in-memory booking ledger used during dry-run
// scheduling. It shadows committed storage: a batch of tentative assignments
// is validated against overlay + committed state without touching the store,
// then discarded or folded in match by match.
package overlay

import "github.com/raoldfi/tennis-app-sub000/internal/model"

type slotKey struct {
	facilityID int
	date       string
	time       string
}

type teamDateKey struct {
	teamID int
	date   string
}

// TeamBooking records which match holds a team on a date, and where.
type TeamBooking struct {
	MatchID    int
	FacilityID int
}

// Overlay maps (facility, date, time) to the match ids holding that slot
// (one entry per line) and (team, date) to the occupying match.
type Overlay struct {
	slots     map[slotKey][]int
	teamDates map[teamDateKey]TeamBooking
}

func New() *Overlay {
	return &Overlay{
		slots:     make(map[slotKey][]int),
		teamDates: make(map[teamDateKey]TeamBooking),
	}
}

// Book records one slot entry per scheduled time (so a time repeated across
// lines counts once per line) plus the home and visitor team-date entries.
func (o *Overlay) Book(m *model.Match, facilityID int, date string, times []string) {
	for _, t := range times {
		k := slotKey{facilityID, date, t}
		o.slots[k] = append(o.slots[k], m.ID())
	}
	b := TeamBooking{MatchID: m.ID(), FacilityID: facilityID}
	o.teamDates[teamDateKey{m.HomeTeamID(), date}] = b
	o.teamDates[teamDateKey{m.VisitorTeamID(), date}] = b
}

// Unbook removes every overlay entry referencing the match, pruning keys
// that become empty. Safe to call for a match that was never booked.
func (o *Overlay) Unbook(matchID int) {
	for k, ids := range o.slots {
		kept := ids[:0]
		for _, id := range ids {
			if id != matchID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(o.slots, k)
		} else {
			o.slots[k] = kept
		}
	}
	for k, b := range o.teamDates {
		if b.MatchID == matchID {
			delete(o.teamDates, k)
		}
	}
}

// HasTeamConflict reports whether the overlay already books the team on the
// date.
func (o *Overlay) HasTeamConflict(teamID int, date string) bool {
	_, ok := o.teamDates[teamDateKey{teamID, date}]
	return ok
}

// TeamBookingOn returns the overlay booking occupying a team-date, if any.
func (o *Overlay) TeamBookingOn(teamID int, date string) (TeamBooking, bool) {
	b, ok := o.teamDates[teamDateKey{teamID, date}]
	return b, ok
}

// SlotCount returns the number of lines the overlay books at an exact
// (facility, date, time).
func (o *Overlay) SlotCount(facilityID int, date, time string) int {
	return len(o.slots[slotKey{facilityID, date, time}])
}

// SlotUsage summarizes one booked slot for usage reports.
type SlotUsage struct {
	Date  string
	Time  string
	Lines int
}

// FacilityUsage returns the overlay's booked slots for a facility, keyed by
// date.
func (o *Overlay) FacilityUsage(facilityID int) map[string][]SlotUsage {
	out := make(map[string][]SlotUsage)
	for k, ids := range o.slots {
		if k.facilityID != facilityID {
			continue
		}
		out[k.date] = append(out[k.date], SlotUsage{Date: k.date, Time: k.time, Lines: len(ids)})
	}
	return out
}

// Len returns the number of booked slot keys, mostly for tests.
func (o *Overlay) Len() int { return len(o.slots) }

// Clear empties the overlay for reuse by the next dry run.
func (o *Overlay) Clear() {
	o.slots = make(map[slotKey][]int)
	o.teamDates = make(map[teamDateKey]TeamBooking)
}
