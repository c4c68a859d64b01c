package model

import "fmt"

// Status is a match's derived scheduling state.
type Status int

const (
	StatusUnscheduled Status = iota
	StatusPartiallyScheduled
	StatusFullyScheduled
	// StatusOverScheduled marks more scheduled times than required lines; a
	// data-integrity warning, not a valid end state.
	StatusOverScheduled
)

func (s Status) String() string {
	switch s {
	case StatusUnscheduled:
		return "unscheduled"
	case StatusPartiallyScheduled:
		return "partially-scheduled"
	case StatusFullyScheduled:
		return "fully-scheduled"
	case StatusOverScheduled:
		return "over-scheduled"
	}
	return "unknown"
}

// Match pairs a home and visitor team within a league. Identity fields (id,
// league, teams) are set at construction and have no setters; only the
// scheduling assignment (facility, date, times) mutates, and only through
// Schedule/Unschedule so the assignment is never left partially set.
type Match struct {
	id        int
	leagueID  int
	homeID    int
	visitorID int

	Round     int
	NumRounds float64

	facilityID     int      // 0 when unscheduled
	date           string   // "YYYY-MM-DD", "" when unscheduled
	scheduledTimes []string // one entry per line
}

// NewMatch constructs an unscheduled match.
func NewMatch(id, leagueID, homeID, visitorID int) *Match {
	return &Match{id: id, leagueID: leagueID, homeID: homeID, visitorID: visitorID}
}

func (m *Match) ID() int          { return m.id }
func (m *Match) LeagueID() int    { return m.leagueID }
func (m *Match) HomeTeamID() int  { return m.homeID }
func (m *Match) VisitorTeamID() int { return m.visitorID }

func (m *Match) FacilityID() int { return m.facilityID }
func (m *Match) Date() string    { return m.date }

// ScheduledTimes returns a copy of the per-line start times.
func (m *Match) ScheduledTimes() []string {
	out := make([]string, len(m.scheduledTimes))
	copy(out, m.scheduledTimes)
	return out
}

// IsScheduled reports whether the match has any assignment at all.
func (m *Match) IsScheduled() bool {
	return m.facilityID != 0 && m.date != "" && len(m.scheduledTimes) > 0
}

// StatusFor derives the scheduling status against a league's line count.
func (m *Match) StatusFor(requiredLines int) Status {
	switch {
	case !m.IsScheduled():
		return StatusUnscheduled
	case len(m.scheduledTimes) < requiredLines:
		return StatusPartiallyScheduled
	case len(m.scheduledTimes) == requiredLines:
		return StatusFullyScheduled
	default:
		return StatusOverScheduled
	}
}

// LinesAt returns how many of the match's lines start at the given time.
func (m *Match) LinesAt(t string) int {
	n := 0
	for _, st := range m.scheduledTimes {
		if st == t {
			n++
		}
	}
	return n
}

// DistinctTimes returns the distinct start times in first-seen order.
func (m *Match) DistinctTimes() []string {
	var out []string
	for _, t := range m.scheduledTimes {
		found := false
		for _, o := range out {
			if o == t {
				found = true
				break
			}
		}
		if !found {
			out = append(out, t)
		}
	}
	return out
}

// Schedule atomically assigns the full facility/date/times triple. Every
// time string and the date are validated before any field changes.
func (m *Match) Schedule(facilityID int, date string, times []string) error {
	if facilityID <= 0 {
		return fmt.Errorf("%w: match %d: facility id required", ErrValidation, m.id)
	}
	if _, err := ParseDate(date); err != nil {
		return fmt.Errorf("match %d: %w", m.id, err)
	}
	if len(times) == 0 {
		return fmt.Errorf("%w: match %d: at least one scheduled time required", ErrValidation, m.id)
	}
	for _, t := range times {
		if _, err := ParseTimeHHMM(t); err != nil {
			return fmt.Errorf("match %d: %w", m.id, err)
		}
	}
	m.facilityID = facilityID
	m.date = date
	m.scheduledTimes = make([]string, len(times))
	copy(m.scheduledTimes, times)
	return nil
}

// LoadMatch reconstructs a match from persisted state, applying the same
// assignment validation as Schedule when the stored match was scheduled.
func LoadMatch(id, leagueID, homeID, visitorID, round int, numRounds float64,
	facilityID int, date string, times []string) (*Match, error) {
	m := NewMatch(id, leagueID, homeID, visitorID)
	m.Round = round
	m.NumRounds = numRounds
	if facilityID != 0 || date != "" || len(times) > 0 {
		if err := m.Schedule(facilityID, date, times); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Unschedule clears the assignment. Calling it on an already-unscheduled
// match is a no-op.
func (m *Match) Unschedule() {
	m.facilityID = 0
	m.date = ""
	m.scheduledTimes = nil
}

// Clone returns an independent copy of the match.
func (m *Match) Clone() *Match {
	c := *m
	c.scheduledTimes = make([]string, len(m.scheduledTimes))
	copy(c.scheduledTimes, m.scheduledTimes)
	return &c
}

// Restore copies another match's scheduling assignment into m. Identity
// fields are untouched.
func (m *Match) Restore(from *Match) {
	m.facilityID = from.facilityID
	m.date = from.date
	m.scheduledTimes = make([]string, len(from.scheduledTimes))
	copy(m.scheduledTimes, from.scheduledTimes)
}

// QualityScore rates how well a candidate date satisfies soft preferences.
// Higher is better. Each soft conflict (league backup day rather than
// preferred, a team's non-empty preference excluding the weekday) deducts
// from a base of 100.
func (m *Match) QualityScore(league *League, home, visitor *Team, date string) float64 {
	wd, err := WeekdayOf(date)
	if err != nil {
		return 0
	}
	score := 100.0
	if !league.PreferredDays.IsEmpty() && !league.PreferredDays.Contains(wd) {
		if league.BackupDays.Contains(wd) {
			score -= 25
		} else {
			score -= 50
		}
	}
	if !home.PreferredDays.IsEmpty() && !home.PreferredDays.Contains(wd) {
		score -= 10
	}
	if !visitor.PreferredDays.IsEmpty() && !visitor.PreferredDays.Contains(wd) {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}
