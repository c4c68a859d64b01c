// Package scheduler commits matches to facilities, dates, and time slots.
// It layers conflict checks and capacity checks over committed storage plus
// the dry-run overlay, and drives the batch auto-scheduler and optimizer.
package scheduler

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/raoldfi/tennis-app-sub000/internal/availability"
	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/overlay"
	"github.com/raoldfi/tennis-app-sub000/internal/ranker"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// DefaultSplitGapMinutes bounds how far apart the two start times of a
// split-line match may be.
const DefaultSplitGapMinutes = 180

// Scheduler mutates matches through scheduling operations. DryRun keeps all
// effects in the overlay; otherwise each successful operation is persisted
// immediately.
type Scheduler struct {
	Store   store.Store
	Overlay *overlay.Overlay
	Avail   *availability.Model
	Checker *ConflictChecker
	Log     logrus.FieldLogger
	Rand    *rand.Rand

	DryRun          bool
	SplitGapMinutes int
	DateLimit       int // max candidate dates considered per match; 0 = all
}

// New wires a scheduler with a fresh overlay over the given store. A nil
// logger falls back to the logrus standard logger.
func New(st store.Store, log logrus.FieldLogger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ov := overlay.New()
	av := availability.New(st, ov)
	return &Scheduler{
		Store:           st,
		Overlay:         ov,
		Avail:           av,
		Checker:         NewConflictChecker(st, ov, av),
		Log:             log,
		Rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
		SplitGapMinutes: DefaultSplitGapMinutes,
	}
}

// leagueFor resolves a match's league, treating absence as an integrity
// failure.
func (s *Scheduler) leagueFor(m *model.Match) (*model.League, error) {
	league, err := s.Store.GetLeague(m.LeagueID())
	if err != nil {
		return nil, fmt.Errorf("looking up league %d: %w", m.LeagueID(), err)
	}
	if league == nil {
		return nil, fmt.Errorf("%w: match %d references missing league %d",
			model.ErrIntegrity, m.ID(), m.LeagueID())
	}
	return league, nil
}

// hasTeamConflicts runs the date and facility double-booking checks for both
// teams. True means the (date, facility) combination is unusable.
func (s *Scheduler) hasTeamConflicts(m *model.Match, facilityID int, date string) (bool, error) {
	for _, teamID := range []int{m.HomeTeamID(), m.VisitorTeamID()} {
		if conflict, err := s.Checker.TeamHasDateConflict(teamID, date); err != nil || conflict {
			return conflict, err
		}
		if conflict, err := s.Checker.TeamHasFacilityConflict(teamID, date, facilityID); err != nil || conflict {
			return conflict, err
		}
	}
	return false, nil
}

// ScheduleSameTime puts all of the match's lines on one start time. With an
// empty time, slots are ranked by spare-capacity percentage and the best one
// with enough room is used. Returns false (with the match untouched) when
// conflicts or capacity block the assignment.
func (s *Scheduler) ScheduleSameTime(m *model.Match, f *model.Facility, date, t string) (bool, error) {
	league, err := s.leagueFor(m)
	if err != nil {
		return false, err
	}
	lines := league.NumLinesPerMatch

	// Conflict checks run before any capacity reads.
	if conflict, err := s.hasTeamConflicts(m, f.ID, date); err != nil || conflict {
		return false, err
	}

	if t == "" {
		ranked, err := ranker.RankSlots(s.Avail, f, date)
		if err != nil {
			return false, err
		}
		for _, c := range ranked {
			if c.Spare >= lines {
				t = c.Time
				break
			}
		}
		if t == "" {
			return false, nil
		}
	} else {
		spare, err := s.Avail.AvailableCourts(f, date, t)
		if err != nil {
			return false, err
		}
		if spare < lines {
			return false, nil
		}
	}

	times := make([]string, lines)
	for i := range times {
		times[i] = t
	}
	return true, s.commit(m, f, date, times)
}

// ScheduleSplitTimes spreads the match's lines across more than one start
// time. A nil plan is computed from current availability (the league must
// allow split lines); an explicit plan must carry exactly one entry per
// line. Capacity is verified per distinct time before any mutation.
func (s *Scheduler) ScheduleSplitTimes(m *model.Match, f *model.Facility, date string, timeslots []string) (bool, error) {
	league, err := s.leagueFor(m)
	if err != nil {
		return false, err
	}
	lines := league.NumLinesPerMatch

	if timeslots == nil {
		if !league.AllowSplitLines {
			return false, fmt.Errorf("%w: league %q does not allow split lines",
				model.ErrValidation, league.Name)
		}
	} else if len(timeslots) != lines {
		return false, fmt.Errorf("%w: match %d: %d timeslots for %d lines",
			model.ErrValidation, m.ID(), len(timeslots), lines)
	}

	if conflict, err := s.hasTeamConflicts(m, f.ID, date); err != nil || conflict {
		return false, err
	}

	if timeslots == nil {
		plan, ok, err := s.Avail.SplitPlan(f, date, lines, s.SplitGapMinutes)
		if err != nil || !ok {
			return false, err
		}
		for _, leg := range plan {
			for i := 0; i < leg.Lines; i++ {
				timeslots = append(timeslots, leg.Time)
			}
		}
	}

	// Per distinct time, not per line: a shortfall anywhere aborts with no
	// partial mutation.
	perTime := make(map[string]int)
	var distinct []string
	for _, t := range timeslots {
		if _, seen := perTime[t]; !seen {
			distinct = append(distinct, t)
		}
		perTime[t]++
	}
	for _, t := range distinct {
		spare, err := s.Avail.AvailableCourts(f, date, t)
		if err != nil {
			return false, err
		}
		if spare < perTime[t] {
			return false, nil
		}
	}

	return true, s.commit(m, f, date, timeslots)
}

// commit applies a validated assignment: mutate the match, book the overlay,
// and persist unless this is a dry run. A persistence failure unwinds both,
// restoring whatever assignment the match carried before the attempt.
func (s *Scheduler) commit(m *model.Match, f *model.Facility, date string, times []string) error {
	prev := m.Clone()
	if err := m.Schedule(f.ID, date, times); err != nil {
		return err
	}
	s.Overlay.Book(m, f.ID, date, times)

	if !s.DryRun {
		if err := s.Store.UpdateMatch(m); err != nil {
			s.Overlay.Unbook(m.ID())
			m.Restore(prev)
			return fmt.Errorf("%w: persisting match %d: %v", model.ErrTransaction, m.ID(), err)
		}
		// Folded into committed storage; drop the overlay entries so the
		// booking is not counted twice.
		s.Overlay.Unbook(m.ID())
	}

	s.Log.WithFields(logrus.Fields{
		"match":    m.ID(),
		"facility": f.Name,
		"date":     date,
		"times":    times,
		"dry_run":  s.DryRun,
	}).Debug("match scheduled")
	return nil
}

// Unschedule clears a match's assignment and overlay bookings. Idempotent:
// a second call on an unscheduled match is a no-op.
func (s *Scheduler) Unschedule(m *model.Match) error {
	s.Overlay.Unbook(m.ID())
	if !m.IsScheduled() {
		return nil
	}
	prev := m.Clone()
	m.Unschedule()
	if !s.DryRun {
		if err := s.Store.UpdateMatch(m); err != nil {
			m.Restore(prev)
			return fmt.Errorf("%w: persisting unschedule of match %d: %v", model.ErrTransaction, m.ID(), err)
		}
	}
	return nil
}
