package scheduler

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/ranker"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// Reason classifies why a match could not be auto-scheduled.
type Reason string

const (
	// ReasonNoOptions: date ranking produced no candidates at all (or the
	// teams' preferences are unsatisfiable).
	ReasonNoOptions Reason = "no_scheduling_options"
	// ReasonNoAvailable: candidate dates exist but none had a conflict-free
	// facility slot.
	ReasonNoAvailable Reason = "no_available_scheduling"
	// ReasonFailed: a chosen option was no longer schedulable when attempted.
	ReasonFailed Reason = "scheduling_failed"
)

// MatchOutcome records the result of one match within a batch pass.
type MatchOutcome struct {
	MatchID   int
	Scheduled bool
	Date      string
	Times     []string
	Quality   float64
	Reason    Reason
	Detail    string
}

// BatchResult aggregates a batch auto-schedule pass.
type BatchResult struct {
	Seed      int64
	Scheduled int
	Failed    int
	Outcomes  []MatchOutcome
}

// MeanQuality averages the quality scores of successfully scheduled matches.
// Zero when nothing was scheduled.
func (r *BatchResult) MeanQuality() float64 {
	if r.Scheduled == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range r.Outcomes {
		if o.Scheduled {
			sum += o.Quality
		}
	}
	return sum / float64(r.Scheduled)
}

// AutoSchedule attempts to schedule every currently-unscheduled match in the
// list, iterating in a seed-shuffled order so the same seed reproduces the
// same outcome. Individual match failures are recorded with a reason code
// and never abort the batch; storage and integrity errors do, rolling back
// the batch transaction when the backend supports one.
func (s *Scheduler) AutoSchedule(matches []*model.Match, dryRun bool, seed int64) (*BatchResult, error) {
	result := &BatchResult{Seed: seed}

	var pending []*model.Match
	for _, m := range matches {
		if !m.IsScheduled() {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		return result, nil
	}

	rng := rand.New(rand.NewSource(seed))
	shuffled := make([]*model.Match, len(pending))
	copy(shuffled, pending)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	prevDryRun := s.DryRun
	s.DryRun = dryRun
	defer func() { s.DryRun = prevDryRun }()

	tx, hasTx := s.Store.(store.Transactional)
	if hasTx {
		if err := tx.Begin(dryRun); err != nil {
			return nil, fmt.Errorf("%w: beginning batch: %v", model.ErrTransaction, err)
		}
	}

	for _, m := range shuffled {
		outcome, err := s.scheduleOne(m)
		if err != nil {
			if hasTx {
				tx.Rollback()
			}
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Scheduled {
			result.Scheduled++
		} else {
			result.Failed++
			s.Log.WithFields(logrus.Fields{
				"match":  m.ID(),
				"reason": outcome.Reason,
				"detail": outcome.Detail,
			}).Info("match not scheduled")
		}
	}

	if hasTx {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%w: committing batch: %v", model.ErrTransaction, err)
		}
	}

	s.Log.WithFields(logrus.Fields{
		"seed":      seed,
		"scheduled": result.Scheduled,
		"failed":    result.Failed,
		"dry_run":   dryRun,
	}).Info("auto-schedule pass complete")
	return result, nil
}

// option is one feasible date choice for a match.
type option struct {
	date    string
	quality float64
}

// scheduleOne ranks candidates for a single match, picks the best-quality
// feasible option, and attempts same-time then split-time scheduling.
// Returns an error only for fatal (integrity/storage) conditions.
func (s *Scheduler) scheduleOne(m *model.Match) (MatchOutcome, error) {
	outcome := MatchOutcome{MatchID: m.ID()}

	league, err := s.leagueFor(m)
	if err != nil {
		return outcome, err
	}
	home, err := s.teamFor(m.HomeTeamID())
	if err != nil {
		return outcome, err
	}
	visitor, err := s.teamFor(m.VisitorTeamID())
	if err != nil {
		return outcome, err
	}
	facility, err := s.facilityFor(home.HomeFacilityID)
	if err != nil {
		return outcome, err
	}

	cands, err := ranker.RankDates(league, home, visitor, ranker.Options{Limit: s.DateLimit})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			outcome.Reason = ReasonNoOptions
			outcome.Detail = err.Error()
			return outcome, nil
		}
		return outcome, err
	}
	if len(cands) == 0 {
		outcome.Reason = ReasonNoOptions
		outcome.Detail = "no candidate dates in the league window"
		return outcome, nil
	}

	best, found, err := s.bestOption(m, league, home, visitor, facility, cands)
	if err != nil {
		return outcome, err
	}
	if !found {
		outcome.Reason = ReasonNoAvailable
		outcome.Detail = "no conflict-free facility slot on any candidate date"
		return outcome, nil
	}

	ok, err := s.ScheduleSameTime(m, facility, best.date, "")
	if err != nil {
		return outcome, err
	}
	if !ok && league.AllowSplitLines {
		ok, err = s.ScheduleSplitTimes(m, facility, best.date, nil)
		if err != nil {
			return outcome, err
		}
	}
	if !ok {
		outcome.Reason = ReasonFailed
		outcome.Detail = fmt.Sprintf("option on %s was not schedulable when attempted", best.date)
		return outcome, nil
	}

	outcome.Scheduled = true
	outcome.Date = m.Date()
	outcome.Times = m.ScheduledTimes()
	outcome.Quality = best.quality
	return outcome, nil
}

// bestOption scans candidate dates (already tier-ordered) and keeps the
// highest-quality feasible one. Ties keep the earlier, better-tiered date.
// Split-time options carry a small penalty so same-time wins at equal
// preference fit.
func (s *Scheduler) bestOption(m *model.Match, league *model.League, home, visitor *model.Team,
	facility *model.Facility, cands []ranker.DateCandidate) (option, bool, error) {

	const splitPenalty = 5.0

	var best option
	found := false
	for _, c := range cands {
		conflict, err := s.hasTeamConflicts(m, facility.ID, c.Date)
		if err != nil {
			return best, false, err
		}
		if conflict {
			continue
		}

		ok, err := s.Avail.CanAccommodate(league, facility, c.Date, s.SplitGapMinutes)
		if err != nil {
			return best, false, err
		}
		if !ok {
			continue
		}

		quality := m.QualityScore(league, home, visitor, c.Date)
		if _, same, err := s.Avail.SameTimeSlot(facility, c.Date, league.NumLinesPerMatch); err != nil {
			return best, false, err
		} else if !same {
			quality -= splitPenalty
		}

		if !found || quality > best.quality {
			best = option{date: c.Date, quality: quality}
			found = true
		}
	}
	return best, found, nil
}

func (s *Scheduler) teamFor(id int) (*model.Team, error) {
	t, err := s.Store.GetTeam(id)
	if err != nil {
		return nil, fmt.Errorf("looking up team %d: %w", id, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: missing team %d", model.ErrIntegrity, id)
	}
	return t, nil
}

func (s *Scheduler) facilityFor(id int) (*model.Facility, error) {
	f, err := s.Store.GetFacility(id)
	if err != nil {
		return nil, fmt.Errorf("looking up facility %d: %w", id, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: missing facility %d", model.ErrIntegrity, id)
	}
	return f, nil
}
