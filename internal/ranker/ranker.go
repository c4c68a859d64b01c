// Package ranker enumerates and prioritizes candidate dates for a match
// from league and team day preferences, and ranks a facility's usable time
// slots by spare capacity.
package ranker

import (
	"fmt"
	"sort"
	"time"

	"github.com/raoldfi/tennis-app-sub000/internal/availability"
	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

// Priority tiers; 1 is best. Dates failing a required-days constraint are
// dropped outright, not assigned a tier.
const (
	TierRequiredPreferred = 1 // in required days and league-preferred
	TierRequiredBackup    = 2 // in required days and league-backup
	TierPreferred         = 3 // no required constraint, league-preferred
	TierBackup            = 4 // no required constraint, league-backup
	TierAllowed           = 5 // otherwise-allowed
)

// DateCandidate is a candidate calendar date with its priority tier.
type DateCandidate struct {
	Date string
	Tier int
}

// Options controls date ranking.
type Options struct {
	Start           string // defaults to the league window, else today
	End             string // defaults to the league window, else today + 16 weeks
	Limit           int    // max candidates returned; 0 = unlimited
	IgnoreTeamPrefs bool
	IgnoreLeaguePrefs bool
}

const defaultWindowWeeks = 16

// RequiredDays combines the two teams' day preferences: the intersection
// when both are non-empty (an error when that intersection is empty — the
// pairing is unsatisfiable), the non-empty side when only one is set, and
// nil (no constraint) when neither is set.
func RequiredDays(league *model.League, home, visitor *model.Team) (model.Days, error) {
	switch {
	case !home.PreferredDays.IsEmpty() && !visitor.PreferredDays.IsEmpty():
		required := home.PreferredDays.Intersect(visitor.PreferredDays)
		if required.IsEmpty() {
			return nil, fmt.Errorf("%w: teams %q and %q have no common preferred day",
				model.ErrConflict, home.Name, visitor.Name)
		}
		return required, nil
	case !home.PreferredDays.IsEmpty():
		return home.PreferredDays, nil
	case !visitor.PreferredDays.IsEmpty():
		return visitor.PreferredDays, nil
	}
	return nil, nil
}

// RankDates returns candidate dates in [start, end], best tier first, ties
// broken chronologically. A single malformed bound is a validation error;
// dates whose weekday the league does not play are filtered, and dates
// failing a non-empty required-days constraint are dropped entirely.
func RankDates(league *model.League, home, visitor *model.Team, opts Options) ([]DateCandidate, error) {
	start, end, err := window(league, opts)
	if err != nil {
		return nil, err
	}

	var required model.Days
	if !opts.IgnoreTeamPrefs {
		required, err = RequiredDays(league, home, visitor)
		if err != nil {
			return nil, err
		}
	}

	var out []DateCandidate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()

		leaguePreferred := league.PreferredDays.Contains(wd)
		leagueBackup := league.BackupDays.Contains(wd)
		if !opts.IgnoreLeaguePrefs && !leaguePreferred && !leagueBackup {
			continue
		}

		tier := TierAllowed
		switch {
		case required != nil && !required.Contains(wd):
			continue // hard filter, not a deprioritization
		case required != nil && leaguePreferred:
			tier = TierRequiredPreferred
		case required != nil && leagueBackup:
			tier = TierRequiredBackup
		case leaguePreferred:
			tier = TierPreferred
		case leagueBackup:
			tier = TierBackup
		}

		out = append(out, DateCandidate{Date: model.FormatDate(d), Tier: tier})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Date < out[j].Date
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// window resolves each bound independently: the option, else the league
// window, else today (start) or today plus the default horizon (end).
func window(league *model.League, opts Options) (start, end time.Time, err error) {
	startStr, endStr := opts.Start, opts.End
	if startStr == "" {
		startStr = league.StartDate
	}
	if endStr == "" {
		endStr = league.EndDate
	}

	today := time.Now().Truncate(24 * time.Hour)
	if startStr == "" {
		start = today
	} else if start, err = model.ParseDate(startStr); err != nil {
		return
	}
	if endStr == "" {
		end = today.AddDate(0, 0, 7*defaultWindowWeeks)
	} else if end, err = model.ParseDate(endStr); err != nil {
		return
	}

	if end.Before(start) {
		err = fmt.Errorf("%w: date range %s..%s is inverted",
			model.ErrValidation, model.FormatDate(start), model.FormatDate(end))
	}
	return
}

// SlotCandidate is a usable facility time slot ranked by spare capacity.
type SlotCandidate struct {
	Time     string
	Spare    int
	SparePct float64
}

// RankSlots returns the facility's slots that can still host at least one
// line on the date, sorted by spare-capacity percentage descending (ties in
// template order).
func RankSlots(av *availability.Model, f *model.Facility, date string) ([]SlotCandidate, error) {
	slots, err := av.OpenSlots(f, date)
	if err != nil {
		return nil, err
	}
	var out []SlotCandidate
	for _, s := range slots {
		if s.Spare <= 0 || s.Capacity <= 0 {
			continue
		}
		out = append(out, SlotCandidate{
			Time:     s.Time,
			Spare:    s.Spare,
			SparePct: float64(s.Spare) / float64(s.Capacity),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SparePct > out[j].SparePct
	})
	return out, nil
}
