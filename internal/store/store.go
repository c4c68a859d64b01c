// Package store defines the persistence contract the scheduling core runs
// against, plus the in-memory and Postgres implementations.
package store

import "github.com/raoldfi/tennis-app-sub000/internal/model"

// MatchType filters match listings by scheduling state.
type MatchType int

const (
	MatchAll MatchType = iota
	MatchScheduled
	MatchUnscheduled
)

// MatchFilter narrows a match listing. Zero-valued fields are ignored.
type MatchFilter struct {
	LeagueID   int
	TeamID     int // matches where the team is home or visitor
	FacilityID int
	Type       MatchType
}

// Store is the entity persistence contract. Lookups return (nil, nil) on a
// miss; an error indicates a storage failure, not absence.
type Store interface {
	GetLeague(id int) (*model.League, error)
	GetTeam(id int) (*model.Team, error)
	GetFacility(id int) (*model.Facility, error)

	ListLeagues() ([]*model.League, error)
	ListTeams(leagueID int) ([]*model.Team, error)
	ListFacilities() ([]*model.Facility, error)
	ListMatches(f MatchFilter) ([]*model.Match, error)

	AddLeague(l *model.League) error
	AddTeam(t *model.Team) error
	AddFacility(f *model.Facility) error
	AddMatch(m *model.Match) error
	UpdateMatch(m *model.Match) error
}

// Transactional is the optional capability a backend may implement. The
// batch scheduler checks for it with a single type assertion; a store
// without it simply runs unguarded.
type Transactional interface {
	Begin(dryRun bool) error
	Commit() error
	Rollback() error
}

// matchInFilter reports whether a match satisfies a filter.
func matchInFilter(m *model.Match, f MatchFilter) bool {
	if f.LeagueID != 0 && m.LeagueID() != f.LeagueID {
		return false
	}
	if f.TeamID != 0 && m.HomeTeamID() != f.TeamID && m.VisitorTeamID() != f.TeamID {
		return false
	}
	if f.FacilityID != 0 && m.FacilityID() != f.FacilityID {
		return false
	}
	switch f.Type {
	case MatchScheduled:
		return m.IsScheduled()
	case MatchUnscheduled:
		return !m.IsScheduled()
	}
	return true
}
