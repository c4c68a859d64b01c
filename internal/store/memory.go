package store

import (
	"fmt"
	"sort"

	"github.com/tiendc/go-deepcopy"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

// Memory is a map-backed Store used by the CLI's YAML workflow and by tests.
// Entities are cloned on the way in and out so callers never alias stored
// state. It does not implement Transactional.
type Memory struct {
	leagues    map[int]*model.League
	teams      map[int]*model.Team
	facilities map[int]*model.Facility
	matches    map[int]*model.Match
}

func NewMemory() *Memory {
	return &Memory{
		leagues:    make(map[int]*model.League),
		teams:      make(map[int]*model.Team),
		facilities: make(map[int]*model.Facility),
		matches:    make(map[int]*model.Match),
	}
}

func cloneLeague(l *model.League) *model.League {
	var out model.League
	if err := deepcopy.Copy(&out, l); err != nil {
		panic(fmt.Sprintf("league clone: %v", err))
	}
	return &out
}

func cloneTeam(t *model.Team) *model.Team {
	var out model.Team
	if err := deepcopy.Copy(&out, t); err != nil {
		panic(fmt.Sprintf("team clone: %v", err))
	}
	return &out
}

func cloneFacility(f *model.Facility) *model.Facility {
	var out model.Facility
	if err := deepcopy.Copy(&out, f); err != nil {
		panic(fmt.Sprintf("facility clone: %v", err))
	}
	return &out
}

func (s *Memory) GetLeague(id int) (*model.League, error) {
	l, ok := s.leagues[id]
	if !ok {
		return nil, nil
	}
	return cloneLeague(l), nil
}

func (s *Memory) GetTeam(id int) (*model.Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	return cloneTeam(t), nil
}

func (s *Memory) GetFacility(id int) (*model.Facility, error) {
	f, ok := s.facilities[id]
	if !ok {
		return nil, nil
	}
	return cloneFacility(f), nil
}

func (s *Memory) ListLeagues() ([]*model.League, error) {
	out := make([]*model.League, 0, len(s.leagues))
	for _, l := range s.leagues {
		out = append(out, cloneLeague(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListTeams(leagueID int) ([]*model.Team, error) {
	var out []*model.Team
	for _, t := range s.teams {
		if leagueID == 0 || t.LeagueID == leagueID {
			out = append(out, cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListFacilities() ([]*model.Facility, error) {
	out := make([]*model.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		out = append(out, cloneFacility(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListMatches(f MatchFilter) ([]*model.Match, error) {
	var out []*model.Match
	for _, m := range s.matches {
		if matchInFilter(m, f) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (s *Memory) AddLeague(l *model.League) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if _, exists := s.leagues[l.ID]; exists {
		return fmt.Errorf("%w: league %d already exists", model.ErrValidation, l.ID)
	}
	s.leagues[l.ID] = cloneLeague(l)
	return nil
}

func (s *Memory) AddTeam(t *model.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := s.teams[t.ID]; exists {
		return fmt.Errorf("%w: team %d already exists", model.ErrValidation, t.ID)
	}
	if _, ok := s.leagues[t.LeagueID]; !ok {
		return fmt.Errorf("%w: team %q references missing league %d", model.ErrIntegrity, t.Name, t.LeagueID)
	}
	if _, ok := s.facilities[t.HomeFacilityID]; !ok {
		return fmt.Errorf("%w: team %q references missing facility %d", model.ErrIntegrity, t.Name, t.HomeFacilityID)
	}
	s.teams[t.ID] = cloneTeam(t)
	return nil
}

func (s *Memory) AddFacility(f *model.Facility) error {
	if f.ShortName == "" {
		f.ShortName = model.ShortenName(f.Name)
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if _, exists := s.facilities[f.ID]; exists {
		return fmt.Errorf("%w: facility %d already exists", model.ErrValidation, f.ID)
	}
	s.facilities[f.ID] = cloneFacility(f)
	return nil
}

func (s *Memory) AddMatch(m *model.Match) error {
	if _, exists := s.matches[m.ID()]; exists {
		return fmt.Errorf("%w: match %d already exists", model.ErrValidation, m.ID())
	}
	if _, ok := s.leagues[m.LeagueID()]; !ok {
		return fmt.Errorf("%w: match %d references missing league %d", model.ErrIntegrity, m.ID(), m.LeagueID())
	}
	s.matches[m.ID()] = m.Clone()
	return nil
}

func (s *Memory) UpdateMatch(m *model.Match) error {
	if _, exists := s.matches[m.ID()]; !exists {
		return fmt.Errorf("%w: match %d not found", model.ErrIntegrity, m.ID())
	}
	s.matches[m.ID()] = m.Clone()
	return nil
}
