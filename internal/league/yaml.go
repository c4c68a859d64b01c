// Package league moves whole league setups in and out of a store as YAML
// documents. Entities reference each other by name in the document and are
// resolved to ids at import time.
package league

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// SlotDoc is one start time within a facility's day schedule.
type SlotDoc struct {
	Time   string `yaml:"time"`
	Courts int    `yaml:"courts"`
}

// FacilityDoc is a facility as written in the entities file. Schedule maps
// lowercase weekday names to slot lists.
type FacilityDoc struct {
	ID               int                  `yaml:"id"`
	Name             string               `yaml:"name"`
	ShortName        string               `yaml:"short_name,omitempty"`
	Location         string               `yaml:"location,omitempty"`
	TotalCourts      int                  `yaml:"total_courts"`
	Schedule         map[string][]SlotDoc `yaml:"schedule,omitempty"`
	UnavailableDates []string             `yaml:"unavailable_dates,omitempty"`
}

type LeagueDoc struct {
	ID               int      `yaml:"id"`
	Name             string   `yaml:"name"`
	Year             int      `yaml:"year"`
	Section          string   `yaml:"section"`
	Region           string   `yaml:"region"`
	AgeGroup         string   `yaml:"age_group"`
	Division         string   `yaml:"division"`
	NumLinesPerMatch int      `yaml:"num_lines_per_match"`
	NumMatches       int      `yaml:"num_matches"`
	AllowSplitLines  bool     `yaml:"allow_split_lines,omitempty"`
	PreferredDays    []string `yaml:"preferred_days,omitempty"`
	BackupDays       []string `yaml:"backup_days,omitempty"`
	StartDate        string   `yaml:"start_date,omitempty"`
	EndDate          string   `yaml:"end_date,omitempty"`
}

// TeamDoc references its league and home facility by name.
type TeamDoc struct {
	ID            int      `yaml:"id"`
	Name          string   `yaml:"name"`
	League        string   `yaml:"league"`
	HomeFacility  string   `yaml:"home_facility"`
	Captain       string   `yaml:"captain,omitempty"`
	PreferredDays []string `yaml:"preferred_days,omitempty"`
}

// MatchDoc references league and teams by name. Facility, date, and times
// are empty for unscheduled matches.
type MatchDoc struct {
	ID          int      `yaml:"id"`
	League      string   `yaml:"league"`
	HomeTeam    string   `yaml:"home_team"`
	VisitorTeam string   `yaml:"visitor_team"`
	Round       int      `yaml:"round,omitempty"`
	NumRounds   float64  `yaml:"num_rounds,omitempty"`
	Facility    string   `yaml:"facility,omitempty"`
	Date        string   `yaml:"date,omitempty"`
	Times       []string `yaml:"times,omitempty"`
}

// Document is a complete entities file.
type Document struct {
	Facilities []FacilityDoc `yaml:"facilities,omitempty"`
	Leagues    []LeagueDoc   `yaml:"leagues,omitempty"`
	Teams      []TeamDoc     `yaml:"teams,omitempty"`
	Matches    []MatchDoc    `yaml:"matches,omitempty"`
}

// Parse decodes an entities document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing entities document: %v", model.ErrValidation, err)
	}
	return &doc, nil
}

// Load reads and parses an entities file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entities file: %w", err)
	}
	return Parse(data)
}

// Save writes the document as YAML.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding entities document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing entities file: %w", err)
	}
	return nil
}

func (f *FacilityDoc) toFacility() (*model.Facility, error) {
	out := &model.Facility{
		ID: f.ID, Name: f.Name, ShortName: f.ShortName,
		Location: f.Location, TotalCourts: f.TotalCourts,
		UnavailableDates: f.UnavailableDates,
	}
	for dayName, slots := range f.Schedule {
		wd, err := model.ParseWeekday(dayName)
		if err != nil {
			return nil, fmt.Errorf("facility %q: %w", f.Name, err)
		}
		ds := model.DaySchedule{Slots: make([]model.TimeSlot, len(slots))}
		for i, s := range slots {
			ds.Slots[i] = model.TimeSlot{Time: s.Time, Courts: s.Courts}
		}
		out.Schedule.Days[wd] = ds
	}
	return out, nil
}

func (l *LeagueDoc) toLeague() (*model.League, error) {
	preferred, err := model.ParseDays(l.PreferredDays)
	if err != nil {
		return nil, fmt.Errorf("league %q: %w", l.Name, err)
	}
	backup, err := model.ParseDays(l.BackupDays)
	if err != nil {
		return nil, fmt.Errorf("league %q: %w", l.Name, err)
	}
	return &model.League{
		ID: l.ID, Name: l.Name, Year: l.Year,
		Section: l.Section, Region: l.Region,
		AgeGroup: l.AgeGroup, Division: l.Division,
		NumLinesPerMatch: l.NumLinesPerMatch, NumMatches: l.NumMatches,
		AllowSplitLines: l.AllowSplitLines,
		PreferredDays:   preferred, BackupDays: backup,
		StartDate: l.StartDate, EndDate: l.EndDate,
	}, nil
}

// Import resolves the document's name references and loads everything into
// the store: facilities, then leagues, then teams, then matches.
func (d *Document) Import(st store.Store) error {
	facilityIDs := make(map[string]int)
	for i := range d.Facilities {
		f, err := d.Facilities[i].toFacility()
		if err != nil {
			return err
		}
		if err := st.AddFacility(f); err != nil {
			return err
		}
		facilityIDs[f.Name] = f.ID
	}

	leagueIDs := make(map[string]int)
	for i := range d.Leagues {
		l, err := d.Leagues[i].toLeague()
		if err != nil {
			return err
		}
		if err := st.AddLeague(l); err != nil {
			return err
		}
		leagueIDs[l.Name] = l.ID
	}

	teamIDs := make(map[string]int)
	for i := range d.Teams {
		td := &d.Teams[i]
		leagueID, ok := leagueIDs[td.League]
		if !ok {
			if leagueID, ok = lookupLeagueID(st, td.League); !ok {
				return fmt.Errorf("%w: team %q references unknown league %q",
					model.ErrIntegrity, td.Name, td.League)
			}
		}
		facilityID, ok := facilityIDs[td.HomeFacility]
		if !ok {
			if facilityID, ok = lookupFacilityID(st, td.HomeFacility); !ok {
				return fmt.Errorf("%w: team %q references unknown facility %q",
					model.ErrIntegrity, td.Name, td.HomeFacility)
			}
		}
		preferred, err := model.ParseDays(td.PreferredDays)
		if err != nil {
			return fmt.Errorf("team %q: %w", td.Name, err)
		}
		team := &model.Team{
			ID: td.ID, Name: td.Name, LeagueID: leagueID,
			HomeFacilityID: facilityID, Captain: td.Captain,
			PreferredDays: preferred,
		}
		if err := st.AddTeam(team); err != nil {
			return err
		}
		teamIDs[teamKey(td.League, td.Name)] = td.ID
	}

	for i := range d.Matches {
		md := &d.Matches[i]
		leagueID, ok := leagueIDs[md.League]
		if !ok {
			if leagueID, ok = lookupLeagueID(st, md.League); !ok {
				return fmt.Errorf("%w: match %d references unknown league %q",
					model.ErrIntegrity, md.ID, md.League)
			}
		}
		homeID, ok := teamIDs[teamKey(md.League, md.HomeTeam)]
		if !ok {
			if homeID, ok = lookupTeamID(st, leagueID, md.HomeTeam); !ok {
				return fmt.Errorf("%w: match %d references unknown team %q",
					model.ErrIntegrity, md.ID, md.HomeTeam)
			}
		}
		visitorID, ok := teamIDs[teamKey(md.League, md.VisitorTeam)]
		if !ok {
			if visitorID, ok = lookupTeamID(st, leagueID, md.VisitorTeam); !ok {
				return fmt.Errorf("%w: match %d references unknown team %q",
					model.ErrIntegrity, md.ID, md.VisitorTeam)
			}
		}
		facilityID := 0
		if md.Facility != "" {
			if facilityID, ok = facilityIDs[md.Facility]; !ok {
				if facilityID, ok = lookupFacilityID(st, md.Facility); !ok {
					return fmt.Errorf("%w: match %d references unknown facility %q",
						model.ErrIntegrity, md.ID, md.Facility)
				}
			}
		}
		m, err := model.LoadMatch(md.ID, leagueID, homeID, visitorID,
			md.Round, md.NumRounds, facilityID, md.Date, md.Times)
		if err != nil {
			return err
		}
		if err := st.AddMatch(m); err != nil {
			return err
		}
	}
	return nil
}

func teamKey(league, team string) string { return league + "\x00" + team }

func lookupLeagueID(st store.Store, name string) (int, bool) {
	leagues, err := st.ListLeagues()
	if err != nil {
		return 0, false
	}
	for _, l := range leagues {
		if l.Name == name {
			return l.ID, true
		}
	}
	return 0, false
}

func lookupTeamID(st store.Store, leagueID int, name string) (int, bool) {
	teams, err := st.ListTeams(leagueID)
	if err != nil {
		return 0, false
	}
	for _, t := range teams {
		if t.Name == name {
			return t.ID, true
		}
	}
	return 0, false
}

func lookupFacilityID(st store.Store, name string) (int, bool) {
	facilities, err := st.ListFacilities()
	if err != nil {
		return 0, false
	}
	for _, f := range facilities {
		if f.Name == name {
			return f.ID, true
		}
	}
	return 0, false
}

// Export snapshots the full store as an entities document.
func Export(st store.Store) (*Document, error) {
	doc := &Document{}

	facilities, err := st.ListFacilities()
	if err != nil {
		return nil, fmt.Errorf("listing facilities: %w", err)
	}
	facNames := make(map[int]string, len(facilities))
	for _, f := range facilities {
		facNames[f.ID] = f.Name
		fd := FacilityDoc{
			ID: f.ID, Name: f.Name, ShortName: f.ShortName,
			Location: f.Location, TotalCourts: f.TotalCourts,
			UnavailableDates: f.UnavailableDates,
		}
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			slots := f.Schedule.On(wd)
			if len(slots) == 0 {
				continue
			}
			if fd.Schedule == nil {
				fd.Schedule = make(map[string][]SlotDoc)
			}
			docSlots := make([]SlotDoc, len(slots))
			for i, s := range slots {
				docSlots[i] = SlotDoc{Time: s.Time, Courts: s.Courts}
			}
			fd.Schedule[dayKey(wd)] = docSlots
		}
		doc.Facilities = append(doc.Facilities, fd)
	}

	leagues, err := st.ListLeagues()
	if err != nil {
		return nil, fmt.Errorf("listing leagues: %w", err)
	}
	leagueNames := make(map[int]string, len(leagues))
	for _, l := range leagues {
		leagueNames[l.ID] = l.Name
		doc.Leagues = append(doc.Leagues, LeagueDoc{
			ID: l.ID, Name: l.Name, Year: l.Year,
			Section: l.Section, Region: l.Region,
			AgeGroup: l.AgeGroup, Division: l.Division,
			NumLinesPerMatch: l.NumLinesPerMatch, NumMatches: l.NumMatches,
			AllowSplitLines: l.AllowSplitLines,
			PreferredDays:   dayNames(l.PreferredDays), BackupDays: dayNames(l.BackupDays),
			StartDate: l.StartDate, EndDate: l.EndDate,
		})
	}

	teams, err := st.ListTeams(0)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	teamNames := make(map[int]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
		doc.Teams = append(doc.Teams, TeamDoc{
			ID: t.ID, Name: t.Name,
			League:       leagueNames[t.LeagueID],
			HomeFacility: facNames[t.HomeFacilityID],
			Captain:      t.Captain,
			PreferredDays: dayNames(t.PreferredDays),
		})
	}

	matches, err := st.ListMatches(store.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID() < matches[j].ID() })
	for _, m := range matches {
		md := MatchDoc{
			ID:          m.ID(),
			League:      leagueNames[m.LeagueID()],
			HomeTeam:    teamNames[m.HomeTeamID()],
			VisitorTeam: teamNames[m.VisitorTeamID()],
			Round:       m.Round,
			NumRounds:   m.NumRounds,
		}
		if m.IsScheduled() {
			md.Facility = facNames[m.FacilityID()]
			md.Date = m.Date()
			md.Times = m.ScheduledTimes()
		}
		doc.Matches = append(doc.Matches, md)
	}
	return doc, nil
}

func dayKey(wd time.Weekday) string {
	switch wd {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	}
	return "saturday"
}

func dayNames(d model.Days) []string {
	if d.IsEmpty() {
		return nil
	}
	return d.Names()
}
