package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

// Row types mirror the table layouts. Nested structures (day lists, weekly
// schedules, scheduled times) travel as JSON text columns so the scheduling
// core never sees SQL types.

type leagueRow struct {
	ID               int    `db:"id"`
	Name             string `db:"name"`
	Year             int    `db:"year"`
	Section          string `db:"section"`
	Region           string `db:"region"`
	AgeGroup         string `db:"age_group"`
	Division         string `db:"division"`
	NumLinesPerMatch int    `db:"num_lines_per_match"`
	NumMatches       int    `db:"num_matches"`
	AllowSplitLines  bool   `db:"allow_split_lines"`
	PreferredDays    string `db:"preferred_days"`
	BackupDays       string `db:"backup_days"`
	StartDate        string `db:"start_date"`
	EndDate          string `db:"end_date"`
}

type teamRow struct {
	ID             int    `db:"id"`
	Name           string `db:"name"`
	LeagueID       int    `db:"league_id"`
	HomeFacilityID int    `db:"home_facility_id"`
	Captain        string `db:"captain"`
	PreferredDays  string `db:"preferred_days"`
}

type facilityRow struct {
	ID               int    `db:"id"`
	Name             string `db:"name"`
	ShortName        string `db:"short_name"`
	Location         string `db:"location"`
	TotalCourts      int    `db:"total_courts"`
	Schedule         string `db:"schedule"`
	UnavailableDates string `db:"unavailable_dates"`
}

type matchRow struct {
	ID             int     `db:"id"`
	LeagueID       int     `db:"league_id"`
	HomeTeamID     int     `db:"home_team_id"`
	VisitorTeamID  int     `db:"visitor_team_id"`
	Round          int     `db:"round"`
	NumRounds      float64 `db:"num_rounds"`
	FacilityID     int     `db:"facility_id"`
	Date           string  `db:"date"`
	ScheduledTimes string  `db:"scheduled_times"`
}

func jsonColumn(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding column: %w", err)
	}
	return string(b), nil
}

func daysColumn(d model.Days) (string, error) {
	ints := make([]int, len(d))
	for i, w := range d {
		ints[i] = int(w)
	}
	return jsonColumn(ints)
}

func daysFromColumn(s string) (model.Days, error) {
	if s == "" {
		return nil, nil
	}
	var ints []int
	if err := json.Unmarshal([]byte(s), &ints); err != nil {
		return nil, fmt.Errorf("decoding day list: %w", err)
	}
	if len(ints) == 0 {
		return nil, nil
	}
	days := make(model.Days, len(ints))
	for i, n := range ints {
		days[i] = time.Weekday(n)
	}
	return days, nil
}

func leagueToRow(l *model.League) (*leagueRow, error) {
	preferred, err := daysColumn(l.PreferredDays)
	if err != nil {
		return nil, err
	}
	backup, err := daysColumn(l.BackupDays)
	if err != nil {
		return nil, err
	}
	return &leagueRow{
		ID: l.ID, Name: l.Name, Year: l.Year,
		Section: l.Section, Region: l.Region,
		AgeGroup: l.AgeGroup, Division: l.Division,
		NumLinesPerMatch: l.NumLinesPerMatch, NumMatches: l.NumMatches,
		AllowSplitLines: l.AllowSplitLines,
		PreferredDays:   preferred, BackupDays: backup,
		StartDate: l.StartDate, EndDate: l.EndDate,
	}, nil
}

func (r *leagueRow) toLeague() (*model.League, error) {
	preferred, err := daysFromColumn(r.PreferredDays)
	if err != nil {
		return nil, err
	}
	backup, err := daysFromColumn(r.BackupDays)
	if err != nil {
		return nil, err
	}
	return &model.League{
		ID: r.ID, Name: r.Name, Year: r.Year,
		Section: r.Section, Region: r.Region,
		AgeGroup: r.AgeGroup, Division: r.Division,
		NumLinesPerMatch: r.NumLinesPerMatch, NumMatches: r.NumMatches,
		AllowSplitLines: r.AllowSplitLines,
		PreferredDays:   preferred, BackupDays: backup,
		StartDate: r.StartDate, EndDate: r.EndDate,
	}, nil
}

func teamToRow(t *model.Team) (*teamRow, error) {
	preferred, err := daysColumn(t.PreferredDays)
	if err != nil {
		return nil, err
	}
	return &teamRow{
		ID: t.ID, Name: t.Name, LeagueID: t.LeagueID,
		HomeFacilityID: t.HomeFacilityID, Captain: t.Captain,
		PreferredDays: preferred,
	}, nil
}

func (r *teamRow) toTeam() (*model.Team, error) {
	preferred, err := daysFromColumn(r.PreferredDays)
	if err != nil {
		return nil, err
	}
	return &model.Team{
		ID: r.ID, Name: r.Name, LeagueID: r.LeagueID,
		HomeFacilityID: r.HomeFacilityID, Captain: r.Captain,
		PreferredDays: preferred,
	}, nil
}

func facilityToRow(f *model.Facility) (*facilityRow, error) {
	schedule, err := jsonColumn(f.Schedule)
	if err != nil {
		return nil, err
	}
	unavailable, err := jsonColumn(f.UnavailableDates)
	if err != nil {
		return nil, err
	}
	return &facilityRow{
		ID: f.ID, Name: f.Name, ShortName: f.ShortName,
		Location: f.Location, TotalCourts: f.TotalCourts,
		Schedule: schedule, UnavailableDates: unavailable,
	}, nil
}

func (r *facilityRow) toFacility() (*model.Facility, error) {
	f := &model.Facility{
		ID: r.ID, Name: r.Name, ShortName: r.ShortName,
		Location: r.Location, TotalCourts: r.TotalCourts,
	}
	if r.Schedule != "" {
		if err := json.Unmarshal([]byte(r.Schedule), &f.Schedule); err != nil {
			return nil, fmt.Errorf("decoding facility schedule: %w", err)
		}
	}
	if r.UnavailableDates != "" && r.UnavailableDates != "null" {
		if err := json.Unmarshal([]byte(r.UnavailableDates), &f.UnavailableDates); err != nil {
			return nil, fmt.Errorf("decoding unavailable dates: %w", err)
		}
	}
	return f, nil
}

func matchToRow(m *model.Match) (*matchRow, error) {
	times, err := jsonColumn(m.ScheduledTimes())
	if err != nil {
		return nil, err
	}
	return &matchRow{
		ID: m.ID(), LeagueID: m.LeagueID(),
		HomeTeamID: m.HomeTeamID(), VisitorTeamID: m.VisitorTeamID(),
		Round: m.Round, NumRounds: m.NumRounds,
		FacilityID: m.FacilityID(), Date: m.Date(),
		ScheduledTimes: times,
	}, nil
}

func (r *matchRow) toMatch() (*model.Match, error) {
	var times []string
	if r.ScheduledTimes != "" && r.ScheduledTimes != "null" {
		if err := json.Unmarshal([]byte(r.ScheduledTimes), &times); err != nil {
			return nil, fmt.Errorf("decoding scheduled times: %w", err)
		}
	}
	return model.LoadMatch(r.ID, r.LeagueID, r.HomeTeamID, r.VisitorTeamID,
		r.Round, r.NumRounds, r.FacilityID, r.Date, times)
}
