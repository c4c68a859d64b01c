package league

import (
	"errors"
	"testing"
	"time"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

const entitiesYAML = `
facilities:
  - id: 1
    name: Himmel Park Tennis Center
    total_courts: 8
    schedule:
      saturday:
        - time: "09:00"
          courts: 4
        - time: "10:30"
          courts: 4
    unavailable_dates: ["2026-04-11"]

leagues:
  - id: 1
    name: Tucson 3.5M
    year: 2026
    section: USTA/SOUTHWEST
    region: SOUTHERN ARIZONA
    age_group: 18 & Over
    division: 3.5 Men
    num_lines_per_match: 3
    num_matches: 6
    allow_split_lines: true
    preferred_days: [Saturday]
    backup_days: [Sunday]
    start_date: "2026-04-01"
    end_date: "2026-06-30"

teams:
  - id: 10
    name: Aces
    league: Tucson 3.5M
    home_facility: Himmel Park Tennis Center
    captain: R. Laver
    preferred_days: [Saturday]
  - id: 11
    name: Baseliners
    league: Tucson 3.5M
    home_facility: Himmel Park Tennis Center

matches:
  - id: 500
    league: Tucson 3.5M
    home_team: Aces
    visitor_team: Baseliners
    round: 1
    num_rounds: 3
    facility: Himmel Park Tennis Center
    date: "2026-04-04"
    times: ["09:00", "09:00", "09:00"]
  - id: 501
    league: Tucson 3.5M
    home_team: Baseliners
    visitor_team: Aces
    round: 2
    num_rounds: 3
`

func TestImport(t *testing.T) {
	doc, err := Parse([]byte(entitiesYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := store.NewMemory()
	if err := doc.Import(st); err != nil {
		t.Fatalf("Import: %v", err)
	}

	t.Run("facility schedule and short name", func(t *testing.T) {
		f, err := st.GetFacility(1)
		if err != nil || f == nil {
			t.Fatalf("GetFacility: %v, %v", f, err)
		}
		if f.ShortName != "HPTC" {
			t.Errorf("ShortName = %q, want HPTC", f.ShortName)
		}
		if got := f.CourtsAt("2026-04-04", "10:30"); got != 4 {
			t.Errorf("CourtsAt = %d, want 4", got)
		}
		if f.IsAvailableOn("2026-04-11") {
			t.Error("2026-04-11 should be unavailable")
		}
	})

	t.Run("league day sets parsed", func(t *testing.T) {
		l, err := st.GetLeague(1)
		if err != nil || l == nil {
			t.Fatalf("GetLeague: %v, %v", l, err)
		}
		if !l.PreferredDays.Contains(time.Saturday) || !l.BackupDays.Contains(time.Sunday) {
			t.Errorf("days = %v / %v", l.PreferredDays, l.BackupDays)
		}
	})

	t.Run("team references resolved by name", func(t *testing.T) {
		team, err := st.GetTeam(10)
		if err != nil || team == nil {
			t.Fatalf("GetTeam: %v, %v", team, err)
		}
		if team.LeagueID != 1 || team.HomeFacilityID != 1 {
			t.Errorf("team refs = league %d, facility %d", team.LeagueID, team.HomeFacilityID)
		}
		if team.Captain != "R. Laver" {
			t.Errorf("captain = %q", team.Captain)
		}
	})

	t.Run("matches keep scheduling state", func(t *testing.T) {
		matches, err := st.ListMatches(store.MatchFilter{})
		if err != nil || len(matches) != 2 {
			t.Fatalf("ListMatches: %d, %v", len(matches), err)
		}
		if !matches[0].IsScheduled() || matches[0].Date() != "2026-04-04" {
			t.Errorf("match 500 = %+v", matches[0])
		}
		if matches[1].IsScheduled() {
			t.Error("match 501 should be unscheduled")
		}
		if matches[1].HomeTeamID() != 11 || matches[1].VisitorTeamID() != 10 {
			t.Errorf("match 501 teams = %d vs %d",
				matches[1].HomeTeamID(), matches[1].VisitorTeamID())
		}
	})
}

func TestImportUnknownReferences(t *testing.T) {
	cases := []struct {
		name string
		doc  Document
	}{
		{"unknown league", Document{
			Teams: []TeamDoc{{ID: 10, Name: "Aces", League: "Nope", HomeFacility: "X"}},
		}},
		{"unknown facility", Document{
			Leagues: []LeagueDoc{{ID: 1, Name: "L", Year: 2026,
				Section: "USTA/SOUTHWEST", Region: "SOUTHERN ARIZONA",
				AgeGroup: "18 & Over", Division: "3.5 Men",
				NumLinesPerMatch: 3, NumMatches: 6}},
			Teams: []TeamDoc{{ID: 10, Name: "Aces", League: "L", HomeFacility: "Nope"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.doc.Import(store.NewMemory()); !errors.Is(err, model.ErrIntegrity) {
				t.Errorf("want ErrIntegrity, got %v", err)
			}
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(entitiesYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := store.NewMemory()
	if err := doc.Import(st); err != nil {
		t.Fatalf("Import: %v", err)
	}

	exported, err := Export(st)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Re-import the export into a fresh store and compare the essentials.
	st2 := store.NewMemory()
	if err := exported.Import(st2); err != nil {
		t.Fatalf("re-import: %v", err)
	}

	l, _ := st2.GetLeague(1)
	if l == nil || l.Name != "Tucson 3.5M" || !l.AllowSplitLines {
		t.Errorf("league did not survive the round trip: %+v", l)
	}
	f, _ := st2.GetFacility(1)
	if f == nil || f.CourtsAt("2026-04-04", "09:00") != 4 {
		t.Error("facility schedule did not survive the round trip")
	}
	matches, _ := st2.ListMatches(store.MatchFilter{Type: store.MatchScheduled})
	if len(matches) != 1 || matches[0].ID() != 500 {
		t.Errorf("scheduled matches after round trip = %v", matches)
	}
	if got := matches[0].ScheduledTimes(); len(got) != 3 || got[0] != "09:00" {
		t.Errorf("times after round trip = %v", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	doc, err := Parse([]byte(entitiesYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	path := t.TempDir() + "/entities.yaml"
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Teams) != 2 || len(loaded.Matches) != 2 {
		t.Errorf("loaded %d teams, %d matches", len(loaded.Teams), len(loaded.Matches))
	}
}
