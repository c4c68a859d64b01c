package ranker

import (
	"errors"
	"testing"
	"time"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

func rankingLeague() *model.League {
	return &model.League{
		ID: 1, Name: "Tucson 3.5M", Year: 2026,
		Section: "USTA/SOUTHWEST", Region: "SOUTHERN ARIZONA",
		AgeGroup: "18 & Over", Division: "3.5 Men",
		NumLinesPerMatch: 3, NumMatches: 6,
		PreferredDays: model.Days{time.Saturday},
		BackupDays:    model.Days{time.Sunday},
		StartDate:     "2026-04-01", EndDate: "2026-04-30",
	}
}

func team(id int, days ...time.Weekday) *model.Team {
	return &model.Team{ID: id, Name: "T", LeagueID: 1, HomeFacilityID: 1, PreferredDays: model.Days(days)}
}

func TestRankDatesRequiredDays(t *testing.T) {
	league := rankingLeague()
	home := team(10, time.Saturday)
	visitor := team(11) // no preference

	cands, err := RankDates(league, home, visitor, Options{})
	if err != nil {
		t.Fatalf("RankDates() error: %v", err)
	}

	t.Run("saturdays are tier 1, sundays dropped", func(t *testing.T) {
		if len(cands) == 0 {
			t.Fatal("no candidates returned")
		}
		for _, c := range cands {
			wd, _ := model.WeekdayOf(c.Date)
			if wd == time.Sunday {
				t.Errorf("Sunday %s should be dropped by the required-days filter", c.Date)
			}
			if wd == time.Saturday && c.Tier != TierRequiredPreferred {
				t.Errorf("%s tier = %d, want %d", c.Date, c.Tier, TierRequiredPreferred)
			}
		}
	})

	t.Run("sorted by tier then date", func(t *testing.T) {
		for i := 1; i < len(cands); i++ {
			if cands[i].Tier < cands[i-1].Tier {
				t.Fatalf("tiers out of order at %d: %+v", i, cands)
			}
			if cands[i].Tier == cands[i-1].Tier && cands[i].Date < cands[i-1].Date {
				t.Fatalf("dates out of order at %d: %+v", i, cands)
			}
		}
	})
}

func TestRankDatesNoTeamConstraint(t *testing.T) {
	league := rankingLeague()
	cands, err := RankDates(league, team(10), team(11), Options{})
	if err != nil {
		t.Fatalf("RankDates() error: %v", err)
	}
	// April 2026: Saturdays 4, 11, 18, 25; Sundays 5, 12, 19, 26.
	if len(cands) != 8 {
		t.Fatalf("got %d candidates, want 8", len(cands))
	}
	for _, c := range cands {
		wd, _ := model.WeekdayOf(c.Date)
		switch wd {
		case time.Saturday:
			if c.Tier != TierPreferred {
				t.Errorf("%s tier = %d, want %d", c.Date, c.Tier, TierPreferred)
			}
		case time.Sunday:
			if c.Tier != TierBackup {
				t.Errorf("%s tier = %d, want %d", c.Date, c.Tier, TierBackup)
			}
		default:
			t.Errorf("unexpected weekday %s for %s", wd, c.Date)
		}
	}
	// All Saturdays sort before all Sundays.
	if wd, _ := model.WeekdayOf(cands[0].Date); wd != time.Saturday {
		t.Errorf("best candidate is %s, want a Saturday", cands[0].Date)
	}
}

func TestRankDatesDisjointPreferences(t *testing.T) {
	league := rankingLeague()
	_, err := RankDates(league, team(10, time.Saturday), team(11, time.Sunday), Options{})
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("want ErrConflict for disjoint team preferences, got %v", err)
	}
}

func TestRankDatesIgnoreFlags(t *testing.T) {
	league := rankingLeague()

	t.Run("ignore team prefs lifts the hard filter", func(t *testing.T) {
		cands, err := RankDates(league, team(10, time.Saturday), team(11, time.Sunday),
			Options{IgnoreTeamPrefs: true})
		if err != nil {
			t.Fatalf("RankDates() error: %v", err)
		}
		if len(cands) != 8 {
			t.Errorf("got %d candidates, want 8", len(cands))
		}
	})

	t.Run("ignore league prefs admits any weekday", func(t *testing.T) {
		cands, err := RankDates(league, team(10), team(11), Options{IgnoreLeaguePrefs: true})
		if err != nil {
			t.Fatalf("RankDates() error: %v", err)
		}
		if len(cands) != 30 { // every April day
			t.Errorf("got %d candidates, want 30", len(cands))
		}
	})
}

func TestRankDatesLimitAndWindow(t *testing.T) {
	league := rankingLeague()
	cands, err := RankDates(league, team(10), team(11), Options{
		Start: "2026-04-01", End: "2026-04-12", Limit: 2,
	})
	if err != nil {
		t.Fatalf("RankDates() error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].Date != "2026-04-04" || cands[1].Date != "2026-04-11" {
		t.Errorf("candidates = %+v, want the two Saturdays", cands)
	}

	if _, err := RankDates(league, team(10), team(11), Options{Start: "2026-04-12", End: "2026-04-01"}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("inverted window should fail validation, got %v", err)
	}
}

func TestRankDatesPartialLeagueWindow(t *testing.T) {
	t.Run("start bound kept when the league has no end date", func(t *testing.T) {
		league := rankingLeague()
		league.StartDate = "2020-01-01"
		league.EndDate = ""
		cands, err := RankDates(league, team(10), team(11), Options{Limit: 3})
		if err != nil {
			t.Fatalf("RankDates() error: %v", err)
		}
		if len(cands) == 0 || cands[0].Date != "2020-01-04" {
			t.Errorf("candidates = %+v, want the first Saturday after the league start", cands)
		}
	})

	t.Run("end bound kept when the league has no start date", func(t *testing.T) {
		// Start falls back to today, which is past the league's end.
		league := rankingLeague()
		league.StartDate = ""
		league.EndDate = "2020-02-01"
		if _, err := RankDates(league, team(10), team(11), Options{}); !errors.Is(err, model.ErrValidation) {
			t.Errorf("want ErrValidation for an inverted effective window, got %v", err)
		}
	})
}

func TestRequiredDaysUnion(t *testing.T) {
	league := rankingLeague()
	required, err := RequiredDays(league, team(10, time.Saturday), team(11))
	if err != nil {
		t.Fatalf("RequiredDays() error: %v", err)
	}
	if len(required) != 1 || required[0] != time.Saturday {
		t.Errorf("required = %v, want [Saturday]", required)
	}

	required, err = RequiredDays(league, team(10), team(11))
	if err != nil || required != nil {
		t.Errorf("no preferences should yield no constraint, got %v, %v", required, err)
	}
}
