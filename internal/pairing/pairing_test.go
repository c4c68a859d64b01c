package pairing

import (
	"errors"
	"testing"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

func testLeague(numMatches int) *model.League {
	return &model.League{
		ID:               1,
		Name:             "Tucson 3.5M",
		Year:             2026,
		Section:          "USTA/SOUTHWEST",
		Region:           "SOUTHERN ARIZONA",
		AgeGroup:         "18 & Over",
		Division:         "3.5 Men",
		NumLinesPerMatch: 3,
		NumMatches:       numMatches,
	}
}

func testTeams(n int) []*model.Team {
	teams := make([]*model.Team, n)
	for i := range teams {
		teams[i] = &model.Team{
			ID:             100 + i,
			Name:           string(rune('A' + i)),
			LeagueID:       1,
			HomeFacilityID: 1,
		}
	}
	return teams
}

func countAppearances(matches []*model.Match) (total, home, away map[int]int) {
	total = make(map[int]int)
	home = make(map[int]int)
	away = make(map[int]int)
	for _, m := range matches {
		total[m.HomeTeamID()]++
		total[m.VisitorTeamID()]++
		home[m.HomeTeamID()]++
		away[m.VisitorTeamID()]++
	}
	return
}

func TestGenerateFourTeamsThreeMatches(t *testing.T) {
	teams := testTeams(4)
	matches, err := Generate(teams, testLeague(3))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("three rounds of two matches, six total", func(t *testing.T) {
		if len(matches) != 6 {
			t.Fatalf("generated %d matches, want 6", len(matches))
		}
		rounds := make(map[int]int)
		for _, m := range matches {
			rounds[m.Round]++
		}
		if len(rounds) != 3 {
			t.Errorf("matches span %d rounds, want 3", len(rounds))
		}
		for r, c := range rounds {
			if c != 2 {
				t.Errorf("round %d has %d matches, want 2", r, c)
			}
		}
	})

	t.Run("each team plays exactly three matches", func(t *testing.T) {
		total, _, _ := countAppearances(matches)
		for _, team := range teams {
			if total[team.ID] != 3 {
				t.Errorf("team %d plays %d matches, want 3", team.ID, total[team.ID])
			}
		}
	})

	t.Run("home/away deviation at most one", func(t *testing.T) {
		_, home, away := countAppearances(matches)
		for _, team := range teams {
			diff := home[team.ID] - away[team.ID]
			if diff < -1 || diff > 1 {
				t.Errorf("team %d imbalance: %d home, %d away", team.ID, home[team.ID], away[team.ID])
			}
		}
	})

	t.Run("num rounds is three", func(t *testing.T) {
		for _, m := range matches {
			if m.NumRounds != 3.0 {
				t.Errorf("NumRounds = %v, want 3", m.NumRounds)
			}
		}
	})
}

func TestGenerateCompleteness(t *testing.T) {
	cases := []struct {
		teams      int
		matches    int
		wantPerTeam int
	}{
		{2, 4, 4},
		{4, 6, 6},
		{6, 5, 5},
		{8, 14, 14}, // two full cycles
		{5, 2, 2},   // partial cycle with byes
		{7, 4, 4},
	}
	for _, c := range cases {
		teams := testTeams(c.teams)
		matches, err := Generate(teams, testLeague(c.matches))
		if err != nil {
			t.Fatalf("Generate(%d teams, %d matches) error: %v", c.teams, c.matches, err)
		}
		total, _, _ := countAppearances(matches)
		for _, team := range teams {
			if total[team.ID] != c.wantPerTeam {
				t.Errorf("%d teams / %d matches: team %d plays %d, want %d",
					c.teams, c.matches, team.ID, total[team.ID], c.wantPerTeam)
			}
		}
	}
}

func TestGenerateOddSlotAdjustment(t *testing.T) {
	// 3 teams x 3 matches = 9 slots (odd): quota is bumped to 4.
	teams := testTeams(3)
	matches, err := Generate(teams, testLeague(3))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	total, _, _ := countAppearances(matches)
	for _, team := range teams {
		if total[team.ID] != 4 {
			t.Errorf("team %d plays %d matches, want 4 after adjustment", team.ID, total[team.ID])
		}
	}
}

func TestGenerateHomeAwayBalanceBound(t *testing.T) {
	// Full grid: every roster size and match quota a season realistically
	// uses. The bound depends on the parity of the per-team quota after the
	// odd-slot adjustment, not of the requested match count.
	for n := 2; n <= 12; n++ {
		for q := 1; q <= 14; q++ {
			teams := testTeams(n)
			matches, err := Generate(teams, testLeague(q))
			if err != nil {
				t.Fatalf("Generate(%d teams, %d matches) error: %v", n, q, err)
			}

			quota := q
			if (n*quota)%2 == 1 {
				quota++
			}
			bound := 1
			if quota%2 == 1 {
				bound = 2
			}

			total, home, away := countAppearances(matches)
			for _, team := range teams {
				if total[team.ID] != quota {
					t.Errorf("%d teams / %d matches: team %d plays %d, want %d",
						n, q, team.ID, total[team.ID], quota)
				}
				diff := home[team.ID] - away[team.ID]
				if diff < 0 {
					diff = -diff
				}
				if diff > bound {
					t.Errorf("%d teams / %d matches: team %d |home-away| = %d, want <= %d",
						n, q, team.ID, diff, bound)
				}
			}

			// Rebalancing must not break alternation between rematches.
			lastHome := make(map[pairKey]int)
			for _, m := range matches {
				k := normalizePair(m.HomeTeamID(), m.VisitorTeamID())
				if prev, ok := lastHome[k]; ok && prev == m.HomeTeamID() {
					t.Errorf("%d teams / %d matches: teams %d and %d repeat a home side",
						n, q, m.HomeTeamID(), m.VisitorTeamID())
				}
				lastHome[k] = m.HomeTeamID()
			}
		}
	}
}

func TestGenerateRematchAlternation(t *testing.T) {
	matches, err := Generate(testTeams(4), testLeague(9))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	type pair struct{ a, b int }
	lastHome := make(map[pair]int)
	for _, m := range matches {
		a, b := m.HomeTeamID(), m.VisitorTeamID()
		k := pair{a, b}
		if k.a > k.b {
			k.a, k.b = k.b, k.a
		}
		if prev, ok := lastHome[k]; ok && prev == m.HomeTeamID() {
			t.Errorf("pair (%d,%d): team %d home twice in a row", k.a, k.b, prev)
		}
		lastHome[k] = m.HomeTeamID()
	}
}

func TestGenerateDeterministicIDs(t *testing.T) {
	teams := testTeams(6)
	first, err := Generate(teams, testLeague(5))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	second, err := Generate(teams, testLeague(5))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("regeneration changed match count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID() != second[i].ID() {
			t.Errorf("match %d: id %d vs %d", i, first[i].ID(), second[i].ID())
		}
	}

	// A different league identity produces a different ID base.
	other := testLeague(5)
	other.Name = "Phoenix 4.0M"
	otherMatches, err := Generate(teams, other)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if otherMatches[0].ID() == first[0].ID() {
		t.Error("different league identity reused the same ID base")
	}
}

func TestGenerateValidation(t *testing.T) {
	t.Run("fewer than two teams", func(t *testing.T) {
		_, err := Generate(testTeams(1), testLeague(4))
		if !errors.Is(err, model.ErrValidation) {
			t.Errorf("want ErrValidation, got %v", err)
		}
	})
	t.Run("matches per team below one", func(t *testing.T) {
		_, err := Generate(testTeams(4), testLeague(0))
		if !errors.Is(err, model.ErrValidation) {
			t.Errorf("want ErrValidation, got %v", err)
		}
	})
}

func TestGenerateMatchesAreUnscheduled(t *testing.T) {
	matches, err := Generate(testTeams(4), testLeague(3))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	for _, m := range matches {
		if m.IsScheduled() {
			t.Errorf("match %d generated already scheduled", m.ID())
		}
	}
}
