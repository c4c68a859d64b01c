// Package pairing generates a league's unscheduled match list using the
// circle-method round robin, balancing home/away assignments incrementally
// and alternating home/away on rematches.
package pairing

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

type pairKey struct {
	a, b int // team indices, a < b
}

func normalizePair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Generate produces the unscheduled matches for a league from its roster.
// The per-team match target is adjusted upward when the total slot count
// (teams × matches) would be odd, since each match consumes two slots.
// Match IDs are derived from a hash of the league's identity so regeneration
// for the same league reproduces identical IDs.
func Generate(teams []*model.Team, league *model.League) ([]*model.Match, error) {
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("%w: league %q: at least 2 teams required, got %d",
			model.ErrValidation, league.Name, n)
	}
	if league.NumMatches < 1 {
		return nil, fmt.Errorf("%w: league %q: matches per team must be >= 1",
			model.ErrValidation, league.Name)
	}

	quota := league.NumMatches
	if (n*quota)%2 != 0 {
		quota++
	}
	if (n*quota)%2 != 0 {
		return nil, fmt.Errorf("%w: league %q: total slot count %d is odd",
			model.ErrValidation, league.Name, n*quota)
	}

	// Circle arrangement. Odd rosters get a synthetic bye at the last index;
	// pairings involving the bye are dropped.
	size := n
	bye := -1
	if n%2 == 1 {
		size++
		bye = size - 1
	}
	circle := make([]int, size)
	for i := range circle {
		circle[i] = i
	}

	base := matchIDBase(league)
	total := make([]int, n)
	homeGames := make([]int, n)
	lastHome := make(map[pairKey]int)

	var matches []*model.Match
	seq := 0
	round := 0
	maxRounds := size * (quota + 2)

	for !allAtQuota(total, quota) {
		round++
		if round > maxRounds {
			return nil, fmt.Errorf("%w: league %q: could not balance match quotas after %d rounds",
				model.ErrValidation, league.Name, maxRounds)
		}

		cands := roundPairings(circle, bye)
		// Balance-aware order within the round: pairs whose teams have the
		// fewest total matches first, then fewest home games. Keeps a partial
		// final cycle as fair as possible.
		sort.SliceStable(cands, func(i, j int) bool {
			ti := total[cands[i].a] + total[cands[i].b]
			tj := total[cands[j].a] + total[cands[j].b]
			if ti != tj {
				return ti < tj
			}
			hi := homeGames[cands[i].a] + homeGames[cands[i].b]
			hj := homeGames[cands[j].a] + homeGames[cands[j].b]
			return hi < hj
		})

		for _, c := range cands {
			if total[c.a] >= quota || total[c.b] >= quota {
				continue
			}
			home, visitor := assignHome(c.a, c.b, homeGames, lastHome)
			seq++
			m := model.NewMatch(base+seq, league.ID, teams[home].ID, teams[visitor].ID)
			m.Round = round
			matches = append(matches, m)

			total[c.a]++
			total[c.b]++
			homeGames[home]++
			lastHome[normalizePair(c.a, c.b)] = home
		}

		rotate(circle)
	}

	rebalanceHomeAway(matches, teams)

	matchesPerRound := n / 2
	if n%2 == 1 {
		matchesPerRound = (n - 1) / 2
	}
	numRounds := float64(len(matches)) / float64(matchesPerRound)
	for _, m := range matches {
		m.NumRounds = numRounds
	}

	return matches, nil
}

type pairing struct {
	a, b int
}

// roundPairings pairs circle[i] with circle[size-1-i], dropping bye pairs.
func roundPairings(circle []int, bye int) []pairing {
	size := len(circle)
	var out []pairing
	for i := 0; i < size/2; i++ {
		a, b := circle[i], circle[size-1-i]
		if a == bye || b == bye {
			continue
		}
		out = append(out, pairing{a, b})
	}
	return out
}

// rotate advances the circle one position, keeping index 0 fixed.
func rotate(circle []int) {
	size := len(circle)
	last := circle[size-1]
	copy(circle[2:], circle[1:size-1])
	circle[1] = last
}

// assignHome picks the home team for a pairing. First meetings go to the
// team with fewer home games so far (ties to the earlier roster position);
// rematches reverse the previous meeting's assignment.
func assignHome(a, b int, homeGames []int, lastHome map[pairKey]int) (home, visitor int) {
	if last, ok := lastHome[normalizePair(a, b)]; ok {
		if last == a {
			return b, a
		}
		return a, b
	}
	switch {
	case homeGames[a] < homeGames[b]:
		return a, b
	case homeGames[b] < homeGames[a]:
		return b, a
	case a < b:
		return a, b
	default:
		return b, a
	}
}

func allAtQuota(total []int, quota int) bool {
	for _, t := range total {
		if t < quota {
			return false
		}
	}
	return true
}

// rebalanceHomeAway evens out each team's home/away split after generation.
// Pairs meeting an even number of times are already split evenly by rematch
// alternation. A pair meeting an odd number of times carries a one-game
// majority for the team hosting its first meeting, and flipping home/visitor
// in every meeting of that pair keeps alternation intact while handing the
// majority to the other team. Each team's imbalance is the signed sum of the
// majorities it holds, so reversing majorities along a path from an
// over-home team to an over-away team moves one home game between the
// endpoints and leaves every team in between unchanged.
func rebalanceHomeAway(matches []*model.Match, teams []*model.Team) {
	n := len(teams)
	idx := make(map[int]int, n)
	for i, t := range teams {
		idx[t.ID] = i
	}

	meetings := make(map[pairKey][]int)
	diff := make([]int, n) // home games minus away games per team index
	for mi, m := range matches {
		h, v := idx[m.HomeTeamID()], idx[m.VisitorTeamID()]
		meetings[normalizePair(h, v)] = append(meetings[normalizePair(h, v)], mi)
		diff[h]++
		diff[v]--
	}

	majority := make(map[pairKey]int)
	adj := make([][]int, n)
	for k, ms := range meetings {
		if len(ms)%2 == 0 {
			continue
		}
		majority[k] = idx[matches[ms[0]].HomeTeamID()]
		adj[k.a] = append(adj[k.a], k.b)
		adj[k.b] = append(adj[k.b], k.a)
	}

	flip := func(k pairKey) {
		for _, mi := range meetings[k] {
			old := matches[mi]
			m := model.NewMatch(old.ID(), old.LeagueID(), old.VisitorTeamID(), old.HomeTeamID())
			m.Round = old.Round
			m.NumRounds = old.NumRounds
			matches[mi] = m
		}
		if majority[k] == k.a {
			majority[k] = k.b
		} else {
			majority[k] = k.a
		}
	}

	for {
		x := -1
		for i := range diff {
			if (diff[i] > 1 || diff[i] < -1) && (x < 0 || absInt(diff[i]) > absInt(diff[x])) {
				x = i
			}
		}
		if x < 0 {
			return
		}

		// BFS from x along edges whose majority sits on the near side (or the
		// far side, when x is short on home games) to the nearest team that
		// can absorb the transfer.
		overHome := diff[x] > 0
		parent := make([]int, n)
		for i := range parent {
			parent[i] = -1
		}
		parent[x] = x
		queue := []int{x}
		y := -1
		for len(queue) > 0 && y < 0 {
			v := queue[0]
			queue = queue[1:]
			for _, u := range adj[v] {
				if parent[u] >= 0 {
					continue
				}
				if (majority[normalizePair(u, v)] == v) != overHome {
					continue
				}
				parent[u] = v
				if (overHome && diff[u] < 0) || (!overHome && diff[u] > 0) {
					y = u
					break
				}
				queue = append(queue, u)
			}
		}
		if y < 0 {
			return
		}

		for v := y; v != x; v = parent[v] {
			flip(normalizePair(v, parent[v]))
		}
		if overHome {
			diff[x] -= 2
			diff[y] += 2
		} else {
			diff[x] += 2
			diff[y] -= 2
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// matchIDBase derives a stable per-league ID base from the league identity.
func matchIDBase(league *model.League) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d|%d|%s|%s|%s", league.ID, league.Year, league.Name, league.Section, league.Division)
	return int(h.Sum32()%1_000_000) * 1000
}
