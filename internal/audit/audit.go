// Package audit checks committed schedules for integrity problems: double
// bookings, over-capacity slots, incomplete seasons, and preference misses.
package audit

import (
	"fmt"
	"sort"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// Finding is one problem found during an audit.
type Finding struct {
	Type    string // "error" or "warning"
	MatchID int    // 0 when the finding is not tied to one match
	Message string
}

// Errors counts the error-level findings.
func Errors(findings []Finding) int {
	n := 0
	for _, f := range findings {
		if f.Type == "error" {
			n++
		}
	}
	return n
}

// Run audits one league, or every league when leagueID is 0.
func Run(st store.Store, leagueID int) ([]Finding, error) {
	var leagues []*model.League
	if leagueID != 0 {
		l, err := st.GetLeague(leagueID)
		if err != nil {
			return nil, fmt.Errorf("looking up league %d: %w", leagueID, err)
		}
		if l == nil {
			return nil, fmt.Errorf("%w: league %d not found", model.ErrIntegrity, leagueID)
		}
		leagues = append(leagues, l)
	} else {
		all, err := st.ListLeagues()
		if err != nil {
			return nil, fmt.Errorf("listing leagues: %w", err)
		}
		leagues = all
	}

	var findings []Finding
	for _, l := range leagues {
		fs, err := auditLeague(st, l)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fs...)
	}

	capFindings, err := checkCapacity(st)
	if err != nil {
		return nil, err
	}
	findings = append(findings, capFindings...)
	return findings, nil
}

func auditLeague(st store.Store, league *model.League) ([]Finding, error) {
	matches, err := st.ListMatches(store.MatchFilter{LeagueID: league.ID})
	if err != nil {
		return nil, fmt.Errorf("listing matches for league %d: %w", league.ID, err)
	}
	teams, err := st.ListTeams(league.ID)
	if err != nil {
		return nil, fmt.Errorf("listing teams for league %d: %w", league.ID, err)
	}
	teamByID := make(map[int]*model.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	var findings []Finding
	findings = append(findings, checkReferences(matches, teamByID)...)
	findings = append(findings, checkDoubleBookings(matches, teamByID)...)
	findings = append(findings, checkStatuses(league, matches)...)
	findings = append(findings, checkWindow(league, matches)...)
	findings = append(findings, checkPreferences(league, matches, teamByID)...)
	findings = append(findings, checkCompleteness(league, matches, teams)...)
	return findings, nil
}

func auditTeamName(teams map[int]*model.Team, id int) string {
	if t, ok := teams[id]; ok {
		return t.Name
	}
	return fmt.Sprintf("team %d", id)
}

func checkReferences(matches []*model.Match, teams map[int]*model.Team) []Finding {
	var findings []Finding
	for _, m := range matches {
		for _, id := range []int{m.HomeTeamID(), m.VisitorTeamID()} {
			if _, ok := teams[id]; !ok {
				findings = append(findings, Finding{
					Type:    "error",
					MatchID: m.ID(),
					Message: fmt.Sprintf("match %d references missing team %d", m.ID(), id),
				})
			}
		}
	}
	return findings
}

func checkDoubleBookings(matches []*model.Match, teams map[int]*model.Team) []Finding {
	type teamDate struct {
		teamID int
		date   string
	}
	byTeamDate := make(map[teamDate][]int)
	for _, m := range matches {
		if !m.IsScheduled() {
			continue
		}
		for _, id := range []int{m.HomeTeamID(), m.VisitorTeamID()} {
			k := teamDate{id, m.Date()}
			byTeamDate[k] = append(byTeamDate[k], m.ID())
		}
	}

	keys := make([]teamDate, 0, len(byTeamDate))
	for k := range byTeamDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].teamID != keys[j].teamID {
			return keys[i].teamID < keys[j].teamID
		}
		return keys[i].date < keys[j].date
	})

	var findings []Finding
	for _, k := range keys {
		if ids := byTeamDate[k]; len(ids) > 1 {
			findings = append(findings, Finding{
				Type:    "error",
				MatchID: ids[1],
				Message: fmt.Sprintf("%s plays %d matches on %s",
					auditTeamName(teams, k.teamID), len(ids), k.date),
			})
		}
	}
	return findings
}

func checkStatuses(league *model.League, matches []*model.Match) []Finding {
	var findings []Finding
	for _, m := range matches {
		switch m.StatusFor(league.NumLinesPerMatch) {
		case model.StatusPartiallyScheduled:
			findings = append(findings, Finding{
				Type:    "warning",
				MatchID: m.ID(),
				Message: fmt.Sprintf("match %d has %d of %d lines scheduled",
					m.ID(), len(m.ScheduledTimes()), league.NumLinesPerMatch),
			})
		case model.StatusOverScheduled:
			findings = append(findings, Finding{
				Type:    "error",
				MatchID: m.ID(),
				Message: fmt.Sprintf("match %d has %d scheduled times for %d lines",
					m.ID(), len(m.ScheduledTimes()), league.NumLinesPerMatch),
			})
		}
	}
	return findings
}

func checkWindow(league *model.League, matches []*model.Match) []Finding {
	if league.StartDate == "" || league.EndDate == "" {
		return nil
	}
	var findings []Finding
	for _, m := range matches {
		if !m.IsScheduled() {
			continue
		}
		if m.Date() < league.StartDate || m.Date() > league.EndDate {
			findings = append(findings, Finding{
				Type:    "error",
				MatchID: m.ID(),
				Message: fmt.Sprintf("match %d on %s is outside the league window %s..%s",
					m.ID(), m.Date(), league.StartDate, league.EndDate),
			})
		}
	}
	return findings
}

func checkPreferences(league *model.League, matches []*model.Match, teams map[int]*model.Team) []Finding {
	allowed := league.PreferredDays.Union(league.BackupDays)
	var findings []Finding
	for _, m := range matches {
		if !m.IsScheduled() {
			continue
		}
		wd, err := model.WeekdayOf(m.Date())
		if err != nil {
			continue
		}
		if !league.PreferredDays.IsEmpty() && !allowed.Contains(wd) {
			findings = append(findings, Finding{
				Type:    "warning",
				MatchID: m.ID(),
				Message: fmt.Sprintf("match %d on %s (%s) is on neither a preferred nor a backup day",
					m.ID(), m.Date(), wd),
			})
		}
		for _, id := range []int{m.HomeTeamID(), m.VisitorTeamID()} {
			t, ok := teams[id]
			if !ok {
				continue
			}
			if !t.PreferredDays.IsEmpty() && !t.PreferredDays.Contains(wd) {
				findings = append(findings, Finding{
					Type:    "warning",
					MatchID: m.ID(),
					Message: fmt.Sprintf("match %d on %s (%s) misses %s's preferred days",
						m.ID(), m.Date(), wd, t.Name),
				})
			}
		}
	}
	return findings
}

func checkCompleteness(league *model.League, matches []*model.Match, teams []*model.Team) []Finding {
	counts := make(map[int]int)
	unscheduled := 0
	for _, m := range matches {
		counts[m.HomeTeamID()]++
		counts[m.VisitorTeamID()]++
		if !m.IsScheduled() {
			unscheduled++
		}
	}

	var findings []Finding
	if unscheduled > 0 {
		findings = append(findings, Finding{
			Type:    "warning",
			Message: fmt.Sprintf("league %q has %d unscheduled matches", league.Name, unscheduled),
		})
	}
	for _, t := range teams {
		switch n := counts[t.ID]; {
		case n == 0:
			findings = append(findings, Finding{
				Type:    "error",
				Message: fmt.Sprintf("%s has no matches", t.Name),
			})
		case n < league.NumMatches:
			findings = append(findings, Finding{
				Type:    "warning",
				Message: fmt.Sprintf("%s has %d of %d matches", t.Name, n, league.NumMatches),
			})
		}
	}
	return findings
}

// checkCapacity verifies no (facility, date, time) slot holds more lines than
// the facility's configured court count. Runs across all leagues since
// facilities are shared.
func checkCapacity(st store.Store) ([]Finding, error) {
	matches, err := st.ListMatches(store.MatchFilter{Type: store.MatchScheduled})
	if err != nil {
		return nil, fmt.Errorf("listing scheduled matches: %w", err)
	}
	facilities, err := st.ListFacilities()
	if err != nil {
		return nil, fmt.Errorf("listing facilities: %w", err)
	}
	facByID := make(map[int]*model.Facility, len(facilities))
	for _, f := range facilities {
		facByID[f.ID] = f
	}

	type slot struct {
		facilityID int
		date       string
		time       string
	}
	lines := make(map[slot]int)
	for _, m := range matches {
		for _, t := range m.DistinctTimes() {
			lines[slot{m.FacilityID(), m.Date(), t}] += m.LinesAt(t)
		}
	}

	keys := make([]slot, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].facilityID != keys[j].facilityID {
			return keys[i].facilityID < keys[j].facilityID
		}
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].time < keys[j].time
	})

	var findings []Finding
	for _, k := range keys {
		fac, ok := facByID[k.facilityID]
		if !ok {
			findings = append(findings, Finding{
				Type:    "error",
				Message: fmt.Sprintf("matches reference missing facility %d", k.facilityID),
			})
			continue
		}
		if courts := fac.CourtsAt(k.date, k.time); lines[k] > courts {
			findings = append(findings, Finding{
				Type: "error",
				Message: fmt.Sprintf("%s has %d lines at %s %s but only %d courts",
					fac.Name, lines[k], k.date, k.time, courts),
			})
		}
	}
	return findings, nil
}
