// Package excel renders committed schedules into an Excel workbook: a master
// sheet of dates and start times against facility columns, plus one sheet per
// team.
package excel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// Generate builds the workbook for one league, or for every league when
// leagueID is 0.
func Generate(st store.Store, leagueID int) (*excelize.File, error) {
	matches, err := st.ListMatches(store.MatchFilter{LeagueID: leagueID, Type: store.MatchScheduled})
	if err != nil {
		return nil, fmt.Errorf("listing scheduled matches: %w", err)
	}
	teams, err := teamIndex(st, leagueID)
	if err != nil {
		return nil, err
	}
	facilities, err := st.ListFacilities()
	if err != nil {
		return nil, fmt.Errorf("listing facilities: %w", err)
	}

	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeMasterSheet(f, matches, teams, facilities); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}
	if err := writeTeamSheets(f, matches, teams, facilities); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func teamIndex(st store.Store, leagueID int) (map[int]*model.Team, error) {
	teams, err := st.ListTeams(leagueID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	byID := make(map[int]*model.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return byID, nil
}

func teamName(teams map[int]*model.Team, id int) string {
	if t, ok := teams[id]; ok {
		return t.Name
	}
	return fmt.Sprintf("Team %d", id)
}

// matchCell renders one match inside a facility column: "Visitor @ Home",
// with the line count when only some lines start at this time.
func matchCell(m *model.Match, teams map[int]*model.Team, t string, totalLines int) string {
	label := fmt.Sprintf("%s @ %s", teamName(teams, m.VisitorTeamID()), teamName(teams, m.HomeTeamID()))
	if lines := m.LinesAt(t); lines < totalLines {
		label = fmt.Sprintf("%s (%d)", label, lines)
	}
	return label
}

func writeMasterSheet(f *excelize.File, matches []*model.Match, teams map[int]*model.Team, facilities []*model.Facility) error {
	sheet := "Master Schedule"
	f.NewSheet(sheet)

	// Only facilities that actually host a match get a column.
	hosting := make(map[int]bool)
	for _, m := range matches {
		hosting[m.FacilityID()] = true
	}
	var cols []*model.Facility
	for _, fac := range facilities {
		if hosting[fac.ID] {
			cols = append(cols, fac)
		}
	}

	headers := []string{"Date", "Day", "Time"}
	for _, fac := range cols {
		name := fac.ShortName
		if name == "" {
			name = fac.Name
		}
		headers = append(headers, name)
	}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
		}
	}

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	facilityCellStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})

	// One row per distinct (date, time); a cell may hold several matches.
	type rowKey struct {
		date string
		time string
	}
	cells := make(map[rowKey]map[int][]string)
	seen := make(map[rowKey]bool)
	var rowKeys []rowKey
	for _, m := range matches {
		total := len(m.ScheduledTimes())
		for _, t := range m.DistinctTimes() {
			k := rowKey{m.Date(), t}
			if !seen[k] {
				seen[k] = true
				rowKeys = append(rowKeys, k)
				cells[k] = make(map[int][]string)
			}
			cells[k][m.FacilityID()] = append(cells[k][m.FacilityID()],
				matchCell(m, teams, t, total))
		}
	}
	sort.Slice(rowKeys, func(i, j int) bool {
		if rowKeys[i].date != rowKeys[j].date {
			return rowKeys[i].date < rowKeys[j].date
		}
		return rowKeys[i].time < rowKeys[j].time
	})

	for i, k := range rowKeys {
		row := i + 2
		day, err := model.ParseDate(k.date)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cellRef(1, row), day.Format("01/02/2006"))
		f.SetCellValue(sheet, cellRef(2, row), day.Format("Mon"))
		f.SetCellValue(sheet, cellRef(3, row), k.time)
		for ci, fac := range cols {
			if entries := cells[k][fac.ID]; len(entries) > 0 {
				f.SetCellValue(sheet, cellRef(ci+4, row), strings.Join(entries, "\n"))
			}
		}
		if cellStyle != 0 {
			for col := 1; col <= 3; col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
			}
			for col := 4; col <= len(headers); col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), facilityCellStyle)
			}
		}
	}

	// Set column widths (sized for Arial 16)
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 8)
	f.SetColWidth(sheet, "C", "C", 10)
	for i := range cols {
		col := colLetter(i + 4)
		f.SetColWidth(sheet, col, col, 30)
	}

	return nil
}

// sheetNameFor derives a unique, Excel-legal sheet name for a team.
func sheetNameFor(t *model.Team, used map[string]bool) string {
	name := t.Name
	if len(name) > 28 {
		name = name[:28]
	}
	if used[name] {
		name = fmt.Sprintf("%s %d", name, t.ID)
	}
	used[name] = true
	return name
}

func writeTeamSheets(f *excelize.File, matches []*model.Match, teams map[int]*model.Team, facilities []*model.Facility) error {
	facByID := make(map[int]*model.Facility, len(facilities))
	for _, fac := range facilities {
		facByID[fac.ID] = fac
	}
	facName := func(id int) string {
		if fac, ok := facByID[id]; ok {
			return fac.Name
		}
		return fmt.Sprintf("Facility %d", id)
	}

	teamIDs := make([]int, 0, len(teams))
	for id := range teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Ints(teamIDs)

	usedNames := make(map[string]bool)
	for _, teamID := range teamIDs {
		team := teams[teamID]
		sheet := sheetNameFor(team, usedNames)
		f.NewSheet(sheet)

		headers := []string{"Date", "Day", "Times", "Facility", "Opponent", "Home/Visitor"}
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
		}

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if headerStyle != 0 {
			for i := range headers {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
			}
		}

		type teamMatch struct {
			date     string
			times    string
			facility string
			opponent string
			homeAway string
		}
		var rows []teamMatch
		for _, m := range matches {
			var opponent int
			homeAway := ""
			switch teamID {
			case m.HomeTeamID():
				opponent, homeAway = m.VisitorTeamID(), "Home"
			case m.VisitorTeamID():
				opponent, homeAway = m.HomeTeamID(), "Visitor"
			default:
				continue
			}
			rows = append(rows, teamMatch{
				date:     m.Date(),
				times:    strings.Join(m.DistinctTimes(), ", "),
				facility: facName(m.FacilityID()),
				opponent: teamName(teams, opponent),
				homeAway: homeAway,
			})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].date != rows[j].date {
				return rows[i].date < rows[j].date
			}
			return rows[i].times < rows[j].times
		})

		cellStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Size: 16, Family: "Arial"},
		})

		for i, r := range rows {
			row := i + 2
			day, err := model.ParseDate(r.date)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cellRef(1, row), day.Format("01/02/2006"))
			f.SetCellValue(sheet, cellRef(2, row), day.Format("Mon"))
			f.SetCellValue(sheet, cellRef(3, row), r.times)
			f.SetCellValue(sheet, cellRef(4, row), r.facility)
			f.SetCellValue(sheet, cellRef(5, row), r.opponent)
			f.SetCellValue(sheet, cellRef(6, row), r.homeAway)
			if cellStyle != 0 {
				for col := 1; col <= len(headers); col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
				}
			}
		}

		// Set column widths (sized for Arial 16)
		widths := map[string]float64{"A": 18, "B": 8, "C": 16, "D": 32, "E": 24, "F": 16}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
