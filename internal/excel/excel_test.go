package excel

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

func testStore(t *testing.T) *store.Memory {
	t.Helper()
	st := store.NewMemory()

	league := &model.League{
		ID: 1, Name: "Tucson 3.5M", Year: 2026,
		Section: "USTA/SOUTHWEST", Region: "SOUTHERN ARIZONA",
		AgeGroup: "18 & Over", Division: "3.5 Men",
		NumLinesPerMatch: 3, NumMatches: 6,
		StartDate: "2026-04-01", EndDate: "2026-06-30",
	}
	if err := st.AddLeague(league); err != nil {
		t.Fatalf("AddLeague: %v", err)
	}

	himmel := &model.Facility{ID: 1, Name: "Himmel Park Tennis Center", TotalCourts: 8}
	himmel.Schedule.Days[time.Saturday] = model.DaySchedule{Slots: []model.TimeSlot{
		{Time: "09:00", Courts: 4}, {Time: "10:30", Courts: 4},
	}}
	randolph := &model.Facility{ID: 2, Name: "Randolph Tennis Center", TotalCourts: 10}
	randolph.Schedule.Days[time.Saturday] = model.DaySchedule{Slots: []model.TimeSlot{
		{Time: "09:00", Courts: 6},
	}}
	for _, f := range []*model.Facility{himmel, randolph} {
		if err := st.AddFacility(f); err != nil {
			t.Fatalf("AddFacility: %v", err)
		}
	}

	names := map[int]string{10: "Aces", 11: "Baseliners", 12: "Topspinners", 13: "Volleyers"}
	for id, name := range names {
		if err := st.AddTeam(&model.Team{ID: id, Name: name, LeagueID: 1, HomeFacilityID: 1}); err != nil {
			t.Fatalf("AddTeam: %v", err)
		}
	}

	schedule := func(id, home, visitor, facilityID int, date string, times []string) {
		m := model.NewMatch(id, 1, home, visitor)
		if err := st.AddMatch(m); err != nil {
			t.Fatalf("AddMatch: %v", err)
		}
		if err := m.Schedule(facilityID, date, times); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if err := st.UpdateMatch(m); err != nil {
			t.Fatalf("UpdateMatch: %v", err)
		}
	}
	schedule(500, 10, 11, 1, "2026-04-04", []string{"09:00", "09:00", "09:00"})
	schedule(501, 12, 13, 1, "2026-04-04", []string{"09:00", "10:30", "10:30"}) // split lines
	schedule(502, 11, 12, 2, "2026-04-11", []string{"09:00", "09:00", "09:00"})
	if err := st.AddMatch(model.NewMatch(503, 1, 10, 13)); err != nil { // unscheduled, excluded
		t.Fatalf("AddMatch: %v", err)
	}
	return st
}

func TestGenerateWorkbook(t *testing.T) {
	f, err := Generate(testStore(t), 1)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("master sheet headers use facility short names", func(t *testing.T) {
		for cell, want := range map[string]string{
			"A1": "Date", "B1": "Day", "C1": "Time", "D1": "HPTC", "E1": "RTC",
		} {
			if got, _ := f.GetCellValue("Master Schedule", cell); got != want {
				t.Errorf("%s = %q, want %q", cell, got, want)
			}
		}
	})

	t.Run("matches render as visitor at home", func(t *testing.T) {
		rows, _ := f.GetRows("Master Schedule")
		found := false
		for _, row := range rows[1:] {
			for _, cell := range row {
				if strings.Contains(cell, "Baseliners @ Aces") {
					found = true
				}
			}
		}
		if !found {
			t.Error("Baseliners @ Aces not found on the master sheet")
		}
	})

	t.Run("split matches appear under both times with line counts", func(t *testing.T) {
		rows, _ := f.GetRows("Master Schedule")
		var at0900, at1030 bool
		for _, row := range rows[1:] {
			if len(row) < 4 || row[0] != "04/04/2026" {
				continue
			}
			switch row[2] {
			case "09:00":
				at0900 = strings.Contains(row[3], "Volleyers @ Topspinners (1)")
			case "10:30":
				at1030 = strings.Contains(row[3], "Volleyers @ Topspinners (2)")
			}
		}
		if !at0900 || !at1030 {
			t.Errorf("split match rows: 09:00 found=%v, 10:30 found=%v", at0900, at1030)
		}
	})

	t.Run("rows sorted by date then time", func(t *testing.T) {
		rows, _ := f.GetRows("Master Schedule")
		if len(rows) < 4 {
			t.Fatalf("master sheet has %d rows, want 4+", len(rows))
		}
		if rows[1][0] != "04/04/2026" || rows[1][2] != "09:00" {
			t.Errorf("first data row = %v", rows[1])
		}
		if rows[3][0] != "04/11/2026" {
			t.Errorf("last data row = %v", rows[3])
		}
	})

	t.Run("per-team sheets carry that team's matches", func(t *testing.T) {
		for _, name := range []string{"Aces", "Baseliners", "Topspinners", "Volleyers"} {
			if idx, _ := f.GetSheetIndex(name); idx < 0 {
				t.Errorf("sheet for %s not found", name)
			}
		}
		rows, _ := f.GetRows("Baseliners")
		if len(rows) != 3 { // header + 2 scheduled matches
			t.Fatalf("Baseliners sheet has %d rows, want 3", len(rows))
		}
		if rows[1][4] != "Aces" || rows[1][5] != "Visitor" {
			t.Errorf("first Baseliners row = %v", rows[1])
		}
		if rows[2][3] != "Randolph Tennis Center" || rows[2][5] != "Home" {
			t.Errorf("second Baseliners row = %v", rows[2])
		}
	})

	t.Run("default Sheet1 removed", func(t *testing.T) {
		if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
			t.Error("Sheet1 should be removed")
		}
	})
}

func TestWriteAndRead(t *testing.T) {
	f, err := Generate(testStore(t), 1)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	path := t.TempDir() + "/schedule.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	f2, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer f2.Close()

	if val, _ := f2.GetCellValue("Master Schedule", "A1"); val != "Date" {
		t.Errorf("re-read A1 = %q, want Date", val)
	}
}
