package scheduler

import (
	"testing"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

func TestConflictCheckerTwoLayerReads(t *testing.T) {
	st, s, f, _ := schedFixture(t)
	c := s.Checker

	// Committed layer: team 10 plays at facility 1 on the 4th.
	committed := newStoredMatch(t, st, 600, 10, 11)
	if err := committed.Schedule(1, "2026-04-04", []string{"09:00", "09:00", "09:00"}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := st.UpdateMatch(committed); err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}

	// Overlay layer: team 12 is pencilled in at facility 2 on the 5th.
	s.Overlay.Book(model.NewMatch(601, 1, 12, 13), 2, "2026-04-05", []string{"09:00"})

	t.Run("date conflicts from either layer", func(t *testing.T) {
		for _, tc := range []struct {
			teamID int
			date   string
			want   bool
		}{
			{10, "2026-04-04", true},  // committed
			{12, "2026-04-05", true},  // overlay
			{10, "2026-04-05", false}, // different date
			{13, "2026-04-04", false}, // no booking at all
		} {
			got, err := c.TeamHasDateConflict(tc.teamID, tc.date)
			if err != nil || got != tc.want {
				t.Errorf("TeamHasDateConflict(%d, %s) = %v, %v; want %v",
					tc.teamID, tc.date, got, err, tc.want)
			}
		}
	})

	t.Run("facility conflict ignores the same facility", func(t *testing.T) {
		got, err := c.TeamHasFacilityConflict(10, "2026-04-04", 1)
		if err != nil || got {
			t.Errorf("same facility flagged: %v, %v", got, err)
		}
		got, err = c.TeamHasFacilityConflict(10, "2026-04-04", 2)
		if err != nil || !got {
			t.Errorf("cross-facility not flagged: %v, %v", got, err)
		}
		got, err = c.TeamHasFacilityConflict(12, "2026-04-05", 1)
		if err != nil || !got {
			t.Errorf("overlay cross-facility not flagged: %v, %v", got, err)
		}
	})

	t.Run("capacity accounts for committed lines", func(t *testing.T) {
		over, err := c.FacilityCapacityExceeded(f, "2026-04-04", "09:00", 2)
		if err != nil || !over {
			t.Errorf("2 more lines on 1 spare should exceed: %v, %v", over, err)
		}
		over, err = c.FacilityCapacityExceeded(f, "2026-04-04", "10:30", 4)
		if err != nil || over {
			t.Errorf("4 lines on an open slot should fit: %v, %v", over, err)
		}
	})
}
