package model

import "testing"

func TestMatchLifecycle(t *testing.T) {
	m := NewMatch(101, 1, 10, 11)

	t.Run("starts unscheduled", func(t *testing.T) {
		if m.IsScheduled() {
			t.Error("new match should be unscheduled")
		}
		if got := m.StatusFor(3); got != StatusUnscheduled {
			t.Errorf("status = %v, want unscheduled", got)
		}
	})

	t.Run("schedule assigns all fields", func(t *testing.T) {
		if err := m.Schedule(5, "2026-04-04", []string{"09:00", "09:00", "09:00"}); err != nil {
			t.Fatalf("Schedule() error: %v", err)
		}
		if m.FacilityID() != 5 || m.Date() != "2026-04-04" {
			t.Errorf("assignment = (%d, %s), want (5, 2026-04-04)", m.FacilityID(), m.Date())
		}
		if got := m.StatusFor(3); got != StatusFullyScheduled {
			t.Errorf("status = %v, want fully-scheduled", got)
		}
	})

	t.Run("invalid assignment leaves match unchanged", func(t *testing.T) {
		err := m.Schedule(5, "2026-04-05", []string{"9:00am"})
		if err == nil {
			t.Fatal("expected error for invalid time")
		}
		if m.Date() != "2026-04-04" {
			t.Errorf("date mutated to %s on failed schedule", m.Date())
		}
	})

	t.Run("status over and partial", func(t *testing.T) {
		c := m.Clone()
		if got := c.StatusFor(2); got != StatusOverScheduled {
			t.Errorf("status = %v, want over-scheduled", got)
		}
		if got := c.StatusFor(4); got != StatusPartiallyScheduled {
			t.Errorf("status = %v, want partially-scheduled", got)
		}
	})

	t.Run("unschedule is idempotent", func(t *testing.T) {
		m.Unschedule()
		m.Unschedule()
		if m.IsScheduled() || m.Date() != "" || len(m.ScheduledTimes()) != 0 {
			t.Error("match not fully cleared after unschedule")
		}
	})
}

func TestMatchLinesAt(t *testing.T) {
	m := NewMatch(1, 1, 2, 3)
	if err := m.Schedule(4, "2026-04-04", []string{"09:00", "09:00", "10:30"}); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if got := m.LinesAt("09:00"); got != 2 {
		t.Errorf("LinesAt(09:00) = %d, want 2", got)
	}
	if got := m.LinesAt("10:30"); got != 1 {
		t.Errorf("LinesAt(10:30) = %d, want 1", got)
	}
	if got := m.DistinctTimes(); len(got) != 2 || got[0] != "09:00" || got[1] != "10:30" {
		t.Errorf("DistinctTimes() = %v", got)
	}
}

func TestMatchQualityScore(t *testing.T) {
	league := &League{
		PreferredDays: mustDays(t, "Saturday"),
		BackupDays:    mustDays(t, "Sunday"),
	}
	home := &Team{PreferredDays: mustDays(t, "Saturday")}
	visitor := &Team{}
	m := NewMatch(1, 1, 2, 3)

	sat := m.QualityScore(league, home, visitor, "2026-04-04") // Saturday
	sun := m.QualityScore(league, home, visitor, "2026-04-05") // Sunday

	if sat != 100 {
		t.Errorf("Saturday score = %v, want 100", sat)
	}
	if sun >= sat {
		t.Errorf("Sunday score %v should be below Saturday score %v", sun, sat)
	}
}

func mustDays(t *testing.T, names ...string) Days {
	t.Helper()
	d, err := ParseDays(names)
	if err != nil {
		t.Fatalf("ParseDays(%v): %v", names, err)
	}
	return d
}
