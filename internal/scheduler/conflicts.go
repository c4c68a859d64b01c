package scheduler

import (
	"fmt"

	"github.com/raoldfi/tennis-app-sub000/internal/availability"
	"github.com/raoldfi/tennis-app-sub000/internal/model"
	"github.com/raoldfi/tennis-app-sub000/internal/overlay"
	"github.com/raoldfi/tennis-app-sub000/internal/store"
)

// ConflictChecker answers double-booking and capacity questions against the
// two-layer read path: committed storage first, then the dry-run overlay. A
// conflict from either source is a conflict. All checks are pure reads.
type ConflictChecker struct {
	Store   store.Store
	Overlay *overlay.Overlay
	Avail   *availability.Model
}

func NewConflictChecker(st store.Store, ov *overlay.Overlay, av *availability.Model) *ConflictChecker {
	return &ConflictChecker{Store: st, Overlay: ov, Avail: av}
}

// TeamHasDateConflict reports whether the team already has a scheduled match
// (committed or overlaid) on the date.
func (c *ConflictChecker) TeamHasDateConflict(teamID int, date string) (bool, error) {
	matches, err := c.Store.ListMatches(store.MatchFilter{TeamID: teamID, Type: store.MatchScheduled})
	if err != nil {
		return false, fmt.Errorf("listing team matches: %w", err)
	}
	for _, m := range matches {
		if m.Date() == date {
			return true, nil
		}
	}
	if c.Overlay != nil && c.Overlay.HasTeamConflict(teamID, date) {
		return true, nil
	}
	return false, nil
}

// TeamHasFacilityConflict reports whether the team has a scheduled match on
// the date at a different facility. Re-booking the same facility on one date
// is not flagged.
func (c *ConflictChecker) TeamHasFacilityConflict(teamID int, date string, facilityID int) (bool, error) {
	matches, err := c.Store.ListMatches(store.MatchFilter{TeamID: teamID, Type: store.MatchScheduled})
	if err != nil {
		return false, fmt.Errorf("listing team matches: %w", err)
	}
	for _, m := range matches {
		if m.Date() == date && m.FacilityID() != facilityID {
			return true, nil
		}
	}
	if c.Overlay != nil {
		if b, ok := c.Overlay.TeamBookingOn(teamID, date); ok && b.FacilityID != facilityID {
			return true, nil
		}
	}
	return false, nil
}

// FacilityCapacityExceeded reports whether booking courtsNeeded more lines
// at the exact (facility, date, time) would exceed the configured count.
func (c *ConflictChecker) FacilityCapacityExceeded(f *model.Facility, date, t string, courtsNeeded int) (bool, error) {
	spare, err := c.Avail.AvailableCourts(f, date, t)
	if err != nil {
		return false, err
	}
	return courtsNeeded > spare, nil
}
