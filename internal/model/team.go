package model

import "fmt"

// Team is a league entry with a home facility and optional day preferences.
// Identity (ID, league, home facility) is fixed at creation; preferences may
// be edited.
type Team struct {
	ID             int    `validate:"min=1"`
	Name           string `validate:"required"`
	LeagueID       int    `validate:"min=1"`
	HomeFacilityID int    `validate:"min=1"`
	Captain        string
	PreferredDays  Days
}

// Validate checks the team's shape. An empty PreferredDays set is valid and
// means "no preference".
func (t *Team) Validate() error {
	if err := checkStruct(t); err != nil {
		return fmt.Errorf("team %q: %w", t.Name, err)
	}
	return nil
}
