package model

import "fmt"

// League groups teams playing a season of multi-line matches. Day sets steer
// date ranking: PreferredDays are first choice, BackupDays second, and the
// two must not overlap.
type League struct {
	ID               int    `validate:"min=1"`
	Name             string `validate:"required"`
	Year             int    `validate:"min=1990,max=2100"`
	Section          string `validate:"required"`
	Region           string `validate:"required"`
	AgeGroup         string `validate:"required"`
	Division         string `validate:"required"`
	NumLinesPerMatch int    `validate:"min=1,max=10"`
	NumMatches       int    `validate:"min=1"`
	AllowSplitLines  bool
	PreferredDays    Days
	BackupDays       Days
	StartDate        string `validate:"omitempty,date"`
	EndDate          string `validate:"omitempty,date"`
}

// Validate checks field ranges, the closed classification enumerations, the
// season window, and the preferred/backup day invariant.
func (l *League) Validate() error {
	if err := checkStruct(l); err != nil {
		return fmt.Errorf("league %q: %w", l.Name, err)
	}
	if !ValidSection(l.Section) {
		return fmt.Errorf("%w: league %q: unknown section %q", ErrValidation, l.Name, l.Section)
	}
	if !ValidRegion(l.Region) {
		return fmt.Errorf("%w: league %q: unknown region %q", ErrValidation, l.Name, l.Region)
	}
	if !ValidAgeGroup(l.AgeGroup) {
		return fmt.Errorf("%w: league %q: unknown age group %q", ErrValidation, l.Name, l.AgeGroup)
	}
	if !ValidDivision(l.Division) {
		return fmt.Errorf("%w: league %q: unknown division %q", ErrValidation, l.Name, l.Division)
	}
	if !l.PreferredDays.Disjoint(l.BackupDays) && !l.PreferredDays.IsEmpty() && !l.BackupDays.IsEmpty() {
		return fmt.Errorf("%w: league %q: a day cannot be both preferred and backup", ErrValidation, l.Name)
	}
	if l.StartDate != "" && l.EndDate != "" {
		start, err := ParseDate(l.StartDate)
		if err != nil {
			return err
		}
		end, err := ParseDate(l.EndDate)
		if err != nil {
			return err
		}
		if !end.After(start) {
			return fmt.Errorf("%w: league %q: end date %s must be after start date %s",
				ErrValidation, l.Name, l.EndDate, l.StartDate)
		}
	}
	return nil
}
