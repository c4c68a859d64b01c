package model

import "errors"

// Error kinds used across the scheduling core. Callers classify failures
// with errors.Is rather than string matching.
var (
	// ErrValidation covers bad input shape or range: too few teams, invalid
	// date/time strings, overlapping preferred/backup day sets.
	ErrValidation = errors.New("validation error")

	// ErrConflict covers team or facility double-booking and unsatisfiable
	// day-preference intersections.
	ErrConflict = errors.New("scheduling conflict")

	// ErrCapacity covers a facility that cannot fit the required lines.
	ErrCapacity = errors.New("insufficient capacity")

	// ErrTransaction covers storage-level failures mid-batch.
	ErrTransaction = errors.New("transaction error")

	// ErrIntegrity covers a referenced league, team, or facility that is
	// missing at scheduling time. Fatal, never retried.
	ErrIntegrity = errors.New("integrity error")
)
