// Package store persists layouts and seat allocations. The error types
// defined here are shared with the allocation engine so callers can
// distinguish a seat conflict from a missing record and react accordingly.
package store

import (
	"fmt"
	"time"
)

// ConflictError reports that a seat already has an active allocation
// overlapping the requested window. It names the first occupied seat of
// the batch; no rows are written when it is returned.
type ConflictError struct {
	SeatID    int64
	SeatLabel string
	Start     time.Time
	End       time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %s is already occupied between %s and %s",
		e.SeatLabel, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// NotFoundError reports that an occupant, allocation or layout does not
// exist, or that a status precondition does not hold (e.g. arriving for an
// occupant with nothing reserved).
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}
