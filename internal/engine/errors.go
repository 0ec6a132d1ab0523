package engine

import "fmt"

// PartySizeMismatchError reports that the number of requested seats does
// not equal the occupant's party size. Nothing is written when it is
// returned; the caller re-selects seats.
type PartySizeMismatchError struct {
	PartySize int
	SeatCount int
}

func (e *PartySizeMismatchError) Error() string {
	return fmt.Sprintf("party of %d requires exactly %d seats, got %d", e.PartySize, e.PartySize, e.SeatCount)
}

// ValidationError reports malformed input: an empty seat list, a window
// that ends before it starts, or a seat label unknown to the layout.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
