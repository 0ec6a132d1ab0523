package model

import "time"

// OccupantKind tags which aggregate an occupant reference points at.
type OccupantKind string

const (
	OccupantReservation OccupantKind = "reservation"
	OccupantWaitlist    OccupantKind = "waitlist"
)

// AllocationStatus is the lifecycle state of a seat allocation.
//
// reserved -> seated -> finished, reserved -> no_show, and
// {reserved,seated} -> canceled are the valid paths. occupied is a legacy
// alias for seated that may still appear on imported rows; unknown marks a
// status value the engine does not recognize and only permits canceling.
type AllocationStatus string

const (
	StatusReserved AllocationStatus = "reserved"
	StatusSeated   AllocationStatus = "seated"
	StatusOccupied AllocationStatus = "occupied"
	StatusFinished AllocationStatus = "finished"
	StatusNoShow   AllocationStatus = "no_show"
	StatusCanceled AllocationStatus = "canceled"
	StatusUnknown  AllocationStatus = "unknown"
)

// SeatAllocation binds one seat to one occupant for a time window
// ([StartTime, EndTime), half-open). Rows are never deleted: releasing an
// allocation sets ReleasedAt, preserving history. For any seat, the active
// rows (ReleasedAt IS NULL) must have pairwise non-overlapping windows.
//
// The occupant name, party size and status are denormalized at assignment
// time so seat maps render without a join; the live values are available
// through the occupant resolver.
type SeatAllocation struct {
	ID                int64            `gorm:"primaryKey" json:"id"`
	GroupID           string           `gorm:"size:36;index;not null" json:"groupId"` // shared by rows created in one batch
	SeatID            int64            `gorm:"index;not null" json:"seatId"`
	OccupantKind      OccupantKind     `gorm:"size:16;not null;index:idx_allocation_occupant" json:"occupantKind"`
	OccupantID        int64            `gorm:"not null;index:idx_allocation_occupant" json:"occupantId"`
	OccupantName      string           `gorm:"size:128" json:"occupantName"`
	OccupantPartySize int              `gorm:"not null" json:"occupantPartySize"`
	Status            AllocationStatus `gorm:"size:16;not null" json:"status"`
	StartTime         time.Time        `gorm:"not null;index" json:"startTime"`
	EndTime           time.Time        `gorm:"not null" json:"endTime"`
	ReleasedAt        *time.Time       `gorm:"index" json:"releasedAt"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"-"`

	// Associations
	Seat Seat `json:"-"`
}

// Active reports whether the allocation still holds its seat.
func (a *SeatAllocation) Active() bool {
	return a.ReleasedAt == nil
}

// Overlaps reports whether the allocation's window intersects
// [start, end). Abutting windows do not overlap.
func (a *SeatAllocation) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}
