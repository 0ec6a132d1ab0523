package model

import "time"

// Reservation statuses. Booked is the state before any seats are assigned.
const (
	ReservationBooked   = "booked"
	ReservationReserved = "reserved"
	ReservationSeated   = "seated"
	ReservationFinished = "finished"
	ReservationNoShow   = "no_show"
	ReservationCanceled = "canceled"
)

// Reservation is an advance booking for a party on a given service date.
type Reservation struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	GuestName string     `gorm:"size:128;not null" json:"guestName"`
	Phone     string     `gorm:"size:32" json:"phone"`
	PartySize int        `gorm:"not null" json:"partySize"`
	Status    string     `gorm:"size:16;not null;default:booked" json:"status"`
	Date      time.Time  `gorm:"not null;index" json:"date"` // service date (any instant within the day)
	StartTime *time.Time `json:"startTime"`                  // explicit window, if staff set one
	EndTime   *time.Time `json:"endTime"`
	Notes     string     `gorm:"size:512" json:"notes"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`

	// Associations
	Preferences []SeatPreference `gorm:"foreignKey:ReservationID" json:"preferences"`
}

// SeatPreference is one seat label inside a staff-authored preference
// option for a reservation. Up to three options may exist per reservation
// (OptionIndex 1..3); Seq orders the labels within an option. Labels, not
// seat ids, are stored so layout edits that renumber seats do not silently
// invalidate preferences.
type SeatPreference struct {
	ID            int64  `gorm:"primaryKey"`
	ReservationID int64  `gorm:"index;not null"`
	OptionIndex   int    `gorm:"not null"`
	Seq           int    `gorm:"not null"`
	SeatLabel     string `gorm:"size:32;not null"`
}

// MaxPreferenceOptions caps how many alternative seat sets staff can
// pre-select per reservation.
const MaxPreferenceOptions = 3
