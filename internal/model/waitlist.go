package model

import "time"

// Waitlist statuses. Waiting entries have no seats yet; notified means
// seats were assigned and the guest was told their table is ready.
const (
	WaitlistWaiting  = "waiting"
	WaitlistNotified = "notified"
	WaitlistSeated   = "seated"
	WaitlistLeft     = "left"
)

// WaitlistEntry is a walk-in party waiting for seats.
type WaitlistEntry struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	GuestName string    `gorm:"size:128;not null" json:"guestName"`
	PartySize int       `gorm:"not null" json:"partySize"`
	Status    string    `gorm:"size:16;not null;default:waiting" json:"status"`
	JoinedAt  time.Time `gorm:"not null" json:"joinedAt"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Subscriptions []*PushSubscription `gorm:"many2many:subscription_waitlist_mapping;" json:"-"`
}
