package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Waitlist guests subscribe so they can be told when their table is ready.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Entries []*WaitlistEntry `gorm:"many2many:subscription_waitlist_mapping;"`
}
