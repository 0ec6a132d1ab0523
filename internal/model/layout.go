package model

import "time"

// Layout represents a complete floor plan a restaurant operates under.
type Layout struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	// Associations
	Sections []Section `gorm:"foreignKey:LayoutID" json:"sections"`
}

// LayoutActivation is the pointer to the layout currently in service.
// A restaurant has zero or one active layout at a time.
type LayoutActivation struct {
	ID       int64 `gorm:"primaryKey"`
	LayoutID int64 `gorm:"not null"`
	Layout   Layout
}

// SectionKind distinguishes the two section shapes on the floor.
type SectionKind string

const (
	SectionTable   SectionKind = "table"
	SectionCounter SectionKind = "counter"
)

// Section is a table or counter within a layout. Its offset is the origin
// for the relative positions of the seats it owns.
type Section struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	LayoutID    int64       `gorm:"index;not null" json:"layoutId"`
	Name        string      `gorm:"size:128;not null" json:"name"`
	Kind        SectionKind `gorm:"size:16;not null" json:"kind"`
	Orientation string      `gorm:"size:16" json:"orientation"`
	Floor       int         `json:"floor"`
	OffsetX     float64     `json:"offsetX"`
	OffsetY     float64     `json:"offsetY"`
	Position    int         `gorm:"not null" json:"position"` // ordering within the layout
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`

	// Associations
	Seats []Seat `gorm:"foreignKey:SectionID" json:"seats"`
}

// Seat is an individually addressable place within a section. The label is
// the stable identifier shown to staff and is unique within a layout; seat
// ids may be reassigned by layout edits, labels are not.
type Seat struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	SectionID int64     `gorm:"index;not null" json:"sectionId"`
	Label     string    `gorm:"size:32;not null;index" json:"label"`
	X         float64   `json:"x"` // relative to the section offset
	Y         float64   `json:"y"`
	Capacity  int       `gorm:"not null;default:1" json:"capacity"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
