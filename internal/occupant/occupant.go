// Package occupant abstracts over the two things that can hold seats: a
// reservation and a waitlist entry. The allocation engine only deals in
// occupant references and the small capability set defined here; per-kind
// behavior lives in one adapter per kind instead of string-tag branches
// spread through the engine.
package occupant

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seating-backend/internal/model"
	"seating-backend/internal/store"
)

// Ref identifies an occupant without committing to its kind.
type Ref struct {
	Kind model.OccupantKind `json:"kind"`
	ID   int64              `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s %d", r.Kind, r.ID)
}

// Info is the snapshot the engine needs from an occupant at allocation
// time.
type Info struct {
	PartySize   int
	DisplayName string
	Status      string
	Date        time.Time  // service date; time.Time{} means "today"
	Start       *time.Time // explicit window, if any
	End         *time.Time
}

// Resolver looks occupants up and pushes allocation lifecycle changes
// back onto the occupant's own status field.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (Info, error)
	SetStatus(ctx context.Context, ref Ref, status model.AllocationStatus) error
}

// adapter is the per-kind capability set behind Resolver.
type adapter interface {
	resolve(ctx context.Context, db *gorm.DB, id int64) (Info, error)
	setStatus(ctx context.Context, db *gorm.DB, id int64, status model.AllocationStatus) error
}

// gormResolver dispatches to one adapter per occupant kind.
type gormResolver struct {
	db       *gorm.DB
	adapters map[model.OccupantKind]adapter
}

// NewGormResolver creates a resolver over the reservation and waitlist
// tables.
func NewGormResolver(db *gorm.DB) Resolver {
	return &gormResolver{
		db: db,
		adapters: map[model.OccupantKind]adapter{
			model.OccupantReservation: reservationAdapter{},
			model.OccupantWaitlist:    waitlistAdapter{},
		},
	}
}

func (r *gormResolver) Resolve(ctx context.Context, ref Ref) (Info, error) {
	a, ok := r.adapters[ref.Kind]
	if !ok {
		return Info{}, fmt.Errorf("unsupported occupant kind %q", ref.Kind)
	}
	return a.resolve(ctx, r.db, ref.ID)
}

func (r *gormResolver) SetStatus(ctx context.Context, ref Ref, status model.AllocationStatus) error {
	a, ok := r.adapters[ref.Kind]
	if !ok {
		return fmt.Errorf("unsupported occupant kind %q", ref.Kind)
	}
	return a.setStatus(ctx, r.db, ref.ID, status)
}

// reservationAdapter maps reservations onto the occupant capability set.
// Allocation statuses translate one-to-one onto reservation statuses.
type reservationAdapter struct{}

func (reservationAdapter) resolve(ctx context.Context, db *gorm.DB, id int64) (Info, error) {
	var res model.Reservation
	if err := db.WithContext(ctx).First(&res, id).Error; err != nil {
		return Info{}, wrapNotFound(err, fmt.Sprintf("reservation %d", id))
	}
	return Info{
		PartySize:   res.PartySize,
		DisplayName: res.GuestName,
		Status:      res.Status,
		Date:        res.Date,
		Start:       res.StartTime,
		End:         res.EndTime,
	}, nil
}

func (reservationAdapter) setStatus(ctx context.Context, db *gorm.DB, id int64, status model.AllocationStatus) error {
	res := db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{What: fmt.Sprintf("reservation %d", id)}
	}
	return nil
}

// waitlistAdapter maps waitlist entries onto the occupant capability set.
// A waitlist entry has its own vocabulary: assigned-but-not-arrived is
// "notified", and every terminal allocation outcome means the party left.
type waitlistAdapter struct{}

func (waitlistAdapter) resolve(ctx context.Context, db *gorm.DB, id int64) (Info, error) {
	var entry model.WaitlistEntry
	if err := db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return Info{}, wrapNotFound(err, fmt.Sprintf("waitlist entry %d", id))
	}
	return Info{
		PartySize:   entry.PartySize,
		DisplayName: entry.GuestName,
		Status:      entry.Status,
	}, nil
}

func (waitlistAdapter) setStatus(ctx context.Context, db *gorm.DB, id int64, status model.AllocationStatus) error {
	translated := model.WaitlistWaiting
	switch status {
	case model.StatusReserved:
		translated = model.WaitlistNotified
	case model.StatusSeated, model.StatusOccupied:
		translated = model.WaitlistSeated
	case model.StatusFinished, model.StatusNoShow, model.StatusCanceled:
		translated = model.WaitlistLeft
	}

	res := db.WithContext(ctx).
		Model(&model.WaitlistEntry{}).
		Where("id = ?", id).
		Update("status", translated)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &store.NotFoundError{What: fmt.Sprintf("waitlist entry %d", id)}
	}
	return nil
}

func wrapNotFound(err error, what string) error {
	if err == gorm.ErrRecordNotFound {
		return &store.NotFoundError{What: what}
	}
	return err
}
