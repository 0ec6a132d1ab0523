package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seating-backend/internal/model"
)

// AllocationStore defines the database operations on seat allocations.
// It answers "which seats are busy" queries and performs the writes the
// allocation engine decides on. The no-double-booking invariant is
// enforced by the engine serializing callers; Insert re-checks it inside
// its transaction as the last line of defense.
type AllocationStore interface {
	DB() *gorm.DB
	QueryActive(ctx context.Context, date time.Time, loc *time.Location, sectionIDs ...int64) (map[int64]model.SeatAllocation, error)
	OccupiedLabels(ctx context.Context, layoutID int64, date time.Time, loc *time.Location) (map[string]bool, error)
	Insert(ctx context.Context, allocations []model.SeatAllocation) ([]model.SeatAllocation, error)
	ActiveForOccupant(ctx context.Context, kind model.OccupantKind, occupantID int64) ([]model.SeatAllocation, error)
	UpdateStatus(ctx context.Context, ids []int64, status model.AllocationStatus) error
	Release(ctx context.Context, ids []int64, status model.AllocationStatus, at time.Time) error
}

// GormStore implements AllocationStore and LayoutStore using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection for handlers that manage records
// outside the allocation engine (subscriptions, occupant rows).
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// dayWindow returns the half-open interval covering the calendar date in loc.
func dayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// QueryActive returns every active allocation whose window intersects the
// given calendar date, keyed by seat id. An optional section filter
// restricts the result to seats of those sections.
func (s *GormStore) QueryActive(ctx context.Context, date time.Time, loc *time.Location, sectionIDs ...int64) (map[int64]model.SeatAllocation, error) {
	dayStart, dayEnd := dayWindow(date, loc)

	q := s.db.WithContext(ctx).
		Preload("Seat").
		Where("seat_allocations.released_at IS NULL").
		Where("seat_allocations.start_time < ? AND seat_allocations.end_time > ?", dayEnd, dayStart)
	if len(sectionIDs) > 0 {
		q = q.Joins("JOIN seats ON seats.id = seat_allocations.seat_id").
			Where("seats.section_id IN ?", sectionIDs)
	}

	var allocations []model.SeatAllocation
	if err := q.Order("seat_allocations.start_time ASC").Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("failed to query active allocations: %w", err)
	}

	bySeat := make(map[int64]model.SeatAllocation, len(allocations))
	for _, a := range allocations {
		bySeat[a.SeatID] = a
	}
	return bySeat, nil
}

// OccupiedLabels returns the set of seat labels of a layout that have an
// active allocation intersecting the given date. The preference matcher
// consumes this snapshot.
func (s *GormStore) OccupiedLabels(ctx context.Context, layoutID int64, date time.Time, loc *time.Location) (map[string]bool, error) {
	dayStart, dayEnd := dayWindow(date, loc)

	var labels []string
	err := s.db.WithContext(ctx).
		Model(&model.SeatAllocation{}).
		Joins("JOIN seats ON seats.id = seat_allocations.seat_id").
		Joins("JOIN sections ON sections.id = seats.section_id").
		Where("sections.layout_id = ?", layoutID).
		Where("seat_allocations.released_at IS NULL").
		Where("seat_allocations.start_time < ? AND seat_allocations.end_time > ?", dayEnd, dayStart).
		Pluck("seats.label", &labels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query occupied labels: %w", err)
	}

	occupied := make(map[string]bool, len(labels))
	for _, l := range labels {
		occupied[l] = true
	}
	return occupied, nil
}

// Insert writes a batch of allocations in one transaction. Each seat is
// re-checked for an overlapping active allocation first; on any hit the
// whole batch is rejected with a ConflictError and zero rows are written.
func (s *GormStore) Insert(ctx context.Context, allocations []model.SeatAllocation) ([]model.SeatAllocation, error) {
	if len(allocations) == 0 {
		return nil, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range allocations {
			var count int64
			if err := tx.Model(&model.SeatAllocation{}).
				Where("seat_id = ? AND released_at IS NULL", a.SeatID).
				Where("start_time < ? AND end_time > ?", a.EndTime, a.StartTime).
				Count(&count).Error; err != nil {
				return fmt.Errorf("overlap check for seat %d failed: %w", a.SeatID, err)
			}
			if count > 0 {
				var seat model.Seat
				if err := tx.First(&seat, a.SeatID).Error; err != nil {
					seat.Label = fmt.Sprintf("#%d", a.SeatID)
				}
				return &ConflictError{SeatID: a.SeatID, SeatLabel: seat.Label, Start: a.StartTime, End: a.EndTime}
			}
		}
		return tx.Create(&allocations).Error
	})
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// ActiveForOccupant returns the occupant's active allocations, oldest first.
func (s *GormStore) ActiveForOccupant(ctx context.Context, kind model.OccupantKind, occupantID int64) ([]model.SeatAllocation, error) {
	var allocations []model.SeatAllocation
	err := s.db.WithContext(ctx).
		Preload("Seat").
		Where("occupant_kind = ? AND occupant_id = ? AND released_at IS NULL", kind, occupantID).
		Order("id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for %s %d: %w", kind, occupantID, err)
	}
	return allocations, nil
}

// UpdateStatus transitions the status snapshot of active allocations.
// Rows that are missing or already released make the call fail.
func (s *GormStore) UpdateStatus(ctx context.Context, ids []int64, status model.AllocationStatus) error {
	if len(ids) == 0 {
		return &NotFoundError{What: "allocation"}
	}
	res := s.db.WithContext(ctx).
		Model(&model.SeatAllocation{}).
		Where("id IN ? AND released_at IS NULL", ids).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update allocation status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{What: "allocation"}
	}
	return nil
}

// Release soft-closes allocations, recording the final status and the
// release instant. Already-released rows are left untouched, so releasing
// twice is a no-op rather than an error.
func (s *GormStore) Release(ctx context.Context, ids []int64, status model.AllocationStatus, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Model(&model.SeatAllocation{}).
		Where("id IN ? AND released_at IS NULL", ids).
		Updates(map[string]any{"status": status, "released_at": at}).Error
	if err != nil {
		return fmt.Errorf("failed to release allocations: %w", err)
	}
	return nil
}

// notFoundOr maps gorm's record-not-found to the store's typed error.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{What: what}
	}
	return err
}
