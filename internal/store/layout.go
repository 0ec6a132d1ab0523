package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"seating-backend/internal/model"
)

// LayoutStore defines read access to the static floor description. The
// allocation engine consumes layouts but never mutates them.
type LayoutStore interface {
	GetLayout(ctx context.Context, id int64) (model.Layout, error)
	GetAllLayouts(ctx context.Context) ([]model.Layout, error)
	ActiveLayout(ctx context.Context) (model.Layout, error)
	SeatsByLabel(ctx context.Context, layoutID int64, labels []string) (map[string]model.Seat, error)
}

func preloadSections(db *gorm.DB) *gorm.DB {
	return db.Order("sections.position ASC")
}

func preloadSeats(db *gorm.DB) *gorm.DB {
	return db.Order("seats.position ASC")
}

// GetLayout returns a layout with its sections and seats in floor order.
func (s *GormStore) GetLayout(ctx context.Context, id int64) (model.Layout, error) {
	var layout model.Layout
	err := s.db.WithContext(ctx).
		Preload("Sections", preloadSections).
		Preload("Sections.Seats", preloadSeats).
		First(&layout, id).Error
	if err != nil {
		return model.Layout{}, notFoundOr(err, fmt.Sprintf("layout %d", id))
	}
	return layout, nil
}

// GetAllLayouts returns every stored layout with sections and seats.
func (s *GormStore) GetAllLayouts(ctx context.Context) ([]model.Layout, error) {
	var layouts []model.Layout
	err := s.db.WithContext(ctx).
		Preload("Sections", preloadSections).
		Preload("Sections.Seats", preloadSeats).
		Order("id ASC").
		Find(&layouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query layouts: %w", err)
	}
	return layouts, nil
}

// ActiveLayout resolves the activation pointer to the layout currently in
// service.
func (s *GormStore) ActiveLayout(ctx context.Context) (model.Layout, error) {
	var activation model.LayoutActivation
	if err := s.db.WithContext(ctx).First(&activation).Error; err != nil {
		return model.Layout{}, notFoundOr(err, "active layout")
	}
	return s.GetLayout(ctx, activation.LayoutID)
}

// SeatsByLabel resolves seat labels to seats within one layout. Labels
// that do not exist in the layout are simply absent from the result; the
// caller decides whether that is an error.
func (s *GormStore) SeatsByLabel(ctx context.Context, layoutID int64, labels []string) (map[string]model.Seat, error) {
	if len(labels) == 0 {
		return map[string]model.Seat{}, nil
	}

	var seats []model.Seat
	err := s.db.WithContext(ctx).
		Joins("JOIN sections ON sections.id = seats.section_id").
		Where("sections.layout_id = ?", layoutID).
		Where("seats.label IN ?", labels).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seat labels: %w", err)
	}

	byLabel := make(map[string]model.Seat, len(seats))
	for _, seat := range seats {
		byLabel[seat.Label] = seat
	}
	return byLabel, nil
}
