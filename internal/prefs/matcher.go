// Package prefs evaluates staff-authored seat preference options for a
// reservation against current occupancy and turns a chosen option into an
// actual reservation of seats. Options store seat labels, never seat ids,
// so layout edits that renumber seats leave stored preferences intact.
package prefs

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"seating-backend/internal/engine"
	"seating-backend/internal/model"
	"seating-backend/internal/occupant"
	"seating-backend/internal/store"
)

// OptionStatus reports whether one preference option is currently
// assignable in full.
type OptionStatus struct {
	OptionIndex int      `json:"optionIndex"`
	Labels      []string `json:"labels"`
	FullyFree   bool     `json:"fullyFree"`
}

// Matcher exposes the evaluate / assign-from workflow.
type Matcher struct {
	db          *gorm.DB
	allocations store.AllocationStore
	layouts     store.LayoutStore
	engine      *engine.Engine
}

// NewMatcher creates a matcher over the active layout and the allocation
// engine.
func NewMatcher(db *gorm.DB, allocations store.AllocationStore, layouts store.LayoutStore, eng *engine.Engine) *Matcher {
	return &Matcher{db: db, allocations: allocations, layouts: layouts, engine: eng}
}

// Evaluate returns, for each of the reservation's preference options,
// whether every seat in the option is free on the reservation's date.
// An option is fully free iff none of its labels appear in the current
// occupied-seat snapshot.
func (m *Matcher) Evaluate(ctx context.Context, reservationID int64) ([]OptionStatus, error) {
	reservation, err := m.reservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	layout, err := m.layouts.ActiveLayout(ctx)
	if err != nil {
		return nil, err
	}

	occupied, err := m.allocations.OccupiedLabels(ctx, layout.ID, reservation.Date, m.engine.Location())
	if err != nil {
		return nil, err
	}

	statuses := make([]OptionStatus, 0, model.MaxPreferenceOptions)
	for _, index := range optionIndexes(reservation.Preferences) {
		labels := optionLabels(reservation.Preferences, index)
		free := true
		for _, label := range labels {
			if occupied[label] {
				free = false
				break
			}
		}
		statuses = append(statuses, OptionStatus{OptionIndex: index, Labels: labels, FullyFree: free})
	}
	return statuses, nil
}

// AssignFrom reserves the seats of the chosen option for the reservation.
// The labels are resolved against the active layout and handed to the
// engine's Reserve, which advances the reservation status on success. A
// label occupied since the last Evaluate surfaces as a ConflictError;
// the caller offers another option instead of retrying.
func (m *Matcher) AssignFrom(ctx context.Context, reservationID int64, optionIndex int) ([]model.SeatAllocation, error) {
	reservation, err := m.reservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	labels := optionLabels(reservation.Preferences, optionIndex)
	if len(labels) == 0 {
		return nil, &store.NotFoundError{What: fmt.Sprintf("preference option %d for reservation %d", optionIndex, reservationID)}
	}

	return m.engine.Reserve(ctx, engine.AssignRequest{
		Occupant:   occupant.Ref{Kind: model.OccupantReservation, ID: reservationID},
		SeatLabels: labels,
		Date:       reservation.Date,
		Start:      reservation.StartTime,
		End:        reservation.EndTime,
	})
}

func (m *Matcher) reservation(ctx context.Context, id int64) (model.Reservation, error) {
	var reservation model.Reservation
	err := m.db.WithContext(ctx).
		Preload("Preferences", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_index ASC, seq ASC")
		}).
		First(&reservation, id).Error
	if err == gorm.ErrRecordNotFound {
		return model.Reservation{}, &store.NotFoundError{What: fmt.Sprintf("reservation %d", id)}
	}
	return reservation, err
}

func optionIndexes(prefs []model.SeatPreference) []int {
	seen := make(map[int]bool)
	var indexes []int
	for _, p := range prefs {
		if !seen[p.OptionIndex] {
			seen[p.OptionIndex] = true
			indexes = append(indexes, p.OptionIndex)
		}
	}
	sort.Ints(indexes)
	return indexes
}

func optionLabels(prefs []model.SeatPreference, index int) []string {
	var labels []string
	for _, p := range prefs {
		if p.OptionIndex == index {
			labels = append(labels, p.SeatLabel)
		}
	}
	return labels
}
