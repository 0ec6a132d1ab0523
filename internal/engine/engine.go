// Package engine validates and executes seat allocation state
// transitions. It is the only writer of the per-seat active-allocation
// set: every operation either fully completes or fully fails, and a
// conflicting request returns immediately instead of queuing.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"seating-backend/config"
	"seating-backend/internal/model"
	"seating-backend/internal/occupant"
	"seating-backend/internal/store"
)

// Notifier receives the id of a waitlist entry whose table just became
// ready. The notification worker pool implements it.
type Notifier interface {
	Dispatch(entryID int64)
}

// Engine drives the allocation state machine:
//
//	reserved -> seated -> finished
//	reserved -> no_show
//	{reserved,seated} -> canceled
//
// plus the unknown status, from which only Cancel is accepted.
type Engine struct {
	allocations store.AllocationStore
	layouts     store.LayoutStore
	occupants   occupant.Resolver
	locks       *dateLocks
	notifier    Notifier

	loc             *time.Location
	serviceHour     int
	serviceMinute   int
	defaultDuration time.Duration

	now func() time.Time // overridable in tests
}

// New creates an engine over the given stores and resolver.
func New(cfg *config.RestaurantConfig, allocations store.AllocationStore, layouts store.LayoutStore, occupants occupant.Resolver) (*Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.ServiceStartClock()
	if err != nil {
		return nil, err
	}
	return &Engine{
		allocations:     allocations,
		layouts:         layouts,
		occupants:       occupants,
		locks:           newDateLocks(),
		loc:             loc,
		serviceHour:     hour,
		serviceMinute:   minute,
		defaultDuration: cfg.DefaultDuration,
		now:             time.Now,
	}, nil
}

// SetNotifier attaches the worker pool that pushes "table ready"
// notifications for waitlist reservations.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// Location returns the restaurant's timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// AssignRequest describes a Seat-Now or Reserve operation.
type AssignRequest struct {
	Occupant   occupant.Ref
	LayoutID   int64 // 0 selects the active layout
	SeatLabels []string
	Date       time.Time // target service date; zero falls back to the occupant's date, then today
	Start      *time.Time
	End        *time.Time
	Duration   time.Duration // 0 falls back to the configured default
}

// SeatNow assigns seats immediately: the party is at the table, so the
// allocations enter the seated state directly.
func (e *Engine) SeatNow(ctx context.Context, req AssignRequest) ([]model.SeatAllocation, error) {
	return e.assign(ctx, req, model.StatusSeated)
}

// Reserve assigns seats for a future arrival; the allocations enter the
// reserved state and Arrive moves them to seated.
func (e *Engine) Reserve(ctx context.Context, req AssignRequest) ([]model.SeatAllocation, error) {
	allocations, err := e.assign(ctx, req, model.StatusReserved)
	if err != nil {
		return nil, err
	}
	if e.notifier != nil && req.Occupant.Kind == model.OccupantWaitlist {
		e.notifier.Dispatch(req.Occupant.ID)
	}
	return allocations, nil
}

// assign is the shared Seat-Now/Reserve path: validate, derive the
// window, resolve labels, then perform the conflict-checked batch insert
// under the (layout, date) critical section. Zero rows are written on any
// failure.
func (e *Engine) assign(ctx context.Context, req AssignRequest, status model.AllocationStatus) ([]model.SeatAllocation, error) {
	if len(req.SeatLabels) == 0 {
		return nil, &ValidationError{Reason: "seat label list is empty"}
	}

	info, err := e.occupants.Resolve(ctx, req.Occupant)
	if err != nil {
		return nil, err
	}
	if len(req.SeatLabels) != info.PartySize {
		return nil, &PartySizeMismatchError{PartySize: info.PartySize, SeatCount: len(req.SeatLabels)}
	}

	layout, err := e.layout(ctx, req.LayoutID)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = info.Date
	}
	start, end := req.Start, req.End
	if start == nil && end == nil {
		start, end = info.Start, info.End
	}
	from, to, err := e.window(date, start, end, req.Duration, e.now())
	if err != nil {
		return nil, err
	}

	seats, err := e.layouts.SeatsByLabel(ctx, layout.ID, req.SeatLabels)
	if err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	allocations := make([]model.SeatAllocation, 0, len(req.SeatLabels))
	for _, label := range req.SeatLabels {
		seat, ok := seats[label]
		if !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("seat %q does not exist in layout %d", label, layout.ID)}
		}
		allocations = append(allocations, model.SeatAllocation{
			GroupID:           groupID,
			SeatID:            seat.ID,
			OccupantKind:      req.Occupant.Kind,
			OccupantID:        req.Occupant.ID,
			OccupantName:      info.DisplayName,
			OccupantPartySize: info.PartySize,
			Status:            status,
			StartTime:         from,
			EndTime:           to,
		})
	}

	unlock := e.locks.acquire(layout.ID, from, e.loc)
	defer unlock()

	inserted, err := e.allocations.Insert(ctx, allocations)
	if err != nil {
		return nil, err
	}

	if err := e.occupants.SetStatus(ctx, req.Occupant, status); err != nil {
		return nil, fmt.Errorf("allocations written but %s status update failed: %w", req.Occupant, err)
	}
	return inserted, nil
}

// Arrive moves all of the occupant's reserved allocations to seated.
func (e *Engine) Arrive(ctx context.Context, ref occupant.Ref) error {
	return e.transition(ctx, ref, "reserved allocation",
		[]model.AllocationStatus{model.StatusReserved},
		func(ids []int64) error {
			return e.allocations.UpdateStatus(ctx, ids, model.StatusSeated)
		}, model.StatusSeated)
}

// Finish releases all of the occupant's seated allocations: the party
// left and the seats are free again. Reserved-but-never-seated occupants
// must go through Arrive or No-Show instead; Finish does not skip the
// seated state.
func (e *Engine) Finish(ctx context.Context, ref occupant.Ref) error {
	now := e.now()
	return e.transition(ctx, ref, "seated allocation",
		[]model.AllocationStatus{model.StatusSeated, model.StatusOccupied},
		func(ids []int64) error {
			return e.allocations.Release(ctx, ids, model.StatusFinished, now)
		}, model.StatusFinished)
}

// NoShow releases all of the occupant's reserved allocations without the
// seats ever having been occupied.
func (e *Engine) NoShow(ctx context.Context, ref occupant.Ref) error {
	now := e.now()
	return e.transition(ctx, ref, "reserved allocation",
		[]model.AllocationStatus{model.StatusReserved},
		func(ids []int64) error {
			return e.allocations.Release(ctx, ids, model.StatusNoShow, now)
		}, model.StatusNoShow)
}

// Cancel releases all of the occupant's active allocations regardless of
// their status. It is the only operation accepted from the unknown
// status.
func (e *Engine) Cancel(ctx context.Context, ref occupant.Ref) error {
	now := e.now()
	return e.transition(ctx, ref, "active allocation", nil,
		func(ids []int64) error {
			return e.allocations.Release(ctx, ids, model.StatusCanceled, now)
		}, model.StatusCanceled)
}

// transition applies a status-changing operation to the occupant's active
// allocations that are in one of the accepted states (nil accepts every
// state), then syncs the occupant's own status field.
func (e *Engine) transition(ctx context.Context, ref occupant.Ref, want string, accepted []model.AllocationStatus, apply func(ids []int64) error, synced model.AllocationStatus) error {
	active, err := e.allocations.ActiveForOccupant(ctx, ref.Kind, ref.ID)
	if err != nil {
		return err
	}

	var ids []int64
	for _, a := range active {
		if accepted == nil || statusIn(a.Status, accepted) {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return &store.NotFoundError{What: fmt.Sprintf("%s for %s", want, ref)}
	}

	if err := apply(ids); err != nil {
		return err
	}

	if err := e.occupants.SetStatus(ctx, ref, synced); err != nil {
		// The allocation rows already transitioned; surface the sync
		// failure without inventing a rollback.
		log.Printf("failed to sync %s status to %s: %v", ref, synced, err)
		return err
	}
	return nil
}

func statusIn(s model.AllocationStatus, set []model.AllocationStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ActiveAllocations returns the seat_id -> allocation mapping for the
// given calendar date, optionally filtered to sections.
func (e *Engine) ActiveAllocations(ctx context.Context, date time.Time, sectionIDs ...int64) (map[int64]model.SeatAllocation, error) {
	return e.allocations.QueryActive(ctx, date, e.loc, sectionIDs...)
}

// layout resolves a layout id, with 0 meaning the active layout.
func (e *Engine) layout(ctx context.Context, id int64) (model.Layout, error) {
	if id == 0 {
		return e.layouts.ActiveLayout(ctx)
	}
	return e.layouts.GetLayout(ctx, id)
}
