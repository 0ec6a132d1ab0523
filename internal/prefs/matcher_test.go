package prefs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"seating-backend/config"
	"seating-backend/internal/engine"
	"seating-backend/internal/model"
	"seating-backend/internal/occupant"
	"seating-backend/internal/store"
)

var serviceDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

// newTestMatcher seeds an active layout with counter seats B1..B4 and a
// reservation for two with two preference options: [B1, B2] and [B3, B4].
func newTestMatcher(t *testing.T) (*Matcher, *engine.Engine, *gorm.DB, model.Reservation) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Layout{}, &model.Section{}, &model.Seat{}, &model.LayoutActivation{},
		&model.Reservation{}, &model.SeatPreference{}, &model.WaitlistEntry{},
		&model.SeatAllocation{}, &model.PushSubscription{},
	))

	layout := model.Layout{
		ID:   1,
		Name: "Main floor",
		Sections: []model.Section{
			{ID: 1, Name: "Counter", Kind: model.SectionCounter, Position: 1,
				Seats: []model.Seat{
					{ID: 1, Label: "B1", Capacity: 1, Position: 1},
					{ID: 2, Label: "B2", Capacity: 1, Position: 2},
					{ID: 3, Label: "B3", Capacity: 1, Position: 3},
					{ID: 4, Label: "B4", Capacity: 1, Position: 4},
				}},
		},
	}
	require.NoError(t, db.Create(&layout).Error)
	require.NoError(t, db.Create(&model.LayoutActivation{ID: 1, LayoutID: 1}).Error)

	res := model.Reservation{
		GuestName: "Yamada",
		PartySize: 2,
		Status:    model.ReservationBooked,
		Date:      serviceDate,
		Preferences: []model.SeatPreference{
			{OptionIndex: 1, Seq: 1, SeatLabel: "B1"},
			{OptionIndex: 1, Seq: 2, SeatLabel: "B2"},
			{OptionIndex: 2, Seq: 1, SeatLabel: "B3"},
			{OptionIndex: 2, Seq: 2, SeatLabel: "B4"},
		},
	}
	require.NoError(t, db.Create(&res).Error)

	cfg := &config.RestaurantConfig{Timezone: "UTC", ServiceStart: "18:00", DefaultDuration: time.Hour}
	gs := store.NewGormStore(db)
	eng, err := engine.New(cfg, gs, gs, occupant.NewGormResolver(db))
	require.NoError(t, err)
	return NewMatcher(db, gs, gs, eng), eng, db, res
}

// occupySeat books the given label for someone else on the service date.
func occupySeat(t *testing.T, eng *engine.Engine, db *gorm.DB, label string) {
	other := model.Reservation{GuestName: "Blocker", PartySize: 1, Status: model.ReservationBooked, Date: serviceDate}
	require.NoError(t, db.Create(&other).Error)
	_, err := eng.Reserve(context.Background(), engine.AssignRequest{
		Occupant:   occupant.Ref{Kind: model.OccupantReservation, ID: other.ID},
		SeatLabels: []string{label},
		Date:       serviceDate,
	})
	require.NoError(t, err)
}

func TestEvaluate(t *testing.T) {
	m, eng, db, res := newTestMatcher(t)
	ctx := context.Background()

	statuses, err := m.Evaluate(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, 1, statuses[0].OptionIndex)
	assert.Equal(t, []string{"B1", "B2"}, statuses[0].Labels)
	assert.True(t, statuses[0].FullyFree)
	assert.True(t, statuses[1].FullyFree)

	// One occupied seat takes the whole option out of play.
	occupySeat(t, eng, db, "B1")

	statuses, err = m.Evaluate(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, statuses[0].FullyFree)
	assert.True(t, statuses[1].FullyFree)
}

func TestAssignFrom(t *testing.T) {
	m, eng, db, res := newTestMatcher(t)
	ctx := context.Background()

	occupySeat(t, eng, db, "B1")

	// Option 1 contains the occupied B1 and must fail atomically.
	_, err := m.AssignFrom(ctx, res.ID, 1)
	var conflict *store.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "B1", conflict.SeatLabel)

	var count int64
	require.NoError(t, db.Model(&model.SeatAllocation{}).
		Where("occupant_id = ?", res.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Option 2 is free and reserves both of its seats.
	allocations, err := m.AssignFrom(ctx, res.ID, 2)
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	for _, a := range allocations {
		assert.Equal(t, model.StatusReserved, a.Status)
	}

	var reloaded model.Reservation
	require.NoError(t, db.First(&reloaded, res.ID).Error)
	assert.Equal(t, model.ReservationReserved, reloaded.Status)
}

func TestAssignFromMissingOption(t *testing.T) {
	m, _, _, res := newTestMatcher(t)
	ctx := context.Background()

	var notFound *store.NotFoundError
	_, err := m.AssignFrom(ctx, res.ID, 3)
	assert.ErrorAs(t, err, &notFound)

	_, err = m.AssignFrom(ctx, 999, 1)
	assert.ErrorAs(t, err, &notFound)

	_, err = m.Evaluate(ctx, 999)
	assert.ErrorAs(t, err, &notFound)
}
