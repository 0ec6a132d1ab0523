package occupant

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

	"seating-backend/internal/model"
	"seating-backend/internal/store"
)

func newTestResolver(t *testing.T) (Resolver, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Reservation{}, &model.WaitlistEntry{}, &model.PushSubscription{}))
	return NewGormResolver(db), db
}

func TestResolveReservation(t *testing.T) {
	r, db := newTestResolver(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	res := model.Reservation{
		GuestName: "Suzuki",
		PartySize: 4,
		Status:    model.ReservationBooked,
		Date:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime: &start,
		EndTime:   &end,
	}
	require.NoError(t, db.Create(&res).Error)

	info, err := r.Resolve(ctx, Ref{Kind: model.OccupantReservation, ID: res.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, info.PartySize)
	assert.Equal(t, "Suzuki", info.DisplayName)
	assert.Equal(t, model.ReservationBooked, info.Status)
	require.NotNil(t, info.Start)
	assert.Equal(t, start.Unix(), info.Start.Unix())
	require.NotNil(t, info.End)
	assert.Equal(t, end.Unix(), info.End.Unix())
}

func TestResolveWaitlistEntry(t *testing.T) {
	r, db := newTestResolver(t)
	ctx := context.Background()

	entry := model.WaitlistEntry{
		GuestName: "Sato",
		PartySize: 2,
		Status:    model.WaitlistWaiting,
		JoinedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&entry).Error)

	info, err := r.Resolve(ctx, Ref{Kind: model.OccupantWaitlist, ID: entry.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, info.PartySize)
	assert.Equal(t, "Sato", info.DisplayName)
	assert.True(t, info.Date.IsZero(), "walk-ins have no service date of their own")
	assert.Nil(t, info.Start)
}

func TestResolveMissingAndUnknownKind(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	var notFound *store.NotFoundError
	_, err := r.Resolve(ctx, Ref{Kind: model.OccupantReservation, ID: 42})
	assert.ErrorAs(t, err, &notFound)

	_, err = r.Resolve(ctx, Ref{Kind: "ghost", ID: 1})
	assert.Error(t, err)
	assert.Error(t, r.SetStatus(ctx, Ref{Kind: "ghost", ID: 1}, model.StatusSeated))
}

func TestSetStatusTranslation(t *testing.T) {
	r, db := newTestResolver(t)
	ctx := context.Background()

	res := model.Reservation{GuestName: "Ito", PartySize: 1, Status: model.ReservationBooked, Date: time.Now()}
	require.NoError(t, db.Create(&res).Error)
	entry := model.WaitlistEntry{GuestName: "Kimura", PartySize: 1, Status: model.WaitlistWaiting, JoinedAt: time.Now()}
	require.NoError(t, db.Create(&entry).Error)

	resRef := Ref{Kind: model.OccupantReservation, ID: res.ID}
	entryRef := Ref{Kind: model.OccupantWaitlist, ID: entry.ID}

	// Reservations take the allocation status verbatim; waitlist entries
	// speak their own vocabulary.
	cases := []struct {
		allocation model.AllocationStatus
		reserved   string
		waitlist   string
	}{
		{model.StatusReserved, model.ReservationReserved, model.WaitlistNotified},
		{model.StatusSeated, model.ReservationSeated, model.WaitlistSeated},
		{model.StatusFinished, model.ReservationFinished, model.WaitlistLeft},
		{model.StatusNoShow, model.ReservationNoShow, model.WaitlistLeft},
		{model.StatusCanceled, model.ReservationCanceled, model.WaitlistLeft},
	}
	for _, tc := range cases {
		require.NoError(t, r.SetStatus(ctx, resRef, tc.allocation))
		require.NoError(t, r.SetStatus(ctx, entryRef, tc.allocation))

		var gotRes model.Reservation
		require.NoError(t, db.First(&gotRes, res.ID).Error)
		assert.Equal(t, tc.reserved, gotRes.Status, "reservation after %s", tc.allocation)

		var gotEntry model.WaitlistEntry
		require.NoError(t, db.First(&gotEntry, entry.ID).Error)
		assert.Equal(t, tc.waitlist, gotEntry.Status, "waitlist after %s", tc.allocation)
	}

	var notFound *store.NotFoundError
	assert.ErrorAs(t, r.SetStatus(ctx, Ref{Kind: model.OccupantReservation, ID: 99}, model.StatusSeated), &notFound)
}
