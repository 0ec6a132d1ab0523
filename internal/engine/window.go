package engine

import (
	"time"
)

// window derives the allocation time window for a request.
//
// An explicit start/end pair wins. Otherwise the window runs for the
// requested duration (falling back to the configured default) starting
// at: the explicit start if one was given; the current instant if the
// target date is today in the restaurant's timezone (walk-ins reflect
// real clock time); or the configured service start on the target date
// (advance bookings need a sane anchor absent an explicit time).
func (e *Engine) window(date time.Time, start, end *time.Time, duration time.Duration, now time.Time) (time.Time, time.Time, error) {
	if start != nil && end != nil {
		if !end.After(*start) {
			return time.Time{}, time.Time{}, &ValidationError{Reason: "time window must end after it starts"}
		}
		return *start, *end, nil
	}

	if duration <= 0 {
		duration = e.defaultDuration
	}

	if start != nil {
		return *start, start.Add(duration), nil
	}

	if date.IsZero() {
		date = now
	}

	var from time.Time
	if sameDay(date, now, e.loc) {
		from = now
	} else {
		y, m, d := date.In(e.loc).Date()
		from = time.Date(y, m, d, e.serviceHour, e.serviceMinute, 0, 0, e.loc)
	}
	return from, from.Add(duration), nil
}

// sameDay reports whether two instants fall on the same calendar date in
// loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
