package engine

import (
	"fmt"
	"sync"
	"time"
)

// dateLocks serializes assignment operations per (layout, date) so the
// conflict check and the insert are observed atomically by all callers.
// Operations on disjoint layouts or dates proceed in parallel.
type dateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDateLocks() *dateLocks {
	return &dateLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the (layout, date) pair and returns the unlock function.
func (d *dateLocks) acquire(layoutID int64, date time.Time, loc *time.Location) func() {
	key := fmt.Sprintf("%d:%s", layoutID, date.In(loc).Format("2006-01-02"))

	d.mu.Lock()
	l, ok := d.locks[key]
	if !ok {
		l = &sync.Mutex{}
		d.locks[key] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}
