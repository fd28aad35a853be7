// Package lock serialises work per staff member so that the conflict check
// and the insert of an appointment happen as one step.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
)

// Locker grants exclusive access to a staff member's schedule. The returned
// release func must be called exactly once.
type Locker interface {
	LockStaff(ctx context.Context, staffID int64) (release func(), err error)
}

type entry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker is a process-local Locker. Entries are dropped once nobody
// holds or waits on them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[int64]*entry
	wait  time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{locks: make(map[int64]*entry), wait: wait}
}

func (l *LocalLocker) LockStaff(ctx context.Context, staffID int64) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[staffID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[staffID] = e
	}
	e.refs++
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(staffID, e)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.ErrLockTimeout
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.unref(staffID, e)
		})
	}, nil
}

func (l *LocalLocker) unref(staffID int64, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, staffID)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

var _ Locker = (*LocalLocker)(nil)
