package service

import (
	"remindbot/internal/domain/entity"
	"time"
)

// JobRegistry owns the live timers, keyed by reminder ID.
type JobRegistry interface {
	// Schedule starts a timer for id. Fails with ErrAlreadyScheduled if id already has one.
	Schedule(id string, pattern entity.TimePattern, onFire func()) error
	// Cancel stops and forgets the timer for id. Returns false if there was none.
	Cancel(id string) bool
	// CancelAll stops every timer and returns how many there were.
	CancelAll() int
	// Count returns the number of live timers.
	Count() int
	// Has reports whether id has a live timer.
	Has(id string) bool
	// IDs returns the ids of all live timers, sorted.
	IDs() []string
	// NextRun returns when the timer for id fires next.
	NextRun(id string) (time.Time, bool)
	// Stop halts the timer engine and waits for running callbacks.
	Stop()
}
