package service

import (
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/infrastructure/scheduler"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type jobRegistry struct {
	cronScheduler *scheduler.Scheduler // The infrastructure scheduler
	log           logger.Logger
	// map[reminderID]cron.EntryID
	jobStore map[string]cron.EntryID
	mu       sync.Mutex // Protect jobStore access
}

// NewJobRegistry creates a JobRegistry on top of the cron scheduler.
func NewJobRegistry(cronScheduler *scheduler.Scheduler, log logger.Logger) JobRegistry {
	return &jobRegistry{
		cronScheduler: cronScheduler,
		log:           log,
		jobStore:      make(map[string]cron.EntryID),
	}
}

// Schedule hands the pattern itself to cron as the schedule.
func (r *jobRegistry) Schedule(id string, pattern entity.TimePattern, onFire func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobStore[id]; exists {
		return fmt.Errorf("%w: %s", appErrors.ErrAlreadyScheduled, id)
	}
	if onFire == nil {
		return fmt.Errorf("%w: no callback for reminder %s", appErrors.ErrScheduling, id)
	}

	entryID := r.cronScheduler.AddJob(pattern.Normalize(), onFire)
	r.jobStore[id] = entryID
	r.log.Debug(fmt.Sprintf("Stored job ID %d for reminder %s", entryID, id))
	return nil
}

func (r *jobRegistry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entryID, ok := r.jobStore[id]
	if !ok {
		r.log.Debug(fmt.Sprintf("No active schedule found for reminder %s to cancel.", id))
		return false
	}
	delete(r.jobStore, id)
	r.cronScheduler.RemoveJob(entryID)
	r.log.Debug(fmt.Sprintf("Cancelled schedule for reminder %s (Job ID: %d)", id, entryID))
	return true
}

func (r *jobRegistry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.jobStore)
	for id, entryID := range r.jobStore {
		r.cronScheduler.RemoveJob(entryID)
		delete(r.jobStore, id)
	}
	return n
}

func (r *jobRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobStore)
}

func (r *jobRegistry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobStore[id]
	return ok
}

func (r *jobRegistry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.jobStore))
	for id := range r.jobStore {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *jobRegistry) NextRun(id string) (time.Time, bool) {
	r.mu.Lock()
	entryID, ok := r.jobStore[id]
	r.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	entry := r.cronScheduler.Entry(entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return time.Time{}, false
	}
	return entry.Next, true
}

// Stop stops the underlying scheduler.
func (r *jobRegistry) Stop() {
	r.cronScheduler.Stop()
}
