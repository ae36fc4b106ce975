package scheduler

import (
	"fmt"
	"remindbot/internal/pkg/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron jobs.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
	mu   sync.Mutex // To protect access to job management
}

// NewScheduler creates and starts a cron scheduler evaluating schedules
// against the host's local clock. A panicking job is recovered and logged.
func NewScheduler(log logger.Logger) *Scheduler {
	cronLog := logger.CronLogger(log)
	c := cron.New(
		cron.WithLocation(time.Local),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)
	c.Start()
	log.Info("Cron scheduler started.")
	return &Scheduler{
		cron: c,
		log:  log,
	}
}

// AddJob adds a new job running cmd whenever schedule fires.
// A schedule whose Next returns the zero time is kept but never runs.
func (s *Scheduler) AddJob(schedule cron.Schedule, cmd func()) cron.EntryID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.cron.Schedule(schedule, cron.FuncJob(cmd))
	s.log.Debug(fmt.Sprintf("Added cron job with ID %d", id))
	return id
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Debug(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Entry returns the scheduled entry for id. The entry is invalid
// (Valid() == false) if no such job exists.
func (s *Scheduler) Entry(id cron.EntryID) cron.Entry {
	return s.cron.Entry(id)
}

// Stop stops the cron scheduler and waits for running jobs to complete.
// The lock is not held while waiting: a running job may still remove entries.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()

	if c != nil {
		ctx := c.Stop()
		<-ctx.Done()
		s.log.Info("Cron scheduler stopped.")
	}
}

// GetEntries returns the list of scheduled entries. Useful for debugging.
func (s *Scheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
