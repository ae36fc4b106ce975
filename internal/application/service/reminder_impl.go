package service

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/application/dto"
	"remindbot/internal/domain/constant"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"sync"
	"sync/atomic"
	"time"
)

// idAttempts bounds how often Add regenerates an id that is already taken.
const idAttempts = 3

type reminderService struct {
	store    repository.ReminderRepository
	brain    repository.Brain
	registry JobRegistry
	notifier Notifier
	newID    IDGenerator
	now      func() time.Time
	log      logger.Logger

	// mu serializes every mutation of store and registry together; the
	// bijection between them spans both.
	mu           sync.Mutex
	state        atomic.Int32
	readyHook    sync.Once
	reconcileErr error
	firing       map[string]struct{}
}

// Option customizes a reminder service.
type Option func(*reminderService)

// WithIDGenerator replaces the default ShortID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *reminderService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock replaces time.Now for validating new reminders.
func WithClock(now func() time.Time) Option {
	return func(s *reminderService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReminderService creates a new instance of ReminderService implementation.
// Call Initialize before adding or removing reminders.
func NewReminderService(
	store repository.ReminderRepository,
	brain repository.Brain,
	registry JobRegistry,
	notifier Notifier,
	log logger.Logger,
	opts ...Option,
) ReminderService {
	s := &reminderService{
		store:    store,
		brain:    brain,
		registry: registry,
		notifier: notifier,
		newID:    ShortID,
		now:      time.Now,
		log:      log,
		firing:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize resets the service and reloads the brain. Reconciliation runs on
// the brain's ready signal, at most once per Initialize however often the
// signal arrives.
func (s *reminderService) Initialize(ctx context.Context) error {
	s.readyHook.Do(func() {
		s.brain.OnReady(s.reconcile)
	})

	s.mu.Lock()
	if n := s.registry.CancelAll(); n > 0 {
		s.log.Info(fmt.Sprintf("Stopped %d running reminder(s) before reload", n))
	}
	s.store.Reset()
	s.reconcileErr = nil
	s.state.Store(constant.StateUninitialized.Int32())
	s.mu.Unlock()

	s.log.Info("Loading persistence layer...")
	if err := s.brain.Load(ctx); err != nil {
		s.log.Error("Failed to load the brain", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconcileErr != nil {
		return s.reconcileErr
	}
	if !s.Ready() {
		return fmt.Errorf("%w: ready signal was not handled", appErrors.ErrNotReady)
	}
	return nil
}

// reconcile resumes a timer for every persisted reminder. It is the brain's
// ready handler and only does work on the first signal after Initialize.
func (s *reminderService) reconcile() {
	if !s.state.CompareAndSwap(constant.StateUninitialized.Int32(), constant.StateReconciling.Int32()) {
		s.log.Debug("Ready signal ignored, reminders already reconciled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	reminders, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load persisted reminders", err)
		s.reconcileErr = err
		s.state.Store(constant.StateUninitialized.Int32())
		return
	}

	resumed, dropped := 0, 0
	for _, r := range reminders {
		if s.registry.Has(r.ID) {
			continue
		}
		if err := s.schedule(r); err != nil {
			s.log.Error(fmt.Sprintf("Dropping reminder %s that cannot be resumed", r.ID), fmt.Errorf("%w: %v", appErrors.ErrConsistency, err))
			s.drop(ctx, r.ID)
			dropped++
			continue
		}
		resumed++
	}
	dropped += s.enforceBijection(ctx)

	s.state.Store(constant.StateReconciled.Int32())
	s.log.Info(fmt.Sprintf("Reconciliation complete. Resumed: %d, Dropped: %d", resumed, dropped))
}

// enforceBijection drops records without a timer and cancels timers without
// a record. Caller must hold s.mu.
func (s *reminderService) enforceBijection(ctx context.Context) int {
	fixed := 0
	persisted := make(map[string]struct{})
	for _, r := range s.store.List() {
		persisted[r.ID] = struct{}{}
		if !s.registry.Has(r.ID) {
			s.log.Error(fmt.Sprintf("Reminder %s has no timer", r.ID), appErrors.ErrConsistency)
			s.drop(ctx, r.ID)
			fixed++
		}
	}
	for _, id := range s.registry.IDs() {
		if _, ok := persisted[id]; !ok {
			s.log.Error(fmt.Sprintf("Timer %s has no reminder record", id), appErrors.ErrConsistency)
			s.registry.Cancel(id)
			fixed++
		}
	}
	return fixed
}

func (s *reminderService) drop(ctx context.Context, id string) {
	if _, err := s.store.RemoveByID(ctx, id); err != nil && !errors.Is(err, appErrors.ErrReminderNotFound) {
		s.log.Error(fmt.Sprintf("Failed to drop reminder %s", id), err)
	}
}

// Add validates, persists and schedules a reminder.
func (s *reminderService) Add(ctx context.Context, req dto.AddReminderRequest) (string, error) {
	pattern := req.Time.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Ready() {
		return "", appErrors.ErrNotReady
	}

	if req.ID != "" {
		reminder, err := s.store.FindByID(req.ID)
		if err != nil {
			return "", err
		}
		if s.registry.Has(req.ID) {
			return "", fmt.Errorf("%w: %s", appErrors.ErrAlreadyScheduled, req.ID)
		}
		if err := s.schedule(reminder); err != nil {
			return "", err
		}
		s.log.Info(fmt.Sprintf("Resumed reminder %s", req.ID))
		return req.ID, nil
	}

	if err := s.checkSchedulable(pattern); err != nil {
		return "", err
	}

	id, err := s.freshID()
	if err != nil {
		return "", err
	}
	reminder := &entity.Reminder{
		ID:      id,
		Time:    pattern,
		Message: req.Message,
		Room:    req.Room,
		User:    req.User,
	}

	// Persist first: a failure after this point leaves a record that the next reload resumes.
	if err := s.store.Append(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to persist reminder for user %s", req.User), err)
		return "", err
	}
	if err := s.registry.Schedule(id, pattern, s.fireFunc(*reminder)); err != nil {
		s.log.Error(fmt.Sprintf("Failed to schedule reminder %s, rolling back", id), err)
		s.drop(ctx, id)
		return "", fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.log.Info(fmt.Sprintf("Added reminder %s for %s in room %s (%s)", id, req.User, req.Room, pattern.Describe()))
	return id, nil
}

// schedule starts the timer for an already persisted reminder. Caller must hold s.mu.
func (s *reminderService) schedule(reminder *entity.Reminder) error {
	pattern := reminder.Time.Normalize()
	if err := s.checkSchedulable(pattern); err != nil {
		return err
	}
	r := *reminder
	r.Time = pattern
	return s.registry.Schedule(r.ID, pattern, s.fireFunc(r))
}

func (s *reminderService) checkSchedulable(pattern entity.TimePattern) error {
	if err := pattern.Validate(); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrValidation, err)
	}
	if pattern.Next(s.now()).IsZero() {
		if pattern.IsOneShot() {
			return appErrors.ErrTimeInPast
		}
		return fmt.Errorf("%w: pattern never fires", appErrors.ErrValidation)
	}
	return nil
}

// freshID returns an id that is not yet persisted. Caller must hold s.mu.
func (s *reminderService) freshID() (string, error) {
	for i := 0; i < idAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, err := s.store.FindByID(id); errors.Is(err, appErrors.ErrReminderNotFound) {
			return id, nil
		}
		s.log.Warn(fmt.Sprintf("Generated reminder id %s is already taken, retrying", id))
	}
	return "", fmt.Errorf("%w: could not generate a unique reminder id", appErrors.ErrInternalServer)
}

// fireFunc builds the timer callback. It never panics or returns an error to
// the timer engine: failures are logged so other reminders keep firing.
func (s *reminderService) fireFunc(reminder entity.Reminder) func() {
	return func() {
		ctx := context.Background()
		oneShot := reminder.IsOneShot()
		if oneShot {
			s.setFiring(reminder.ID, true)
			defer s.setFiring(reminder.ID, false)
		}

		text := fmt.Sprintf("@%s REMINDER: %s", reminder.User, reminder.Message)
		if err := s.notifier.Send(ctx, reminder.Room, text); err != nil {
			s.log.Error(fmt.Sprintf("Failed to send reminder %s to room %s", reminder.ID, reminder.Room), err)
		} else {
			s.log.Info(fmt.Sprintf("Sent reminder %s to room %s", reminder.ID, reminder.Room))
		}

		if !oneShot {
			return
		}
		res, err := s.Remove(ctx, reminder.ID)
		switch {
		case err != nil:
			s.log.Error(fmt.Sprintf("Failed to remove one-shot reminder %s after firing", reminder.ID), err)
		case !res.Found:
			s.log.Warn(fmt.Sprintf("One-shot reminder %s was already gone after firing", reminder.ID))
		default:
			s.log.Debug(fmt.Sprintf("One-shot reminder %s removed after firing", reminder.ID))
		}
	}
}

func (s *reminderService) setFiring(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.firing[id] = struct{}{}
	} else {
		delete(s.firing, id)
	}
}

// Remove stops the timer first and then deletes the record.
func (s *reminderService) Remove(ctx context.Context, id string) (dto.RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Ready() {
		return dto.RemoveResult{ID: id}, appErrors.ErrNotReady
	}

	reminder, err := s.store.FindByID(id)
	if err != nil || !s.registry.Has(id) {
		s.log.Debug(fmt.Sprintf("Reminder %s not found for removal", id))
		return dto.RemoveResult{Found: false, ID: id}, nil
	}

	s.registry.Cancel(id)
	if _, err := s.store.RemoveByID(ctx, id); err != nil {
		s.log.Error(fmt.Sprintf("Timer for reminder %s stopped but its record could not be removed", id), err)
		if schedErr := s.registry.Schedule(id, reminder.Time, s.fireFunc(*reminder)); schedErr != nil {
			s.log.Error(fmt.Sprintf("Failed to restart timer for reminder %s", id), fmt.Errorf("%w: %v", appErrors.ErrConsistency, schedErr))
		}
		return dto.RemoveResult{Found: true, ID: id}, err
	}

	s.log.Info(fmt.Sprintf("Removed reminder %s", id))
	return dto.RemoveResult{Found: true, ID: id}, nil
}

func (s *reminderService) List(ctx context.Context) []*entity.Reminder {
	return s.store.List()
}

func (s *reminderService) Count() int {
	return s.registry.Count()
}

func (s *reminderService) NextRun(id string) (time.Time, bool) {
	return s.registry.NextRun(id)
}

func (s *reminderService) State(id string) constant.ReminderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.firing[id]; ok {
		return constant.ReminderFired
	}
	if _, err := s.store.FindByID(id); err == nil && s.registry.Has(id) {
		return constant.ReminderPending
	}
	return constant.ReminderRemoved
}

func (s *reminderService) Ready() bool {
	return s.state.Load() == constant.StateReconciled.Int32()
}

func (s *reminderService) Stop() {
	s.registry.Stop()
}
