// Package store keeps the reminder collection as a single JSON array in the brain.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"sync"
)

type reminderStore struct {
	brain repository.Brain
	key   string
	log   logger.Logger

	mu        sync.Mutex
	reminders []*entity.Reminder
}

// NewReminderStore creates a ReminderRepository persisted under key in brain.
func NewReminderStore(brain repository.Brain, key string, log logger.Logger) repository.ReminderRepository {
	return &reminderStore{
		brain: brain,
		key:   key,
		log:   log,
	}
}

// Load replaces the in-memory collection with the persisted array.
func (s *reminderStore) Load(ctx context.Context) ([]*entity.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.brain.Get(s.key)
	if !ok || len(blob) == 0 {
		s.reminders = nil
		s.log.Info(fmt.Sprintf("No reminders persisted under %q yet", s.key))
		return nil, nil
	}

	var reminders []*entity.Reminder
	if err := json.Unmarshal(blob, &reminders); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reminders under %q: %v", appErrors.ErrDatabaseOperation, s.key, err)
	}
	s.reminders = reminders
	s.log.Debug(fmt.Sprintf("Loaded %d reminder(s) from %q", len(reminders), s.key))
	return cloneAll(reminders), nil
}

// Append adds a reminder and flushes. The collection is left untouched on failure.
func (s *reminderStore) Append(ctx context.Context, reminder *entity.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders {
		if r.ID == reminder.ID {
			return fmt.Errorf("%w: reminder %s already persisted", appErrors.ErrValidation, reminder.ID)
		}
	}

	next := append(append([]*entity.Reminder{}, s.reminders...), clone(reminder))
	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.reminders = next
	return nil
}

// RemoveByID deletes a reminder and flushes.
func (s *reminderStore) RemoveByID(ctx context.Context, id string) (*entity.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	removed := s.reminders[idx]

	next := make([]*entity.Reminder, 0, len(s.reminders)-1)
	next = append(next, s.reminders[:idx]...)
	next = append(next, s.reminders[idx+1:]...)
	if err := s.flush(ctx, next); err != nil {
		return nil, err
	}
	s.reminders = next
	return clone(removed), nil
}

// FindByID retrieves a reminder by its ID.
func (s *reminderStore) FindByID(id string) (*entity.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	return clone(s.reminders[idx]), nil
}

// List returns copies of all reminders in insertion order.
func (s *reminderStore) List() []*entity.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.reminders)
}

// Reset drops the in-memory collection.
func (s *reminderStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = nil
}

// flush writes reminders to the brain and saves synchronously. Caller must hold s.mu.
func (s *reminderStore) flush(ctx context.Context, reminders []*entity.Reminder) error {
	if reminders == nil {
		reminders = []*entity.Reminder{}
	}
	blob, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("%w: failed to encode reminders: %v", appErrors.ErrInternalServer, err)
	}
	s.brain.Set(s.key, blob)
	if err := s.brain.Save(ctx); err != nil {
		// keep the brain's copy in step with the collection we still hold
		if prev, mErr := json.Marshal(s.current()); mErr == nil {
			s.brain.Set(s.key, prev)
		}
		return err
	}
	return nil
}

func (s *reminderStore) current() []*entity.Reminder {
	if s.reminders == nil {
		return []*entity.Reminder{}
	}
	return s.reminders
}

func (s *reminderStore) indexOf(id string) int {
	for i, r := range s.reminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func clone(r *entity.Reminder) *entity.Reminder {
	c := *r
	return &c
}

func cloneAll(reminders []*entity.Reminder) []*entity.Reminder {
	out := make([]*entity.Reminder, len(reminders))
	for i, r := range reminders {
		out[i] = clone(r)
	}
	return out
}
