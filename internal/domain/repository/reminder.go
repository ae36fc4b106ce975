package repository

import (
	"context"
	"remindbot/internal/domain/entity"
)

// ReminderRepository is the durable collection of reminders.
// Every mutating call is flushed to durable storage before it returns.
type ReminderRepository interface {
	// Load replaces the in-memory collection with the persisted one and returns it.
	// Calling it again never duplicates entries.
	Load(ctx context.Context) ([]*entity.Reminder, error)
	// Append adds a reminder and flushes.
	Append(ctx context.Context, reminder *entity.Reminder) error
	// RemoveByID deletes a reminder by its ID and flushes. Returns the removed reminder.
	RemoveByID(ctx context.Context, id string) (*entity.Reminder, error)
	// FindByID retrieves a reminder by its ID from the in-memory collection.
	FindByID(id string) (*entity.Reminder, error)
	// List returns the in-memory collection in insertion order.
	List() []*entity.Reminder
	// Reset drops the in-memory collection without touching durable storage.
	Reset()
}
