package service

import (
	"context"
	"remindbot/internal/application/dto"
	"remindbot/internal/domain/constant"
	"remindbot/internal/domain/entity"
	"time"
)

// Notifier delivers a message to a chat room.
type Notifier interface {
	Send(ctx context.Context, room, message string) error
}

// ReminderService defines the interface for reminder-related business logic.
type ReminderService interface {
	// Initialize drops all live timers and in-memory records, then reloads the
	// persisted reminders and resumes their timers once the store signals ready.
	Initialize(ctx context.Context) error
	// Add creates and persists a reminder, starts its timer and returns its ID.
	// With req.ID set it only resumes the timer of an already persisted reminder.
	Add(ctx context.Context, req dto.AddReminderRequest) (string, error)
	// Remove stops the timer and deletes the record. Unknown ids give Found == false.
	Remove(ctx context.Context, id string) (dto.RemoveResult, error)
	// List returns all persisted reminders.
	List(ctx context.Context) []*entity.Reminder
	// Count returns the number of live timers.
	Count() int
	// NextRun returns when the reminder fires next.
	NextRun(id string) (time.Time, bool)
	// State returns the lifecycle state of a reminder.
	State(id string) constant.ReminderState
	// Ready reports whether persisted reminders have been reconciled.
	Ready() bool
	// Stop halts all timers.
	Stop()
}
