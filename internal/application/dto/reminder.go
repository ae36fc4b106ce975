package dto

import (
	"remindbot/internal/domain/entity"
	"time"
)

// AddReminderRequest is the DTO for adding a reminder.
// ID is only set when resuming a reminder that is already persisted.
type AddReminderRequest struct {
	Time    entity.TimePattern `json:"time"`
	Message string             `json:"message"`
	Room    string             `json:"room"`
	User    string             `json:"user"`
	ID      string             `json:"id,omitempty"`
}

// RemoveResult reports whether a reminder with ID existed and was removed.
type RemoveResult struct {
	Found bool   `json:"found"`
	ID    string `json:"id"`
}

// ReminderResponse is the DTO for sending reminder information to the client (e.g., listing reminders).
type ReminderResponse struct {
	ID          string             `json:"id"`
	Message     string             `json:"message"`
	Room        string             `json:"room"`
	User        string             `json:"user"`
	Time        entity.TimePattern `json:"time"`
	OneShot     bool               `json:"one_shot"`
	Description string             `json:"description"`
	NextRun     *time.Time         `json:"next_run,omitempty"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
// A zero next leaves NextRun empty.
func ToReminderResponse(r *entity.Reminder, next time.Time) ReminderResponse {
	resp := ReminderResponse{
		ID:          r.ID,
		Message:     r.Message,
		Room:        r.Room,
		User:        r.User,
		Time:        r.Time,
		OneShot:     r.IsOneShot(),
		Description: r.Time.Describe(),
	}
	if !next.IsZero() {
		resp.NextRun = &next
	}
	return resp
}

// CountResponse is the DTO for the number of live reminders.
type CountResponse struct {
	Count int `json:"count"`
}

// CommandRequest is an inbound chat command, independent of the transport that carried it.
type CommandRequest struct {
	Text     string `json:"text"`
	UserName string `json:"user"`
	Room     string `json:"room"`
}

// CommandResponse carries the replies to send back to the room.
type CommandResponse struct {
	Replies []string `json:"replies"`
}
