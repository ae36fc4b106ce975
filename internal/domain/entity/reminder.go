package entity

// Reminder is a persisted reminder. It is never edited after creation, only deleted.
type Reminder struct {
	ID      string      `json:"id"`
	Time    TimePattern `json:"time"`
	Message string      `json:"message"`
	Room    string      `json:"room"` // Chat room the reminder was created in; notifications go here
	User    string      `json:"user"` // User name to mention when the reminder fires
}

// IsOneShot reports whether the reminder deletes itself after firing.
func (r *Reminder) IsOneShot() bool {
	return r.Time.IsOneShot()
}
