package constant

// ServiceState tracks whether persisted reminders have been turned back into live timers.
type ServiceState int32

const (
	// StateUninitialized means the store has not been reconciled with the job registry yet.
	StateUninitialized ServiceState = iota
	// StateReconciling is held while persisted reminders are being resumed.
	StateReconciling
	// StateReconciled means every persisted reminder has a live timer.
	StateReconciled
)

func (s ServiceState) Int32() int32 {
	return int32(s)
}

func (s ServiceState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReconciling:
		return "reconciling"
	case StateReconciled:
		return "reconciled"
	default:
		return "unknown"
	}
}

// ReminderState is the lifecycle position of a single reminder.
type ReminderState int

const (
	// ReminderPending: persisted and its timer is running.
	ReminderPending ReminderState = iota
	// ReminderFired: a one-shot reminder that fired and is on its way to removal.
	ReminderFired
	// ReminderRemoved: no store entry, no timer.
	ReminderRemoved
)

func (s ReminderState) String() string {
	switch s {
	case ReminderPending:
		return "pending"
	case ReminderFired:
		return "fired"
	case ReminderRemoved:
		return "removed"
	default:
		return "unknown"
	}
}
