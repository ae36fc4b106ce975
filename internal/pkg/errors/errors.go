package errors

import (
	"errors"
	"fmt"
)

// Custom application errors
var (
	ErrValidation        = errors.New("invalid reminder request")                     // User input cannot be scheduled
	ErrReminderNotFound  = errors.New("reminder not found")                           // Unknown reminder id
	ErrConsistency       = errors.New("reminder store and job registry are out of sync") // Record without timer or timer without record
	ErrDatabaseOperation = errors.New("database operation failed")                    // Generic database error
	ErrLineAPI           = errors.New("LINE API request failed")                      // Generic LINE API error
	ErrScheduling        = errors.New("scheduling failed")                            // Generic scheduling error
	ErrAlreadyScheduled  = errors.New("a timer is already running for this reminder") // Duplicate registry id
	ErrNotReady          = errors.New("reminders are still being loaded")             // Reconciliation has not run yet
	ErrInternalServer    = errors.New("internal server error")                        // Generic internal error
)

// Validation failures surfaced to the user. Each one matches ErrValidation with errors.Is.
var (
	ErrAmbiguousWeekday = fmt.Errorf("%w: a weekday range is not a single day", ErrValidation)
	ErrInvalidDateTime  = fmt.Errorf("%w: malformed date or time", ErrValidation)
	ErrTimeInPast       = fmt.Errorf("%w: that time has already passed", ErrValidation)
)
