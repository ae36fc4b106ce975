package line

import (
	"context"
	"fmt"
	"remindbot/internal/pkg/logger"
)

// LogNotifier stands in for the LINE client when no credentials are
// configured. Reminders are written to the log instead of a chat room.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send logs message for room.
func (n *LogNotifier) Send(ctx context.Context, room, message string) error {
	n.log.Info(fmt.Sprintf("[%s] %s", room, message))
	return nil
}
