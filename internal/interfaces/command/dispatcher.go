package command

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/application/dto"
	"remindbot/internal/application/service"
	"remindbot/internal/domain/calendar"
	"remindbot/internal/domain/entity"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"time"
)

const helpText = "Hello!  Welcome to the reminder service.\n\n" +
	"To add a new reminder all you have to do is type\n\n" +
	" *remind [me|@user] to [task you want to do] [every|on|tomorrow|today] [date|day|weekday|saturday|sunday|monday|tuesday|wednesday|thursday|friday] at [time in 24hr format e.g. 13:23]* \n\n" +
	" for example \n\n" +
	"*remind me to eat cheese every Wednesday at 23:00*"

const (
	replyNoReminders   = "No reminders in this channel!"
	replyWhichWeekday  = "What day of the week is that?"
	replyBadDate       = "Whoa there, you can't set a reminder without letting me know a properly formatted date."
	replyTimeInPast    = "That time has already passed, pick one in the future."
	replyNotReady      = "I'm still loading the reminders, try again in a moment."
	replyInternalError = "Something went wrong while handling that reminder."
)

// Dispatcher runs parsed commands against the reminder service.
type Dispatcher struct {
	reminders service.ReminderService
	now       func() time.Time
	log       logger.Logger
}

// NewDispatcher creates a Dispatcher. A nil now uses time.Now.
func NewDispatcher(reminders service.ReminderService, now func() time.Time, log logger.Logger) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		reminders: reminders,
		now:       now,
		log:       log,
	}
}

// Handle parses req.Text and executes it. handled is false when the text is
// not a reminder command; the response is then empty.
func (d *Dispatcher) Handle(ctx context.Context, req dto.CommandRequest) (resp dto.CommandResponse, handled bool) {
	cmd, ok := Parse(req.Text)
	if !ok {
		return dto.CommandResponse{}, false
	}
	d.log.Debug(fmt.Sprintf("Command %d from %s in room %s", cmd.Kind, req.UserName, req.Room))

	var replies []string
	switch cmd.Kind {
	case KindHelp:
		replies = []string{helpText}
	case KindCount:
		replies = []string{fmt.Sprintf("There are %d reminders currently running.", d.reminders.Count())}
	case KindReload:
		replies = d.reload(ctx)
	case KindList:
		replies = d.list(ctx, req.Room)
	case KindDelete:
		replies = []string{d.remove(ctx, cmd.ID)}
	case KindDeleteAll:
		replies = d.removeAll(ctx, req.Room)
	case KindAdd:
		replies = []string{d.add(ctx, cmd, req)}
	}
	return dto.CommandResponse{Replies: replies}, true
}

func (d *Dispatcher) reload(ctx context.Context) []string {
	if err := d.reminders.Initialize(ctx); err != nil {
		d.log.Error("Failed to reload reminders", err)
		return []string{"I couldn't reload the reminders from the brain."}
	}
	return []string{fmt.Sprintf("Reloaded the brain, %d reminders currently running.", d.reminders.Count())}
}

func (d *Dispatcher) list(ctx context.Context, room string) []string {
	var replies []string
	for _, r := range d.reminders.List(ctx) {
		if r.Room != room {
			continue
		}
		replies = append(replies, fmt.Sprintf("I'm reminding - %s to %s %s [%s]", r.User, r.Message, r.Time.Describe(), r.ID))
	}
	if len(replies) == 0 {
		return []string{replyNoReminders}
	}
	return replies
}

func (d *Dispatcher) remove(ctx context.Context, id string) string {
	res, err := d.reminders.Remove(ctx, id)
	if err != nil {
		return d.errorReply(err)
	}
	if !res.Found {
		return fmt.Sprintf("Whoops! Couldn't find the reminder [%s]", id)
	}
	return fmt.Sprintf("I've deleted the task with id *[%s]*", id)
}

func (d *Dispatcher) removeAll(ctx context.Context, room string) []string {
	var replies []string
	for _, r := range d.reminders.List(ctx) {
		if r.Room != room {
			continue
		}
		replies = append(replies, d.remove(ctx, r.ID))
	}
	if len(replies) == 0 {
		return []string{replyNoReminders}
	}
	return replies
}

func (d *Dispatcher) add(ctx context.Context, cmd Command, req dto.CommandRequest) string {
	pattern, err := calendar.Resolve(cmd.Repeat, cmd.When, cmd.Clock, d.now())
	if err != nil {
		return d.errorReply(err)
	}

	user, intro := req.UserName, "I'll remind you to"
	if cmd.Target != "" {
		user, intro = cmd.Target, "I'll remind @"+cmd.Target+" to"
	}

	id, err := d.reminders.Add(ctx, dto.AddReminderRequest{
		Time:    pattern,
		Message: cmd.Task,
		Room:    req.Room,
		User:    user,
	})
	if err != nil {
		return d.errorReply(err)
	}
	return confirmation(intro, cmd.Task, pattern, id)
}

func confirmation(intro, task string, pattern entity.TimePattern, id string) string {
	return fmt.Sprintf("%s *%s* %s [%s]", intro, task, pattern.Normalize().Describe(), id)
}

func (d *Dispatcher) errorReply(err error) string {
	switch {
	case errors.Is(err, appErrors.ErrAmbiguousWeekday):
		return replyWhichWeekday
	case errors.Is(err, appErrors.ErrInvalidDateTime):
		return replyBadDate
	case errors.Is(err, appErrors.ErrTimeInPast):
		return replyTimeInPast
	case errors.Is(err, appErrors.ErrValidation):
		return replyWhichWeekday
	case errors.Is(err, appErrors.ErrNotReady):
		return replyNotReady
	default:
		d.log.Error("Command failed", err)
		return replyInternalError
	}
}
