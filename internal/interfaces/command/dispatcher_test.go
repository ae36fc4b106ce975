package command_test

import (
	"context"
	"fmt"
	"time"

	"remindbot/internal/application/dto"
	"remindbot/internal/domain/constant"
	"remindbot/internal/domain/entity"
	"remindbot/internal/interfaces/command"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeReminders is an in-memory ReminderService.
type fakeReminders struct {
	reminders []*entity.Reminder
	added     []dto.AddReminderRequest
	addErr    error
	reloads   int
	nextID    int
}

func (f *fakeReminders) Initialize(ctx context.Context) error {
	f.reloads++
	return nil
}

func (f *fakeReminders) Add(ctx context.Context, req dto.AddReminderRequest) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	f.nextID++
	id := fmt.Sprintf("id%d", f.nextID)
	f.added = append(f.added, req)
	f.reminders = append(f.reminders, &entity.Reminder{ID: id, Time: req.Time, Message: req.Message, Room: req.Room, User: req.User})
	return id, nil
}

func (f *fakeReminders) Remove(ctx context.Context, id string) (dto.RemoveResult, error) {
	for i, r := range f.reminders {
		if r.ID == id {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return dto.RemoveResult{Found: true, ID: id}, nil
		}
	}
	return dto.RemoveResult{Found: false, ID: id}, nil
}

func (f *fakeReminders) List(ctx context.Context) []*entity.Reminder {
	return append([]*entity.Reminder(nil), f.reminders...)
}

func (f *fakeReminders) Count() int                             { return len(f.reminders) }
func (f *fakeReminders) NextRun(id string) (time.Time, bool)    { return time.Time{}, false }
func (f *fakeReminders) State(id string) constant.ReminderState { return constant.ReminderPending }
func (f *fakeReminders) Ready() bool                            { return true }
func (f *fakeReminders) Stop()                                  {}

var _ = Describe("Dispatcher", func() {
	var (
		ctx        context.Context
		reminders  *fakeReminders
		dispatcher *command.Dispatcher
	)

	// Monday, 12 October 2026
	monday := time.Date(2026, time.October, 12, 10, 0, 0, 0, time.Local)

	say := func(text, room string) []string {
		resp, handled := dispatcher.Handle(ctx, dto.CommandRequest{Text: text, UserName: "alice", Room: room})
		Expect(handled).To(BeTrue(), text)
		return resp.Replies
	}

	BeforeEach(func() {
		ctx = context.Background()
		reminders = &fakeReminders{}
		dispatcher = command.NewDispatcher(reminders, func() time.Time { return monday }, logger.Nop())
	})

	It("adds a weekly reminder for the speaker", func() {
		replies := say("remind me to eat cheese every Wednesday at 23:00", "room1")
		Expect(replies).To(Equal([]string{"I'll remind you to *eat cheese* every Wednesday at 23:00 [id1]"}))

		Expect(reminders.added).To(HaveLen(1))
		req := reminders.added[0]
		Expect(req.User).To(Equal("alice"))
		Expect(req.Room).To(Equal("room1"))
		Expect(req.Message).To(Equal("eat cheese"))
		Expect(req.Time.Weekday).To(Equal(entity.At(3)))
		Expect(req.Time.Hours).To(Equal(entity.At(23)))
	})

	It("adds a dated reminder for someone else", func() {
		replies := say("remind @bob to call mum on friday", "room1")
		Expect(replies).To(Equal([]string{"I'll remind @bob to *call mum* on Friday, October 16th at 09:00 [id1]"}))
		Expect(reminders.added[0].User).To(Equal("bob"))
		Expect(reminders.added[0].Time.IsOneShot()).To(BeTrue())
	})

	It("asks which weekday for on weekday", func() {
		Expect(say("remind me to run on weekday", "room1")).To(Equal([]string{"What day of the week is that?"}))
		Expect(reminders.added).To(BeEmpty())
	})

	It("complains about malformed dates", func() {
		Expect(say("remind me to run on someday", "room1")).To(Equal([]string{
			"Whoa there, you can't set a reminder without letting me know a properly formatted date.",
		}))
		Expect(reminders.added).To(BeEmpty())
	})

	It("passes service errors back as replies", func() {
		reminders.addErr = appErrors.ErrNotReady
		Expect(say("remind me to run tomorrow", "room1")).To(Equal([]string{"I'm still loading the reminders, try again in a moment."}))

		reminders.addErr = appErrors.ErrTimeInPast
		Expect(say("remind me to run today at 08:00", "room1")).To(Equal([]string{"That time has already passed, pick one in the future."}))
	})

	It("counts running reminders", func() {
		say("remind me to eat cheese every Wednesday at 23:00", "room1")
		Expect(say("remind count", "room1")).To(Equal([]string{"There are 1 reminders currently running."}))
	})

	It("lists only the reminders of the room", func() {
		say("remind me to eat cheese every Wednesday at 23:00", "room1")
		say("remind me to sleep every day at 22:00", "room2")

		Expect(say("remind show all reminders", "room1")).To(Equal([]string{
			"I'm reminding - alice to eat cheese every Wednesday at 23:00 [id1]",
		}))
		Expect(say("remind show all reminders", "room3")).To(Equal([]string{"No reminders in this channel!"}))
	})

	It("deletes by id", func() {
		say("remind me to eat cheese every Wednesday at 23:00", "room1")
		Expect(say("remind delete id1", "room1")).To(Equal([]string{"I've deleted the task with id *[id1]*"}))
		Expect(say("remind delete id1", "room1")).To(Equal([]string{"Whoops! Couldn't find the reminder [id1]"}))
	})

	It("deletes all reminders of the room only", func() {
		say("remind me to eat cheese every Wednesday at 23:00", "room1")
		say("remind me to sleep every day at 22:00", "room2")
		say("remind me to stretch every weekday", "room1")

		Expect(say("remind delete all", "room1")).To(Equal([]string{
			"I've deleted the task with id *[id1]*",
			"I've deleted the task with id *[id3]*",
		}))
		Expect(reminders.Count()).To(Equal(1))
		Expect(reminders.reminders[0].Room).To(Equal("room2"))
	})

	It("reloads the brain", func() {
		Expect(say("remind reload brain", "room1")).To(HaveLen(1))
		Expect(reminders.reloads).To(Equal(1))
	})

	It("shows help", func() {
		replies := say("remind help", "room1")
		Expect(replies).To(HaveLen(1))
		Expect(replies[0]).To(ContainSubstring("remind me to eat cheese every Wednesday at 23:00"))
	})

	It("leaves ordinary chat alone", func() {
		resp, handled := dispatcher.Handle(ctx, dto.CommandRequest{Text: "good morning", UserName: "alice", Room: "room1"})
		Expect(handled).To(BeFalse())
		Expect(resp.Replies).To(BeEmpty())
	})
})
