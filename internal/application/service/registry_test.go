package service_test

import (
	"sync/atomic"
	"time"

	"remindbot/internal/application/service"
	"remindbot/internal/domain/entity"
	"remindbot/internal/infrastructure/scheduler"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func weekly(hour, minute, weekday int) entity.TimePattern {
	return entity.TimePattern{
		Seconds:  entity.At(0),
		Minutes:  entity.At(minute),
		Hours:    entity.At(hour),
		MonthDay: entity.Any,
		Month:    entity.Any,
		Weekday:  entity.At(weekday),
		Year:     entity.Any,
	}
}

// at returns the one-shot pattern for t, to the second.
func at(t time.Time) entity.TimePattern {
	return entity.TimePattern{
		Seconds:  entity.At(t.Second()),
		Minutes:  entity.At(t.Minute()),
		Hours:    entity.At(t.Hour()),
		MonthDay: entity.At(t.Day()),
		Month:    entity.At(int(t.Month())),
		Weekday:  entity.Any,
		Year:     entity.At(t.Year()),
	}
}

var _ = Describe("JobRegistry", func() {
	var (
		sched    *scheduler.Scheduler
		registry service.JobRegistry
	)

	BeforeEach(func() {
		sched = scheduler.NewScheduler(logger.Nop())
		registry = service.NewJobRegistry(sched, logger.Nop())
	})

	AfterEach(func() {
		registry.Stop()
	})

	It("tracks scheduled ids", func() {
		Expect(registry.Schedule("b", weekly(9, 0, 1), func() {})).To(Succeed())
		Expect(registry.Schedule("a", weekly(9, 0, 2), func() {})).To(Succeed())

		Expect(registry.Count()).To(Equal(2))
		Expect(registry.Has("a")).To(BeTrue())
		Expect(registry.IDs()).To(Equal([]string{"a", "b"}))
		Expect(sched.GetEntries()).To(HaveLen(2))
	})

	It("refuses a second timer for the same id", func() {
		Expect(registry.Schedule("a", weekly(9, 0, 1), func() {})).To(Succeed())
		Expect(registry.Schedule("a", weekly(10, 0, 1), func() {})).To(MatchError(appErrors.ErrAlreadyScheduled))
		Expect(registry.Count()).To(Equal(1))
	})

	It("refuses a missing callback", func() {
		Expect(registry.Schedule("a", weekly(9, 0, 1), nil)).To(MatchError(appErrors.ErrScheduling))
		Expect(registry.Has("a")).To(BeFalse())
	})

	It("cancels once", func() {
		Expect(registry.Schedule("a", weekly(9, 0, 1), func() {})).To(Succeed())
		Expect(registry.Cancel("a")).To(BeTrue())
		Expect(registry.Cancel("a")).To(BeFalse())
		Expect(registry.Count()).To(BeZero())
		Expect(sched.GetEntries()).To(BeEmpty())
	})

	It("cancels everything", func() {
		Expect(registry.Schedule("a", weekly(9, 0, 1), func() {})).To(Succeed())
		Expect(registry.Schedule("b", weekly(9, 0, 2), func() {})).To(Succeed())
		Expect(registry.CancelAll()).To(Equal(2))
		Expect(registry.IDs()).To(BeEmpty())
	})

	It("reports the next run from the pattern", func() {
		p := weekly(23, 0, 3)
		Expect(registry.Schedule("cheese", p, func() {})).To(Succeed())

		next, ok := registry.NextRun("cheese")
		Expect(ok).To(BeTrue())
		Expect(next).To(BeTemporally("==", p.Next(time.Now())))
		Expect(next.Weekday()).To(Equal(time.Wednesday))

		_, ok = registry.NextRun("missing")
		Expect(ok).To(BeFalse())
	})

	It("folds weekday 7 onto Sunday", func() {
		Expect(registry.Schedule("sun", weekly(8, 0, 7), func() {})).To(Succeed())
		next, ok := registry.NextRun("sun")
		Expect(ok).To(BeTrue())
		Expect(next.Weekday()).To(Equal(time.Sunday))
	})

	It("fires a dated timer once", func() {
		var fired atomic.Int32
		Expect(registry.Schedule("soon", at(time.Now().Add(2*time.Second)), func() { fired.Add(1) })).To(Succeed())

		Eventually(fired.Load, 5*time.Second, 100*time.Millisecond).Should(Equal(int32(1)))
		Consistently(fired.Load, 1500*time.Millisecond, 100*time.Millisecond).Should(Equal(int32(1)))
	})
})
