package store_test

import (
	"context"
	"errors"
	"path/filepath"

	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	"remindbot/internal/infrastructure/database/sqlite"
	"remindbot/internal/infrastructure/store"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// flakyBrain wraps a real brain and fails Save on demand.
type flakyBrain struct {
	repository.Brain
	failSave bool
}

func (b *flakyBrain) Save(ctx context.Context) error {
	if b.failSave {
		return errors.New("disk full")
	}
	return b.Brain.Save(ctx)
}

func cheese(id string) *entity.Reminder {
	return &entity.Reminder{
		ID: id,
		Time: entity.TimePattern{
			Seconds: entity.At(0), Minutes: entity.At(0), Hours: entity.At(23),
			MonthDay: entity.Any, Month: entity.Any, Weekday: entity.At(3), Year: entity.Any,
		},
		Message: "eat cheese",
		Room:    "room1",
		User:    "alice",
	}
}

var _ = Describe("ReminderStore", func() {
	var (
		ctx    context.Context
		dbPath string
		brain  *flakyBrain
		repo   repository.ReminderRepository
	)

	open := func() (*flakyBrain, repository.ReminderRepository) {
		db, err := sqlite.NewDB(dbPath, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { Expect(sqlite.CloseDB(db)).To(Succeed()) })

		b := &flakyBrain{Brain: sqlite.NewBrain(db, logger.Nop())}
		Expect(b.Load(ctx)).To(Succeed())
		return b, store.NewReminderStore(b, "reminders", logger.Nop())
	}

	BeforeEach(func() {
		ctx = context.Background()
		dbPath = filepath.Join(GinkgoT().TempDir(), "store.db")
		brain, repo = open()
	})

	It("loads an empty collection from a fresh brain", func() {
		reminders, err := repo.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(reminders).To(BeEmpty())
		Expect(repo.List()).To(BeEmpty())
	})

	It("flushes every append", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())
		Expect(repo.Append(ctx, cheese("b"))).To(Succeed())

		_, other := open()
		reminders, err := other.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(reminders).To(HaveLen(2))
		Expect(reminders[0].ID).To(Equal("a"))
		Expect(reminders[1]).To(Equal(cheese("b")))
	})

	It("never duplicates entries on repeated loads", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())

		for i := 0; i < 3; i++ {
			_, err := repo.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(repo.List()).To(HaveLen(1))
	})

	It("rejects duplicate ids", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())
		Expect(repo.Append(ctx, cheese("a"))).To(MatchError(appErrors.ErrValidation))
		Expect(repo.List()).To(HaveLen(1))
	})

	It("removes by id and flushes", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())
		Expect(repo.Append(ctx, cheese("b"))).To(Succeed())

		removed, err := repo.RemoveByID(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(removed.ID).To(Equal("a"))

		_, err = repo.FindByID("a")
		Expect(err).To(MatchError(appErrors.ErrReminderNotFound))

		_, other := open()
		reminders, err := other.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(reminders).To(HaveLen(1))
		Expect(reminders[0].ID).To(Equal("b"))
	})

	It("reports unknown ids", func() {
		_, err := repo.RemoveByID(ctx, "nope")
		Expect(err).To(MatchError(appErrors.ErrReminderNotFound))
	})

	It("leaves the collection untouched when the flush fails", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())

		brain.failSave = true
		Expect(repo.Append(ctx, cheese("b"))).NotTo(Succeed())
		_, err := repo.RemoveByID(ctx, "a")
		Expect(err).To(HaveOccurred())
		Expect(repo.List()).To(HaveLen(1))

		blob, ok := brain.Get("reminders")
		Expect(ok).To(BeTrue())
		var ids []string
		for _, r := range repo.List() {
			ids = append(ids, r.ID)
		}
		Expect(ids).To(Equal([]string{"a"}))
		Expect(string(blob)).To(ContainSubstring(`"id":"a"`))
		Expect(string(blob)).NotTo(ContainSubstring(`"id":"b"`))
	})

	It("hands out copies", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())
		found, err := repo.FindByID("a")
		Expect(err).NotTo(HaveOccurred())
		found.Message = "changed"
		Expect(repo.List()[0].Message).To(Equal("eat cheese"))
	})

	It("forgets the collection on reset but keeps it durable", func() {
		Expect(repo.Append(ctx, cheese("a"))).To(Succeed())
		repo.Reset()
		Expect(repo.List()).To(BeEmpty())

		reminders, err := repo.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(reminders).To(HaveLen(1))
	})

	It("fails on a corrupt blob", func() {
		brain.Set("reminders", []byte(`{not json`))
		_, err := repo.Load(ctx)
		Expect(err).To(MatchError(appErrors.ErrDatabaseOperation))
	})
})
