package entity_test

import (
	"encoding/json"

	"remindbot/internal/domain/entity"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Field", func() {
	It("matches values and ranges", func() {
		Expect(entity.Any.Matches(42)).To(BeTrue())
		Expect(entity.At(3).Matches(3)).To(BeTrue())
		Expect(entity.At(3).Matches(4)).To(BeFalse())
		Expect(entity.AnyWeekday.Matches(0)).To(BeFalse())
		Expect(entity.AnyWeekday.Matches(5)).To(BeTrue())
		Expect(entity.AnyDay.Matches(6)).To(BeTrue())
	})

	It("parses cron notation", func() {
		f, err := entity.ParseField("09")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(entity.At(9)))

		f, err = entity.ParseField("*")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.IsAny()).To(BeTrue())

		f, err = entity.ParseField("1-5")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(entity.AnyWeekday))

		_, err = entity.ParseField("mon")
		Expect(err).To(HaveOccurred())
	})

	It("writes values as numbers and wildcards as strings", func() {
		p := entity.TimePattern{
			Seconds: entity.At(0), Minutes: entity.At(5), Hours: entity.At(23),
			MonthDay: entity.Any, Month: entity.Any, Weekday: entity.AnyWeekday, Year: entity.Any,
		}
		blob, err := json.Marshal(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(blob).To(MatchJSON(`{"seconds":0,"minutes":5,"hours":23,"monthday":"*","month":"*","weekday":"1-5","year":"*"}`))
	})

	It("reads reminders stored with string fields", func() {
		blob := `{"id":"abc","time":{"seconds":"0","minutes":"00","hours":"23","monthday":"*","month":"*","weekday":"3","year":"*"},"message":"eat cheese","room":"room1","user":"alice"}`
		var r entity.Reminder
		Expect(json.Unmarshal([]byte(blob), &r)).To(Succeed())
		Expect(r.Time.Hours).To(Equal(entity.At(23)))
		Expect(r.Time.Minutes).To(Equal(entity.At(0)))
		Expect(r.Time.Weekday).To(Equal(entity.At(3)))
		Expect(r.Time.Year.IsAny()).To(BeTrue())
		Expect(r.IsOneShot()).To(BeFalse())
	})

	It("treats null as a wildcard and rejects garbage", func() {
		var f entity.Field
		Expect(json.Unmarshal([]byte(`null`), &f)).To(Succeed())
		Expect(f.IsAny()).To(BeTrue())
		Expect(json.Unmarshal([]byte(`"soon"`), &f)).NotTo(Succeed())
		Expect(json.Unmarshal([]byte(`true`), &f)).NotTo(Succeed())
	})
})
