package logger_test

import (
	"bytes"
	"errors"

	"remindbot/internal/pkg/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("filters below the configured level", func() {
		log := logger.NewWithWriter(buf, "warn")
		log.Info("quiet")
		log.Debug("quieter")
		Expect(buf.String()).To(BeEmpty())

		log.Warn("careful")
		Expect(buf.String()).To(ContainSubstring("careful"))
		Expect(buf.String()).To(ContainSubstring(`"level":"warn"`))
	})

	It("falls back to info for unknown levels", func() {
		log := logger.NewWithWriter(buf, "chatty")
		log.Debug("hidden")
		log.Info("shown")
		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("shown"))
	})

	It("attaches errors", func() {
		log := logger.NewWithWriter(buf, "info")
		log.Error("save failed", errors.New("disk full"))
		Expect(buf.String()).To(ContainSubstring(`"error":"disk full"`))
		Expect(buf.String()).To(ContainSubstring("save failed"))
	})

	It("adapts cron logging", func() {
		cronLog := logger.CronLogger(logger.NewWithWriter(buf, "debug"))
		cronLog.Info("schedule", "now", 1, "entry", 2)
		Expect(buf.String()).To(ContainSubstring("cron: schedule now=1 entry=2"))

		cronLog.Error(errors.New("boom"), "panic", "odd")
		Expect(buf.String()).To(ContainSubstring("cron: panic odd"))
		Expect(buf.String()).To(ContainSubstring(`"error":"boom"`))
	})
})
