package router

import (
	"fmt"
	"net/http"
	"remindbot/internal/interfaces/api/handler"
	"remindbot/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
// LineHandler is optional; the webhook is only mounted when it is set.
type Config struct {
	LineHandler     *handler.LineHandler
	ReminderHandler *handler.ReminderHandler
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Line-Signature"},
		MaxAge:       300,
	}))

	// Routes
	e.GET("/healthz", cfg.ReminderHandler.Health)

	reminders := e.Group("/reminders")
	reminders.GET("", cfg.ReminderHandler.List)
	reminders.POST("", cfg.ReminderHandler.Create)
	reminders.GET("/count", cfg.ReminderHandler.Count)
	reminders.POST("/reload", cfg.ReminderHandler.Reload)
	reminders.DELETE("/:id", cfg.ReminderHandler.Delete)

	e.POST("/commands", cfg.ReminderHandler.Command)

	// LINE Platform requires POST for webhook
	if cfg.LineHandler != nil {
		e.POST("/callback", cfg.LineHandler.HandleWebhook)
	} else {
		cfg.Logger.Warn("LINE credentials not configured, webhook not mounted")
	}

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
