package handler

import (
	"errors"
	"fmt"
	"net/http"
	"remindbot/internal/application/dto"
	"remindbot/internal/application/service"
	"remindbot/internal/domain/entity"
	"remindbot/internal/interfaces/command"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"time"

	"github.com/labstack/echo/v4"
)

// ReminderHandler serves the JSON API over the reminder service.
type ReminderHandler struct {
	reminders  service.ReminderService
	dispatcher *command.Dispatcher
	log        logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminders service.ReminderService, dispatcher *command.Dispatcher, log logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders:  reminders,
		dispatcher: dispatcher,
		log:        log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
	Count  int    `json:"count"`
}

// List handles GET /reminders, optionally filtered by ?room=.
func (h *ReminderHandler) List(c echo.Context) error {
	room := c.QueryParam("room")
	out := []dto.ReminderResponse{}
	for _, r := range h.reminders.List(c.Request().Context()) {
		if room != "" && r.Room != room {
			continue
		}
		next, _ := h.reminders.NextRun(r.ID)
		out = append(out, dto.ToReminderResponse(r, next))
	}
	return c.JSON(http.StatusOK, out)
}

// Count handles GET /reminders/count.
func (h *ReminderHandler) Count(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.CountResponse{Count: h.reminders.Count()})
}

// Create handles POST /reminders.
func (h *ReminderHandler) Create(c echo.Context) error {
	var req dto.AddReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
	}
	if req.Message == "" || req.Room == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "message and room are required"})
	}

	ctx := c.Request().Context()
	id, err := h.reminders.Add(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}

	for _, r := range h.reminders.List(ctx) {
		if r.ID == id {
			next, _ := h.reminders.NextRun(id)
			return c.JSON(http.StatusCreated, dto.ToReminderResponse(r, next))
		}
	}
	// A one-shot due right now may already have fired and removed itself.
	fired := &entity.Reminder{ID: id, Time: req.Time.Normalize(), Message: req.Message, Room: req.Room, User: req.User}
	return c.JSON(http.StatusCreated, dto.ToReminderResponse(fired, time.Time{}))
}

// Delete handles DELETE /reminders/:id.
func (h *ReminderHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	res, err := h.reminders.Remove(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !res.Found {
		return c.JSON(http.StatusNotFound, res)
	}
	return c.JSON(http.StatusOK, res)
}

// Reload handles POST /reminders/reload.
func (h *ReminderHandler) Reload(c echo.Context) error {
	if err := h.reminders.Initialize(c.Request().Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.CountResponse{Count: h.reminders.Count()})
}

// Command handles POST /commands, running a chat text through the command layer.
func (h *ReminderHandler) Command(c echo.Context) error {
	var req dto.CommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
	}
	resp, handled := h.dispatcher.Handle(c.Request().Context(), req)
	if !handled {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "not a reminder command"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz. It reports 503 until reminders are reconciled.
func (h *ReminderHandler) Health(c echo.Context) error {
	resp := healthResponse{Status: "ok", Ready: h.reminders.Ready(), Count: h.reminders.Count()}
	if !resp.Ready {
		resp.Status = "loading"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReminderHandler) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, appErrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, appErrors.ErrReminderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appErrors.ErrAlreadyScheduled):
		status = http.StatusConflict
	case errors.Is(err, appErrors.ErrNotReady):
		status = http.StatusServiceUnavailable
	default:
		h.log.Error("Request failed", err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}
