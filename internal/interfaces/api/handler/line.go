package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"remindbot/internal/application/dto"
	"remindbot/internal/infrastructure/line"
	"remindbot/internal/interfaces/command"
	"remindbot/internal/pkg/logger"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient *line.Client
	dispatcher *command.Dispatcher
	log        logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(lineClient *line.Client, dispatcher *command.Dispatcher, log logger.Logger) *LineHandler {
	return &LineHandler{
		lineClient: lineClient,
		dispatcher: dispatcher,
		log:        log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		switch event.Type {
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypeJoin, linebot.EventTypeFollow:
			h.log.Info(fmt.Sprintf("Joined %s", roomOf(event.Source)))
		default:
			h.log.Debug(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// handleMessageEvent runs text messages through the command layer.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok || event.Source == nil {
		return
	}
	text := strings.TrimSpace(message.Text)
	if !strings.HasPrefix(strings.ToLower(text), "remind") {
		return
	}

	room := roomOf(event.Source)
	userName := event.Source.UserID
	if userName != "" {
		userName = h.lineClient.DisplayName(ctx, userName)
	}
	h.log.Info(fmt.Sprintf("Received command from %s in %s: %s", userName, room, text))

	resp, handled := h.dispatcher.Handle(ctx, dto.CommandRequest{
		Text:     text,
		UserName: userName,
		Room:     room,
	})
	if !handled || len(resp.Replies) == 0 {
		return
	}
	if err := h.lineClient.Reply(ctx, event.ReplyToken, room, resp.Replies...); err != nil {
		h.log.Error(fmt.Sprintf("Failed to reply in %s", room), err)
	}
}

// roomOf returns the chat a reminder should be delivered to: the group or
// multi-person room, or the user for one-on-one chats.
func roomOf(src *linebot.EventSource) string {
	if src == nil {
		return ""
	}
	switch src.Type {
	case linebot.EventSourceTypeGroup:
		return src.GroupID
	case linebot.EventSourceTypeRoom:
		return src.RoomID
	default:
		return src.UserID
	}
}
