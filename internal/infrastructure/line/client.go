package line

import (
	"context"
	"fmt"
	"net/http"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// maxMessagesPerCall is the LINE limit on messages in one reply or push.
const maxMessagesPerCall = 5

// Client wraps the linebot.Client.
type Client struct {
	*linebot.Client
	log logger.Logger
}

// NewClient creates a LINE Bot client from the channel credentials.
func NewClient(channelSecret, channelToken string, log logger.Logger) (*Client, error) {
	if channelSecret == "" || channelToken == "" {
		return nil, fmt.Errorf("%w: CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN must both be set", appErrors.ErrLineAPI)
	}
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrLineAPI, err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		Client: bot,
		log:    log,
	}, nil
}

// Send pushes a text message to a user, group or room id.
func (c *Client) Send(ctx context.Context, room, message string) error {
	_, err := c.PushMessage(room, linebot.NewTextMessage(message)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: push to %s: %v", appErrors.ErrLineAPI, room, err)
	}
	c.log.Debug(fmt.Sprintf("Successfully sent push message to %s.", room))
	return nil
}

// Reply answers a webhook event. Texts beyond the per-call limit are pushed
// to `to` afterwards since a reply token can only be used once.
func (c *Client) Reply(ctx context.Context, replyToken, to string, texts ...string) error {
	if len(texts) == 0 {
		return nil
	}
	first, rest := texts, []string(nil)
	if len(texts) > maxMessagesPerCall {
		first, rest = texts[:maxMessagesPerCall], texts[maxMessagesPerCall:]
	}
	if _, err := c.ReplyMessage(replyToken, textMessages(first)...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("%w: reply: %v", appErrors.ErrLineAPI, err)
	}
	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > maxMessagesPerCall {
			chunk = chunk[:maxMessagesPerCall]
		}
		rest = rest[len(chunk):]
		if _, err := c.PushMessage(to, textMessages(chunk)...).WithContext(ctx).Do(); err != nil {
			return fmt.Errorf("%w: push to %s: %v", appErrors.ErrLineAPI, to, err)
		}
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// DisplayName returns the profile name of userID, or userID itself when the
// profile cannot be fetched.
func (c *Client) DisplayName(ctx context.Context, userID string) string {
	profile, err := c.GetProfile(userID).WithContext(ctx).Do()
	if err != nil || profile == nil || profile.DisplayName == "" {
		c.log.Warn(fmt.Sprintf("Failed to get profile for %s: %v", userID, err))
		return userID
	}
	return profile.DisplayName
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

func textMessages(texts []string) []linebot.SendingMessage {
	msgs := make([]linebot.SendingMessage, len(texts))
	for i, t := range texts {
		msgs[i] = linebot.NewTextMessage(t)
	}
	return msgs
}
