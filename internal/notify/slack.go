package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

// Sender delivers a formatted alert
type Sender interface {
	Send(ctx context.Context, text string) error
}

// ErrNotConfigured is returned when no Slack destination is set
var ErrNotConfigured = errors.New("slack notifications are not configured")

// SlackConfig selects an incoming webhook, or a bot token plus channel.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Token      string `mapstructure:"token"`
	Channel    string `mapstructure:"channel"`
}

func (c SlackConfig) Enabled() bool {
	return c.WebhookURL != "" || (c.Token != "" && c.Channel != "")
}

// SlackSender posts alerts to Slack. Failures are returned to the caller.
type SlackSender struct {
	cfg SlackConfig
	api *slack.Client
}

func NewSlackSender(cfg SlackConfig, options ...slack.Option) *SlackSender {
	s := &SlackSender{cfg: cfg}
	if cfg.WebhookURL == "" && cfg.Token != "" {
		s.api = slack.New(cfg.Token, options...)
	}
	return s
}

func (s *SlackSender) Send(ctx context.Context, text string) error {
	if !s.cfg.Enabled() {
		return ErrNotConfigured
	}
	if s.cfg.WebhookURL != "" {
		if err := slack.PostWebhookContext(ctx, s.cfg.WebhookURL, &slack.WebhookMessage{Text: text}); err != nil {
			return fmt.Errorf("post slack webhook: %w", err)
		}
		return nil
	}
	if _, _, err := s.api.PostMessageContext(ctx, s.cfg.Channel, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("post slack message to %s: %w", s.cfg.Channel, err)
	}
	return nil
}
