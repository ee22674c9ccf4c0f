package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mainevents/server/internal/domain/entity"
	tele "gopkg.in/telebot.v3"
)

// ChannelSender delivers one notification over one channel. Senders are
// best-effort: the fan-out logs their errors and moves on.
type ChannelSender interface {
	Name() string
	Send(ctx context.Context, user entity.User, notification entity.Notification) error
}

type smtpClient interface {
	Send(to string, subject string, text string, html string) error
}

// EmailSender delivers notifications over SMTP.
type EmailSender struct {
	client smtpClient
}

func NewEmailSender(client smtpClient) *EmailSender {
	return &EmailSender{client: client}
}

func (s *EmailSender) Name() string {
	return entity.ChannelEmail
}

func (s *EmailSender) Send(_ context.Context, user entity.User, notification entity.Notification) error {
	html := fmt.Sprintf("<h3>%s</h3><p>%s</p>", notification.Title, notification.Body)
	return s.client.Send(user.Email, notification.Title, notification.Body, html)
}

// PushSender delivers notifications as Telegram messages to users who
// linked a chat.
type PushSender struct {
	bot *tele.Bot
}

func NewPushSender(bot *tele.Bot) *PushSender {
	return &PushSender{bot: bot}
}

func (s *PushSender) Name() string {
	return entity.ChannelPush
}

func (s *PushSender) Send(_ context.Context, user entity.User, notification entity.Notification) error {
	if user.TelegramChatID == 0 {
		return fmt.Errorf("user %s has no linked chat", user.ID)
	}
	_, err := s.bot.Send(tele.ChatID(user.TelegramChatID),
		fmt.Sprintf("%s\n\n%s", notification.Title, notification.Body))
	return err
}

// SMSSender posts notifications to an external SMS gateway as JSON.
type SMSSender struct {
	gatewayURL string
	apiKey     string
	client     *http.Client
}

func NewSMSSender(gatewayURL, apiKey string) *SMSSender {
	return &SMSSender{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSSender) Name() string {
	return entity.ChannelSMS
}

func (s *SMSSender) Send(ctx context.Context, user entity.User, notification entity.Notification) error {
	payload, err := json.Marshal(map[string]string{
		"userId":  user.ID,
		"message": fmt.Sprintf("%s: %s", notification.Title, notification.Body),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %s", resp.Status)
	}
	return nil
}
