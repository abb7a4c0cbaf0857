package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"propertyhub/server/internal/models"
)

const defaultBaseURL = "https://api.telegram.org"

// TelegramService forwards visitor leads to a Telegram chat.
type TelegramService struct {
	logger   *logrus.Logger
	client   *http.Client
	baseURL  string
	botToken string
	chatID   string
}

func NewTelegramService(botToken, chatID string, logger *logrus.Logger) *TelegramService {
	return &TelegramService{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  defaultBaseURL,
		botToken: botToken,
		chatID:   chatID,
	}
}

// Enabled reports whether both the bot token and the chat are configured.
func (s *TelegramService) Enabled() bool {
	return s != nil && s.botToken != "" && s.chatID != ""
}

// SendMessage sends a message to the configured Telegram chat
func (s *TelegramService) SendMessage(ctx context.Context, message string) error {
	if !s.Enabled() {
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	payload := map[string]interface{}{
		"chat_id":    s.chatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build Telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusNotFound:
			return errors.New("invalid bot token - please check TELEGRAM_BOT_TOKEN")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyLead sends the contact details a visitor left on the site.
func (s *TelegramService) NotifyLead(ctx context.Context, user *models.User) error {
	if !s.Enabled() {
		return nil
	}

	message := fmt.Sprintf(
		"<b>New enquiry</b>\n\n"+
			"👤 %s\n"+
			"✉️ %s\n"+
			"📞 %s",
		html.EscapeString(user.Name),
		html.EscapeString(user.Email),
		html.EscapeString(user.Number),
	)

	if err := s.SendMessage(ctx, message); err != nil {
		return err
	}
	s.logger.WithField("email", user.Email).Info("Lead forwarded to Telegram")
	return nil
}
