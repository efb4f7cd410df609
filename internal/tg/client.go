package tg

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the Telegram transport surface consumed by the bot: the two
// methods the system actually uses.
type Client interface {
	GetUpdates(offset, timeoutSeconds int) ([]Update, error)
	SendMessage(chatID int64, text string) error
}

// BotClient implements Client over the Bot API HTTP transport.
type BotClient struct {
	api *tgbotapi.BotAPI
}

// NewBotClient authorizes against the Bot API with the given token.
func NewBotClient(token string) (*BotClient, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("tg: authorize: %w", err)
	}
	return &BotClient{api: api}, nil
}

// Self returns the username the token is authorized as.
func (c *BotClient) Self() string {
	return c.api.Self.UserName
}

// GetUpdates long-polls for incoming updates starting at offset.
func (c *BotClient) GetUpdates(offset, timeoutSeconds int) ([]Update, error) {
	cfg := tgbotapi.NewUpdate(offset)
	cfg.Timeout = timeoutSeconds

	raw, err := c.api.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("tg: getUpdates: %w", err)
	}

	updates := make([]Update, 0, len(raw))
	for _, u := range raw {
		updates = append(updates, Update{ID: u.UpdateID, Message: convertMessage(u.Message)})
	}
	return updates, nil
}

// SendMessage sends a plain text message to the chat.
func (c *BotClient) SendMessage(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("tg: sendMessage: %w", err)
	}
	return nil
}

func convertMessage(m *tgbotapi.Message) *Message {
	if m == nil || m.From == nil || m.Chat == nil {
		return nil
	}
	return &Message{
		ID:     m.MessageID,
		From:   User{ID: m.From.ID, Username: m.From.UserName},
		ChatID: m.Chat.ID,
		Text:   m.Text,
	}
}
