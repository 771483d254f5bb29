// Package telegram provides the Telegram bot for admin notifications and commands.
package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram bot API.
type Bot struct {
	api         *tgbotapi.BotAPI
	adminChatID int64
	handler     *CommandHandler
}

// New creates a Bot. Returns nil if token is empty (Telegram disabled).
func New(token string, adminChatID int64, handler *CommandHandler) (*Bot, error) {
	if token == "" {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram.New: %w", err)
	}
	b := &Bot{api: api, adminChatID: adminChatID, handler: handler}
	if handler != nil {
		handler.out = b
	}
	return b, nil
}

// Send sends a plain text message to the admin chat.
func (b *Bot) Send(msg string) error {
	if b == nil {
		return nil
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(b.adminChatID, msg)); err != nil {
		return fmt.Errorf("telegram.Send: %w", err)
	}
	return nil
}

// Start begins polling for updates. Must be called in a goroutine.
// Only processes messages from adminChatID.
func (b *Bot) Start(ctx context.Context) {
	if b == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat == nil || update.Message.Chat.ID != b.adminChatID {
				continue
			}
			if b.handler != nil {
				b.handler.Handle(ctx, update.Message)
			}
		}
	}
}

// reply sends a text reply to a chat.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("telegram.reply: %v", err)
	}
}
