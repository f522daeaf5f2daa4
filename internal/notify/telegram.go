// Package notify sends booking change notifications to an ops Telegram chat.
package notify

import (
	"context"
	"fmt"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier posts short booking summaries to a configured chat.
// A nil *TelegramNotifier is a valid no-op.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: b, chatID: chatID, logger: logger}, nil
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n == nil {
		return
	}
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Warn("Failed to send telegram notification", zap.Error(err))
	}
}

func (n *TelegramNotifier) BookingCreated(ctx context.Context, entry *model.DiaryEntry, engineerName string) {
	n.send(ctx, fmt.Sprintf("New booking: %s on %s %s-%s (call #%d)",
		engineerName, entry.Date, entry.StartTime, entry.EndTime, entry.CallID))
}

func (n *TelegramNotifier) BookingUpdated(ctx context.Context, entry *model.DiaryEntry, engineerName string) {
	n.send(ctx, fmt.Sprintf("Booking #%d updated: %s on %s %s-%s",
		entry.ID, engineerName, entry.Date, entry.StartTime, entry.EndTime))
}

func (n *TelegramNotifier) BookingDeleted(ctx context.Context, bookingID int64) {
	n.send(ctx, fmt.Sprintf("Booking #%d deleted", bookingID))
}
