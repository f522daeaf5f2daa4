// Package events publishes booking lifecycle events to a RabbitMQ topic
// exchange so downstream consumers (notifications, reporting) can react.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	KeyBookingCreated = "booking.created"
	KeyBookingUpdated = "booking.updated"
	KeyBookingDeleted = "booking.deleted"
)

// Envelope wraps every published event.
type Envelope struct {
	EventID    string            `json:"eventId"`
	Key        string            `json:"key"`
	OccurredAt time.Time         `json:"occurredAt"`
	ActorID    int64             `json:"actorId,omitempty"`
	Booking    *model.DiaryEntry `json:"booking,omitempty"`
	BookingID  int64             `json:"bookingId,omitempty"`
}

// Publisher pushes events to a durable topic exchange. A nil *Publisher is a
// valid no-op, so callers never have to branch on whether events are enabled.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *Publisher) publish(ctx context.Context, key string, env Envelope) {
	if p == nil {
		return
	}

	env.EventID = uuid.NewString()
	env.Key = key
	env.OccurredAt = time.Now().UTC()

	body, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.String("key", key), zap.Error(err))
		return
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		// Event delivery is best effort; the booking write already committed.
		p.logger.Error("Failed to publish event", zap.String("key", key), zap.Error(err))
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, entry *model.DiaryEntry) {
	p.publish(ctx, KeyBookingCreated, Envelope{Booking: entry, ActorID: entry.CreatedBy})
}

func (p *Publisher) BookingUpdated(ctx context.Context, entry *model.DiaryEntry) {
	p.publish(ctx, KeyBookingUpdated, Envelope{Booking: entry})
}

func (p *Publisher) BookingDeleted(ctx context.Context, bookingID, actorID int64) {
	p.publish(ctx, KeyBookingDeleted, Envelope{BookingID: bookingID, ActorID: actorID})
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
