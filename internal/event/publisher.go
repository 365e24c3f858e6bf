package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const RoutingAttemptFinalized = "attempt.finalized"

// AttemptFinalized is emitted once an attempt has been scored and committed.
type AttemptFinalized struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	AttemptID       uint      `json:"attempt_id"`
	ExamID          uint      `json:"exam_id"`
	UserUID         string    `json:"user_uid"`
	NilaiPreferensi float64   `json:"nilai_preferensi"`
	NilaiKonversi   float64   `json:"nilai_konversi"`
	Status          string    `json:"status"`
	FinishedAt      time.Time `json:"finished_at"`
}

type Publisher interface {
	PublishAttemptFinalized(ctx context.Context, ev AttemptFinalized) error
	Close() error
}

type EventPublisher struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
	enabled      bool
}

// NewEventPublisher returns a disabled publisher when uri is empty.
func NewEventPublisher(uri, exchange string) (*EventPublisher, error) {
	if uri == "" {
		log.Warn().Msg("RABBITMQ_URL is empty, event publishing is disabled")
		return &EventPublisher{exchangeName: exchange}, nil
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("RabbitMQ publisher ready")
	return &EventPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchange,
		enabled:      true,
	}, nil
}

func (p *EventPublisher) Enabled() bool { return p.enabled }

func (p *EventPublisher) PublishAttemptFinalized(ctx context.Context, ev AttemptFinalized) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	ev.EventType = RoutingAttemptFinalized
	return p.publish(ctx, RoutingAttemptFinalized, ev.EventID, ev)
}

func (p *EventPublisher) publish(ctx context.Context, routingKey, messageID string, payload any) error {
	if !p.enabled {
		log.Debug().Str("routingKey", routingKey).Msg("Event publishing disabled, skipping")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(pubCtx,
		p.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	log.Debug().Str("routingKey", routingKey).Str("messageID", messageID).Msg("Published event")
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close RabbitMQ channel")
	}
	return p.conn.Close()
}
