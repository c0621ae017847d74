package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
)

// PublishMetadata carries tracing ids taken from the inbound request.
type PublishMetadata struct {
	CorrelationID string
	CausationID   string
}

// RabbitOrderEventsPublisher publishes OrderPlaced events to the topic
// exchange, stamping each with a per-session sequence number.
type RabbitOrderEventsPublisher struct {
	ch  *amqp.Channel
	seq SequenceRepository
}

func NewRabbitOrderEventsPublisher(conn *amqp.Connection, seq SequenceRepository) (*RabbitOrderEventsPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}

	return &RabbitOrderEventsPublisher{ch: ch, seq: seq}, nil
}

func (p *RabbitOrderEventsPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitOrderEventsPublisher) PublishOrderPlaced(ctx context.Context, orderID, sessionID string, c *cart.Cart, metadata PublishMetadata) error {
	sequence, err := p.seq.NextSequence(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("next sequence for %s: %w", sessionID, err)
	}

	ev := BuildOrderPlacedEvent(orderID, sessionID, c, EnvelopeOptions{
		PartitionKey:  sessionID,
		Sequence:      sequence,
		CorrelationID: metadata.CorrelationID,
		CausationID:   metadata.CausationID,
	})

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		OrderPlacedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Body:         body,
		},
	)
}
