package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	OrderPlacedEventVersion = 1
)

// EventEnvelope wraps every published event with routing and tracing
// metadata. Sequence is monotonic per partition key.
type EventEnvelope struct {
	EventName     string             `json:"eventName"`
	EventVersion  int                `json:"eventVersion"`
	EventID       string             `json:"eventId"`
	CorrelationID string             `json:"correlationId,omitempty"`
	CausationID   string             `json:"causationId,omitempty"`
	Producer      string             `json:"producer"`
	PartitionKey  string             `json:"partitionKey"`
	Sequence      int64              `json:"sequence"`
	OccurredAt    time.Time          `json:"occurredAt"`
	Payload       OrderPlacedPayload `json:"payload"`
}

// OrderPlacedPayload describes a confirmed checkout. Monetary amounts are
// fixed to two decimals at this boundary.
type OrderPlacedPayload struct {
	OrderID     string            `json:"orderId"`
	SessionID   string            `json:"sessionId"`
	Items       []OrderPlacedItem `json:"items"`
	Subtotal    string            `json:"subtotal"`
	DeliveryFee string            `json:"deliveryFee"`
	Total       string            `json:"total"`
}

type OrderPlacedItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Notes     string `json:"notes,omitempty"`
}

// EnvelopeOptions carries caller-supplied metadata. Zero values get defaults
// (fresh event id, current time).
type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

// BuildOrderPlacedEvent assembles the enveloped event for a checked-out cart.
func BuildOrderPlacedEvent(orderID, sessionID string, c *cart.Cart, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	items := c.Items()
	payloadItems := make([]OrderPlacedItem, len(items))
	for i, item := range items {
		payloadItems[i] = OrderPlacedItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price.StringFixed(2),
			Notes:     item.Notes,
		}
	}

	return EventEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      storefrontProducerName,
		PartitionKey:  opts.PartitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Payload: OrderPlacedPayload{
			OrderID:     orderID,
			SessionID:   sessionID,
			Items:       payloadItems,
			Subtotal:    c.Subtotal().StringFixed(2),
			DeliveryFee: c.DeliveryCharge().StringFixed(2),
			Total:       c.Total().StringFixed(2),
		},
	}
}
