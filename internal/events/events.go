package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderStatusChanged    = "OrderStatusChanged"
	EventRefundProcessed       = "RefundProcessed"
	EventInvoiceEmailRequested = "InvoiceEmailRequested"
	EventRewardRedeemed        = "RewardRedeemed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// New wraps payload in a v1 envelope.
func New(eventType, producer, correlationID, traceID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

type OrderStatusChangedPayload struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	CustomerEmail string `json:"customer_email,omitempty"`
	From          string `json:"from"`
	To            string `json:"to"`
}

type RefundProcessedPayload struct {
	RefundID    string `json:"refund_id"`
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	AmountCents int    `json:"amount_cents"`
}

type InvoiceEmailRequestedPayload struct {
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
}

type RewardRedeemedPayload struct {
	RedemptionID string `json:"redemption_id"`
	UserID       string `json:"user_id"`
	RewardID     string `json:"reward_id"`
	PointsSpent  int    `json:"points_spent"`
}

// Publisher is satisfied by the kafka producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, env Envelope) error
}
