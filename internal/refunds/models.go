package refunds

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Refund struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	Reason      string    `json:"reason,omitempty"`
	AmountCents int       `json:"amountCents"`
	Status      Status    `json:"status"`
	ProviderRef string    `json:"providerRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Request struct {
	OrderID     string `json:"orderId" validate:"required"`
	Reason      string `json:"reason" validate:"max=500"`
	AmountCents *int   `json:"amount" validate:"omitempty,min=1"`
}
