package orders

import "time"

type Product struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	PriceCents  int       `json:"priceCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Order struct {
	ID            string      `json:"id"`
	ExternalID    string      `json:"externalId"`
	UserID        string      `json:"userId"`
	CustomerEmail string      `json:"customerEmail"`
	Status        Status      `json:"status"`
	TotalCents    int         `json:"totalCents"`
	PaymentRef    string      `json:"paymentRef,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Qty         int    `json:"qty"`
	PriceCents  int    `json:"priceCents"`
}

type ItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"required,min=1,max=100"`
}

type NewOrder struct {
	ExternalID    string
	UserID        string
	CustomerEmail string
	Items         []ItemInput
}

type Filter struct {
	Status Status
	UserID string
	Page   int
	Limit  int
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

func (f Filter) Offset() int { return (f.Page - 1) * f.Limit }
