package invoices

import (
	"context"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

type Orders interface {
	Get(ctx context.Context, id string) (orders.Order, error)
}

type Service struct {
	Orders   Orders
	Events   events.Publisher
	Producer string
	Shop     string
	Currency string
}

type Document struct {
	Filename string
	Body     []byte
}

func (s *Service) PDF(ctx context.Context, orderID string) (Document, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return Document{}, err
	}
	body, err := Render(o, s.Shop, s.Currency)
	if err != nil {
		return Document{}, err
	}
	return Document{Filename: Number(o) + ".pdf", Body: body}, nil
}

// RequestEmail queues delivery to email, or to the order's customer when
// email is empty. The notifier renders and sends the document.
func (s *Service) RequestEmail(ctx context.Context, orderID, email string) (string, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	to := strings.TrimSpace(email)
	if to == "" {
		to = o.CustomerEmail
	}
	if to == "" {
		return "", apperr.Invalid("no recipient for invoice").WithField("email", "required")
	}
	if o.Status == orders.StatusPending || o.Status == orders.StatusCancelled {
		return "", apperr.Conflict("invoice is not available for " + string(o.Status) + " orders")
	}

	env, err := events.New(events.EventInvoiceEmailRequested, s.Producer, o.ID, "",
		events.InvoiceEmailRequestedPayload{OrderID: o.ID, Email: to})
	if err != nil {
		return "", err
	}
	if err := s.Events.PublishEvent(ctx, events.TopicNotifications, env); err != nil {
		return "", apperr.Unavailable("could not queue invoice email", err)
	}
	return to, nil
}
