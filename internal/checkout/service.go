package checkout

import (
	"context"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payments"
)

type Orders interface {
	Create(ctx context.Context, in orders.NewOrder) (orders.Order, bool, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	Transition(ctx context.Context, id string, to orders.Status, paymentRef string) (orders.Order, error)
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (payments.Session, error)
	GetCheckoutSession(ctx context.Context, id string) (payments.Session, error)
}

type Service struct {
	Orders   Orders
	Gateway  Gateway
	Currency string
}

type InitRequest struct {
	ExternalID string             `json:"externalId" validate:"required,max=128"`
	UserID     string             `json:"userId" validate:"required"`
	Email      string             `json:"email" validate:"required,email"`
	Items      []orders.ItemInput `json:"items" validate:"required,min=1,dive"`
}

type InitResult struct {
	Order      orders.Order `json:"order"`
	SessionID  string       `json:"sessionId"`
	SessionURL string       `json:"sessionUrl"`
	Idempotent bool         `json:"idempotent"`
}

// Init creates (or reuses) the pending order for externalId and opens a
// Stripe Checkout Session for it.
func (s *Service) Init(ctx context.Context, req InitRequest) (InitResult, error) {
	o, existed, err := s.Orders.Create(ctx, orders.NewOrder{
		ExternalID:    req.ExternalID,
		UserID:        req.UserID,
		CustomerEmail: req.Email,
		Items:         mergeItems(req.Items),
	})
	if err != nil {
		return InitResult{}, err
	}
	if existed {
		if o.Status != orders.StatusPending {
			return InitResult{}, apperr.Conflict("order for this checkout is already " + string(o.Status))
		}
		if o, err = s.Orders.Get(ctx, o.ID); err != nil {
			return InitResult{}, err
		}
	}

	lines := make([]payments.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, payments.LineItem{Name: it.ProductName, UnitAmount: int64(it.PriceCents), Quantity: int64(it.Qty)})
	}
	sess, err := s.Gateway.CreateCheckoutSession(ctx, payments.SessionRequest{
		OrderID:        o.ID,
		CustomerEmail:  o.CustomerEmail,
		Currency:       s.Currency,
		Items:          lines,
		IdempotencyKey: "checkout-" + o.ID,
	})
	if err != nil {
		return InitResult{}, apperr.Unavailable("payment provider unavailable", err)
	}
	return InitResult{Order: o, SessionID: sess.ID, SessionURL: sess.URL, Idempotent: existed}, nil
}

// Confirm moves a paid session's order from pending to processing. Orders
// already past pending are returned unchanged.
func (s *Service) Confirm(ctx context.Context, sessionID string) (orders.Order, error) {
	sess, err := s.Gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return orders.Order{}, apperr.Unavailable("payment provider unavailable", err)
	}
	if sess.OrderID == "" {
		return orders.Order{}, apperr.NotFound("checkout session has no order")
	}
	if !sess.Paid {
		return orders.Order{}, apperr.Conflict("payment has not completed")
	}

	o, err := s.Orders.Get(ctx, sess.OrderID)
	if err != nil {
		return orders.Order{}, err
	}
	if o.Status != orders.StatusPending {
		return o, nil
	}
	return s.Orders.Transition(ctx, o.ID, orders.StatusProcessing, sess.PaymentIntent)
}

// mergeItems folds repeated product ids into one line.
func mergeItems(in []orders.ItemInput) []orders.ItemInput {
	idx := map[string]int{}
	out := make([]orders.ItemInput, 0, len(in))
	for _, it := range in {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Qty += it.Qty
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}
