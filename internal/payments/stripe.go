package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/refund"
)

var ErrNotConfigured = errors.New("stripe is not configured")

type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type SessionRequest struct {
	OrderID        string
	CustomerEmail  string
	Currency       string
	Items          []LineItem
	IdempotencyKey string
}

type Session struct {
	ID            string
	URL           string
	OrderID       string
	Paid          bool
	PaymentIntent string
}

type RefundRequest struct {
	PaymentIntent  string
	AmountCents    int64
	Reason         string
	OrderID        string
	IdempotencyKey string
}

type Refund struct {
	ID     string
	Status string
}

// Stripe wraps the stripe-go SDK. The SDK takes no context, so ctx is only
// checked before each call.
type Stripe struct {
	key        string
	successURL string
	cancelURL  string
}

func NewStripe(key, successURL, cancelURL string) *Stripe {
	return &Stripe{key: key, successURL: successURL, cancelURL: cancelURL}
}

func (s *Stripe) ready(ctx context.Context) error {
	if s.key == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stripe.Key = s.key
	return nil
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req SessionRequest) (Session, error) {
	if err := s.ready(ctx); err != nil {
		return Session{}, err
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(req.OrderID),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, it := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(it.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(it.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
		})
	}
	params.AddMetadata("order_id", req.OrderID)
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	cs, err := session.New(params)
	if err != nil {
		return Session{}, err
	}
	return toSession(cs), nil
}

func (s *Stripe) GetCheckoutSession(ctx context.Context, id string) (Session, error) {
	if err := s.ready(ctx); err != nil {
		return Session{}, err
	}
	cs, err := session.Get(id, nil)
	if err != nil {
		return Session{}, err
	}
	return toSession(cs), nil
}

func (s *Stripe) Refund(ctx context.Context, req RefundRequest) (Refund, error) {
	if err := s.ready(ctx); err != nil {
		return Refund{}, err
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntent),
		Amount:        stripe.Int64(req.AmountCents),
	}
	params.AddMetadata("order_id", req.OrderID)
	if req.Reason != "" {
		params.AddMetadata("reason", req.Reason)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	rf, err := refund.New(params)
	if err != nil {
		return Refund{}, err
	}
	return Refund{ID: rf.ID, Status: string(rf.Status)}, nil
}

func toSession(cs *stripe.CheckoutSession) Session {
	out := Session{
		ID:      cs.ID,
		URL:     cs.URL,
		OrderID: cs.ClientReferenceID,
		Paid:    cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if cs.PaymentIntent != nil {
		out.PaymentIntent = cs.PaymentIntent.ID
	}
	return out
}
