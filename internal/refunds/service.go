package refunds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payments"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, orderID, reason string, amount int) (Refund, error)
	Get(ctx context.Context, id string) (Refund, error)
	LatestSucceeded(ctx context.Context, orderID string) (Refund, error)
	SetResult(ctx context.Context, id string, status Status, providerRef string) (Refund, error)
}

type Orders interface {
	Get(ctx context.Context, id string) (orders.Order, error)
	Transition(ctx context.Context, id string, to orders.Status, paymentRef string) (orders.Order, error)
}

type Gateway interface {
	Refund(ctx context.Context, req payments.RefundRequest) (payments.Refund, error)
}

type Service struct {
	Store    Store
	Orders   Orders
	Gateway  Gateway
	Redis    *redis.Client // optional per-order lock
	Events   events.Publisher
	Producer string
	Log      *zap.Logger
}

// Request issues a refund for an order. Refunding an already refunded order
// returns the earlier refund with existing=true and no provider call. The
// provider idempotency key is derived from the order, so at most one refund
// is ever captured per order.
func (s *Service) Request(ctx context.Context, req Request) (rf Refund, existing bool, err error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return Refund{}, false, apperr.Invalid("orderId is required").WithField("orderId", "required")
	}

	if s.Redis != nil {
		release, err := redisx.Lock(ctx, s.Redis, fmt.Sprintf(redisx.KeyRefundLock, orderID), uuid.NewString(), redisx.TTLRefundLock)
		if errors.Is(err, redisx.ErrLocked) {
			return Refund{}, false, apperr.Conflict("a refund for this order is already in progress")
		}
		if err != nil {
			return Refund{}, false, err
		}
		defer release()
	}

	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return Refund{}, false, err
	}

	if o.Status == orders.StatusRefunded {
		prev, err := s.Store.LatestSucceeded(ctx, orderID)
		if apperr.Is(err, apperr.KindNotFound) {
			return Refund{}, false, apperr.Conflict("order is already refunded")
		}
		return prev, err == nil, err
	}
	if !orders.Refundable(o.Status) {
		return Refund{}, false, &apperr.InvalidTransitionError{Entity: "order", From: string(o.Status), To: string(orders.StatusRefunded)}
	}

	// Provider sudah sukses tapi order belum pindah ke refunded: selesaikan transisinya saja.
	prev, err := s.Store.LatestSucceeded(ctx, orderID)
	switch {
	case err == nil:
		if _, err := s.Orders.Transition(ctx, orderID, orders.StatusRefunded, ""); err != nil {
			return Refund{}, false, fmt.Errorf("mark order %s refunded: %w", orderID, err)
		}
		s.publish(ctx, prev, StatusSucceeded)
		return prev, true, nil
	case !apperr.Is(err, apperr.KindNotFound):
		return Refund{}, false, err
	}

	amount := o.TotalCents
	if req.AmountCents != nil {
		amount = *req.AmountCents
	}
	if amount <= 0 || amount > o.TotalCents {
		return Refund{}, false, apperr.Invalid("refund amount must be between 1 and the order total").WithField("amount", "range")
	}
	if o.PaymentRef == "" {
		return Refund{}, false, apperr.Conflict("order has no captured payment")
	}

	rf, err = s.Store.Create(ctx, orderID, req.Reason, amount)
	if err != nil {
		return Refund{}, false, err
	}

	res, perr := s.Gateway.Refund(ctx, payments.RefundRequest{
		PaymentIntent:  o.PaymentRef,
		AmountCents:    int64(amount),
		Reason:         req.Reason,
		OrderID:        orderID,
		IdempotencyKey: "refund-" + orderID,
	})
	if perr != nil {
		metrics.RefundsTotal.WithLabelValues(string(StatusFailed)).Inc()
		if _, err := s.Store.SetResult(ctx, rf.ID, StatusFailed, ""); err != nil {
			s.Log.Error("mark refund failed", zap.String("refund_id", rf.ID), zap.Error(err))
		}
		s.publish(ctx, rf, StatusFailed)
		return Refund{}, false, apperr.Unavailable("payment provider rejected the refund", perr)
	}

	rf, err = s.Store.SetResult(ctx, rf.ID, StatusSucceeded, res.ID)
	if err != nil {
		return Refund{}, false, err
	}
	metrics.RefundsTotal.WithLabelValues(string(StatusSucceeded)).Inc()

	if _, err := s.Orders.Transition(ctx, orderID, orders.StatusRefunded, ""); err != nil {
		return Refund{}, false, fmt.Errorf("mark order %s refunded: %w", orderID, err)
	}
	s.publish(ctx, rf, StatusSucceeded)
	return rf, false, nil
}

func (s *Service) Get(ctx context.Context, id string) (Refund, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) publish(ctx context.Context, rf Refund, st Status) {
	if s.Events == nil {
		return
	}
	env, err := events.New(events.EventRefundProcessed, s.Producer, rf.OrderID, "", events.RefundProcessedPayload{
		RefundID:    rf.ID,
		OrderID:     rf.OrderID,
		Status:      string(st),
		AmountCents: rf.AmountCents,
	})
	if err == nil {
		err = s.Events.PublishEvent(ctx, events.TopicRefunds, env)
	}
	if err != nil {
		s.Log.Error("publish refund", zap.String("refund_id", rf.ID), zap.Error(err))
	}
}
