package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store interface {
	CreateOrderTx(ctx context.Context, in NewOrder) (Order, bool, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, f Filter) ([]Order, int, error)
	ApplyTransition(ctx context.Context, id string, to Status, paymentRef string) (Status, Order, error)
	GetOrderStatus(ctx context.Context, id string) (Status, error)
}

type Service struct {
	Store    Store
	Redis    *redis.Client // optional status cache
	Events   events.Publisher
	Producer string
	Log      *zap.Logger
}

type cachedStatus struct {
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) List(ctx context.Context, f Filter) ([]Order, int, error) {
	return s.Store.List(ctx, f.Normalize())
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in NewOrder) (Order, bool, error) {
	o, existed, err := s.Store.CreateOrderTx(ctx, in)
	if err != nil {
		return Order{}, false, err
	}
	if !existed {
		s.cacheStatus(ctx, o)
	}
	return o, existed, nil
}

// UpdateStatus parses the requested status and applies it through the
// transition table. A same-state request returns the order unchanged.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Order, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	return s.Transition(ctx, id, to, "")
}

func (s *Service) Transition(ctx context.Context, id string, to Status, paymentRef string) (Order, error) {
	from, o, err := s.Store.ApplyTransition(ctx, id, to, paymentRef)
	if err != nil {
		return Order{}, err
	}
	if from == o.Status {
		return o, nil
	}

	metrics.OrderTransitions.WithLabelValues(string(from), string(o.Status)).Inc()
	s.cacheStatus(ctx, o)
	s.publish(ctx, from, o)
	return o, nil
}

// Status serves the cached status first, falling back to the database.
func (s *Service) Status(ctx context.Context, id string) (Status, error) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var c cachedStatus
			if json.Unmarshal([]byte(raw), &c) == nil && c.Status.Valid() {
				return c.Status, nil
			}
		}
	}
	st, err := s.Store.GetOrderStatus(ctx, id)
	if err != nil {
		return "", err
	}
	s.cacheStatus(ctx, Order{ID: id, Status: st, UpdatedAt: time.Now().UTC()})
	return st, nil
}

func (s *Service) cacheStatus(ctx context.Context, o Order) {
	if s.Redis == nil {
		return
	}
	b, _ := json.Marshal(cachedStatus{Status: o.Status, UpdatedAt: o.UpdatedAt})
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, o.ID), b, redisx.TTLStatusCache).Err(); err != nil {
		s.Log.Warn("cache order status", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, from Status, o Order) {
	if s.Events == nil {
		return
	}
	env, err := events.New(events.EventOrderStatusChanged, s.Producer, o.ID, "", events.OrderStatusChangedPayload{
		OrderID:       o.ID,
		UserID:        o.UserID,
		CustomerEmail: o.CustomerEmail,
		From:          string(from),
		To:            string(o.Status),
	})
	if err == nil {
		err = s.Events.PublishEvent(ctx, events.TopicOrderStatus, env)
	}
	if err != nil {
		s.Log.Error("publish order status", zap.String("order_id", o.ID), zap.Error(err))
	}
}
