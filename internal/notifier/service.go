// Package notifier consumes storefront events and turns them into customer
// email: invoice delivery and order status updates.
package notifier

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/invoices"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/mailer"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Topics the notifier subscribes to.
var Topics = []string{events.TopicNotifications, events.TopicOrderStatus}

type Invoices interface {
	PDF(ctx context.Context, orderID string) (invoices.Document, error)
}

type Service struct {
	Invoices Invoices
	Mailer   mailer.Sender
	Redis    *redis.Client
	Shop     string
	Log      *zap.Logger
}

// Handle dipasang sebagai handler consumer. Returning nil commits the offset.
func (s *Service) Handle(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		// poison message: log and commit
		s.Log.Warn("drop undecodable message", zap.String("topic", m.Topic), zap.Int64("offset", m.Offset), zap.Error(err))
		metrics.NotificationsHandled.WithLabelValues("unknown", "dropped").Inc()
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		metrics.NotificationsHandled.WithLabelValues(env.EventType, "duplicate").Inc()
		return nil
	}

	switch env.EventType {
	case events.EventInvoiceEmailRequested:
		err = s.sendInvoice(ctx, env)
	case events.EventOrderStatusChanged:
		err = s.sendStatusUpdate(ctx, env)
	default:
		metrics.NotificationsHandled.WithLabelValues(env.EventType, "ignored").Inc()
		return nil
	}
	if err != nil {
		metrics.NotificationsHandled.WithLabelValues(env.EventType, "error").Inc()
		return err
	}

	// mark only after delivery so a failed attempt is retried
	if err := s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err(); err != nil {
		s.Log.Warn("mark event handled", zap.String("event_id", env.EventID), zap.Error(err))
	}
	metrics.NotificationsHandled.WithLabelValues(env.EventType, "sent").Inc()
	return nil
}

func (s *Service) sendInvoice(ctx context.Context, env events.Envelope) error {
	p, err := kafkax.UnwrapPayload[events.InvoiceEmailRequestedPayload](env.Payload)
	if err != nil {
		return err
	}
	doc, err := s.Invoices.PDF(ctx, p.OrderID)
	if err != nil {
		return fmt.Errorf("render invoice %s: %w", p.OrderID, err)
	}
	return s.Mailer.Send(ctx, mailer.Message{
		To:      p.Email,
		Subject: fmt.Sprintf("%s invoice for order %s", s.Shop, p.OrderID),
		Body:    "Thank you for your order. Your invoice is attached.\n",
		Attachments: []mailer.Attachment{{
			Filename:    doc.Filename,
			ContentType: "application/pdf",
			Data:        doc.Body,
		}},
	})
}

func (s *Service) sendStatusUpdate(ctx context.Context, env events.Envelope) error {
	p, err := kafkax.UnwrapPayload[events.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	if p.CustomerEmail == "" {
		return nil
	}
	return s.Mailer.Send(ctx, mailer.Message{
		To:      p.CustomerEmail,
		Subject: fmt.Sprintf("Order %s is now %s", p.OrderID, p.To),
		Body:    fmt.Sprintf("Your order %s moved from %s to %s.\n", p.OrderID, p.From, p.To),
	})
}
