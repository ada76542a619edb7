package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/invoices"
	"github.com/ariefcatur/go-storefront/internal/mailer"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoices struct{ err error }

func (f fakeInvoices) PDF(_ context.Context, id string) (invoices.Document, error) {
	if f.err != nil {
		return invoices.Document{}, f.err
	}
	return invoices.Document{Filename: "INV-" + id + ".pdf", Body: []byte("%PDF")}, nil
}

type outbox struct {
	sent []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m mailer.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, m)
	return nil
}

func newService(t *testing.T, inv Invoices) (*Service, *outbox) {
	t.Helper()
	mr := miniredis.RunT(t)
	ob := &outbox{}
	return &Service{
		Invoices: inv,
		Mailer:   ob,
		Redis:    redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Shop:     "Storefront",
		Log:      zap.NewNop(),
	}, ob
}

func message(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	env, err := events.New(eventType, "test", "o1", "", payload)
	require.NoError(t, err)
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Topic: events.TopicNotifications, Value: b}
}

func TestHandleInvoiceEmail(t *testing.T) {
	svc, ob := newService(t, fakeInvoices{})
	m := message(t, events.EventInvoiceEmailRequested, events.InvoiceEmailRequestedPayload{OrderID: "o1", Email: "a@example.com"})

	require.NoError(t, svc.Handle(context.Background(), m))
	require.Len(t, ob.sent, 1)
	assert.Equal(t, "a@example.com", ob.sent[0].To)
	require.Len(t, ob.sent[0].Attachments, 1)
	assert.Equal(t, "INV-o1.pdf", ob.sent[0].Attachments[0].Filename)

	// redelivery of the same event is skipped
	require.NoError(t, svc.Handle(context.Background(), m))
	assert.Len(t, ob.sent, 1)
}

func TestHandleStatusChange(t *testing.T) {
	svc, ob := newService(t, fakeInvoices{})
	m := message(t, events.EventOrderStatusChanged, events.OrderStatusChangedPayload{
		OrderID: "o1", CustomerEmail: "a@example.com", From: "processing", To: "shipped",
	})
	require.NoError(t, svc.Handle(context.Background(), m))
	require.Len(t, ob.sent, 1)
	assert.Equal(t, "Order o1 is now shipped", ob.sent[0].Subject)

	noEmail := message(t, events.EventOrderStatusChanged, events.OrderStatusChangedPayload{OrderID: "o2", To: "shipped"})
	require.NoError(t, svc.Handle(context.Background(), noEmail))
	assert.Len(t, ob.sent, 1)
}

func TestHandleFailureIsRetried(t *testing.T) {
	svc, ob := newService(t, fakeInvoices{err: errors.New("db down")})
	m := message(t, events.EventInvoiceEmailRequested, events.InvoiceEmailRequestedPayload{OrderID: "o1", Email: "a@example.com"})

	assert.Error(t, svc.Handle(context.Background(), m))

	svc.Invoices = fakeInvoices{}
	require.NoError(t, svc.Handle(context.Background(), m))
	assert.Len(t, ob.sent, 1)
}

func TestHandleIgnoresUnknownAndGarbage(t *testing.T) {
	svc, ob := newService(t, fakeInvoices{})
	require.NoError(t, svc.Handle(context.Background(), kafkago.Message{Value: []byte("{")}))
	require.NoError(t, svc.Handle(context.Background(), message(t, events.EventRewardRedeemed, events.RewardRedeemedPayload{})))
	assert.Empty(t, ob.sent)
}
