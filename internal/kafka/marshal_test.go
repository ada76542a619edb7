package kafka

import (
	"testing"

	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeDecode(t *testing.T) {
	env, err := events.New(events.EventInvoiceEmailRequested, "api", "o1", "",
		events.InvoiceEmailRequestedPayload{OrderID: "o1", Email: "a@b.co"})
	require.NoError(t, err)

	b, err := Marshal(env)
	require.NoError(t, err)

	got, err := UnmarshalEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, events.EventInvoiceEmailRequested, got.EventType)

	p, err := UnwrapPayload[events.InvoiceEmailRequestedPayload](got.Payload)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", p.Email)
}

func TestUnmarshalEnvelopeInvalid(t *testing.T) {
	_, err := UnmarshalEnvelope([]byte("{not json"))
	assert.Error(t, err)
}
