package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("order not found")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("subscribe: %w", Conflict("already subscribed"))))
	assert.Equal(t, KindInvalidTransition, KindOf(&InvalidTransitionError{Entity: "order", From: "delivered", To: "pending"}))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Invalid("bad"))
	assert.True(t, Is(err, KindInvalid))
	assert.False(t, Is(err, KindNotFound))
	assert.False(t, Is(errors.New("x"), ""))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable("payment provider unavailable", cause)
	assert.Equal(t, "payment provider unavailable: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)

	ite := &InvalidTransitionError{Entity: "review", From: "approved", To: "pending"}
	assert.Equal(t, `review: cannot transition from "approved" to "pending"`, ite.Error())
}

func TestWithField(t *testing.T) {
	err := Invalid("validation failed").WithField("orderId", "required")
	assert.Equal(t, map[string]string{"orderId": "required"}, err.Fields)
}
