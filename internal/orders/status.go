package orders

import (
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true, StatusRefunded: true},
	StatusShipped:    {StatusDelivered: true, StatusRefunded: true},
	StatusDelivered:  {StatusRefunded: true},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// ParseStatus accepts only the known lifecycle values.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validNext[st]; !ok {
		return "", apperr.Invalid("unsupported order status").WithField("status", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Transition checks from -> to. Same-state requests are a no-op
// (changed=false, err=nil).
func Transition(from, to Status) (changed bool, err error) {
	if !to.Valid() {
		return false, apperr.Invalid("unsupported order status").WithField("status", string(to))
	}
	if from == to {
		return false, nil
	}
	if !CanTransition(from, to) {
		return false, &apperr.InvalidTransitionError{Entity: "order", From: string(from), To: string(to)}
	}
	return true, nil
}

// Refundable reports whether a refund may be issued for an order in s.
func Refundable(s Status) bool { return CanTransition(s, StatusRefunded) }
