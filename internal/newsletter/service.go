package newsletter

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

type Store interface {
	Find(ctx context.Context, email string) (Subscription, error)
	Create(ctx context.Context, email string, p Preferences) (Subscription, error)
	SetActive(ctx context.Context, email string, active bool) (Subscription, error)
	UpdatePreferences(ctx context.Context, email string, p Preferences) (Subscription, error)
}

type Service struct{ Store Store }

// NormalizeEmail lower-cases and validates an address.
func NormalizeEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return "", apperr.Invalid("invalid email address").WithField("email", "email")
	}
	return e, nil
}

// Subscribe creates a subscription, or reactivates an inactive one.
// An already active email is a conflict.
func (s *Service) Subscribe(ctx context.Context, email string, prefs *Preferences) (sub Subscription, reactivated bool, err error) {
	email, err = NormalizeEmail(email)
	if err != nil {
		return Subscription{}, false, err
	}

	existing, err := s.Store.Find(ctx, email)
	switch {
	case err == nil && existing.IsActive:
		return Subscription{}, false, apperr.Conflict("email is already subscribed")
	case err == nil:
		sub, err = s.Store.SetActive(ctx, email, true)
		if err == nil && prefs != nil {
			sub, err = s.Store.UpdatePreferences(ctx, email, *prefs)
		}
		return sub, err == nil, err
	case !apperr.Is(err, apperr.KindNotFound):
		return Subscription{}, false, err
	}

	p := DefaultPreferences()
	if prefs != nil {
		p = *prefs
	}
	sub, err = s.Store.Create(ctx, email, p)
	if errors.Is(err, ErrDuplicate) {
		return Subscription{}, false, apperr.Conflict("email is already subscribed")
	}
	return sub, false, err
}

func (s *Service) Unsubscribe(ctx context.Context, email string) (Subscription, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Subscription{}, err
	}
	return s.Store.SetActive(ctx, email, false)
}

func (s *Service) UpdatePreferences(ctx context.Context, email string, p Preferences) (Subscription, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Subscription{}, err
	}
	return s.Store.UpdatePreferences(ctx, email, p)
}

func (s *Service) Status(ctx context.Context, email string) (Subscription, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Subscription{}, err
	}
	return s.Store.Find(ctx, email)
}
