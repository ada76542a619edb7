package sms

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"go.uber.org/zap"
)

var ErrProviderNotConfigured = errors.New("sms provider is not configured")

const maxMessageLen = 1600

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

type Provider interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type Store interface {
	Subscribe(ctx context.Context, userID, phone string) error
}

type Service struct {
	Provider Provider
	Store    Store
	Log      *zap.Logger
}

type SendRequest struct {
	UserID      string `json:"userId" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Message     string `json:"message" validate:"required,max=1600"`
}

type SubscribeRequest struct {
	UserID      string `json:"userId" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

// Validate checks presence and format before anything reaches the provider.
func (r SendRequest) Validate() error {
	err := apperr.Invalid("userId, phoneNumber and message are required")
	if strings.TrimSpace(r.UserID) == "" {
		err.WithField("userId", "required")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		err.WithField("phoneNumber", "required")
	} else if !e164.MatchString(r.PhoneNumber) {
		err.WithField("phoneNumber", "e164")
	}
	if strings.TrimSpace(r.Message) == "" {
		err.WithField("message", "required")
	} else if utf8.RuneCountInString(r.Message) > maxMessageLen {
		err.WithField("message", "max")
	}
	if len(err.Fields) > 0 {
		return err
	}
	return nil
}

func (s *Service) Send(ctx context.Context, req SendRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	sid, err := s.Provider.Send(ctx, req.PhoneNumber, req.Message)
	if err != nil {
		metrics.SMSSentTotal.WithLabelValues("failed").Inc()
		s.Log.Warn("sms send failed", zap.String("user_id", req.UserID), zap.Error(err))
		return "", apperr.Unavailable("sms provider unavailable", err)
	}
	metrics.SMSSentTotal.WithLabelValues("sent").Inc()
	return sid, nil
}

func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) error {
	if strings.TrimSpace(req.UserID) == "" || !e164.MatchString(req.PhoneNumber) {
		return apperr.Invalid("userId and an E.164 phoneNumber are required")
	}
	return s.Store.Subscribe(ctx, req.UserID, req.PhoneNumber)
}

type Repo struct{ DB postgres.DB }

// Subscribe upserts the user's number and marks it active.
func (r *Repo) Subscribe(ctx context.Context, userID, phone string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO sms_subscriptions(user_id, phone_number, is_active)
		VALUES ($1, $2, true)
		ON CONFLICT (user_id) DO UPDATE SET phone_number = EXCLUDED.phone_number, is_active = true, updated_at = now()`,
		userID, phone)
	return err
}
