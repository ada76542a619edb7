package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/newsletter"
	"go.uber.org/zap"
)

type newsletterHandler struct {
	svc NewsletterService
	log *zap.Logger
}

type subscribeReq struct {
	Email       string                  `json:"email" validate:"required,email"`
	Preferences *newsletter.Preferences `json:"preferences"`
}

type emailReq struct {
	Email string `json:"email" validate:"required,email"`
}

type preferencesReq struct {
	Email       string                  `json:"email" validate:"required,email"`
	Preferences *newsletter.Preferences `json:"preferences" validate:"required"`
}

func (h *newsletterHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, reactivated, err := h.svc.Subscribe(ctx, req.Email, req.Preferences)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	if reactivated {
		ok(w, http.StatusOK, sub, "subscription reactivated")
		return
	}
	ok(w, http.StatusCreated, sub, "subscribed")
}

func (h *newsletterHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req emailReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.svc.Unsubscribe(ctx, req.Email)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, sub, "unsubscribed")
}

func (h *newsletterHandler) preferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.svc.UpdatePreferences(ctx, req.Email, *req.Preferences)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, sub, "preferences updated")
}

func (h *newsletterHandler) status(w http.ResponseWriter, r *http.Request) {
	email := query(r, "email")
	if email == "" {
		fail(h.log, w, r, apperr.Invalid("email is required").WithField("email", "required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sub, err := h.svc.Status(ctx, email)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, sub, "")
}
