package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"go.uber.org/zap"
)

type checkoutHandler struct {
	svc CheckoutService
	log *zap.Logger
}

type confirmReq struct {
	SessionID string `json:"sessionId" validate:"required"`
}

func (h *checkoutHandler) start(w http.ResponseWriter, r *http.Request) {
	var req checkout.InitRequest
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res, err := h.svc.Init(ctx, req)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	code := http.StatusCreated
	if res.Idempotent {
		code = http.StatusOK
	}
	ok(w, code, res, "checkout session created")
}

func (h *checkoutHandler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	o, err := h.svc.Confirm(ctx, req.SessionID)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, o, "payment confirmed")
}
