package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/refunds"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type refundsHandler struct {
	svc RefundService
	log *zap.Logger
}

func (h *refundsHandler) request(w http.ResponseWriter, r *http.Request) {
	var req refunds.Request
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	rf, existing, err := h.svc.Request(ctx, req)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	if existing {
		ok(w, http.StatusOK, rf, "order already refunded")
		return
	}
	ok(w, http.StatusCreated, rf, "refund processed")
}

func (h *refundsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rf, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, rf, "")
}
