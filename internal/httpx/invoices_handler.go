package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type invoicesHandler struct {
	svc InvoiceService
	log *zap.Logger
}

type invoiceEmailReq struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *invoicesHandler) pdf(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doc, err := h.svc.PDF(ctx, chi.URLParam(r, "orderId"))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	writeFile(w, "application/pdf", doc.Filename, doc.Body)
}

// email queues delivery. The body is optional; without it the order's
// customer email is used.
func (h *invoicesHandler) email(w http.ResponseWriter, r *http.Request) {
	var req invoiceEmailReq
	if err := decode(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	to, err := h.svc.RequestEmail(ctx, chi.URLParam(r, "orderId"), req.Email)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusAccepted, map[string]string{"email": to}, "invoice email queued")
}
