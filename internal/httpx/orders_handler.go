package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ordersHandler struct {
	svc OrderService
	log *zap.Logger
}

type updateStatusReq struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

func (h *ordersHandler) list(w http.ResponseWriter, r *http.Request) {
	f := orders.Filter{
		UserID: query(r, "userId"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", orders.DefaultLimit),
	}
	if s := query(r, "status"); s != "" {
		st, err := orders.ParseStatus(s)
		if err != nil {
			fail(h.log, w, r, err)
			return
		}
		f.Status = st
	}
	f = f.Normalize()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.List(ctx, f)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, page{Items: list, Total: total, Page: f.Page, Limit: f.Limit}, "")
}

func (h *ordersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, o, "")
}

func (h *ordersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.svc.UpdateStatus(ctx, req.OrderID, req.Status)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	h.log.Info("order status updated",
		zap.String("order_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.String("admin", adminSubject(r)))
	ok(w, http.StatusOK, o, "order status updated")
}

// status serves the customer-facing status lookup, cache first.
func (h *ordersHandler) status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	st, err := h.svc.Status(ctx, orderID)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, map[string]any{"orderId": orderID, "status": st}, "")
}
