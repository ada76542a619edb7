package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/reviews"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type reviewsHandler struct {
	svc ReviewService
	log *zap.Logger
}

type moderateReq struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

func (h *reviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	f := reviews.Filter{
		ProductID: query(r, "productId"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 20),
	}
	if s := query(r, "status"); s != "" {
		st, err := reviews.ParseStatus(s)
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

func (h *reviewsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rv, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, rv, "")
}

func (h *reviewsHandler) moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rv, err := h.svc.Moderate(ctx, chi.URLParam(r, "id"), req.Status, req.Note)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	h.log.Info("review moderated",
		zap.String("review_id", rv.ID),
		zap.String("status", string(rv.Status)),
		zap.String("admin", adminSubject(r)))
	ok(w, http.StatusOK, rv, "review "+string(rv.Status))
}
