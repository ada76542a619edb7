package httpx

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type searchHandler struct {
	svc SearchService
	log *zap.Logger
}

func (h *searchHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hits, err := h.svc.Search(ctx, query(r, "q"), queryInt(r, "limit", 20))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, hits, "")
}

func (h *searchHandler) autocomplete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names, err := h.svc.Autocomplete(ctx, r.URL.Query().Get("q"), queryInt(r, "limit", 10))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, names, "")
}
