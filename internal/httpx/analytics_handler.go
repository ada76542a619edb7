package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/analytics"
	"go.uber.org/zap"
)

type analyticsHandler struct {
	svc AnalyticsService
	log *zap.Logger
}

func (h *analyticsHandler) metrics(w http.ResponseWriter, r *http.Request) {
	rg, err := analytics.ParseRange(query(r, "from"), query(r, "to"), time.Now())
	if err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := h.svc.Metrics(ctx, rg)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, m, "")
}

func (h *analyticsHandler) export(w http.ResponseWriter, r *http.Request) {
	rg, err := analytics.ParseRange(query(r, "from"), query(r, "to"), time.Now())
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	format := query(r, "format")
	if format == "" {
		format = "csv"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	exp, err := h.svc.Export(ctx, format, rg)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	writeFile(w, exp.ContentType, exp.Filename, exp.Body)
}
