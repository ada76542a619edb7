package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/media"
	"go.uber.org/zap"
)

type mediaHandler struct {
	svc MediaService
	log *zap.Logger
}

func (h *mediaHandler) manage(w http.ResponseWriter, r *http.Request) {
	var req media.Request
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.svc.Manage(ctx, req)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, res, "media "+res.Action+" completed")
}
