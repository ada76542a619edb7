package httpx

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type loyaltyHandler struct {
	svc LoyaltyService
	log *zap.Logger
}

type redeemReq struct {
	UserID   string `json:"userId" validate:"required"`
	RewardID string `json:"rewardId" validate:"required"`
}

func (h *loyaltyHandler) catalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.svc.Catalog(ctx, query(r, "userId"))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, c, "")
}

// redeem honours an optional Idempotency-Key header; a replay returns the
// original redemption with 200.
func (h *loyaltyHandler) redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemReq
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rd, replayed, err := h.svc.Redeem(ctx, req.UserID, req.RewardID, r.Header.Get("Idempotency-Key"))
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
		ok(w, http.StatusOK, rd, "reward already redeemed")
		return
	}
	ok(w, http.StatusCreated, rd, "reward redeemed")
}
