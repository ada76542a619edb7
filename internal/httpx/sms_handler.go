package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/sms"
	"go.uber.org/zap"
)

type smsHandler struct {
	svc SMSService
	log *zap.Logger
}

func (h *smsHandler) send(w http.ResponseWriter, r *http.Request) {
	var req sms.SendRequest
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sid, err := h.svc.Send(ctx, req)
	if err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusOK, map[string]string{"sid": sid}, "sms sent")
}

func (h *smsHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req sms.SubscribeRequest
	if err := decode(r, &req); err != nil {
		fail(h.log, w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Subscribe(ctx, req); err != nil {
		fail(h.log, w, r, err)
		return
	}
	ok(w, http.StatusCreated, map[string]string{"userId": req.UserID, "phoneNumber": req.PhoneNumber}, "subscribed to sms")
}
