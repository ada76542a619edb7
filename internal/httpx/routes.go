package httpx

import "github.com/go-chi/chi/v5"

// registerRoutes is the complete route table. Every endpoint is an exact
// method and path pattern.
func registerRoutes(r chi.Router, d Deps) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(d.AdminSecret, d.Log))

		if d.Orders != nil {
			h := &ordersHandler{svc: d.Orders, log: d.Log}
			r.Get("/api/admin/orders", h.list)
			r.Patch("/api/admin/orders", h.updateStatus)
			r.Get("/api/admin/orders/{id}", h.get)
		}
		if d.Analytics != nil {
			h := &analyticsHandler{svc: d.Analytics, log: d.Log}
			r.Get("/api/admin/analytics", h.metrics)
			r.Get("/api/admin/analytics/exports", h.export)
		}
		if d.Invoices != nil {
			h := &invoicesHandler{svc: d.Invoices, log: d.Log}
			r.Get("/api/admin/analytics/invoices/{orderId}", h.pdf)
		}
		if d.Reviews != nil {
			h := &reviewsHandler{svc: d.Reviews, log: d.Log}
			r.Get("/api/admin/reviews", h.list)
			r.Get("/api/admin/reviews/{id}", h.get)
			r.Put("/api/admin/reviews/{id}", h.moderate)
		}
	})

	if d.Orders != nil {
		h := &ordersHandler{svc: d.Orders, log: d.Log}
		r.Get("/api/orders/{id}/status", h.status)
	}
	if d.Checkout != nil {
		h := &checkoutHandler{svc: d.Checkout, log: d.Log}
		r.Post("/api/checkout/stripe", h.start)
		r.Post("/api/checkout/stripe/confirm", h.confirm)
	}
	if d.Refunds != nil {
		h := &refundsHandler{svc: d.Refunds, log: d.Log}
		r.Post("/api/checkout/refunds", h.request)
		r.Get("/api/checkout/refunds/{id}", h.get)
	}
	if d.Invoices != nil {
		h := &invoicesHandler{svc: d.Invoices, log: d.Log}
		r.Get("/api/checkout/invoices/{orderId}/pdf", h.pdf)
		r.Post("/api/checkout/invoices/{orderId}/email", h.email)
	}
	if d.Loyalty != nil {
		h := &loyaltyHandler{svc: d.Loyalty, log: d.Log}
		r.Get("/api/loyalty/rewards", h.catalog)
		r.Post("/api/loyalty/rewards/redeem", h.redeem)
	}
	if d.Newsletter != nil {
		h := &newsletterHandler{svc: d.Newsletter, log: d.Log}
		r.Post("/api/newsletter", h.subscribe)
		r.Post("/api/newsletter/unsubscribe", h.unsubscribe)
		r.Put("/api/newsletter/preferences", h.preferences)
		r.Get("/api/newsletter/status", h.status)
	}
	if d.SMS != nil {
		h := &smsHandler{svc: d.SMS, log: d.Log}
		r.Post("/api/notifications/sms/send", h.send)
		r.Post("/api/notifications/sms/subscribe", h.subscribe)
	}
	if d.Search != nil {
		h := &searchHandler{svc: d.Search, log: d.Log}
		r.Get("/api/search", h.search)
		r.Get("/api/search/autocomplete", h.autocomplete)
	}
	if d.Media != nil {
		h := &mediaHandler{svc: d.Media, log: d.Log}
		r.Post("/api/cloudinary/manage", h.manage)
	}
}
