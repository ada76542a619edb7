package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/analytics"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/invoices"
	"github.com/ariefcatur/go-storefront/internal/loyalty"
	"github.com/ariefcatur/go-storefront/internal/media"
	"github.com/ariefcatur/go-storefront/internal/newsletter"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/refunds"
	"github.com/ariefcatur/go-storefront/internal/reviews"
	"github.com/ariefcatur/go-storefront/internal/search"
	"github.com/ariefcatur/go-storefront/internal/sms"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type OrderService interface {
	List(ctx context.Context, f orders.Filter) ([]orders.Order, int, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (orders.Order, error)
	Status(ctx context.Context, id string) (orders.Status, error)
}

type AnalyticsService interface {
	Metrics(ctx context.Context, rg analytics.Range) (analytics.Metrics, error)
	Export(ctx context.Context, format string, rg analytics.Range) (analytics.Export, error)
}

type InvoiceService interface {
	PDF(ctx context.Context, orderID string) (invoices.Document, error)
	RequestEmail(ctx context.Context, orderID, email string) (string, error)
}

type ReviewService interface {
	List(ctx context.Context, f reviews.Filter) ([]reviews.Review, int, error)
	Get(ctx context.Context, id string) (reviews.Review, error)
	Moderate(ctx context.Context, id, status, note string) (reviews.Review, error)
}

type CheckoutService interface {
	Init(ctx context.Context, req checkout.InitRequest) (checkout.InitResult, error)
	Confirm(ctx context.Context, sessionID string) (orders.Order, error)
}

type RefundService interface {
	Request(ctx context.Context, req refunds.Request) (refunds.Refund, bool, error)
	Get(ctx context.Context, id string) (refunds.Refund, error)
}

type LoyaltyService interface {
	Catalog(ctx context.Context, userID string) (loyalty.Catalog, error)
	Redeem(ctx context.Context, userID, rewardID, idemKey string) (loyalty.Redemption, bool, error)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, email string, prefs *newsletter.Preferences) (newsletter.Subscription, bool, error)
	Unsubscribe(ctx context.Context, email string) (newsletter.Subscription, error)
	UpdatePreferences(ctx context.Context, email string, p newsletter.Preferences) (newsletter.Subscription, error)
	Status(ctx context.Context, email string) (newsletter.Subscription, error)
}

type SMSService interface {
	Send(ctx context.Context, req sms.SendRequest) (string, error)
	Subscribe(ctx context.Context, req sms.SubscribeRequest) error
}

type SearchService interface {
	Search(ctx context.Context, q string, limit int) ([]search.Hit, error)
	Autocomplete(ctx context.Context, q string, limit int) ([]string, error)
}

type MediaService interface {
	Manage(ctx context.Context, req media.Request) (media.Result, error)
}

// Deps carries everything the router serves. Nil services leave their
// routes unregistered.
type Deps struct {
	Orders     OrderService
	Analytics  AnalyticsService
	Invoices   InvoiceService
	Reviews    ReviewService
	Checkout   CheckoutService
	Refunds    RefundService
	Loyalty    LoyaltyService
	Newsletter NewsletterService
	SMS        SMSService
	Search     SearchService
	Media      MediaService

	AdminSecret string
	Log         *zap.Logger
}

func NewRouter(d Deps) *chi.Mux {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Error: "route not found", Code: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Error: "method not allowed", Code: "method_not_allowed"})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	registerRoutes(r, d)
	return r
}
