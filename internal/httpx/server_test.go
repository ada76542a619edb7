package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/loyalty"
	"github.com/ariefcatur/go-storefront/internal/newsletter"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/refunds"
	"github.com/ariefcatur/go-storefront/internal/reviews"
	"github.com/ariefcatur/go-storefront/internal/search"
	"github.com/ariefcatur/go-storefront/internal/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fakeOrders struct {
	updates int
}

func (f *fakeOrders) List(_ context.Context, fl orders.Filter) ([]orders.Order, int, error) {
	return []orders.Order{{ID: "o1", Status: orders.StatusPending}}, 1, nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (orders.Order, error) {
	if id != "o1" {
		return orders.Order{}, apperr.NotFound("order not found")
	}
	return orders.Order{ID: id, Status: orders.StatusPending}, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, status string) (orders.Order, error) {
	f.updates++
	st, err := orders.ParseStatus(status)
	if err != nil {
		return orders.Order{}, err
	}
	if _, err := orders.Transition(orders.StatusDelivered, st); err != nil {
		return orders.Order{}, err
	}
	return orders.Order{ID: id, Status: st}, nil
}

func (f *fakeOrders) Status(_ context.Context, id string) (orders.Status, error) {
	return orders.StatusShipped, nil
}

type fakeReviews struct{ err error }

func (f *fakeReviews) List(context.Context, reviews.Filter) ([]reviews.Review, int, error) {
	return nil, 0, nil
}

func (f *fakeReviews) Get(_ context.Context, id string) (reviews.Review, error) {
	return reviews.Review{ID: id}, nil
}

func (f *fakeReviews) Moderate(_ context.Context, id, status, _ string) (reviews.Review, error) {
	if f.err != nil {
		return reviews.Review{}, f.err
	}
	return reviews.Review{ID: id, Status: reviews.Status(status)}, nil
}

type fakeRefunds struct{ calls int }

func (f *fakeRefunds) Request(_ context.Context, req refunds.Request) (refunds.Refund, bool, error) {
	f.calls++
	return refunds.Refund{ID: "r1", OrderID: req.OrderID, Status: refunds.StatusSucceeded}, false, nil
}

func (f *fakeRefunds) Get(_ context.Context, id string) (refunds.Refund, error) {
	return refunds.Refund{ID: id}, nil
}

type fakeNewsletter struct {
	active map[string]bool
}

func (f *fakeNewsletter) Subscribe(_ context.Context, email string, _ *newsletter.Preferences) (newsletter.Subscription, bool, error) {
	active, known := f.active[email]
	if known && active {
		return newsletter.Subscription{}, false, apperr.Conflict("email is already subscribed")
	}
	f.active[email] = true
	return newsletter.Subscription{Email: email, IsActive: true}, known, nil
}

func (f *fakeNewsletter) Unsubscribe(_ context.Context, email string) (newsletter.Subscription, error) {
	f.active[email] = false
	return newsletter.Subscription{Email: email}, nil
}

func (f *fakeNewsletter) UpdatePreferences(_ context.Context, email string, p newsletter.Preferences) (newsletter.Subscription, error) {
	return newsletter.Subscription{Email: email, Preferences: p}, nil
}

func (f *fakeNewsletter) Status(_ context.Context, email string) (newsletter.Subscription, error) {
	return newsletter.Subscription{Email: email, IsActive: f.active[email]}, nil
}

type fakeSMS struct{ calls int }

func (f *fakeSMS) Send(context.Context, sms.SendRequest) (string, error) {
	f.calls++
	return "SM1", nil
}

func (f *fakeSMS) Subscribe(context.Context, sms.SubscribeRequest) error {
	f.calls++
	return nil
}

type fakeLoyalty struct{}

func (fakeLoyalty) Catalog(context.Context, string) (loyalty.Catalog, error) {
	return loyalty.Catalog{Rewards: []loyalty.Reward{}}, nil
}

func (fakeLoyalty) Redeem(_ context.Context, _, rewardID, key string) (loyalty.Redemption, bool, error) {
	if rewardID == "big" {
		return loyalty.Redemption{}, false, apperr.Conflict("insufficient points")
	}
	return loyalty.Redemption{ID: "rd1", RewardID: rewardID}, key == "seen", nil
}

type countingStore struct{ calls int }

func (c *countingStore) FullText(context.Context, string, int) ([]search.Hit, error) {
	c.calls++
	return []search.Hit{}, nil
}

func (c *countingStore) Prefix(context.Context, string, int) ([]string, error) {
	c.calls++
	return []string{"Mug"}, nil
}

type fixture struct {
	router     http.Handler
	orders     *fakeOrders
	reviews    *fakeReviews
	refunds    *fakeRefunds
	newsletter *fakeNewsletter
	sms        *fakeSMS
	search     *countingStore
}

func newFixture() *fixture {
	f := &fixture{
		orders:     &fakeOrders{},
		reviews:    &fakeReviews{},
		refunds:    &fakeRefunds{},
		newsletter: &fakeNewsletter{active: map[string]bool{}},
		sms:        &fakeSMS{},
		search:     &countingStore{},
	}
	f.router = NewRouter(Deps{
		Orders:      f.orders,
		Reviews:     f.reviews,
		Refunds:     f.refunds,
		Newsletter:  f.newsletter,
		SMS:         f.sms,
		Loyalty:     fakeLoyalty{},
		Search:      &search.Service{Store: f.search, Log: zap.NewNop()},
		AdminSecret: testSecret,
		Log:         zap.NewNop(),
	})
	return f
}

type response struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func (f *fixture) do(t *testing.T, method, path, body string, header ...string) (int, response) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var out response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func adminHeader(t *testing.T) []string {
	t.Helper()
	tok, err := SignAdminToken(testSecret, "ops@example.com", time.Hour)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + tok}
}

func TestHealthz(t *testing.T) {
	f := newFixture()
	code, _ := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, body.Success)

	code, body = f.do(t, http.MethodDelete, "/api/newsletter", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "method not allowed", body.Error)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newFixture()

	for _, hdr := range [][]string{
		nil,
		{"Authorization", "Bearer garbage"},
		{"Authorization", "Basic dXNlcjpwYXNz"},
	} {
		code, body := f.do(t, http.MethodGet, "/api/admin/orders", "", hdr...)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "unauthorized", body.Error)
	}

	wrongKey, err := SignAdminToken("other-secret", "x", time.Hour)
	require.NoError(t, err)
	code, _ := f.do(t, http.MethodGet, "/api/admin/orders", "", "Authorization", "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, code)

	expired, err := SignAdminToken(testSecret, "x", -time.Minute)
	require.NoError(t, err)
	code, _ = f.do(t, http.MethodGet, "/api/admin/orders", "", "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := f.do(t, http.MethodGet, "/api/admin/orders?limit=500", "", adminHeader(t)...)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Success)
	var p struct {
		Total int `json:"total"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &p))
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, orders.MaxLimit, p.Limit)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture()
	admin := adminHeader(t)

	code, body := f.do(t, http.MethodPatch, "/api/admin/orders", `{"status":"shipped"}`, admin...)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "required", body.Details["orderId"])
	assert.Zero(t, f.orders.updates)

	code, body = f.do(t, http.MethodPatch, "/api/admin/orders", `{"orderId":"o1","status":"lost"}`, admin...)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unsupported order status", body.Error)

	code, body = f.do(t, http.MethodPatch, "/api/admin/orders", `{"orderId":"o1","status":"pending"}`, admin...)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "invalid_transition", body.Code)

	code, body = f.do(t, http.MethodPatch, "/api/admin/orders", `{"orderId":"o1","status":"refunded"}`, admin...)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Success)
}

func TestOrderDetailNotFound(t *testing.T) {
	f := newFixture()
	code, body := f.do(t, http.MethodGet, "/api/admin/orders/missing", "", adminHeader(t)...)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "order not found", body.Error)
}

func TestCustomerOrderStatus(t *testing.T) {
	f := newFixture()
	code, body := f.do(t, http.MethodGet, "/api/orders/o1/status", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"orderId":"o1","status":"shipped"}`, string(body.Data))
}

func TestReviewModerationWriteFailure(t *testing.T) {
	f := newFixture()
	f.reviews.err = errors.New("update reviews: connection reset")

	code, body := f.do(t, http.MethodPut, "/api/admin/reviews/rv1", `{"status":"approved"}`, adminHeader(t)...)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, body.Success)
	assert.Equal(t, "internal server error", body.Error)
}

func TestReviewModeration(t *testing.T) {
	f := newFixture()
	code, body := f.do(t, http.MethodPut, "/api/admin/reviews/rv1", `{"status":"approved"}`, adminHeader(t)...)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "review approved", body.Message)
}

func TestRefundRequiresOrderID(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, http.MethodPost, "/api/checkout/refunds", `{"reason":"damaged"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "required", body.Details["orderId"])
	assert.Zero(t, f.refunds.calls)

	code, _ = f.do(t, http.MethodPost, "/api/checkout/refunds", `{"orderId":"o1"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, f.refunds.calls)
}

func TestSMSSendRequiresAllFields(t *testing.T) {
	f := newFixture()

	for _, body := range []string{
		`{"phoneNumber":"+15551234567","message":"hi"}`,
		`{"userId":"u1","message":"hi"}`,
		`{"userId":"u1","phoneNumber":"+15551234567"}`,
		`{}`,
		``,
	} {
		code, _ := f.do(t, http.MethodPost, "/api/notifications/sms/send", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
	}
	assert.Zero(t, f.sms.calls)

	code, body := f.do(t, http.MethodPost, "/api/notifications/sms/send", `{"userId":"u1","phoneNumber":"+15551234567","message":"hi"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"sid":"SM1"}`, string(body.Data))
}

func TestNewsletterSubscribeLifecycle(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, http.MethodPost, "/api/newsletter", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "subscribed", body.Message)

	code, body = f.do(t, http.MethodPost, "/api/newsletter", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", body.Code)

	code, _ = f.do(t, http.MethodPost, "/api/newsletter/unsubscribe", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusOK, code)

	code, body = f.do(t, http.MethodPost, "/api/newsletter", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "subscription reactivated", body.Message)

	code, body = f.do(t, http.MethodPost, "/api/newsletter", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email", body.Details["email"])

	code, _ = f.do(t, http.MethodGet, "/api/newsletter/status", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLoyaltyRedeem(t *testing.T) {
	f := newFixture()

	code, _ := f.do(t, http.MethodPost, "/api/loyalty/rewards/redeem", `{"userId":"u1","rewardId":"big"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = f.do(t, http.MethodPost, "/api/loyalty/rewards/redeem", `{"userId":"u1","rewardId":"mug"}`)
	assert.Equal(t, http.StatusCreated, code)

	code, _ = f.do(t, http.MethodPost, "/api/loyalty/rewards/redeem", `{"userId":"u1","rewardId":"mug"}`, "Idempotency-Key", "seen")
	assert.Equal(t, http.StatusOK, code)
}

func TestAutocompleteShortQuery(t *testing.T) {
	f := newFixture()

	code, body := f.do(t, http.MethodGet, "/api/search/autocomplete?q=m", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body.Data))
	assert.Zero(t, f.search.calls)

	code, body = f.do(t, http.MethodGet, "/api/search/autocomplete?q=mu", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `["Mug"]`, string(body.Data))
	assert.Equal(t, 1, f.search.calls)
}

func TestSearchRequiresQuery(t *testing.T) {
	f := newFixture()
	code, _ := f.do(t, http.MethodGet, "/api/search?q=", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Zero(t, f.search.calls)
}
