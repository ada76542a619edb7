package analytics

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

const (
	dateLayout   = "2006-01-02"
	defaultSpan  = 30 * 24 * time.Hour
	maxSpan      = 366 * 24 * time.Hour
	topProductsN = 5
)

// ParseRange reads YYYY-MM-DD bounds; To is inclusive of its whole day.
// Empty values default to the last 30 days ending now.
func ParseRange(from, to string, now time.Time) (Range, error) {
	r := Range{To: now.UTC()}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return Range{}, apperr.Invalid("invalid date").WithField("to", "YYYY-MM-DD")
		}
		r.To = t.Add(24 * time.Hour)
	}
	r.From = r.To.Add(-defaultSpan)
	if from != "" {
		f, err := time.Parse(dateLayout, from)
		if err != nil {
			return Range{}, apperr.Invalid("invalid date").WithField("from", "YYYY-MM-DD")
		}
		r.From = f
	}
	if !r.From.Before(r.To) {
		return Range{}, apperr.Invalid("from must be before to").WithField("from", "range")
	}
	if r.To.Sub(r.From) > maxSpan {
		return Range{}, apperr.Invalid("range may not exceed one year").WithField("from", "range")
	}
	return r, nil
}

type StatusTotal struct {
	Status     string
	Count      int
	TotalCents int64
}

type ProductSales struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	Units        int    `json:"units"`
	RevenueCents int64  `json:"revenueCents"`
}

type Metrics struct {
	Range             Range          `json:"range"`
	OrderCount        int            `json:"orderCount"`
	RevenueCents      int64          `json:"revenueCents"`
	Revenue           string         `json:"revenue"`
	AverageOrderValue string         `json:"averageOrderValue"`
	OrdersByStatus    map[string]int `json:"ordersByStatus"`
	TopProducts       []ProductSales `json:"topProducts"`
}

type OrderRow struct {
	ID            string
	CreatedAt     time.Time
	UserID        string
	CustomerEmail string
	Status        string
	TotalCents    int64
}
