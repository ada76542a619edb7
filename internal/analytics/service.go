package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/shopspring/decimal"
)

type Store interface {
	StatusTotals(ctx context.Context, rg Range) ([]StatusTotal, error)
	TopProducts(ctx context.Context, rg Range, limit int) ([]ProductSales, error)
	Orders(ctx context.Context, rg Range) ([]OrderRow, error)
}

type Service struct{ Store Store }

// excluded from revenue
var nonRevenue = map[string]bool{"pending": true, "cancelled": true, "refunded": true}

func (s *Service) Metrics(ctx context.Context, rg Range) (Metrics, error) {
	totals, err := s.Store.StatusTotals(ctx, rg)
	if err != nil {
		return Metrics{}, err
	}
	top, err := s.Store.TopProducts(ctx, rg, topProductsN)
	if err != nil {
		return Metrics{}, err
	}
	m := Summarize(totals)
	m.Range = rg
	m.TopProducts = top
	if m.TopProducts == nil {
		m.TopProducts = []ProductSales{}
	}
	return m, nil
}

// Summarize folds per-status totals into the headline numbers. Average
// order value is over revenue-bearing orders only.
func Summarize(totals []StatusTotal) Metrics {
	m := Metrics{OrdersByStatus: map[string]int{}}
	paid := 0
	for _, st := range totals {
		m.OrderCount += st.Count
		m.OrdersByStatus[st.Status] = st.Count
		if !nonRevenue[st.Status] {
			m.RevenueCents += st.TotalCents
			paid += st.Count
		}
	}
	revenue := decimal.New(m.RevenueCents, -2)
	m.Revenue = revenue.StringFixed(2)
	m.AverageOrderValue = decimal.Zero.StringFixed(2)
	if paid > 0 {
		m.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(paid))).StringFixed(2)
	}
	return m
}

type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

func (s *Service) Export(ctx context.Context, format string, rg Range) (Export, error) {
	rows, err := s.Store.Orders(ctx, rg)
	if err != nil {
		return Export{}, err
	}
	name := fmt.Sprintf("orders_%s_%s", rg.From.Format(dateLayout), rg.To.Add(-time.Nanosecond).Format(dateLayout))
	switch format {
	case "", "csv":
		b, err := writeCSV(rows)
		return Export{Filename: name + ".csv", ContentType: "text/csv", Body: b}, err
	case "xlsx", "excel":
		b, err := writeXLSX(rows)
		return Export{
			Filename:    name + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        b,
		}, err
	default:
		return Export{}, apperr.Invalid("unsupported export format").WithField("format", "csv|xlsx")
	}
}
