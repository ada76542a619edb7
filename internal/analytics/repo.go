package analytics

import (
	"context"

	"github.com/ariefcatur/go-storefront/internal/postgres"
)

type Repo struct{ DB postgres.DB }

func (r *Repo) StatusTotals(ctx context.Context, rg Range) ([]StatusTotal, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_cents), 0)
		FROM orders WHERE created_at >= $1 AND created_at < $2
		GROUP BY status`, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusTotal
	for rows.Next() {
		var st StatusTotal
		if err := rows.Scan(&st.Status, &st.Count, &st.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *Repo) TopProducts(ctx context.Context, rg Range, limit int) ([]ProductSales, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.name, SUM(oi.qty), SUM(oi.qty * oi.price_cents)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.created_at >= $1 AND o.created_at < $2
		  AND o.status NOT IN ('pending', 'cancelled', 'refunded')
		GROUP BY p.id, p.name
		ORDER BY 3 DESC, p.name
		LIMIT $3`, rg.From, rg.To, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var ps ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.Units, &ps.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (r *Repo) Orders(ctx context.Context, rg Range) ([]OrderRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, created_at, user_id, customer_email, status, total_cents
		FROM orders WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.UserID, &o.CustomerEmail, &o.Status, &o.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
