package search

import (
	"context"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/postgres"
)

type Repo struct{ DB postgres.DB }

func (r *Repo) FullText(ctx context.Context, q string, limit int) ([]Hit, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, sku, name, description, price_cents,
		       ts_rank(to_tsvector('english', name || ' ' || description), plainto_tsquery('english', $1)) AS rank
		FROM products
		WHERE to_tsvector('english', name || ' ' || description) @@ plainto_tsquery('english', $1)
		ORDER BY rank DESC, name
		LIMIT $2`, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Hit{}
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.SKU, &h.Name, &h.Description, &h.PriceCents, &h.Rank); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Prefix returns product names starting with, or containing a word
// starting with, prefix.
func (r *Repo) Prefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	p := escapeLike(prefix)
	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT name FROM products
		WHERE name ILIKE $1 || '%' OR name ILIKE '% ' || $1 || '%'
		LIMIT $2`, p, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
