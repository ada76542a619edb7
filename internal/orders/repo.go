package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ DB postgres.DB }

const orderColumns = `id, external_id, user_id, customer_email, status, total_cents, payment_ref, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.ExternalID, &o.UserID, &o.CustomerEmail, &status, &o.TotalCents, &o.PaymentRef, &o.CreatedAt, &o.UpdatedAt)
	o.Status = Status(status)
	return o, err
}

// CreateOrderTx: idempotent via external_id. An existing order is returned
// with existed=true. Prices come from the products table and stock is
// decremented under row locks; any shortage rolls the whole order back.
func (r *Repo) CreateOrderTx(ctx context.Context, in NewOrder) (o Order, existed bool, err error) {
	o, existed, err = r.byExternalID(ctx, in.ExternalID)
	if existed || (err != nil && !errors.Is(err, pgx.ErrNoRows)) {
		return o, existed, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	type priced struct {
		name  string
		price int
		stock int
	}
	rows, err := tx.Query(ctx, `SELECT id, name, price_cents, stock FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return Order{}, false, err
	}
	products := map[string]priced{}
	for rows.Next() {
		var id string
		var p priced
		if err := rows.Scan(&id, &p.name, &p.price, &p.stock); err != nil {
			rows.Close()
			return Order{}, false, err
		}
		products[id] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}

	total := 0
	var short []string
	for _, it := range in.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return Order{}, false, apperr.NotFound("product not found").WithField("productId", it.ProductID)
		}
		if it.Qty <= 0 {
			return Order{}, false, apperr.Invalid("invalid quantity").WithField("productId", it.ProductID)
		}
		if p.stock < it.Qty {
			short = append(short, it.ProductID)
			continue
		}
		p.stock -= it.Qty
		products[it.ProductID] = p
		total += p.price * it.Qty
	}
	if len(short) > 0 {
		return Order{}, false, apperr.Conflict("insufficient stock for " + strings.Join(short, ", "))
	}

	o, err = scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders(id, external_id, user_id, customer_email, status, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+orderColumns,
		uuid.NewString(), in.ExternalID, in.UserID, in.CustomerEmail, string(StatusPending), total))
	if errors.Is(err, pgx.ErrNoRows) {
		// checkout paralel dengan external_id sama sudah commit duluan
		_ = tx.Rollback(ctx)
		return r.byExternalID(ctx, in.ExternalID)
	}
	if err != nil {
		return Order{}, false, err
	}

	for _, it := range in.Items {
		p := products[it.ProductID]
		if _, err = tx.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1`, it.ProductID, it.Qty); err != nil {
			return Order{}, false, err
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, qty, price_cents)
			VALUES ($1, $2, $3, $4)`, o.ID, it.ProductID, it.Qty, p.price); err != nil {
			return Order{}, false, err
		}
		o.Items = append(o.Items, OrderItem{ProductID: it.ProductID, ProductName: p.name, Qty: it.Qty, PriceCents: p.price})
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, false, err
	}
	return o, false, nil
}

func (r *Repo) byExternalID(ctx context.Context, externalID string) (Order, bool, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE external_id=$1`, externalID))
	if err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFound("order not found")
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.items(ctx, id)
	return o, err
}

func (r *Repo) items(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.product_id, p.name, oi.qty, oi.price_cents
		FROM order_items oi JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Qty, &it.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Order, int, error) {
	f = f.Normalize()

	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset())
	rows, err := r.DB.Query(ctx, fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Order, 0, f.Limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// ApplyTransition locks the order row, validates from -> to and writes the
// new status. Moving to cancelled puts the reserved stock back.
// paymentRef is stored when non-empty.
func (r *Repo) ApplyTransition(ctx context.Context, id string, to Status, paymentRef string) (from Status, o Order, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err = scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return "", Order{}, apperr.NotFound("order not found")
	}
	if err != nil {
		return "", Order{}, err
	}
	from = o.Status

	changed, err := Transition(from, to)
	if err != nil {
		return from, o, err
	}
	if !changed {
		return from, o, nil
	}

	if paymentRef == "" {
		paymentRef = o.PaymentRef
	}
	o, err = scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, payment_ref=$3, updated_at=now()
		WHERE id=$1 RETURNING `+orderColumns, id, string(to), paymentRef))
	if err != nil {
		return from, Order{}, err
	}

	if to == StatusCancelled {
		if _, err := tx.Exec(ctx, `
			UPDATE products p SET stock = p.stock + oi.qty, updated_at = now()
			FROM order_items oi WHERE oi.order_id = $1 AND oi.product_id = p.id`, id); err != nil {
			return from, Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return from, Order{}, err
	}
	return from, o, nil
}

func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("order not found")
	}
	if err != nil {
		return "", err
	}
	return Status(s), nil
}
