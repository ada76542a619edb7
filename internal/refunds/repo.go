package refunds

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ DB postgres.DB }

const refundColumns = `id, order_id, reason, amount_cents, status, provider_ref, created_at, updated_at`

func scanRefund(row pgx.Row) (Refund, error) {
	var rf Refund
	var status string
	err := row.Scan(&rf.ID, &rf.OrderID, &rf.Reason, &rf.AmountCents, &status, &rf.ProviderRef, &rf.CreatedAt, &rf.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Refund{}, apperr.NotFound("refund not found")
	}
	rf.Status = Status(status)
	return rf, err
}

func (r *Repo) Create(ctx context.Context, orderID, reason string, amount int) (Refund, error) {
	return scanRefund(r.DB.QueryRow(ctx, `
		INSERT INTO refunds(id, order_id, reason, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING `+refundColumns,
		uuid.NewString(), orderID, reason, amount, string(StatusPending)))
}

func (r *Repo) Get(ctx context.Context, id string) (Refund, error) {
	return scanRefund(r.DB.QueryRow(ctx, `SELECT `+refundColumns+` FROM refunds WHERE id=$1`, id))
}

func (r *Repo) LatestSucceeded(ctx context.Context, orderID string) (Refund, error) {
	return scanRefund(r.DB.QueryRow(ctx, `
		SELECT `+refundColumns+` FROM refunds
		WHERE order_id=$1 AND status=$2 ORDER BY created_at DESC LIMIT 1`, orderID, string(StatusSucceeded)))
}

func (r *Repo) SetResult(ctx context.Context, id string, status Status, providerRef string) (Refund, error) {
	return scanRefund(r.DB.QueryRow(ctx, `
		UPDATE refunds SET status=$2, provider_ref=$3, updated_at=now()
		WHERE id=$1 RETURNING `+refundColumns, id, string(status), providerRef))
}
