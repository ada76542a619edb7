package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ DB postgres.DB }

const reviewColumns = `id, product_id, user_id, rating, comment, status, note, created_at, updated_at`

func scanReview(row pgx.Row) (Review, error) {
	var rv Review
	var status string
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &status, &rv.Note, &rv.CreatedAt, &rv.UpdatedAt)
	rv.Status = Status(status)
	return rv, err
}

func (r *Repo) Get(ctx context.Context, id string) (Review, error) {
	rv, err := scanReview(r.DB.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, apperr.NotFound("review not found")
	}
	return rv, err
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Review, int, error) {
	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.DB.Query(ctx, fmt.Sprintf(`SELECT %s FROM reviews%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		reviewColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

// Moderate applies from -> to under a row lock. Zero affected rows is an
// error, never a silent success.
func (r *Repo) Moderate(ctx context.Context, id string, to Status, note string) (Review, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Review{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM reviews WHERE id=$1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, apperr.NotFound("review not found")
	}
	if err != nil {
		return Review{}, err
	}

	changed, err := Transition(Status(current), to)
	if err != nil {
		return Review{}, err
	}

	var rv Review
	if changed {
		rv, err = scanReview(tx.QueryRow(ctx, `
			UPDATE reviews SET status=$2, note=$3, updated_at=now()
			WHERE id=$1 RETURNING `+reviewColumns, id, string(to), note))
	} else if note != "" {
		// status sama, catatan moderator tetap disimpan
		rv, err = scanReview(tx.QueryRow(ctx, `
			UPDATE reviews SET note=$2, updated_at=now()
			WHERE id=$1 RETURNING `+reviewColumns, id, note))
	} else {
		rv, err = scanReview(tx.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id))
	}
	if err != nil {
		return Review{}, fmt.Errorf("update review %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Review{}, err
	}
	return rv, nil
}
