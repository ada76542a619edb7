package newsletter

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// ErrDuplicate is returned by Create when the email already exists.
var ErrDuplicate = errors.New("subscription already exists")

type Repo struct{ DB postgres.DB }

const subColumns = `email, is_active, product_updates, promotions, weekly_digest, created_at, updated_at`

func scanSub(row pgx.Row) (Subscription, error) {
	var s Subscription
	err := row.Scan(&s.Email, &s.IsActive, &s.Preferences.ProductUpdates, &s.Preferences.Promotions,
		&s.Preferences.WeeklyDigest, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subscription{}, apperr.NotFound("subscription not found")
	}
	return s, err
}

func (r *Repo) Find(ctx context.Context, email string) (Subscription, error) {
	return scanSub(r.DB.QueryRow(ctx, `SELECT `+subColumns+` FROM newsletter_subscriptions WHERE email=$1`, email))
}

func (r *Repo) Create(ctx context.Context, email string, p Preferences) (Subscription, error) {
	s, err := scanSub(r.DB.QueryRow(ctx, `
		INSERT INTO newsletter_subscriptions(email, is_active, product_updates, promotions, weekly_digest)
		VALUES ($1, true, $2, $3, $4)
		RETURNING `+subColumns, email, p.ProductUpdates, p.Promotions, p.WeeklyDigest))
	if postgres.IsUniqueViolation(err) {
		return Subscription{}, ErrDuplicate
	}
	return s, err
}

func (r *Repo) SetActive(ctx context.Context, email string, active bool) (Subscription, error) {
	return scanSub(r.DB.QueryRow(ctx, `
		UPDATE newsletter_subscriptions SET is_active=$2, updated_at=now()
		WHERE email=$1 RETURNING `+subColumns, email, active))
}

func (r *Repo) UpdatePreferences(ctx context.Context, email string, p Preferences) (Subscription, error) {
	return scanSub(r.DB.QueryRow(ctx, `
		UPDATE newsletter_subscriptions
		SET product_updates=$2, promotions=$3, weekly_digest=$4, updated_at=now()
		WHERE email=$1 RETURNING `+subColumns, email, p.ProductUpdates, p.Promotions, p.WeeklyDigest))
}
