package loyalty

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ DB postgres.DB }

func (r *Repo) ListRewards(ctx context.Context) ([]Reward, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, points_cost FROM rewards WHERE active ORDER BY points_cost, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Reward{}
	for rows.Next() {
		var rw Reward
		if err := rows.Scan(&rw.ID, &rw.Name, &rw.Description, &rw.PointsCost); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

func (r *Repo) Balance(ctx context.Context, userID string) (int, error) {
	var b int
	err := r.DB.QueryRow(ctx, `SELECT points_balance FROM loyalty_accounts WHERE user_id=$1`, userID).Scan(&b)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return b, err
}

// Redeem deducts the reward cost and records the redemption in one
// transaction; the account row is locked so concurrent redemptions cannot
// overdraw it.
func (r *Repo) Redeem(ctx context.Context, userID, rewardID string) (Redemption, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Redemption{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cost int
	err = tx.QueryRow(ctx, `SELECT points_cost FROM rewards WHERE id=$1 AND active FOR SHARE`, rewardID).Scan(&cost)
	if errors.Is(err, pgx.ErrNoRows) {
		return Redemption{}, apperr.NotFound("reward not found")
	}
	if err != nil {
		return Redemption{}, err
	}

	var balance int
	err = tx.QueryRow(ctx, `SELECT points_balance FROM loyalty_accounts WHERE user_id=$1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		balance = 0
	} else if err != nil {
		return Redemption{}, err
	}
	if balance < cost {
		return Redemption{}, apperr.Conflict("insufficient points")
	}

	if _, err := tx.Exec(ctx, `UPDATE loyalty_accounts SET points_balance = points_balance - $2, updated_at=now() WHERE user_id=$1`, userID, cost); err != nil {
		return Redemption{}, err
	}

	rd := Redemption{ID: uuid.NewString(), UserID: userID, RewardID: rewardID, PointsSpent: cost, RemainingPoints: balance - cost}
	if err := tx.QueryRow(ctx, `
		INSERT INTO reward_redemptions(id, user_id, reward_id, points_spent)
		VALUES ($1, $2, $3, $4) RETURNING created_at`, rd.ID, userID, rewardID, cost).Scan(&rd.CreatedAt); err != nil {
		return Redemption{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Redemption{}, err
	}
	return rd, nil
}
