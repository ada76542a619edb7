package loyalty

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &Repo{DB: mock}, mock
}

func TestRepoRedeemDeductsInOneTx(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT points_cost FROM rewards WHERE id=$1 AND active FOR SHARE")).
		WithArgs("mug").WillReturnRows(pgxmock.NewRows([]string{"points_cost"}).AddRow(300))
	mock.ExpectQuery(regexp.QuoteMeta("FROM loyalty_accounts WHERE user_id=$1 FOR UPDATE")).
		WithArgs("u1").WillReturnRows(pgxmock.NewRows([]string{"points_balance"}).AddRow(500))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE loyalty_accounts SET points_balance = points_balance - $2")).
		WithArgs("u1", 300).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reward_redemptions")).
		WithArgs(pgxmock.AnyArg(), "u1", "mug", 300).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	rd, err := repo.Redeem(context.Background(), "u1", "mug")
	require.NoError(t, err)
	assert.Equal(t, 200, rd.RemainingPoints)
	assert.Equal(t, 300, rd.PointsSpent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoRedeemInsufficientRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM rewards WHERE id=$1")).
		WithArgs("mug").WillReturnRows(pgxmock.NewRows([]string{"points_cost"}).AddRow(300))
	mock.ExpectQuery(regexp.QuoteMeta("FROM loyalty_accounts WHERE user_id=$1 FOR UPDATE")).
		WithArgs("u1").WillReturnRows(pgxmock.NewRows([]string{"points_balance"}).AddRow(100))
	mock.ExpectRollback()

	_, err := repo.Redeem(context.Background(), "u1", "mug")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
