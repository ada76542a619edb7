package refunds

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refundCols = []string{"id", "order_id", "reason", "amount_cents", "status", "provider_ref", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &Repo{DB: mock}, mock
}

func TestRepoCreatePending(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO refunds(id, order_id, reason, amount_cents, status)")).
		WithArgs(pgxmock.AnyArg(), "o1", "damaged", 5000, "pending").
		WillReturnRows(pgxmock.NewRows(refundCols).AddRow("rf1", "o1", "damaged", 5000, "pending", "", now, now))

	rf, err := repo.Create(context.Background(), "o1", "damaged", 5000)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rf.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoLatestSucceededNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE order_id=$1 AND status=$2")).
		WithArgs("o1", "succeeded").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.LatestSucceeded(context.Background(), "o1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoSetResult(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE refunds SET status=$2, provider_ref=$3")).
		WithArgs("rf1", "succeeded", "re_1").
		WillReturnRows(pgxmock.NewRows(refundCols).AddRow("rf1", "o1", "", 5000, "succeeded", "re_1", now, now))

	rf, err := repo.SetResult(context.Background(), "rf1", StatusSucceeded, "re_1")
	require.NoError(t, err)
	assert.Equal(t, "re_1", rf.ProviderRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}
