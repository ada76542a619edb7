package reviews

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewCols = []string{"id", "product_id", "user_id", "rating", "comment", "status", "note", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &Repo{DB: mock}, mock
}

func TestRepoListEmptyIsArray(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews WHERE status = $1")).WithArgs("pending").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE status = $1 ORDER BY created_at DESC")).
		WithArgs("pending", 20, 0).
		WillReturnRows(pgxmock.NewRows(reviewCols))

	out, total, err := repo.List(context.Background(), Filter{Status: StatusPending, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoModerateSameStatusKeepsNote(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM reviews WHERE id=$1 FOR UPDATE")).WithArgs("r1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("approved"))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE reviews SET note=$2")).WithArgs("r1", "checked twice").
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow("r1", "p1", "u1", 5, "great", "approved", "checked twice", now, now))
	mock.ExpectCommit()

	rv, err := repo.Moderate(context.Background(), "r1", StatusApproved, "checked twice")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rv.Status)
	assert.Equal(t, "checked twice", rv.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoModerateSameStatusWithoutNoteIsReadOnly(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM reviews WHERE id=$1 FOR UPDATE")).WithArgs("r1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("approved"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE id=$1")).WithArgs("r1").
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow("r1", "p1", "u1", 5, "great", "approved", "old", now, now))
	mock.ExpectCommit()

	rv, err := repo.Moderate(context.Background(), "r1", StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, "old", rv.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}
