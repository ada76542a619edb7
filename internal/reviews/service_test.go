package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	reviews   map[string]Review
	failWrite error
}

func (m *memStore) Get(_ context.Context, id string) (Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return Review{}, apperr.NotFound("review not found")
	}
	return rv, nil
}

func (m *memStore) List(_ context.Context, f Filter) ([]Review, int, error) {
	var out []Review
	for _, rv := range m.reviews {
		if f.Status == "" || rv.Status == f.Status {
			out = append(out, rv)
		}
	}
	return out, len(out), nil
}

func (m *memStore) Moderate(_ context.Context, id string, to Status, note string) (Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return Review{}, apperr.NotFound("review not found")
	}
	changed, err := Transition(rv.Status, to)
	if err != nil {
		return Review{}, err
	}
	if !changed {
		return rv, nil
	}
	if m.failWrite != nil {
		return Review{}, m.failWrite
	}
	rv.Status, rv.Note = to, note
	m.reviews[id] = rv
	return rv, nil
}

func TestModerateApproves(t *testing.T) {
	store := &memStore{reviews: map[string]Review{"r1": {ID: "r1", Status: StatusPending, Comment: "nice"}}}
	svc := NewService(store)

	rv, err := svc.Moderate(context.Background(), "r1", "Approved", "<b>ok</b>")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rv.Status)
	assert.Equal(t, "ok", rv.Note)
}

func TestModerateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(&memStore{reviews: map[string]Review{"r1": {ID: "r1", Status: StatusPending}}})

	_, err := svc.Moderate(context.Background(), "r1", "hidden", "")
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
}

func TestModerateBackToPendingIsInvalidTransition(t *testing.T) {
	svc := NewService(&memStore{reviews: map[string]Review{"r1": {ID: "r1", Status: StatusApproved}}})

	_, err := svc.Moderate(context.Background(), "r1", "pending", "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}

func TestModerateSurfacesWriteFailure(t *testing.T) {
	boom := errors.New("column \"status\" does not exist")
	store := &memStore{
		reviews:   map[string]Review{"r1": {ID: "r1", Status: StatusPending}},
		failWrite: boom,
	}
	svc := NewService(store)

	_, err := svc.Moderate(context.Background(), "r1", "approved", "")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusPending, store.reviews["r1"].Status)
}

func TestCommentsAreSanitized(t *testing.T) {
	store := &memStore{reviews: map[string]Review{
		"r1": {ID: "r1", Status: StatusPending, Comment: `great<script>alert(1)</script>`},
	}}
	svc := NewService(store)

	rv, err := svc.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "great", rv.Comment)

	list, total, err := svc.List(context.Background(), Filter{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "great", list[0].Comment)
}
