package search

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	names       []string
	prefixCalls int
	ftCalls     int
	lastLimit   int
}

func (f *fakeStore) FullText(_ context.Context, q string, limit int) ([]Hit, error) {
	f.ftCalls++
	f.lastLimit = limit
	return []Hit{{ID: "p1", Name: q}}, nil
}

func (f *fakeStore) Prefix(context.Context, string, int) ([]string, error) {
	f.prefixCalls++
	return f.names, nil
}

func TestAutocompleteShortQuerySkipsBackend(t *testing.T) {
	store := &fakeStore{names: []string{"Mug"}}
	svc := &Service{Store: store, Log: zap.NewNop()}

	for _, q := range []string{"", " ", "m", " é "} {
		out, err := svc.Autocomplete(context.Background(), q, 10)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	}
	assert.Zero(t, store.prefixCalls)
}

func TestAutocompleteRanksAndCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	store := &fakeStore{names: []string{"Tea Mug", "Mugwort Tea", "Mug"}}
	svc := &Service{Store: store, Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}), Log: zap.NewNop()}
	ctx := context.Background()

	out, err := svc.Autocomplete(ctx, "Mug", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mug", "Mugwort Tea"}, out)

	again, err := svc.Autocomplete(ctx, "mug ", 2)
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Equal(t, 1, store.prefixCalls)
}

func TestRank(t *testing.T) {
	got := Rank("ca", []string{"Cable", "Arcade", "Cap", "Cat"}, 10)
	assert.Equal(t, []string{"Cap", "Cat", "Cable", "Arcade"}, got)
}

func TestSearch(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store}

	_, err := svc.Search(context.Background(), "  ", 10)
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
	assert.Zero(t, store.ftCalls)

	hits, err := svc.Search(context.Background(), "mug", 500)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, maxLimit, store.lastLimit)
}
