package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	MinAutocompleteLen = 2
	defaultLimit       = 20
	maxLimit           = 50
	candidatePool      = 50
)

type Hit struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  int     `json:"priceCents"`
	Rank        float32 `json:"rank"`
}

type Store interface {
	FullText(ctx context.Context, q string, limit int) ([]Hit, error)
	Prefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

type Service struct {
	Store Store
	Redis *redis.Client // optional autocomplete cache
	Log   *zap.Logger
}

func clampLimit(n int) int {
	if n < 1 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

func (s *Service) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.Invalid("query is required").WithField("q", "required")
	}
	return s.Store.FullText(ctx, q, clampLimit(limit))
}

// Autocomplete suggests product names for q. Queries shorter than
// MinAutocompleteLen return an empty list without touching the backend.
func (s *Service) Autocomplete(ctx context.Context, q string, limit int) ([]string, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if utf8.RuneCountInString(q) < MinAutocompleteLen {
		return []string{}, nil
	}
	limit = clampLimit(limit)

	key := fmt.Sprintf(redisx.KeyAutocomplete, q, limit)
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached []string
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	names, err := s.Store.Prefix(ctx, q, candidatePool)
	if err != nil {
		return nil, err
	}
	out := Rank(q, names, limit)

	if s.Redis != nil {
		b, _ := json.Marshal(out)
		if err := s.Redis.Set(ctx, key, b, redisx.TTLAutocomplete).Err(); err != nil {
			s.Log.Warn("cache autocomplete", zap.String("q", q), zap.Error(err))
		}
	}
	return out, nil
}

// Rank orders candidates by edit distance between q and the candidate's
// leading characters, so closer prefixes come first; ties sort by name.
func Rank(q string, names []string, limit int) []string {
	type scored struct {
		name string
		dist int
	}
	qn := utf8.RuneCountInString(q)
	list := make([]scored, 0, len(names))
	for _, n := range names {
		lower := strings.ToLower(n)
		head := lower
		if r := []rune(lower); len(r) > qn {
			head = string(r[:qn])
		}
		d := levenshtein.ComputeDistance(q, head)*100 + levenshtein.ComputeDistance(q, lower)
		list = append(list, scored{name: n, dist: d})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].dist != list[j].dist {
			return list[i].dist < list[j].dist
		}
		return list[i].name < list[j].name
	})

	out := make([]string, 0, limit)
	for _, s := range list {
		if len(out) == limit {
			break
		}
		out = append(out, s.name)
	}
	return out
}
