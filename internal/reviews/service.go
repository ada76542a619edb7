package reviews

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Store interface {
	Get(ctx context.Context, id string) (Review, error)
	List(ctx context.Context, f Filter) ([]Review, int, error)
	Moderate(ctx context.Context, id string, to Status, note string) (Review, error)
}

type Service struct {
	Store     Store
	sanitizer *bluemonday.Policy
}

func NewService(store Store) *Service {
	return &Service{Store: store, sanitizer: bluemonday.StrictPolicy()}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Review, int, error) {
	out, total, err := s.Store.List(ctx, f.Normalize())
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i] = s.clean(out[i])
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Review, error) {
	rv, err := s.Store.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}
	return s.clean(rv), nil
}

func (s *Service) Moderate(ctx context.Context, id, status, note string) (Review, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return Review{}, err
	}
	rv, err := s.Store.Moderate(ctx, id, to, strings.TrimSpace(s.sanitizer.Sanitize(note)))
	if err != nil {
		return Review{}, err
	}
	return s.clean(rv), nil
}

// clean strips markup from user-supplied text before it leaves the service.
func (s *Service) clean(rv Review) Review {
	rv.Comment = s.sanitizer.Sanitize(rv.Comment)
	return rv
}
