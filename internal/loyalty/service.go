package loyalty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store interface {
	ListRewards(ctx context.Context) ([]Reward, error)
	Balance(ctx context.Context, userID string) (int, error)
	Redeem(ctx context.Context, userID, rewardID string) (Redemption, error)
}

type Service struct {
	Store    Store
	Redis    *redis.Client // optional replay store for Idempotency-Key
	Events   events.Publisher
	Producer string
	Log      *zap.Logger
}

func (s *Service) Catalog(ctx context.Context, userID string) (Catalog, error) {
	rewards, err := s.Store.ListRewards(ctx)
	if err != nil {
		return Catalog{}, err
	}
	c := Catalog{Rewards: rewards}
	if userID = strings.TrimSpace(userID); userID != "" {
		b, err := s.Store.Balance(ctx, userID)
		if err != nil {
			return Catalog{}, err
		}
		c.Balance = &b
	}
	return c, nil
}

const idemPending = "pending"

// Redeem spends points on a reward. With a non-empty idemKey a replayed
// request returns the first redemption (replayed=true); a request that
// arrives while the first one is still running gets a conflict.
func (s *Service) Redeem(ctx context.Context, userID, rewardID, idemKey string) (rd Redemption, replayed bool, err error) {
	if userID == "" || rewardID == "" {
		return Redemption{}, false, apperr.Invalid("userId and rewardId are required")
	}

	key := ""
	if s.Redis != nil && idemKey != "" {
		key = fmt.Sprintf(redisx.KeyIdemRedeem, userID, idemKey)
		rd, replayed, err := s.reserve(ctx, key)
		if err != nil || replayed {
			return rd, replayed, err
		}
	}

	rd, err = s.Store.Redeem(ctx, userID, rewardID)
	if err != nil {
		if key != "" {
			// lepas reservasi supaya client bisa retry dengan key yang sama
			if derr := s.Redis.Del(context.WithoutCancel(ctx), key).Err(); derr != nil {
				s.Log.Warn("release redemption idempotency key", zap.String("user_id", userID), zap.Error(derr))
			}
		}
		return Redemption{}, false, err
	}

	if key != "" {
		b, _ := json.Marshal(rd)
		if err := s.Redis.Set(ctx, key, b, redisx.TTLIdempotency).Err(); err != nil {
			s.Log.Warn("store redemption idempotency key", zap.String("user_id", userID), zap.Error(err))
		}
	}
	s.publish(ctx, rd)
	return rd, false, nil
}

// reserve claims key with a pending marker. If the key is already held it
// returns the stored redemption, or a conflict while the holder is running.
func (s *Service) reserve(ctx context.Context, key string) (Redemption, bool, error) {
	ok, err := s.Redis.SetNX(ctx, key, idemPending, redisx.TTLIdempotency).Result()
	if err != nil {
		return Redemption{}, false, apperr.Unavailable("idempotency store unavailable", err)
	}
	if ok {
		return Redemption{}, false, nil
	}

	raw, err := s.Redis.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Redemption{}, false, apperr.Unavailable("idempotency store unavailable", err)
	}
	var rd Redemption
	if raw == idemPending || errors.Is(err, redis.Nil) || json.Unmarshal([]byte(raw), &rd) != nil {
		return Redemption{}, false, apperr.Conflict("a redemption with this Idempotency-Key is in progress")
	}
	return rd, true, nil
}

func (s *Service) publish(ctx context.Context, rd Redemption) {
	if s.Events == nil {
		return
	}
	env, err := events.New(events.EventRewardRedeemed, s.Producer, rd.UserID, "", events.RewardRedeemedPayload{
		RedemptionID: rd.ID,
		UserID:       rd.UserID,
		RewardID:     rd.RewardID,
		PointsSpent:  rd.PointsSpent,
	})
	if err == nil {
		err = s.Events.PublishEvent(ctx, events.TopicLoyalty, env)
	}
	if err != nil {
		s.Log.Error("publish redemption", zap.String("redemption_id", rd.ID), zap.Error(err))
	}
}
