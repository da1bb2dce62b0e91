// Package prefill hands approved enquiry data to the booking that consumes it.
//
// Each approval is stored under its own key, prefill:<enquiry id>, and expires after
// APP_BOOKING_PREFILL_TTL_SECONDS when nobody books it.
package prefill

//go:generate go run go.uber.org/mock/mockgen -source=./prefill.go -destination=../mocks/prefill_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/internal/domains/enquiry/model/dto"
	"guestroom/shared"
	"guestroom/shared/cache"
)

const keyPrefix = "prefill"

var ErrNotFound = errors.New("prefill not found or expired")

type Store interface {
	Save(ctx context.Context, prefill dto.Prefill) error
	Get(ctx context.Context, enquiryID string) (dto.Prefill, error)
	Delete(ctx context.Context, enquiryID string) error
}

type redisStore struct {
	cache cache.RedisCache
	ttl   int
}

func New(cache cache.RedisCache, cfg *config.Config) Store {
	return &redisStore{
		cache: cache,
		ttl:   cfg.App.Booking.PrefillTTLSeconds,
	}
}

func Key(enquiryID string) string {
	return shared.BuildCacheKey(keyPrefix, enquiryID)
}

func (s *redisStore) Save(ctx context.Context, prefill dto.Prefill) error {
	if err := s.cache.Save(ctx, Key(prefill.EnquiryID), prefill, s.ttl); err != nil {
		return fmt.Errorf("failed to save prefill: %w", err)
	}

	return nil
}

func (s *redisStore) Get(ctx context.Context, enquiryID string) (prefill dto.Prefill, err error) {
	err = s.cache.Get(ctx, Key(enquiryID), &prefill)
	if errors.Is(err, cache.Nil) {
		return prefill, ErrNotFound
	}

	if err != nil {
		return prefill, fmt.Errorf("failed to get prefill: %w", err)
	}

	return prefill, nil
}

func (s *redisStore) Delete(ctx context.Context, enquiryID string) error {
	if err := s.cache.Delete(ctx, Key(enquiryID)); err != nil {
		return fmt.Errorf("failed to delete prefill: %w", err)
	}

	return nil
}
