package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	"guestroom/internal/domains/booking/availability"
	"guestroom/internal/domains/dashboard/model/dto"
	"guestroom/internal/domains/dashboard/repository"
	"guestroom/shared"
	"guestroom/shared/cache"
	"guestroom/shared/constant"
	"guestroom/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

type Dashboard interface {
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo  repository.Dashboard
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Dashboard, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Dashboard {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Stats reports today's counters. Results are cached per day for a short TTL and dropped
// by every booking, enquiry, hostel or user mutation.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := availability.Day(timezone.Now())
	date := today.Format(time.DateOnly)
	cacheKey := shared.BuildCacheKey(constant.CacheKeyDashboard, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard stats")

		return res, nil
	}

	stats, err := s.repo.Stats(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to get dashboard stats")

		return res, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	occupancy, err := s.repo.Occupancy(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostel occupancy")

		return res, fmt.Errorf("failed to get hostel occupancy: %w", err)
	}

	res.FromModel(date, stats, occupancy)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.App.Dashboard.CacheTTLSeconds); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard stats to cache")
		}
	}()

	return res, nil
}
