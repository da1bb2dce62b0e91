package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guestroom/config"
	"guestroom/infras/otel/mocks"
	dashboardMocks "guestroom/internal/domains/dashboard/mocks"
	"guestroom/internal/domains/dashboard/model"
	"guestroom/internal/domains/dashboard/service"
	"guestroom/shared/cache"
	cacheMocks "guestroom/shared/cache/mocks"
)

func TestDashboardService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := dashboardMocks.NewMockDashboard(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 30).Return(nil).AnyTimes()

	repo.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(model.Stats{
		Hostels:           2,
		Rooms:             8,
		ActiveBookings:    3,
		OccupiedRooms:     3,
		UpcomingBookings:  1,
		PendingEnquiries:  4,
		ApprovedEnquiries: 2,
		Users:             5,
		PaidRevenue:       decimal.RequireFromString("4500.5"),
	}, nil)
	repo.EXPECT().Occupancy(gomock.Any(), gomock.Any()).Return([]model.HostelOccupancy{
		{HostelName: "Aravali", Rooms: 6, OccupiedRooms: 2},
		{HostelName: "Vindhya", Rooms: 0},
	}, nil)

	cfg := &config.Config{}
	cfg.App.Dashboard.CacheTTLSeconds = 30

	res, err := service.New(repo, cfg, redis, mocks.NewOtel()).Stats(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Date)
	assert.Equal(t, 8, res.Rooms)
	assert.Equal(t, 4, res.Enquiries.Pending)
	assert.Equal(t, "4500.5", res.PaidRevenue.String())
	assert.Equal(t, "37.5", res.OccupancyPercent.String())
	require.Len(t, res.Occupancy, 2)
	assert.Equal(t, "33.33", res.Occupancy[0].OccupancyPercent.String())
	assert.True(t, res.Occupancy[1].OccupancyPercent.IsZero())
}

func TestDashboardService_StatsFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := service.New(dashboardMocks.NewMockDashboard(ctrl), &config.Config{}, redis, mocks.NewOtel()).Stats(context.Background())
	require.NoError(t, err)
}

func TestDashboardService_StatsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := dashboardMocks.NewMockDashboard(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	repo.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(model.Stats{}, errors.New("connection refused"))

	_, err := service.New(repo, &config.Config{}, redis, mocks.NewOtel()).Stats(context.Background())
	require.Error(t, err)
}
