package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/dashboard/model"
	"guestroom/shared/constant"
	"guestroom/shared/logger"
	"time"
)

const statsQuery = `
SELECT
	(SELECT COUNT(*) FROM hostels) AS hostels,
	(SELECT COUNT(*) FROM rooms) AS rooms,
	(SELECT COUNT(*) FROM room_bookings WHERE status = 'booked' AND from_date <= $1 AND to_date >= $1) AS active_bookings,
	(SELECT COUNT(DISTINCT room_id) FROM room_bookings WHERE status = 'booked' AND from_date <= $1 AND to_date >= $1) AS occupied_rooms,
	(SELECT COUNT(*) FROM room_bookings WHERE status = 'booked' AND from_date > $1) AS upcoming_bookings,
	(SELECT COUNT(*) FROM room_bookings WHERE status = 'checked_out') AS checked_out,
	(SELECT COUNT(*) FROM enquiries WHERE status = 'pending') AS pending_enquiries,
	(SELECT COUNT(*) FROM enquiries WHERE status = 'approved') AS approved_enquiries,
	(SELECT COUNT(*) FROM enquiries WHERE status = 'rejected') AS rejected_enquiries,
	(SELECT COUNT(*) FROM users WHERE active) AS users,
	(SELECT COALESCE(SUM(amount), 0) FROM room_bookings WHERE payment_type = 'Paid') AS paid_revenue`

const occupancyQuery = `
SELECT
	hostels.name AS hostel_name,
	COUNT(DISTINCT rooms.id) AS rooms,
	COUNT(DISTINCT room_bookings.room_id) AS occupied_rooms
FROM hostels
LEFT JOIN rooms ON rooms.hostel_name = hostels.name
LEFT JOIN room_bookings ON room_bookings.room_id = rooms.id
	AND room_bookings.status = 'booked'
	AND room_bookings.from_date <= $1
	AND room_bookings.to_date >= $1
GROUP BY hostels.name
ORDER BY hostels.name`

// Dashboard runs the aggregate queries behind the staff dashboard.
type Dashboard interface {
	Stats(ctx context.Context, day time.Time) (model.Stats, error)
	Occupancy(ctx context.Context, day time.Time) ([]model.HostelOccupancy, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Dashboard {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *repositoryImpl) Stats(ctx context.Context, day time.Time) (stats model.Stats, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, statsQuery)

	if err = repo.db.Read.GetContext(ctx, &stats, statsQuery, day); err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	return stats, nil
}

func (repo *repositoryImpl) Occupancy(ctx context.Context, day time.Time) (rows []model.HostelOccupancy, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.Occupancy")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, occupancyQuery)

	rows = []model.HostelOccupancy{}

	if err = repo.db.Read.SelectContext(ctx, &rows, occupancyQuery, day); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get hostel occupancy: %w", err)
	}

	return rows, nil
}
