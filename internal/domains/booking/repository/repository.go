package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/booking/model"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/logger"
	gRepo "guestroom/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	// ListByRoomTx reads a room's bookings ordered by (from_date, id) inside sqltx.
	ListByRoomTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) ([]model.Booking, error)
	GetView(ctx context.Context, filter gDto.FilterGroup) (model.RoomBooking, error)
	GetAllView(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RoomBooking, error)
	CountView(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	view gRepo.Repository[model.RoomBooking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		view:       gRepo.NewRepository[model.RoomBooking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) ListByRoomTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (bookings []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListByRoomTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s",
		repo.SelectColumns(ctx), repo.Table(), model.FieldRoomID, model.FieldFromDate, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bookings = []model.Booking{}

	if err = sqltx.SelectContext(ctx, &bookings, query, roomID); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to list room bookings: %w", err)
	}

	return bookings, nil
}

func (repo *repositoryImpl) GetView(ctx context.Context, filter gDto.FilterGroup) (model.RoomBooking, error) {
	return repo.view.Get(ctx, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetAllView(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RoomBooking, error) {
	return repo.view.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) CountView(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return repo.view.Count(ctx, filter) //nolint:wrapcheck
}
