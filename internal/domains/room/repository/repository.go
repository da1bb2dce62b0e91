package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/room/model"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/logger"
	gRepo "guestroom/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	// LockTx loads the room and holds a row lock on it until sqltx ends. A zero Room is
	// returned when it does not exist.
	LockTx(ctx context.Context, sqltx *sqlx.Tx, hostel, roomNo string) (model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) LockTx(ctx context.Context, sqltx *sqlx.Tx, hostel, roomNo string) (room model.Room, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.LockTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2 FOR UPDATE",
		repo.SelectColumns(ctx), repo.Table(), model.FieldHostelName, model.FieldRoomNo,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &room, query, hostel, roomNo)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return room, fmt.Errorf("failed to lock room: %w", err)
	}

	return room, nil
}
