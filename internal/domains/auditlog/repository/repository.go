package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/auditlog/model"
	gDto "guestroom/shared/dto"
	gRepo "guestroom/shared/repository"
)

type Log interface {
	Insert(ctx context.Context, model model.Log) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Log, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Log]
}

func New(db *postgres.Connection, otel otel.Otel) Log {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Log](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
