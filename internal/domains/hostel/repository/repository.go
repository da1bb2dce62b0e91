package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/hostel/model"
	gDto "guestroom/shared/dto"
	gRepo "guestroom/shared/repository"
)

type Hostel interface {
	Insert(ctx context.Context, model model.Hostel) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hostel, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hostel, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Hostel]
}

func New(db *postgres.Connection, otel otel.Otel) Hostel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hostel](model.EntityName, model.TableName, model.FieldName, db, otel),
	}
}
