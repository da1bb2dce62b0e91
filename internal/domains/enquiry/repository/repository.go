package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/enquiry/model"
	gDto "guestroom/shared/dto"
	gRepo "guestroom/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Enquiry interface {
	Insert(ctx context.Context, model model.Enquiry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Enquiry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Enquiry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateCountTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Enquiry]
}

func New(db *postgres.Connection, otel otel.Otel) Enquiry {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Enquiry](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
