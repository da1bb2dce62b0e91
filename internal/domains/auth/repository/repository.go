package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/internal/domains/auth/model"
	"guestroom/shared/constant"
	"guestroom/shared/logger"
	gRepo "guestroom/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type TokenRequest interface {
	Insert(ctx context.Context, model model.TokenRequest) error
	Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	// ConsumeTx marks the unused, unexpired token with tokenHash as used at now and returns
	// it. A zero TokenRequest is returned when no such token exists.
	ConsumeTx(ctx context.Context, sqltx *sqlx.Tx, tokenHash string, now time.Time) (model.TokenRequest, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.TokenRequest]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) TokenRequest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TokenRequest](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) ConsumeTx(ctx context.Context, sqltx *sqlx.Tx, tokenHash string, now time.Time) (token model.TokenRequest, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".token_request.ConsumeTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL AND %s > $2 RETURNING %s",
		repo.Table(), model.FieldUsedAt, model.FieldTokenHash, model.FieldUsedAt, model.FieldExpiresAt,
		repo.SelectColumns(ctx),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &token, query, tokenHash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenRequest{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return token, fmt.Errorf("failed to consume token request: %w", err)
	}

	return token, nil
}
