package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guestroom/infras/otel"
	"guestroom/internal/domains/auditlog/model"
	"guestroom/internal/domains/auditlog/model/dto"
	"guestroom/internal/domains/auditlog/repository"
	"guestroom/shared"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{model.FieldCreatedAt, model.FieldAction, model.FieldEntity, model.FieldActor, model.FieldHostel}

type Auditlog interface {
	// Record appends an entry. Failures are logged and never returned.
	Record(ctx context.Context, entry model.Log)
	List(ctx context.Context, params gDto.QueryParams, filter dto.LogFilter) (dto.GetLogsResponse, error)
}

type serviceImpl struct {
	repo repository.Log
	otel otel.Otel
}

func New(repo repository.Log, otel otel.Otel) Auditlog {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, entry model.Log) {
	var err error

	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if entry.Actor == "" {
		entry.Actor = shared.Actor(ctx)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = timezone.Now()
	}

	if err = s.repo.Insert(context.WithoutCancel(ctx), entry); err != nil {
		log.Error().Err(err).
			Str("action", entry.Action).
			Str("entity", entry.Entity).
			Str("entity_id", entry.EntityID).
			Msg("failed to record audit log")
	}
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter dto.LogFilter) (res dto.GetLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params = params.Sanitize("", sortableFields...)
	group := filter.ToFilterGroup()

	logs, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit logs")

		return res, fmt.Errorf("failed to get audit logs: %w", err)
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	res.FromModels(logs, total, params.Limit)

	return res, nil
}
