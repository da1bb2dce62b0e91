package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditService "guestroom/internal/domains/auditlog/service"
	hostelModel "guestroom/internal/domains/hostel/model"
	hostelRepo "guestroom/internal/domains/hostel/repository"
	"guestroom/internal/domains/user/model"
	"guestroom/internal/domains/user/model/dto"
	"guestroom/internal/domains/user/repository"
	"guestroom/shared"
	"guestroom/shared/cache"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/password"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
)

var sortableFields = []string{model.FieldEmail, model.FieldName, model.FieldRole, constant.FieldCreatedAt}

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.User
	hostelRepo hostelRepo.Hostel
	audit      auditService.Auditlog
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.User,
	hostelRepo hostelRepo.Hostel,
	audit auditService.Auditlog,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) User {
	return &serviceImpl{
		repo:       repo,
		hostelRepo: hostelRepo,
		audit:      audit,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation
}

// checkHostel makes sure a caretaker is bound to a hostel that exists.
func (s *serviceImpl) checkHostel(ctx context.Context, role, hostel string) error {
	if role == constant.RoleCaretaker && hostel == "" {
		return failure.BadRequestFromString("caretakers need an assigned hostel") // nolint:wrapcheck
	}

	if hostel == "" {
		return nil
	}

	exist, err := s.hostelRepo.Exist(ctx, shared.FilterByID(hostel, hostelModel.FieldName, hostelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hostel exists")

		return fmt.Errorf("failed to check if hostel exists: %w", err)
	}

	if !exist {
		return failure.BadRequestFromString(fmt.Sprintf("hostel %s does not exist", hostel)) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != "" {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete user from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyDashboard)
	}()
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.checkHostel(ctx, req.Role, req.AssignedHostel); err != nil {
		return res, err
	}

	exists, err := s.repo.Exist(ctx, shared.FilterByID(strings.ToLower(req.Email), model.FieldEmail, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.Conflict("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(shared.Actor(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return res, failure.Conflict("email already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidate(ctx, "")
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionCreate,
		Entity:   auditModel.EntityUser,
		EntityID: user.ID,
		Hostel:   user.Hostel(),
		Details:  fmt.Sprintf("%s as %s", user.Email, user.Role),
	})

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	group := filter.ToFilterGroup()
	params = params.Sanitize(model.TableName, sortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, params, group)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return res, failure.NotFound("user not found") // nolint:wrapcheck
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	role, hostel := user.Role, user.Hostel()
	if req.Role != nil {
		role = *req.Role
	}

	if req.AssignedHostel != nil {
		hostel = *req.AssignedHostel
	}

	if err = s.checkHostel(ctx, role, hostel); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if req.Password != nil {
		hashedPassword, err := password.Hash(*req.Password)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")

			return fmt.Errorf("failed to hash password: %w", err)
		}

		updatedFields[model.FieldPassword] = hashedPassword
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidate(ctx, id)
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionUpdate,
		Entity:   auditModel.EntityUser,
		EntityID: id,
		Hostel:   hostel,
		Details:  user.Email,
	})

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if caller, _ := ctx.Value(constant.ContextKeyUserID).(string); caller == id {
		return failure.BadRequestFromString("you cannot delete your own account") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidate(ctx, id)
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionDelete,
		Entity:   auditModel.EntityUser,
		EntityID: id,
		Hostel:   user.Hostel(),
		Details:  user.Email,
	})

	return nil
}
