package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditService "guestroom/internal/domains/auditlog/service"
	bookingModel "guestroom/internal/domains/booking/model"
	bookingRepo "guestroom/internal/domains/booking/repository"
	"guestroom/internal/domains/hostel/model"
	"guestroom/internal/domains/hostel/model/dto"
	"guestroom/internal/domains/hostel/repository"
	roomModel "guestroom/internal/domains/room/model"
	roomDto "guestroom/internal/domains/room/model/dto"
	roomRepo "guestroom/internal/domains/room/repository"
	"guestroom/permissions"
	"guestroom/shared"
	"guestroom/shared/cache"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"slices"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Hostel interface {
	List(ctx context.Context) ([]dto.HostelResponse, error)
	Get(ctx context.Context, name string) (dto.HostelResponse, error)
	Create(ctx context.Context, req dto.CreateHostelRequest) (dto.HostelResponse, error)
	Update(ctx context.Context, name string, req dto.UpdateHostelRequest) error
	Delete(ctx context.Context, name string) error
}

type serviceImpl struct {
	repo        repository.Hostel
	roomRepo    roomRepo.Room
	bookingRepo bookingRepo.Booking
	audit       auditService.Auditlog
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Hostel,
	roomRepo roomRepo.Room,
	bookingRepo bookingRepo.Booking,
	audit auditService.Auditlog,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Hostel {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		audit:       audit,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyHostels)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBookingTree)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyDashboard)
	}()
}

// withRooms loads the rooms of hostels, sorted by room number.
func (s *serviceImpl) withRooms(ctx context.Context, hostels []model.Hostel) ([]dto.HostelResponse, error) {
	res := make([]dto.HostelResponse, len(hostels))
	if len(hostels) == 0 {
		return res, nil
	}

	names := make([]string, len(hostels))
	index := make(map[string]int, len(hostels))

	for i, hostel := range hostels {
		names[i] = hostel.Name
		index[hostel.Name] = i
		res[i].FromModel(hostel)
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{gDto.Filter{
			Field: roomModel.FieldHostelName, Value: names, Operator: gDto.FilterOperatorIn, Table: roomModel.TableName,
		}},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	slices.SortFunc(rooms, func(a, b roomModel.Room) int { return cmp.Compare(a.RoomNo, b.RoomNo) })

	for _, room := range rooms {
		i, ok := index[room.HostelName]
		if !ok {
			continue
		}

		var r roomDto.RoomResponse
		r.FromModel(room)
		res[i].Rooms = append(res[i].Rooms, r)
	}

	return res, nil
}

// List returns the hostels the caller may see, with their rooms.
func (s *serviceImpl) List(ctx context.Context) (res []dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	assigned, _ := ctx.Value(constant.ContextKeyHostel).(string)
	cacheKey := shared.BuildCacheKey(constant.CacheKeyHostels, role, assigned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hostels")

		return res, nil
	}

	hostels, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostels")

		return res, fmt.Errorf("failed to get hostels: %w", err)
	}

	names := make([]string, len(hostels))
	for i, hostel := range hostels {
		names[i] = hostel.Name
	}

	visible := permissions.Visible(ctx, names)
	hostels = slices.DeleteFunc(hostels, func(h model.Hostel) bool { return !slices.Contains(visible, h.Name) })
	slices.SortFunc(hostels, func(a, b model.Hostel) int { return cmp.Compare(a.Name, b.Name) })

	res, err = s.withRooms(ctx, hostels)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hostels to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, name string) (model.Hostel, error) {
	hostel, err := s.repo.Get(ctx, shared.FilterByID(name, model.FieldName, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostel")

		return hostel, fmt.Errorf("failed to get hostel: %w", err)
	}

	if hostel.Name == "" {
		return hostel, failure.NotFound("hostel not found") // nolint:wrapcheck
	}

	return hostel, nil
}

func (s *serviceImpl) Get(ctx context.Context, name string) (res dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !permissions.CanAccess(ctx, name) {
		return res, failure.ResourceRestrictedError
	}

	hostel, err := s.find(ctx, name)
	if err != nil {
		return res, err
	}

	hostels, err := s.withRooms(ctx, []model.Hostel{hostel})
	if err != nil {
		return res, err
	}

	return hostels[0], nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHostelRequest) (res dto.HostelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	hostel := req.ToModel(shared.Actor(ctx))

	exist, err := s.repo.Exist(ctx, shared.FilterByID(hostel.Name, model.FieldName, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hostel exists")

		return res, fmt.Errorf("failed to check if hostel exists: %w", err)
	}

	if exist {
		return res, failure.Conflict(fmt.Sprintf("hostel %s already exists", hostel.Name)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, hostel); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
			return res, failure.Conflict(fmt.Sprintf("hostel %s already exists", hostel.Name)) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create hostel")

		return res, fmt.Errorf("failed to create hostel: %w", err)
	}

	s.invalidate(ctx)
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionCreate,
		Entity:   auditModel.EntityHostel,
		EntityID: hostel.Name,
		Hostel:   hostel.Name,
	})

	res.FromModel(hostel)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, name string, req dto.UpdateHostelRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateHostelRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if _, err = s.find(ctx, name); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(name, model.FieldName, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update hostel")

		return fmt.Errorf("failed to update hostel: %w", err)
	}

	s.invalidate(ctx)
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionUpdate,
		Entity:   auditModel.EntityHostel,
		EntityID: name,
		Hostel:   name,
		Details:  fmt.Sprintf("caretaker %q, warden %q", req.CaretakerEmail, req.WardenEmail),
	})

	return nil
}

// Delete removes a hostel and its rooms. Hostels with bookings left are kept.
func (s *serviceImpl) Delete(ctx context.Context, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, name); err != nil {
		return err
	}

	bookings, err := s.bookingRepo.CountView(ctx, shared.FilterByID(name, bookingModel.FieldHostelName, bookingModel.RoomTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to count hostel bookings")

		return fmt.Errorf("failed to count hostel bookings: %w", err)
	}

	if bookings > 0 {
		return failure.Conflict(fmt.Sprintf("hostel %s still has %d bookings", name, bookings)) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(name, model.FieldName, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete hostel")

		return fmt.Errorf("failed to delete hostel: %w", err)
	}

	s.invalidate(ctx)
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionDelete,
		Entity:   auditModel.EntityHostel,
		EntityID: name,
		Hostel:   name,
	})

	return nil
}
