package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"guestroom/infras/otel"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditService "guestroom/internal/domains/auditlog/service"
	bookingModel "guestroom/internal/domains/booking/model"
	bookingRepo "guestroom/internal/domains/booking/repository"
	hostelModel "guestroom/internal/domains/hostel/model"
	hostelRepo "guestroom/internal/domains/hostel/repository"
	"guestroom/internal/domains/room/model"
	"guestroom/internal/domains/room/model/dto"
	"guestroom/internal/domains/room/repository"
	"guestroom/shared"
	"guestroom/shared/cache"
	"guestroom/shared/constant"
	"guestroom/shared/failure"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Room manages the rooms of a hostel. Rooms are addressed by (hostel, room number).
type Room interface {
	Create(ctx context.Context, hostel string, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	Update(ctx context.Context, hostel, roomNo string, req dto.UpdateRoomRequest) (dto.RoomResponse, error)
	Delete(ctx context.Context, hostel, roomNo string) error
}

type serviceImpl struct {
	repo        repository.Room
	hostelRepo  hostelRepo.Hostel
	bookingRepo bookingRepo.Booking
	audit       auditService.Auditlog
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Room,
	hostelRepo hostelRepo.Hostel,
	bookingRepo bookingRepo.Booking,
	audit auditService.Auditlog,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:        repo,
		hostelRepo:  hostelRepo,
		bookingRepo: bookingRepo,
		audit:       audit,
		cache:       cache,
		otel:        otel,
	}
}

func roomExists(roomNo string) error {
	return failure.Conflict(fmt.Sprintf("room %s already exists", roomNo)) // nolint:wrapcheck
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation
}

func roomFilter(hostel, roomNo string) map[string]any {
	return map[string]any{model.FieldHostelName: hostel, model.FieldRoomNo: roomNo}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyHostels)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBookingTree)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyDashboard)
	}()
}

func (s *serviceImpl) find(ctx context.Context, hostel, roomNo string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterEq(model.TableName, roomFilter(hostel, roomNo)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == "" {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) record(ctx context.Context, action string, room model.Room, details string) {
	s.audit.Record(ctx, auditModel.Log{
		Action:   action,
		Entity:   auditModel.EntityRoom,
		EntityID: room.ID,
		Hostel:   room.HostelName,
		Details:  details,
	})
}

func (s *serviceImpl) Create(ctx context.Context, hostel string, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.hostelRepo.Exist(ctx, shared.FilterByID(hostel, hostelModel.FieldName, hostelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hostel exists")

		return res, fmt.Errorf("failed to check if hostel exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("hostel not found") // nolint:wrapcheck
	}

	taken, err := s.repo.Exist(ctx, shared.FilterEq(model.TableName, roomFilter(hostel, req.RoomNo)))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if taken {
		return res, roomExists(req.RoomNo)
	}

	room := req.ToModel(hostel, shared.Actor(ctx))

	if err = s.repo.Insert(ctx, room); err != nil {
		if isUniqueViolation(err) {
			return res, roomExists(req.RoomNo)
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx)
	s.record(ctx, auditModel.ActionCreate, room, fmt.Sprintf("room %s (%s)", room.RoomNo, room.RoomType))

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, hostel, roomNo string, req dto.UpdateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateRoomRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	room, err := s.find(ctx, hostel, roomNo)
	if err != nil {
		return res, err
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(room.ID, model.FieldID, model.TableName)); err != nil {
		if isUniqueViolation(err) {
			return res, roomExists(req.RoomNo)
		}

		log.Error().Err(err).Msg("failed to update room")

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	if req.RoomNo != "" {
		room.RoomNo = req.RoomNo
	}

	if req.RoomType != "" {
		room.RoomType = req.RoomType
	}

	s.invalidate(ctx)
	s.record(ctx, auditModel.ActionUpdate, room, "room "+roomNo)

	res.FromModel(room)

	return res, nil
}

// Delete removes a room that has no bookings left.
func (s *serviceImpl) Delete(ctx context.Context, hostel, roomNo string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.find(ctx, hostel, roomNo)
	if err != nil {
		return err
	}

	booked, err := s.bookingRepo.Exist(ctx, shared.FilterByID(room.ID, bookingModel.FieldRoomID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room bookings")

		return fmt.Errorf("failed to check room bookings: %w", err)
	}

	if booked {
		return failure.Conflict(fmt.Sprintf("room %s still has bookings", roomNo)) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(room.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx)
	s.record(ctx, auditModel.ActionDelete, room, "room "+roomNo)

	return nil
}
