package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	"guestroom/infras/s3"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditService "guestroom/internal/domains/auditlog/service"
	"guestroom/internal/domains/booking/availability"
	"guestroom/internal/domains/booking/model"
	"guestroom/internal/domains/booking/model/dto"
	"guestroom/internal/domains/booking/repository"
	"guestroom/internal/domains/enquiry/prefill"
	hostelModel "guestroom/internal/domains/hostel/model"
	hostelRepo "guestroom/internal/domains/hostel/repository"
	notificationModel "guestroom/internal/domains/notification/model"
	notificationService "guestroom/internal/domains/notification/service"
	roomModel "guestroom/internal/domains/room/model"
	roomRepo "guestroom/internal/domains/room/repository"
	"guestroom/permissions"
	"guestroom/shared"
	"guestroom/shared/attachment"
	"guestroom/shared/cache"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/timezone"
	"guestroom/shared/validator"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const attachmentDirectory = "bookings"

var sortableFields = []string{
	model.FieldFromDate, model.FieldToDate, model.FieldGuestName, model.FieldStatus, constant.FieldCreatedAt,
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.RoomTree, error)
	Cancel(ctx context.Context, req dto.CancelBookingRequest) (dto.RoomTree, error)
	Extend(ctx context.Context, req dto.ExtendBookingRequest) (dto.BookingResponse, error)
	Checkout(ctx context.Context, req dto.CheckoutBookingRequest) (dto.BookingResponse, error)
	Tree(ctx context.Context) ([]dto.HostelTree, error)
	Vacancies(ctx context.Context, req dto.VacancyRequest) ([]availability.RoomRef, error)
	List(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	SaveAll(ctx context.Context, req dto.SaveAllRequest) (dto.SaveAllResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	hostelRepo hostelRepo.Hostel
	prefill    prefill.Store
	notifier   notificationService.Notifier
	audit      auditService.Auditlog
	s3         s3.S3
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	hostelRepo hostelRepo.Hostel,
	prefill prefill.Store,
	notifier notificationService.Notifier,
	audit auditService.Auditlog,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		hostelRepo: hostelRepo,
		prefill:    prefill,
		notifier:   notifier,
		audit:      audit,
		s3:         s3,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// mapError turns overlap and constraint errors into failures. Other errors pass through.
func mapError(err error) error {
	var (
		conflict *availability.ConflictError
		pqErr    *pq.Error
	)

	switch {
	case err == nil:
		return nil
	case errors.As(err, &conflict):
		return failure.Conflict(conflict.Error()) // nolint:wrapcheck
	case errors.Is(err, availability.ErrInvalidRange):
		return failure.BadRequest(err) // nolint:wrapcheck
	case errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeExclusion:
		return failure.Conflict("room is already booked for the requested dates") // nolint:wrapcheck
	case errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation:
		return failure.Conflict("booking id is already in use") // nolint:wrapcheck
	case errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeCheckViolation:
		return failure.BadRequest(availability.ErrInvalidRange) // nolint:wrapcheck
	default:
		return err
	}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBookingTree)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBookingList)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyDashboard)
	}()
}

// lockRoom takes the room row lock and loads the room's bookings ordered by (from, id).
func (s *serviceImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, hostel, roomNo string) (roomModel.Room, []model.Booking, error) {
	room, err := s.roomRepo.LockTx(ctx, tx, hostel, roomNo)
	if err != nil {
		return room, nil, fmt.Errorf("failed to lock room: %w", err)
	}

	if room.ID == "" {
		return room, nil, failure.NotFound(fmt.Sprintf("room %s not found in hostel %s", roomNo, hostel)) // nolint:wrapcheck
	}

	bookings, err := s.repo.ListByRoomTx(ctx, tx, room.ID)
	if err != nil {
		return room, nil, fmt.Errorf("failed to list room bookings: %w", err)
	}

	return room, bookings, nil
}

func findBooking(bookings []model.Booking, id string) (model.Booking, bool) {
	idx := slices.IndexFunc(bookings, func(b model.Booking) bool { return b.ID == id })
	if idx < 0 {
		return model.Booking{}, false
	}

	return bookings[idx], true
}

func sortBookings(bookings []model.Booking) {
	slices.SortFunc(bookings, func(a, b model.Booking) int {
		if c := a.FromDate.Compare(b.FromDate); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}

func roomTree(room roomModel.Room, bookings []model.Booking) dto.RoomTree {
	sortBookings(bookings)

	tree := dto.RoomTree{RoomNo: room.RoomNo, RoomType: room.RoomType, Bookings: make([]dto.BookingResponse, len(bookings))}
	for i, booking := range bookings {
		tree.Bookings[i].FromModel(booking)
	}

	return tree
}

func (s *serviceImpl) checkAccess(ctx context.Context, hostel string) error {
	if !permissions.CanAccess(ctx, hostel) {
		return failure.Forbidden(fmt.Sprintf("you are not allowed to manage bookings of hostel %s", hostel)) // nolint:wrapcheck
	}

	return nil
}

// afterCommit runs the best-effort side effects of a booking mutation.
func (s *serviceImpl) afterCommit(ctx context.Context, kind, action, hostel, roomNo, details string, booking model.Booking, previousTo time.Time) {
	s.invalidate(ctx)

	s.audit.Record(ctx, auditModel.Log{
		Action:   action,
		Entity:   auditModel.EntityBooking,
		EntityID: booking.ID,
		Hostel:   hostel,
		Details:  details,
	})

	host, err := s.hostelRepo.Get(ctx, shared.FilterByID(hostel, hostelModel.FieldName, hostelModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("hostel", hostel).Msg("failed to load hostel for notification")
	}

	notification := notificationModel.Notification{
		Kind:           kind,
		GuestName:      booking.GuestName,
		GuestEmail:     booking.Email,
		Hostel:         hostel,
		RoomNo:         roomNo,
		CaretakerEmail: host.CaretakerEmail,
		WardenEmail:    host.WardenEmail,
		BookingID:      booking.ID,
		From:           booking.FromDate.Format(time.DateOnly),
		To:             booking.ToDate.Format(time.DateOnly),
		NumGuests:      booking.NumGuests,
		Purpose:        booking.Purpose,
		PaymentType:    booking.PaymentType,
		Amount:         booking.Amount.StringFixed(2),
		Remarks:        details,
		Actor:          shared.Actor(ctx),
	}

	if booking.EnquiryID != nil {
		notification.EnquiryID = *booking.EnquiryID
	}

	if !previousTo.IsZero() {
		notification.PreviousTo = previousTo.Format(time.DateOnly)
	}

	s.notifier.Notify(ctx, notification)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.RoomTree, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.checkAccess(ctx, req.Hostel); err != nil {
		return res, err
	}

	if req.EnquiryID != "" {
		handoff, err := s.prefill.Get(ctx, req.EnquiryID)
		if errors.Is(err, prefill.ErrNotFound) {
			return res, failure.NotFound("no approved enquiry data for " + req.EnquiryID) // nolint:wrapcheck
		}

		if err != nil {
			log.Error().Err(err).Msg("failed to get prefill")

			return res, fmt.Errorf("failed to get prefill: %w", err)
		}

		req.Booking.Merge(handoff)
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err // nolint:wrapcheck
	}

	// a new booking always starts booked under a fresh id
	req.Booking.ID, req.Booking.Status = "", ""

	booking, err := req.Booking.ToModel("", req.EnquiryID, shared.Actor(ctx))
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	files, err := attachment.Store(ctx, s.s3, attachmentDirectory, req.Booking.Files, s.cfg.App.Booking.MaxAttachmentMB)
	if err != nil {
		return res, fmt.Errorf("failed to store booking files: %w", err)
	}

	booking.Files = files

	err = s.roomRepo.Transaction(ctx, func(tx *sqlx.Tx) error {
		room, bookings, err := s.lockRoom(ctx, tx, req.Hostel, req.RoomNo)
		if err != nil {
			return err
		}

		if err := availability.Check(booking.Range(), model.Slots(bookings), ""); err != nil {
			return err
		}

		booking.RoomID = room.ID

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		res = roomTree(room, append(bookings, booking))

		return nil
	})
	if err != nil {
		attachment.RemoveURLs(ctx, s.s3, attachment.Uploaded(req.Booking.Files, files))

		if mapped := mapError(err); mapped != err {
			return res, mapped
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, err
	}

	if req.EnquiryID != "" {
		if err := s.prefill.Delete(ctx, req.EnquiryID); err != nil {
			log.Error().Err(err).Str("enquiry_id", req.EnquiryID).Msg("failed to discard prefill")
		}
	}

	s.afterCommit(ctx, notificationModel.KindBookingCreated, auditModel.ActionCreate, req.Hostel, req.RoomNo,
		fmt.Sprintf("room %s from %s", req.RoomNo, booking.Range()), booking, time.Time{})

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelBookingRequest) (res dto.RoomTree, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if strings.TrimSpace(req.Remarks) == "" {
		return res, failure.BadRequestFromString("remarks are required to cancel a booking") // nolint:wrapcheck
	}

	if err = s.checkAccess(ctx, req.Hostel); err != nil {
		return res, err
	}

	var cancelled model.Booking

	err = s.roomRepo.Transaction(ctx, func(tx *sqlx.Tx) error {
		room, bookings, err := s.lockRoom(ctx, tx, req.Hostel, req.RoomNo)
		if err != nil {
			return err
		}

		booking, ok := findBooking(bookings, req.BookingID)
		if !ok {
			return failure.NotFound(fmt.Sprintf("booking %s not found in room %s", req.BookingID, req.RoomNo)) // nolint:wrapcheck
		}

		filter := shared.FilterEq(model.TableName, map[string]any{model.FieldID: booking.ID, model.FieldRoomID: room.ID})
		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		cancelled = booking
		res = roomTree(room, slices.DeleteFunc(bookings, func(b model.Booking) bool { return b.ID == booking.ID }))

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, err
	}

	s.afterCommit(ctx, notificationModel.KindBookingCancelled, auditModel.ActionCancel, req.Hostel, req.RoomNo,
		req.Remarks, cancelled, time.Time{})

	return res, nil
}

func (s *serviceImpl) Extend(ctx context.Context, req dto.ExtendBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Extend")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.checkAccess(ctx, req.Hostel); err != nil {
		return res, err
	}

	newTo, err := time.Parse(time.DateOnly, req.NewToDate)
	if err != nil {
		return res, failure.BadRequestFromString("newToDate must be a YYYY-MM-DD date") // nolint:wrapcheck
	}

	var (
		extended   model.Booking
		previousTo time.Time
	)

	err = s.roomRepo.Transaction(ctx, func(tx *sqlx.Tx) error {
		room, bookings, err := s.lockRoom(ctx, tx, req.Hostel, req.RoomNo)
		if err != nil {
			return err
		}

		booking, ok := findBooking(bookings, req.BookingID)
		if !ok {
			return failure.NotFound(fmt.Sprintf("booking %s not found in room %s", req.BookingID, req.RoomNo)) // nolint:wrapcheck
		}

		if booking.Status == model.StatusCheckedOut {
			return failure.Conflict("booking is already checked out") // nolint:wrapcheck
		}

		candidate := availability.NewRange(booking.FromDate, newTo)
		if !candidate.Valid() {
			return failure.BadRequestFromString("new to date must be on or after the booking's from date") // nolint:wrapcheck
		}

		if err := availability.Check(candidate, model.Slots(bookings), booking.ID); err != nil {
			return err
		}

		now := timezone.Now()
		actor := shared.Actor(ctx)
		filter := shared.FilterEq(model.TableName, map[string]any{model.FieldID: booking.ID, model.FieldRoomID: room.ID})

		err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldToDate:        candidate.To,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor,
		}, filter)
		if err != nil {
			return fmt.Errorf("failed to extend booking: %w", err)
		}

		previousTo = booking.ToDate
		booking.ToDate = candidate.To
		booking.ModifiedAt = now
		booking.ModifiedBy = actor
		extended = booking

		return nil
	})
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return res, mapped
		}

		log.Error().Err(err).Msg("failed to extend booking")

		return res, err
	}

	s.afterCommit(ctx, notificationModel.KindBookingExtended, auditModel.ActionExtend, req.Hostel, req.RoomNo,
		fmt.Sprintf("to date %s -> %s", previousTo.Format(time.DateOnly), extended.ToDate.Format(time.DateOnly)),
		extended, previousTo)

	res.FromModel(extended)
	res.Hostel = req.Hostel
	res.RoomNo = req.RoomNo

	return res, nil
}

// Checkout marks a booking checked out. An early checkout trims to_date to today so the
// remaining nights become bookable again.
func (s *serviceImpl) Checkout(ctx context.Context, req dto.CheckoutBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Checkout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.checkAccess(ctx, req.Hostel); err != nil {
		return res, err
	}

	var checkedOut model.Booking

	err = s.roomRepo.Transaction(ctx, func(tx *sqlx.Tx) error {
		room, bookings, err := s.lockRoom(ctx, tx, req.Hostel, req.RoomNo)
		if err != nil {
			return err
		}

		booking, ok := findBooking(bookings, req.BookingID)
		if !ok {
			return failure.NotFound(fmt.Sprintf("booking %s not found in room %s", req.BookingID, req.RoomNo)) // nolint:wrapcheck
		}

		if booking.Status == model.StatusCheckedOut {
			return failure.Conflict("booking is already checked out") // nolint:wrapcheck
		}

		now := timezone.Now()
		actor := shared.Actor(ctx)
		updates := map[string]any{
			model.FieldStatus:        model.StatusCheckedOut,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor,
		}

		today := availability.Day(now)
		if today.Before(availability.Day(booking.ToDate)) {
			booking.ToDate = today
			if today.Before(availability.Day(booking.FromDate)) {
				booking.ToDate = availability.Day(booking.FromDate)
			}

			updates[model.FieldToDate] = booking.ToDate
		}

		filter := shared.FilterEq(model.TableName, map[string]any{model.FieldID: booking.ID, model.FieldRoomID: room.ID})
		if err := s.repo.UpdateTx(ctx, tx, updates, filter); err != nil {
			return fmt.Errorf("failed to check out booking: %w", err)
		}

		booking.Status = model.StatusCheckedOut
		booking.ModifiedAt = now
		booking.ModifiedBy = actor
		checkedOut = booking

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check out booking")

		return res, err
	}

	s.afterCommit(ctx, notificationModel.KindBookingCheckedOut, auditModel.ActionCheckout, req.Hostel, req.RoomNo,
		"checked out on "+checkedOut.ToDate.Format(time.DateOnly), checkedOut, time.Time{})

	res.FromModel(checkedOut)
	res.Hostel = req.Hostel
	res.RoomNo = req.RoomNo

	return res, nil
}

func treeCacheKey(ctx context.Context) string {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	hostel, _ := ctx.Value(constant.ContextKeyHostel).(string)

	return shared.BuildCacheKey(constant.CacheKeyBookingTree, role, hostel)
}

// Tree returns hostel -> rooms -> bookings for every hostel the caller can manage. Hostels
// and rooms are sorted by name, bookings by (from, id).
func (s *serviceImpl) Tree(ctx context.Context) (res []dto.HostelTree, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Tree")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := treeCacheKey(ctx)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking tree")

		return res, nil
	}

	hostels, err := s.hostelRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get hostels")

		return res, fmt.Errorf("failed to get hostels: %w", err)
	}

	hostels = slices.DeleteFunc(hostels, func(h hostelModel.Hostel) bool { return !permissions.CanAccess(ctx, h.Name) })
	slices.SortFunc(hostels, func(a, b hostelModel.Hostel) int { return cmp.Compare(a.Name, b.Name) })

	res = make([]dto.HostelTree, 0, len(hostels))
	if len(hostels) == 0 {
		return res, nil
	}

	names := make([]string, len(hostels))
	for i, hostel := range hostels {
		names[i] = hostel.Name
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

	views, err := s.repo.GetAllView(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{gDto.Filter{
			Field: model.FieldHostelName, Value: names, Operator: gDto.FilterOperatorIn, Table: model.RoomTableName,
		}},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	byRoom := map[string][]model.Booking{}
	for _, view := range views {
		byRoom[view.RoomID] = append(byRoom[view.RoomID], view.Booking)
	}

	byHostel := map[string][]dto.RoomTree{}

	slices.SortFunc(rooms, func(a, b roomModel.Room) int { return cmp.Compare(a.RoomNo, b.RoomNo) })

	for _, room := range rooms {
		byHostel[room.HostelName] = append(byHostel[room.HostelName], roomTree(room, byRoom[room.ID]))
	}

	for _, hostel := range hostels {
		hostelRooms := byHostel[hostel.Name]
		if hostelRooms == nil {
			hostelRooms = []dto.RoomTree{}
		}

		res = append(res, dto.HostelTree{
			Name:           hostel.Name,
			CaretakerEmail: hostel.CaretakerEmail,
			WardenEmail:    hostel.WardenEmail,
			Rooms:          hostelRooms,
		})
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.App.Booking.TreeCacheTTLSeconds); err != nil {
			log.Error().Err(err).Msg("failed to save booking tree to cache")
		}
	}()

	return res, nil
}

// Vacancies scans every visible room and returns those free for the whole requested range.
func (s *serviceImpl) Vacancies(ctx context.Context, req dto.VacancyRequest) (res []availability.RoomRef, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Vacancies")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	candidate, err := availability.ParseRange(req.From, req.To)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	hostels := []string{}
	for _, room := range rooms {
		if !slices.Contains(hostels, room.HostelName) {
			hostels = append(hostels, room.HostelName)
		}
	}

	visible := permissions.Visible(ctx, hostels)

	views, err := s.repo.GetAllView(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName: "window_from", Field: model.FieldToDate, Value: candidate.From,
				Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName,
			},
			gDto.Filter{
				ArgName: "window_to", Field: model.FieldFromDate, Value: candidate.To,
				Operator: gDto.FilterOperatorLessEq, Table: model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	byRoom := map[string][]model.Booking{}
	for _, view := range views {
		byRoom[view.RoomID] = append(byRoom[view.RoomID], view.Booking)
	}

	slices.SortFunc(rooms, func(a, b roomModel.Room) int {
		return cmp.Or(cmp.Compare(a.HostelName, b.HostelName), cmp.Compare(a.RoomNo, b.RoomNo))
	})

	candidates := []availability.RoomSlots{}

	for _, room := range rooms {
		if !slices.Contains(visible, room.HostelName) {
			continue
		}

		if req.RoomType != "" && room.RoomType != req.RoomType {
			continue
		}

		candidates = append(candidates, availability.RoomSlots{
			Hostel:   room.HostelName,
			RoomNo:   room.RoomNo,
			RoomType: room.RoomType,
			Slots:    model.Slots(byRoom[room.ID]),
		})
	}

	res, err = availability.Vacancies(candidates, candidate)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	return res, nil
}

// scopedHostel narrows a listing to the hostels the caller may see. An explicit hostel is
// checked, and caretakers without one are pinned to their own.
func scopedHostel(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		if !permissions.CanAccess(ctx, requested) {
			return "", failure.ResourceRestrictedError
		}

		return requested, nil
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	switch permissions.ScopeOf(role) {
	case permissions.ScopeAll:
		return "", nil
	case permissions.ScopeAssigned:
		hostel, _ := ctx.Value(constant.ContextKeyHostel).(string)
		if hostel == "" {
			return "", failure.ResourceRestrictedError
		}

		return hostel, nil
	default:
		return "", failure.ResourceRestrictedError
	}
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter.Hostel, err = scopedHostel(ctx, filter.Hostel)
	if err != nil {
		return res, err
	}

	group, err := filter.ToFilterGroup()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	params = params.Sanitize(model.TableName, sortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyBookingList, params, group)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	bookings, err := s.repo.GetAllView(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	total, err := s.repo.CountView(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// duplicateBookingID returns the first explicit booking id used twice across the payload.
func duplicateBookingID(req dto.SaveAllRequest) string {
	seen := map[string]struct{}{}

	for _, hostel := range req.Hostels {
		for _, room := range hostel.Rooms {
			for _, booking := range room.Bookings {
				if booking.ID == "" {
					continue
				}

				if _, ok := seen[booking.ID]; ok {
					return booking.ID
				}

				seen[booking.ID] = struct{}{}
			}
		}
	}

	return ""
}

// SaveAll replaces the bookings of every room named in req inside one transaction. Each
// room's new set is validated before anything is written.
func (s *serviceImpl) SaveAll(ctx context.Context, req dto.SaveAllRequest) (res dto.SaveAllResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SaveAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.Actor(ctx)

	if id := duplicateBookingID(req); id != "" {
		return res, failure.BadRequestFromString("booking id " + id + " appears more than once") // nolint:wrapcheck
	}

	err = s.roomRepo.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, hostel := range req.Hostels {
			for _, roomPayload := range hostel.Rooms {
				room, _, err := s.lockRoom(ctx, tx, hostel.Name, roomPayload.RoomNo)
				if err != nil {
					return err
				}

				bookings := make([]model.Booking, len(roomPayload.Bookings))
				for i := range roomPayload.Bookings {
					bookings[i], err = roomPayload.Bookings[i].ToModel(room.ID, "", actor)
					if err != nil {
						return fmt.Errorf("room %s/%s booking %d: %w", hostel.Name, room.RoomNo, i+1, err)
					}
				}

				if err := availability.ValidateSet(model.Slots(bookings)); err != nil {
					return fmt.Errorf("room %s/%s: %w", hostel.Name, room.RoomNo, err)
				}

				err = s.repo.DeleteTx(ctx, tx, shared.FilterEq(model.TableName, map[string]any{model.FieldRoomID: room.ID}))
				if err != nil {
					return fmt.Errorf("failed to clear room bookings: %w", err)
				}

				if len(bookings) > 0 {
					if err := s.repo.InsertBulkTx(ctx, tx, bookings); err != nil {
						return fmt.Errorf("failed to insert room bookings: %w", err)
					}
				}

				res.Rooms++
				res.Bookings += len(bookings)
			}
		}

		return nil
	})
	if err != nil {
		res = dto.SaveAllResponse{}

		if mapped := mapError(err); mapped != err {
			return res, mapped
		}

		log.Error().Err(err).Msg("failed to save all bookings")

		return res, err
	}

	s.invalidate(ctx)
	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionSaveAll,
		Entity:   auditModel.EntityBooking,
		EntityID: "*",
		Details:  fmt.Sprintf("%d rooms, %d bookings", res.Rooms, res.Bookings),
	})

	return res, nil
}
