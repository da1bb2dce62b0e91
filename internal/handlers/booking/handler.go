package booking

import (
	"guestroom/infras/otel"
	"guestroom/internal/domains/booking/model/dto"
	"guestroom/internal/domains/booking/service"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/validator"
	"guestroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/all", handler.GetTree)
		routerGroup.Get("/vacancies", handler.GetVacancies)
		routerGroup.Post("/add", handler.CreateBooking)
		routerGroup.Delete("/remove", handler.CancelBooking)
		routerGroup.Put("/extend", handler.ExtendBooking)
		routerGroup.Put("/checkout", handler.CheckoutBooking)
		routerGroup.Post("/save-all", handler.SaveAll)
	})
}

// CreateBooking books a room.
// @Summary Book a room
// @Description Book a room of a hostel. When enquiry_id is given, blank fields are filled from the approved enquiry.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.RoomTree] "Updated room"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/add [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	// the booking is validated after the enquiry prefill is merged in
	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created in room " + req.RoomNo)

	response.WithJSON(w, http.StatusCreated, room)
}

// CancelBooking cancels a booking.
// @Summary Cancel a booking
// @Description Remove a booking from a room. A cancellation reason is required.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CancelBookingRequest true "Cancel Booking Request"
// @Success 200 {object} response.Data[dto.RoomTree] "Updated room"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/remove [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	req := dto.CancelBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.Cancel(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled: " + req.BookingID)

	response.WithJSON(w, http.StatusOK, room)
}

// ExtendBooking moves the end date of a booking.
// @Summary Extend a booking
// @Description Change the end date of a booking. The new range must not overlap other bookings of the room.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.ExtendBookingRequest true "Extend Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/extend [put]
// @Security BearerAuth
func (handler *Handler) ExtendBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendBooking")
	defer scope.End()

	req := dto.ExtendBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Extend(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to extend booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking extended: " + req.BookingID)

	response.WithJSON(w, http.StatusOK, booking)
}

// CheckoutBooking marks a guest as checked out.
// @Summary Check out a booking
// @Description Mark a booking as checked out. An early checkout frees the remaining nights.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CheckoutBookingRequest true "Checkout Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/checkout [put]
// @Security BearerAuth
func (handler *Handler) CheckoutBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckoutBooking")
	defer scope.End()

	req := dto.CheckoutBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Checkout(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking checked out: " + req.BookingID)

	response.WithJSON(w, http.StatusOK, booking)
}

// GetTree returns every visible hostel with its rooms and bookings.
// @Summary Get the booking tree
// @Description Hostels, rooms and bookings the caller may see. Bookings are ordered by from date.
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]dto.HostelTree] "Booking tree"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/all [get]
// @Security BearerAuth
func (handler *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTree")
	defer scope.End()

	tree, err := handler.service.Tree(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking tree")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tree)
}

// GetVacancies lists rooms free for a date range.
// @Summary Find vacant rooms
// @Description Rooms of every hostel with no booking overlapping the range.
// @Tags Booking
// @Produce json
// @Param from query string true "First night (YYYY-MM-DD)"
// @Param to query string true "Last night (YYYY-MM-DD)"
// @Param room_type query string false "Room type"
// @Success 200 {object} response.Data[[]availability.RoomRef] "Vacant rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/vacancies [get]
// @Security BearerAuth
func (handler *Handler) GetVacancies(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVacancies")
	defer scope.End()

	query := r.URL.Query()
	req := dto.VacancyRequest{
		From:     query.Get("from"),
		To:       query.Get("to"),
		RoomType: query.Get("room_type"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate vacancy query")

		response.WithError(w, err)

		return
	}

	rooms, err := handler.service.Vacancies(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vacancies")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetBookings lists bookings page by page.
// @Summary List bookings
// @Description Flat, paginated listing of the bookings the caller may see.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param hostel query string false "Hostel name"
// @Param room_no query string false "Room number"
// @Param status query string false "booked or checked_out"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "Bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.BookingFilter{}
	filter.FromRequest(r)

	bookings, err := handler.service.List(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// SaveAll replaces the bookings of every room in the payload.
// @Summary Bulk save bookings
// @Description Replace the bookings of each room present in the payload. Every room's set is checked for overlaps first.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.SaveAllRequest true "Hostel tree"
// @Success 200 {object} response.Data[dto.SaveAllResponse] "Saved counts"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/save-all [post]
// @Security BearerAuth
func (handler *Handler) SaveAll(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SaveAll")
	defer scope.End()

	req := dto.SaveAllRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.SaveAll(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save bookings")

		response.WithError(w, err)

		return
	}

	log.Warn().Int("rooms", res.Rooms).Int("bookings", res.Bookings).Msg("bookings overwritten by bulk save")

	response.WithJSON(w, http.StatusOK, res)
}
