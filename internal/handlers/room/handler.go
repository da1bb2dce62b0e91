package room

import (
	"guestroom/infras/otel"
	"guestroom/internal/domains/room/model/dto"
	"guestroom/internal/domains/room/service"
	"guestroom/shared/constant"
	"guestroom/shared/validator"
	"guestroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the room routes. It is mounted under /hostels/{name}/rooms.
func (handler *Handler) Router(router chi.Router) {
	router.Post("/", handler.CreateRoom)
	router.Put("/{roomNo}", handler.UpdateRoom)
	router.Delete("/{roomNo}", handler.DeleteRoom)
}

// CreateRoom adds a room to a hostel.
// @Summary Create a room
// @Tags Room
// @Accept json
// @Produce json
// @Param name path string true "Hostel name"
// @Param request body dto.CreateRoomRequest true "Create Room Request"
// @Success 201 {object} response.Data[dto.RoomResponse] "Created room"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels/{name}/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	hostel := chi.URLParam(r, constant.RequestParamName)

	req := dto.CreateRoomRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.Create(ctx, hostel, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room created: " + hostel + "/" + room.RoomNo)

	response.WithJSON(w, http.StatusCreated, room)
}

// UpdateRoom renumbers a room or changes its type.
// @Summary Update a room
// @Tags Room
// @Accept json
// @Produce json
// @Param name path string true "Hostel name"
// @Param roomNo path string true "Room number"
// @Param request body dto.UpdateRoomRequest true "Update Room Request"
// @Success 200 {object} response.Data[dto.RoomResponse] "Updated room"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels/{name}/rooms/{roomNo} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	hostel := chi.URLParam(r, constant.RequestParamName)
	roomNo := chi.URLParam(r, constant.RequestParamRoomNo)

	req := dto.UpdateRoomRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	room, err := handler.service.Update(ctx, hostel, roomNo, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// DeleteRoom removes a room without bookings.
// @Summary Delete a room
// @Tags Room
// @Produce json
// @Param name path string true "Hostel name"
// @Param roomNo path string true "Room number"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels/{name}/rooms/{roomNo} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	hostel := chi.URLParam(r, constant.RequestParamName)
	roomNo := chi.URLParam(r, constant.RequestParamRoomNo)

	if err := handler.service.Delete(ctx, hostel, roomNo); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room deleted: " + hostel + "/" + roomNo)

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}
