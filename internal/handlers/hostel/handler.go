package hostel

import (
	"guestroom/infras/otel"
	"guestroom/internal/domains/hostel/model/dto"
	"guestroom/internal/domains/hostel/service"
	"guestroom/internal/handlers/room"
	"guestroom/shared/constant"
	"guestroom/shared/validator"
	"guestroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Hostel
	rooms   room.Handler
	otel    otel.Otel
}

func New(service service.Hostel, rooms room.Handler, otel otel.Otel) Handler {
	return Handler{
		service: service,
		rooms:   rooms,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hostels", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetHostels)
		routerGroup.Post("/", handler.CreateHostel)
		routerGroup.Get("/{name}", handler.GetHostel)
		routerGroup.Put("/{name}", handler.UpdateHostel)
		routerGroup.Delete("/{name}", handler.DeleteHostel)
		routerGroup.Route("/{name}/rooms", handler.rooms.Router)
	})
}

// GetHostels lists hostels with their rooms.
// @Summary Get hostels
// @Description Hostels visible to the caller, each with its rooms.
// @Tags Hostel
// @Produce json
// @Success 200 {object} response.Data[[]dto.HostelResponse] "Hostels"
// @Failure 500 {object} response.Error
// @Router /v1/hostels [get]
// @Security BearerAuth
func (handler *Handler) GetHostels(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostels")
	defer scope.End()

	hostels, err := handler.service.List(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hostels")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hostels)
}

// GetHostel retrieves one hostel.
// @Summary Get a hostel
// @Tags Hostel
// @Produce json
// @Param name path string true "Hostel name"
// @Success 200 {object} response.Data[dto.HostelResponse] "Hostel"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels/{name} [get]
// @Security BearerAuth
func (handler *Handler) GetHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostel")
	defer scope.End()

	hostel, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamName))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hostel")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hostel)
}

// CreateHostel registers a hostel.
// @Summary Create a hostel
// @Tags Hostel
// @Accept json
// @Produce json
// @Param request body dto.CreateHostelRequest true "Create Hostel Request"
// @Success 201 {object} response.Data[dto.HostelResponse] "Created hostel"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels [post]
// @Security BearerAuth
func (handler *Handler) CreateHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHostel")
	defer scope.End()

	req := dto.CreateHostelRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	hostel, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create hostel")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostel created: " + hostel.Name)

	response.WithJSON(w, http.StatusCreated, hostel)
}

// UpdateHostel changes the contact emails of a hostel.
// @Summary Update a hostel
// @Tags Hostel
// @Accept json
// @Produce json
// @Param name path string true "Hostel name"
// @Param request body dto.UpdateHostelRequest true "Update Hostel Request"
// @Success 200 {object} response.Message "Hostel updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels/{name} [put]
// @Security BearerAuth
func (handler *Handler) UpdateHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateHostel")
	defer scope.End()

	name := chi.URLParam(r, constant.RequestParamName)

	req := dto.UpdateHostelRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, name, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update hostel")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Hostel updated successfully")
}

// DeleteHostel removes a hostel and its rooms.
// @Summary Delete a hostel
// @Description Refused while any room of the hostel still has bookings.
// @Tags Hostel
// @Produce json
// @Param name path string true "Hostel name"
// @Success 200 {object} response.Message "Hostel deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hostels/{name} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteHostel")
	defer scope.End()

	name := chi.URLParam(r, constant.RequestParamName)

	if err := handler.service.Delete(ctx, name); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete hostel")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostel deleted: " + name)

	response.WithMessage(w, http.StatusOK, "Hostel deleted successfully")
}
