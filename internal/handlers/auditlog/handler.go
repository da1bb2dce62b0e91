package auditlog

import (
	"guestroom/infras/otel"
	"guestroom/internal/domains/auditlog/model/dto"
	"guestroom/internal/domains/auditlog/service"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auditlog
	otel    otel.Otel
}

func New(service service.Auditlog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/logs", handler.GetLogs)
}

// GetLogs lists audit log entries, newest first.
// @Summary Get audit logs
// @Tags Audit
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param entity query string false "Entity kind"
// @Param action query string false "Action"
// @Param hostel query string false "Hostel"
// @Param actor query string false "Actor email"
// @Success 200 {object} response.Data[dto.GetLogsResponse] "Logs"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/logs [get]
// @Security BearerAuth
func (handler *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLogs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.LogFilter{}
	filter.FromRequest(r)

	logs, err := handler.service.List(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit logs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, logs)
}
