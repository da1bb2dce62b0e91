package enquiry

import (
	"guestroom/infras/otel"
	"guestroom/internal/domains/enquiry/model/dto"
	"guestroom/internal/domains/enquiry/service"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/validator"
	"guestroom/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Enquiry
	otel    otel.Otel
}

func New(service service.Enquiry, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/enquiry", func(routerGroup chi.Router) {
		routerGroup.Post("/create", handler.SubmitEnquiry)
		routerGroup.Get("/", handler.GetEnquiries)
		routerGroup.Get("/{id}", handler.GetEnquiry)
		routerGroup.Put("/{id}/approve", handler.ApproveEnquiry)
		routerGroup.Put("/{id}/reject", handler.RejectEnquiry)
		routerGroup.Get("/{id}/prefill", handler.GetPrefill)
	})
}

// SubmitEnquiry records a guest room request.
// @Summary Submit an enquiry
// @Description Public endpoint. Attachments are base64 data URLs (PDF, PNG or JPEG).
// @Tags Enquiry
// @Accept json
// @Produce json
// @Param request body dto.SubmitEnquiryRequest true "Submit Enquiry Request"
// @Success 201 {object} response.Data[dto.EnquiryResponse] "Submitted enquiry"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/enquiry/create [post]
func (handler *Handler) SubmitEnquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitEnquiry")
	defer scope.End()

	req := dto.SubmitEnquiryRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	enquiry, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit enquiry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Enquiry submitted: " + enquiry.ID)

	response.WithJSON(w, http.StatusCreated, enquiry)
}

// GetEnquiries lists enquiries.
// @Summary Get enquiries
// @Tags Enquiry
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "pending, approved or rejected"
// @Param hostel query string false "Requested hostel"
// @Success 200 {object} response.Data[dto.GetEnquiriesResponse] "Enquiries"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/enquiry [get]
// @Security BearerAuth
func (handler *Handler) GetEnquiries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEnquiries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.EnquiryFilter{}
	filter.FromRequest(r)

	enquiries, err := handler.service.List(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get enquiries")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, enquiries)
}

// GetEnquiry retrieves one enquiry.
// @Summary Get an enquiry
// @Tags Enquiry
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Data[dto.EnquiryResponse] "Enquiry"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/enquiry/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEnquiry")
	defer scope.End()

	enquiry, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get enquiry")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, enquiry)
}

// ApproveEnquiry approves a pending enquiry.
// @Summary Approve an enquiry
// @Description Returns the prefill that a booking can reference through enquiry_id.
// @Tags Enquiry
// @Accept json
// @Produce json
// @Param id path string true "Enquiry ID"
// @Param request body dto.ReviewEnquiryRequest false "Review remarks"
// @Success 200 {object} response.Data[dto.ApproveEnquiryResponse] "Approved enquiry"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/enquiry/{id}/approve [put]
// @Security BearerAuth
func (handler *Handler) ApproveEnquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveEnquiry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req, err := reviewRequest(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Approve(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve enquiry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Enquiry approved: " + id)

	response.WithJSON(w, http.StatusOK, res)
}

// RejectEnquiry rejects a pending enquiry.
// @Summary Reject an enquiry
// @Tags Enquiry
// @Accept json
// @Produce json
// @Param id path string true "Enquiry ID"
// @Param request body dto.ReviewEnquiryRequest false "Review remarks"
// @Success 200 {object} response.Data[dto.EnquiryResponse] "Rejected enquiry"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/enquiry/{id}/reject [put]
// @Security BearerAuth
func (handler *Handler) RejectEnquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectEnquiry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req, err := reviewRequest(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Reject(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject enquiry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Enquiry rejected: " + id)

	response.WithJSON(w, http.StatusOK, res)
}

// GetPrefill returns the booking prefill of an approved enquiry.
// @Summary Get the booking prefill of an enquiry
// @Tags Enquiry
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Data[dto.Prefill] "Prefill"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/enquiry/{id}/prefill [get]
// @Security BearerAuth
func (handler *Handler) GetPrefill(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPrefill")
	defer scope.End()

	prefill, err := handler.service.Prefill(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get enquiry prefill")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, prefill)
}

// reviewRequest reads the optional remarks body. An empty body means no remarks.
func reviewRequest(r *http.Request) (dto.ReviewEnquiryRequest, error) {
	req := dto.ReviewEnquiryRequest{}

	if r.ContentLength == 0 {
		return req, nil
	}

	if err := validator.Validate(r.Body, &req); err != nil {
		return req, err // nolint:wrapcheck
	}

	return req, nil
}
