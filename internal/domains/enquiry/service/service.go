package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	"guestroom/infras/s3"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditService "guestroom/internal/domains/auditlog/service"
	"guestroom/internal/domains/booking/availability"
	"guestroom/internal/domains/enquiry/model"
	"guestroom/internal/domains/enquiry/model/dto"
	"guestroom/internal/domains/enquiry/prefill"
	"guestroom/internal/domains/enquiry/repository"
	hostelModel "guestroom/internal/domains/hostel/model"
	hostelRepo "guestroom/internal/domains/hostel/repository"
	notificationModel "guestroom/internal/domains/notification/model"
	notificationService "guestroom/internal/domains/notification/service"
	"guestroom/shared"
	"guestroom/shared/attachment"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/timezone"
	"guestroom/shared/validator"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const attachmentDirectory = "enquiries"

var sortableFields = []string{
	model.FieldName, model.FieldFromDate, model.FieldToDate, model.FieldStatus, constant.FieldCreatedAt,
}

type Enquiry interface {
	Submit(ctx context.Context, req dto.SubmitEnquiryRequest) (dto.EnquiryResponse, error)
	List(ctx context.Context, params gDto.QueryParams, filter dto.EnquiryFilter) (dto.GetEnquiriesResponse, error)
	Get(ctx context.Context, id string) (dto.EnquiryResponse, error)
	Approve(ctx context.Context, id string, req dto.ReviewEnquiryRequest) (dto.ApproveEnquiryResponse, error)
	Reject(ctx context.Context, id string, req dto.ReviewEnquiryRequest) (dto.EnquiryResponse, error)
	Prefill(ctx context.Context, id string) (dto.Prefill, error)
}

type serviceImpl struct {
	repo       repository.Enquiry
	hostelRepo hostelRepo.Hostel
	prefill    prefill.Store
	notifier   notificationService.Notifier
	audit      auditService.Auditlog
	s3         s3.S3
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	repo repository.Enquiry,
	hostelRepo hostelRepo.Hostel,
	prefill prefill.Store,
	notifier notificationService.Notifier,
	audit auditService.Auditlog,
	s3 s3.S3,
	cfg *config.Config,
	otel otel.Otel,
) Enquiry {
	return &serviceImpl{
		repo:       repo,
		hostelRepo: hostelRepo,
		prefill:    prefill,
		notifier:   notifier,
		audit:      audit,
		s3:         s3,
		cfg:        cfg,
		otel:       otel,
	}
}

func notificationFor(kind string, enquiry model.Enquiry) notificationModel.Notification {
	return notificationModel.Notification{
		Kind:       kind,
		GuestName:  enquiry.Name,
		GuestEmail: enquiry.Email,
		Hostel:     enquiry.Hostel(),
		EnquiryID:  enquiry.ID,
		From:       enquiry.FromDate.Format(time.DateOnly),
		To:         enquiry.ToDate.Format(time.DateOnly),
		NumGuests:  enquiry.NumGuests,
		Purpose:    enquiry.Purpose,
		Remarks:    enquiry.Remarks,
	}
}

// checkDates enforces from <= to, the maximum stay and that the stay does not start in the past.
func (s *serviceImpl) checkDates(from, to string) (availability.Range, error) {
	stay, err := availability.ParseRange(from, to)
	if err != nil {
		return stay, failure.BadRequest(err) // nolint:wrapcheck
	}

	if maxDays := s.cfg.App.Booking.MaxEnquiryDays; maxDays > 0 && stay.Days() > maxDays {
		return stay, failure.BadRequestFromString(fmt.Sprintf("a stay can span at most %d days", maxDays)) // nolint:wrapcheck
	}

	if stay.From.Before(availability.Day(timezone.Now())) {
		return stay, failure.BadRequestFromString("from date must not be in the past") // nolint:wrapcheck
	}

	return stay, nil
}

// checkHostel rejects a preferred hostel that does not exist. No preference is fine.
func (s *serviceImpl) checkHostel(ctx context.Context, hostel string) error {
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

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitEnquiryRequest) (res dto.EnquiryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(req.Files) == 0 {
		return res, failure.BadRequestFromString("at least one attachment is required") // nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err // nolint:wrapcheck
	}

	stay, err := s.checkDates(req.From, req.To)
	if err != nil {
		return res, err
	}

	if err = s.checkHostel(ctx, req.Hostel); err != nil {
		return res, err
	}

	files, err := attachment.Store(ctx, s.s3, attachmentDirectory, req.Files, s.cfg.App.Booking.MaxAttachmentMB)
	if err != nil {
		return res, fmt.Errorf("failed to store enquiry files: %w", err)
	}

	enquiry := req.ToModel(stay.From, stay.To, files)

	if err = s.repo.Insert(ctx, enquiry); err != nil {
		log.Error().Err(err).Msg("failed to insert enquiry")
		attachment.RemoveURLs(ctx, s.s3, files)

		return res, fmt.Errorf("failed to insert enquiry: %w", err)
	}

	s.audit.Record(ctx, auditModel.Log{
		Actor:    enquiry.Email,
		Action:   auditModel.ActionSubmit,
		Entity:   auditModel.EntityEnquiry,
		EntityID: enquiry.ID,
		Hostel:   enquiry.Hostel(),
		Details:  fmt.Sprintf("stay %s for %d guests", stay, enquiry.NumGuests),
	})
	s.notifier.Notify(ctx, notificationFor(notificationModel.KindEnquirySubmitted, enquiry))

	res.FromModel(enquiry)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter dto.EnquiryFilter) (res dto.GetEnquiriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	group := filter.ToFilterGroup()
	params = params.Sanitize(model.TableName, sortableFields...)

	enquiries, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get enquiries")

		return res, fmt.Errorf("failed to get enquiries: %w", err)
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count enquiries")

		return res, fmt.Errorf("failed to count enquiries: %w", err)
	}

	res.FromModels(enquiries, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Enquiry, error) {
	enquiry, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get enquiry")

		return enquiry, fmt.Errorf("failed to get enquiry: %w", err)
	}

	if enquiry.ID == "" {
		return enquiry, failure.NotFound("enquiry not found") // nolint:wrapcheck
	}

	return enquiry, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.EnquiryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	enquiry, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(enquiry)

	return res, nil
}

// review moves a pending enquiry to status. Reviewed enquiries are final. The update only
// matches a pending row, so of two concurrent reviews exactly one wins. beforeCommit runs
// inside the transaction with the reviewed enquiry; its error rolls the review back.
func (s *serviceImpl) review(ctx context.Context, id, status, remarks string, beforeCommit func(model.Enquiry) error) (model.Enquiry, error) {
	enquiry, err := s.get(ctx, id)
	if err != nil {
		return enquiry, err
	}

	if !enquiry.IsPending() {
		return enquiry, failure.Conflict(fmt.Sprintf("enquiry is already %s", enquiry.Status)) // nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	now := timezone.Now()

	update := map[string]any{
		model.FieldStatus:       status,
		model.FieldRemarks:      remarks,
		model.FieldReviewedBy:   actor,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	reviewed := enquiry
	reviewed.Status = status
	reviewed.Remarks = remarks
	reviewed.ReviewedBy = actor
	reviewed.ModifiedAt = now
	reviewed.ModifiedBy = actor

	filter := shared.FilterEq(model.TableName, map[string]any{model.FieldID: id, model.FieldStatus: model.StatusPending})

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		updated, err := s.repo.UpdateCountTx(ctx, tx, update, filter)
		if err != nil {
			return fmt.Errorf("failed to review enquiry: %w", err)
		}

		if updated == 0 {
			return failure.Conflict("enquiry has already been reviewed") // nolint:wrapcheck
		}

		if beforeCommit != nil {
			return beforeCommit(reviewed)
		}

		return nil
	})
	if err != nil {
		if !failure.Is(err, http.StatusConflict) {
			log.Error().Err(err).Str("id", id).Msg("failed to review enquiry")
		}

		return enquiry, err
	}

	return reviewed, nil
}

// Approve stores the enquiry's guest data under its own prefill key and returns it, so
// the room allocation that follows can be booked from it.
func (s *serviceImpl) Approve(ctx context.Context, id string, req dto.ReviewEnquiryRequest) (res dto.ApproveEnquiryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var (
		handoff dto.Prefill
		saved   bool
	)

	enquiry, err := s.review(ctx, id, model.StatusApproved, req.Remarks, func(approved model.Enquiry) error {
		handoff = dto.NewPrefill(approved, approved.ReviewedBy, approved.ModifiedAt)
		if err := s.prefill.Save(ctx, handoff); err != nil {
			return fmt.Errorf("failed to save prefill: %w", err)
		}

		saved = true

		return nil
	})
	if err != nil {
		// the commit failed after the prefill was stored
		if saved {
			if delErr := s.prefill.Delete(ctx, id); delErr != nil {
				log.Error().Err(delErr).Str("id", id).Msg("failed to discard prefill")
			}
		}

		return res, err
	}

	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionApprove,
		Entity:   auditModel.EntityEnquiry,
		EntityID: enquiry.ID,
		Hostel:   enquiry.Hostel(),
		Details:  req.Remarks,
	})
	s.notifier.Notify(ctx, notificationFor(notificationModel.KindEnquiryApproved, enquiry))

	res.Enquiry.FromModel(enquiry)
	res.Prefill = handoff

	return res, nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.ReviewEnquiryRequest) (res dto.EnquiryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	enquiry, err := s.review(ctx, id, model.StatusRejected, req.Remarks, nil)
	if err != nil {
		return res, err
	}

	s.audit.Record(ctx, auditModel.Log{
		Action:   auditModel.ActionReject,
		Entity:   auditModel.EntityEnquiry,
		EntityID: enquiry.ID,
		Hostel:   enquiry.Hostel(),
		Details:  req.Remarks,
	})
	s.notifier.Notify(ctx, notificationFor(notificationModel.KindEnquiryRejected, enquiry))

	res.FromModel(enquiry)

	return res, nil
}

func (s *serviceImpl) Prefill(ctx context.Context, id string) (res dto.Prefill, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Prefill")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.prefill.Get(ctx, id)
	if errors.Is(err, prefill.ErrNotFound) {
		return res, failure.NotFound("no approved enquiry data for " + id) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get prefill")

		return res, fmt.Errorf("failed to get prefill: %w", err)
	}

	return res, nil
}
