package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guestroom/config"
	"guestroom/infras/otel/mocks"
	s3Mocks "guestroom/infras/s3/mocks"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditMocks "guestroom/internal/domains/auditlog/service/mocks"
	enquiryMocks "guestroom/internal/domains/enquiry/mocks"
	"guestroom/internal/domains/enquiry/model"
	"guestroom/internal/domains/enquiry/model/dto"
	"guestroom/internal/domains/enquiry/prefill"
	"guestroom/internal/domains/enquiry/service"
	notificationModel "guestroom/internal/domains/notification/model"
	hostelMocks "guestroom/internal/domains/hostel/mocks"
	notificationMocks "guestroom/internal/domains/notification/service/mocks"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/timezone"
)

const pdfDataURL = "data:application/pdf;base64,JVBERi0xLjQK"

type harness struct {
	svc      service.Enquiry
	repo     *enquiryMocks.MockEnquiry
	hostels  *hostelMocks.MockHostel
	prefill  *enquiryMocks.MockStore
	notifier *notificationMocks.MockNotifier
	audit    *auditMocks.MockAuditlog
	s3       *s3Mocks.MockS3
}

func newHarness(t *testing.T) harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Booking.MaxEnquiryDays = 30
	cfg.App.Booking.MaxAttachmentMB = 5

	h := harness{
		repo:     enquiryMocks.NewMockEnquiry(ctrl),
		hostels:  hostelMocks.NewMockHostel(ctrl),
		prefill:  enquiryMocks.NewMockStore(ctrl),
		notifier: notificationMocks.NewMockNotifier(ctrl),
		audit:    auditMocks.NewMockAuditlog(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}
	h.svc = service.New(h.repo, h.hostels, h.prefill, h.notifier, h.audit, h.s3, cfg, mocks.NewOtel())

	return h
}

// expectTransaction runs the callback with a nil tx, as the mocked repository never touches it.
func (h harness) expectTransaction() *gomock.Call {
	return h.repo.EXPECT().Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })
}

func date(offsetDays int) string {
	return timezone.Now().AddDate(0, 0, offsetDays).Format(time.DateOnly)
}

func validRequest() dto.SubmitEnquiryRequest {
	return dto.SubmitEnquiryRequest{
		Name:      "Bob",
		Email:     "bob@example.edu",
		Contact:   "9876543210",
		NumGuests: 2,
		Purpose:   "Convocation",
		Hostel:    "Aravali",
		From:      date(3),
		To:        date(5),
		Files:     []string{pdfDataURL},
	}
}

func staffCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "manager@example.edu")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleManager)
}

func pending(id string) model.Enquiry {
	hostel := "Aravali"
	from := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)

	return model.Enquiry{
		ID:         id,
		Name:       "Bob",
		Email:      "bob@example.edu",
		Contact:    "9876543210",
		NumGuests:  2,
		Purpose:    "Convocation",
		HostelName: &hostel,
		FromDate:   from,
		ToDate:     from.AddDate(0, 0, 2),
		Files:      []string{"https://files.example.edu/enquiries/a.pdf"},
		Status:     model.StatusPending,
	}
}

func TestEnquiryService_Submit(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(req *dto.SubmitEnquiryRequest)
		setup    func(h harness)
		wantCode int
	}{
		{
			name:   "stored as pending and managers notified",
			mutate: func(*dto.SubmitEnquiryRequest) {},
			setup: func(h harness) {
				h.hostels.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				h.s3.EXPECT().
					Upload(gomock.Any(), gomock.Any(), "application/pdf", []byte("%PDF-1.4\n")).
					Do(func(_ context.Context, key, _ string, _ []byte) {
						assert.True(t, strings.HasPrefix(key, "enquiries/"))
						assert.True(t, strings.HasSuffix(key, ".pdf"))
					}).
					Return("https://files.example.edu/enquiries/a.pdf", nil)
				h.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, enquiry model.Enquiry) error {
						assert.Equal(t, model.StatusPending, enquiry.Status)
						assert.Equal(t, "Aravali", enquiry.Hostel())
						assert.Equal(t, []string{"https://files.example.edu/enquiries/a.pdf"}, []string(enquiry.Files))

						return nil
					})
				h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry auditModel.Log) {
					assert.Equal(t, auditModel.ActionSubmit, entry.Action)
					assert.Equal(t, "bob@example.edu", entry.Actor)
				})
				h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n notificationModel.Notification) {
					assert.Equal(t, notificationModel.KindEnquirySubmitted, n.Kind)
				})
			},
		},
		{
			name:     "missing attachment is rejected",
			mutate:   func(req *dto.SubmitEnquiryRequest) { req.Files = nil },
			setup:    func(harness) {},
			wantCode: 400,
		},
		{
			name:     "attachment of another type is rejected",
			mutate:   func(req *dto.SubmitEnquiryRequest) { req.Files = []string{"data:text/plain;base64,aGVsbG8="} },
			setup:    func(harness) {},
			wantCode: 400,
		},
		{
			name:     "reversed dates",
			mutate:   func(req *dto.SubmitEnquiryRequest) { req.From, req.To = date(5), date(3) },
			setup:    func(harness) {},
			wantCode: 400,
		},
		{
			name:     "stay starting in the past",
			mutate:   func(req *dto.SubmitEnquiryRequest) { req.From = date(-1) },
			setup:    func(harness) {},
			wantCode: 400,
		},
		{
			name:     "stay longer than allowed",
			mutate:   func(req *dto.SubmitEnquiryRequest) { req.To = date(40) },
			setup:    func(harness) {},
			wantCode: 400,
		},
		{
			name:     "contact must have ten digits",
			mutate:   func(req *dto.SubmitEnquiryRequest) { req.Contact = "12345" },
			setup:    func(harness) {},
			wantCode: 400,
		},
		{
			name:   "insert failure removes the uploaded files",
			mutate: func(*dto.SubmitEnquiryRequest) {},
			setup: func(h harness) {
				h.hostels.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				h.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://files.example.edu/enquiries/a.pdf", nil)
				h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				h.s3.EXPECT().KeyFromURL("https://files.example.edu/enquiries/a.pdf").Return("enquiries/a.pdf")
				h.s3.EXPECT().Delete(gomock.Any(), "enquiries/a.pdf").Return(nil)
			},
			wantCode: 500,
		},
		{
			name:   "unknown preferred hostel is rejected before upload",
			mutate: func(req *dto.SubmitEnquiryRequest) { req.Hostel = "Atlantis" },
			setup: func(h harness) {
				h.hostels.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			req := validRequest()
			tt.mutate(&req)

			res, err := h.svc.Submit(context.Background(), req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestEnquiryService_Approve(t *testing.T) {
	t.Run("approval returns and stores the prefill", func(t *testing.T) {
		h := newHarness(t)
		enquiry := pending("e-1")

		var saved dto.Prefill

		h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(enquiry, nil)
		h.expectTransaction()
		h.repo.EXPECT().UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, update map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, model.StatusApproved, update[model.FieldStatus])
				assert.Equal(t, "manager@example.edu", update[model.FieldReviewedBy])

				return 1, nil
			})
		h.prefill.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p dto.Prefill) error {
			saved = p

			return nil
		})
		h.audit.EXPECT().Record(gomock.Any(), gomock.Any())
		h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n notificationModel.Notification) {
			assert.Equal(t, notificationModel.KindEnquiryApproved, n.Kind)
			assert.Equal(t, "bob@example.edu", n.GuestEmail)
		})

		res, err := h.svc.Approve(staffCtx(), "e-1", dto.ReviewEnquiryRequest{Remarks: "welcome"})
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, res.Enquiry.Status)
		assert.Equal(t, saved, res.Prefill)
		assert.Equal(t, "e-1", res.Prefill.EnquiryID)
		assert.Equal(t, "Bob", res.Prefill.GuestName)
		assert.Equal(t, "2030-01-10", res.Prefill.From)
		assert.Equal(t, "2030-01-12", res.Prefill.To)
		assert.Equal(t, "manager@example.edu", res.Prefill.ApprovedBy)
	})

	tests := []struct {
		name     string
		setup    func(h harness)
		wantCode int
	}{
		{
			name: "unknown enquiry",
			setup: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Enquiry{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "already rejected",
			setup: func(h harness) {
				enquiry := pending("e-1")
				enquiry.Status = model.StatusRejected
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(enquiry, nil)
			},
			wantCode: 409,
		},
		{
			name: "prefill store unavailable",
			setup: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("e-1"), nil)
				h.expectTransaction().Return(errors.New("failed to save prefill: redis down"))
				h.repo.EXPECT().UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				h.prefill.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			wantCode: 500,
		},
		{
			name: "lost the race to another review",
			setup: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("e-1"), nil)
				h.expectTransaction()
				h.repo.EXPECT().UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantCode: 409,
		},
		{
			name: "commit failure discards the stored prefill",
			setup: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("e-1"), nil)
				h.expectTransaction().Return(errors.New("failed to commit transaction (enquiry): connection reset"))
				h.repo.EXPECT().UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				h.prefill.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				h.prefill.EXPECT().Delete(gomock.Any(), "e-1").Return(nil)
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			_, err := h.svc.Approve(staffCtx(), "e-1", dto.ReviewEnquiryRequest{})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestEnquiryService_ApprovalsKeepSeparatePrefills(t *testing.T) {
	h := newHarness(t)

	saved := map[string]dto.Prefill{}

	h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("e-1"), nil)
	h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("e-2"), nil)
	h.expectTransaction().Times(2)
	h.repo.EXPECT().UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(2)
	h.prefill.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p dto.Prefill) error {
		saved[p.EnquiryID] = p

		return nil
	}).Times(2)
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(2)
	h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(2)

	_, err := h.svc.Approve(staffCtx(), "e-1", dto.ReviewEnquiryRequest{})
	require.NoError(t, err)

	_, err = h.svc.Approve(staffCtx(), "e-2", dto.ReviewEnquiryRequest{})
	require.NoError(t, err)

	assert.Len(t, saved, 2)
	assert.NotEqual(t, prefill.Key("e-1"), prefill.Key("e-2"))
}

func TestEnquiryService_Reject(t *testing.T) {
	h := newHarness(t)

	h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending("e-1"), nil)
	h.expectTransaction()
	h.repo.EXPECT().UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry auditModel.Log) {
		assert.Equal(t, auditModel.ActionReject, entry.Action)
		assert.Equal(t, "rooms are full", entry.Details)
	})
	h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n notificationModel.Notification) {
		assert.Equal(t, notificationModel.KindEnquiryRejected, n.Kind)
		assert.Equal(t, "rooms are full", n.Remarks)
	})

	res, err := h.svc.Reject(staffCtx(), "e-1", dto.ReviewEnquiryRequest{Remarks: "rooms are full"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, res.Status)
	assert.Equal(t, "manager@example.edu", res.ReviewedBy)

	second := newHarness(t)
	approved := pending("e-1")
	approved.Status = model.StatusApproved
	second.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)

	_, err = second.svc.Reject(staffCtx(), "e-1", dto.ReviewEnquiryRequest{})
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestEnquiryService_Prefill(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantCode int
	}{
		{name: "stored prefill"},
		{name: "expired prefill", storeErr: prefill.ErrNotFound, wantCode: 404},
		{name: "store error", storeErr: errors.New("redis down"), wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.prefill.EXPECT().Get(gomock.Any(), "e-1").Return(dto.Prefill{EnquiryID: "e-1", GuestName: "Bob"}, tt.storeErr)

			res, err := h.svc.Prefill(staffCtx(), "e-1")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Bob", res.GuestName)
		})
	}
}

func TestEnquiryService_List(t *testing.T) {
	h := newHarness(t)

	h.repo.EXPECT().
		GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "enquiries.status", SortDir: "ASC"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Enquiry, error) {
			require.Len(t, filter.Filters, 1)
			assert.Equal(t, model.StatusPending, filter.Filters[0].(gDto.Filter).Value)

			return []model.Enquiry{pending("e-1"), pending("e-2")}, nil
		})
	h.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)

	res, err := h.svc.List(staffCtx(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "status", SortDir: "ASC"},
		dto.EnquiryFilter{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Len(t, res.Enquiries, 2)
}
