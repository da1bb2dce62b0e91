package service_test

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guestroom/config"
	"guestroom/infras/otel/mocks"
	s3Mocks "guestroom/infras/s3/mocks"
	auditMocks "guestroom/internal/domains/auditlog/service/mocks"
	"guestroom/internal/domains/booking/availability"
	"guestroom/internal/domains/booking/model"
	"guestroom/internal/domains/booking/model/dto"
	"guestroom/internal/domains/booking/service"
	enquiryMocks "guestroom/internal/domains/enquiry/mocks"
	enquiryDto "guestroom/internal/domains/enquiry/model/dto"
	"guestroom/internal/domains/enquiry/prefill"
	hostelMocks "guestroom/internal/domains/hostel/mocks"
	hostelModel "guestroom/internal/domains/hostel/model"
	notificationMocks "guestroom/internal/domains/notification/service/mocks"
	notificationModel "guestroom/internal/domains/notification/model"
	roomModel "guestroom/internal/domains/room/model"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/timezone"
)

const (
	hostelAravali = "Aravali"
	hostelNilgiri = "Nilgiri"
)

var (
	r101 = roomModel.Room{ID: "room-101", HostelName: hostelAravali, RoomNo: "R101", RoomType: "double"}
	r102 = roomModel.Room{ID: "room-102", HostelName: hostelAravali, RoomNo: "R102", RoomType: "single"}
	n201 = roomModel.Room{ID: "room-201", HostelName: hostelNilgiri, RoomNo: "R201", RoomType: "double"}
)

type harness struct {
	svc           service.Booking
	store         *fakeStore
	prefill       *enquiryMocks.MockStore
	notifications []notificationModel.Notification
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	h := &harness{store: newFakeStore(r101, r102, n201)}

	mockHostel := hostelMocks.NewMockHostel(ctrl)
	mockHostel.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(hostelModel.Hostel{Name: hostelAravali, CaretakerEmail: "ct@example.edu", WardenEmail: "w@example.edu"}, nil).
		AnyTimes()
	mockHostel.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]hostelModel.Hostel{{Name: hostelNilgiri}, {Name: hostelAravali}}, nil).
		AnyTimes()

	mockNotifier := notificationMocks.NewMockNotifier(ctrl)
	mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, n notificationModel.Notification) { h.notifications = append(h.notifications, n) }).
		AnyTimes()

	mockAudit := auditMocks.NewMockAuditlog(ctrl)
	mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	h.prefill = enquiryMocks.NewMockStore(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.App.Booking.MaxAttachmentMB = 5
	cfg.App.Booking.TreeCacheTTLSeconds = 60

	h.svc = service.New(
		fakeBookings{h.store},
		fakeRooms{h.store},
		mockHostel,
		h.prefill,
		mockNotifier,
		mockAudit,
		s3Mocks.NewMockS3(ctrl),
		cfg,
		fakeCache{},
		mocks.NewOtel(),
	)

	return h
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleAdmin)

	return context.WithValue(ctx, constant.ContextKeyUserEmail, "admin@example.edu")
}

func caretakerCtx(hostel string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleCaretaker)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "ct@example.edu")

	return context.WithValue(ctx, constant.ContextKeyHostel, hostel)
}

func payload(guest, from, to string) dto.BookingPayload {
	return dto.BookingPayload{
		GuestName:   guest,
		Contact:     "9876543210",
		Email:       guest + "@example.edu",
		NumGuests:   1,
		PaymentType: model.PaymentFree,
		From:        from,
		To:          to,
	}
}

func (h *harness) create(ctx context.Context, room roomModel.Room, guest, from, to string) (dto.RoomTree, error) {
	return h.svc.Create(ctx, dto.CreateBookingRequest{
		Hostel: room.HostelName, RoomNo: room.RoomNo, Booking: payload(guest, from, to),
	})
}

func (h *harness) bookingID(room roomModel.Room, guest string) string {
	for _, booking := range h.store.bookings[room.ID] {
		if booking.GuestName == guest {
			return booking.ID
		}
	}

	return ""
}

func TestBookingService_ScenarioA(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	_, err = h.create(adminCtx(), r101, "bob", "2024-01-14", "2024-01-20")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Equal(t, 1, h.store.count(r101.ID))
}

func TestBookingService_ScenarioB(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	tree, err := h.create(adminCtx(), r101, "carol", "2024-01-16", "2024-01-20")
	require.NoError(t, err)
	require.Len(t, tree.Bookings, 2)
	assert.Equal(t, "alice", tree.Bookings[0].GuestName)
	assert.Equal(t, "carol", tree.Bookings[1].GuestName)
}

func TestBookingService_ScenarioC(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)
	_, err = h.create(adminCtx(), r101, "carol", "2024-01-16", "2024-01-20")
	require.NoError(t, err)

	_, err = h.svc.Extend(adminCtx(), dto.ExtendBookingRequest{
		Hostel: hostelAravali, RoomNo: "R101", BookingID: h.bookingID(r101, "alice"), NewToDate: "2024-01-20",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	for _, booking := range h.store.bookings[r101.ID] {
		if booking.GuestName == "alice" {
			assert.Equal(t, "2024-01-15", booking.ToDate.Format(time.DateOnly))
		}
	}
}

func TestBookingService_ScenarioD(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	_, err = h.create(adminCtx(), r101, "bob", "2024-01-14", "2024-01-20")
	require.Error(t, err)

	tree, err := h.svc.Cancel(adminCtx(), dto.CancelBookingRequest{
		Hostel: hostelAravali, RoomNo: "R101", BookingID: h.bookingID(r101, "alice"), Remarks: "guest withdrew",
	})
	require.NoError(t, err)
	assert.Empty(t, tree.Bookings)

	tree, err = h.create(adminCtx(), r101, "bob", "2024-01-14", "2024-01-20")
	require.NoError(t, err)
	require.Len(t, tree.Bookings, 1)
	assert.Equal(t, "bob", tree.Bookings[0].GuestName)

	kinds := []string{}
	for _, n := range h.notifications {
		kinds = append(kinds, n.Kind)
	}

	assert.Equal(t, []string{
		notificationModel.KindBookingCreated,
		notificationModel.KindBookingCancelled,
		notificationModel.KindBookingCreated,
	}, kinds)
	assert.Equal(t, "guest withdrew", h.notifications[1].Remarks)
	assert.Equal(t, "ct@example.edu", h.notifications[0].CaretakerEmail)
}

func TestBookingService_CancelThenRecreateSameRange(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-03-01", "2024-03-05")
	require.NoError(t, err)

	_, err = h.svc.Cancel(adminCtx(), dto.CancelBookingRequest{
		Hostel: hostelAravali, RoomNo: "R101", BookingID: h.bookingID(r101, "alice"), Remarks: "duplicate",
	})
	require.NoError(t, err)

	_, err = h.create(adminCtx(), r101, "alice", "2024-03-01", "2024-03-05")
	assert.NoError(t, err)
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		req      func() dto.CreateBookingRequest
		setup    func(h *harness)
		wantCode int
	}{
		{
			name: "caretaker of another hostel is forbidden",
			ctx:  caretakerCtx(hostelNilgiri),
			req: func() dto.CreateBookingRequest {
				return dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R101", Booking: payload("alice", "2024-01-10", "2024-01-15")}
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "unknown room",
			ctx:  adminCtx(),
			req: func() dto.CreateBookingRequest {
				return dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R999", Booking: payload("alice", "2024-01-10", "2024-01-15")}
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "reversed range",
			ctx:  adminCtx(),
			req: func() dto.CreateBookingRequest {
				return dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R101", Booking: payload("alice", "2024-01-15", "2024-01-10")}
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing contact",
			ctx:  adminCtx(),
			req: func() dto.CreateBookingRequest {
				p := payload("alice", "2024-01-10", "2024-01-15")
				p.Contact = ""

				return dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R101", Booking: p}
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "expired prefill",
			ctx:  adminCtx(),
			req: func() dto.CreateBookingRequest {
				return dto.CreateBookingRequest{
					Hostel: hostelAravali, RoomNo: "R101", EnquiryID: "6f1c2d4e-8a7b-4c3d-9e2f-1a2b3c4d5e6f",
					Booking: dto.BookingPayload{PaymentType: model.PaymentFree},
				}
			},
			setup: func(h *harness) {
				h.prefill.EXPECT().Get(gomock.Any(), gomock.Any()).Return(enquiryDto.Prefill{}, prefill.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "exclusion constraint violation",
			ctx:  adminCtx(),
			req: func() dto.CreateBookingRequest {
				return dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R101", Booking: payload("alice", "2024-01-10", "2024-01-15")}
			},
			setup: func(h *harness) {
				h.store.insertErr = fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: constant.PqErrorCodeExclusion})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "booking id already taken",
			ctx:  adminCtx(),
			req: func() dto.CreateBookingRequest {
				return dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R101", Booking: payload("alice", "2024-01-10", "2024-01-15")}
			},
			setup: func(h *harness) {
				h.store.insertErr = fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h)
			}

			_, err := h.svc.Create(tt.ctx, tt.req())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
			assert.Equal(t, 0, h.store.count(r101.ID))
			assert.Empty(t, h.notifications)
		})
	}
}

func TestBookingService_CreateStartsBooked(t *testing.T) {
	h := newHarness(t)

	p := payload("alice", "2024-01-10", "2024-01-15")
	p.ID = "6f1c2d4e-8a7b-4c3d-9e2f-1a2b3c4d5e6f"
	p.Status = model.StatusCheckedOut

	tree, err := h.svc.Create(adminCtx(), dto.CreateBookingRequest{Hostel: hostelAravali, RoomNo: "R101", Booking: p})
	require.NoError(t, err)
	require.Len(t, tree.Bookings, 1)

	stored := h.store.bookings[r101.ID][0]
	assert.Equal(t, model.StatusBooked, stored.Status)
	assert.NotEqual(t, p.ID, stored.ID)
	assert.Equal(t, model.StatusBooked, tree.Bookings[0].Status)
}

func TestBookingService_CreateFromPrefill(t *testing.T) {
	h := newHarness(t)
	enquiryID := "6f1c2d4e-8a7b-4c3d-9e2f-1a2b3c4d5e6f"

	h.prefill.EXPECT().Get(gomock.Any(), enquiryID).Return(enquiryDto.Prefill{
		EnquiryID: enquiryID,
		GuestName: "dave",
		Email:     "dave@example.edu",
		Contact:   "9123456780",
		NumGuests: 3,
		Purpose:   "conference",
		From:      "2024-02-01",
		To:        "2024-02-03",
		Files:     []string{"https://files.example.edu/enquiries/id.pdf"},
	}, nil)
	h.prefill.EXPECT().Delete(gomock.Any(), enquiryID).Return(nil)

	tree, err := h.svc.Create(caretakerCtx(hostelAravali), dto.CreateBookingRequest{
		Hostel:    hostelAravali,
		RoomNo:    "R101",
		EnquiryID: enquiryID,
		Booking:   dto.BookingPayload{PaymentType: model.PaymentPaid, Amount: decimal.RequireFromString("1500")},
	})
	require.NoError(t, err)
	require.Len(t, tree.Bookings, 1)

	booking := tree.Bookings[0]
	assert.Equal(t, "dave", booking.GuestName)
	assert.Equal(t, 3, booking.NumGuests)
	assert.Equal(t, "2024-02-01", booking.From)
	assert.Equal(t, enquiryID, booking.EnquiryID)
	assert.Equal(t, []string{"https://files.example.edu/enquiries/id.pdf"}, booking.Files)
	assert.Equal(t, "ct@example.edu", booking.CreatedBy)

	require.Len(t, h.notifications, 1)
	assert.Equal(t, "1500.00", h.notifications[0].Amount)
	assert.Equal(t, enquiryID, h.notifications[0].EnquiryID)
}

func TestBookingService_Extend(t *testing.T) {
	tests := []struct {
		name      string
		newTo     string
		bookingID  func(h *harness) string
		checkedOut bool
		wantCode   int
		wantTo     string
	}{
		{name: "extend into free days", newTo: "2024-01-18", wantTo: "2024-01-18"},
		{name: "shrink stays allowed", newTo: "2024-01-12", wantTo: "2024-01-12"},
		{name: "same day stay", newTo: "2024-01-10", wantTo: "2024-01-10"},
		{name: "to before from", newTo: "2024-01-09", wantCode: http.StatusBadRequest},
		{name: "into the next booking", newTo: "2024-01-20", wantCode: http.StatusConflict},
		{name: "unknown booking", newTo: "2024-01-18", bookingID: func(*harness) string { return "missing" }, wantCode: http.StatusNotFound},
		{name: "checked out booking stays closed", newTo: "2024-01-18", checkedOut: true, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
			require.NoError(t, err)
			_, err = h.create(adminCtx(), r101, "carol", "2024-01-19", "2024-01-22")
			require.NoError(t, err)

			id := h.bookingID(r101, "alice")
			if tt.bookingID != nil {
				id = tt.bookingID(h)
			}

			if tt.checkedOut {
				_, err = h.svc.Checkout(adminCtx(), dto.CheckoutBookingRequest{Hostel: hostelAravali, RoomNo: "R101", BookingID: id})
				require.NoError(t, err)
			}

			before := slices.Clone(h.store.bookings[r101.ID])

			res, err := h.svc.Extend(adminCtx(), dto.ExtendBookingRequest{
				Hostel: hostelAravali, RoomNo: "R101", BookingID: id, NewToDate: tt.newTo,
			})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Equal(t, before, h.store.bookings[r101.ID])

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, res.To)
			assert.Equal(t, "R101", res.RoomNo)

			last := h.notifications[len(h.notifications)-1]
			assert.Equal(t, notificationModel.KindBookingExtended, last.Kind)
			assert.Equal(t, "2024-01-15", last.PreviousTo)
		})
	}
}

func TestBookingService_Checkout(t *testing.T) {
	today := availability.Day(timezone.Now())
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(time.DateOnly) }

	tests := []struct {
		name   string
		from   string
		to     string
		wantTo string
	}{
		{name: "early checkout frees the remaining nights", from: day(-2), to: day(3), wantTo: day(0)},
		{name: "checkout on the last day keeps the range", from: day(-2), to: day(0), wantTo: day(0)},
		{name: "late checkout keeps the range", from: day(-5), to: day(-1), wantTo: day(-1)},
		{name: "checkout before arrival keeps one day", from: day(2), to: day(4), wantTo: day(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.create(adminCtx(), r101, "alice", tt.from, tt.to)
			require.NoError(t, err)

			req := dto.CheckoutBookingRequest{Hostel: hostelAravali, RoomNo: "R101", BookingID: h.bookingID(r101, "alice")}

			res, err := h.svc.Checkout(adminCtx(), req)
			require.NoError(t, err)
			assert.Equal(t, model.StatusCheckedOut, res.Status)
			assert.Equal(t, tt.wantTo, res.To)
			assert.Equal(t, tt.wantTo, h.store.bookings[r101.ID][0].ToDate.Format(time.DateOnly))

			_, err = h.svc.Checkout(adminCtx(), req)
			require.Error(t, err)
			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		})
	}
}

func TestBookingService_EarlyCheckoutFreesRoom(t *testing.T) {
	h := newHarness(t)
	today := availability.Day(timezone.Now())
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(time.DateOnly) }

	_, err := h.create(adminCtx(), r101, "alice", day(-1), day(5))
	require.NoError(t, err)

	_, err = h.create(adminCtx(), r101, "bob", day(1), day(3))
	require.Error(t, err)

	_, err = h.svc.Checkout(adminCtx(), dto.CheckoutBookingRequest{Hostel: hostelAravali, RoomNo: "R101", BookingID: h.bookingID(r101, "alice")})
	require.NoError(t, err)

	_, err = h.create(adminCtx(), r101, "bob", day(1), day(3))
	assert.NoError(t, err)
}

func treeRows(tree []dto.HostelTree) []string {
	rows := []string{}

	for _, hostel := range tree {
		for _, room := range hostel.Rooms {
			rows = append(rows, hostel.Name+"/"+room.RoomNo)

			for _, b := range room.Bookings {
				rows = append(rows, fmt.Sprintf("  %s %s %s..%s %s %s", b.ID, b.GuestName, b.From, b.To, b.PaymentType, b.Amount.StringFixed(2)))
			}
		}
	}

	return rows
}

func TestBookingService_TreeRoundTrip(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "carol", "2024-01-16", "2024-01-20")
	require.NoError(t, err)
	_, err = h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)
	_, err = h.create(adminCtx(), n201, "erin", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	before, err := h.svc.Tree(adminCtx())
	require.NoError(t, err)
	require.Len(t, before, 2)
	assert.Equal(t, hostelAravali, before[0].Name)
	assert.Equal(t, []string{"R101", "R102"}, []string{before[0].Rooms[0].RoomNo, before[0].Rooms[1].RoomNo})
	assert.Equal(t, "alice", before[0].Rooms[0].Bookings[0].GuestName)
	assert.Empty(t, before[0].Rooms[1].Bookings)

	saved, err := h.svc.SaveAll(adminCtx(), dto.TreeToSaveAll(before))
	require.NoError(t, err)
	assert.Equal(t, dto.SaveAllResponse{Rooms: 3, Bookings: 3}, saved)

	after, err := h.svc.Tree(adminCtx())
	require.NoError(t, err)
	assert.Equal(t, treeRows(before), treeRows(after))
}

func TestBookingService_TreeScope(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)
	_, err = h.create(adminCtx(), n201, "erin", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	tree, err := h.svc.Tree(caretakerCtx(hostelNilgiri))
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, hostelNilgiri, tree[0].Name)
	assert.Equal(t, "erin", tree[0].Rooms[0].Bookings[0].GuestName)
}

func TestBookingService_SaveAllRejectsOverlap(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	_, err = h.svc.SaveAll(adminCtx(), dto.SaveAllRequest{Hostels: []dto.HostelPayload{{
		Name: hostelAravali,
		Rooms: []dto.RoomPayload{{RoomNo: "R101", Bookings: []dto.BookingPayload{
			payload("bob", "2024-01-14", "2024-01-20"),
			payload("carol", "2024-01-20", "2024-01-22"),
		}}},
	}}})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.Equal(t, 1, h.store.count(r101.ID))
	assert.Equal(t, "alice", h.store.bookings[r101.ID][0].GuestName)
}

func TestBookingService_SaveAllRejectsDuplicateIDs(t *testing.T) {
	h := newHarness(t)

	first := payload("bob", "2024-01-14", "2024-01-20")
	first.ID = "6f1c2d4e-8a7b-4c3d-9e2f-1a2b3c4d5e6f"
	second := payload("carol", "2024-01-14", "2024-01-20")
	second.ID = first.ID

	_, err := h.svc.SaveAll(adminCtx(), dto.SaveAllRequest{Hostels: []dto.HostelPayload{{
		Name: hostelAravali,
		Rooms: []dto.RoomPayload{
			{RoomNo: "R101", Bookings: []dto.BookingPayload{first}},
			{RoomNo: "R102", Bookings: []dto.BookingPayload{second}},
		},
	}}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Equal(t, 0, h.store.count(r101.ID))
	assert.Equal(t, 0, h.store.count(r102.ID))
}

func TestBookingService_Vacancies(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)
	_, err = h.create(adminCtx(), n201, "erin", "2024-05-01", "2024-05-03")
	require.NoError(t, err)

	managerCtx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleManager)

	tests := []struct {
		name     string
		ctx      context.Context
		req      dto.VacancyRequest
		want     []availability.RoomRef
		wantCode int
	}{
		{
			name: "every free room",
			ctx:  managerCtx,
			req:  dto.VacancyRequest{From: "2024-01-12", To: "2024-01-14"},
			want: []availability.RoomRef{
				{Hostel: hostelAravali, RoomNo: "R102", RoomType: "single"},
				{Hostel: hostelNilgiri, RoomNo: "R201", RoomType: "double"},
			},
		},
		{
			name: "filtered by room type",
			ctx:  adminCtx(),
			req:  dto.VacancyRequest{From: "2024-01-12", To: "2024-01-14", RoomType: "double"},
			want: []availability.RoomRef{{Hostel: hostelNilgiri, RoomNo: "R201", RoomType: "double"}},
		},
		{
			name: "caretaker sees their own hostel",
			ctx:  caretakerCtx(hostelAravali),
			req:  dto.VacancyRequest{From: "2024-01-16", To: "2024-01-17"},
			want: []availability.RoomRef{
				{Hostel: hostelAravali, RoomNo: "R101", RoomType: "double"},
				{Hostel: hostelAravali, RoomNo: "R102", RoomType: "single"},
			},
		},
		{
			name:     "reversed range",
			ctx:      adminCtx(),
			req:      dto.VacancyRequest{From: "2024-01-14", To: "2024-01-12"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.svc.Vacancies(tt.ctx, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingService_List(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	managerCtx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleManager)

	tests := []struct {
		name     string
		ctx      context.Context
		filter   dto.BookingFilter
		wantCode int
	}{
		{name: "admin lists everything", ctx: adminCtx()},
		{name: "caretaker is pinned to their hostel", ctx: caretakerCtx(hostelAravali)},
		{name: "caretaker asking for another hostel", ctx: caretakerCtx(hostelAravali), filter: dto.BookingFilter{Hostel: hostelNilgiri}, wantCode: http.StatusForbidden},
		{name: "managers do not see bookings", ctx: managerCtx, wantCode: http.StatusForbidden},
		{name: "bad window date", ctx: adminCtx(), filter: dto.BookingFilter{From: "10-01-2024"}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.svc.List(tt.ctx, gDto.QueryParams{Page: 1, Limit: 10}, tt.filter)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, res.TotalData)
			assert.Equal(t, "R101", res.Bookings[0].RoomNo)
		})
	}
}

func TestBookingService_CancelRequiresRemarks(t *testing.T) {
	h := newHarness(t)

	_, err := h.create(adminCtx(), r101, "alice", "2024-01-10", "2024-01-15")
	require.NoError(t, err)

	_, err = h.svc.Cancel(adminCtx(), dto.CancelBookingRequest{
		Hostel: hostelAravali, RoomNo: "R101", BookingID: h.bookingID(r101, "alice"), Remarks: "  ",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Equal(t, 1, h.store.count(r101.ID))
}
