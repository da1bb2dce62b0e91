package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guestroom/config"
	"guestroom/infras/otel/mocks"
	auditMocks "guestroom/internal/domains/auditlog/service/mocks"
	bookingMocks "guestroom/internal/domains/booking/mocks"
	hostelMocks "guestroom/internal/domains/hostel/mocks"
	"guestroom/internal/domains/hostel/model"
	"guestroom/internal/domains/hostel/model/dto"
	"guestroom/internal/domains/hostel/service"
	roomMocks "guestroom/internal/domains/room/mocks"
	roomModel "guestroom/internal/domains/room/model"
	"guestroom/shared/cache"
	cacheMocks "guestroom/shared/cache/mocks"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
)

type harness struct {
	svc     service.Hostel
	repo    *hostelMocks.MockHostel
	room    *roomMocks.MockRoom
	booking *bookingMocks.MockBooking
	cache   *cacheMocks.MockRedisCache
}

func newHarness(t *testing.T) harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	audit := auditMocks.NewMockAuditlog(ctrl)

	h := harness{
		repo:    hostelMocks.NewMockHostel(ctrl),
		room:    roomMocks.NewMockRoom(ctrl),
		booking: bookingMocks.NewMockBooking(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	h.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	h.svc = service.New(h.repo, h.room, h.booking, audit, &config.Config{}, h.cache, mocks.NewOtel())

	return h
}

func callerCtx(role, hostel string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, role+"@example.edu")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return context.WithValue(ctx, constant.ContextKeyHostel, hostel)
}

var hostels = []model.Hostel{{Name: "Vindhya"}, {Name: "Aravali", WardenEmail: "warden@example.edu"}}

var rooms = []roomModel.Room{
	{ID: "r-2", HostelName: "Aravali", RoomNo: "102"},
	{ID: "r-1", HostelName: "Aravali", RoomNo: "101"},
	{ID: "r-3", HostelName: "Vindhya", RoomNo: "G1"},
}

func TestHostelService_List(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantNames []string
		wantRooms bool
	}{
		{name: "admin sees every hostel", ctx: callerCtx(constant.RoleAdmin, ""), wantNames: []string{"Aravali", "Vindhya"}, wantRooms: true},
		{name: "manager sees every hostel", ctx: callerCtx(constant.RoleManager, ""), wantNames: []string{"Aravali", "Vindhya"}, wantRooms: true},
		{name: "caretaker sees the assigned hostel", ctx: callerCtx(constant.RoleCaretaker, "Vindhya"), wantNames: []string{"Vindhya"}, wantRooms: true},
		{name: "unknown role sees nothing", ctx: callerCtx("guest", ""), wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			h.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
			h.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(append([]model.Hostel(nil), hostels...), nil)

			if tt.wantRooms {
				h.room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(append([]roomModel.Room(nil), rooms...), nil)
			}

			res, err := h.svc.List(tt.ctx)
			require.NoError(t, err)

			names := make([]string, len(res))
			for i, hostel := range res {
				names[i] = hostel.Name
			}

			assert.Equal(t, tt.wantNames, names)

			for _, hostel := range res {
				if hostel.Name == "Aravali" {
					require.Len(t, hostel.Rooms, 2)
					assert.Equal(t, "101", hostel.Rooms[0].RoomNo)
					assert.Equal(t, "102", hostel.Rooms[1].RoomNo)
				}
			}
		})
	}
}

func TestHostelService_ListFromCache(t *testing.T) {
	h := newHarness(t)

	h.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := h.svc.List(callerCtx(constant.RoleAdmin, ""))
	require.NoError(t, err)
}

func TestHostelService_Get(t *testing.T) {
	t.Run("caretaker of another hostel", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.svc.Get(callerCtx(constant.RoleCaretaker, "Vindhya"), "Aravali")
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		h := newHarness(t)
		h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hostel{}, nil)

		_, err := h.svc.Get(callerCtx(constant.RoleAdmin, ""), "Nowhere")
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("with rooms", func(t *testing.T) {
		h := newHarness(t)
		h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hostels[1], nil)
		h.room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rooms[:2], nil)

		res, err := h.svc.Get(callerCtx(constant.RoleCaretaker, "Aravali"), "Aravali")
		require.NoError(t, err)
		assert.Equal(t, "warden@example.edu", res.WardenEmail)
		assert.Len(t, res.Rooms, 2)
	})
}

func TestHostelService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(h harness)
		wantCode  int
	}{
		{
			name: "created",
			setupMock: func(h harness) {
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				h.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, hostel model.Hostel) error {
						assert.Equal(t, "Nilgiri", hostel.Name)
						assert.Equal(t, "ct@example.edu", hostel.CaretakerEmail)
						assert.Equal(t, "admin@example.edu", hostel.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "name taken",
			setupMock: func(h harness) {
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "concurrent insert",
			setupMock: func(h harness) {
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
		{
			name: "database error",
			setupMock: func(h harness) {
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h)

			res, err := h.svc.Create(callerCtx(constant.RoleAdmin, ""), dto.CreateHostelRequest{
				Name: " Nilgiri ", CaretakerEmail: "CT@example.edu",
			})
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Nilgiri", res.Name)
			assert.Empty(t, res.Rooms)
		})
	}
}

func TestHostelService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		h := newHarness(t)

		err := h.svc.Update(callerCtx(constant.RoleAdmin, ""), "Aravali", dto.UpdateHostelRequest{})
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("updates emails", func(t *testing.T) {
		h := newHarness(t)
		h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hostels[1], nil)
		h.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "new@example.edu", fields[model.FieldWardenEmail])
				assert.NotContains(t, fields, model.FieldCaretakerEmail)
				assert.NotContains(t, fields, model.FieldName)

				return nil
			})

		err := h.svc.Update(callerCtx(constant.RoleAdmin, ""), "Aravali", dto.UpdateHostelRequest{WardenEmail: "new@example.edu"})
		require.NoError(t, err)
	})
}

func TestHostelService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(h harness)
		wantCode  int
	}{
		{
			name: "no bookings",
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hostels[0], nil)
				h.booking.EXPECT().CountView(gomock.Any(), gomock.Any()).Return(0, nil)
				h.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "bookings remain",
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hostels[0], nil)
				h.booking.EXPECT().CountView(gomock.Any(), gomock.Any()).Return(3, nil)
			},
			wantCode: 409,
		},
		{
			name: "not found",
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hostel{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h)

			err := h.svc.Delete(callerCtx(constant.RoleAdmin, ""), "Vindhya")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}
