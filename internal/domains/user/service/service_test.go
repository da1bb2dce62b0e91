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
	hostelMocks "guestroom/internal/domains/hostel/mocks"
	userMocks "guestroom/internal/domains/user/mocks"
	"guestroom/internal/domains/user/model"
	"guestroom/internal/domains/user/model/dto"
	"guestroom/internal/domains/user/service"
	"guestroom/shared/cache"
	cacheMocks "guestroom/shared/cache/mocks"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/password"
)

type harness struct {
	svc    service.User
	repo   *userMocks.MockUser
	hostel *hostelMocks.MockHostel
	audit  *auditMocks.MockAuditlog
	cache  *cacheMocks.MockRedisCache
}

func newHarness(t *testing.T) harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := harness{
		repo:   userMocks.NewMockUser(ctrl),
		hostel: hostelMocks.NewMockHostel(ctrl),
		audit:  auditMocks.NewMockAuditlog(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	h.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	h.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.audit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	h.svc = service.New(h.repo, h.hostel, h.audit, &config.Config{}, h.cache, mocks.NewOtel())

	return h
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "admin@example.edu")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func strPtr(s string) *string {
	return &s
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateUserRequest
		setupMock func(h harness)
		wantCode  int
	}{
		{
			name: "caretaker with an existing hostel",
			req: dto.CreateUserRequest{
				Email: "CT@Example.edu", Name: "Ravi", Password: "secret123",
				Role: constant.RoleCaretaker, AssignedHostel: "Aravali",
			},
			setupMock: func(h harness) {
				h.hostel.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				h.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, "ct@example.edu", user.Email)
						assert.Equal(t, "Aravali", user.Hostel())
						assert.True(t, user.Active)
						assert.Equal(t, "admin@example.edu", user.CreatedBy)
						assert.NoError(t, password.Verify("secret123", user.Password))

						return nil
					})
			},
		},
		{
			name: "caretaker without a hostel",
			req: dto.CreateUserRequest{
				Email: "ct@example.edu", Name: "Ravi", Password: "secret123", Role: constant.RoleCaretaker,
			},
			setupMock: func(harness) {},
			wantCode:  400,
		},
		{
			name: "unknown hostel",
			req: dto.CreateUserRequest{
				Email: "ct@example.edu", Name: "Ravi", Password: "secret123",
				Role: constant.RoleCaretaker, AssignedHostel: "Nowhere",
			},
			setupMock: func(h harness) {
				h.hostel.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 400,
		},
		{
			name: "email already registered",
			req: dto.CreateUserRequest{
				Email: "mgr@example.edu", Name: "Meera", Password: "secret123", Role: constant.RoleManager,
			},
			setupMock: func(h harness) {
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "concurrent insert of the same email",
			req: dto.CreateUserRequest{
				Email: "mgr@example.edu", Name: "Meera", Password: "secret123", Role: constant.RoleManager,
			},
			setupMock: func(h harness) {
				h.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h)

			res, err := h.svc.Create(adminCtx(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, tt.req.Role, res.Role)
		})
	}
}

func TestUserService_GetAll(t *testing.T) {
	h := newHarness(t)

	h.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	h.repo.EXPECT().
		GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "users.created_at", SortDir: "DESC"}, gomock.Any()).
		Return([]model.User{{ID: "u-1", Email: "ct@example.edu", Role: constant.RoleCaretaker, AssignedHostel: strPtr("Aravali")}}, nil)

	res, err := h.svc.GetAll(adminCtx(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"}, dto.UserFilter{Role: constant.RoleCaretaker})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "Aravali", res.Users[0].AssignedHostel)
}

func TestUserService_Get(t *testing.T) {
	h := newHarness(t)

	h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

	_, err := h.svc.Get(adminCtx(), "missing")
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestUserService_Update(t *testing.T) {
	caretaker := model.User{ID: "u-1", Email: "ct@example.edu", Role: constant.RoleCaretaker, AssignedHostel: strPtr("Aravali")}

	tests := []struct {
		name      string
		req       dto.UpdateUserRequest
		setupMock func(h harness)
		wantCode  int
	}{
		{
			name:      "empty request",
			req:       dto.UpdateUserRequest{},
			setupMock: func(harness) {},
			wantCode:  400,
		},
		{
			name: "unknown user",
			req:  dto.UpdateUserRequest{Name: strPtr("Ravi K")},
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "password is hashed",
			req:  dto.UpdateUserRequest{Password: strPtr("new-secret")},
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(caretaker, nil)
				h.hostel.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				h.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hash, ok := fields[model.FieldPassword].(string)
						assert.True(t, ok)
						assert.NoError(t, password.Verify("new-secret", hash))
						assert.Equal(t, "admin@example.edu", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "manager promoted to caretaker needs a hostel",
			req:  dto.UpdateUserRequest{Role: strPtr(constant.RoleCaretaker)},
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-2", Role: constant.RoleManager}, nil)
			},
			wantCode: 400,
		},
		{
			name: "repository error",
			req:  dto.UpdateUserRequest{Active: new(bool)},
			setupMock: func(h harness) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(caretaker, nil)
				h.hostel.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				h.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h)

			err := h.svc.Update(adminCtx(), tt.req, "u-1")
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Run("admin cannot delete self", func(t *testing.T) {
		h := newHarness(t)

		err := h.svc.Delete(adminCtx(), "admin-1")
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newHarness(t)
		h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		err := h.svc.Delete(adminCtx(), "u-9")
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("deletes another user", func(t *testing.T) {
		h := newHarness(t)
		h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", Email: "ct@example.edu"}, nil)
		h.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, h.svc.Delete(adminCtx(), "u-1"))
	})
}
