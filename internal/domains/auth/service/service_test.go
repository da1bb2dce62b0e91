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
	"guestroom/infras/jwt"
	jwtMocks "guestroom/infras/jwt/mocks"
	"guestroom/infras/otel/mocks"
	auditMocks "guestroom/internal/domains/auditlog/service/mocks"
	authMocks "guestroom/internal/domains/auth/mocks"
	"guestroom/internal/domains/auth/model"
	"guestroom/internal/domains/auth/model/dto"
	"guestroom/internal/domains/auth/service"
	notificationModel "guestroom/internal/domains/notification/model"
	notificationMocks "guestroom/internal/domains/notification/service/mocks"
	userMocks "guestroom/internal/domains/user/mocks"
	userModel "guestroom/internal/domains/user/model"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/failure"
	"guestroom/shared/password"
)

type harness struct {
	svc      service.Auth
	users    *userMocks.MockUser
	tokens   *authMocks.MockTokenRequest
	notifier *notificationMocks.MockNotifier
	jwt      *jwtMocks.MockJWT
}

func newHarness(t *testing.T) harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.BaseURL = "https://rooms.example.edu/"
	cfg.App.PasswordReset.ExpireMin = 30

	audit := auditMocks.NewMockAuditlog(ctrl)
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).AnyTimes()

	h := harness{
		users:    userMocks.NewMockUser(ctrl),
		tokens:   authMocks.NewMockTokenRequest(ctrl),
		notifier: notificationMocks.NewMockNotifier(ctrl),
		jwt:      jwtMocks.NewMockJWT(ctrl),
	}
	h.svc = service.New(h.users, h.tokens, h.notifier, audit, cfg, mocks.NewOtel(), h.jwt)

	return h
}

func caretaker(t *testing.T) userModel.User {
	t.Helper()

	hash, err := password.Hash("password")
	require.NoError(t, err)

	hostel := "Aravali"

	return userModel.User{
		ID:             "user-id-123",
		Email:          "ct@example.edu",
		Name:           "Ravi",
		Password:       hash,
		Role:           constant.RoleCaretaker,
		AssignedHostel: &hostel,
		Active:         true,
	}
}

func userCtx(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(h harness, user userModel.User)
		wantCode  int
	}{
		{
			name: "successful login carries role and hostel",
			req:  dto.LoginRequest{Email: "CT@example.edu", Password: "password"},
			setupMock: func(h harness, user userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				h.jwt.EXPECT().
					GenerateTokenPair(user.ID, user.Email, constant.RoleCaretaker, "Aravali").
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				h.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "failed last login update does not block login",
			req:  dto.LoginRequest{Email: "ct@example.edu", Password: "password"},
			setupMock: func(h harness, user userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				h.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&jwt.TokenPair{AccessToken: "access-token"}, nil)
				h.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
		},
		{
			name: "user not found",
			req:  dto.LoginRequest{Email: "nobody@example.edu", Password: "password"},
			setupMock: func(h harness, _ userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 401,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "ct@example.edu", Password: "wrongpassword"},
			setupMock: func(h harness, user userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: 401,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "ct@example.edu", Password: "password"},
			setupMock: func(h harness, user userModel.User) {
				user.Active = false
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: 403,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "ct@example.edu", Password: "password"},
			setupMock: func(h harness, user userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				h.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("signing failed"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h, caretaker(t))

			res, err := h.svc.Login(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "ct@example.edu", res.User.Email)
			assert.Equal(t, "Aravali", res.User.AssignedHostel)
			assert.NotNil(t, res.User.LastLogin)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	t.Run("anonymous caller", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.svc.Me(context.Background())
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("current user", func(t *testing.T) {
		h := newHarness(t)
		h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(caretaker(t), nil)

		res, err := h.svc.Me(userCtx("user-id-123"))
		require.NoError(t, err)
		assert.Equal(t, constant.RoleCaretaker, res.Role)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(h harness, user userModel.User)
		wantCode  int
	}{
		{
			name: "successful refresh re-reads the user",
			setupMock: func(h harness, user userModel.User) {
				h.jwt.EXPECT().ValidateToken("refresh-token", jwt.RefreshToken).Return(&jwt.Claims{UserID: user.ID}, nil)
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				h.jwt.EXPECT().GenerateTokenPair(user.ID, user.Email, user.Role, "Aravali").
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			setupMock: func(h harness, _ userModel.User) {
				h.jwt.EXPECT().ValidateToken(gomock.Any(), jwt.RefreshToken).Return(nil, jwt.ErrInvalidToken)
			},
			wantCode: 401,
		},
		{
			name: "deactivated since the token was issued",
			setupMock: func(h harness, user userModel.User) {
				user.Active = false
				h.jwt.EXPECT().ValidateToken(gomock.Any(), jwt.RefreshToken).Return(&jwt.Claims{UserID: user.ID}, nil)
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h, caretaker(t))

			res, err := h.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-access-token", res.AccessToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(h harness, user userModel.User)
		wantCode  int
	}{
		{
			name: "successful change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(h harness, user userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				h.users.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hash, _ := fields[userModel.FieldPassword].(string)
						assert.NoError(t, password.Verify("newpassword123", hash))

						return nil
					})
			},
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword123"},
			setupMock: func(h harness, user userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: 400,
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(h harness, _ userModel.User) {
				h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h, caretaker(t))

			err := h.svc.ChangePassword(userCtx("user-id-123"), tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("emails a link whose token matches the stored hash", func(t *testing.T) {
		h := newHarness(t)
		user := caretaker(t)

		var stored model.TokenRequest

		h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		h.tokens.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, request model.TokenRequest) error {
			stored = request

			return nil
		})
		h.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n notificationModel.Notification) {
			assert.Equal(t, notificationModel.KindPasswordReset, n.Kind)
			assert.Equal(t, "ct@example.edu", n.GuestEmail)
			assert.Equal(t, 30, n.ExpiresInMin)
			require.True(t, strings.HasPrefix(n.Link, "https://rooms.example.edu/reset-password?token="))

			token := strings.TrimPrefix(n.Link, "https://rooms.example.edu/reset-password?token=")
			assert.Equal(t, stored.TokenHash, dto.HashToken(token))
		})

		require.NoError(t, h.svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: user.Email}))
		assert.Equal(t, user.ID, stored.UserID)
		assert.WithinDuration(t, stored.CreatedAt.Add(30*time.Minute), stored.ExpiresAt, time.Second)
	})

	t.Run("unknown email is a silent success", func(t *testing.T) {
		h := newHarness(t)
		h.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		assert.NoError(t, h.svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "nobody@example.edu"}))
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	inTransaction := func(h harness) {
		h.tokens.EXPECT().
			Transaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(tx *sqlx.Tx) error) error { return fn(nil) })
	}

	tests := []struct {
		name      string
		setupMock func(h harness)
		wantCode  int
	}{
		{
			name: "valid token updates the password",
			setupMock: func(h harness) {
				inTransaction(h)
				h.tokens.EXPECT().ConsumeTx(gomock.Any(), gomock.Any(), dto.HashToken("plain-token"), gomock.Any()).
					Return(model.TokenRequest{ID: "t-1", UserID: "user-id-123"}, nil)
				h.users.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
						hash, _ := fields[userModel.FieldPassword].(string)
						assert.NoError(t, password.Verify("brand-new-pass", hash))
						assert.Equal(t, "user-id-123", filter.Filters[0].(gDto.Filter).Value)

						return nil
					})
			},
		},
		{
			name: "used or expired token",
			setupMock: func(h harness) {
				inTransaction(h)
				h.tokens.EXPECT().ConsumeTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.TokenRequest{}, nil)
			},
			wantCode: 400,
		},
		{
			name: "database error",
			setupMock: func(h harness) {
				inTransaction(h)
				h.tokens.EXPECT().ConsumeTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.TokenRequest{}, errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setupMock(h)

			err := h.svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{Token: "plain-token", NewPassword: "brand-new-pass"})
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
