package middleware_test

import (
	"guestroom/config"
	"guestroom/infras/jwt"
	jwtMocks "guestroom/infras/jwt/mocks"
	otelMocks "guestroom/infras/otel/mocks"
	"guestroom/permissions"
	"guestroom/shared/constant"
	"guestroom/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const apiKey = "internal-key"

func echoRole(w http.ResponseWriter, r *http.Request) {
	role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(role))
}

func newRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey
	cfg.App.Session.CookieName = "guestroom_session"

	authRole := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), permissions.Get(), cfg)

	router := chi.NewRouter()
	router.Route("/v1", func(group chi.Router) {
		group.Use(authRole.APIKey)
		group.Use(authRole.Auth)
		group.Use(authRole.RBAC)

		group.Post("/auth/login", echoRole)
		group.Get("/users", echoRole)
		group.Get("/hostels/{name}", echoRole)
		group.Route("/bookings", func(bookings chi.Router) {
			bookings.Get("/", echoRole)
			bookings.Get("/vacancies", echoRole)
		})
	})

	return router
}

func claims(role, hostel string) *jwt.Claims {
	return &jwt.Claims{UserID: "user-1", Email: role + "@example.com", Role: role, Hostel: hostel, TokenID: "token-1"}
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		header   map[string]string
		cookie   string
		setup    func(m *jwtMocks.MockJWT)
		wantCode int
		wantBody string
	}{
		{
			name:     "public endpoint without token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/bookings",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			method: http.MethodGet,
			path:   "/v1/bookings",
			header: map[string]string{"Authorization": "Bearer old"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
			wantBody: "Token has expired",
		},
		{
			name:   "caretaker lists bookings",
			method: http.MethodGet,
			path:   "/v1/bookings",
			header: map[string]string{"Authorization": "Bearer good"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleCaretaker, "Hall 1"), nil)
			},
			wantCode: http.StatusOK,
			wantBody: constant.RoleCaretaker,
		},
		{
			name:   "manager cannot list bookings",
			method: http.MethodGet,
			path:   "/v1/bookings/",
			header: map[string]string{"Authorization": "Bearer good"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleManager, ""), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "manager sees vacancies",
			method: http.MethodGet,
			path:   "/v1/bookings/vacancies",
			header: map[string]string{"Authorization": "Bearer good"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleManager, ""), nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "session cookie",
			method: http.MethodGet,
			path:   "/v1/hostels/Hall%201",
			cookie: "from-cookie",
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("from-cookie", jwt.AccessToken).Return(claims(constant.RoleCaretaker, "Hall 1"), nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "caretaker cannot manage users",
			method: http.MethodGet,
			path:   "/v1/users",
			header: map[string]string{"Authorization": "Bearer good"},
			setup: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleCaretaker, "Hall 1"), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "api key acts as admin",
			method:   http.MethodGet,
			path:     "/v1/users",
			header:   map[string]string{constant.RequestHeaderAPIKey: apiKey},
			wantCode: http.StatusOK,
			wantBody: constant.RoleAdmin,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			path:     "/v1/users",
			header:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.setup != nil {
				tt.setup(jwtService)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "guestroom_session", Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			newRouter(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
