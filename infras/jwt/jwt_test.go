package jwt_test

import (
	"guestroom/config"
	"guestroom/infras/jwt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(accessMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "guestroom"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = accessMin
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	service := newService(15)

	pair, err := service.GenerateTokenPair("user-1", "caretaker@example.com", "caretaker", "Hall 1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := service.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "caretaker", claims.Role)
	assert.Equal(t, "Hall 1", claims.Hostel)
	assert.Equal(t, claims.TokenID, claims.ID)
	assert.Equal(t, "guestroom", claims.Issuer)

	refresh, err := service.ValidateToken(pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, claims.TokenID, refresh.TokenID)
}

func TestValidateToken_Rejects(t *testing.T) {
	service := newService(15)

	pair, err := service.GenerateTokenPair("user-1", "admin@example.com", "admin", "")
	require.NoError(t, err)

	expired, err := newService(-5).GenerateTokenPair("user-1", "admin@example.com", "admin", "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		tokenType jwt.TokenType
		wantErr   error
	}{
		{name: "refresh used as access", token: pair.RefreshToken, tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{name: "expired access", token: expired.AccessToken, tokenType: jwt.AccessToken, wantErr: jwt.ErrExpiredToken},
		{name: "tampered", token: pair.AccessToken + "x", tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-token", tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token, tt.tokenType)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		cookie  string
		want    string
		wantErr bool
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "header wins over cookie", header: "Bearer abc", cookie: "def", want: "abc"},
		{name: "cookie fallback", cookie: "def", want: "def"},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "nothing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "guestroom_session", Value: tt.cookie})
			}

			got, err := jwt.ExtractTokenFromRequest(req, "guestroom_session")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
