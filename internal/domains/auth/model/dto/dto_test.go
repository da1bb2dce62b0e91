package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guestroom/infras/jwt"
	"guestroom/internal/domains/auth/model/dto"
	"guestroom/shared/timezone"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestNewTokenRequest(t *testing.T) {
	now := timezone.Now()

	token, request := dto.NewTokenRequest("user-1", now, 30*time.Minute)

	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, request.TokenHash)
	assert.Equal(t, dto.HashToken(token), request.TokenHash)
	assert.Len(t, request.TokenHash, 64)
	assert.Equal(t, "user-1", request.UserID)
	assert.Equal(t, now.Add(30*time.Minute), request.ExpiresAt)
	assert.Nil(t, request.UsedAt)

	other, _ := dto.NewTokenRequest("user-1", now, 30*time.Minute)
	assert.NotEqual(t, token, other)
}
