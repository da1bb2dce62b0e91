package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/shared/constant"
	"guestroom/shared/timezone"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrMissingToken = errors.New("authorization header or session cookie is required")
)

const bearerPrefix = "Bearer "

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carry the staff identity. Hostel is set for caretakers only.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	Hostel  string    `json:"hostel,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(userID, email, role, hostel string) (*TokenPair, error)
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)
}

type Service struct {
	config *config.Config
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
	}
}

// settings returns the signing secret and lifetime of tokenType.
func (s *Service) settings(tokenType TokenType) ([]byte, time.Duration, error) {
	switch tokenType {
	case AccessToken:
		return []byte(s.config.JWT.AccessSecret), time.Duration(s.config.JWT.AccessExpireMin) * time.Minute, nil
	case RefreshToken:
		return []byte(s.config.JWT.RefreshSecret), time.Duration(s.config.JWT.RefreshExpireMin) * time.Minute, nil
	default:
		return nil, 0, fmt.Errorf("unknown token type: %s", tokenType)
	}
}

func (s *Service) GenerateTokenPair(userID, email, role, hostel string) (*TokenPair, error) {
	now := timezone.Now()
	identity := Claims{UserID: userID, Email: email, Role: role, Hostel: hostel}

	access, err := s.sign(identity, AccessToken, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.sign(identity, RefreshToken, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    strings.TrimSpace(bearerPrefix),
		ExpiresIn:    int64(s.config.JWT.AccessExpireMin) * 60,
	}, nil
}

func (s *Service) sign(claims Claims, tokenType TokenType, issuedAt time.Time) (string, error) {
	secret, lifetime, err := s.settings(tokenType)
	if err != nil {
		return "", err
	}

	claims.TokenID = uuid.NewString()
	claims.Type = tokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        claims.TokenID,
		Subject:   claims.UserID,
		Issuer:    s.config.App.Name,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies the signature and expiry of tokenString and that it was issued as tokenType.
func (s *Service) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	secret, _, err := s.settings(tokenType)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}

	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromRequest prefers a bearer Authorization header and falls back to the session cookie.
func ExtractTokenFromRequest(r *http.Request, cookieName string) (string, error) {
	if header := r.Header.Get(constant.RequestHeaderAuthorization); header != "" {
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || token == "" {
			return "", errors.New("authorization header must start with 'Bearer '")
		}

		return token, nil
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingToken
	}

	return cookie.Value, nil
}
