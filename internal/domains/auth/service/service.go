package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guestroom/config"
	"guestroom/infras/jwt"
	"guestroom/infras/otel"
	auditModel "guestroom/internal/domains/auditlog/model"
	auditService "guestroom/internal/domains/auditlog/service"
	"guestroom/internal/domains/auth/model/dto"
	"guestroom/internal/domains/auth/repository"
	notificationModel "guestroom/internal/domains/notification/model"
	notificationService "guestroom/internal/domains/notification/service"
	userModel "guestroom/internal/domains/user/model"
	userDto "guestroom/internal/domains/user/model/dto"
	userRepo "guestroom/internal/domains/user/repository"
	"guestroom/shared"
	"guestroom/shared/constant"
	"guestroom/shared/failure"
	"guestroom/shared/password"
	"guestroom/shared/timezone"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const invalidCredentials = "invalid email or password"

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Me(ctx context.Context) (userDto.UserResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	tokenRepo  repository.TokenRequest
	notifier   notificationService.Notifier
	audit      auditService.Auditlog
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(
	userRepo userRepo.User,
	tokenRepo repository.TokenRequest,
	notifier notificationService.Notifier,
	audit auditService.Auditlog,
	cfg *config.Config,
	otel otel.Otel,
	jwt jwt.JWT,
) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		notifier:   notifier,
		audit:      audit,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) userByEmail(ctx context.Context, email string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(strings.ToLower(email), userModel.FieldEmail, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return res, err
	}

	if user.ID == "" {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(invalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(invalidCredentials) // nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role, user.Hostel())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	updatedFields := shared.TransformFields(lastLogin, user.Email)

	if err := s.userRepo.Update(ctx, updatedFields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	s.audit.Record(ctx, auditModel.Log{
		Actor:    user.Email,
		Action:   auditModel.ActionLogin,
		Entity:   auditModel.EntityUser,
		EntityID: user.ID,
		Hostel:   user.Hostel(),
	})

	res.FromTokenPair(tokenPair)
	user.LastLogin = &lastLogin.LastLogin
	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		return res, failure.Unauthorized("not logged in") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return res, failure.NotFound("user not found") // nolint:wrapcheck
	}

	res.FromModel(user)

	return res, nil
}

// RefreshToken issues a new pair from a valid refresh token, as long as the account is
// still active. Role and hostel are re-read so changes apply on the next refresh.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(claims.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" || !user.Active {
		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role, user.Hostel())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, user.Email)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) resetLink(token string) string {
	base := s.cfg.App.PasswordReset.URL
	if base == "" {
		base = strings.TrimRight(s.cfg.App.BaseURL, "/") + "/reset-password"
	}

	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}

	return base + separator + url.Values{"token": {token}}.Encode()
}

// ForgotPassword emails a reset link to an active account. Unknown emails get the same
// silent success so callers cannot tell which accounts exist.
func (s *serviceImpl) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ForgotPassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.ID == "" || !user.Active {
		log.Warn().Str("email", req.Email).Msg("password reset requested for unknown or inactive account")

		return nil
	}

	ttl := time.Duration(s.cfg.App.PasswordReset.ExpireMin) * time.Minute

	token, request := dto.NewTokenRequest(user.ID, timezone.Now(), ttl)
	if err = s.tokenRepo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to create token request")

		return fmt.Errorf("failed to create token request: %w", err)
	}

	s.notifier.Notify(ctx, notificationModel.Notification{
		Kind:         notificationModel.KindPasswordReset,
		GuestName:    user.Name,
		GuestEmail:   user.Email,
		Link:         s.resetLink(token),
		ExpiresInMin: s.cfg.App.PasswordReset.ExpireMin,
	})

	return nil
}

func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetPassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	err = s.tokenRepo.Transaction(ctx, func(tx *sqlx.Tx) error {
		request, err := s.tokenRepo.ConsumeTx(ctx, tx, dto.HashToken(req.Token), timezone.Now())
		if err != nil {
			return err
		}

		if request.ID == "" {
			return failure.BadRequestFromString("reset token is invalid or expired") // nolint:wrapcheck
		}

		updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, constant.ContextSystem)
		filter := shared.FilterByID(request.UserID, userModel.FieldID, userModel.TableName)

		if err := s.userRepo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to reset password")

		return err
	}

	return nil
}
