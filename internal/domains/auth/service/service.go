package service

import (
	"context"
	"errors"
	"fmt"
	"prestige/config"
	"prestige/infras/jwt"
	"prestige/infras/otel"
	"prestige/internal/domains/auth/model/dto"
	userModel "prestige/internal/domains/user/model"
	userDto "prestige/internal/domains/user/model/dto"
	userRepo "prestige/internal/domains/user/repository"
	"prestige/shared"
	"prestige/shared/cache"
	"prestige/shared/constant"
	"prestige/shared/failure"
	"prestige/shared/password"
	gRepo "prestige/shared/repository"
	"prestige/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const revokedMarker = "1"

var (
	errInvalidCredentials = failure.Unauthorized("invalid email or password")
	errInvalidRefresh     = failure.Unauthorized("invalid refresh token")
	errEmailTaken         = failure.Conflict("email already registered")
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	Logout(ctx context.Context, req dto.LogoutRequest) error
	Profile(ctx context.Context) (userDto.UserResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (userDto.UserResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type serviceImpl struct {
	userRepo userRepo.User
	jwt      jwt.JWT
	cache    cache.RedisCache
	cfg      *config.Config
	otel     otel.Otel
}

func New(userRepo userRepo.User, jwt jwt.JWT, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) Auth {
	return &serviceImpl{
		userRepo: userRepo,
		jwt:      jwt,
		cache:    cache,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.Email = userDto.NormalizeEmail(req.Email)

	taken, err := s.userRepo.EmailTaken(ctx, req.Email, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")

		return res, fmt.Errorf("failed to check email: %w", err)
	}

	if taken {
		return res, errEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashed)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, errEmailTaken
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(ctx, user)
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	email := userDto.NormalizeEmail(req.Email)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(email, userModel.FieldEmail, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", email).Msg("login attempt with unknown email")

		return res, errInvalidCredentials
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("user_id", user.ID).Msg("login attempt with wrong password")

		return res, errInvalidCredentials
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated") // nolint:wrapcheck
	}

	now := timezone.Now()
	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, user.ID)

	if err = s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	return s.issue(ctx, user)
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwt.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("refresh with invalid token")

		return res, errInvalidRefresh
	}

	if s.IsRevoked(ctx, claims.TokenID) {
		log.Warn().Str("user_id", claims.UserID).Msg("refresh with revoked token")

		return res, errInvalidRefresh
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(claims.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty || !user.Active {
		return res, errInvalidRefresh
	}

	pair, err := s.jwt.GenerateTokenPair(ctx, jwt.Subject{UserID: user.ID, Email: user.Email, Role: user.Level})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	// rotate: the presented refresh token cannot be used twice
	if err = s.revoke(ctx, claims.TokenID, claims.RemainingTTL(timezone.Now())); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to revoke rotated refresh token")
	}

	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) Logout(ctx context.Context, req dto.LogoutRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)
	expiresAt, _ := ctx.Value(constant.ContextKeyTokenExp).(time.Time)

	if tokenID == constant.Empty {
		return failure.Unauthorized("missing token") // nolint:wrapcheck
	}

	ttl := 0
	if !expiresAt.IsZero() {
		ttl = max(0, int(time.Until(expiresAt).Seconds()))
	}

	if err = s.revoke(ctx, tokenID, ttl); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to revoke access token")

		return fmt.Errorf("failed to revoke access token: %w", err)
	}

	if req.RefreshToken == constant.Empty {
		return nil
	}

	claims, err := s.jwt.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil || claims.UserID != userID {
		log.Warn().Str("user_id", userID).Msg("logout with unusable refresh token")

		return nil
	}

	if err = s.revoke(ctx, claims.TokenID, claims.RemainingTTL(timezone.Now())); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to revoke refresh token")

		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

func (s *serviceImpl) Profile(ctx context.Context) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Profile")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.currentUser(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return res, err
	}

	req.Normalize()

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepo.EmailTaken(ctx, *req.Email, user.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to check email")

			return res, fmt.Errorf("failed to check email: %w", err)
		}

		if taken {
			return res, errEmailTaken
		}
	}

	filter := shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)

	if err = s.userRepo.Update(ctx, shared.TransformFields(req, user.ID), filter); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, errEmailTaken
		}

		log.Error().Err(err).Msg("failed to update profile")

		return res, fmt.Errorf("failed to update profile: %w", err)
	}

	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(userModel.CacheKeyGet, user.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}
	}()

	if req.Email != nil {
		user.Email = *req.Email
	}

	if req.FullName != nil {
		user.FullName = req.FullName
	}

	if req.Phone != nil {
		user.Phone = req.Phone
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.NewPassword != req.NewPasswordConfirm {
		return failure.BadRequestFromString("new password confirmation does not match") // nolint:wrapcheck
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return err
	}

	if err = password.Verify(req.CurrentPassword, user.Password); err != nil {
		if errors.Is(err, password.ErrInvalidPassword) {
			return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
		}

		return fmt.Errorf("failed to verify password: %w", err)
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, user.ID)

	if err = s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// IsRevoked reports whether a token id was deny-listed by logout or rotation.
// A cache miss or a cache failure counts as not revoked.
func (s *serviceImpl) IsRevoked(ctx context.Context, tokenID string) bool {
	var marker string

	return s.cache.Get(ctx, shared.BuildCacheKey(constant.CacheKeyRevokedToken, tokenID), &marker) == nil
}

func (s *serviceImpl) revoke(ctx context.Context, tokenID string, ttl int) error {
	if ttl <= 0 {
		return nil
	}

	return s.cache.Save(ctx, shared.BuildCacheKey(constant.CacheKeyRevokedToken, tokenID), revokedMarker, ttl) // nolint:wrapcheck
}

func (s *serviceImpl) issue(ctx context.Context, user userModel.User) (res dto.LoginResponse, err error) {
	pair, err := s.jwt.GenerateTokenPair(ctx, jwt.Subject{UserID: user.ID, Email: user.Email, Role: user.Level})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.User.FromModel(user)
	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) currentUser(ctx context.Context) (userModel.User, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return userModel.User{}, failure.Unauthorized("missing user") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return user, nil
}
