package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/config"
	"prestige/infras/jwt"
	jwtMocks "prestige/infras/jwt/mocks"
	"prestige/infras/otel/mocks"
	"prestige/internal/domains/auth/model/dto"
	"prestige/internal/domains/auth/service"
	userMocks "prestige/internal/domains/user/mocks"
	userModel "prestige/internal/domains/user/model"
	cacheMocks "prestige/shared/cache/mocks"
	"prestige/shared/constant"
	"prestige/shared/failure"
	"prestige/shared/password"
)

const (
	userID   = "0cc175b9-c0f1-4b6a-831c-399e26977266"
	tokenID  = "92eb5ffe-e6ae-4b1c-9e3c-1f5d2f7a8b90"
	secretPw = "correct horse battery"
)

type fixture struct {
	users *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
	cache *cacheMocks.MockRedisCache
	svc   service.Auth
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		users: userMocks.NewMockUser(ctrl),
		jwt:   jwtMocks.NewMockJWT(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.users, f.jwt, f.cache, &config.Config{}, mocks.NewOtel())

	return f
}

func storedUser(t *testing.T) userModel.User {
	t.Helper()

	hashed, err := password.Hash(secretPw)
	require.NoError(t, err)

	return userModel.User{
		ID:       userID,
		Email:    "driver@prestige.test",
		Password: hashed,
		Level:    constant.RoleUser,
		Active:   true,
	}
}

func tokenPair() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
}

func refreshClaims(id string, ttl time.Duration) *jwt.Claims {
	return &jwt.Claims{
		UserID:  userID,
		TokenID: id,
		Type:    jwt.RefreshToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func authContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyTokenID, tokenID)

	return context.WithValue(ctx, constant.ContextKeyTokenExp, time.Now().Add(10*time.Minute))
}

func strPtr(v string) *string { return &v }

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Email:           "  Driver@Prestige.TEST ",
		Password:        secretPw,
		PasswordConfirm: secretPw,
		FullName:        strPtr("Test Driver"),
	}

	t.Run("creates a customer and issues tokens", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().EmailTaken(gomock.Any(), "driver@prestige.test", constant.Empty).Return(false, nil)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u userModel.User) error {
			assert.Equal(t, "driver@prestige.test", u.Email)
			assert.Equal(t, constant.RoleUser, u.Level)
			assert.True(t, u.Active)
			assert.Equal(t, u.ID, u.CreatedBy)
			assert.NoError(t, password.Verify(secretPw, u.Password))

			return nil
		})
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s jwt.Subject) (*jwt.TokenPair, error) {
			assert.Equal(t, "driver@prestige.test", s.Email)
			assert.Equal(t, constant.RoleUser, s.Role)

			return tokenPair(), nil
		})

		res, err := f.svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "driver@prestige.test", res.User.Email)
		assert.Equal(t, "Test Driver", *res.User.FullName)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Register(context.Background(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Register(context.Background(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		_, err := f.svc.Register(context.Background(), req)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		setupMock func(f fixture, u userModel.User)
		wantCode  int
	}{
		{
			name:     "success stamps last login",
			password: secretPw,
			setupMock: func(f fixture, u userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(u, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					assert.Contains(t, fields, userModel.FieldLastLogin)

					return nil
				})
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), jwt.Subject{UserID: u.ID, Email: u.Email, Role: u.Level}).Return(tokenPair(), nil)
			},
		},
		{
			name:     "unknown email",
			password: secretPw,
			setupMock: func(f fixture, _ userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong password",
			password: "not the password",
			setupMock: func(f fixture, u userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(u, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "deactivated",
			password: secretPw,
			setupMock: func(f fixture, u userModel.User) {
				u.Active = false
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(u, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "last login failure does not block",
			password: secretPw,
			setupMock: func(f fixture, u userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(u, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any()).Return(tokenPair(), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f, storedUser(t))

			res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "driver@prestige.test", Password: tt.password})
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "refresh", res.RefreshToken)
			assert.Equal(t, userID, res.User.ID)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the refresh token", func(t *testing.T) {
		f := newFixture(t)
		claims := refreshClaims("old-refresh", time.Hour)

		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
		f.cache.EXPECT().Get(gomock.Any(), "auth:revoked:old-refresh", gomock.Any()).Return(errors.New("cache miss"))
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t), nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any()).Return(tokenPair(), nil)
		f.cache.EXPECT().Save(gomock.Any(), "auth:revoked:old-refresh", "1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, _ any, ttl int) error {
			assert.InDelta(t, 3600, ttl, 5)

			return nil
		})

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
	})

	t.Run("revoked", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), jwt.RefreshToken).Return(refreshClaims("old-refresh", time.Hour), nil)
		f.cache.EXPECT().Get(gomock.Any(), "auth:revoked:old-refresh", gomock.Any()).Return(nil)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newFixture(t)
		user := storedUser(t)
		user.Active = false

		f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), jwt.RefreshToken).Return(refreshClaims("old-refresh", time.Hour), nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("deny-lists the access token", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Save(gomock.Any(), "auth:revoked:"+tokenID, "1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, _ any, ttl int) error {
			assert.InDelta(t, 600, ttl, 5)

			return nil
		})

		require.NoError(t, f.svc.Logout(authContext(), dto.LogoutRequest{}))
	})

	t.Run("also revokes the refresh token", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Save(gomock.Any(), "auth:revoked:"+tokenID, "1", gomock.Any()).Return(nil)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(refreshClaims("refresh-id", time.Hour), nil)
		f.cache.EXPECT().Save(gomock.Any(), "auth:revoked:refresh-id", "1", gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Logout(authContext(), dto.LogoutRequest{RefreshToken: "refresh"}))
	})

	t.Run("ignores a foreign refresh token", func(t *testing.T) {
		f := newFixture(t)
		claims := refreshClaims("refresh-id", time.Hour)
		claims.UserID = "someone-else"

		f.cache.EXPECT().Save(gomock.Any(), "auth:revoked:"+tokenID, "1", gomock.Any()).Return(nil)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)

		require.NoError(t, f.svc.Logout(authContext(), dto.LogoutRequest{RefreshToken: "refresh"}))
	})

	t.Run("cache failure", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		assert.Error(t, f.svc.Logout(authContext(), dto.LogoutRequest{}))
	})

	t.Run("no token in context", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Logout(context.Background(), dto.LogoutRequest{})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Run("changes email when free", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t), nil)
		f.users.EXPECT().EmailTaken(gomock.Any(), "new@prestige.test", userID).Return(false, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, strPtr("new@prestige.test"), fields[userModel.FieldEmail])
			assert.NotContains(t, fields, userModel.FieldFullName)

			return nil
		})
		f.cache.EXPECT().Delete(gomock.Any(), "user:get:"+userID).Return(nil).AnyTimes()

		res, err := f.svc.UpdateProfile(authContext(), dto.UpdateProfileRequest{Email: strPtr("NEW@prestige.test")})
		require.NoError(t, err)
		assert.Equal(t, "new@prestige.test", res.Email)
	})

	t.Run("email used by another account", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t), nil)
		f.users.EXPECT().EmailTaken(gomock.Any(), "taken@prestige.test", userID).Return(true, nil)

		_, err := f.svc.UpdateProfile(authContext(), dto.UpdateProfileRequest{Email: strPtr("taken@prestige.test")})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("same email skips the check", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t), nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		_, err := f.svc.UpdateProfile(authContext(), dto.UpdateProfileRequest{Email: strPtr("driver@prestige.test"), FullName: strPtr("D")})
		require.NoError(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateProfile(authContext(), dto.UpdateProfileRequest{})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(f fixture, u userModel.User)
		wantCode  int
	}{
		{
			name: "success",
			req:  dto.ChangePasswordRequest{CurrentPassword: secretPw, NewPassword: "a brand new secret", NewPasswordConfirm: "a brand new secret"},
			setupMock: func(f fixture, u userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(u, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					hashed, _ := fields[userModel.FieldPassword].(string)
					assert.NoError(t, password.Verify("a brand new secret", hashed))
					assert.Equal(t, userID, fields[constant.FieldModifiedBy])

					return nil
				})
			},
		},
		{
			name:      "confirmation mismatch",
			req:       dto.ChangePasswordRequest{CurrentPassword: secretPw, NewPassword: "a brand new secret", NewPasswordConfirm: "something else"},
			setupMock: func(fixture, userModel.User) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "a brand new secret", NewPasswordConfirm: "a brand new secret"},
			setupMock: func(f fixture, u userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(u, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "user gone",
			req:  dto.ChangePasswordRequest{CurrentPassword: secretPw, NewPassword: "a brand new secret", NewPasswordConfirm: "a brand new secret"},
			setupMock: func(f fixture, _ userModel.User) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f, storedUser(t))

			err := f.svc.ChangePassword(authContext(), tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAuthService_IsRevoked(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "auth:revoked:gone", gomock.Any()).Return(nil)
	f.cache.EXPECT().Get(gomock.Any(), "auth:revoked:live", gomock.Any()).Return(errors.New("redis: nil"))

	assert.True(t, f.svc.IsRevoked(context.Background(), "gone"))
	assert.False(t, f.svc.IsRevoked(context.Background(), "live"))
}
