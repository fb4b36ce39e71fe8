package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/config"
	"prestige/infras/otel/mocks"
	userMocks "prestige/internal/domains/user/mocks"
	"prestige/internal/domains/user/model"
	"prestige/internal/domains/user/model/dto"
	"prestige/internal/domains/user/service"
	cacheMocks "prestige/shared/cache/mocks"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
)

const (
	adminID    = "9f86d081-884c-4d63-9b1e-3e5c8a4f2b70"
	customerID = "0cc175b9-c0f1-4b6a-831c-399e26977266"
)

type fixture struct {
	repo *userMocks.MockUser
	svc  service.User
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{repo: userMocks.NewMockUser(ctrl)}
	f.svc = service.New(f.repo, &config.Config{}, cache, mocks.NewOtel())

	return f
}

func asRole(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func customer() model.User {
	return model.User{ID: customerID, Email: "driver@prestige.test", Level: constant.RoleUser, Active: true}
}

func strPtr(v string) *string { return &v }

func TestUserService_Create(t *testing.T) {
	req := dto.CreateUserRequest{Email: " Fleet@Prestige.test", Password: "12345678", Level: constant.RoleAdmin}

	t.Run("creates with normalized email", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), "fleet@prestige.test", constant.Empty).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u model.User) error {
			assert.Equal(t, "fleet@prestige.test", u.Email)
			assert.NotEqual(t, "12345678", u.Password)
			assert.Equal(t, adminID, u.CreatedBy)

			return nil
		})

		res, err := f.svc.Create(asRole(adminID, constant.RoleAdmin), req)

		require.NoError(t, err)
		assert.Equal(t, constant.RoleAdmin, res.Level)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Create(asRole(adminID, constant.RoleAdmin), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Create(asRole(adminID, constant.RoleAdmin), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("admin cannot grant superadmin", func(t *testing.T) {
		f := newFixture(t)

		superReq := req
		superReq.Level = constant.RoleSuperAdmin

		_, err := f.svc.Create(asRole(adminID, constant.RoleAdmin), superReq)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestUserService_GetAll(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 1}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.User{customer()}, nil)

	res, err := f.svc.GetAll(asRole(adminID, constant.RoleAdmin), params, gDto.FilterGroup{})

	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}

func TestUserService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer(), nil)

		res, err := f.svc.Get(context.Background(), customerID)

		require.NoError(t, err)
		assert.Equal(t, "driver@prestige.test", res.Email)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(context.Background(), customerID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(asRole(adminID, constant.RoleAdmin), dto.UpdateUserRequest{}, customerID)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("changes email", func(t *testing.T) {
		f := newFixture(t)
		updated := customer()
		updated.Email = "new@prestige.test"

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer(), nil),
			f.repo.EXPECT().EmailTaken(gomock.Any(), "new@prestige.test", customerID).Return(false, nil),
			f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, adminID, fields[constant.FieldModifiedBy])

					return nil
				}),
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil),
		)

		res, err := f.svc.Update(asRole(adminID, constant.RoleAdmin), dto.UpdateUserRequest{Email: strPtr(" New@Prestige.test")}, customerID)

		require.NoError(t, err)
		assert.Equal(t, "new@prestige.test", res.Email)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer(), nil)
		f.repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), customerID).Return(true, nil)

		_, err := f.svc.Update(asRole(adminID, constant.RoleAdmin), dto.UpdateUserRequest{Email: strPtr("taken@prestige.test")}, customerID)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("superadmin promotes", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer(), nil).Times(2)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Update(asRole(adminID, constant.RoleSuperAdmin), dto.UpdateUserRequest{Level: strPtr(constant.RoleSuperAdmin)}, customerID)

		assert.NoError(t, err)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("own account", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Delete(asRole(adminID, constant.RoleAdmin), adminID)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("still referenced", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer(), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		err := f.svc.Delete(asRole(adminID, constant.RoleAdmin), customerID)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(customer(), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(asRole(adminID, constant.RoleAdmin), customerID))
	})
}
