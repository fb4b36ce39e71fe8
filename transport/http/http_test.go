package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/config"
	"prestige/infras/postgres"
	cacheMocks "prestige/shared/cache/mocks"
)

func newServer(t *testing.T, pingErr error) (*HTTP, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	cache.EXPECT().Ping(gomock.Any()).Return(pingErr).AnyTimes()

	h := &HTTP{
		Config: &config.Config{},
		DB:     &postgres.Connection{Read: conn, Write: conn},
		Cache:  cache,
	}
	h.state.Store(int32(ServerStateReady))

	return h, mock
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h, mock := newServer(t, nil)
		mock.ExpectPing()
		mock.ExpectPing()

		rec := httptest.NewRecorder()
		h.health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"state":"ready","postgres":"up","redis":"up"}}`, rec.Body.String())
	})

	t.Run("redis down", func(t *testing.T) {
		h, mock := newServer(t, errors.New("dial tcp: refused"))
		mock.ExpectPing()
		mock.ExpectPing()

		rec := httptest.NewRecorder()
		h.health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("draining", func(t *testing.T) {
		h, _ := newServer(t, nil)
		h.state.Store(int32(ServerStateInGracePeriod))

		rec := httptest.NewRecorder()
		h.health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "SHUT DOWN")
	})
}

func TestServerState_String(t *testing.T) {
	assert.Equal(t, "ready", ServerStateReady.String())
	assert.Equal(t, "cleanup_period", ServerStateInCleanupPeriod.String())
	assert.Equal(t, "starting", ServerState(0).String())
}
