package helper

import (
	"net/url"
	"prestige/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_versions"
	cfg.DB.Postgres.Write.Host = "db.internal"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "prestige"
	cfg.DB.Postgres.Write.Password = "p@ss word"
	cfg.DB.Postgres.Write.Name = "rental"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	dsn, err := url.Parse(databaseURL(cfg))
	require.NoError(t, err)

	password, _ := dsn.User.Password()

	assert.Equal(t, "db.internal:5432", dsn.Host)
	assert.Equal(t, "/test_rental", dsn.Path)
	assert.Equal(t, "p@ss word", password)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
	assert.Equal(t, "schema_versions", dsn.Query().Get("x-migrations-table"))
}

func TestRun_UnknownAction(t *testing.T) {
	err := Run(&config.Config{}, Action("sideways"))

	assert.ErrorIs(t, err, ErrUnknownAction)
}
