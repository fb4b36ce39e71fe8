package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"prestige/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName = "postgres"

	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Endpoint is one side of the read/write split.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, "read", Endpoint(cfg.DB.Postgres.Read)),
		Write: connect(cfg, "write", Endpoint(cfg.DB.Postgres.Write)),
	}
}

// URL is the connection string of endpoint, with the configured database prefix applied.
func URL(cfg *config.Config, endpoint Endpoint) *url.URL {
	query := url.Values{}

	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	return &url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     cfg.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}
}

// Ping checks both pools; a nil pool means the connection never came up.
func (c *Connection) Ping(ctx context.Context) error {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			return fmt.Errorf("%s pool not connected", name)
		}

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping %s pool: %w", name, err)
		}
	}

	return nil
}

func (c *Connection) Close() error {
	var errs []error

	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db != nil {
			errs = append(errs, db.Close())
		}
	}

	return errors.Join(errs...)
}

// connect retries until the database answers or the attempts run out, in which
// case the pool is nil and the health check reports postgres down.
func connect(cfg *config.Config, name string, endpoint Endpoint) *sqlx.DB {
	dsn := URL(cfg, endpoint).String()
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", cfg.DB.Postgres.Prefix+endpoint.Name).
		Logger()

	for attempt := range max(cfg.DB.Postgres.MaxRetry, 1) {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt+1).Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	logger.Error().Msg("Giving up on database connection")

	return nil
}
