package postgres

//nolint:revive
import (
	"cmp"
	"guestroom/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads and writes. Booking transactions always run on Write so the row
// locks and the overlap check see the same data.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect("read", cfg, pg.Read),
		Write: connect("write", cfg, pg.Write),
	}
}

// DSN builds the connection URL of endpoint. DB_POSTGRES_PREFIX is prepended to the database name.
func DSN(cfg *config.Config, endpoint config.PostgresEndpoint) string {
	query := url.Values{}
	query.Set("sslmode", cmp.Or(endpoint.SSLMode, "disable"))

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(name string, cfg *config.Config, target config.PostgresEndpoint) *sqlx.DB {
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second
	dbName := cfg.DB.Postgres.Prefix + target.Name

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", DSN(cfg, target))
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			log.Info().Str("name", name).Str("host", target.Host).Str("db", dbName).Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", name).
			Str("host", target.Host).
			Str("db", dbName).
			Int("attempt", attempt).
			Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	log.Fatal().Str("name", name).Msg("Giving up connecting to database")

	return nil
}
