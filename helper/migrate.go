package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/postgres"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStepUp Direction = "step-up"
	DirectionDrop   Direction = "drop"
)

func ParseDirection(value string) (Direction, error) {
	switch direction := Direction(value); direction {
	case DirectionUp, DirectionDown, DirectionStepUp, DirectionDrop:
		return direction, nil
	default:
		return "", fmt.Errorf("unknown migration direction %q, use up, down, step-up or drop", value)
	}
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	dsn := postgres.DSN(cfg, cfg.DB.Postgres.Write)
	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		dsn += "&x-migrations-table=" + url.QueryEscape(table)
	}

	mig, err := migrate.New(migrationsSource, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Run applies the schema migrations in the given direction. Down rolls back one step, Drop
// rolls back everything.
func Run(cfg *config.Config, direction Direction) error {
	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch direction {
	case DirectionUp:
		err = mig.Up()
	case DirectionStepUp:
		err = mig.Steps(1)
	case DirectionDown:
		err = mig.Steps(-1)
	case DirectionDrop:
		err = mig.Down()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, verr := mig.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", verr)
	}

	log.Info().Str("direction", string(direction)).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations applied")

	return nil
}

func Up(cfg *config.Config) error {
	return Run(cfg, DirectionUp)
}
