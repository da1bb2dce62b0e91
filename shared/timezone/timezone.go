package timezone

import (
	"guestroom/config"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation *time.Location

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("APP_TIMEZONE is not set, booking days are counted in UTC")

		name = "UTC"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown APP_TIMEZONE, booking days are counted in UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

func location() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now is the wall clock of the hostels. Day boundaries of bookings follow it.
func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func GetLocation() *time.Location {
	return location()
}

// Parse reads value as a local time of the hostels, so "2025-03-01" is local midnight.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
