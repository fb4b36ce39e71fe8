package timezone

import (
	"prestige/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation  = time.UTC
	locationOnce sync.Once
)

func loadLocation() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use an IANA name such as 'Europe/Moscow'")

		return
	}

	appLocation = loc

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// GetLocation returns the application timezone, loading it on first use.
func GetLocation() *time.Location {
	locationOnce.Do(loadLocation)

	return appLocation
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// DateOf drops the clock part of t, keeping its calendar day as midnight UTC.
// Calendar dates compared or subtracted through DateOf never drift by an offset.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in the application timezone.
func Today() time.Time {
	return DateOf(Now())
}

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck
	}

	return DateOf(t), nil
}
