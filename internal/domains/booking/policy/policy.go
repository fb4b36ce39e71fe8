// Package policy decides whether a booking date range may be accepted.
package policy

import (
	"errors"
	"net/http"
	"prestige/config"
	"prestige/internal/domains/booking/pricing"
	"prestige/shared/failure"
	"prestige/shared/timezone"
	"time"
)

var (
	ErrInvalidRange = errors.New("end date must not be before start date")
	ErrPastDate     = errors.New("start date must not be in the past")
	ErrOutOfWindow  = errors.New("dates are outside the booking window")
	ErrTooLong      = errors.New("booking exceeds the maximum rental length")
	ErrOverlap      = errors.New("vehicle is already booked for these dates")
)

const hoursPerDay = 24

type Config struct {
	HorizonDays     int
	MaxDays         int
	CurrentYearOnly bool
}

func FromConfig(cfg *config.Config) Config {
	return Config{
		HorizonDays:     cfg.BookingHorizonDays(),
		MaxDays:         cfg.BookingMaxDays(),
		CurrentYearOnly: cfg.Booking.CurrentYearOnly,
	}
}

// Validate checks a proposed range against today. Checks run in a fixed order and the
// first failing one wins; the overlap check needs the store and lives with the caller.
func Validate(today, start, end time.Time, cfg Config) error {
	today = timezone.DateOf(today)
	start = timezone.DateOf(start)
	end = timezone.DateOf(end)

	if end.Before(start) {
		return ErrInvalidRange
	}

	if start.Before(today) {
		return ErrPastDate
	}

	if int(start.Sub(today).Hours()/hoursPerDay) > cfg.HorizonDays {
		return ErrOutOfWindow
	}

	if cfg.CurrentYearOnly && (start.Year() != today.Year() || end.Year() != today.Year()) {
		return ErrOutOfWindow
	}

	if pricing.DaysCount(start, end) > cfg.MaxDays {
		return ErrTooLong
	}

	return nil
}

// Overlaps reports whether the closed ranges [aStart, aEnd] and [bStart, bEnd] share a day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !timezone.DateOf(aStart).After(timezone.DateOf(bEnd)) && !timezone.DateOf(aEnd).Before(timezone.DateOf(bStart))
}

// AsFailure maps policy errors onto HTTP failures, 409 for overlaps and 400 otherwise.
func AsFailure(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOverlap):
		return failure.Wrap(http.StatusConflict, err)
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrPastDate),
		errors.Is(err, ErrOutOfWindow), errors.Is(err, ErrTooLong):
		return failure.Wrap(http.StatusBadRequest, err)
	default:
		return err
	}
}
