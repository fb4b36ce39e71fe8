package policy_test

import (
	"errors"
	"net/http"
	"prestige/internal/domains/booking/policy"
	"prestige/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var defaults = policy.Config{HorizonDays: 180, MaxDays: 90}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	today := date(2025, 5, 10)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		cfg   policy.Config
		err   error
	}{
		{name: "valid", start: date(2025, 5, 12), end: date(2025, 5, 15), cfg: defaults},
		{name: "starts today", start: today, end: today, cfg: defaults},
		{name: "end before start", start: date(2025, 5, 15), end: date(2025, 5, 12), cfg: defaults, err: policy.ErrInvalidRange},
		{name: "past start", start: date(2025, 5, 9), end: date(2025, 5, 12), cfg: defaults, err: policy.ErrPastDate},
		{name: "horizon edge", start: date(2025, 11, 6), end: date(2025, 11, 6), cfg: defaults},
		{name: "beyond horizon", start: date(2025, 11, 7), end: date(2025, 11, 8), cfg: defaults, err: policy.ErrOutOfWindow},
		{name: "max length", start: date(2025, 6, 1), end: date(2025, 8, 29), cfg: defaults},
		{name: "too long", start: date(2025, 6, 1), end: date(2025, 8, 30), cfg: defaults, err: policy.ErrTooLong},
		{
			name:  "next year with current year cutoff",
			start: date(2025, 12, 30), end: date(2026, 1, 2),
			cfg: policy.Config{HorizonDays: 365, MaxDays: 90, CurrentYearOnly: true},
			err: policy.ErrOutOfWindow,
		},
		{
			name:  "next year without cutoff",
			start: date(2025, 12, 30), end: date(2026, 1, 2),
			cfg: policy.Config{HorizonDays: 365, MaxDays: 90},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(today, tt.start, tt.end, tt.cfg)

			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestValidate_Order(t *testing.T) {
	today := date(2025, 5, 10)

	// inverted and in the past: the range check runs first
	err := policy.Validate(today, date(2025, 5, 5), date(2025, 5, 1), defaults)
	assert.ErrorIs(t, err, policy.ErrInvalidRange)

	// too long and beyond the horizon: the window check runs first
	err = policy.Validate(today, date(2026, 1, 1), date(2026, 6, 1), defaults)
	assert.ErrorIs(t, err, policy.ErrOutOfWindow)
}

func TestOverlaps(t *testing.T) {
	confirmedStart, confirmedEnd := date(2025, 6, 10), date(2025, 6, 20)

	assert.True(t, policy.Overlaps(confirmedStart, confirmedEnd, date(2025, 6, 15), date(2025, 6, 25)))
	assert.True(t, policy.Overlaps(confirmedStart, confirmedEnd, date(2025, 6, 20), date(2025, 6, 22)))
	assert.True(t, policy.Overlaps(confirmedStart, confirmedEnd, date(2025, 6, 1), date(2025, 6, 30)))
	assert.False(t, policy.Overlaps(confirmedStart, confirmedEnd, date(2025, 6, 21), date(2025, 6, 25)))
	assert.False(t, policy.Overlaps(confirmedStart, confirmedEnd, date(2025, 6, 1), date(2025, 6, 9)))
}

func TestAsFailure(t *testing.T) {
	assert.NoError(t, policy.AsFailure(nil))
	assert.Equal(t, http.StatusConflict, failure.GetCode(policy.AsFailure(policy.ErrOverlap)))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(policy.AsFailure(policy.ErrTooLong)))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(policy.AsFailure(policy.ErrPastDate)))
	assert.ErrorIs(t, policy.AsFailure(policy.ErrOverlap), policy.ErrOverlap)

	other := errors.New("db down")
	assert.Equal(t, other, policy.AsFailure(other))
}
