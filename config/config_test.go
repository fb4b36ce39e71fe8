package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prestige/config"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &config.Config{}

	assert.Equal(t, 180, cfg.BookingHorizonDays())
	assert.Equal(t, 90, cfg.BookingMaxDays())
	assert.Equal(t, 5, cfg.ImageMaxSizeMB())
	assert.Equal(t, "prestige.review.created", cfg.ReviewCreatedTopic())
}

func TestConfig_Overrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Booking.HorizonDays = 30
	cfg.Booking.MaxDays = 14
	cfg.App.Image.MaxSizeMB = 2
	cfg.Kafka.Topics.ReviewCreated = "reviews"

	assert.Equal(t, 30, cfg.BookingHorizonDays())
	assert.Equal(t, 14, cfg.BookingMaxDays())
	assert.Equal(t, 2, cfg.ImageMaxSizeMB())
	assert.Equal(t, "reviews", cfg.ReviewCreatedTopic())
}
