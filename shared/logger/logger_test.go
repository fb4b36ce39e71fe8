package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"prestige/config"
	"prestige/shared/constant"
	"prestige/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{value: "debug", want: zerolog.DebugLevel},
		{value: "warn", want: zerolog.WarnLevel},
		{value: "error", want: zerolog.ErrorLevel},
		{value: "", want: zerolog.InfoLevel},
		{value: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.value))
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(original)

	cfg := &config.Config{}
	cfg.Server.LogLevel = "warn"

	logger.SetLogLevel(cfg)

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer

	l := logger.New(&buf, constant.ServerEnvProduction)
	l.Info().Str("vehicle_id", "v-1").Msg("vehicle updated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "vehicle updated", line["message"])
	assert.Equal(t, "v-1", line["vehicle_id"])
	assert.Contains(t, line, "time")
}

func TestNew_DevelopmentWritesConsole(t *testing.T) {
	var buf bytes.Buffer

	l := logger.New(&buf, constant.ServerEnvDevelopment)
	l.Info().Msg("booking created")

	assert.Contains(t, buf.String(), "booking created")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestErrorWithStack(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("overlap check failed"))

	assert.Contains(t, buf.String(), "overlap check failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
