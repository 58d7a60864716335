package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/pkg/logger"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestNew_JSONConServicioYTenant(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "tenis-ops", Output: &buf})

	log.Component("transfer").WithTenant("company-1", "user-1").Info().Str("transfer_id", "t-1").Msg("transición")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "tenis-ops", entry["service"])
	assert.Equal(t, "transfer", entry["component"])
	assert.Equal(t, "company-1", entry["company_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "t-1", entry["transfer_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestWithTenant_OmiteCamposVacios(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Output: &buf})

	log.WithTenant("", "").Info().Msg("sin sesión")

	entry := lastEntry(t, &buf)
	assert.NotContains(t, entry, "company_id")
	assert.NotContains(t, entry, "user_id")
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.Equal(t, "visible", lastEntry(t, &buf)["message"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}
