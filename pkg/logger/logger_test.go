package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var ev map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		out = append(out, ev)
	}
	return out
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "farmacia-lotes", Output: &buf})

	log.Named("allocation").ForProduct("prod-1").Info().Int("units", 3).Msg("asignación confirmada")

	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "farmacia-lotes", ev["service"])
	assert.Equal(t, "allocation", ev["component"])
	assert.Equal(t, "prod-1", ev["product_id"])
	assert.Equal(t, float64(3), ev["units"])
	assert.Contains(t, ev, "time")
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "WARN", Output: &buf})

	log.Debug().Msg("oculto")
	log.Info().Msg("oculto")
	log.Warn().Msg("visible")

	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	assert.Equal(t, "visible", events[0]["message"])
	assert.NotContains(t, events[0], "service")
}

func TestLevelOf_DesconocidoOVacioEsInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, levelOf(""))
	assert.Equal(t, zerolog.InfoLevel, levelOf("verboso"))
	assert.Equal(t, zerolog.DebugLevel, levelOf(" debug "))
	assert.Equal(t, zerolog.ErrorLevel, levelOf("error"))
}

func TestNop_NoEscribe(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Named("x").ForProduct("p").Error().Msg("nada")
	})
}
