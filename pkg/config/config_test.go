package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 30, cfg.Inventory.ExpiryWarningDays)
	assert.Equal(t, 30*24*time.Hour, cfg.Inventory.ExpiryWarning())
	assert.Equal(t, 24*time.Hour, cfg.Inventory.SweepInterval)
	assert.False(t, cfg.Inventory.StrictReconcile)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromViper_LeeValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("EXPIRY_WARNING_DAYS", "15")
	v.Set("RECONCILE_STRICT", "true")
	v.Set("DB_DRIVER", "memory")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Inventory.ExpiryWarningDays)
	assert.True(t, cfg.Inventory.StrictReconcile)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaContrasena(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "farmacia", Password: "p@ss:word", DBName: "lotes", SSLMode: "disable"}
	assert.Equal(t, "postgres://farmacia:p%40ss%3Aword@db:5432/lotes?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
