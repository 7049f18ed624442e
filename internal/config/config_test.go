package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.JWTExpirationHours)
	assert.Equal(t, 24, cfg.JWTRefreshHours)
	assert.Equal(t, 3, cfg.WorkerPoolSize)
	assert.True(t, cfg.DeudaSyncOnStart)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEUDA_SYNC_INTERVAL_MINUTES", "0")
	t.Setenv("NOMBRE_NEGOCIO", "Almacén Don Pepe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.EsProduccion())
	assert.Equal(t, 0, cfg.DeudaSyncIntervalMinutes)
	assert.Equal(t, "Almacén Don Pepe", cfg.NombreNegocio)
}
