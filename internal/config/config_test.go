package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9095", cfg.Port)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, 0.02, cfg.RiskFreeRate)
	assert.Equal(t, 15*time.Minute, cfg.PriceCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("START_DATE", "2023-01-02")
	t.Setenv("RISK_FREE_RATE", "0.035")
	t.Setenv("PRICE_CACHE_TTL", "1h")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, 0.035, cfg.RiskFreeRate)
	assert.Equal(t, time.Hour, cfg.PriceCacheTTL)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("START_DATE", "12/09/2024")
	_, err := Load()
	assert.ErrorContains(t, err, "START_DATE")
}
