package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("PLATFORM_FEE_PERCENT", "15")
	t.Setenv("DIRECTORY_CACHE_TTL", "30s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,192.168.1.1")

	LoadConfig()

	require.True(t, UseMemoryStore())
	assert.Equal(t, "8080", AppConfig.AppPort)
	assert.Equal(t, int64(15), AppConfig.PlatformFeePercent)
	assert.Equal(t, int64(3), AppConfig.PaymentFeePercent)
	assert.Equal(t, 30*time.Second, AppConfig.DirectoryTTL)
	assert.Equal(t, 2*time.Hour, AppConfig.ReminderLead)
	assert.Equal(t, 10*time.Minute, AppConfig.ReconcileInterval)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, TrustedProxyList())
	assert.False(t, IsProduction())
}
