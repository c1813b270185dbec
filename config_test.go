package authgate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("test-secret")
	return cfg
}

func TestDefaultConfigValidatesOnceSecretIsSet(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate(), "there is no default secret")

	cfg.JWT.Secret = []byte("test-secret")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "refresh", cfg.Cookie.Name)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *Config) { c.JWT.RefreshTTL = 0 }},
		{"refresh shorter than access", func(c *Config) { c.JWT.AccessTTL = time.Hour; c.JWT.RefreshTTL = time.Minute }},
		{"empty store prefix", func(c *Config) { c.Store.RedisPrefix = "" }},
		{"zero store timeout", func(c *Config) { c.Store.Timeout = 0 }},
		{"empty cookie name", func(c *Config) { c.Cookie.Name = "" }},
		{"empty cookie path", func(c *Config) { c.Cookie.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
