package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "8000",
		Env:                      "development",
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		DBConnMaxLifetimeMinutes: 5,
		SessionSecret:            "secure-secret-at-least-32-chars-long",
		SessionTTLHours:          24,
		MediaDir:                 "media",
		MediaMaxUploadMB:         5,
		IndexCacheTTL:            20 * time.Second,
		TracingSamplerRatio:      1,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing session secret", func(c *Config) { c.SessionSecret = "" }},
		{"zero session ttl", func(c *Config) { c.SessionTTLHours = 0 }},
		{"missing media dir", func(c *Config) { c.MediaDir = "" }},
		{"zero upload size", func(c *Config) { c.MediaMaxUploadMB = 0 }},
		{"negative cache ttl", func(c *Config) { c.IndexCacheTTL = -time.Second }},
		{"sampler ratio out of range", func(c *Config) { c.TracingSamplerRatio = 1.5 }},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.SessionSecret = defaultSessionSecret
		}},
		{"weak db password in production", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("INDEX_CACHE_TTL", "45s")
	t.Setenv("PORT", "9100")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 45*time.Second, c.IndexCacheTTL)
	assert.Equal(t, "9100", c.Port)
	assert.Equal(t, 5, c.MediaMaxUploadMB)
	assert.Equal(t, int64(5*1024*1024), c.MaxUploadBytes())
}

func TestConfig_ConnectionStrings(t *testing.T) {
	c := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "yatube"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=yatube sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/yatube?sslmode=disable", c.DatabaseURL())
}
