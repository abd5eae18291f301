package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDSNPrefersURL(t *testing.T) {
	cfg := DatabaseConfig{
		URL:  "postgres://user:pw@db.example.supabase.co:5432/postgres",
		Host: "localhost",
	}
	assert.Equal(t, cfg.URL, cfg.DSN())

	cfg.URL = ""
	cfg.Port = "5432"
	cfg.User = "postgres"
	cfg.Password = "secret"
	cfg.DBName = "sales"
	cfg.SSLMode = "disable"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=sales sslmode=disable", cfg.DSN())
}

func TestFromViperDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setDefaults()
	cfg := fromViper()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9, cfg.Stats.UTCOffsetHours)
	assert.False(t, cfg.Cache.Enabled)
	assert.EqualValues(t, 10, cfg.Database.MaxConcurrentTx)
}

func TestFromViperLogLevelOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setDefaults()
	viper.Set("SERVER_MODE", "release")
	viper.Set("LOG_LEVEL", "warn")

	cfg := fromViper()
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "warn", cfg.LogLevel)
}
