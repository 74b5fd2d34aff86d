package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	cfg.JWT.Secret = "a-test-secret-that-is-long-enough-123"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "geeknews:", cfg.Storage.Prefix)
	assert.Equal(t, 3, cfg.Feed.CommentMinLength)
	assert.Equal(t, 300, cfg.Feed.CommentMaxLength)
	assert.Equal(t, 15*time.Second, cfg.Feed.CommentInterval)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("Missing JWT secret", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Short secret rejected in prod", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.App.Env = "prod"
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown storage driver", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Storage.Driver = "sqlite"
		assert.ErrorContains(t, cfg.Validate(), "unknown storage driver")
	})

	t.Run("Postgres requires database settings", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Storage.Driver = "postgres"
		assert.Error(t, cfg.Validate())

		cfg.Database.Host = "localhost"
		cfg.Database.User = "geek"
		cfg.Database.DBName = "geeknews"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Redis needed for events", func(t *testing.T) {
		cfg := defaultConfig(t)
		assert.False(t, cfg.UseRedis())

		cfg.Redis.EventsEnabled = true
		cfg.Redis.Addr = ""
		assert.True(t, cfg.UseRedis())
		assert.ErrorContains(t, cfg.Validate(), "redis address")
	})

	t.Run("Invalid comment limits", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Feed.CommentMaxLength = 2
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseURL(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p", DBName: "n", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.URL())
	assert.Contains(t, d.DSN(), "host=db user=u")
}
