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

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "credsimples", cfg.Database.Name)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "0 0 0 * * *", cfg.Scheduler.OverdueSpec)
	assert.Equal(t, "America/Sao_Paulo", cfg.Scheduler.Timezone)
	assert.Equal(t, time.Hour, cfg.Report.CacheTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Database:  DatabaseConfig{Host: "localhost", Name: "credsimples", User: "postgres", MaxOpenConns: 25},
			Scheduler: SchedulerConfig{Timezone: "America/Sao_Paulo"},
			Report:    ReportConfig{Timeout: 30 * time.Second},
			Health:    HealthConfig{Timeout: 5 * time.Second},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing server port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing database name", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bogus timezone", func(t *testing.T) {
		cfg := valid()
		cfg.Scheduler.Timezone = "Mars/Olympus"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero report timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Report.Timeout = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		Name:     "credsimples",
		User:     "app",
		Password: "secret",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 dbname=credsimples user=app password=secret sslmode=require",
		db.DSN())
}
