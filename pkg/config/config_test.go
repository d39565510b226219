package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Contains(t, cfg.Database.DSN(), "dbname=roster")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_PATH", "/tmp/roster.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("BCRYPT_COST", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/roster.db", cfg.Database.DSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DATABASE_DRIVER", "oracle"},
		{"bcrypt cost too low", "BCRYPT_COST", "2"},
		{"unknown rate limit backend", "RATE_LIMIT_BACKEND", "memcached"},
		{"bad cron", "SWEEP_CRON", "every night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDSN_MySQL(t *testing.T) {
	d := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Name: "roster"}
	assert.Equal(t, "u:p@tcp(db:3306)/roster?charset=utf8mb4&parseTime=True&loc=UTC", d.DSN())
}
