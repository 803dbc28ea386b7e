package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST", "ENV", "ALLOWED_ORIGINS",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"PRESENCE_CATCHUP_DAYS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Presence.CatchupDays)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "100")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PRESENCE_CATCHUP_DAYS", "7")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example , https://b.example")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 7, cfg.Presence.CatchupDays)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	cfg := Load()
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_USER", "chat")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "chatdb")

	cfg := Load()
	assert.Equal(t, "chat:secret@tcp(db:3307)/chatdb?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}

func TestAddr(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8081")

	cfg := Load()
	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
}
