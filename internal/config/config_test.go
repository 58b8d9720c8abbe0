package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 330, cfg.Attendance.FixedOffsetMinutes)
	assert.Equal(t, "Websocket", cfg.Attendance.Medium)
	assert.False(t, cfg.Attendance.AutoClose)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ATTENDANCE_FIXED_OFFSET_MINUTES", "420")
	t.Setenv("ATTENDANCE_AUTO_CLOSE", "true")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 420, cfg.Attendance.FixedOffsetMinutes)
	assert.True(t, cfg.Attendance.AutoClose)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing db password", map[string]string{"DB_PASSWORD": "", "JWT_SECRET_KEY": "x"}},
		{"missing jwt secret", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": ""}},
		{"bad port", map[string]string{"DB_PORT": "abc"}},
		{"bad bool", map[string]string{"ATTENDANCE_AUTO_CLOSE": "maybe"}},
		{"unknown store", map[string]string{"SESSION_STORE": "etcd"}},
		{"bad expiration", map[string]string{"JWT_ACCESS_EXPIRATION_TIME": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		User: "u", Password: "p", Host: "db", Port: 5433, Name: "hris", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5433/hris?sslmode=disable", cfg.DatabaseURL())
}
