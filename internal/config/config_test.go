package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "APP_PORT", "JWT_SECRET", "JWT_TTL", "DATABASE_URL", "DB_USER", "DB_HOST", "DB_PORT", "DB_NAME",
		"CORS_ALLOWED_ORIGINS", "S3_ENDPOINT", "S3_BUCKET_NAME")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":5000", cfg.HTTPAddress())
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.True(t, cfg.UsesInsecureSecret())
	require.Equal(t, InsecureJWTSecret, cfg.SigningSecret())
	require.Equal(t, "postgres://postgres:pw@localhost:5432/roamers_db?sslmode=disable", cfg.DSN())
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.False(t, cfg.S3.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://roamers.app")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_BUCKET_NAME", "spots")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.UsesInsecureSecret())
	require.Equal(t, "s3cret", cfg.SigningSecret())
	require.Equal(t, 2*time.Hour, cfg.JWTTTL)
	require.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN())
	require.Equal(t, []string{"http://localhost:5173", "https://roamers.app"}, cfg.CORSOrigins)
	require.True(t, cfg.S3.Enabled())
}

func TestAPNSConfig_Enabled(t *testing.T) {
	require.False(t, APNSConfig{AuthKeyPath: "#key.p8", KeyID: "k", TeamID: "t"}.Enabled())
	require.True(t, APNSConfig{AuthKeyPath: "key.p8", KeyID: "k", TeamID: "t"}.Enabled())
}
