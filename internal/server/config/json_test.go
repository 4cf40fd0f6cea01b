package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http":              "www.example:9000",
		"database_dsn":                    "resumes.db",
		"access_token_secret":             "acc",
		"refresh_token_secret":            "ref",
		"admin_secret":                    "adm",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": 180000000000,
		"refresh_token_store":             "redis",
		"redis_addr":                      "redis:6379",
		"smtp_host":                       "smtp.example.com",
		"s3_bucket":                       "bucket",
		"cors_allowed_origins":            []string{"https://app.example"},
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "resumes.db", cfg.DatabaseDSN)
		assert.Equal(t, "acc", cfg.AccessTokenSecret)
		assert.Equal(t, "ref", cfg.RefreshTokenSecret)
		assert.Equal(t, "adm", cfg.AdminSecret)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, StoreRedis, cfg.RefreshTokenStore)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, []string{"https://app.example"}, cfg.CORSAllowedOrigins)
	})

	t.Run("missing keys keep existing values", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", path})

		assert.Equal(t, "us-east-1", cfg.S3Region)
		assert.Equal(t, 10, cfg.BcryptCost)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", BcryptCost: 4}
		parseJson(cfg, []string{"-a", ":1"})

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, 4, cfg.BcryptCost)
	})

	t.Run("missing file panics", func(t *testing.T) {
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}) })
	})

	t.Run("malformed json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", bad}) })
	})
}
