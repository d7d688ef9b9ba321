package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "DATABASE_URL", "JWT_SECRET", "LISTEN_ADDR", "BRAND_NAME",
		"PAGE_SIZE", "MAX_PAGE_SIZE", "ALLOWED_ORIGINS", "IMAGE_STORE", "MEDIA_DIR", "MEDIA_URL",
		"S3_BUCKET", "S3_REGION", "S3_PUBLIC_URL"} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoad_FileWithDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"DATABASE_URL": "postgres://localhost/foodgram", "jwt_secret": "s3cret"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/foodgram", cfg.DatabaseURL)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultMaxPageSize, cfg.MaxPageSize)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultBrandName, cfg.BrandName)
	assert.Equal(t, "local", cfg.Images.Driver)
	assert.Equal(t, "media", cfg.Images.MediaDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"DATABASE_URL": "postgres://file", "jwt_secret": "file", "page_size": 10}`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "file", cfg.JWTSecret)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JWT_SECRET", "env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "no database", body: `{"jwt_secret": "x"}`},
		{name: "no secret", body: `{"DATABASE_URL": "postgres://x"}`},
		{name: "bad page size", body: `{"DATABASE_URL": "postgres://x", "jwt_secret": "x"}`, env: map[string]string{"PAGE_SIZE": "many"}},
		{name: "negative page size", body: `{"DATABASE_URL": "postgres://x", "jwt_secret": "x", "page_size": -1}`},
		{name: "max page size below page size", body: `{"DATABASE_URL": "postgres://x", "jwt_secret": "x", "page_size": 20, "max_page_size": 10}`},
		{name: "s3 without bucket", body: `{"DATABASE_URL": "postgres://x", "jwt_secret": "x", "images": {"driver": "s3"}}`},
		{name: "unknown driver", body: `{"DATABASE_URL": "postgres://x", "jwt_secret": "x", "images": {"driver": "ftp"}}`},
		{name: "malformed json", body: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
