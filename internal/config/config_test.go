package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalogapi/internal/platform/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no .env file leaks in.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	return tmp
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendRedis, cfg.CacheBackend)
	assert.Equal(t, 10, cfg.RecentMaxItems)
	assert.Equal(t, 5*24*time.Hour, cfg.RecentTTL)
	assert.Equal(t, cache.DefaultTTLs(), cfg.CacheTTLs)
	assert.True(t, cfg.NeedsRedis())
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("CACHE_BACKEND", "MEMORY")
	t.Setenv("RECENT_BACKEND", "memory")
	t.Setenv("RECENT_MAX_ITEMS", "25")
	t.Setenv("CACHE_TTL_BY_GENRE", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.CacheBackend)
	assert.False(t, cfg.NeedsRedis())
	assert.Equal(t, 25, cfg.RecentMaxItems)
	assert.Equal(t, 90*time.Second, cfg.CacheTTLs.For(cache.ByGenre))
	assert.Equal(t, cache.DefaultLongTTL, cfg.CacheTTLs.For(cache.SingleByID))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "CACHE_BACKEND", "memcached"},
		{"bad int", "RECENT_MAX_ITEMS", "ten"},
		{"zero bound", "RECENT_MAX_ITEMS", "0"},
		{"bad duration", "RECENT_TTL", "5 days"},
		{"negative ttl", "CACHE_TTL_ALL", "-1m"},
		{"bad env", "APP_ENV", "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_TTLFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "ttls.yaml")
	require.NoError(t, os.WriteFile(path, []byte("single-by-id: 12h\nall: 1m\n"), 0o644))
	t.Setenv("CACHE_TTLS_FILE", path)
	t.Setenv("CACHE_TTL_ALL", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTLs.For(cache.SingleByID))
	// environment wins over the file
	assert.Equal(t, 2*time.Minute, cfg.CacheTTLs.For(cache.All))
	assert.Equal(t, cache.DefaultShortTTL, cfg.CacheTTLs.For(cache.ByAuthor))
}

func TestLoad_TTLFileUnknownNamespace(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "ttls.yaml")
	require.NoError(t, os.WriteFile(path, []byte("by-title: 1h\n"), 0o644))
	t.Setenv("CACHE_TTLS_FILE", path)

	_, err := Load()
	assert.ErrorContains(t, err, "unknown namespace")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_DSN=from_file\nREDIS_ADDR=redis:6379\n"), 0o644))
	t.Setenv("DB_DSN", "from_env")
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("REDIS_ADDR")

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "redis:6379", os.Getenv("REDIS_ADDR"))
}
