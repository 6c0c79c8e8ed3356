package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "development", c.App.Env)
	assert.Equal(t, ":3000", c.App.Addr)
	assert.False(t, c.App.TrustedProxy)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, 24*time.Hour, c.JWT.TTL)
	assert.Equal(t, 1000, c.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, c.RateLimit.Window)
	assert.Equal(t, "memory", c.RateLimit.Backend)
	assert.Equal(t, "db", c.Photos.Backend)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "admin@donaciones.com", c.Admin.Email)
	assert.Equal(t, []string{"*"}, c.CORS.AllowedOrigins)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("DONACIONES_APP_ADDR", "127.0.0.1:8080")
	t.Setenv("DONACIONES_APP_TRUSTED_PROXY", "true")
	t.Setenv("DONACIONES_RATELIMIT_REQUESTS", "5")
	t.Setenv("DONACIONES_RATELIMIT_WINDOW", "1m")
	t.Setenv("DONACIONES_CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("JWT_SECRET", "from-legacy")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/donaciones")
	t.Setenv("NODE_ENV", "production")

	c, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", c.App.Addr)
	assert.True(t, c.App.TrustedProxy)
	assert.Equal(t, 5, c.RateLimit.Requests)
	assert.Equal(t, time.Minute, c.RateLimit.Window)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORS.AllowedOrigins)
	assert.Equal(t, "from-legacy", c.JWT.Secret)
	assert.Equal(t, "postgres", c.Database.Driver)
	assert.True(t, c.IsProduction())
	assert.Equal(t, "json", c.Log.Format)
}

func TestPrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("DONACIONES_JWT_SECRET", "prefixed")

	c, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", c.JWT.Secret)
}

func TestPortEnv(t *testing.T) {
	t.Setenv("PORT", "4000")

	c, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, ":4000", c.App.Addr)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donaciones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  addr: ":7000"
  static_dir: ./frontend
photos:
  backend: s3
s3:
  bucket: photos
  access_key: key
`), 0o600))

	c, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.App.Addr)
	assert.Equal(t, "./frontend", c.App.StaticDir)
	assert.Equal(t, "s3", c.Photos.Backend)
	assert.Equal(t, "photos", c.S3.Bucket)
	assert.Equal(t, "key", c.S3.AccessKey)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	// Registers restoration of the unset state once the test ends.
	t.Setenv("DONACIONES_ADMIN_USERNAME", "")
	require.NoError(t, os.Unsetenv("DONACIONES_ADMIN_USERNAME"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DONACIONES_ADMIN_USERNAME=root\n"), 0o600))

	c, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, "root", c.Admin.Username)
}

func TestValidate(t *testing.T) {
	for name, env := range map[string][2]string{
		"driver":        {"DONACIONES_DATABASE_DRIVER", "mysql"},
		"rate backend":  {"DONACIONES_RATELIMIT_BACKEND", "memcached"},
		"photo backend": {"DONACIONES_PHOTOS_BACKEND", "ftp"},
		"s3 bucket":     {"DONACIONES_PHOTOS_BACKEND", "s3"},
		"log format":    {"DONACIONES_LOG_FORMAT", "xml"},
		"prod secret":   {"DONACIONES_APP_ENV", "production"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load("", "")
			assert.Error(t, err)
		})
	}
}
