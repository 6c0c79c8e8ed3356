// Package config loads service configuration from defaults, an optional
// config file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment variable, e.g. DONACIONES_APP_ADDR.
const EnvPrefix = "DONACIONES"

type Config struct {
	App struct {
		Env       string
		Addr      string
		StaticDir string `mapstructure:"static_dir"`
		// TrustedProxy takes the client address from X-Forwarded-For /
		// X-Real-IP. Only enable it behind a proxy that sets those headers.
		TrustedProxy bool `mapstructure:"trusted_proxy"`
	} `mapstructure:"app"`

	Database struct {
		Driver string
		DSN    string
	} `mapstructure:"database"`

	JWT struct {
		Secret string
		TTL    time.Duration
	} `mapstructure:"jwt"`

	Admin struct {
		Username string
		Email    string
	} `mapstructure:"admin"`

	Log struct {
		Level  string
		Format string
		File   string
	} `mapstructure:"log"`

	RateLimit struct {
		Enabled  bool
		Requests int
		Window   time.Duration
		Backend  string
	} `mapstructure:"ratelimit"`

	Redis struct {
		Addr     string
		Password string
		DB       int
	} `mapstructure:"redis"`

	Photos struct {
		Backend string
	} `mapstructure:"photos"`

	S3 struct {
		Bucket    string
		Region    string
		Endpoint  string
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Prefix    string
	} `mapstructure:"s3"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.addr", ":3000")
	v.SetDefault("app.static_dir", "")
	v.SetDefault("app.trusted_proxy", false)
	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "donaciones.sqlite3")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@donaciones.com")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("log.file", "")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 1000)
	v.SetDefault("ratelimit.window", 15*time.Minute)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("photos.backend", "db")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// legacyEnv maps keys to the unprefixed variables deployments already use.
var legacyEnv = map[string][]string{
	"app.env":      {"APP_ENV", "NODE_ENV"},
	"database.dsn": {"DATABASE_URL"},
	"jwt.secret":   {"JWT_SECRET"},
}

// Load reads configuration. configFile may be empty, in which case
// ./donaciones.{yaml,json,toml} is used when present. envFile is loaded
// into the process environment when it exists; variables already set win.
func Load(configFile, envFile string) (Config, error) {
	var c Config

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := gotenv.Load(envFile); err != nil {
				return c, fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return c, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("reading %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("donaciones")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return c, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}

	// PORT only applies when no address was configured explicitly.
	if port := os.Getenv("PORT"); port != "" && !v.InConfig("app.addr") && os.Getenv(EnvPrefix+"_APP_ADDR") == "" {
		c.App.Addr = ":" + port
	}

	c.normalize()
	return c, c.Validate()
}

func (c *Config) normalize() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.Driver == "" {
		if strings.HasPrefix(c.Database.DSN, "postgres://") || strings.HasPrefix(c.Database.DSN, "postgresql://") {
			c.Database.Driver = "postgres"
		} else {
			c.Database.Driver = "sqlite"
		}
	}
	if c.Log.Format == "" {
		if c.IsDevelopment() {
			c.Log.Format = "text"
		} else {
			c.Log.Format = "json"
		}
	}
}

// Validate checks enumerated settings and their dependencies.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("ratelimit.backend: must be memory or redis, got %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return errors.New("ratelimit: requests and window must be positive")
	}
	switch c.Photos.Backend {
	case "db":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required when photos.backend is s3")
		}
	default:
		return fmt.Errorf("photos.backend: must be db or s3, got %q", c.Photos.Backend)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format)
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.App.Env == "production" }

func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }
