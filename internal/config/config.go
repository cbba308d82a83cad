package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ClientStoreSQL   = "sql"
	ClientStoreRedis = "redis"
)

type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	Port      string `envconfig:"PORT" default:"8081"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"storefront.db"`
	Seed     bool   `envconfig:"SEED" default:"true"`

	ClientStore string `envconfig:"CLIENT_STORE" default:"sql"`
	RedisURL    string `envconfig:"REDIS_URL"`

	SessionSecret string        `envconfig:"SESSION_SECRET" default:"dev-only-session-secret"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	// PaymentDelay models the bank round-trip before an order is created.
	PaymentDelay time.Duration `envconfig:"PAYMENT_DELAY" default:"1500ms"`

	BodyLimit     int  `envconfig:"BODY_LIMIT" default:"1048576"`
	RateLimitMax  int  `envconfig:"RATE_LIMIT_MAX" default:"60"`
	LoginLimitMax int  `envconfig:"LOGIN_LIMIT_MAX" default:"5"`
	CSRFEnabled   bool `envconfig:"CSRF_ENABLED" default:"true"`
	CookieSecure  bool `envconfig:"COOKIE_SECURE" default:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	switch strings.ToLower(c.ClientStore) {
	case ClientStoreSQL:
	case ClientStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis client store requires %s_REDIS_URL", EnvPrefix)
		}
	default:
		return fmt.Errorf("unsupported client store %q", c.ClientStore)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.PaymentDelay < 0 {
		return fmt.Errorf("payment delay must not be negative")
	}
	return nil
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod")
}
