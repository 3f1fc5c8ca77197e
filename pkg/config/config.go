package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	Cart         CartConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the selected storage backend depends on.
func (c *Config) Validate() error {
	switch c.Storage.Kind() {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis backend", EnvRedisURL, EnvRedisAddr)
		}
	case BackendSQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the sql backend", EnvDBDSN)
		}
		switch c.DB.DriverName() {
		case DriverPostgres, DriverSQLite:
		default:
			return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
		}
	case BackendBadger:
		if strings.TrimSpace(c.Storage.BadgerPath) == "" {
			return fmt.Errorf("%s is required for the badger backend", EnvBadgerPath)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageBackend, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Cart.StorageKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvCartStorageKey)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"CART_APP_ENV" required:"true"`
	Port         string `envconfig:"CART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"CART_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"CART_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"CART_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"CART_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Backend    string `envconfig:"CART_STORAGE_BACKEND" default:"memory"`
	BadgerPath string `envconfig:"CART_BADGER_PATH" default:"./data/cart"`
}

// Kind returns the normalized backend name.
func (s StorageConfig) Kind() string {
	return strings.ToLower(strings.TrimSpace(s.Backend))
}

type CartConfig struct {
	StorageKey   string        `envconfig:"CART_STORAGE_KEY" default:"@GoMarketplace:products"`
	ReadTimeout  time.Duration `envconfig:"CART_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CART_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver string `envconfig:"CART_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CART_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CART_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"CART_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"CART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// DriverName returns the normalized SQL driver name.
func (d DBConfig) DriverName() string {
	return strings.ToLower(strings.TrimSpace(d.Driver))
}

type RedisConfig struct {
	URL          string        `envconfig:"CART_REDIS_URL"`
	Address      string        `envconfig:"CART_REDIS_ADDR"`
	Password     string        `envconfig:"CART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CART_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"CART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CART_AUTO_MIGRATE" default:"true"`
}
