package config

const EnvPrefix = "CART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
	BackendBadger = "badger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "CART_APP_ENV"
	EnvPort           = "CART_APP_PORT"
	EnvLogLevel       = "CART_LOG_LEVEL"
	EnvLogFormat      = "CART_LOG_FORMAT"
	EnvCORSOrigins    = "CART_CORS_ORIGINS"
	EnvStorageBackend = "CART_STORAGE_BACKEND"
	EnvBadgerPath     = "CART_BADGER_PATH"
	EnvCartStorageKey = "CART_STORAGE_KEY"
	EnvCartWriteTTL   = "CART_WRITE_TIMEOUT"
	EnvDBDriver       = "CART_DB_DRIVER"
	EnvDBDSN          = "CART_DB_DSN"
	EnvRedisURL       = "CART_REDIS_URL"
	EnvRedisAddr      = "CART_REDIS_ADDR"
	EnvAutoMigrate    = "CART_AUTO_MIGRATE"
)
