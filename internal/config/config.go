package config

import (
	"github.com/Netflix/go-env"
	"github.com/alimjan/wholesale-crm/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every runtime setting of the CRM core. Only this struct
// may be used to read configuration values, no direct access to env or
// any other config source should be made elsewhere.
type Config struct {
	AppEnv  string `env:"APP_ENV,default=dev"`
	AppName string `env:"APP_NAME,default=wholesale_crm"`

	// StoreBackend selects the record area: sqlite, postgres or redis.
	StoreBackend string `env:"STORE_BACKEND,default=sqlite"`
	SQLitePath   string `env:"SQLITE_PATH,default=wholesale_crm.db"`

	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME"`
	MigrationsDir    string `env:"MIGRATIONS_DIR,default=migrations"`

	RedisAddr      string `env:"REDIS_ADDR"`
	RedisUsername  string `env:"REDIS_USER"`
	RedisPassword  string `env:"REDIS_PASS"`
	RedisDatabase  int    `env:"REDIS_DATABASE"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX"`

	MetricsAddr   string `env:"METRICS_ADDR"`
	MetricsPath   string `env:"METRICS_PATH,default=/metrics"`
	PromNamespace string `env:"PROM_NAMESPACE"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
