package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/subosito/gotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`
	TelegramDebug bool   `env:"TELEGRAM_DEBUG" envDefault:"false"`

	StorageDriver     string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            int           `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME" envDefault:"cherdak"`
	DBSSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"1m"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	SessionDriver string        `env:"SESSION_DRIVER" envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`
	Workers     int     `env:"WORKERS" envDefault:"8"`
	SendRate    float64 `env:"SEND_RATE" envDefault:"25"`
	MetricsAddr string  `env:"METRICS_ADDR" envDefault:":9090"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	LocationURL string `env:"LOCATION_URL" envDefault:"https://yandex.ru/maps/org/cherdak/134444637764/?ll=39.964232%2C53.244942&z=16.59"`
}

// Load reads the configuration from the environment. Variables from a .env
// file in the working directory are applied first but never override the
// real environment.
func Load() (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME is required for the %s storage driver", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.SessionDriver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", c.SessionDriver)
	}

	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be positive, got %d", c.Workers)
	}
	if c.SendRate <= 0 {
		return fmt.Errorf("SEND_RATE must be positive, got %v", c.SendRate)
	}

	return nil
}
