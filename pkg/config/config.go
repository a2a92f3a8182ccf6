package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMySQL  = "mysql"
	StorageDriverMemory = "memory"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	SQLite       SQLiteConfig
	Redis        RedisConfig
	MySQL        MySQLConfig
	Catalog      CatalogConfig
	Notification NotificationConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env       string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	HTTPAddr  string `envconfig:"STOREFRONT_HTTP_ADDR" default:":8080"`
	GRPCAddr  string `envconfig:"STOREFRONT_GRPC_ADDR" default:":50051"`
	LogLevel  string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
}

type StorageConfig struct {
	Driver       string        `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	CartKey      string        `envconfig:"STOREFRONT_CART_KEY" default:"cart"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_STORAGE_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_STORAGE_WRITE_TIMEOUT" default:"5s"`
}

type SQLiteConfig struct {
	Path string `envconfig:"STOREFRONT_SQLITE_PATH" default:"storefront.db"`
}

type RedisConfig struct {
	URL      string `envconfig:"STOREFRONT_REDIS_URL"`
	Address  string `envconfig:"STOREFRONT_REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB       int    `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
}

type MySQLConfig struct {
	DSN             string        `envconfig:"STOREFRONT_MYSQL_DSN" default:"root:root@tcp(localhost:3306)/storefront?parseTime=true"`
	MaxOpenConns    int           `envconfig:"STOREFRONT_MYSQL_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_MYSQL_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_MYSQL_CONN_MAX_LIFETIME" default:"5m"`
}

type CatalogConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	Timeout time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
}

type NotificationConfig struct {
	Duration time.Duration `envconfig:"STOREFRONT_NOTIFICATION_DURATION" default:"3s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (c *Config) validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageDriverSQLite, StorageDriverRedis, StorageDriverMySQL, StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	if strings.TrimSpace(c.Storage.CartKey) == "" {
		return fmt.Errorf("%s_CART_KEY must not be empty", EnvPrefix)
	}
	if c.Storage.WriteTimeout <= 0 || c.Storage.ReadTimeout <= 0 {
		return fmt.Errorf("storage timeouts must be positive")
	}
	if c.Storage.Driver == StorageDriverRedis && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("redis url or address is required")
	}
	return nil
}
