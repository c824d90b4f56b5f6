package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=5001"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	APIPrefix string `env:"API_PREFIX, default=/api"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Auth    AuthConfig
}

// MongoConfig enables the database user backend when URI is set.
type MongoConfig struct {
	URI         string        `env:"MONGODB_URI"`
	Database    string        `env:"MONGODB_DB,       default=ecommerce"`
	Timeout     time.Duration `env:"MONGODB_TIMEOUT,  default=5s"`
	MaxPoolSize uint64        `env:"MONGODB_MAX_POOL, default=10"`
	MinPoolSize uint64        `env:"MONGODB_MIN_POOL, default=2"`
}

// RedisConfig enables login rate limiting when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,      default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT, default=2s"`
}

type StorageConfig struct {
	UsersFile    string   `env:"USERS_FILE,    default=data/users.json"`
	CatalogPaths []string `env:"CATALOG_PATHS, default=api/products.json,public/data/products.json,data/products.json"`
}

type AuthConfig struct {
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	return &cfg, nil
}

// IsDevelopment gates pretty logs and error details in responses.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
