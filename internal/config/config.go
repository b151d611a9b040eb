package config

import (
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/pg"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every tunable of the ledger. Only this struct must be used
// to read configuration; no other package reads the environment directly.
type Config struct {
	AppEnv  string `env:"APP_ENV,default=dev"`
	AppName string `env:"APP_NAME,default=finance_ledger"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`
	// HttpCompressLevel is the brotli/gzip level for responses; 0 disables compression.
	HttpCompressLevel int `env:"HTTP_COMPRESS_LEVEL,default=1"`

	DBDriver   string `env:"DB_DRIVER,default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,default=ledger.db"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	StoreTimeout time.Duration `env:"STORE_TIMEOUT,default=3s"`

	ListDefaultLimit      int `env:"LIST_DEFAULT_LIMIT,default=100"`
	ListMaxLimit          int `env:"LIST_MAX_LIMIT,default=1000"`
	BulkDeleteMaxIDs      int `env:"BULK_DELETE_MAX_IDS,default=500"`
	BulkDeleteConcurrency int `env:"BULK_DELETE_CONCURRENCY,default=4"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=ledger:"`

	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`
	IdempotencyLockTTL time.Duration `env:"IDEMPOTENCY_LOCK_TTL,default=30s"`

	MetricsAddr   string `env:"METRICS_ADDR"`
	MetricsURI    string `env:"METRICS_URI,default=/metrics"`
	PromNamespace string `env:"PROM_NAMESPACE,default=ledger"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	if err := c.Validate(); err != nil {
		return err
	}

	config = c
	return nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case pg.DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case pg.DriverPostgres:
		if c.PostgresWriteHost == "" || c.PostgresWriteDatabase == "" {
			return errors.New("POSTGRES_WRITE_HOST and POSTGRES_WRITE_DBNAME are required for the postgres driver")
		}
	default:
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.ListDefaultLimit <= 0 || c.ListMaxLimit < c.ListDefaultLimit {
		return errors.New("LIST_DEFAULT_LIMIT must be positive and not above LIST_MAX_LIMIT")
	}
	if c.BulkDeleteMaxIDs <= 0 || c.BulkDeleteConcurrency <= 0 {
		return errors.New("BULK_DELETE_MAX_IDS and BULK_DELETE_CONCURRENCY must be positive")
	}
	return nil
}

// PostgresRead returns the read replica settings, falling back to the
// write settings when no replica host is configured.
func (c *Config) PostgresRead() pg.Config {
	if c.PostgresReadHost == "" {
		return c.PostgresWrite()
	}
	return pg.Config{
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
	}
}

func (c *Config) PostgresWrite() pg.Config {
	return pg.Config{
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
	}
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// Set replaces the loaded configuration. Intended for tests and tools.
func Set(c *Config) {
	config = c
}

// EnvPathFromArgs returns the value of a --env=path argument, or "" when
// absent or unreadable.
func EnvPathFromArgs(args []string) string {
	for _, v := range args {
		if path, ok := strings.CutPrefix(v, "--env="); ok {
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}
