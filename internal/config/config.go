package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"gopkg.in/yaml.v3"
)

const envPrefix = "pollcontract"

const (
	StoreMemory   = "memory"
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

type ctxKey string

const configContextKey ctxKey = "config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configContextKey).(*Config)
	return cfg
}

type Config struct {
	BindAddr        string        `yaml:"bindAddr"        split_words:"true"`
	Port            uint          `yaml:"port"            split_words:"true"`
	Store           string        `yaml:"store"           split_words:"true"`
	BadgerPath      string        `yaml:"badgerPath"      split_words:"true"`
	JWTSecret       string        `yaml:"jwtSecret"       split_words:"true"`
	AdminAccount    string        `yaml:"adminAccount"    split_words:"true"`
	CodeHashes      []string      `yaml:"codeHashes"      split_words:"true"`
	MetricsEnabled  bool          `yaml:"metricsEnabled"  split_words:"true"`
	EventFeed       bool          `yaml:"eventFeed"       split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true"`

	Postgres PostgresConfig `yaml:"postgres" ignored:"true"`
	Redis    RedisConfig    `yaml:"redis"    ignored:"true"`
}

// PostgresConfig reads the POSTGRES_* variables used by the database
// container.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	DB       string `yaml:"db"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// RedisConfig reads the REDIS_* variables. An empty Addr disables the
// stream publisher.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"maxLen"`
}

func defaults() *Config {
	return &Config{
		BindAddr:        "0.0.0.0",
		Port:            8080,
		Store:           StoreMemory,
		MetricsEnabled:  true,
		EventFeed:       true,
		ShutdownTimeout: 30 * time.Second,
		Postgres: PostgresConfig{
			Host: "localhost",
			Port: "5432",
		},
		Redis: RedisConfig{
			Stream: "pollcontract:events",
			MaxLen: 10000,
		},
	}
}

// Load builds the config from defaults, then configFile (if set), then the
// environment. A .env file in the working directory is loaded first when
// present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := defaults()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := envconfig.Process("postgres", &cfg.Postgres); err != nil {
		return nil, fmt.Errorf("error processing postgres environment: %w", err)
	}
	if err := envconfig.Process("redis", &cfg.Redis); err != nil {
		return nil, fmt.Errorf("error processing redis environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreBadger, StorePostgres:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.Port == 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := c.AdminAccountID(); err != nil {
		return err
	}
	if _, err := c.KnownCodeHashes(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, strconv.FormatUint(uint64(c.Port), 10))
}

// DSN returns the configured connection string, or one built from the
// individual POSTGRES_* settings.
func (c *Config) DSN() string {
	if c.Postgres.DSN != "" {
		return c.Postgres.DSN
	}
	p := c.Postgres
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// AdminAccountID returns the account that instantiates the contract on
// startup, or uuid.Nil when none is configured.
func (c *Config) AdminAccountID() (domain.AccountID, error) {
	if c.AdminAccount == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(c.AdminAccount)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid admin account: %w", err)
	}
	return id, nil
}

func (c *Config) KnownCodeHashes() ([]domain.CodeHash, error) {
	hashes := make([]domain.CodeHash, 0, len(c.CodeHashes))
	for _, raw := range c.CodeHashes {
		hash, err := domain.ParseCodeHash(raw)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}
