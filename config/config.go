// Package config loads the tradedash configuration from a YAML file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store kinds.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// EnvPrefix prefixes every environment variable, e.g. TRADEDASH_STORE_KIND.
const EnvPrefix = "TRADEDASH"

// Config is the whole tradedash configuration.
type Config struct {
	Environment string       `mapstructure:"environment"`
	LogLevel    string       `mapstructure:"log_level"`
	Currency    string       `mapstructure:"currency"`
	Store       StoreConfig  `mapstructure:"store"`
	Market      MarketConfig `mapstructure:"market"`
	Server      ServerConfig `mapstructure:"server"`
}

type StoreConfig struct {
	Kind     string         `mapstructure:"kind"`
	Dir      string         `mapstructure:"dir"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// MarketConfig configures market data providers and the quote cache.
type MarketConfig struct {
	AlphaVantageKey  string        `mapstructure:"alphavantage_key"`
	FinnhubKey       string        `mapstructure:"finnhub_key"`
	Freshness        time.Duration `mapstructure:"freshness"`
	WatchlistRefresh time.Duration `mapstructure:"watchlist_refresh"`
	NewsRefresh      time.Duration `mapstructure:"news_refresh"`
	Timeout          time.Duration `mapstructure:"timeout"`
	// Demo disables the remote providers, only synthetic data is served.
	Demo bool `mapstructure:"demo"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the configuration.
//
// When path is empty, 'tradedash.yaml' is looked up in the current directory
// then in $HOME/.config/tradedash, and a missing file is not an error. When
// path is set, the file must exist. Environment variables override the file.
func Load(path string) (*Config, error) {
	// a missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tradedash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tradedash"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(err) // defaults are static
	}
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("currency", "USD")

	v.SetDefault("store.kind", StoreFile)
	v.SetDefault("store.dir", defaultStoreDir())
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "tradedash:")
	v.SetDefault("store.postgres.dsn", "postgres://postgres@localhost:5432/tradedash?sslmode=disable")

	// "demo" is the public key of both providers.
	v.SetDefault("market.alphavantage_key", "demo")
	v.SetDefault("market.finnhub_key", "demo")
	v.SetDefault("market.freshness", 5*time.Minute)
	v.SetDefault("market.watchlist_refresh", 5*time.Minute)
	v.SetDefault("market.news_refresh", 2*time.Minute)
	v.SetDefault("market.timeout", 8*time.Second)
	v.SetDefault("market.demo", false)

	v.SetDefault("server.addr", ":8080")
}

func defaultStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tradedash"
	}
	return filepath.Join(dir, "tradedash")
}

func validate(c *Config) error {
	switch c.Store.Kind {
	case StoreFile, StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown store.kind %q", c.Store.Kind)
	}
	if c.Store.Kind == StoreFile && c.Store.Dir == "" {
		return errors.New("store.dir is required for the file store")
	}
	if c.Currency == "" {
		return errors.New("currency is required")
	}
	if c.Market.Freshness <= 0 {
		return fmt.Errorf("market.freshness must be positive, got %v", c.Market.Freshness)
	}
	if c.Market.WatchlistRefresh <= 0 || c.Market.NewsRefresh <= 0 {
		return errors.New("market refresh intervals must be positive")
	}
	return nil
}
