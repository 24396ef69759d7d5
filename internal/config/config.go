// Package config loads server settings from an optional YAML file, an
// optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/storage/sqlstore"
)

// Config represents the top-level tripledger.yaml configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects and locates the store.
type DatabaseConfig struct {
	Driver string      `yaml:"driver"` // "sqlite" or "mysql"
	Path   string      `yaml:"path"`   // SQLite file
	MySQL  MySQLConfig `yaml:"mysql"`
}

// MySQLConfig holds MySQL connection settings.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// AuthConfig controls session tokens.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LedgerConfig tunes the balance engine.
type LedgerConfig struct {
	DefaultCurrency      string        `yaml:"default_currency"`
	SettlementConvention string        `yaml:"settlement_convention"`
	StrictSplits         bool          `yaml:"strict_splits"`
	MaxRetries           int           `yaml:"max_retries"`
	RetryBaseDelay       time.Duration `yaml:"retry_base_delay"`
}

// LogConfig controls the default slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns a Config with sensible defaults for local use.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: sqlstore.DriverSQLite,
			Path:   "./data/tripledger.db",
			MySQL: MySQLConfig{
				Host: "localhost",
				Port: "3306",
				Name: "tripledger",
			},
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Ledger: LedgerConfig{
			DefaultCurrency:      money.USD,
			SettlementConvention: string(calculator.Discharge),
			MaxRetries:           3,
			RetryBaseDelay:       10 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. Defaults are overlaid with the YAML file at
// path (skipped when path is empty), then with variables from ./.env and the
// process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "LISTEN_ADDR")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Path, "DB_PATH")
	setString(&c.Database.MySQL.Host, "DB_HOST")
	setString(&c.Database.MySQL.Port, "DB_PORT")
	setString(&c.Database.MySQL.User, "DB_USER")
	setString(&c.Database.MySQL.Password, "DB_PASSWORD")
	setString(&c.Database.MySQL.Name, "DB_NAME")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Ledger.DefaultCurrency, "DEFAULT_CURRENCY")
	setString(&c.Ledger.SettlementConvention, "SETTLEMENT_CONVENTION")

	if v := os.Getenv("STRICT_SPLITS"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_SPLITS: %w", err)
		}
		c.Ledger.StrictSplits = strict
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = ttl
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case sqlstore.DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case sqlstore.DriverMySQL:
		if c.Database.MySQL.Host == "" || c.Database.MySQL.Name == "" {
			errs = append(errs, errors.New("database.mysql host and name are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	if money.GetCurrency(strings.ToUpper(c.Ledger.DefaultCurrency)) == nil {
		errs = append(errs, fmt.Errorf("unknown default currency %q", c.Ledger.DefaultCurrency))
	}
	if _, err := calculator.ParseConvention(c.Ledger.SettlementConvention); err != nil {
		errs = append(errs, err)
	}
	if c.Ledger.MaxRetries < 0 {
		errs = append(errs, errors.New("ledger.max_retries must not be negative"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// LedgerConfig converts the ledger section. Call Validate first.
func (c *Config) LedgerConfig() ledger.Config {
	convention, _ := calculator.ParseConvention(c.Ledger.SettlementConvention)
	return ledger.Config{
		Convention:      convention,
		DefaultCurrency: strings.ToUpper(c.Ledger.DefaultCurrency),
		StrictSplits:    c.Ledger.StrictSplits,
		MaxRetries:      c.Ledger.MaxRetries,
		RetryBaseDelay:  c.Ledger.RetryBaseDelay,
	}
}

// MySQL converts the MySQL section for the store.
func (c *Config) MySQL() sqlstore.MySQLConfig {
	m := c.Database.MySQL
	return sqlstore.MySQLConfig{
		Host:     m.Host,
		Port:     m.Port,
		User:     m.User,
		Password: m.Password,
		Name:     m.Name,
	}
}
