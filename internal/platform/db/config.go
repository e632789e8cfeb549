package db

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config/config.yaml"

	ModeDev     = "dev"
	ModeRelease = "release"
)

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	Migrate      bool   `yaml:"migrate"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

// Enabled reports whether both halves of the key pair are configured.
func (c Certs) Enabled() bool { return c.Cert != "" && c.Key != "" }

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LendingConfig struct {
	LoanPeriodDays int `yaml:"loan_period_days"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	Server      ServerConfig   `yaml:"server"`
	DB          DatabaseConfig `yaml:"database"`
	Certificate Certs          `yaml:"certificate"`
	Auth        AuthConfig     `yaml:"auth"`
	Lending     LendingConfig  `yaml:"lending"`
	Log         LogConfig      `yaml:"log"`
}

// LoadConfig reads the yaml file, applies .env / environment overrides,
// fills defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(buf)
	if err != nil {
		return nil, err
	}

	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes yaml and fills defaults. It does not touch the environment.
func ParseConfig(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Mode == "" {
		c.Mode = ModeDev
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.MaxOpenConns <= 0 {
		c.DB.MaxOpenConns = 80
	}
	if c.DB.MaxIdleConns <= 0 {
		c.DB.MaxIdleConns = 20
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 120 * time.Minute
	}
	if c.Lending.LoanPeriodDays == 0 {
		c.Lending.LoanPeriodDays = 14
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := map[string]*string{
		"LIBRARY_MODE":        &c.Mode,
		"LIBRARY_DB_HOST":     &c.DB.Host,
		"LIBRARY_DB_USER":     &c.DB.Username,
		"LIBRARY_DB_PASSWORD": &c.DB.Password,
		"LIBRARY_DB_NAME":     &c.DB.DBName,
		"LIBRARY_JWT_SECRET":  &c.Auth.JWTSecret,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("LIBRARY_DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIBRARY_DB_PORT: %w", err)
		}
		c.DB.Port = port
	}
	return nil
}

// Validate returns every problem found, not just the first one.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		result = multierror.Append(result, fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode))
	}
	if c.DB.Host == "" {
		result = multierror.Append(result, errors.New("database.host is required"))
	}
	if c.DB.DBName == "" {
		result = multierror.Append(result, errors.New("database.dbname is required"))
	}
	if c.Auth.JWTSecret == "" {
		result = multierror.Append(result, errors.New("auth.jwt_secret is required"))
	}
	if c.Lending.LoanPeriodDays <= 0 {
		result = multierror.Append(result, errors.New("lending.loan_period_days must be > 0"))
	}
	if (c.Certificate.Cert == "") != (c.Certificate.Key == "") {
		result = multierror.Append(result, errors.New("certificate.cert and certificate.key must be set together"))
	}
	return result.ErrorOrNil()
}
