package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LedgerDriverSheets   = "sheets"
	LedgerDriverPostgres = "postgres"

	CatalogSourceStatic   = "static"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Countries []CountryPrefix `yaml:"countries"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	GinMode         string `yaml:"gin_mode"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type LedgerConfig struct {
	Driver             string `yaml:"driver"`
	ValueInputOption   string `yaml:"value_input_option"`
	MaxAttempts        int    `yaml:"max_attempts"`
	BaseBackoffMillis  int    `yaml:"base_backoff_ms"`
	MaxBackoffMillis   int    `yaml:"max_backoff_ms"`
	CallTimeoutSeconds int    `yaml:"call_timeout_seconds"`
}

type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type CatalogConfig struct {
	Source          string            `yaml:"source"`
	RefreshSeconds  int               `yaml:"refresh_seconds"`
	CacheTTLSeconds int               `yaml:"cache_ttl_seconds"`
	Products        map[string]string `yaml:"products"`
}

type PricingConfig struct {
	MarginFactor float64 `yaml:"margin_factor"`
}

type CountryPrefix struct {
	Prefix  string `yaml:"prefix"`
	Country string `yaml:"country"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ShutdownSeconds == 0 {
		c.HTTP.ShutdownSeconds = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = LedgerDriverSheets
	}
	if c.Ledger.ValueInputOption == "" {
		c.Ledger.ValueInputOption = "USER_ENTERED"
	}
	if c.Ledger.MaxAttempts == 0 {
		c.Ledger.MaxAttempts = 3
	}
	if c.Ledger.BaseBackoffMillis == 0 {
		c.Ledger.BaseBackoffMillis = 200
	}
	if c.Ledger.MaxBackoffMillis == 0 {
		c.Ledger.MaxBackoffMillis = 2000
	}
	if c.Ledger.CallTimeoutSeconds == 0 {
		c.Ledger.CallTimeoutSeconds = 10
	}
	if c.Sheets.Range == "" {
		c.Sheets.Range = "Sheet1"
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = CatalogSourceStatic
	}
	if c.Catalog.RefreshSeconds == 0 {
		c.Catalog.RefreshSeconds = 300
	}
	if c.Catalog.CacheTTLSeconds == 0 {
		c.Catalog.CacheTTLSeconds = 300
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "tourledger-worker"
	}
	if c.Pricing.MarginFactor == 0 {
		c.Pricing.MarginFactor = 0.69
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Ledger.Driver {
	case LedgerDriverSheets:
		if c.Sheets.SpreadsheetID == "" {
			errs = append(errs, errors.New("sheets.spreadsheet_id is required for the sheets ledger"))
		}
	case LedgerDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown ledger.driver %q", c.Ledger.Driver))
	}

	switch c.Catalog.Source {
	case CatalogSourceStatic, CatalogSourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.source %q", c.Catalog.Source))
	}

	if c.Ledger.MaxAttempts < 1 {
		errs = append(errs, errors.New("ledger.max_attempts must be at least 1"))
	}
	if c.Pricing.MarginFactor <= 0 || c.Pricing.MarginFactor > 1 {
		errs = append(errs, fmt.Errorf("pricing.margin_factor %v must be in (0, 1]", c.Pricing.MarginFactor))
	}
	for i, p := range c.Countries {
		if !strings.HasPrefix(p.Prefix, "+") || p.Country == "" {
			errs = append(errs, fmt.Errorf("countries[%d]: prefix must start with + and country must be set", i))
		}
	}

	return errors.Join(errs...)
}

// NeedsDatabase reports whether any configured component talks to Postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Ledger.Driver == LedgerDriverPostgres || c.Catalog.Source == CatalogSourcePostgres
}
