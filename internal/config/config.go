package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/kenkkoko/SmartDCA-BOT/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Line     LineConfig     `mapstructure:"line"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
	Report   ReportConfig   `mapstructure:"report"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Database DatabaseConfig `mapstructure:"database"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LineConfig carries LINE Messaging API credentials and routing.
type LineConfig struct {
	ChannelToken string `mapstructure:"channel_token"`
	RecipientID  string `mapstructure:"recipient_id"`
	Broadcast    bool   `mapstructure:"broadcast"`
	APIBase      string `mapstructure:"api_base"`
}

// Configured reports whether delivery credentials are usable: broadcast
// needs only the channel token, push additionally needs a recipient.
func (l LineConfig) Configured() bool {
	if l.ChannelToken == "" {
		return false
	}
	return l.Broadcast || l.RecipientID != ""
}

// SourcesConfig covers the three market data sources.
type SourcesConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Crypto  CryptoSource  `mapstructure:"crypto"`
	US      USSource      `mapstructure:"us"`
	TW      TWSource      `mapstructure:"tw"`
}

// CryptoSource points at an alternative.me-compatible endpoint.
type CryptoSource struct {
	BaseURL string `mapstructure:"base_url"`
}

// USSource points at the CNN Fear & Greed endpoint.
type USSource struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// TWSource describes the Taiwan proxy instrument and its history source.
type TWSource struct {
	Ticker   string `mapstructure:"ticker"`
	Lookback string `mapstructure:"lookback"`
	BaseURL  string `mapstructure:"base_url"`
}

// AdvisorConfig controls the optional AI advisory enrichment.
type AdvisorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ReportConfig selects the delivery policy variants.
type ReportConfig struct {
	// AlwaysReport emits a calm report on runs with no trigger instead of
	// staying silent.
	AlwaysReport bool `mapstructure:"always_report"`
	// PriceStats enriches the TW block with 1-year price context.
	PriceStats bool `mapstructure:"price_stats"`
}

// ScheduleConfig governs the watch command cadence.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// DatabaseConfig encapsulates optional PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SMARTDCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// applyEnvOverrides honours the conventional variable names used by the
// hosted schedulers this bot historically ran under.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Line.ChannelToken = v
	}
	if v := os.Getenv("LINE_USER_ID"); v != "" {
		cfg.Line.RecipientID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Advisor.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "smartdca")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("line.api_base", "https://api.line.me")
	v.SetDefault("line.broadcast", false)

	v.SetDefault("sources.timeout", "10s")
	v.SetDefault("sources.crypto.base_url", "https://api.alternative.me")
	v.SetDefault("sources.us.base_url", "https://production.dataviz.cnn.io")
	v.SetDefault("sources.tw.ticker", "0050.TW")
	v.SetDefault("sources.tw.lookback", "3mo")
	v.SetDefault("sources.tw.base_url", "https://query1.finance.yahoo.com")

	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.model", "gpt-4o-mini")
	v.SetDefault("advisor.base_url", "https://api.openai.com")
	v.SetDefault("advisor.timeout", "10s")

	v.SetDefault("report.always_report", false)
	v.SetDefault("report.price_stats", true)

	// 09:00 Taipei, after the TW open; six-field cron with seconds.
	v.SetDefault("schedule.cron", "0 0 9 * * *")

	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
// Delivery credentials are deliberately not validated here: a missing token
// is a per-run precondition reported by the service, not a startup crash.
func (c *Config) Validate() error {
	if c.Sources.Timeout <= 0 {
		return fmt.Errorf("sources.timeout must be greater than zero")
	}
	if c.Sources.TW.Ticker == "" {
		return fmt.Errorf("sources.tw.ticker is required")
	}
	if c.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is required")
	}
	if c.Advisor.Enabled && c.Advisor.Model == "" {
		return fmt.Errorf("advisor.model 必須配置")
	}
	return nil
}
