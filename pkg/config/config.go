package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Telegram  TelegramConfig
	Twitter   TwitterConfig
	OpenAI    OpenAIConfig
	Payments  PaymentsConfig
	Referral  ReferralConfig
	Dedup     DedupConfig
	Bots      BotsConfig
	Admin     AdminConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
}

// DatabaseConfig holds database configuration. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	Host string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken  string
	ChannelID string
}

// Configured reports whether the Telegram bot can post
func (c *TelegramConfig) Configured() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

// TwitterConfig holds X/Twitter API configuration
type TwitterConfig struct {
	BearerToken string
}

// Configured reports whether the X bot can post
func (c *TwitterConfig) Configured() bool {
	return c.BearerToken != ""
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// Configured reports whether AI generation is available
func (c *OpenAIConfig) Configured() bool {
	return c.APIKey != ""
}

// PaymentsConfig holds Solana Pay configuration
type PaymentsConfig struct {
	MerchantWallet     string
	PublicationCostSOL int
}

// ReferralConfig holds referral ledger configuration
type ReferralConfig struct {
	CommissionPercent int
}

// DedupConfig holds duplicate-content guard configuration
type DedupConfig struct {
	WindowDays  int
	FailOpen    bool
	RetryBudget int
	MemoryCap   int
}

// BotsConfig holds the bot runner schedule
type BotsConfig struct {
	CronSecret           string
	MarketUpdateInterval time.Duration
	XPostInterval        time.Duration
	TweetDelay           time.Duration
}

// AdminConfig holds admin panel configuration
type AdminConfig struct {
	Password string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // "json" or "text"
	FlatFormat bool   // Enable flat single-object JSON for log ingestion
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled           bool
	JaegerURL         string
	PrometheusEnabled bool
	PrometheusPort    int
	ServiceName       string
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// Pick up a local .env if present
	_ = godotenv.Load()

	// Set defaults
	setDefaults()

	// Load from environment
	viper.SetEnvPrefix("STUDIO")
	viper.AutomaticEnv()

	// Load from config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.studio")
	viper.AddConfigPath("/etc/studio")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; this is OK if we have env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	redisURL := getString("redis_url", "")

	cfg := &Config{
		Database: DatabaseConfig{
			URL: getString("database_url", ""),
		},
		Redis: RedisConfig{
			URL:     redisURL,
			Enabled: redisURL != "",
		},
		Server: ServerConfig{
			Port: getInt("http_server_port", 8080),
			Host: getString("http_server_host", "0.0.0.0"),
		},
		Telegram: TelegramConfig{
			BotToken:  getString("telegram_bot_token", ""),
			ChannelID: getString("telegram_channel_id", ""),
		},
		Twitter: TwitterConfig{
			BearerToken: getString("twitter_bearer_token", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey: getString("openai_api_key", ""),
			Model:  getString("openai_model", "gpt-4o-mini"),
		},
		Payments: PaymentsConfig{
			MerchantWallet:     getString("solana_merchant_wallet", ""),
			PublicationCostSOL: getInt("publication_cost_sol", 100),
		},
		Referral: ReferralConfig{
			CommissionPercent: getInt("referral_commission_percent", 10),
		},
		Dedup: DedupConfig{
			WindowDays:  getInt("dedup_window_days", 30),
			FailOpen:    getBool("dedup_fail_open", true),
			RetryBudget: getInt("dedup_retry_budget", 3),
			MemoryCap:   getInt("dedup_memory_cap", 1000),
		},
		Bots: BotsConfig{
			CronSecret:           getString("cron_secret", ""),
			MarketUpdateInterval: GetDuration("market_update_interval", 6*time.Hour),
			XPostInterval:        GetDuration("x_post_interval", 24*time.Hour),
			TweetDelay:           GetDuration("tweet_delay", 0),
		},
		Admin: AdminConfig{
			Password: getString("admin_password", ""),
		},
		Logging: LoggingConfig{
			Level:      getString("log_level", "INFO"),
			Format:     getString("log_format", "json"),
			FlatFormat: getBool("log_flat_format", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool("telemetry_enabled", true),
			JaegerURL:         getString("jaeger_url", "http://localhost:14268/api/traces"),
			PrometheusEnabled: getBool("prometheus_enabled", true),
			PrometheusPort:    getInt("prometheus_port", 9090),
			ServiceName:       getString("service_name", "studio"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("database_url", "")
	viper.SetDefault("http_server_port", 8080)
	viper.SetDefault("http_server_host", "0.0.0.0")
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("log_flat_format", true)
	viper.SetDefault("openai_model", "gpt-4o-mini")
	viper.SetDefault("publication_cost_sol", 100)
	viper.SetDefault("referral_commission_percent", 10)
	viper.SetDefault("dedup_window_days", 30)
	viper.SetDefault("dedup_fail_open", true)
	viper.SetDefault("dedup_retry_budget", 3)
	viper.SetDefault("dedup_memory_cap", 1000)
	viper.SetDefault("telemetry_enabled", true)
	viper.SetDefault("prometheus_enabled", true)
	viper.SetDefault("prometheus_port", 9090)
	viper.SetDefault("service_name", "studio")
}

func getString(key, defaultValue string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	// Also check environment variable directly
	if val := os.Getenv("STUDIO_" + toEnvKey(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if val := os.Getenv("STUDIO_" + toEnvKey(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if val := os.Getenv("STUDIO_" + toEnvKey(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}

func toEnvKey(key string) string {
	// Convert snake_case to UPPER_SNAKE_CASE
	result := ""
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result += "_"
		}
		if r == '-' || r == '_' {
			result += "_"
		} else {
			result += string(r)
		}
	}
	return result
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("http_server_port must be between 1 and 65535")
	}
	if c.Referral.CommissionPercent < 0 || c.Referral.CommissionPercent > 100 {
		return fmt.Errorf("referral_commission_percent must be between 0 and 100")
	}
	if c.Dedup.WindowDays <= 0 {
		return fmt.Errorf("dedup_window_days must be positive")
	}
	if c.Dedup.RetryBudget < 0 {
		return fmt.Errorf("dedup_retry_budget must not be negative")
	}
	if c.Dedup.MemoryCap <= 0 {
		return fmt.Errorf("dedup_memory_cap must be positive")
	}
	if c.Payments.PublicationCostSOL < 0 {
		return fmt.Errorf("publication_cost_sol must not be negative")
	}
	return nil
}

// GetDuration returns a duration from config key, with default
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return defaultValue
}
