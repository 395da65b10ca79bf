package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	sharedConfig "github.com/ledgerline/depositd/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Oracle       sharedConfig.OracleConfig       `mapstructure:"oracle"`
	Approval     sharedConfig.ApprovalConfig     `mapstructure:"approval"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
	Metrics      sharedConfig.MetricsConfig      `mapstructure:"metrics"`
}

// Load loads configuration from file and environment variables.
// configPath, when set, names the config file explicitly; otherwise config.yaml
// is searched in the usual locations. A missing file is not an error: defaults
// and DEPOSITD_* environment variables still apply.
func Load(env, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	// Set environment variable prefix and replacer
	v.SetEnvPrefix("DEPOSITD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "depositd")
	v.SetDefault("database.sqlite_path", "depositd.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Oracle defaults
	v.SetDefault("oracle.provider", "coingecko")
	v.SetDefault("oracle.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("oracle.symbol_ids", map[string]string{
		"BTC":  "bitcoin",
		"ETH":  "ethereum",
		"USDT": "tether",
		"USDC": "usd-coin",
		"SOL":  "solana",
		"TRX":  "tron",
	})
	v.SetDefault("oracle.request_timeout", 10*time.Second)
	v.SetDefault("oracle.cache_ttl", 30*time.Second)
	v.SetDefault("oracle.max_cache_age", 2*time.Minute)
	v.SetDefault("oracle.rate_per_second", 5.0)
	v.SetDefault("oracle.burst", 10)
	v.SetDefault("oracle.breaker.max_requests", 3)
	v.SetDefault("oracle.breaker.interval", 30*time.Second)
	v.SetDefault("oracle.breaker.timeout", 15*time.Second)
	v.SetDefault("oracle.breaker.consecutive_failures", 5)

	// Approval defaults
	v.SetDefault("approval.price_timeout", 5*time.Second)

	// Notification defaults
	v.SetDefault("notification.buffer_size", 100)
	v.SetDefault("notification.email.enabled", false)
	v.SetDefault("notification.email.smtp_host", "localhost")
	v.SetDefault("notification.email.smtp_port", 1025)
	v.SetDefault("notification.email.from_address", "noreply@depositd.local")
	v.SetDefault("notification.email.from_name", "Deposits")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.subsystem", "depositd")
}
