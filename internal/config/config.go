// Package config loads application configuration from files and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logger        LoggerConfig        `mapstructure:"logger"`
	Server        ServerConfig        `mapstructure:"server"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Source        SourceConfig        `mapstructure:"source"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
}

// AppConfig identifies the application.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Encoding    string `mapstructure:"encoding"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ElasticsearchConfig configures the document store.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
	Index     string   `mapstructure:"index"`
}

// DatabaseConfig configures the optional Postgres run-history store.
// An empty host disables run history.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Enabled reports whether run history should be recorded.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// SourceConfig configures the scraped news source.
type SourceConfig struct {
	ListingURL      string        `mapstructure:"listing_url"`
	ArticleBaseURL  string        `mapstructure:"article_base_url"`
	ArticleMarker   string        `mapstructure:"article_marker"`
	UserAgent       string        `mapstructure:"user_agent"`
	Referer         string        `mapstructure:"referer"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// SchedulerConfig configures periodic ingestion.
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from config.yaml (optional), the environment,
// and a .env file (optional), with defaults for every key.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	bindEnvironmentVariables(v)

	// config file is optional
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "fundwatch",
		"environment": "production",
	})

	v.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
	})

	v.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	v.SetDefault("elasticsearch", map[string]any{
		"addresses": []string{"http://127.0.0.1:9200"},
		"index":     "funding-records",
	})

	v.SetDefault("database", map[string]any{
		"host":     "",
		"port":     5432,
		"user":     "fundwatch",
		"dbname":   "fundwatch",
		"sslmode":  "disable",
		"password": "",
	})

	v.SetDefault("source", map[string]any{
		"listing_url":      "https://www.returnonsecurity.com/posts",
		"article_base_url": "https://www.returnonsecurity.com/p/",
		"article_marker":   "security-funded-",
		"user_agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36",
		"referer":          "https://www.returnonsecurity.com/",
		"politeness_delay": "1s",
		"request_timeout":  "30s",
	})

	v.SetDefault("scheduler", map[string]any{
		"enabled":  true,
		"schedule": "@every 4h",
	})
}

// bindEnvironmentVariables binds environment variables for keys that are
// commonly overridden in deployment.
func bindEnvironmentVariables(v *viper.Viper) {
	keys := []string{
		"logger.level",
		"server.address",
		"elasticsearch.addresses",
		"elasticsearch.username",
		"elasticsearch.password",
		"elasticsearch.api_key",
		"elasticsearch.index",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"scheduler.enabled",
		"scheduler.schedule",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
