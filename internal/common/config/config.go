// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Shopify ShopifyConfig `mapstructure:"shopify"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Orders  OrdersConfig  `mapstructure:"orders"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int `mapstructure:"write_timeout"` // milliseconds
}

// ShopifyConfig holds the static per-deployment commerce credentials.
// ShopDomain and AccessToken are mandatory; their absence is a startup
// failure. BaseURL overrides the derived admin API URL (dev proxies, tests).
type ShopifyConfig struct {
	ShopDomain  string `mapstructure:"shop_domain"`
	AccessToken string `mapstructure:"access_token"`
	APIVersion  string `mapstructure:"api_version"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
	BaseURL     string `mapstructure:"base_url"`
	SearchLimit int    `mapstructure:"search_limit"`
}

// WebhookConfig holds the workflow-automation relay settings. The relay is
// best-effort: Timeout bounds how long a notification may run before being
// abandoned.
type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
	Enabled bool   `mapstructure:"enabled"`
}

// OrdersConfig holds order-assembly policy knobs. AddressFallback controls
// whether a missing billing/shipping field is filled from the sibling
// address before falling back to a placeholder.
type OrdersConfig struct {
	AddressFallback bool   `mapstructure:"address_fallback"`
	DefaultNote     string `mapstructure:"default_note"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
