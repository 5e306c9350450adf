package config

import "time"

// TLSConfig holds the optional HTTPS listener settings
type TLSConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	CertDir  string `json:"cert_dir" mapstructure:"cert_dir"`   // Directory holding <cert_name>/cert.pem and key.pem
	CertName string `json:"cert_name" mapstructure:"cert_name"` // Usually the host the certificate was generated for
}

// ServerConfig holds the browser-facing listener configuration
type ServerConfig struct {
	Port string    `json:"port" mapstructure:"port"`
	TLS  TLSConfig `json:"tls" mapstructure:"tls"`
}

// UpstreamConfig holds the case-management API connection settings
type UpstreamConfig struct {
	BaseURL      string        `json:"base_url" mapstructure:"base_url"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout"`   // Applied to GET calls
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout"` // Applied to every other method
}

// DashboardConfig holds the dashboard aggregator settings
type DashboardConfig struct {
	CustomerCacheSize int           `json:"customer_cache_size" mapstructure:"customer_cache_size"`
	CustomerCacheTTL  time.Duration `json:"customer_cache_ttl" mapstructure:"customer_cache_ttl"`
}

// MetricsConfig holds the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// AppConfig represents the complete application configuration
type AppConfig struct {
	LogLevel   string          `json:"log_level" mapstructure:"log_level"`
	AppVersion string          `json:"app_version" mapstructure:"app_version"`
	Timezone   string          `json:"timezone" mapstructure:"timezone"`
	Server     ServerConfig    `json:"server" mapstructure:"server"`
	Upstream   UpstreamConfig  `json:"upstream" mapstructure:"upstream"`
	Dashboard  DashboardConfig `json:"dashboard" mapstructure:"dashboard"`
	Metrics    MetricsConfig   `json:"metrics" mapstructure:"metrics"`

	location *time.Location
}

// Location returns the display timezone resolved during validation
func (c *AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// GetDefaultConfig returns a configuration with sensible defaults
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		LogLevel:   "info",
		AppVersion: "dev",
		Timezone:   "America/Asuncion",
		Server: ServerConfig{
			Port: "5000",
			TLS: TLSConfig{
				Enabled: false,
				CertDir: "certs",
			},
		},
		Upstream: UpstreamConfig{
			BaseURL:      "http://localhost:8000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Dashboard: DashboardConfig{
			CustomerCacheSize: 1024,
			CustomerCacheTTL:  24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
