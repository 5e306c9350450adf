package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

var Config *AppConfig

// envAliases maps config keys to the plain environment variables the
// deployment already exports.
var envAliases = map[string]string{
	"upstream.base_url": "API_BASE_URL",
	"timezone":          "TZ",
	"log_level":         "LOG_LEVEL",
	"server.port":       "PORT",
}

func setDefaults() {
	d := GetDefaultConfig()
	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("app_version", d.AppVersion)
	viper.SetDefault("timezone", d.Timezone)
	viper.SetDefault("server.port", d.Server.Port)
	viper.SetDefault("server.tls.enabled", d.Server.TLS.Enabled)
	viper.SetDefault("server.tls.cert_dir", d.Server.TLS.CertDir)
	viper.SetDefault("server.tls.cert_name", d.Server.TLS.CertName)
	viper.SetDefault("upstream.base_url", d.Upstream.BaseURL)
	viper.SetDefault("upstream.read_timeout", d.Upstream.ReadTimeout)
	viper.SetDefault("upstream.write_timeout", d.Upstream.WriteTimeout)
	viper.SetDefault("dashboard.customer_cache_size", d.Dashboard.CustomerCacheSize)
	viper.SetDefault("dashboard.customer_cache_ttl", d.Dashboard.CustomerCacheTTL)
	viper.SetDefault("metrics.enabled", d.Metrics.Enabled)
	viper.SetDefault("metrics.path", d.Metrics.Path)
}

// Load reads the configuration from defaults, the optional config file and the environment
func Load() error {
	setDefaults()

	viper.SetEnvPrefix("SELVA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, env := range envAliases {
		if err := viper.BindEnv(key, "SELVA_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	viper.SetConfigFile(GetConfigPath())
	viper.SetConfigType("json")

	if _, err := os.Stat(GetConfigPath()); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		log.Debugf("Configuration file %s loaded", GetConfigPath())
	} else {
		log.Debug("No config file found, using defaults and environment")
	}

	cfg := &AppConfig{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	Config = cfg
	setLogLevel(Config.LogLevel)
	log.Debug("Configuration loaded successfully")
	return nil
}

// Save writes the current configuration to file
func Save() error {
	viper.Set("log_level", Config.LogLevel)
	viper.Set("timezone", Config.Timezone)
	viper.Set("server.port", Config.Server.Port)
	viper.Set("server.tls.enabled", Config.Server.TLS.Enabled)
	viper.Set("server.tls.cert_dir", Config.Server.TLS.CertDir)
	viper.Set("server.tls.cert_name", Config.Server.TLS.CertName)
	viper.Set("upstream.base_url", Config.Upstream.BaseURL)
	viper.Set("upstream.read_timeout", Config.Upstream.ReadTimeout.String())
	viper.Set("upstream.write_timeout", Config.Upstream.WriteTimeout.String())
	viper.Set("dashboard.customer_cache_size", Config.Dashboard.CustomerCacheSize)
	viper.Set("dashboard.customer_cache_ttl", Config.Dashboard.CustomerCacheTTL.String())
	viper.Set("metrics.enabled", Config.Metrics.Enabled)
	viper.Set("metrics.path", Config.Metrics.Path)

	return viper.WriteConfigAs(GetConfigPath())
}

// validate checks if the configuration is valid and fills derived values
func validate(cfg *AppConfig) error {
	cfg.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Upstream.BaseURL), "/")
	if cfg.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base_url is required")
	}

	if cfg.Upstream.ReadTimeout <= 0 || cfg.Upstream.WriteTimeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}

	if cfg.Dashboard.CustomerCacheSize <= 0 {
		return fmt.Errorf("dashboard customer_cache_size must be positive")
	}
	if cfg.Dashboard.CustomerCacheTTL <= 0 {
		return fmt.Errorf("dashboard customer_cache_ttl must be positive")
	}

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if cfg.Server.TLS.Enabled && cfg.Server.TLS.CertName == "" {
		return fmt.Errorf("server tls cert_name is required when tls is enabled")
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return nil
}

// setLogLevel configures the log level
func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() string {
	if path := os.Getenv("SELVA_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}

// BackupConfig creates a backup of the current configuration file, if any
func BackupConfig() error {
	configPath := GetConfigPath()
	backupPath := configPath + ".backup"

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	log.Debugf("Configuration backed up to %s", backupPath)
	return nil
}
