package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	PayrollAPI PayrollAPIConfig `mapstructure:"payroll_api"`
	Authz      AuthzConfig      `mapstructure:"authz"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Lark       LarkConfig       `mapstructure:"lark"`
	Notifier   NotifierConfig   `mapstructure:"notifier"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Mode            string        `mapstructure:"mode"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PayrollAPIConfig holds the remote payroll backend settings. Every page
// talks to this single base URL.
type PayrollAPIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MisconductTimeout time.Duration `mapstructure:"misconduct_timeout"`
}

// AuthzConfig holds page policy configuration
type AuthzConfig struct {
	// PolicyPath is an optional CSV of extra "p, role, page" grants
	PolicyPath string `mapstructure:"policy_path"`
}

// CORSConfig holds cross-origin settings for the JSON API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LarkConfig holds Lark API configuration
type LarkConfig struct {
	AppID         string        `mapstructure:"app_id"`
	AppSecret     string        `mapstructure:"app_secret"`
	FinanceChatID string        `mapstructure:"finance_chat_id"`
	APITimeout    time.Duration `mapstructure:"api_timeout"`
}

// NotifierConfig controls the background finance notification forwarder
type NotifierConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// ServiceCookie authenticates the forwarder against the payroll backend
	ServiceCookie string `mapstructure:"service_cookie"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads .env (when present), then configPath (when given), then
// environment overrides.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.mode", "release")

	// Payroll backend defaults
	v.SetDefault("payroll_api.base_url", "http://localhost:5000")
	v.SetDefault("payroll_api.timeout", 30*time.Second)
	v.SetDefault("payroll_api.misconduct_timeout", 10*time.Second)

	v.SetDefault("cors.allowed_origins", []string{})

	// Lark defaults
	v.SetDefault("lark.api_timeout", 30*time.Second)

	// Notifier defaults
	v.SetDefault("notifier.enabled", false)
	v.SetDefault("notifier.poll_interval", 30*time.Second)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials from environment
	_ = v.BindEnv("payroll_api.base_url", "PAYROLL_API_BASE_URL")
	_ = v.BindEnv("lark.app_id", "LARK_APP_ID")
	_ = v.BindEnv("lark.app_secret", "LARK_APP_SECRET")
	_ = v.BindEnv("lark.finance_chat_id", "LARK_FINANCE_CHAT_ID")
	_ = v.BindEnv("notifier.service_cookie", "NOTIFIER_SERVICE_COOKIE")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// A single backend base URL is required
	if c.PayrollAPI.BaseURL == "" {
		return fmt.Errorf("payroll_api.base_url is required")
	}
	u, err := url.Parse(c.PayrollAPI.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("payroll_api.base_url must be an absolute URL: %q", c.PayrollAPI.BaseURL)
	}
	if c.PayrollAPI.Timeout <= 0 {
		return fmt.Errorf("payroll_api.timeout must be positive")
	}
	if c.PayrollAPI.MisconductTimeout <= 0 {
		return fmt.Errorf("payroll_api.misconduct_timeout must be positive")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console")
	}

	if c.Notifier.Enabled {
		if c.Lark.AppID == "" {
			return fmt.Errorf("lark.app_id is required when the notifier is enabled")
		}
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required when the notifier is enabled")
		}
		if c.Lark.FinanceChatID == "" {
			return fmt.Errorf("lark.finance_chat_id is required when the notifier is enabled")
		}
		if c.Notifier.ServiceCookie == "" {
			return fmt.Errorf("notifier.service_cookie is required when the notifier is enabled")
		}
		if c.Notifier.PollInterval <= 0 {
			return fmt.Errorf("notifier.poll_interval must be positive")
		}
	}

	return nil
}
