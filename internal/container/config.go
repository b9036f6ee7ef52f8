// Package container provides dependency injection and lifecycle management
// for the payroll tracking console.
package container

import (
	"github.com/garyjia/payroll-console/internal/config"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/lark"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/payrollapi"
	"github.com/garyjia/payroll-console/internal/infrastructure/worker"
	httpserver "github.com/garyjia/payroll-console/internal/interfaces/http"
)

// serviceName is attached to every log entry
const serviceName = "payroll-console"

// The functions below translate the loaded application config into the
// settings of each subsystem.

func serverConfig(cfg *config.Config) httpserver.ServerConfig {
	out := httpserver.DefaultServerConfig()
	out.Host = cfg.Server.Host
	out.Port = cfg.Server.Port
	if cfg.Server.ReadTimeout > 0 {
		out.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		out.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.ShutdownTimeout > 0 {
		out.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	if cfg.Server.Mode != "" {
		out.Mode = cfg.Server.Mode
	}
	out.AllowedOrigins = cfg.CORS.AllowedOrigins
	return out
}

func payrollAPIConfig(cfg *config.Config) payrollapi.Config {
	return payrollapi.Config{
		BaseURL: cfg.PayrollAPI.BaseURL,
		Timeout: cfg.PayrollAPI.Timeout,
	}
}

// larkEnabled reports whether Lark credentials and a target chat are set
func larkEnabled(cfg *config.Config) bool {
	return cfg.Lark.AppID != "" && cfg.Lark.AppSecret != "" && cfg.Lark.FinanceChatID != ""
}

func larkConfig(cfg *config.Config) lark.Config {
	return lark.Config{
		AppID:     cfg.Lark.AppID,
		AppSecret: cfg.Lark.AppSecret,
		Timeout:   cfg.Lark.APITimeout,
	}
}

func pollerConfig(cfg *config.Config) worker.PollerConfig {
	return worker.PollerConfig{
		ChatID:   cfg.Lark.FinanceChatID,
		Interval: cfg.Notifier.PollInterval,
		Cookie:   cfg.Notifier.ServiceCookie,
	}
}
