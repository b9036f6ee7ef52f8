package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/payroll-console/internal/application/dispatcher"
	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/config"
	"github.com/garyjia/payroll-console/internal/infrastructure/authz"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/payrollapi"
	"github.com/garyjia/payroll-console/internal/infrastructure/worker"
	httpserver "github.com/garyjia/payroll-console/internal/interfaces/http"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	api        *payrollapi.Client
	authorizer *authz.Authorizer
	documents  *DocumentBundle
	lark       *LarkBundle

	// Application
	dispatcher dispatcher.Dispatcher
	services   httpserver.Services

	// Interfaces
	server *httpserver.Server

	// Workers
	workers *worker.WorkerManager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components. The HTTP server is built but not
// started; run it with Server().Start.
// Order:
// 1. Payroll API client and page policy
// 2. Document adapters and Lark
// 3. Event dispatcher
// 4. Application services
// 5. HTTP server
// 6. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: backend access
	api, err := ProvidePayrollAPI(c.config, c.logger)
	if err != nil {
		return err
	}
	c.api = api

	authorizer, err := ProvideAuthorizer(c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to load page policy: %w", err)
	}
	c.authorizer = authorizer

	// Step 2: adapters
	c.documents = ProvideDocuments(c.logger)
	c.lark = ProvideLark(c.config, c.logger)
	c.logger.Info("Adapters initialized", zap.Bool("lark", c.lark != nil))

	// Step 3: dispatcher
	c.dispatcher = ProvideDispatcher(c.lark, c.logger)

	// Step 4: services
	services, err := ProvideServices(&ServiceDeps{
		API:        c.api,
		Authorizer: c.authorizer,
		Documents:  c.documents,
		Events:     c.dispatcher,
		Config:     c.config,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	// Step 5: HTTP server
	server, err := ProvideServer(c.config, c.services, c.logger)
	if err != nil {
		return err
	}
	c.server = server

	// Step 6: workers
	c.workers = ProvideWorkers(c.config, c.services.Notifications, c.lark, c.logger)
	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	c.logger.Info("Workers started", zap.Int("count", c.workers.GetWorkerCount()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: stop workers (reverse of step 6)
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	// Step 2: stop the HTTP server if it was started (reverse of step 5)
	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop server: %w", err))
		}
	}

	// Step 3: drain event handlers (reverse of step 3)
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	check := func(name string, ok bool, msg string) {
		status.Components[name] = ComponentHealth{Healthy: ok, Message: msg}
		if !ok {
			status.Overall = false
		}
	}

	if c.api != nil {
		check("payroll_api", true, c.api.BaseURL())
	} else {
		check("payroll_api", false, "not initialized")
	}

	if c.dispatcher != nil {
		check("dispatcher", true, "")
	} else {
		check("dispatcher", false, "not initialized")
	}

	if c.server != nil {
		check("http", true, c.server.Address())
	} else {
		check("http", false, "not initialized")
	}

	switch {
	case c.workers == nil:
		check("workers", false, "not initialized")
	case c.workers.GetWorkerCount() == 0:
		check("workers", true, "no workers registered")
	default:
		for name, running := range c.workers.Status() {
			msg := "running"
			if !running {
				msg = "stopped"
			}
			check("worker:"+name, running, msg)
		}
		check("workers", c.workers.IsRunning(), fmt.Sprintf("worker count: %d", c.workers.GetWorkerCount()))
	}

	// Lark is optional
	if c.lark != nil {
		status.Components["lark"] = ComponentHealth{Healthy: true, Message: c.lark.Client.GetAppID()}
	} else {
		status.Components["lark"] = ComponentHealth{Healthy: true, Message: "disabled"}
	}

	return status
}

// Getters for accessing container components

// PayrollAPI returns the payroll backend client.
func (c *Container) PayrollAPI() port.PayrollAPI {
	return c.api
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Services returns all application services.
func (c *Container) Services() httpserver.Services {
	return c.services
}

// Server returns the HTTP server.
func (c *Container) Server() *httpserver.Server {
	return c.server
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
