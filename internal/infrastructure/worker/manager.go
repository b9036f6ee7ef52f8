// Package worker runs the console's background jobs.
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Worker defines the interface for background workers
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

type managedWorker struct {
	Worker
	started bool
}

// WorkerManager owns the lifecycle of the registered workers. Workers are
// started in registration order and stopped in reverse.
type WorkerManager struct {
	workers []*managedWorker
	logger  *zap.Logger

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{logger: logger}
}

// Register adds a worker. Names must be unique.
func (m *WorkerManager) Register(w Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("cannot register %s while workers are running", w.Name())
	}
	for _, existing := range m.workers {
		if existing.Name() == w.Name() {
			return fmt.Errorf("worker %s already registered", w.Name())
		}
	}

	m.workers = append(m.workers, &managedWorker{Worker: w})
	m.logger.Info("Worker registered",
		zap.String("worker_name", w.Name()),
		zap.Int("total_workers", len(m.workers)))
	return nil
}

// StartAll starts every registered worker. A worker that fails to start is
// logged and left stopped; the others still run.
func (m *WorkerManager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("workers already running")
	}

	var runCtx context.Context
	runCtx, m.cancel = context.WithCancel(ctx)
	m.running = true

	for _, w := range m.workers {
		if err := w.Start(runCtx); err != nil {
			m.logger.Error("Failed to start worker",
				zap.String("worker_name", w.Name()),
				zap.Error(err))
			continue
		}
		w.started = true
	}
	return nil
}

// StopAll stops the started workers in reverse registration order
func (m *WorkerManager) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
	}

	var failed []string
	for i := len(m.workers) - 1; i >= 0; i-- {
		w := m.workers[i]
		if !w.started {
			continue
		}
		w.started = false
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("worker_name", w.Name()),
				zap.Error(err))
			failed = append(failed, w.Name())
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to stop workers: %v", failed)
	}
	return nil
}

// Status reports, per worker name, whether the worker is running
func (m *WorkerManager) Status() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]bool, len(m.workers))
	for _, w := range m.workers {
		status[w.Name()] = w.started
	}
	return status
}

// Names returns the registered worker names, sorted
func (m *WorkerManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.workers))
	for _, w := range m.workers {
		names = append(names, w.Name())
	}
	sort.Strings(names)
	return names
}

// GetWorkerCount returns the number of registered workers
func (m *WorkerManager) GetWorkerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workers)
}

// IsRunning reports whether StartAll has run and StopAll has not
func (m *WorkerManager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}
