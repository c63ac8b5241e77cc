// Package shutdown coordinates graceful teardown of the pieces a
// command starts: HTTP servers, tracing providers, background loops.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/psantana5/etatrack/internal/logging"
)

// Manager collects teardown functions and runs them in reverse order
// once Shutdown is called.
type Manager struct {
	mu      sync.Mutex
	funcs   []func(context.Context) error
	timeout time.Duration
	done    chan struct{}
	once    sync.Once
	log     *logging.Logger
}

// New creates a manager that gives the registered functions timeout
// in total to finish.
func New(timeout time.Duration, log *logging.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		done:    make(chan struct{}),
		log:     log,
	}
}

// Register adds fn to the teardown list. Functions run LIFO.
func (m *Manager) Register(fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, fn)
}

// RegisterHTTPServer registers a graceful stop for srv.
func (m *Manager) RegisterHTTPServer(name string, srv interface {
	Shutdown(context.Context) error
}) {
	m.Register(func(ctx context.Context) error {
		m.log.Info().Str("server", name).Msg("stopping HTTP server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop %s server: %w", name, err)
		}
		return nil
	})
}

// Notify arranges for Done to close when SIGINT or SIGTERM arrives.
// It returns immediately; callers select on Done.
func (m *Manager) Notify() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		m.log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		m.Trigger()
	}()
}

// Trigger marks shutdown as initiated without waiting for a signal.
// Safe to call more than once.
func (m *Manager) Trigger() {
	m.once.Do(func() { close(m.done) })
}

// Done is closed once shutdown has been initiated.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Shutdown runs the registered functions in reverse order under the
// manager's timeout. Failures are logged and do not stop the
// remaining functions.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	for i := len(m.funcs) - 1; i >= 0; i-- {
		if err := m.funcs[i](ctx); err != nil {
			m.log.Error().Err(err).Int("step", i).Msg("shutdown step failed")
		}
	}
}
