// Package lifecycle coordinates the ordered teardown of the server's
// components. Stop hooks register in startup order and run in reverse,
// so the HTTP listener drains before the stores it depends on close.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Hook stops one component. It must respect the context deadline.
type Hook func(ctx context.Context) error

type registration struct {
	name string
	stop Hook
}

// Manager owns the shutdown sequence: it watches for termination
// signals and tears registered components down in reverse order.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu   sync.Mutex
	once sync.Once
	regs []registration
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register appends a stop hook. Call order is startup order; teardown
// runs the hooks last-registered first.
func (m *Manager) Register(name string, stop Hook) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs = append(m.regs, registration{name: name, stop: stop})
}

// Shutdown stops every registered component under the configured
// timeout. A failing hook is logged and does not stop the sequence.
// Only the first call does anything; later calls return nil.
func (m *Manager) Shutdown(ctx context.Context) error {
	var result error
	m.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		stopCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		m.mu.Lock()
		regs := m.regs
		m.mu.Unlock()

		for i := len(regs) - 1; i >= 0; i-- {
			reg := regs[i]
			m.logger.Info("stopping", zap.String("component", reg.name))
			if err := reg.stop(stopCtx); err != nil {
				m.logger.Error("stop failed", zap.String("component", reg.name), zap.Error(err))
				result = errors.Join(result, err)
			}
		}
	})
	return result
}

// Listen invokes cancel once SIGTERM or SIGINT arrives.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("termination signal caught", zap.String("signal", sig.String()))
		cancel()
	}()
}
