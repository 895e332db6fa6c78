package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"kubezen/internal/config"
	"kubezen/pkg/logging"
)

// Service is anything the controller stops during shutdown. Services are
// registered in dependency order and stopped in reverse.
type Service interface {
	Name() string
	Stop(ctx context.Context) error
}

// HealthChecker reports selector liveness; implemented by the bridge.
type HealthChecker interface {
	IsRunning(ctx context.Context) bool
}

// UIKiller tears the visible UI down for instant feedback on interrupt.
type UIKiller interface {
	KillUI(ctx context.Context)
}

// Controller owns the application lifecycle: it watches selector health,
// bridges OS signals to an idempotent shutdown latch and stops services in
// reverse order when the session ends.
type Controller struct {
	cfg      config.Config
	health   HealthChecker
	ui       UIKiller
	services []Service

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New builds a controller. Every collaborator is mandatory; a nil one is a
// wiring bug caught here rather than deep inside the run loop.
func New(cfg config.Config, health HealthChecker, ui UIKiller, services []Service) (*Controller, error) {
	if health == nil {
		return nil, fmt.Errorf("controller requires a health checker")
	}
	if ui == nil {
		return nil, fmt.Errorf("controller requires a UI surface")
	}
	for i, s := range services {
		if s == nil {
			return nil, fmt.Errorf("controller service %d is nil", i)
		}
	}
	return &Controller{
		cfg:        cfg,
		health:     health,
		ui:         ui,
		services:   services,
		shutdownCh: make(chan struct{}),
	}, nil
}

// RequestShutdown trips the shutdown latch. Safe to call from any goroutine,
// any number of times.
func (c *Controller) RequestShutdown(reason string) {
	c.shutdownOnce.Do(func() {
		logging.Info("Controller", "shutdown requested: %s", reason)
		close(c.shutdownCh)
	})
}

// Done is closed once shutdown has been requested.
func (c *Controller) Done() <-chan struct{} { return c.shutdownCh }

// Run blocks until shutdown is requested (selector death, OS signal or
// context cancellation), then stops all services. It returns once shutdown
// has completed.
func (c *Controller) Run(ctx context.Context) error {
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go c.monitorHealth(monitorCtx)

	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go c.handleSignals(monitorCtx, signals)

	select {
	case <-c.shutdownCh:
	case <-ctx.Done():
		c.RequestShutdown("context cancelled")
	}

	c.shutdown()
	return nil
}

// monitorHealth polls selector liveness and trips shutdown on the first
// healthy-to-unhealthy transition. A selector that never came up is the
// bridge's startup problem, not a health event.
func (c *Controller) monitorHealth(ctx context.Context) {
	interval := c.cfg.HealthCheckInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasHealthy := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdownCh:
			return
		case <-ticker.C:
		}
		healthy := c.health.IsRunning(ctx)
		if wasHealthy && !healthy {
			c.RequestShutdown("selector is no longer running")
			return
		}
		wasHealthy = healthy
	}
}

// handleSignals converts each signal delivery into an immediate UI teardown
// plus the (idempotent) shutdown request. Repeated Ctrl+C while shutdown is
// already underway still re-kills the UI so the operator gets feedback.
func (c *Controller) handleSignals(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			logging.Info("Controller", "received signal %s", sig)
			go c.ui.KillUI(context.Background())
			c.RequestShutdown("signal " + sig.String())
		}
	}
}

// shutdown stops every service in reverse registration order. Each stop gets
// its own timeout and failures are isolated: one broken service never blocks
// the rest from stopping.
func (c *Controller) shutdown() {
	timeout := c.cfg.StopTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	for i := len(c.services) - 1; i >= 0; i-- {
		svc := c.services[i]
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := svc.Stop(stopCtx); err != nil {
			logging.Error("Controller", err, "service %s failed to stop", svc.Name())
		} else {
			logging.Debug("Controller", "service %s stopped", svc.Name())
		}
		cancel()
	}
	logging.Info("Controller", "shutdown complete")
}
