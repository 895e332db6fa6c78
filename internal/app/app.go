// Package app assembles the application: it builds every collaborator in
// dependency order, runs the browsing session and restarts it after
// unexpected failures.
package app

import (
	"context"
	"fmt"
	"time"

	"kubezen/internal/action"
	"kubezen/internal/config"
	"kubezen/internal/controller"
	"kubezen/internal/event"
	"kubezen/internal/input"
	"kubezen/internal/kube"
	"kubezen/internal/navigation"
	"kubezen/internal/selector"
	"kubezen/internal/tmux"
	"kubezen/internal/views"
	"kubezen/pkg/logging"
)

// restartDelay throttles the restart loop so a boot-time failure cannot spin.
const restartDelay = time.Second

// namedService adapts a stop function to the controller's Service interface.
type namedService struct {
	name string
	stop func(ctx context.Context) error
}

func (s namedService) Name() string                   { return s.name }
func (s namedService) Stop(ctx context.Context) error { return s.stop(ctx) }

// Run drives browsing sessions until one ends cleanly or the context is
// cancelled. An unexpected session failure is reported to the operator and
// the session restarts from scratch; every restart rebuilds the full service
// graph, so no stale subscriptions or informers survive into the next round.
func Run(ctx context.Context, cfg config.Config) error {
	for {
		err := runSession(ctx, cfg)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		logging.Error("App", err, "session failed, restarting")
		reportSessionFailure(ctx, cfg, err)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(restartDelay):
		}
	}
}

// runSession builds and runs one full browsing session.
func runSession(ctx context.Context, cfg config.Config) error {
	ui, err := tmux.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("tmux is not available: %w", err)
	}

	kubeClient, err := kube.NewClient(cfg)
	if err != nil {
		return err
	}
	version, err := kubeClient.ServerVersion()
	if err != nil {
		return fmt.Errorf("cluster is not reachable: %w", err)
	}
	logging.Info("App", "connected to Kubernetes %s", version)

	bus := event.NewBus()
	watcher := kube.NewWatcher(kubeClient, bus, cfg)
	bridge := selector.NewBridge(cfg, bus, ui)
	renderer := selector.NewRenderer(bridge.ItemFile())
	prompter := input.NewPrompter(ui)

	services := action.Services{
		Config:   cfg,
		UI:       ui,
		Kube:     kubeClient,
		Prompter: prompter,
	}
	viewRegistry := navigation.NewRegistry()
	views.RegisterAll(viewRegistry, views.Deps{
		Config:   cfg,
		Kube:     kubeClient,
		History:  kubeClient,
		Actions:  action.DefaultRegistry(),
		Services: services,
	})
	if err := viewRegistry.Validate(); err != nil {
		return err
	}

	coordinator := navigation.NewCoordinator(viewRegistry, renderer)
	crashReporter := controller.NewCrashReporter(ui, cfg.Pager, cfg.LogFile)

	var ctrl *controller.Controller
	dispatcher := controller.NewDispatcher(coordinator, bridge, ui, crashReporter, func(reason string) {
		ctrl.RequestShutdown(reason)
	})

	ctrl, err = controller.New(cfg, bridge, ui, []controller.Service{
		namedService{name: "watcher", stop: watcher.Stop},
		namedService{name: "selector", stop: bridge.Stop},
		dispatcher,
	})
	if err != nil {
		return err
	}

	if err := bridge.Start(ctx); err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		bridge.Stop(context.Background())
		return err
	}
	dispatcher.Subscribe(bus)
	if err := dispatcher.Start(ctx); err != nil {
		watcher.Stop(context.Background())
		bridge.Stop(context.Background())
		return err
	}

	return ctrl.Run(ctx)
}

// reportSessionFailure tries to show the failure in a pager window; when even
// that is impossible the log file already has it.
func reportSessionFailure(ctx context.Context, cfg config.Config, sessionErr error) {
	ui, err := tmux.NewManager(cfg)
	if err != nil {
		return
	}
	controller.NewCrashReporter(ui, cfg.Pager, cfg.LogFile).Report(ctx, sessionErr)
}
