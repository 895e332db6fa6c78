package controller

import (
	"context"
	"errors"
	"time"

	"kubezen/internal/action"
	"kubezen/internal/event"
	"kubezen/internal/navigation"
	"kubezen/internal/views"
	"kubezen/pkg/logging"
)

// ActionSender forwards selector actions; implemented by the bridge.
type ActionSender interface {
	SendActions(ctx context.Context, actions []string) error
}

// Notifier shows transient messages; implemented by the tmux manager.
type Notifier interface {
	ShowNotification(ctx context.Context, text, color string, durationSeconds int) error
}

// CrashReporter surfaces unexpected errors to the operator.
type CrashReporter interface {
	Report(ctx context.Context, err error)
}

// Dispatcher is the single consumer of UI events. Handlers on the bus only
// enqueue; one goroutine owns the coordinator and processes events strictly
// in order, so the view stack never sees concurrent mutation.
type Dispatcher struct {
	coordinator *navigation.Coordinator
	sender      ActionSender
	notifier    Notifier
	crash       CrashReporter
	onExit      func(reason string)

	queue  chan event.Event
	done   chan struct{}
	cancel context.CancelFunc

	// crashDelay throttles the loop after an unexpected error.
	crashDelay time.Duration
}

// NewDispatcher wires the dispatcher. onExit is invoked (once per cause) when
// navigation ends.
func NewDispatcher(coordinator *navigation.Coordinator, sender ActionSender, notifier Notifier, crash CrashReporter, onExit func(reason string)) *Dispatcher {
	return &Dispatcher{
		coordinator: coordinator,
		sender:      sender,
		notifier:    notifier,
		crash:       crash,
		onExit:      onExit,
		queue:       make(chan event.Event, 64),
		done:        make(chan struct{}),
		crashDelay:  time.Second,
	}
}

// Subscribe registers the dispatcher on the bus for every UI event type.
func (d *Dispatcher) Subscribe(bus *event.Bus) {
	enqueue := func(ctx context.Context, e event.Event) error {
		select {
		case d.queue <- e:
		case <-d.done:
		}
		return nil
	}
	bus.Subscribe(event.TypeSelection, enqueue)
	bus.Subscribe(event.TypeQueryChanged, enqueue)
	bus.Subscribe(event.TypeRefreshRequested, enqueue)
	bus.Subscribe(event.TypeExitRequested, enqueue)
	bus.Subscribe(event.TypeStoreUpdate, enqueue)
}

// Start draws the initial view and begins processing events.
func (d *Dispatcher) Start(ctx context.Context) error {
	actions, err := d.coordinator.Start(ctx)
	if err != nil {
		return err
	}
	if err := d.sender.SendActions(ctx, actions); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	go d.loop(loopCtx)
	return nil
}

// Stop ends event processing.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}
	close(d.done)
	return nil
}

// Name implements Service.
func (d *Dispatcher) Name() string { return "dispatcher" }

func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			d.process(ctx, e)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, e event.Event) {
	sig, ok := d.signalFor(ctx, e)
	if !ok {
		return
	}

	result, err := d.coordinator.Apply(ctx, sig)
	if err != nil {
		d.handleError(ctx, err)
		return
	}
	if result.Exit {
		if d.onExit != nil {
			d.onExit("navigation ended")
		}
		return
	}
	if err := d.sender.SendActions(ctx, result.Actions); err != nil {
		logging.Error("Dispatcher", err, "could not forward selector actions")
	}
}

// signalFor turns an event into the navigation signal to apply. The bool is
// false when the event is irrelevant (stale selection, unrelated store
// update) and nothing should happen.
func (d *Dispatcher) signalFor(ctx context.Context, e event.Event) (navigation.Signal, bool) {
	switch ev := e.(type) {
	case event.SelectionEvent:
		current := d.coordinator.Current()
		if current == nil {
			return navigation.Signal{}, false
		}
		if ev.ViewSessionID != current.SessionID() {
			logging.Debug("Dispatcher", "dropping stale selection for view %s", ev.ViewSessionID)
			return navigation.Signal{}, false
		}
		sig, err := current.ProcessSelection(ctx, ev.Code, ev.DisplayText, nil)
		if err != nil {
			d.handleError(ctx, err)
			return navigation.Signal{}, false
		}
		return sig, true

	case event.QueryChangedEvent:
		// Filtering happens inside fzf; the callback is consumed here only so
		// typing does not hit the bus's no-subscriber path on every keystroke.
		return navigation.Signal{}, false

	case event.RefreshRequestedEvent:
		return navigation.Reload(), true

	case event.ExitRequestedEvent:
		return navigation.Exit(), true

	case event.StoreUpdateEvent:
		aware, ok := d.coordinator.Current().(views.StoreAware)
		if !ok || !aware.WantsReload(ev.ResourceKind, ev.Namespace) {
			return navigation.Signal{}, false
		}
		return navigation.Reload(), true

	default:
		logging.Warn("Dispatcher", "ignoring unknown event type %s", e.Type())
		return navigation.Signal{}, false
	}
}

// handleError sorts errors by the action taxonomy: cancels and failures are
// operator feedback, everything else is a crash surfaced via the reporter.
// The loop always continues.
func (d *Dispatcher) handleError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, action.ErrCancelled):
		d.notifier.ShowNotification(ctx, "Cancelled", "yellow", 2)
		d.resync(ctx)
	case errors.Is(err, action.ErrFailed):
		d.notifier.ShowNotification(ctx, err.Error(), "red", 5)
		d.resync(ctx)
	default:
		logging.Error("Dispatcher", err, "unexpected error while processing event")
		d.crash.Report(ctx, err)
		select {
		case <-ctx.Done():
		case <-time.After(d.crashDelay):
		}
	}
}

// resync redraws the current view after a recoverable error. The failed
// operation may already have popped frames, so without a redraw the selector
// keeps showing the old list and every pick on it is dropped as stale.
func (d *Dispatcher) resync(ctx context.Context) {
	if d.coordinator.Depth() == 0 {
		return
	}
	result, err := d.coordinator.Apply(ctx, navigation.Reload())
	if err != nil {
		logging.Error("Dispatcher", err, "could not redraw view after recoverable error")
		return
	}
	if err := d.sender.SendActions(ctx, result.Actions); err != nil {
		logging.Error("Dispatcher", err, "could not forward selector actions")
	}
}
