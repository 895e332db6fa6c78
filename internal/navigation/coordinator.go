package navigation

import (
	"context"
	"fmt"

	"kubezen/pkg/logging"
)

// Renderer turns a view's display configuration into the action strings the
// selector bridge understands. Implemented by the selector package.
type Renderer interface {
	Render(view View, items []Item, opts Options, initial bool) ([]string, error)
}

// Result is the outcome of applying a signal: selector actions to forward,
// and whether the navigation session has ended.
type Result struct {
	Actions []string
	Exit    bool
}

// Coordinator owns the view stack and is the only component that mutates it.
// It is not safe for concurrent use; the UI dispatcher is its single owning
// goroutine and serializes every call.
type Coordinator struct {
	registry *Registry
	renderer Renderer
	stack    []View
}

// NewCoordinator creates a coordinator over the given registry and renderer.
func NewCoordinator(registry *Registry, renderer Renderer) *Coordinator {
	return &Coordinator{registry: registry, renderer: renderer}
}

// Depth returns the number of frames on the stack.
func (c *Coordinator) Depth() int { return len(c.stack) }

// Current returns the active view, or nil before Start.
func (c *Coordinator) Current() View {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Start clears the stack and pushes the default view with empty context,
// returning the selector actions that draw it.
func (c *Coordinator) Start(ctx context.Context) ([]string, error) {
	c.stack = c.stack[:0]
	construct, ok := c.registry.Lookup(DefaultViewKey)
	if !ok {
		return nil, fmt.Errorf("default view %q is not registered", DefaultViewKey)
	}
	return c.push(ctx, construct, nil, true)
}

// Apply interprets a navigation signal against the stack. Errors from a
// view's DisplayConfig or result hook propagate to the caller; the main loop
// is the single place that decides between recover and fatal.
func (c *Coordinator) Apply(ctx context.Context, sig Signal) (Result, error) {
	for {
		logging.Debug("Navigation", "applying signal %s (depth=%d)", sig.Kind(), len(c.stack))

		switch sig.Kind() {
		case SignalStay:
			actions, err := c.renderCurrent(ctx)
			if err != nil {
				return Result{}, err
			}
			return Result{Actions: append(actions, sig.ExtraActions()...)}, nil

		case SignalReload:
			if v := c.Current(); v != nil {
				v.MergeContext(sig.Context())
			}
			actions, err := c.renderCurrent(ctx)
			return Result{Actions: actions}, err

		case SignalToParent, SignalPopView:
			if len(c.stack) <= 1 {
				// Popping the bottom frame would leave an empty stack the
				// coordinator then reads from; treat it as session end.
				logging.Info("Navigation", "last frame popped, ending navigation session")
				return Result{Exit: true}, nil
			}
			c.stack = c.stack[:len(c.stack)-1]
			parent := c.Current()
			parent.MergeContext(sig.Context())
			actions, err := c.renderCurrent(ctx)
			return Result{Actions: actions}, err

		case SignalToParentWithResult:
			if len(c.stack) <= 1 {
				logging.Warn("Navigation", "attempted to pop the last frame with a result")
				return Result{Exit: true}, nil
			}
			child := c.Current()
			c.stack = c.stack[:len(c.stack)-1]
			parent := c.Current()

			actions, err := c.renderCurrent(ctx)
			if err != nil {
				return Result{}, err
			}

			sub, err := parent.HandleChildResult(ctx, sig.Result(), child.Context())
			if err != nil {
				return Result{}, err
			}
			if sub.Kind() == SignalInvalid || sub.Kind() == SignalStay {
				return Result{Actions: actions}, nil
			}
			// The result hook produced a follow-up transition; keep looping.
			sig = sub
			continue

		case SignalPushView:
			construct := sig.Constructor()
			if construct == nil {
				var ok bool
				construct, ok = c.registry.Lookup(sig.ViewKey())
				if !ok {
					return Result{}, fmt.Errorf("push failed: view key %q is not registered", sig.ViewKey())
				}
			}
			actions, err := c.push(ctx, construct, sig.Context(), false)
			return Result{Actions: actions}, err

		case SignalExitApplication:
			c.stack = c.stack[:0]
			return Result{Exit: true}, nil

		default:
			return Result{}, fmt.Errorf("cannot apply invalid navigation signal")
		}
	}
}

func (c *Coordinator) push(ctx context.Context, construct Constructor, viewContext map[string]any, initial bool) ([]string, error) {
	view := construct(viewContext)
	c.stack = append(c.stack, view)
	logging.Debug("Navigation", "pushed view %s (depth=%d)", view.SessionID(), len(c.stack))

	actions, err := c.render(ctx, view, initial)
	if err != nil {
		// The new view is broken; drop the frame so the stack stays sane.
		c.stack = c.stack[:len(c.stack)-1]
		return nil, err
	}
	return actions, nil
}

func (c *Coordinator) renderCurrent(ctx context.Context) ([]string, error) {
	view := c.Current()
	if view == nil {
		return nil, fmt.Errorf("no active view to render")
	}
	return c.render(ctx, view, false)
}

func (c *Coordinator) render(ctx context.Context, view View, initial bool) ([]string, error) {
	items, opts, err := view.DisplayConfig(ctx)
	if err != nil {
		return nil, err
	}
	if len(c.stack) > 1 {
		items = append(items, Item{Code: GoBackCode, Text: "Go Back", Icon: "↩"})
	}
	return c.renderer.Render(view, items, opts, initial)
}
