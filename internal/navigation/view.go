package navigation

import (
	"context"

	"github.com/google/uuid"
)

// Item is one selectable entry offered by a view: an opaque code the view
// understands, the text shown to the operator and an optional icon.
type Item struct {
	Code string
	Text string
	Icon string
}

// Options carries the small display knobs a view controls on the selector.
type Options struct {
	Prompt  string
	Header  string
	Preview string
}

// Well-known item codes shared by all views.
const (
	GoBackCode        = "go_back"
	NoItemsCode       = "no_items"
	ErrorFetchingCode = "error_fetching"

	NoItemsIcon       = "⚠️"
	ErrorFetchingIcon = "❌"
)

// View is one presented unit of state. A view instance's lifetime equals its
// stack frame's lifetime: created on push, dropped on pop.
type View interface {
	// SessionID uniquely identifies this view instance; items are tagged
	// with it so stale selections from a previous frame can be discarded.
	SessionID() string

	// Context returns the view's mutable context map.
	Context() map[string]any

	// MergeContext folds signal context into the view's own on resume.
	MergeContext(extra map[string]any)

	// DisplayConfig produces the items and options for the selector.
	DisplayConfig(ctx context.Context) ([]Item, Options, error)

	// ProcessSelection handles a chosen item and returns the next signal.
	ProcessSelection(ctx context.Context, code, text string, selection map[string]any) (Signal, error)

	// HandleChildResult is invoked after a child view popped with a result.
	// The default implementation ignores it and stays.
	HandleChildResult(ctx context.Context, result map[string]any, childContext map[string]any) (Signal, error)
}

// Constructor builds a fresh view instance for a new stack frame.
type Constructor func(viewContext map[string]any) View

// Base provides the context/session plumbing shared by all views; concrete
// views embed it.
type Base struct {
	ctx       map[string]any
	sessionID string
}

// NewBase initializes the embedded view state with the given context.
func NewBase(viewContext map[string]any) Base {
	if viewContext == nil {
		viewContext = make(map[string]any)
	}
	return Base{ctx: viewContext, sessionID: uuid.NewString()}
}

// SessionID returns the unique id of this view instance.
func (b *Base) SessionID() string { return b.sessionID }

// Context returns the view's context map.
func (b *Base) Context() map[string]any { return b.ctx }

// MergeContext folds the given entries into the view context.
func (b *Base) MergeContext(extra map[string]any) {
	for k, v := range extra {
		b.ctx[k] = v
	}
}

// HandleChildResult ignores the result and keeps the view as-is.
func (b *Base) HandleChildResult(ctx context.Context, result map[string]any, childContext map[string]any) (Signal, error) {
	return Stay(), nil
}

// ContextString reads a string value from the view context.
func (b *Base) ContextString(key string) string {
	if v, ok := b.ctx[key].(string); ok {
		return v
	}
	return ""
}
