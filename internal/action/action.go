package action

import (
	"context"

	"kubezen/internal/navigation"
)

// Action is one operation offered against a resource. Identity methods feed
// the action-list view; Applicable filters per resource and must stay pure.
type Action interface {
	// Name is the human-readable label shown in the action list.
	Name() string

	// Code uniquely identifies the action for selection and resumption.
	Code() string

	// Shortcut is an optional single-key hint shown next to the name.
	Shortcut() string

	// Icon decorates the action-list entry.
	Icon() string

	// Applicable reports whether the action makes sense for the resource in
	// actx. It never errors and never touches the cluster.
	Applicable(actx *Context) bool

	// Execute performs the action and returns the navigation signal to apply.
	Execute(ctx context.Context, actx *Context) (navigation.Signal, error)
}
