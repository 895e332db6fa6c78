package event

// Event types published on the bus. Most types are expected to have exactly
// one subscriber (the UI dispatcher); the bus itself does not enforce this.
const (
	TypeSelection        = "selector.selection"
	TypeQueryChanged     = "selector.query-changed"
	TypeRefreshRequested = "selector.refresh-requested"
	TypeExitRequested    = "selector.exit-requested"
	TypeStoreUpdate      = "store.update"
)

// Event is an immutable tagged payload. Identity is its type; two instances
// of the same type are independent.
type Event interface {
	Type() string
}

// SelectionEvent is published when the operator picks an item in the
// selector. RawLine is the unparsed "code|session|text" line the selector
// reported; the parsed fields are filled in by the bridge.
type SelectionEvent struct {
	Code          string
	ViewSessionID string
	DisplayText   string
	RawLine       string
}

func (SelectionEvent) Type() string { return TypeSelection }

// QueryChangedEvent is published when the selector's query string changes.
type QueryChangedEvent struct {
	Query string
}

func (QueryChangedEvent) Type() string { return TypeQueryChanged }

// RefreshRequestedEvent is published when the operator asks for a manual
// reload of the current view.
type RefreshRequestedEvent struct{}

func (RefreshRequestedEvent) Type() string { return TypeRefreshRequested }

// ExitRequestedEvent is published when the operator asks to leave the
// selector entirely.
type ExitRequestedEvent struct{}

func (ExitRequestedEvent) Type() string { return TypeExitRequested }

// StoreUpdateEvent is published by the watch layer when upstream resource
// state changes. Change is one of "added", "updated" or "deleted".
type StoreUpdateEvent struct {
	ResourceKind string
	Namespace    string
	Change       string
}

func (StoreUpdateEvent) Type() string { return TypeStoreUpdate }
