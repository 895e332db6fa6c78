package action

import (
	"fmt"
	"sync"
)

// Registry maps resource kinds to the actions offered for them. It is filled
// during startup and read-only afterwards; the mutex only guards against
// sloppy init ordering.
type Registry struct {
	mu      sync.RWMutex
	byKind  map[string][]Action
	byCode  map[string]Action
	general []Action
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[string][]Action),
		byCode: make(map[string]Action),
	}
}

// Register offers the action for the listed kinds; with no kinds it applies
// to every kind. Duplicate action codes are a wiring error.
func (r *Registry) Register(a Action, kinds ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCode[a.Code()]; exists {
		return fmt.Errorf("action code %q registered twice", a.Code())
	}
	r.byCode[a.Code()] = a
	if len(kinds) == 0 {
		r.general = append(r.general, a)
		return nil
	}
	for _, kind := range kinds {
		r.byKind[kind] = append(r.byKind[kind], a)
	}
	return nil
}

// MustRegister is Register for static wiring, panicking on duplicates.
func (r *Registry) MustRegister(a Action, kinds ...string) {
	if err := r.Register(a, kinds...); err != nil {
		panic(err)
	}
}

// For returns the actions applicable to the context's resource, kind-specific
// ones first, then the general set, filtered by Applicable.
func (r *Registry) For(actx *Context) []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := make([]Action, 0, len(r.byKind[actx.ResourceKind])+len(r.general))
	candidates = append(candidates, r.byKind[actx.ResourceKind]...)
	candidates = append(candidates, r.general...)

	applicable := candidates[:0]
	for _, a := range candidates {
		if a.Applicable(actx) {
			applicable = append(applicable, a)
		}
	}
	return applicable
}

// ByCode resolves an action by its code, used to resume after a child view.
func (r *Registry) ByCode(code string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byCode[code]
	return a, ok
}
