package navigation

import (
	"fmt"
	"sort"
)

// DefaultViewKey is the distinguished entry-point view. It must be
// registered before the registry is first used.
const DefaultViewKey = "namespaces"

// Registry maps symbolic view keys to constructors. It is populated
// explicitly at process start; there is no runtime discovery.
type Registry struct {
	views map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]Constructor)}
}

// Register associates a key with a constructor. Re-registering a key
// replaces the previous constructor.
func (r *Registry) Register(key string, construct Constructor) {
	r.views[key] = construct
}

// Lookup returns the constructor for a key.
func (r *Registry) Lookup(key string) (Constructor, bool) {
	c, ok := r.views[key]
	return c, ok
}

// Validate checks that the default view exists. Called once after
// registration; a missing default is a fatal startup error.
func (r *Registry) Validate() error {
	if _, ok := r.views[DefaultViewKey]; !ok {
		keys := make([]string, 0, len(r.views))
		for k := range r.views {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("default view %q is not registered (available: %v)", DefaultViewKey, keys)
	}
	return nil
}
