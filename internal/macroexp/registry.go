package macroexp

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps stable macro references to constructors, mirroring the
// generator registry: attributes carry names, never code.
type Registry struct {
	mu   sync.Mutex
	ctor map[string]func() Macro
}

// NewRegistry creates an empty macro registry.
func NewRegistry() *Registry {
	return &Registry{ctor: make(map[string]func() Macro)}
}

// Register binds a constructor to a reference; duplicates panic early.
func (r *Registry) Register(ref string, ctor func() Macro) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ctor[ref]; dup {
		panic(fmt.Sprintf("macroexp: duplicate macro %q", ref))
	}
	r.ctor[ref] = ctor
}

// New instantiates the macro registered under ref.
func (r *Registry) New(ref string) (Macro, error) {
	r.mu.Lock()
	ctor, ok := r.ctor[ref]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown macro %q", ref)
	}
	return ctor(), nil
}

// Has reports whether ref is registered.
func (r *Registry) Has(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ctor[ref]
	return ok
}

// Names returns registered references, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.ctor))
	for ref := range r.ctor {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}
