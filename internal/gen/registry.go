package gen

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps stable generator references to constructors. Host attributes
// carry the reference string; the front end does not link against generator
// code, it only names it.
type Registry struct {
	mu   sync.Mutex
	ctor map[string]func() Generator
}

// NewRegistry creates an empty generator registry.
func NewRegistry() *Registry {
	return &Registry{ctor: make(map[string]func() Generator)}
}

// Register binds a constructor to a reference. Re-registering a name is a
// programming error and panics early, before any declaration resolves.
func (r *Registry) Register(ref string, ctor func() Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ctor[ref]; dup {
		panic(fmt.Sprintf("gen: duplicate generator %q", ref))
	}
	r.ctor[ref] = ctor
}

// New instantiates the generator registered under ref.
func (r *Registry) New(ref string) (Generator, error) {
	r.mu.Lock()
	ctor, ok := r.ctor[ref]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown generator %q", ref)
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
