package naming

import (
	"fmt"
	"sort"
	"sync"

	"lumen/internal/decl"
	"lumen/internal/source"
)

// Key addresses one member binding: the owning type and the member
// signature. Two classes implementing the same interface hold separate keys
// that may map to the same identifier.
type Key struct {
	Type      decl.TypeID
	Signature string
}

// Table is the write-once name-binding table. Concurrent contributions from
// parallel declaration processing synchronize on insertion; a differing
// re-insert is reported as an error, never silently overwritten. Once sealed
// the table is immutable and safe for lock-free reads.
type Table struct {
	mu       sync.Mutex
	names    map[Key]source.StringID
	interner *source.Interner
	sealed   bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		names:    make(map[Key]source.StringID),
		interner: source.NewInterner(),
	}
}

// Set records the binding for key. Re-inserting the same name is idempotent
// (two ancestors may propagate one identifier); a differing name is a
// write-conflict error surfaced to the caller.
func (t *Table) Set(key Key, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sealed {
		return fmt.Errorf("naming: table sealed, cannot bind %s.%s", keyType(key), key.Signature)
	}
	id := t.interner.Intern(name)
	if prev, ok := t.names[key]; ok {
		if prev != id {
			return fmt.Errorf("naming: %s already bound to %q, refusing %q",
				key.Signature, t.interner.MustLookup(prev), name)
		}
		return nil
	}
	t.names[key] = id
	return nil
}

// Seal freezes the table. Emission must not read bindings before Seal.
func (t *Table) Seal() {
	t.mu.Lock()
	t.sealed = true
	t.mu.Unlock()
}

// Sealed reports whether the table is frozen.
func (t *Table) Sealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sealed
}

// Name returns the binding for key. Reading an unsealed table is a
// programming error: emission started before the naming pass finished.
func (t *Table) Name(key Key) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.sealed {
		panic("naming: table read before seal")
	}
	id, ok := t.names[key]
	if !ok {
		return "", false
	}
	return t.interner.MustLookup(id), true
}

// NameOf resolves the binding for a declaration through its owner.
func (t *Table) NameOf(p *decl.Program, id decl.DeclID) (string, bool) {
	d := p.Decl(id)
	if d == nil {
		return "", false
	}
	return t.Name(Key{Type: d.Owner, Signature: d.Signature})
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.names)
}

// Entry is one binding row for dumps.
type Entry struct {
	Key  Key
	Name string
}

// Entries returns all bindings sorted by (type, signature); requires a
// sealed table.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.sealed {
		panic("naming: table read before seal")
	}
	out := make([]Entry, 0, len(t.names))
	for k, id := range t.names {
		out = append(out, Entry{Key: k, Name: t.interner.MustLookup(id)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Type != out[j].Key.Type {
			return out[i].Key.Type < out[j].Key.Type
		}
		return out[i].Key.Signature < out[j].Key.Signature
	})
	return out
}

func keyType(k Key) string {
	return fmt.Sprintf("type %d", k.Type)
}
