package decl

import (
	"lumen/internal/source"
)

// TypeKind enumerates the kinds of named types the engine distinguishes.
type TypeKind uint8

const (
	// KindClass is a concrete or abstract class.
	KindClass TypeKind = iota
	// KindInterface is an interface.
	KindInterface
	// KindModule groups free declarations; it has no instances and no
	// inheritance edges.
	KindModule
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindModule:
		return "module"
	}
	return "unknown"
}

// Tracking is the tri-state naming-tracking flag.
type Tracking uint8

const (
	// TrackInherit defers to the owner (declaration → type, type → tracked).
	TrackInherit Tracking = iota
	// Tracked participates in naming conflict detection (the default).
	Tracked
	// Untracked is excluded from conflict detection and long-identifier
	// generation; host-side and target-side naming may diverge on purpose.
	Untracked
)

// Type is a named host type. Implements lists both implemented interfaces
// and the base class, if any; the naming pass walks these edges and rejects
// cycles.
type Type struct {
	ID         TypeID
	Name       string
	FQN        string // fully qualified host name, dot-separated
	Kind       TypeKind
	Abstract   bool
	Implements []TypeID

	// ShortName replaces the long-identifier prefix for interface members
	// not otherwise fixed. ShortNameSet distinguishes "" from unset.
	ShortName    string
	ShortNameSet bool

	// EmptyNameMode makes all members not otherwise fixed emit under their
	// plain host-language name.
	EmptyNameMode bool

	Tracking Tracking
	Span     source.Span
}

// IsUntracked resolves the tri-state flag at type level.
func (t *Type) IsUntracked() bool {
	return t.Tracking == Untracked
}
