// Package decl models the declaration program handed over by the front end:
// types, members, and the translation-override attributes the engine resolves.
// The model is read-only once loaded; every pass downstream treats it as
// immutable input.
package decl

import (
	"lumen/internal/etree"
)

// DeclID identifies a declaration. It is the same ID space the front end
// uses for call targets inside expression trees.
type DeclID = etree.DeclID

// NoDeclID is the zero sentinel for DeclID.
const NoDeclID = etree.NoDeclID

// TypeID identifies a type within a program.
type TypeID uint32

// NoTypeID is the zero sentinel for TypeID.
const NoTypeID TypeID = 0

// IsValid returns true if the ID refers to a type.
func (id TypeID) IsValid() bool { return id != NoTypeID }
