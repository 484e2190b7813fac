// Package template implements the placeholder-template parser and binder.
//
// A template literal is target-runtime expression syntax with placeholder
// holes: $name and $0-style indices bind call arguments or parameters, $this
// addresses the receiver, $global is the uncached global-object access. The
// parser restricts the literal to the engine's inline grammar (arithmetic,
// logical, property, index and call forms; Direct templates additionally
// allow `;`-separated statements and `return`). Parsing is attribute-local
// and pure: it performs no I/O and produces no IR until bound.
package template

import (
	"lumen/internal/decl"
)

// Spec is a parsed template: the template AST plus placeholder accounting.
// Parsed once per declaration and reused by every bind.
type Spec struct {
	Kind    decl.TemplateKind
	Literal string

	// Stmts is the parsed body; Inline templates always hold exactly one
	// expression statement.
	Stmts []*Node

	// Holes lists placeholders in order of first appearance.
	Holes []Placeholder
}

// PlaceholderKind tags the three placeholder forms.
type PlaceholderKind uint8

const (
	// HoleIndex is a 0-based positional placeholder ($0, $1, ...).
	HoleIndex PlaceholderKind = iota
	// HoleName is a named placeholder ($x) bound to a parameter name.
	HoleName
	// HoleThis is the $this receiver placeholder.
	HoleThis
)

// Placeholder is one hole in the template.
type Placeholder struct {
	Kind   PlaceholderKind
	Index  int
	Name   string
	Offset int // byte offset of the `$` in the literal
}

// NodeKind enumerates template AST node kinds.
type NodeKind uint8

const (
	// NodeLit represents a literal (int, float, bool, string, null).
	NodeLit NodeKind = iota
	// NodeIdent references a target-runtime identifier (a global lookup).
	NodeIdent
	// NodeHole is a placeholder use.
	NodeHole
	// NodeGlobal is the $global token.
	NodeGlobal
	// NodeUnary represents unary operators.
	NodeUnary
	// NodeBinary represents binary operators.
	NodeBinary
	// NodeCond represents the ternary conditional.
	NodeCond
	// NodeCall represents a call.
	NodeCall
	// NodeMember represents property access.
	NodeMember
	// NodeIndex represents computed access.
	NodeIndex
	// NodeReturn is a `return` statement (Direct kind only).
	NodeReturn
)

// Node is a template AST node. A single struct covers all kinds; unused
// fields stay zero.
type Node struct {
	Kind   NodeKind
	Offset int // byte offset into the literal, for error messages

	// NodeLit
	Lit LitValue

	// NodeIdent, NodeMember
	Name string

	// NodeHole
	Hole int // index into Spec.Holes

	// NodeUnary, NodeBinary
	Op string

	// Children, per-kind order:
	// unary: operand; binary: left, right; cond: cond, then, else;
	// call: callee then args; member/index: object (and index);
	// return: value (absent for bare return).
	Kids []*Node
}

// LitKind tags literal payloads.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
	LitNull
)

// LitValue is a parsed template literal value.
type LitValue struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}
