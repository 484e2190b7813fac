// Package ir defines the engine's internal representation.
//
// IR sits between host-language expression trees and target-runtime syntax.
// Everything the override layer produces — bound templates, normalized
// generated bodies, macro output, default lowerings — lands here, and the
// emitter downstream consumes nothing else. Evaluation order is explicit:
// siblings evaluate left to right, statements top to bottom.
package ir

import (
	"lumen/internal/source"
)

// ExprKind enumerates IR expression kinds.
type ExprKind uint8

const (
	// ExprLit represents literals (int, float, bool, string, null).
	ExprLit ExprKind = iota
	// ExprParamRef references a parameter of the enclosing callable by index.
	ExprParamRef
	// ExprLocalRef references a let-bound local by name.
	ExprLocalRef
	// ExprGlobalRef references the target runtime's global object or one of
	// its members. Uncached references re-evaluate the global on every use.
	ExprGlobalRef
	// ExprUnary represents unary operators (-, !).
	ExprUnary
	// ExprBinary represents binary operators (+, -, *, /, %, comparisons, && , ||).
	ExprBinary
	// ExprCall represents a call with an explicit callee expression.
	ExprCall
	// ExprMember represents property access (obj.name).
	ExprMember
	// ExprIndex represents indexing (obj[index]).
	ExprIndex
	// ExprCond represents the conditional expression (cond ? then : else).
	ExprCond
	// ExprFunc represents a function literal embedded in expression position.
	ExprFunc
	// ExprDeclRef references a static or free declaration. The emitter
	// resolves its final identifier through the sealed name-binding table;
	// IR never carries emission names directly.
	ExprDeclRef
)

// Expr is an IR expression. Data holds the kind-specific payload.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data any
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

// LitData is the payload of ExprLit.
type LitData struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// ParamRefData is the payload of ExprParamRef. Index 0 is the receiver for
// instance callables; Name mirrors the declared parameter name for printing.
type ParamRefData struct {
	Index int
	Name  string
}

// LocalRefData is the payload of ExprLocalRef.
type LocalRefData struct {
	Name string
}

// GlobalRefData is the payload of ExprGlobalRef. Name "" denotes the global
// object itself.
type GlobalRefData struct {
	Name   string
	Cached bool
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota // -
	UnaryNot                // !
)

// UnaryData is the payload of ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinLt
	BinLe
	BinGt
	BinGe
	BinEq
	BinNe
	BinAnd
	BinOr
)

// BinaryData is the payload of ExprBinary. Left evaluates before Right.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

// CallData is the payload of ExprCall. Callee evaluates first, then the
// arguments left to right.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

// MemberData is the payload of ExprMember. Decl is non-zero when the member
// is a declared host member: the emitter then takes the property name from
// the name-binding table and Name is only a debugging aid.
type MemberData struct {
	Object *Expr
	Name   string
	Decl   uint32
}

// DeclRefData is the payload of ExprDeclRef. Name mirrors the host name for
// printing; the binding table owns the emitted identifier.
type DeclRefData struct {
	Decl uint32
	Name string
}

// IndexData is the payload of ExprIndex.
type IndexData struct {
	Object *Expr
	Index  *Expr
}

// CondData is the payload of ExprCond.
type CondData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// FuncData is the payload of ExprFunc.
type FuncData struct {
	Func *Func
}
