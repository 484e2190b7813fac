// Package etree holds host-language expression trees.
//
// This is the form the front end hands over: typed, resolved, and read-only
// to the translation engine. Call targets are declaration IDs resolved by the
// front end; the engine looks attributes up by those IDs and never sees raw
// host syntax. Expression trees exist only on the inbound side — everything
// leaving the engine is internal IR.
package etree

import (
	"lumen/internal/source"
)

// DeclID references a declaration, as resolved by the front end.
type DeclID uint32

// NoDeclID is the zero sentinel for DeclID.
const NoDeclID DeclID = 0

// IsValid returns true if the ID references a declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// ExprKind enumerates host expression kinds.
type ExprKind uint8

const (
	// ExprLit represents literals (int, float, bool, string, null).
	ExprLit ExprKind = iota
	// ExprParam references a parameter of the enclosing callable.
	ExprParam
	// ExprThis references the receiver of the enclosing instance callable.
	ExprThis
	// ExprLocal references a front-end-introduced local binding.
	ExprLocal
	// ExprUnary represents host unary operators.
	ExprUnary
	// ExprBinary represents host binary operators.
	ExprBinary
	// ExprCond represents the host conditional expression.
	ExprCond
	// ExprCall represents a call to a resolved declaration.
	ExprCall
	// ExprPropGet represents reading a resolved property declaration.
	ExprPropGet
	// ExprLambda represents a nested lambda.
	ExprLambda
)

// Expr is a host expression node. Data holds the kind-specific payload.
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

// ParamData is the payload of ExprParam.
type ParamData struct {
	Index int // 0-based among declared parameters, receiver excluded
	Name  string
}

// LocalData is the payload of ExprLocal.
type LocalData struct {
	Name string
}

// UnaryOp enumerates host unary operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

// UnaryData is the payload of ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

// BinaryOp enumerates host binary operators.
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

// BinaryData is the payload of ExprBinary. Host semantics evaluate Left
// before Right; the lowering must keep that order.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

// CondData is the payload of ExprCond.
type CondData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// CallData is the payload of ExprCall. Receiver is nil for free functions and
// static members. Receiver evaluates first, then arguments left to right.
type CallData struct {
	Target   DeclID
	Receiver *Expr
	Args     []*Expr
}

// PropGetData is the payload of ExprPropGet.
type PropGetData struct {
	Target   DeclID
	Receiver *Expr
}

// LambdaData is the payload of ExprLambda.
type LambdaData struct {
	Func *Func
}

// Param describes one declared parameter of a Func.
type Param struct {
	Name string
}

// Func is a whole host lambda: declared parameters plus an expression body.
// The front end desugars statement bodies into expression form before the
// hand-off, so a Func always denotes a complete callable.
type Func struct {
	Name   string
	Params []Param
	Body   *Expr
	Span   source.Span
}
