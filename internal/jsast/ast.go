// Package jsast models target-runtime syntax trees.
//
// Generators may hand the engine a ready-made target-level function instead
// of a host expression tree; this package is that surface plus the embedding
// into internal IR. It deliberately covers only the expression/statement
// subset the override layer accepts — it is not a full grammar for the
// target runtime.
package jsast

import (
	"lumen/internal/source"
)

// ExprKind enumerates target expression kinds.
type ExprKind uint8

const (
	// ExprLit represents literals (number, bool, string, null).
	ExprLit ExprKind = iota
	// ExprIdent references an identifier in scope (parameter, var, global).
	ExprIdent
	// ExprGlobal references the global object itself.
	ExprGlobal
	// ExprUnary represents unary operators.
	ExprUnary
	// ExprBinary represents binary operators.
	ExprBinary
	// ExprCall represents a call.
	ExprCall
	// ExprMember represents property access.
	ExprMember
	// ExprIndex represents computed access.
	ExprIndex
	// ExprCond represents the ternary conditional.
	ExprCond
	// ExprFunc represents a function expression.
	ExprFunc
)

// Expr is a target expression node.
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

// IdentData is the payload of ExprIdent.
type IdentData struct {
	Name string
}

// UnaryData is the payload of ExprUnary. Op uses target spelling ("-", "!").
type UnaryData struct {
	Op      string
	Operand *Expr
}

// BinaryData is the payload of ExprBinary. Op uses target spelling.
type BinaryData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

// CallData is the payload of ExprCall.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

// MemberData is the payload of ExprMember.
type MemberData struct {
	Object *Expr
	Name   string
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

// StmtKind enumerates target statement kinds.
type StmtKind uint8

const (
	// StmtExpr evaluates an expression for effect.
	StmtExpr StmtKind = iota
	// StmtVar declares and initializes a local variable.
	StmtVar
	// StmtReturn returns an optional value.
	StmtReturn
)

// Stmt is a target statement node.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data any
}

// ExprStmtData is the payload of StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

// VarData is the payload of StmtVar.
type VarData struct {
	Name  string
	Value *Expr
}

// ReturnData is the payload of StmtReturn. Value may be nil.
type ReturnData struct {
	Value *Expr
}

// Func is a complete target-level function: named parameters and a statement
// body.
type Func struct {
	Name   string
	Params []string
	Body   []*Stmt
	Span   source.Span
}
