package ir

import (
	"lumen/internal/source"
)

// StmtKind enumerates IR statement kinds.
type StmtKind uint8

const (
	// StmtExpr evaluates an expression for its effect.
	StmtExpr StmtKind = iota
	// StmtLet binds the value of an expression to a named local.
	StmtLet
	// StmtReturn returns an optional value from the enclosing callable.
	StmtReturn
)

// Stmt is an IR statement. Data holds the kind-specific payload.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data any
}

// ExprStmtData is the payload of StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

// LetData is the payload of StmtLet.
type LetData struct {
	Name  string
	Value *Expr
}

// ReturnData is the payload of StmtReturn. Value may be nil.
type ReturnData struct {
	Value *Expr
}

// Block is an ordered statement sequence.
type Block struct {
	Stmts []*Stmt
}

// Param describes one parameter of a Func.
type Param struct {
	Name string
}

// Func is a complete callable: the only body form the emitter accepts.
type Func struct {
	Name   string
	Params []Param
	Body   *Block
	Span   source.Span
}
