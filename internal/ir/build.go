package ir

import (
	"lumen/internal/source"
)

// Constructors for the common IR shapes. Every override path builds IR
// through these, so tests can compare shapes structurally.

func NewInt(v int64, sp source.Span) *Expr {
	return &Expr{Kind: ExprLit, Span: sp, Data: LitData{Kind: LitInt, Int: v}}
}

func NewFloat(v float64, sp source.Span) *Expr {
	return &Expr{Kind: ExprLit, Span: sp, Data: LitData{Kind: LitFloat, Float: v}}
}

func NewBool(v bool, sp source.Span) *Expr {
	return &Expr{Kind: ExprLit, Span: sp, Data: LitData{Kind: LitBool, Bool: v}}
}

func NewString(v string, sp source.Span) *Expr {
	return &Expr{Kind: ExprLit, Span: sp, Data: LitData{Kind: LitString, Str: v}}
}

func NewNull(sp source.Span) *Expr {
	return &Expr{Kind: ExprLit, Span: sp, Data: LitData{Kind: LitNull}}
}

func NewParamRef(index int, name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprParamRef, Span: sp, Data: ParamRefData{Index: index, Name: name}}
}

func NewLocalRef(name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprLocalRef, Span: sp, Data: LocalRefData{Name: name}}
}

func NewGlobalRef(name string, cached bool, sp source.Span) *Expr {
	return &Expr{Kind: ExprGlobalRef, Span: sp, Data: GlobalRefData{Name: name, Cached: cached}}
}

func NewUnary(op UnaryOp, operand *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprUnary, Span: sp, Data: UnaryData{Op: op, Operand: operand}}
}

func NewBinary(op BinaryOp, left, right *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprBinary, Span: sp, Data: BinaryData{Op: op, Left: left, Right: right}}
}

func NewCall(callee *Expr, args []*Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprCall, Span: sp, Data: CallData{Callee: callee, Args: args}}
}

func NewMember(object *Expr, name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprMember, Span: sp, Data: MemberData{Object: object, Name: name}}
}

// NewDeclMember references a declared host member on object; the emitter
// resolves the property name through the binding table.
func NewDeclMember(object *Expr, declID uint32, name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprMember, Span: sp, Data: MemberData{Object: object, Name: name, Decl: declID}}
}

func NewDeclRef(declID uint32, name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprDeclRef, Span: sp, Data: DeclRefData{Decl: declID, Name: name}}
}

func NewIndex(object, index *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprIndex, Span: sp, Data: IndexData{Object: object, Index: index}}
}

func NewCond(cond, then, els *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprCond, Span: sp, Data: CondData{Cond: cond, Then: then, Else: els}}
}

func NewFuncExpr(fn *Func, sp source.Span) *Expr {
	return &Expr{Kind: ExprFunc, Span: sp, Data: FuncData{Func: fn}}
}

func NewExprStmt(e *Expr, sp source.Span) *Stmt {
	return &Stmt{Kind: StmtExpr, Span: sp, Data: ExprStmtData{Expr: e}}
}

func NewLet(name string, value *Expr, sp source.Span) *Stmt {
	return &Stmt{Kind: StmtLet, Span: sp, Data: LetData{Name: name, Value: value}}
}

func NewReturn(value *Expr, sp source.Span) *Stmt {
	return &Stmt{Kind: StmtReturn, Span: sp, Data: ReturnData{Value: value}}
}

// ReturnExpr wraps a single expression into a one-statement function body.
func ReturnExpr(e *Expr) *Block {
	sp := source.Span{}
	if e != nil {
		sp = e.Span
	}
	return &Block{Stmts: []*Stmt{NewReturn(e, sp)}}
}
