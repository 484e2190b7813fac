package etree

import (
	"lumen/internal/source"
)

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

func NewParam(index int, name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprParam, Span: sp, Data: ParamData{Index: index, Name: name}}
}

func NewThis(sp source.Span) *Expr {
	return &Expr{Kind: ExprThis, Span: sp}
}

func NewLocal(name string, sp source.Span) *Expr {
	return &Expr{Kind: ExprLocal, Span: sp, Data: LocalData{Name: name}}
}

func NewUnary(op UnaryOp, operand *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprUnary, Span: sp, Data: UnaryData{Op: op, Operand: operand}}
}

func NewBinary(op BinaryOp, left, right *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprBinary, Span: sp, Data: BinaryData{Op: op, Left: left, Right: right}}
}

func NewCond(cond, then, els *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprCond, Span: sp, Data: CondData{Cond: cond, Then: then, Else: els}}
}

func NewCall(target DeclID, receiver *Expr, args []*Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprCall, Span: sp, Data: CallData{Target: target, Receiver: receiver, Args: args}}
}

func NewPropGet(target DeclID, receiver *Expr, sp source.Span) *Expr {
	return &Expr{Kind: ExprPropGet, Span: sp, Data: PropGetData{Target: target, Receiver: receiver}}
}

func NewLambda(fn *Func, sp source.Span) *Expr {
	return &Expr{Kind: ExprLambda, Span: sp, Data: LambdaData{Func: fn}}
}
