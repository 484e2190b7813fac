package jsast

import (
	"fmt"

	"lumen/internal/ir"
)

// Lift embeds a target-level function into internal IR.
//
// The embedding preserves exact runtime semantics: statements become IR
// statements in order, expressions stay value-producing, and no implicit
// return is added — a target function that falls off the end did so on
// purpose. Identifiers resolve to parameters first, then to vars introduced
// earlier in the body; anything else is a (cached) global lookup, which is
// what the target runtime itself would do. The explicit global-object node
// lifts uncached, same as the placeholder form: whoever reaches for the
// global object wants its live state.
func Lift(fn *Func) (*ir.Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("jsast: nil function")
	}
	sc := &liftScope{params: map[string]int{}, locals: map[string]bool{}}
	for i, name := range fn.Params {
		sc.params[name] = i
	}
	body := &ir.Block{Stmts: make([]*ir.Stmt, 0, len(fn.Body))}
	for _, st := range fn.Body {
		lowered, err := liftStmt(st, sc)
		if err != nil {
			return nil, err
		}
		body.Stmts = append(body.Stmts, lowered)
	}
	params := make([]ir.Param, len(fn.Params))
	for i, name := range fn.Params {
		params[i] = ir.Param{Name: name}
	}
	return &ir.Func{Name: fn.Name, Params: params, Body: body, Span: fn.Span}, nil
}

type liftScope struct {
	params map[string]int
	locals map[string]bool
}

func liftStmt(st *Stmt, sc *liftScope) (*ir.Stmt, error) {
	switch st.Kind {
	case StmtExpr:
		d := st.Data.(ExprStmtData)
		e, err := liftExpr(d.Expr, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewExprStmt(e, st.Span), nil
	case StmtVar:
		d := st.Data.(VarData)
		e, err := liftExpr(d.Value, sc)
		if err != nil {
			return nil, err
		}
		// Visible to the statements that follow, per target scoping.
		sc.locals[d.Name] = true
		return ir.NewLet(d.Name, e, st.Span), nil
	case StmtReturn:
		d := st.Data.(ReturnData)
		if d.Value == nil {
			return ir.NewReturn(nil, st.Span), nil
		}
		e, err := liftExpr(d.Value, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewReturn(e, st.Span), nil
	}
	return nil, fmt.Errorf("jsast: unknown statement kind %d", st.Kind)
}

func liftExpr(e *Expr, sc *liftScope) (*ir.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("jsast: nil expression")
	}
	switch e.Kind {
	case ExprLit:
		d := e.Data.(LitData)
		switch d.Kind {
		case LitInt:
			return ir.NewInt(d.Int, e.Span), nil
		case LitFloat:
			return ir.NewFloat(d.Float, e.Span), nil
		case LitBool:
			return ir.NewBool(d.Bool, e.Span), nil
		case LitString:
			return ir.NewString(d.Str, e.Span), nil
		case LitNull:
			return ir.NewNull(e.Span), nil
		}
		return nil, fmt.Errorf("jsast: unknown literal kind %d", d.Kind)
	case ExprIdent:
		d := e.Data.(IdentData)
		if idx, ok := sc.params[d.Name]; ok {
			return ir.NewParamRef(idx, d.Name, e.Span), nil
		}
		if sc.locals[d.Name] {
			return ir.NewLocalRef(d.Name, e.Span), nil
		}
		return ir.NewGlobalRef(d.Name, true, e.Span), nil
	case ExprGlobal:
		return ir.NewGlobalRef("", false, e.Span), nil
	case ExprUnary:
		d := e.Data.(UnaryData)
		op, ok := unaryOps[d.Op]
		if !ok {
			return nil, fmt.Errorf("jsast: unsupported unary operator %q", d.Op)
		}
		operand, err := liftExpr(d.Operand, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(op, operand, e.Span), nil
	case ExprBinary:
		d := e.Data.(BinaryData)
		op, ok := binaryOps[d.Op]
		if !ok {
			return nil, fmt.Errorf("jsast: unsupported binary operator %q", d.Op)
		}
		left, err := liftExpr(d.Left, sc)
		if err != nil {
			return nil, err
		}
		right, err := liftExpr(d.Right, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewBinary(op, left, right, e.Span), nil
	case ExprCall:
		d := e.Data.(CallData)
		callee, err := liftExpr(d.Callee, sc)
		if err != nil {
			return nil, err
		}
		args := make([]*ir.Expr, len(d.Args))
		for i, a := range d.Args {
			if args[i], err = liftExpr(a, sc); err != nil {
				return nil, err
			}
		}
		return ir.NewCall(callee, args, e.Span), nil
	case ExprMember:
		d := e.Data.(MemberData)
		obj, err := liftExpr(d.Object, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewMember(obj, d.Name, e.Span), nil
	case ExprIndex:
		d := e.Data.(IndexData)
		obj, err := liftExpr(d.Object, sc)
		if err != nil {
			return nil, err
		}
		idx, err := liftExpr(d.Index, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewIndex(obj, idx, e.Span), nil
	case ExprCond:
		d := e.Data.(CondData)
		cond, err := liftExpr(d.Cond, sc)
		if err != nil {
			return nil, err
		}
		then, err := liftExpr(d.Then, sc)
		if err != nil {
			return nil, err
		}
		els, err := liftExpr(d.Else, sc)
		if err != nil {
			return nil, err
		}
		return ir.NewCond(cond, then, els, e.Span), nil
	case ExprFunc:
		d := e.Data.(FuncData)
		inner, err := Lift(d.Func)
		if err != nil {
			return nil, err
		}
		return ir.NewFuncExpr(inner, e.Span), nil
	}
	return nil, fmt.Errorf("jsast: unknown expression kind %d", e.Kind)
}

var unaryOps = map[string]ir.UnaryOp{
	"-": ir.UnaryNeg,
	"!": ir.UnaryNot,
}

var binaryOps = map[string]ir.BinaryOp{
	"+":  ir.BinAdd,
	"-":  ir.BinSub,
	"*":  ir.BinMul,
	"/":  ir.BinDiv,
	"%":  ir.BinRem,
	"<":  ir.BinLt,
	"<=": ir.BinLe,
	">":  ir.BinGt,
	">=": ir.BinGe,
	"==": ir.BinEq,
	"!=": ir.BinNe,
	"&&": ir.BinAnd,
	"||": ir.BinOr,
}
