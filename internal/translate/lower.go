package translate

import (
	"fmt"

	"lumen/internal/decl"
	"lumen/internal/diag"
	"lumen/internal/etree"
	"lumen/internal/ir"
	"lumen/internal/macroexp"
	"lumen/internal/source"
	"lumen/internal/template"
)

// env is the lowering context of one callable: how parameter and receiver
// references resolve, and which declarations the current resolution chain is
// already inside (so post-hoc inlining cannot recurse into itself).
type env struct {
	params    []string // declared parameter names, receiver excluded
	hasRecv   bool
	resolving map[decl.DeclID]bool
}

func (e env) paramRef(index int, name string, sp source.Span) (*ir.Expr, error) {
	base := 0
	if e.hasRecv {
		base = 1
	}
	if index < 0 || index >= len(e.params) {
		return nil, lowerFail(diag.LowerUnsupported, sp,
			fmt.Sprintf("parameter index %d out of range", index))
	}
	if name == "" {
		name = e.params[index]
	}
	return ir.NewParamRef(base+index, name, sp), nil
}

// lowerDeclBody lowers a declaration's host body. The declaration's own
// parameter list is authoritative; the front end guarantees the body lambda
// matches it.
func (t *Translator) lowerDeclBody(d *decl.Decl, resolving map[decl.DeclID]bool) (*ir.Func, error) {
	e := env{params: d.ParamNames, hasRecv: d.HasReceiver(), resolving: resolving}
	body, err := t.lowerExpr(d.Body.Body, e)
	if err != nil {
		return nil, err
	}
	var params []ir.Param
	if e.hasRecv {
		params = append(params, ir.Param{Name: "this"})
	}
	for _, name := range d.ParamNames {
		params = append(params, ir.Param{Name: name})
	}
	return &ir.Func{Name: d.Name, Params: params, Body: ir.ReturnExpr(body), Span: d.Span}, nil
}

// LowerLambda lowers a bare host lambda through the default pipeline. This
// is the entry point generators use for ExpressionTreeBody normalization.
func (t *Translator) LowerLambda(fn *etree.Func) (*ir.Func, error) {
	return t.lowerLambda(fn, nil)
}

func (t *Translator) lowerLambda(fn *etree.Func, resolving map[decl.DeclID]bool) (*ir.Func, error) {
	names := make([]string, len(fn.Params))
	params := make([]ir.Param, len(fn.Params))
	for i, prm := range fn.Params {
		names[i] = prm.Name
		params[i] = ir.Param{Name: prm.Name}
	}
	body, err := t.lowerExpr(fn.Body, env{params: names, resolving: resolving})
	if err != nil {
		return nil, err
	}
	return &ir.Func{Name: fn.Name, Params: params, Body: ir.ReturnExpr(body), Span: fn.Span}, nil
}

// LowerExpr translates one expression in the context of a declaration. Used
// by the driver and tests to translate call sites directly.
func (t *Translator) LowerExpr(expr *etree.Expr, owner *decl.Decl) (*ir.Expr, error) {
	e := env{}
	if owner != nil {
		e = env{params: owner.ParamNames, hasRecv: owner.HasReceiver()}
	}
	return t.lowerExpr(expr, e)
}

// lowerExpr is the default pipeline, one expression node at a time. It is
// also what macro continuations run, so its output defines "translated with
// no macro attached".
func (t *Translator) lowerExpr(expr *etree.Expr, e env) (*ir.Expr, error) {
	if expr == nil {
		return nil, lowerFail(diag.LowerUnsupported, sourceSpanZero, "nil expression")
	}
	sp := expr.Span
	switch expr.Kind {
	case etree.ExprLit:
		return litToIR(expr.Data.(etree.LitData), sp), nil

	case etree.ExprParam:
		d := expr.Data.(etree.ParamData)
		return e.paramRef(d.Index, d.Name, sp)

	case etree.ExprThis:
		if !e.hasRecv {
			return nil, lowerFail(diag.LowerUnsupported, sp, "receiver reference outside an instance member")
		}
		return ir.NewParamRef(0, "this", sp), nil

	case etree.ExprLocal:
		return ir.NewLocalRef(expr.Data.(etree.LocalData).Name, sp), nil

	case etree.ExprUnary:
		d := expr.Data.(etree.UnaryData)
		operand, err := t.lowerExpr(d.Operand, e)
		if err != nil {
			return nil, err
		}
		return ir.NewUnary(unaryToIR(d.Op), operand, sp), nil

	case etree.ExprBinary:
		d := expr.Data.(etree.BinaryData)
		left, err := t.lowerExpr(d.Left, e)
		if err != nil {
			return nil, err
		}
		right, err := t.lowerExpr(d.Right, e)
		if err != nil {
			return nil, err
		}
		return ir.NewBinary(binaryToIR(d.Op), left, right, sp), nil

	case etree.ExprCond:
		d := expr.Data.(etree.CondData)
		cond, err := t.lowerExpr(d.Cond, e)
		if err != nil {
			return nil, err
		}
		then, err := t.lowerExpr(d.Then, e)
		if err != nil {
			return nil, err
		}
		els, err := t.lowerExpr(d.Else, e)
		if err != nil {
			return nil, err
		}
		return ir.NewCond(cond, then, els, sp), nil

	case etree.ExprCall:
		return t.lowerCall(expr, e, false)

	case etree.ExprPropGet:
		return t.lowerPropGet(expr, e)

	case etree.ExprLambda:
		d := expr.Data.(etree.LambdaData)
		inner, err := t.lowerLambda(d.Func, e.resolving)
		if err != nil {
			return nil, err
		}
		return ir.NewFuncExpr(inner, sp), nil
	}
	return nil, lowerFail(diag.LowerUnsupported, sp, fmt.Sprintf("unknown expression kind %d", expr.Kind))
}

// lowerCall translates one call site. skipMacro disables macro interception
// for exactly this node: it is how the whole-call fallback continuation
// reproduces the no-macro output without re-entering the macro.
func (t *Translator) lowerCall(expr *etree.Expr, e env, skipMacro bool) (*ir.Expr, error) {
	sp := expr.Span
	data := expr.Data.(etree.CallData)
	callee := t.prog.Decl(data.Target)
	if callee == nil {
		return nil, lowerFail(diag.LowerUnknownDecl, sp, fmt.Sprintf("call to unknown declaration %d", data.Target))
	}

	if callee.MacroRef != "" && !skipMacro {
		if !t.macros.Has(callee.MacroRef) {
			return nil, lowerFail(diag.MacroUnknownRef, sp,
				fmt.Sprintf("macro %q is not registered", callee.MacroRef))
		}
		whole := func(n *etree.Expr) (*ir.Expr, error) {
			return t.lowerCall(n, e, true)
		}
		sub := func(n *etree.Expr) (*ir.Expr, error) {
			return t.lowerExpr(n, e)
		}
		return macroexp.Dispatch(t.macros, callee.MacroRef, expr, whole, sub)
	}

	// Host order: receiver first, then arguments left to right.
	args, err := t.lowerCallArgs(callee, data, e, sp)
	if err != nil {
		return nil, err
	}

	if callee.Template != nil {
		return t.applyTemplate(callee, args, e, sp)
	}
	return callForm(callee, args, sp), nil
}

// callForm is the untemplated rendering of a call site: a member call through
// the receiver for instance members, a plain declaration call otherwise.
func callForm(callee *decl.Decl, args []*ir.Expr, sp source.Span) *ir.Expr {
	if callee.HasReceiver() {
		member := ir.NewDeclMember(args[0], uint32(callee.ID), callee.Name, sp)
		return ir.NewCall(member, args[1:], sp)
	}
	return ir.NewCall(ir.NewDeclRef(uint32(callee.ID), callee.Name, sp), args, sp)
}

// lowerCallArgs translates receiver and arguments in host evaluation order
// and checks the arity against the callee.
func (t *Translator) lowerCallArgs(callee *decl.Decl, data etree.CallData, e env, sp source.Span) ([]*ir.Expr, error) {
	var args []*ir.Expr
	if callee.HasReceiver() {
		if data.Receiver == nil {
			return nil, lowerFail(diag.LowerUnsupported, sp,
				fmt.Sprintf("instance member %s called without a receiver", callee.Name))
		}
		recv, err := t.lowerExpr(data.Receiver, e)
		if err != nil {
			return nil, err
		}
		args = append(args, recv)
	}
	for _, a := range data.Args {
		lowered, err := t.lowerExpr(a, e)
		if err != nil {
			return nil, err
		}
		args = append(args, lowered)
	}
	if len(args) != callee.ArgCount() {
		return nil, lowerFail(diag.LowerUnsupported, sp,
			fmt.Sprintf("%s expects %d arguments, got %d", callee.Name, callee.ArgCount(), len(args)))
	}
	return args, nil
}

// applyTemplate renders a templated callee at a call site: inline templates
// substitute, single-expression Direct templates substitute too, post-hoc
// inlines wrap the translated body, and statement-shaped Direct templates
// keep the plain call form.
func (t *Translator) applyTemplate(callee *decl.Decl, args []*ir.Expr, e env, sp source.Span) (*ir.Expr, error) {
	if callee.Template.Kind == decl.Inline && callee.Template.Mode == decl.InlinePosthoc {
		if e.resolving[callee.ID] {
			// Substituting a declaration into its own expansion never
			// terminates. The recursive occurrence keeps the plain call form,
			// which resolves against the body the declaration emits anyway.
			return callForm(callee, args, sp), nil
		}
		next := make(map[decl.DeclID]bool, len(e.resolving)+1)
		for id := range e.resolving {
			next[id] = true
		}
		next[callee.ID] = true
		fn, ok := t.nestedBody(callee.ID, next)
		if !ok {
			return nil, lowerFail(diag.LowerUnsupported, sp,
				fmt.Sprintf("post-hoc inline of %s: body did not translate", callee.Name))
		}
		return ir.NewCall(ir.NewFuncExpr(fn, sp), args, sp), nil
	}

	spec, err := t.templateSpec(callee)
	if err != nil {
		return nil, err
	}
	if callee.Template.Kind == decl.Direct {
		if _, inlinable := template.InlinableRoot(spec); !inlinable {
			return callForm(callee, args, sp), nil
		}
	}
	return template.BindInline(spec, callee, args, sp)
}

// lowerPropGet translates a property read: constants fold to their literal,
// templated properties substitute, the rest stay symbolic member reads.
func (t *Translator) lowerPropGet(expr *etree.Expr, e env) (*ir.Expr, error) {
	sp := expr.Span
	data := expr.Data.(etree.PropGetData)
	target := t.prog.Decl(data.Target)
	if target == nil {
		return nil, lowerFail(diag.LowerUnknownDecl, sp, fmt.Sprintf("read of unknown declaration %d", data.Target))
	}

	if target.Constant != nil {
		return litToIR(*target.Constant, sp), nil
	}

	var args []*ir.Expr
	if target.HasReceiver() {
		if data.Receiver == nil {
			return nil, lowerFail(diag.LowerUnsupported, sp,
				fmt.Sprintf("instance property %s read without a receiver", target.Name))
		}
		recv, err := t.lowerExpr(data.Receiver, e)
		if err != nil {
			return nil, err
		}
		args = append(args, recv)
	}

	if target.Template != nil && target.Template.Kind == decl.Inline && target.Template.Mode == decl.InlineReplace {
		spec, err := t.templateSpec(target)
		if err != nil {
			return nil, err
		}
		return template.BindInline(spec, target, args, sp)
	}

	if target.HasReceiver() {
		return ir.NewDeclMember(args[0], uint32(target.ID), target.Name, sp), nil
	}
	return ir.NewDeclRef(uint32(target.ID), target.Name, sp), nil
}

func litToIR(d etree.LitData, sp source.Span) *ir.Expr {
	switch d.Kind {
	case etree.LitInt:
		return ir.NewInt(d.Int, sp)
	case etree.LitFloat:
		return ir.NewFloat(d.Float, sp)
	case etree.LitBool:
		return ir.NewBool(d.Bool, sp)
	case etree.LitString:
		return ir.NewString(d.Str, sp)
	}
	return ir.NewNull(sp)
}

func unaryToIR(op etree.UnaryOp) ir.UnaryOp {
	if op == etree.UnaryNot {
		return ir.UnaryNot
	}
	return ir.UnaryNeg
}

func binaryToIR(op etree.BinaryOp) ir.BinaryOp {
	switch op {
	case etree.BinAdd:
		return ir.BinAdd
	case etree.BinSub:
		return ir.BinSub
	case etree.BinMul:
		return ir.BinMul
	case etree.BinDiv:
		return ir.BinDiv
	case etree.BinRem:
		return ir.BinRem
	case etree.BinLt:
		return ir.BinLt
	case etree.BinLe:
		return ir.BinLe
	case etree.BinGt:
		return ir.BinGt
	case etree.BinGe:
		return ir.BinGe
	case etree.BinEq:
		return ir.BinEq
	case etree.BinNe:
		return ir.BinNe
	case etree.BinAnd:
		return ir.BinAnd
	case etree.BinOr:
		return ir.BinOr
	}
	return ir.BinAdd
}
