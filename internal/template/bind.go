package template

import (
	"fmt"

	"lumen/internal/decl"
	"lumen/internal/ir"
	"lumen/internal/source"
)

// receiverParam names the receiver slot in bound bodies and inline wrappers.
const receiverParam = "this"

// BindDirect resolves a FunctionBody template against its declaration,
// producing a complete callable. Placeholders bind to parameter references:
// index 0 is the receiver for instance members, 0.. are the declared
// parameters otherwise. The final expression statement gets an implicit
// return.
func BindDirect(spec *Spec, d *decl.Decl) (*ir.Func, error) {
	if spec.Kind != decl.Direct {
		return nil, fmt.Errorf("BindDirect on %s template", kindName(spec.Kind))
	}
	resolve, params, err := paramResolver(spec, d)
	if err != nil {
		return nil, err
	}

	body := &ir.Block{}
	for i, st := range spec.Stmts {
		last := i == len(spec.Stmts)-1
		switch st.Kind {
		case NodeReturn:
			var value *ir.Expr
			if len(st.Kids) == 1 {
				if value, err = lowerNode(st.Kids[0], resolve, d.Span); err != nil {
					return nil, err
				}
			}
			body.Stmts = append(body.Stmts, ir.NewReturn(value, d.Span))
		default:
			e, err := lowerNode(st, resolve, d.Span)
			if err != nil {
				return nil, err
			}
			if last {
				body.Stmts = append(body.Stmts, ir.NewReturn(e, d.Span))
			} else {
				body.Stmts = append(body.Stmts, ir.NewExprStmt(e, d.Span))
			}
		}
	}
	return &ir.Func{Name: d.Name, Params: params, Body: body, Span: d.Span}, nil
}

// InlinableRoot returns the single expression a template reduces to, when it
// does. Inline templates always qualify; a Direct template qualifies when its
// body is one expression statement (or one `return expr`), which is what lets
// call sites of such declarations substitute the expression instead of
// emitting a call node.
func InlinableRoot(spec *Spec) (*Node, bool) {
	if len(spec.Stmts) != 1 {
		return nil, false
	}
	st := spec.Stmts[0]
	if st.Kind == NodeReturn {
		if len(st.Kids) == 1 {
			return st.Kids[0], true
		}
		return nil, false
	}
	return st, true
}

// BindInline substitutes call-argument IR into a single-expression template.
// args holds the translated call arguments in host order, receiver first for
// instance members. When the template consumes each argument exactly once in
// argument order the substitution is verbatim; otherwise the arguments are
// bound to a wrapper callable invoked immediately, so host left-to-right
// evaluation order survives reordering, repetition and unused arguments.
func BindInline(spec *Spec, d *decl.Decl, args []*ir.Expr, sp source.Span) (*ir.Expr, error) {
	root, ok := InlinableRoot(spec)
	if !ok {
		return nil, fmt.Errorf("template is not a single expression")
	}
	if want := d.ArgCount(); len(args) != want {
		return nil, fmt.Errorf("inline template for %s: %d arguments, expected %d", d.Name, len(args), want)
	}
	holeArg, err := holeArgIndexes(spec, d)
	if err != nil {
		return nil, err
	}

	if substitutionSafe(root, holeArg, len(args)) {
		resolve := func(hole int) *ir.Expr { return args[holeArg[hole]] }
		return lowerNode(root, resolve, sp)
	}

	// Wrapper path: evaluate every argument once, in order, as parameters of
	// an immediately invoked callable.
	params := make([]ir.Param, len(args))
	for i := range args {
		params[i] = ir.Param{Name: argSlotName(d, i)}
	}
	resolve := func(hole int) *ir.Expr {
		idx := holeArg[hole]
		return ir.NewParamRef(idx, params[idx].Name, sp)
	}
	bound, err := lowerNode(root, resolve, sp)
	if err != nil {
		return nil, err
	}
	wrapper := &ir.Func{Params: params, Body: ir.ReturnExpr(bound), Span: sp}
	return ir.NewCall(ir.NewFuncExpr(wrapper, sp), args, sp), nil
}

// paramResolver maps template holes to parameter references for Direct
// binding, and builds the bound callable's parameter list.
func paramResolver(spec *Spec, d *decl.Decl) (func(int) *ir.Expr, []ir.Param, error) {
	hasRecv := d.HasReceiver()
	var params []ir.Param
	if hasRecv {
		params = append(params, ir.Param{Name: receiverParam})
	}
	for _, name := range d.ParamNames {
		params = append(params, ir.Param{Name: name})
	}

	refs := make([]*ir.Expr, len(spec.Holes))
	for i, h := range spec.Holes {
		idx, err := holeToIndex(h, d)
		if err != nil {
			return nil, nil, err
		}
		refs[i] = ir.NewParamRef(idx, params[idx].Name, d.Span)
	}
	return func(hole int) *ir.Expr { return refs[hole] }, params, nil
}

// holeArgIndexes maps every hole to its argument slot at a call site.
func holeArgIndexes(spec *Spec, d *decl.Decl) ([]int, error) {
	out := make([]int, len(spec.Holes))
	for i, h := range spec.Holes {
		idx, err := holeToIndex(h, d)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// holeToIndex resolves one placeholder against the declaration. The index
// space is the call-argument space: receiver is 0 for instance members and
// declared parameters follow; without a receiver the parameters start at 0.
func holeToIndex(h Placeholder, d *decl.Decl) (int, error) {
	hasRecv := d.HasReceiver()
	base := 0
	if hasRecv {
		base = 1
	}
	switch h.Kind {
	case HoleIndex:
		if h.Index >= d.ArgCount() {
			return 0, &BindError{Hole: h, Msg: fmt.Sprintf("index %d out of range for %s (%d slots)", h.Index, d.Name, d.ArgCount())}
		}
		return h.Index, nil
	case HoleName:
		for i, name := range d.ParamNames {
			if name == h.Name {
				return base + i, nil
			}
		}
		return 0, &BindError{Hole: h, Msg: fmt.Sprintf("no parameter named %q on %s", h.Name, d.Name)}
	case HoleThis:
		if d.StaticRewrite {
			return 0, &AmbiguousSelfError{Msg: "receiver of an extension-style static rewrite is not addressable; use $0"}
		}
		if !hasRecv {
			return 0, &BindError{Hole: h, Msg: fmt.Sprintf("%s has no receiver", d.Name)}
		}
		for _, name := range d.ParamNames {
			if name == receiverParam {
				return 0, &AmbiguousSelfError{Msg: fmt.Sprintf("parameter named %q on %s shadows the receiver placeholder", receiverParam, d.Name)}
			}
		}
		return 0, nil
	}
	return 0, &BindError{Hole: h, Msg: "unknown placeholder kind"}
}

// substitutionSafe reports whether verbatim substitution preserves host
// evaluation: every argument referenced exactly once, references appearing
// in argument order.
func substitutionSafe(root *Node, holeArg []int, argCount int) bool {
	var seq []int
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == NodeHole {
			seq = append(seq, holeArg[n.Hole])
		}
		for _, kid := range n.Kids {
			walk(kid)
		}
	}
	walk(root)

	if len(seq) != argCount {
		return false
	}
	for i, idx := range seq {
		if idx != i {
			return false
		}
	}
	return true
}

// argSlotName picks a stable parameter name for the wrapper path.
func argSlotName(d *decl.Decl, idx int) string {
	if d.HasReceiver() {
		if idx == 0 {
			return receiverParam
		}
		return d.ParamNames[idx-1]
	}
	return d.ParamNames[idx]
}

// lowerNode turns a template node into IR, substituting holes via resolve.
// Template nodes carry literal offsets, not source spans, so every produced
// node inherits the caller's span.
func lowerNode(n *Node, resolve func(int) *ir.Expr, sp source.Span) (*ir.Expr, error) {
	switch n.Kind {
	case NodeLit:
		switch n.Lit.Kind {
		case LitInt:
			return ir.NewInt(n.Lit.Int, sp), nil
		case LitFloat:
			return ir.NewFloat(n.Lit.Float, sp), nil
		case LitBool:
			return ir.NewBool(n.Lit.Bool, sp), nil
		case LitString:
			return ir.NewString(n.Lit.Str, sp), nil
		case LitNull:
			return ir.NewNull(sp), nil
		}
	case NodeIdent:
		return ir.NewGlobalRef(n.Name, true, sp), nil
	case NodeGlobal:
		return ir.NewGlobalRef("", false, sp), nil
	case NodeHole:
		return resolve(n.Hole), nil
	case NodeUnary:
		operand, err := lowerNode(n.Kids[0], resolve, sp)
		if err != nil {
			return nil, err
		}
		op := ir.UnaryNeg
		if n.Op == "!" {
			op = ir.UnaryNot
		}
		return ir.NewUnary(op, operand, sp), nil
	case NodeBinary:
		left, err := lowerNode(n.Kids[0], resolve, sp)
		if err != nil {
			return nil, err
		}
		right, err := lowerNode(n.Kids[1], resolve, sp)
		if err != nil {
			return nil, err
		}
		op, ok := binOps[n.Op]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", n.Op)
		}
		return ir.NewBinary(op, left, right, sp), nil
	case NodeCond:
		cond, err := lowerNode(n.Kids[0], resolve, sp)
		if err != nil {
			return nil, err
		}
		then, err := lowerNode(n.Kids[1], resolve, sp)
		if err != nil {
			return nil, err
		}
		els, err := lowerNode(n.Kids[2], resolve, sp)
		if err != nil {
			return nil, err
		}
		return ir.NewCond(cond, then, els, sp), nil
	case NodeCall:
		callee, err := lowerNode(n.Kids[0], resolve, sp)
		if err != nil {
			return nil, err
		}
		args := make([]*ir.Expr, len(n.Kids)-1)
		for i := range args {
			if args[i], err = lowerNode(n.Kids[i+1], resolve, sp); err != nil {
				return nil, err
			}
		}
		return ir.NewCall(callee, args, sp), nil
	case NodeMember:
		obj, err := lowerNode(n.Kids[0], resolve, sp)
		if err != nil {
			return nil, err
		}
		return ir.NewMember(obj, n.Name, sp), nil
	case NodeIndex:
		obj, err := lowerNode(n.Kids[0], resolve, sp)
		if err != nil {
			return nil, err
		}
		idx, err := lowerNode(n.Kids[1], resolve, sp)
		if err != nil {
			return nil, err
		}
		return ir.NewIndex(obj, idx, sp), nil
	}
	return nil, fmt.Errorf("unknown template node kind %d", n.Kind)
}

var binOps = map[string]ir.BinaryOp{
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

func kindName(k decl.TemplateKind) string {
	if k == decl.Direct {
		return "Direct"
	}
	return "Inline"
}
