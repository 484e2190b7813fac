package macroexp

import (
	"fmt"

	"fortio.org/safecast"

	"lumen/internal/etree"
	"lumen/internal/ir"
)

// ArithFold is the canonical constant-folding macro: when every argument of
// the intercepted call is a statically known integer literal it emits the
// precomputed literal, otherwise it falls back to the generic operator form
// with the operands translated through the continuation, preserving the
// host's left-to-right argument order.
type ArithFold struct {
	Op ir.BinaryOp
}

// RegisterArithFolds registers the folding macros for the basic integer
// operators under their engine references.
func RegisterArithFolds(reg *Registry) {
	reg.Register("lumen.fold.add", func() Macro { return &ArithFold{Op: ir.BinAdd} })
	reg.Register("lumen.fold.sub", func() Macro { return &ArithFold{Op: ir.BinSub} })
	reg.Register("lumen.fold.mul", func() Macro { return &ArithFold{Op: ir.BinMul} })
}

// Translate implements the Macro capability.
func (m *ArithFold) Translate(call *etree.Expr, k Continuation) (*ir.Expr, error) {
	data, ok := call.Data.(etree.CallData)
	if !ok {
		// Not a call shape at all: defer to the default pipeline wholesale.
		return k(call)
	}
	if len(data.Args) != 2 || data.Receiver != nil {
		return k(call)
	}

	left, leftOK := intLit(data.Args[0])
	right, rightOK := intLit(data.Args[1])
	if leftOK && rightOK {
		folded, err := m.fold(left, right)
		if err != nil {
			return nil, err
		}
		return ir.NewInt(folded, call.Span), nil
	}

	// Generic form: operands through the continuation, left before right.
	lhs, err := k(data.Args[0])
	if err != nil {
		return nil, err
	}
	rhs, err := k(data.Args[1])
	if err != nil {
		return nil, err
	}
	return ir.NewBinary(m.Op, lhs, rhs, call.Span), nil
}

func (m *ArithFold) fold(a, b int64) (int64, error) {
	switch m.Op {
	case ir.BinAdd:
		return foldChecked(a, b, func(x, y int64) int64 { return x + y })
	case ir.BinSub:
		return foldChecked(a, b, func(x, y int64) int64 { return x - y })
	case ir.BinMul:
		return foldChecked(a, b, func(x, y int64) int64 { return x * y })
	}
	return 0, fmt.Errorf("unsupported fold operator %d", m.Op)
}

// foldChecked folds through the host's 32-bit integer domain; a result that
// does not fit keeps the generic form out of reach and is a macro error
// instead of a silently wrapped literal.
func foldChecked(a, b int64, op func(int64, int64) int64) (int64, error) {
	res := op(a, b)
	if _, err := safecast.Convert[int32](res); err != nil {
		return 0, fmt.Errorf("constant fold overflows int32: %d", res)
	}
	return res, nil
}

func intLit(e *etree.Expr) (int64, bool) {
	if e == nil || e.Kind != etree.ExprLit {
		return 0, false
	}
	d, ok := e.Data.(etree.LitData)
	if !ok || d.Kind != etree.LitInt {
		return 0, false
	}
	return d.Int, true
}
