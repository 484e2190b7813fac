package gen

import (
	"fmt"

	"lumen/internal/etree"
	"lumen/internal/ir"
	"lumen/internal/jsast"
)

// LowerFunc lowers a host lambda through the default pipeline. The translate
// pass injects it so this package stays independent of lowering internals.
type LowerFunc func(*etree.Func) (*ir.Func, error)

// InvocationError wraps a failure while constructing or evaluating a
// generator: a thrown panic, a broken body union, or a lowering failure on
// the produced tree. The generator reference travels with it for reporting.
type InvocationError struct {
	Generator string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("generator %q: %v", e.Generator, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Resolve instantiates the referenced generator, obtains its body and
// normalizes it to internal IR. User code runs exactly once per declaration;
// panics inside it are compile-time faults, converted to errors here rather
// than crashing the compiler.
func Resolve(reg *Registry, ref string, lower LowerFunc) (fn *ir.Func, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fn = nil
			err = &InvocationError{Generator: ref, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	g, newErr := reg.New(ref)
	if newErr != nil {
		return nil, newErr
	}
	body := g.Body()
	out, normErr := Normalize(body, lower)
	if normErr != nil {
		return nil, &InvocationError{Generator: ref, Err: normErr}
	}
	return out, nil
}

// Normalize turns a Body into internal IR. The three variants must agree
// observably: for equivalent hand-written inputs the produced IR evaluates
// in the same order to the same values.
func Normalize(body Body, lower LowerFunc) (*ir.Func, error) {
	switch body.Kind {
	case ExpressionTreeBody:
		if body.ETree == nil {
			return nil, fmt.Errorf("ExpressionTreeBody without a lambda")
		}
		return lower(body.ETree)
	case CoreIrBody:
		if body.Core == nil {
			return nil, fmt.Errorf("CoreIrBody without a function")
		}
		return body.Core, nil
	case TargetSyntaxBody:
		if body.Target == nil {
			return nil, fmt.Errorf("TargetSyntaxBody without a function")
		}
		return jsast.Lift(body.Target)
	}
	return nil, fmt.Errorf("unknown body kind %d", body.Kind)
}
