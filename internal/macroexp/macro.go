// Package macroexp implements call-site macro dispatch.
//
// A macro-annotated declaration does not translate its call sites through
// the default pipeline; instead, the referenced macro type is instantiated
// once per call site and handed the call's expression tree together with a
// default-translation continuation. The continuation is the escape hatch:
// applied to the entire unmodified call node it yields exactly what the
// pipeline would have produced with no macro attached, applied to any
// sub-expression it translates that piece through the ordinary pipeline.
package macroexp

import (
	"fmt"

	"lumen/internal/etree"
	"lumen/internal/ir"
)

// Continuation translates an expression tree through the default pipeline.
type Continuation func(*etree.Expr) (*ir.Expr, error)

// Macro is the capability contract for user macro types: one translate
// operation per call site. Implementations must be constructible with no
// arguments; see Registry.Register.
type Macro interface {
	Translate(call *etree.Expr, k Continuation) (*ir.Expr, error)
}

// TranslationError wraps a macro failure with the macro's reference. Macro
// failures are hard compile errors; the dispatcher never swallows them.
type TranslationError struct {
	Macro string
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("macro %q: %v", e.Macro, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// Dispatch runs the macro registered under ref on call.
//
// whole is the default pipeline with macro interception disabled for this
// exact call node; sub is the full default pipeline. Dispatch wires them into
// one continuation keyed on node identity, so whole-call fallback reproduces
// the no-macro output bit for bit while recursion into strictly smaller
// sub-expressions keeps every other macro live. The identity guard is also
// what prevents a macro from re-entering itself on the node it was given.
func Dispatch(reg *Registry, ref string, call *etree.Expr, whole, sub Continuation) (out *ir.Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = &TranslationError{Macro: ref, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	m, newErr := reg.New(ref)
	if newErr != nil {
		return nil, newErr
	}
	k := func(n *etree.Expr) (*ir.Expr, error) {
		if n == call {
			return whole(n)
		}
		return sub(n)
	}
	res, trErr := m.Translate(call, k)
	if trErr != nil {
		return nil, &TranslationError{Macro: ref, Err: trErr}
	}
	if res == nil {
		return nil, &TranslationError{Macro: ref, Err: fmt.Errorf("returned no IR")}
	}
	return res, nil
}
