// Package gen implements compile-time body generators.
//
// A generator is user-supplied compile-time logic registered under a stable
// name. The engine instantiates it through a zero-argument constructor,
// invokes its single capability once, and normalizes whatever representation
// it returned into internal IR. Downstream passes never see the raw
// representations.
package gen

import (
	"lumen/internal/etree"
	"lumen/internal/ir"
	"lumen/internal/jsast"
)

// BodyKind tags the three body representations a generator may produce.
type BodyKind uint8

const (
	// ExpressionTreeBody is a host-language expression tree for a whole
	// lambda; it runs through the same lowering as ordinary host bodies.
	ExpressionTreeBody BodyKind = iota
	// CoreIrBody is already-lowered internal IR; accepted as-is.
	CoreIrBody
	// TargetSyntaxBody is a target-runtime-level function; lifted into IR by
	// the jsast embedding.
	TargetSyntaxBody
)

func (k BodyKind) String() string {
	switch k {
	case ExpressionTreeBody:
		return "ExpressionTreeBody"
	case CoreIrBody:
		return "CoreIrBody"
	case TargetSyntaxBody:
		return "TargetSyntaxBody"
	}
	return "unknown"
}

// Body is the closed union over the three representations. Exactly one
// payload field is set, selected by Kind; all three denote a complete
// callable, never a fragment.
type Body struct {
	Kind   BodyKind
	ETree  *etree.Func
	Core   *ir.Func
	Target *jsast.Func
}

// FromExpressionTree wraps a host lambda.
func FromExpressionTree(fn *etree.Func) Body {
	return Body{Kind: ExpressionTreeBody, ETree: fn}
}

// FromCoreIR wraps ready internal IR.
func FromCoreIR(fn *ir.Func) Body {
	return Body{Kind: CoreIrBody, Core: fn}
}

// FromTargetSyntax wraps a target-level function.
func FromTargetSyntax(fn *jsast.Func) Body {
	return Body{Kind: TargetSyntaxBody, Target: fn}
}

// Generator is the capability contract for user generator types: one
// property producing the body. Implementations must be constructible with no
// arguments; see Register.
type Generator interface {
	Body() Body
}
