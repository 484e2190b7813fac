package macroexp

import (
	"errors"
	"fmt"
	"testing"

	"lumen/internal/etree"
	"lumen/internal/ir"
	"lumen/internal/source"
)

var testSpan = source.Span{}

// subLower is the stand-in default pipeline for sub-expressions.
func subLower(e *etree.Expr) (*ir.Expr, error) {
	switch e.Kind {
	case etree.ExprLit:
		d := e.Data.(etree.LitData)
		if d.Kind == etree.LitInt {
			return ir.NewInt(d.Int, e.Span), nil
		}
	case etree.ExprLocal:
		return ir.NewLocalRef(e.Data.(etree.LocalData).Name, e.Span), nil
	}
	return nil, fmt.Errorf("sub: unsupported kind %d", e.Kind)
}

// wholeLower is the stand-in no-macro call translation.
func wholeLower(e *etree.Expr) (*ir.Expr, error) {
	data := e.Data.(etree.CallData)
	args := make([]*ir.Expr, len(data.Args))
	for i, a := range data.Args {
		var err error
		if args[i], err = subLower(a); err != nil {
			return nil, err
		}
	}
	return ir.NewCall(ir.NewDeclRef(uint32(data.Target), "callee", e.Span), args, e.Span), nil
}

func foldRegistry() *Registry {
	reg := NewRegistry()
	RegisterArithFolds(reg)
	return reg
}

func call(args ...*etree.Expr) *etree.Expr {
	return etree.NewCall(etree.DeclID(7), nil, args, testSpan)
}

func TestDispatchFoldsLiterals(t *testing.T) {
	node := call(etree.NewInt(2, testSpan), etree.NewInt(3, testSpan))
	got, err := Dispatch(foldRegistry(), "lumen.fold.add", node, wholeLower, subLower)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := ir.NewInt(5, testSpan)
	if !ir.EqualExpr(got, want) {
		t.Fatalf("fold result = %s, want %s", ir.ExprString(got), ir.ExprString(want))
	}
}

func TestDispatchGenericFormKeepsOrder(t *testing.T) {
	node := call(etree.NewLocal("a", testSpan), etree.NewInt(3, testSpan))
	got, err := Dispatch(foldRegistry(), "lumen.fold.mul", node, wholeLower, subLower)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := ir.NewBinary(ir.BinMul, ir.NewLocalRef("a", testSpan), ir.NewInt(3, testSpan), testSpan)
	if !ir.EqualExpr(got, want) {
		t.Fatalf("generic result = %s, want %s", ir.ExprString(got), ir.ExprString(want))
	}
}

type bailMacro struct{}

func (bailMacro) Translate(call *etree.Expr, k Continuation) (*ir.Expr, error) {
	// Whole-call fallback: hand the unmodified node back.
	return k(call)
}

func TestDispatchWholeCallFallbackIdentity(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test.bail", func() Macro { return bailMacro{} })

	node := call(etree.NewInt(1, testSpan), etree.NewLocal("x", testSpan))
	got, err := Dispatch(reg, "test.bail", node, wholeLower, subLower)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want, err := wholeLower(node)
	if err != nil {
		t.Fatalf("wholeLower failed: %v", err)
	}
	if !ir.EqualExpr(got, want) {
		t.Fatalf("fallback output diverges from default translation:\n got %s\nwant %s",
			ir.ExprString(got), ir.ExprString(want))
	}
}

func TestDispatchFoldOverflowIsError(t *testing.T) {
	node := call(etree.NewInt(1<<31-1, testSpan), etree.NewInt(1, testSpan))
	_, err := Dispatch(foldRegistry(), "lumen.fold.add", node, wholeLower, subLower)
	var tr *TranslationError
	if !errors.As(err, &tr) {
		t.Fatalf("expected TranslationError, got %v", err)
	}
}

type panicMacro struct{}

func (panicMacro) Translate(*etree.Expr, Continuation) (*ir.Expr, error) {
	panic("macro exploded")
}

func TestDispatchPanicBecomesError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test.panic", func() Macro { return panicMacro{} })

	_, err := Dispatch(reg, "test.panic", call(), wholeLower, subLower)
	var tr *TranslationError
	if !errors.As(err, &tr) {
		t.Fatalf("expected TranslationError, got %v", err)
	}
	if tr.Macro != "test.panic" {
		t.Errorf("error names macro %q, want test.panic", tr.Macro)
	}
}

type silentMacro struct{}

func (silentMacro) Translate(*etree.Expr, Continuation) (*ir.Expr, error) {
	return nil, nil
}

func TestDispatchNilResultIsError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test.silent", func() Macro { return silentMacro{} })

	_, err := Dispatch(reg, "test.silent", call(), wholeLower, subLower)
	var tr *TranslationError
	if !errors.As(err, &tr) {
		t.Fatalf("expected TranslationError, got %v", err)
	}
}

func TestDispatchUnknownRef(t *testing.T) {
	if _, err := Dispatch(NewRegistry(), "test.missing", call(), wholeLower, subLower); err == nil {
		t.Fatal("expected error for unregistered macro")
	}
}
