package template

import (
	"errors"
	"testing"

	"lumen/internal/decl"
	"lumen/internal/ir"
	"lumen/internal/source"
)

func freeFunc(name string, params ...string) *decl.Decl {
	return &decl.Decl{Name: name, Kind: decl.KindFunc, ParamNames: params}
}

func instanceMethod(name string, params ...string) *decl.Decl {
	return &decl.Decl{Name: name, Kind: decl.KindMethod, ParamNames: params}
}

func mustParse(t *testing.T, literal string, kind decl.TemplateKind) *Spec {
	t.Helper()
	spec, err := Parse(literal, kind)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", literal, err)
	}
	return spec
}

func TestBindDirectImplicitReturn(t *testing.T) {
	spec := mustParse(t, "$x + $y", decl.Direct)
	d := freeFunc("add", "x", "y")

	fn, err := BindDirect(spec, d)
	if err != nil {
		t.Fatalf("BindDirect failed: %v", err)
	}

	sp := source.Span{}
	want := &ir.Func{
		Name:   "add",
		Params: []ir.Param{{Name: "x"}, {Name: "y"}},
		Body: ir.ReturnExpr(ir.NewBinary(ir.BinAdd,
			ir.NewParamRef(0, "x", sp), ir.NewParamRef(1, "y", sp), sp)),
	}
	if !ir.EqualFunc(fn, want) {
		t.Fatalf("bound body mismatch:\n got %s\nwant %s", ir.FuncString(fn), ir.FuncString(want))
	}
}

func TestBindDirectExplicitReturn(t *testing.T) {
	spec := mustParse(t, "console.log($0); return $0 * 2", decl.Direct)
	d := freeFunc("twice", "n")

	fn, err := BindDirect(spec, d)
	if err != nil {
		t.Fatalf("BindDirect failed: %v", err)
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body.Stmts))
	}
	if fn.Body.Stmts[0].Kind != ir.StmtExpr {
		t.Errorf("first statement kind = %d, want expression", fn.Body.Stmts[0].Kind)
	}
	if fn.Body.Stmts[1].Kind != ir.StmtReturn {
		t.Errorf("second statement kind = %d, want return", fn.Body.Stmts[1].Kind)
	}
}

func TestBindDirectReceiverIndexing(t *testing.T) {
	// On an instance member, $this is argument slot 0 and parameters follow.
	spec := mustParse(t, "$this.total + $v", decl.Direct)
	d := instanceMethod("addTo", "v")

	fn, err := BindDirect(spec, d)
	if err != nil {
		t.Fatalf("BindDirect failed: %v", err)
	}

	sp := source.Span{}
	want := &ir.Func{
		Name:   "addTo",
		Params: []ir.Param{{Name: "this"}, {Name: "v"}},
		Body: ir.ReturnExpr(ir.NewBinary(ir.BinAdd,
			ir.NewMember(ir.NewParamRef(0, "this", sp), "total", sp),
			ir.NewParamRef(1, "v", sp), sp)),
	}
	if !ir.EqualFunc(fn, want) {
		t.Fatalf("bound body mismatch:\n got %s\nwant %s", ir.FuncString(fn), ir.FuncString(want))
	}
}

func TestBindRejectsThisOnStaticRewrite(t *testing.T) {
	spec := mustParse(t, "$this.total", decl.Direct)
	d := instanceMethod("total")
	d.StaticRewrite = true

	_, err := BindDirect(spec, d)
	var self *AmbiguousSelfError
	if !errors.As(err, &self) {
		t.Fatalf("expected AmbiguousSelfError, got %v", err)
	}
}

func TestBindRejectsShadowedThis(t *testing.T) {
	spec := mustParse(t, "$this", decl.Direct)
	d := instanceMethod("m", "this")

	_, err := BindDirect(spec, d)
	var self *AmbiguousSelfError
	if !errors.As(err, &self) {
		t.Fatalf("expected AmbiguousSelfError, got %v", err)
	}
}

func TestBindIndexOutOfRange(t *testing.T) {
	spec := mustParse(t, "$2", decl.Direct)
	d := freeFunc("f", "a", "b")

	_, err := BindDirect(spec, d)
	var bind *BindError
	if !errors.As(err, &bind) {
		t.Fatalf("expected BindError, got %v", err)
	}
}

func TestBindUnknownName(t *testing.T) {
	spec := mustParse(t, "$missing", decl.Direct)
	d := freeFunc("f", "a")

	_, err := BindDirect(spec, d)
	var bind *BindError
	if !errors.As(err, &bind) {
		t.Fatalf("expected BindError, got %v", err)
	}
}

func TestBindInlineVerbatimSubstitution(t *testing.T) {
	// Each argument used exactly once in order: the template expression is
	// substituted without a wrapper.
	spec := mustParse(t, "$x + $y", decl.Inline)
	d := freeFunc("add", "x", "y")
	sp := source.Span{}
	args := []*ir.Expr{ir.NewInt(2, sp), ir.NewInt(3, sp)}

	got, err := BindInline(spec, d, args, sp)
	if err != nil {
		t.Fatalf("BindInline failed: %v", err)
	}
	want := ir.NewBinary(ir.BinAdd, ir.NewInt(2, sp), ir.NewInt(3, sp), sp)
	if !ir.EqualExpr(got, want) {
		t.Fatalf("inline result mismatch:\n got %s\nwant %s", ir.ExprString(got), ir.ExprString(want))
	}
}

func TestBindInlineReorderedArgsUseWrapper(t *testing.T) {
	// Reordered holes must not reorder evaluation; the binder wraps the
	// arguments in an immediately invoked callable instead.
	spec := mustParse(t, "$y - $x", decl.Inline)
	d := freeFunc("flip", "x", "y")
	sp := source.Span{}
	args := []*ir.Expr{ir.NewLocalRef("a", sp), ir.NewLocalRef("b", sp)}

	got, err := BindInline(spec, d, args, sp)
	if err != nil {
		t.Fatalf("BindInline failed: %v", err)
	}
	wrapper := &ir.Func{
		Params: []ir.Param{{Name: "x"}, {Name: "y"}},
		Body: ir.ReturnExpr(ir.NewBinary(ir.BinSub,
			ir.NewParamRef(1, "y", sp), ir.NewParamRef(0, "x", sp), sp)),
	}
	want := ir.NewCall(ir.NewFuncExpr(wrapper, sp), args, sp)
	if !ir.EqualExpr(got, want) {
		t.Fatalf("inline result mismatch:\n got %s\nwant %s", ir.ExprString(got), ir.ExprString(want))
	}
}

func TestBindInlineRepeatedHoleUsesWrapper(t *testing.T) {
	spec := mustParse(t, "$x * $x", decl.Inline)
	d := freeFunc("square", "x")
	sp := source.Span{}
	args := []*ir.Expr{ir.NewLocalRef("n", sp)}

	got, err := BindInline(spec, d, args, sp)
	if err != nil {
		t.Fatalf("BindInline failed: %v", err)
	}
	if got.Kind != ir.ExprCall {
		t.Fatalf("expected wrapper call, got %s", ir.ExprString(got))
	}
	callee := got.Data.(ir.CallData).Callee
	if callee.Kind != ir.ExprFunc {
		t.Fatalf("expected immediately invoked callable, got %s", ir.ExprString(callee))
	}
}

func TestBindInlineUnusedArgStillEvaluates(t *testing.T) {
	spec := mustParse(t, "$x", decl.Inline)
	d := freeFunc("first", "x", "y")
	sp := source.Span{}
	args := []*ir.Expr{ir.NewLocalRef("a", sp), ir.NewLocalRef("b", sp)}

	got, err := BindInline(spec, d, args, sp)
	if err != nil {
		t.Fatalf("BindInline failed: %v", err)
	}
	// Both arguments must appear in the output: the wrapper keeps them alive.
	if got.Kind != ir.ExprCall {
		t.Fatalf("expected wrapper call, got %s", ir.ExprString(got))
	}
	if n := len(got.Data.(ir.CallData).Args); n != 2 {
		t.Fatalf("wrapper receives %d args, want 2", n)
	}
}

func TestBindInlineArityMismatch(t *testing.T) {
	spec := mustParse(t, "$x", decl.Inline)
	d := freeFunc("f", "x")
	if _, err := BindInline(spec, d, nil, source.Span{}); err == nil {
		t.Fatal("expected arity error, got nil")
	}
}

func TestInlinableRoot(t *testing.T) {
	direct := mustParse(t, "$x + 1", decl.Direct)
	if _, ok := InlinableRoot(direct); !ok {
		t.Error("single-expression direct template should be inlinable")
	}
	directRet := mustParse(t, "return $x + 1", decl.Direct)
	if _, ok := InlinableRoot(directRet); !ok {
		t.Error("single-return direct template should be inlinable")
	}
	multi := mustParse(t, "a(); return $x", decl.Direct)
	if _, ok := InlinableRoot(multi); ok {
		t.Error("multi-statement template must not be inlinable")
	}
}
