package ir

import (
	"strings"
	"testing"

	"lumen/internal/source"
)

var noSpan = source.Span{}

func TestEqualExprIgnoresSpans(t *testing.T) {
	a := NewBinary(BinAdd, NewInt(1, source.Span{File: 1, Start: 5, End: 6}),
		NewInt(2, noSpan), source.Span{File: 2})
	b := NewBinary(BinAdd, NewInt(1, noSpan), NewInt(2, noSpan), noSpan)
	if !EqualExpr(a, b) {
		t.Error("equivalent expressions with different spans must compare equal")
	}
}

func TestEqualExprDistinguishesPayloads(t *testing.T) {
	cases := []struct {
		name string
		a, b *Expr
	}{
		{"literal value", NewInt(1, noSpan), NewInt(2, noSpan)},
		{"literal kind", NewInt(1, noSpan), NewFloat(1, noSpan)},
		{"operator", NewBinary(BinAdd, NewInt(1, noSpan), NewInt(2, noSpan), noSpan),
			NewBinary(BinSub, NewInt(1, noSpan), NewInt(2, noSpan), noSpan)},
		{"param index", NewParamRef(0, "x", noSpan), NewParamRef(1, "x", noSpan)},
		{"local name", NewLocalRef("a", noSpan), NewLocalRef("b", noSpan)},
		{"arg count", NewCall(NewLocalRef("f", noSpan), nil, noSpan),
			NewCall(NewLocalRef("f", noSpan), []*Expr{NewInt(1, noSpan)}, noSpan)},
		{"member name", NewMember(NewLocalRef("o", noSpan), "a", noSpan),
			NewMember(NewLocalRef("o", noSpan), "b", noSpan)},
	}
	for _, tc := range cases {
		if EqualExpr(tc.a, tc.b) {
			t.Errorf("%s: %s and %s must not compare equal", tc.name, ExprString(tc.a), ExprString(tc.b))
		}
	}
}

func TestEqualExprNil(t *testing.T) {
	if !EqualExpr(nil, nil) {
		t.Error("two nil expressions are equal")
	}
	if EqualExpr(nil, NewNull(noSpan)) || EqualExpr(NewNull(noSpan), nil) {
		t.Error("nil never equals a real expression")
	}
}

func TestEqualFuncComparesShape(t *testing.T) {
	mk := func(name string, body *Expr) *Func {
		return &Func{Name: name, Params: []Param{{Name: "x"}}, Body: ReturnExpr(body)}
	}
	a := mk("f", NewParamRef(0, "x", noSpan))
	b := mk("f", NewParamRef(0, "x", noSpan))
	if !EqualFunc(a, b) {
		t.Error("identical functions must compare equal")
	}
	c := mk("f", NewInt(0, noSpan))
	if EqualFunc(a, c) {
		t.Error("different bodies must not compare equal")
	}
	d := &Func{Name: "f", Body: ReturnExpr(NewParamRef(0, "x", noSpan))}
	if EqualFunc(a, d) {
		t.Error("different parameter counts must not compare equal")
	}
}

func TestFuncStringShape(t *testing.T) {
	fn := &Func{
		Name:   "greet",
		Params: []Param{{Name: "name"}},
		Body: ReturnExpr(NewBinary(BinAdd,
			NewString("hi ", noSpan), NewParamRef(0, "name", noSpan), noSpan)),
	}
	out := FuncString(fn)
	for _, want := range []string{"greet", "name", "return", `"hi "`} {
		if !strings.Contains(out, want) {
			t.Errorf("dump %q does not mention %q", out, want)
		}
	}
}

func TestExprStringCoversEveryKind(t *testing.T) {
	inner := &Func{Name: "", Body: ReturnExpr(NewNull(noSpan))}
	exprs := []*Expr{
		NewInt(1, noSpan),
		NewFloat(1.5, noSpan),
		NewBool(true, noSpan),
		NewString("s", noSpan),
		NewNull(noSpan),
		NewParamRef(0, "p", noSpan),
		NewLocalRef("l", noSpan),
		NewGlobalRef("Math", true, noSpan),
		NewGlobalRef("", true, noSpan),
		NewUnary(UnaryNot, NewBool(false, noSpan), noSpan),
		NewBinary(BinOr, NewBool(true, noSpan), NewBool(false, noSpan), noSpan),
		NewCond(NewBool(true, noSpan), NewInt(1, noSpan), NewInt(2, noSpan), noSpan),
		NewCall(NewLocalRef("f", noSpan), []*Expr{NewInt(1, noSpan)}, noSpan),
		NewMember(NewLocalRef("o", noSpan), "m", noSpan),
		NewIndex(NewLocalRef("a", noSpan), NewInt(0, noSpan), noSpan),
		NewDeclRef(3, "target", noSpan),
		NewDeclMember(NewLocalRef("o", noSpan), 4, "push", noSpan),
		NewFuncExpr(inner, noSpan),
	}
	for _, e := range exprs {
		if s := ExprString(e); s == "" {
			t.Errorf("kind %d renders empty", e.Kind)
		}
	}
}
