package template

import (
	"errors"
	"testing"

	"lumen/internal/decl"
)

func TestParseInlineBinary(t *testing.T) {
	spec, err := Parse("$x + $y", decl.Inline)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(spec.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(spec.Stmts))
	}
	root := spec.Stmts[0]
	if root.Kind != NodeBinary || root.Op != "+" {
		t.Fatalf("expected binary +, got kind=%d op=%q", root.Kind, root.Op)
	}
	if len(spec.Holes) != 2 {
		t.Fatalf("expected 2 holes, got %d", len(spec.Holes))
	}
	if spec.Holes[0].Kind != HoleName || spec.Holes[0].Name != "x" {
		t.Errorf("hole 0 = %+v, want named x", spec.Holes[0])
	}
	if spec.Holes[1].Kind != HoleName || spec.Holes[1].Name != "y" {
		t.Errorf("hole 1 = %+v, want named y", spec.Holes[1])
	}
}

func TestParseInlineRejectsStatements(t *testing.T) {
	_, err := Parse("$0; $1", decl.Inline)
	var unsup *UnsupportedInlineError
	if !errors.As(err, &unsup) {
		t.Fatalf("expected UnsupportedInlineError, got %v", err)
	}
}

func TestParseInlineRejectsReturn(t *testing.T) {
	_, err := Parse("return $0", decl.Inline)
	var unsup *UnsupportedInlineError
	if !errors.As(err, &unsup) {
		t.Fatalf("expected UnsupportedInlineError, got %v", err)
	}
}

func TestParseDirectStatements(t *testing.T) {
	spec, err := Parse("console.log($0); return $0 * 2", decl.Direct)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(spec.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(spec.Stmts))
	}
	if spec.Stmts[0].Kind != NodeCall {
		t.Errorf("first statement kind = %d, want call", spec.Stmts[0].Kind)
	}
	if spec.Stmts[1].Kind != NodeReturn {
		t.Errorf("second statement kind = %d, want return", spec.Stmts[1].Kind)
	}
	// $0 appears twice but interns once.
	if len(spec.Holes) != 1 {
		t.Errorf("expected 1 hole, got %d", len(spec.Holes))
	}
}

func TestParsePrecedence(t *testing.T) {
	spec, err := Parse("1 + 2 * 3", decl.Inline)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := spec.Stmts[0]
	if root.Kind != NodeBinary || root.Op != "+" {
		t.Fatalf("root = kind %d op %q, want +", root.Kind, root.Op)
	}
	right := root.Kids[1]
	if right.Kind != NodeBinary || right.Op != "*" {
		t.Fatalf("right = kind %d op %q, want *", right.Kind, right.Op)
	}
}

func TestParseTernary(t *testing.T) {
	spec, err := Parse("$0 ? $1 : $2", decl.Inline)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if spec.Stmts[0].Kind != NodeCond {
		t.Fatalf("expected conditional root, got kind %d", spec.Stmts[0].Kind)
	}
	if len(spec.Holes) != 3 {
		t.Errorf("expected 3 holes, got %d", len(spec.Holes))
	}
}

func TestParseGlobalMember(t *testing.T) {
	spec, err := Parse("$global.Math.floor($0)", decl.Inline)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := spec.Stmts[0]
	if root.Kind != NodeCall {
		t.Fatalf("expected call root, got kind %d", root.Kind)
	}
	callee := root.Kids[0]
	if callee.Kind != NodeMember || callee.Name != "floor" {
		t.Fatalf("callee = kind %d name %q, want member floor", callee.Kind, callee.Name)
	}
	inner := callee.Kids[0]
	if inner.Kind != NodeMember || inner.Name != "Math" {
		t.Fatalf("inner = kind %d name %q, want member Math", inner.Kind, inner.Name)
	}
	if inner.Kids[0].Kind != NodeGlobal {
		t.Errorf("expected $global at the base, got kind %d", inner.Kids[0].Kind)
	}
}

func TestParseThisHole(t *testing.T) {
	spec, err := Parse("$this.value", decl.Inline)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(spec.Holes) != 1 || spec.Holes[0].Kind != HoleThis {
		t.Fatalf("expected one $this hole, got %+v", spec.Holes)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []struct {
		name    string
		literal string
		kind    decl.TemplateKind
	}{
		{"empty direct", "", decl.Direct},
		{"dangling operator", "$0 +", decl.Inline},
		{"unclosed paren", "($0", decl.Inline},
		{"unclosed index", "$0[1", decl.Inline},
		{"return as expression", "1 + return", decl.Direct},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.literal, tc.kind)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, expected error", tc.literal)
			}
			var syn *SyntaxError
			var unsup *UnsupportedInlineError
			if !errors.As(err, &syn) && !errors.As(err, &unsup) {
				t.Errorf("Parse(%q) error type %T, want template error", tc.literal, err)
			}
		})
	}
}

func TestParseStringEscapes(t *testing.T) {
	spec, err := Parse(`"a\"b" + $0`, decl.Inline)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	left := spec.Stmts[0].Kids[0]
	if left.Kind != NodeLit || left.Lit.Kind != LitString || left.Lit.Str != `a"b` {
		t.Fatalf("left literal = %+v, want string a\"b", left.Lit)
	}
}
