package ir

import (
	"fmt"
	"io"
	"strings"
)

// Printer dumps IR to a compact textual form. The dump is for diagnostics,
// CLI artifacts and tests; it is not target-runtime output.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes fn to w in dump form.
func Dump(w io.Writer, fn *Func) error {
	return NewPrinter(w).PrintFunc(fn)
}

// ExprString renders a single expression, mostly for test failure messages.
func ExprString(e *Expr) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	p.printExpr(e)
	return sb.String()
}

// FuncString renders a whole function.
func FuncString(fn *Func) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).PrintFunc(fn)
	return sb.String()
}

// PrintFunc prints a complete callable.
func (p *Printer) PrintFunc(fn *Func) error {
	if fn == nil {
		p.printf("<nil func>\n")
		return nil
	}
	names := make([]string, len(fn.Params))
	for i, prm := range fn.Params {
		names[i] = prm.Name
	}
	name := fn.Name
	if name == "" {
		name = "<anon>"
	}
	p.printf("func %s(%s) {\n", name, strings.Join(names, ", "))
	p.indent++
	p.printBlock(fn.Body)
	p.indent--
	p.printf("}\n")
	return nil
}

func (p *Printer) printBlock(b *Block) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		p.printStmt(st)
	}
}

func (p *Printer) printStmt(st *Stmt) {
	switch st.Kind {
	case StmtExpr:
		d := st.Data.(ExprStmtData)
		p.printf("%s", "")
		p.printExpr(d.Expr)
		p.raw("\n")
	case StmtLet:
		d := st.Data.(LetData)
		p.printf("let %s = ", d.Name)
		p.printExpr(d.Value)
		p.raw("\n")
	case StmtReturn:
		d := st.Data.(ReturnData)
		if d.Value == nil {
			p.printf("return\n")
			return
		}
		p.printf("return ")
		p.printExpr(d.Value)
		p.raw("\n")
	}
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.raw("<nil>")
		return
	}
	switch e.Kind {
	case ExprLit:
		d := e.Data.(LitData)
		switch d.Kind {
		case LitInt:
			p.raw(fmt.Sprintf("%d", d.Int))
		case LitFloat:
			p.raw(fmt.Sprintf("%g", d.Float))
		case LitBool:
			p.raw(fmt.Sprintf("%t", d.Bool))
		case LitString:
			p.raw(fmt.Sprintf("%q", d.Str))
		case LitNull:
			p.raw("null")
		}
	case ExprParamRef:
		d := e.Data.(ParamRefData)
		if d.Name != "" {
			p.raw(fmt.Sprintf("%%%d:%s", d.Index, d.Name))
		} else {
			p.raw(fmt.Sprintf("%%%d", d.Index))
		}
	case ExprLocalRef:
		d := e.Data.(LocalRefData)
		p.raw(d.Name)
	case ExprGlobalRef:
		d := e.Data.(GlobalRefData)
		tag := "global"
		if !d.Cached {
			tag = "global!"
		}
		if d.Name == "" {
			p.raw(tag)
		} else {
			p.raw(tag + "." + d.Name)
		}
	case ExprUnary:
		d := e.Data.(UnaryData)
		p.raw("(" + unaryOpString(d.Op))
		p.printExpr(d.Operand)
		p.raw(")")
	case ExprBinary:
		d := e.Data.(BinaryData)
		p.raw("(")
		p.printExpr(d.Left)
		p.raw(" " + binaryOpString(d.Op) + " ")
		p.printExpr(d.Right)
		p.raw(")")
	case ExprCall:
		d := e.Data.(CallData)
		p.printExpr(d.Callee)
		p.raw("(")
		for i, a := range d.Args {
			if i > 0 {
				p.raw(", ")
			}
			p.printExpr(a)
		}
		p.raw(")")
	case ExprMember:
		d := e.Data.(MemberData)
		p.printExpr(d.Object)
		p.raw("." + d.Name)
	case ExprIndex:
		d := e.Data.(IndexData)
		p.printExpr(d.Object)
		p.raw("[")
		p.printExpr(d.Index)
		p.raw("]")
	case ExprCond:
		d := e.Data.(CondData)
		p.raw("(")
		p.printExpr(d.Cond)
		p.raw(" ? ")
		p.printExpr(d.Then)
		p.raw(" : ")
		p.printExpr(d.Else)
		p.raw(")")
	case ExprFunc:
		d := e.Data.(FuncData)
		var sb strings.Builder
		_ = NewPrinter(&sb).PrintFunc(d.Func)
		p.raw(strings.TrimRight(sb.String(), "\n"))
	case ExprDeclRef:
		d := e.Data.(DeclRefData)
		p.raw(fmt.Sprintf("@%d:%s", d.Decl, d.Name))
	}
}

func unaryOpString(op UnaryOp) string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	}
	return "?"
}

func binaryOpString(op BinaryOp) string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinRem:
		return "%"
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	case BinGt:
		return ">"
	case BinGe:
		return ">="
	case BinEq:
		return "=="
	case BinNe:
		return "!="
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	}
	return "?"
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) raw(s string) {
	fmt.Fprint(p.w, s)
}
