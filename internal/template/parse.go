package template

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"lumen/internal/decl"
)

// Parse turns a template literal into a Spec, or fails with a *SyntaxError
// (malformed literal) or *UnsupportedInlineError (construct outside the
// inline subset on an Inline template).
func Parse(literal string, kind decl.TemplateKind) (*Spec, error) {
	p := &parser{
		lx:   lexer{src: literal},
		spec: &Spec{Kind: kind, Literal: literal},
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if kind == decl.Inline {
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokEOF {
			if p.tok.kind == tokPunct && p.tok.text == ";" {
				return nil, &UnsupportedInlineError{Offset: p.tok.offset, Construct: "statement sequence"}
			}
			return nil, p.unexpected("end of template")
		}
		p.spec.Stmts = []*Node{expr}
		return p.spec, nil
	}

	for p.tok.kind != tokEOF {
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		p.spec.Stmts = append(p.spec.Stmts, st)
		if p.tok.kind == tokPunct && p.tok.text == ";" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokEOF {
			return nil, p.unexpected("';' or end of template")
		}
	}
	if len(p.spec.Stmts) == 0 {
		return nil, &SyntaxError{Offset: 0, Msg: "empty template body"}
	}
	return p.spec, nil
}

type parser struct {
	lx   lexer
	tok  token
	spec *Spec
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) unexpected(want string) error {
	frag := p.tok.text
	if p.tok.kind == tokEOF {
		frag = "<end>"
	}
	return &SyntaxError{Offset: p.tok.offset, Fragment: frag, Msg: "expected " + want}
}

func (p *parser) parseStmt() (*Node, error) {
	if p.tok.kind == tokIdent && p.tok.text == "return" {
		offset := p.tok.offset
		if err := p.advance(); err != nil {
			return nil, err
		}
		ret := &Node{Kind: NodeReturn, Offset: offset}
		if p.tok.kind == tokEOF || (p.tok.kind == tokPunct && p.tok.text == ";") {
			return ret, nil
		}
		value, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		ret.Kids = []*Node{value}
		return ret, nil
	}
	return p.parseExpr(0)
}

// binding powers, ternary sits below everything.
var binaryPower = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func (p *parser) parseExpr(minPower int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.tok.kind == tokPunct && p.tok.text == "?" && minPower == 0 {
			offset := p.tok.offset
			if err := p.advance(); err != nil {
				return nil, err
			}
			then, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokPunct || p.tok.text != ":" {
				return nil, p.unexpected("':'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			els, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: NodeCond, Offset: offset, Kids: []*Node{left, then, els}}
			continue
		}
		if p.tok.kind != tokPunct {
			return left, nil
		}
		power, ok := binaryPower[p.tok.text]
		if !ok || power < minPower {
			return left, nil
		}
		op, offset := p.tok.text, p.tok.offset
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(power + 1)
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Offset: offset, Op: op, Kids: []*Node{left, right}}
	}
}

func (p *parser) parseUnary() (*Node, error) {
	if p.tok.kind == tokPunct && (p.tok.text == "-" || p.tok.text == "!") {
		op, offset := p.tok.text, p.tok.offset
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeUnary, Offset: offset, Op: op, Kids: []*Node{operand}}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (*Node, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct {
		switch p.tok.text {
		case ".":
			offset := p.tok.offset
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokIdent {
				return nil, p.unexpected("property name")
			}
			expr = &Node{Kind: NodeMember, Offset: offset, Name: p.tok.text, Kids: []*Node{expr}}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case "[":
			offset := p.tok.offset
			if err := p.advance(); err != nil {
				return nil, err
			}
			index, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokPunct || p.tok.text != "]" {
				return nil, p.unexpected("']'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &Node{Kind: NodeIndex, Offset: offset, Kids: []*Node{expr, index}}
		case "(":
			offset := p.tok.offset
			if err := p.advance(); err != nil {
				return nil, err
			}
			call := &Node{Kind: NodeCall, Offset: offset, Kids: []*Node{expr}}
			for p.tok.kind != tokPunct || p.tok.text != ")" {
				arg, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				call.Kids = append(call.Kids, arg)
				if p.tok.kind == tokPunct && p.tok.text == "," {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			if p.tok.kind != tokPunct || p.tok.text != ")" {
				return nil, p.unexpected("')'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = call
		default:
			return expr, nil
		}
	}
	return expr, nil
}

func (p *parser) parseAtom() (*Node, error) {
	tok := p.tok
	switch tok.kind {
	case tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: tok.offset, Fragment: tok.text, Msg: "integer literal out of range"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeLit, Offset: tok.offset, Lit: LitValue{Kind: LitInt, Int: v}}, nil
	case tokFloat:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: tok.offset, Fragment: tok.text, Msg: "malformed float literal"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeLit, Offset: tok.offset, Lit: LitValue{Kind: LitFloat, Float: v}}, nil
	case tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeLit, Offset: tok.offset, Lit: LitValue{Kind: LitString, Str: tok.text}}, nil
	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch tok.text {
		case "true", "false":
			return &Node{Kind: NodeLit, Offset: tok.offset, Lit: LitValue{Kind: LitBool, Bool: tok.text == "true"}}, nil
		case "null":
			return &Node{Kind: NodeLit, Offset: tok.offset, Lit: LitValue{Kind: LitNull}}, nil
		case "return":
			return nil, p.errReturn(tok)
		}
		return &Node{Kind: NodeIdent, Offset: tok.offset, Name: tok.text}, nil
	case tokGlobal:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeGlobal, Offset: tok.offset}, nil
	case tokHole:
		if err := p.advance(); err != nil {
			return nil, err
		}
		hole, err := p.resolveHole(tok)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeHole, Offset: tok.offset, Hole: hole}, nil
	case tokPunct:
		if tok.text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokPunct || p.tok.text != ")" {
				return nil, p.unexpected("')'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, p.unexpected("expression")
}

func (p *parser) errReturn(tok token) error {
	if p.spec.Kind == decl.Inline {
		return &UnsupportedInlineError{Offset: tok.offset, Construct: "return"}
	}
	return &SyntaxError{Offset: tok.offset, Fragment: "return", Msg: "return is not an expression"}
}

// resolveHole interns a placeholder token into Spec.Holes, reusing the entry
// when the same placeholder appears again.
func (p *parser) resolveHole(tok token) (int, error) {
	body := tok.text[1:] // strip $
	var hole Placeholder
	if body[0] >= '0' && body[0] <= '9' {
		n, err := strconv.ParseUint(body, 10, 32)
		if err != nil {
			return 0, &SyntaxError{Offset: tok.offset, Fragment: tok.text, Msg: "placeholder index out of range"}
		}
		idx, err := safecast.Convert[int](n)
		if err != nil {
			return 0, &SyntaxError{Offset: tok.offset, Fragment: tok.text, Msg: "placeholder index out of range"}
		}
		hole = Placeholder{Kind: HoleIndex, Index: idx, Offset: tok.offset}
	} else if body == "this" {
		hole = Placeholder{Kind: HoleThis, Offset: tok.offset}
	} else {
		hole = Placeholder{Kind: HoleName, Name: body, Offset: tok.offset}
	}
	for i, h := range p.spec.Holes {
		if h.Kind == hole.Kind && h.Index == hole.Index && h.Name == hole.Name {
			return i, nil
		}
	}
	p.spec.Holes = append(p.spec.Holes, hole)
	return len(p.spec.Holes) - 1, nil
}

// String renders the spec for debugging.
func (s *Spec) String() string {
	return fmt.Sprintf("template{kind=%d holes=%d literal=%q}", s.Kind, len(s.Holes), s.Literal)
}
