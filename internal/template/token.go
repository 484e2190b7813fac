package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokHole   // $name / $0 / $this
	tokGlobal // $global
	tokPunct
)

type token struct {
	kind   tokKind
	text   string
	offset int
}

// punctuation and operators, longest first so `<=` wins over `<`.
var puncts = []string{
	"<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "!",
	"(", ")", "[", "]", ".", ",", ";", "?", ":",
}

type lexer struct {
	src string
	pos int
}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, offset: lx.pos}, nil
	}
	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == '$':
		return lx.lexHole(start)
	case c == '"' || c == '\'':
		return lx.lexString(start, c)
	case c >= '0' && c <= '9':
		return lx.lexNumber(start)
	case isIdentStart(rune(c)):
		return lx.lexIdent(start)
	}

	for _, p := range puncts {
		if strings.HasPrefix(lx.src[lx.pos:], p) {
			lx.pos += len(p)
			return token{kind: tokPunct, text: p, offset: start}, nil
		}
	}

	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return token{}, &SyntaxError{Offset: start, Fragment: string(r), Msg: "unexpected character"}
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\n', '\r':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *lexer) lexHole(start int) (token, error) {
	lx.pos++ // consume $
	if lx.pos >= len(lx.src) {
		return token{}, &SyntaxError{Offset: start, Fragment: "$", Msg: "dangling placeholder marker"}
	}
	c := lx.src[lx.pos]
	if c >= '0' && c <= '9' {
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
		return token{kind: tokHole, text: lx.src[start:lx.pos], offset: start}, nil
	}
	if isIdentStart(rune(c)) {
		for lx.pos < len(lx.src) && isIdentPart(rune(lx.src[lx.pos])) {
			lx.pos++
		}
		text := lx.src[start:lx.pos]
		if text == "$global" {
			return token{kind: tokGlobal, text: text, offset: start}, nil
		}
		return token{kind: tokHole, text: text, offset: start}, nil
	}
	return token{}, &SyntaxError{Offset: start, Fragment: lx.src[start : lx.pos+1], Msg: "malformed placeholder"}
}

func (lx *lexer) lexString(start int, quote byte) (token, error) {
	lx.pos++ // opening quote
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case quote:
			lx.pos++
			return token{kind: tokString, text: sb.String(), offset: start}, nil
		case '\\':
			lx.pos++
			if lx.pos >= len(lx.src) {
				return token{}, &SyntaxError{Offset: start, Fragment: lx.src[start:], Msg: "unterminated string"}
			}
			switch lx.src[lx.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			default:
				return token{}, &SyntaxError{
					Offset:   lx.pos - 1,
					Fragment: lx.src[lx.pos-1 : lx.pos+1],
					Msg:      "unknown escape",
				}
			}
			lx.pos++
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}
	return token{}, &SyntaxError{Offset: start, Fragment: lx.src[start:], Msg: "unterminated string"}
}

func (lx *lexer) lexNumber(start int) (token, error) {
	kind := tokInt
	for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
		lx.pos++
	}
	if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == '.' && lx.src[lx.pos+1] >= '0' && lx.src[lx.pos+1] <= '9' {
		kind = tokFloat
		lx.pos++
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
	}
	return token{kind: kind, text: lx.src[start:lx.pos], offset: start}, nil
}

func (lx *lexer) lexIdent(start int) (token, error) {
	for lx.pos < len(lx.src) && isIdentPart(rune(lx.src[lx.pos])) {
		lx.pos++
	}
	return token{kind: tokIdent, text: lx.src[start:lx.pos], offset: start}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
