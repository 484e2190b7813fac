package decl

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/etree"
	"lumen/internal/source"
)

// Snapshot is the serialized hand-off format between the front end and this
// engine. Expression trees are flattened into tagged nodes because the
// in-memory form carries kind-specific payloads behind an interface.
//
// Schema version bumps whenever the payload layout changes; a mismatched
// snapshot is rejected, never reinterpreted.
const snapshotSchemaVersion uint16 = 2

// Digest identifies snapshot content, used as the disk-cache key.
type Digest [sha256.Size]byte

// DigestBytes hashes raw snapshot bytes.
func DigestBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

type snapshotPayload struct {
	Schema uint16
	Files  []string
	Types  []sType
	Decls  []sDecl
}

type sType struct {
	Name          string
	FQN           string
	Kind          uint8
	Abstract      bool
	Implements    []uint32
	ShortName     string
	ShortNameSet  bool
	EmptyNameMode bool
	Tracking      uint8
	Span          sSpan
}

type sDecl struct {
	Name          string
	Owner         uint32
	Signature     string
	Kind          uint8
	IsStatic      bool
	IsAbstract    bool
	StaticRewrite bool

	HasTemplate  bool
	TplKind      uint8
	TplLiteral   string
	TplMode      uint8
	GeneratorRef string
	MacroRef     string
	FixedName    string
	HasFixedName bool
	HasConstant  bool
	Constant     sLit
	Tracking     uint8

	ParamNames []string
	Body       *sFunc
	Span       sSpan
}

type sSpan struct {
	File  uint32
	Start uint32
	End   uint32
}

type sLit struct {
	Kind  uint8
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

type sFunc struct {
	Name   string
	Params []string
	Body   *sExpr
	Span   sSpan
}

// sExpr flattens every expression kind into one struct; Kids holds child
// expressions in a fixed per-kind order.
type sExpr struct {
	Kind   uint8
	Span   sSpan
	Lit    sLit
	Index  int
	Name   string
	Op     uint8
	Target uint32
	Kids   []*sExpr
	Fn     *sFunc
}

// SaveSnapshot serializes a program to path.
func SaveSnapshot(path string, p *Program) error {
	raw, err := MarshalSnapshot(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadSnapshot reads a program snapshot from path. The returned digest keys
// derived artifacts (name-table cache).
func LoadSnapshot(path string) (*Program, Digest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, err
	}
	p, err := UnmarshalSnapshot(raw)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return p, DigestBytes(raw), nil
}

// MarshalSnapshot serializes a program to msgpack bytes.
func MarshalSnapshot(p *Program) ([]byte, error) {
	payload := snapshotPayload{
		Schema: snapshotSchemaVersion,
		Files:  p.Files,
		Types:  make([]sType, len(p.Types)),
		Decls:  make([]sDecl, len(p.Decls)),
	}
	for i, t := range p.Types {
		impls := make([]uint32, len(t.Implements))
		for j, id := range t.Implements {
			impls[j] = uint32(id)
		}
		payload.Types[i] = sType{
			Name:          t.Name,
			FQN:           t.FQN,
			Kind:          uint8(t.Kind),
			Abstract:      t.Abstract,
			Implements:    impls,
			ShortName:     t.ShortName,
			ShortNameSet:  t.ShortNameSet,
			EmptyNameMode: t.EmptyNameMode,
			Tracking:      uint8(t.Tracking),
			Span:          packSpan(t.Span),
		}
	}
	for i, d := range p.Decls {
		sd := sDecl{
			Name:          d.Name,
			Owner:         uint32(d.Owner),
			Signature:     d.Signature,
			Kind:          uint8(d.Kind),
			IsStatic:      d.IsStatic,
			IsAbstract:    d.IsAbstract,
			StaticRewrite: d.StaticRewrite,
			GeneratorRef:  d.GeneratorRef,
			MacroRef:      d.MacroRef,
			FixedName:     d.FixedName,
			HasFixedName:  d.HasFixedName,
			Tracking:      uint8(d.Tracking),
			ParamNames:    d.ParamNames,
			Span:          packSpan(d.Span),
		}
		if d.Template != nil {
			sd.HasTemplate = true
			sd.TplKind = uint8(d.Template.Kind)
			sd.TplLiteral = d.Template.Literal
			sd.TplMode = uint8(d.Template.Mode)
		}
		if d.Constant != nil {
			sd.HasConstant = true
			sd.Constant = packLit(*d.Constant)
		}
		if d.Body != nil {
			fn, err := packFunc(d.Body)
			if err != nil {
				return nil, fmt.Errorf("declaration %s: %w", d.Name, err)
			}
			sd.Body = fn
		}
		payload.Decls[i] = sd
	}
	return msgpack.Marshal(&payload)
}

// UnmarshalSnapshot deserializes a program from msgpack bytes.
func UnmarshalSnapshot(raw []byte) (*Program, error) {
	var payload snapshotPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot schema %d, engine expects %d", payload.Schema, snapshotSchemaVersion)
	}
	types := make([]*Type, len(payload.Types))
	for i, st := range payload.Types {
		impls := make([]TypeID, len(st.Implements))
		for j, id := range st.Implements {
			impls[j] = TypeID(id)
		}
		types[i] = &Type{
			Name:          st.Name,
			FQN:           st.FQN,
			Kind:          TypeKind(st.Kind),
			Abstract:      st.Abstract,
			Implements:    impls,
			ShortName:     st.ShortName,
			ShortNameSet:  st.ShortNameSet,
			EmptyNameMode: st.EmptyNameMode,
			Tracking:      Tracking(st.Tracking),
			Span:          unpackSpan(st.Span),
		}
	}
	decls := make([]*Decl, len(payload.Decls))
	for i, sd := range payload.Decls {
		d := &Decl{
			Name:          sd.Name,
			Owner:         TypeID(sd.Owner),
			Signature:     sd.Signature,
			Kind:          DeclKind(sd.Kind),
			IsStatic:      sd.IsStatic,
			IsAbstract:    sd.IsAbstract,
			StaticRewrite: sd.StaticRewrite,
			GeneratorRef:  sd.GeneratorRef,
			MacroRef:      sd.MacroRef,
			FixedName:     sd.FixedName,
			HasFixedName:  sd.HasFixedName,
			Tracking:      Tracking(sd.Tracking),
			ParamNames:    sd.ParamNames,
			Span:          unpackSpan(sd.Span),
		}
		if sd.HasTemplate {
			d.Template = &TemplateAttr{
				Kind:    TemplateKind(sd.TplKind),
				Literal: sd.TplLiteral,
				Mode:    InlineMode(sd.TplMode),
			}
		}
		if sd.HasConstant {
			lit := unpackLit(sd.Constant)
			d.Constant = &lit
		}
		if sd.Body != nil {
			fn, err := unpackFunc(sd.Body)
			if err != nil {
				return nil, fmt.Errorf("declaration %s: %w", sd.Name, err)
			}
			d.Body = fn
		}
		decls[i] = d
	}
	prog := NewProgram(payload.Files, types, decls)
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

func packSpan(sp source.Span) sSpan {
	return sSpan{File: uint32(sp.File), Start: sp.Start, End: sp.End}
}

func unpackSpan(sp sSpan) source.Span {
	return source.Span{File: source.FileID(sp.File), Start: sp.Start, End: sp.End}
}

func packLit(l etree.LitData) sLit {
	return sLit{Kind: uint8(l.Kind), Int: l.Int, Float: l.Float, Bool: l.Bool, Str: l.Str}
}

func unpackLit(l sLit) etree.LitData {
	return etree.LitData{Kind: etree.LitKind(l.Kind), Int: l.Int, Float: l.Float, Bool: l.Bool, Str: l.Str}
}

func packFunc(fn *etree.Func) (*sFunc, error) {
	params := make([]string, len(fn.Params))
	for i, prm := range fn.Params {
		params[i] = prm.Name
	}
	body, err := packExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	return &sFunc{Name: fn.Name, Params: params, Body: body, Span: packSpan(fn.Span)}, nil
}

func unpackFunc(fn *sFunc) (*etree.Func, error) {
	params := make([]etree.Param, len(fn.Params))
	for i, name := range fn.Params {
		params[i] = etree.Param{Name: name}
	}
	body, err := unpackExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	return &etree.Func{Name: fn.Name, Params: params, Body: body, Span: unpackSpan(fn.Span)}, nil
}

func packExpr(e *etree.Expr) (*sExpr, error) {
	if e == nil {
		return nil, nil
	}
	out := &sExpr{Kind: uint8(e.Kind), Span: packSpan(e.Span)}
	kids := func(children ...*etree.Expr) error {
		out.Kids = make([]*sExpr, len(children))
		for i, c := range children {
			packed, err := packExpr(c)
			if err != nil {
				return err
			}
			out.Kids[i] = packed
		}
		return nil
	}
	switch e.Kind {
	case etree.ExprLit:
		out.Lit = packLit(e.Data.(etree.LitData))
	case etree.ExprParam:
		d := e.Data.(etree.ParamData)
		out.Index = d.Index
		out.Name = d.Name
	case etree.ExprThis:
		// no payload
	case etree.ExprLocal:
		out.Name = e.Data.(etree.LocalData).Name
	case etree.ExprUnary:
		d := e.Data.(etree.UnaryData)
		out.Op = uint8(d.Op)
		if err := kids(d.Operand); err != nil {
			return nil, err
		}
	case etree.ExprBinary:
		d := e.Data.(etree.BinaryData)
		out.Op = uint8(d.Op)
		if err := kids(d.Left, d.Right); err != nil {
			return nil, err
		}
	case etree.ExprCond:
		d := e.Data.(etree.CondData)
		if err := kids(d.Cond, d.Then, d.Else); err != nil {
			return nil, err
		}
	case etree.ExprCall:
		d := e.Data.(etree.CallData)
		out.Target = uint32(d.Target)
		all := append([]*etree.Expr{d.Receiver}, d.Args...)
		if err := kids(all...); err != nil {
			return nil, err
		}
	case etree.ExprPropGet:
		d := e.Data.(etree.PropGetData)
		out.Target = uint32(d.Target)
		if err := kids(d.Receiver); err != nil {
			return nil, err
		}
	case etree.ExprLambda:
		fn, err := packFunc(e.Data.(etree.LambdaData).Func)
		if err != nil {
			return nil, err
		}
		out.Fn = fn
	default:
		return nil, fmt.Errorf("unknown expression kind %d", e.Kind)
	}
	return out, nil
}

func unpackExpr(e *sExpr) (*etree.Expr, error) {
	if e == nil {
		return nil, nil
	}
	sp := unpackSpan(e.Span)
	kid := func(i int) (*etree.Expr, error) {
		if i >= len(e.Kids) {
			return nil, fmt.Errorf("expression kind %d: missing child %d", e.Kind, i)
		}
		return unpackExpr(e.Kids[i])
	}
	switch etree.ExprKind(e.Kind) {
	case etree.ExprLit:
		lit := unpackLit(e.Lit)
		return &etree.Expr{Kind: etree.ExprLit, Span: sp, Data: lit}, nil
	case etree.ExprParam:
		return etree.NewParam(e.Index, e.Name, sp), nil
	case etree.ExprThis:
		return etree.NewThis(sp), nil
	case etree.ExprLocal:
		return etree.NewLocal(e.Name, sp), nil
	case etree.ExprUnary:
		operand, err := kid(0)
		if err != nil {
			return nil, err
		}
		return etree.NewUnary(etree.UnaryOp(e.Op), operand, sp), nil
	case etree.ExprBinary:
		left, err := kid(0)
		if err != nil {
			return nil, err
		}
		right, err := kid(1)
		if err != nil {
			return nil, err
		}
		return etree.NewBinary(etree.BinaryOp(e.Op), left, right, sp), nil
	case etree.ExprCond:
		cond, err := kid(0)
		if err != nil {
			return nil, err
		}
		then, err := kid(1)
		if err != nil {
			return nil, err
		}
		els, err := kid(2)
		if err != nil {
			return nil, err
		}
		return etree.NewCond(cond, then, els, sp), nil
	case etree.ExprCall:
		if len(e.Kids) == 0 {
			return nil, fmt.Errorf("call node without children")
		}
		recv, err := unpackExpr(e.Kids[0])
		if err != nil {
			return nil, err
		}
		args := make([]*etree.Expr, len(e.Kids)-1)
		for i := range args {
			if args[i], err = unpackExpr(e.Kids[i+1]); err != nil {
				return nil, err
			}
		}
		return etree.NewCall(etree.DeclID(e.Target), recv, args, sp), nil
	case etree.ExprPropGet:
		recv, err := kid(0)
		if err != nil {
			return nil, err
		}
		return etree.NewPropGet(etree.DeclID(e.Target), recv, sp), nil
	case etree.ExprLambda:
		if e.Fn == nil {
			return nil, fmt.Errorf("lambda node without function")
		}
		fn, err := unpackFunc(e.Fn)
		if err != nil {
			return nil, err
		}
		return etree.NewLambda(fn, sp), nil
	}
	return nil, fmt.Errorf("unknown expression kind %d", e.Kind)
}
