package decl

import (
	"lumen/internal/etree"
	"lumen/internal/source"
)

// DeclKind enumerates declaration kinds.
type DeclKind uint8

const (
	// KindFunc is a free function (module member).
	KindFunc DeclKind = iota
	// KindMethod is an instance or static method.
	KindMethod
	// KindProperty is a property accessor.
	KindProperty
	// KindUnionCase is a union case constructor.
	KindUnionCase
)

func (k DeclKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindUnionCase:
		return "union case"
	}
	return "unknown"
}

// TemplateKind selects between the two templating forms.
type TemplateKind uint8

const (
	// Direct replaces the whole body with the bound template.
	Direct TemplateKind = iota
	// Inline substitutes the bound template at every call site.
	Inline
)

// InlineMode splits the Inline form into its two sub-modes. A template with
// no host body is the declaration's only rendering; a post-hoc inline keeps
// the auto-translated body for indirect uses and additionally inlines direct
// call sites.
type InlineMode uint8

const (
	// InlineReplace is an inline template on a declaration with no host body.
	InlineReplace InlineMode = iota
	// InlinePosthoc is an inline directive on an otherwise auto-translated
	// declaration.
	InlinePosthoc
)

// TemplateAttr is the template attribute payload.
type TemplateAttr struct {
	Kind    TemplateKind
	Literal string
	Mode    InlineMode // meaningful for Kind == Inline only
}

// Decl is one named, typed unit of host code. At most one of Template
// (Direct), GeneratorRef, MacroRef supplies the body; the attribute
// resolution pass enforces that.
type Decl struct {
	ID         DeclID
	Name       string
	Owner      TypeID
	Signature  string // name/arity key used for override and implement matching
	Kind       DeclKind
	IsStatic   bool
	IsAbstract bool

	// StaticRewrite marks an instance member the front end rewrote into an
	// extension-style static: the receiver arrives as argument 0 and $this
	// is not addressable in its templates.
	StaticRewrite bool

	Template     *TemplateAttr
	GeneratorRef string
	MacroRef     string

	// FixedName is the user-chosen translated identifier. The empty string
	// is reserved: it means "use the host-language name". HasFixedName
	// distinguishes that from no attribute at all.
	FixedName    string
	HasFixedName bool

	// Constant replaces every read of the declaration with a literal.
	Constant *etree.LitData

	Tracking Tracking

	// ParamNames lists declared parameter names, receiver excluded.
	ParamNames []string

	// Body is the host-language body, nil when the declaration is abstract
	// or fully replaced by an override.
	Body *etree.Func

	Span source.Span
}

// ArgCount returns the number of call-site arguments: receiver plus declared
// parameters for instance members, declared parameters otherwise.
func (d *Decl) ArgCount() int {
	if d.HasReceiver() {
		return len(d.ParamNames) + 1
	}
	return len(d.ParamNames)
}

// HasReceiver reports whether call sites pass a receiver. StaticRewrite
// members receive it as a plain leading argument instead.
func (d *Decl) HasReceiver() bool {
	if d.Kind != KindMethod && d.Kind != KindProperty {
		return false
	}
	return !d.IsStatic
}
