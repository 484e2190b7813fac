// Package translate is the default translation pipeline and the place where
// the four override points hook into it.
//
// Every declaration resolves its body exactly once: through its host body
// (the automatic path), a Direct template, a generator, or not at all when a
// macro or inline template owns its call sites. Call sites inside bodies are
// translated recursively; that recursion is also the continuation handed to
// macros, so "translate as default" is the same code whether or not a macro
// is watching.
package translate

import (
	"sync"
	"sync/atomic"

	"lumen/internal/decl"
	"lumen/internal/diag"
	"lumen/internal/etree"
	"lumen/internal/gen"
	"lumen/internal/ir"
	"lumen/internal/macroexp"
	"lumen/internal/template"
)

// Translator resolves declaration bodies and call sites for one program.
// Safe for concurrent use. Parsed templates are computed at most once per
// declaration, and so is the body each Body call observes; a post-hoc inline
// may additionally resolve its callee on the inlining chain when the
// canonical resolution has not finished yet.
type Translator struct {
	prog   *decl.Program
	gens   *gen.Registry
	macros *macroexp.Registry

	mu     sync.Mutex
	bodies map[decl.DeclID]*bodyOnce
	specs  map[decl.DeclID]*specOnce
}

type bodyOnce struct {
	once  sync.Once
	done  atomic.Bool
	fn    *ir.Func
	diags []diag.Diagnostic
	ok    bool
}

type specOnce struct {
	once sync.Once
	spec *template.Spec
	err  error
}

// NewTranslator creates a translator over a program and its plugin
// registries. Nil registries are replaced by empty ones.
func NewTranslator(prog *decl.Program, gens *gen.Registry, macros *macroexp.Registry) *Translator {
	if gens == nil {
		gens = gen.NewRegistry()
	}
	if macros == nil {
		macros = macroexp.NewRegistry()
	}
	return &Translator{
		prog:   prog,
		gens:   gens,
		macros: macros,
		bodies: make(map[decl.DeclID]*bodyOnce),
		specs:  make(map[decl.DeclID]*specOnce),
	}
}

// Program returns the program under translation.
func (t *Translator) Program() *decl.Program { return t.prog }

// Body resolves the emitted body of a declaration: the translated function,
// the diagnostics its resolution produced, and whether a body exists at all.
// ok=false with no diagnostics means the declaration legitimately emits no
// body (abstract members, inline-replace templates, macro-only members,
// constants). Resolution runs once; repeated calls return the cached result
// with the same diagnostics, which the driver reports exactly once per
// declaration.
func (t *Translator) Body(id decl.DeclID) (*ir.Func, []diag.Diagnostic, bool) {
	entry := t.bodyEntry(id)
	entry.once.Do(func() {
		entry.fn, entry.diags, entry.ok = t.resolveBody(id, map[decl.DeclID]bool{id: true})
		entry.done.Store(true)
	})
	return entry.fn, entry.diags, entry.ok
}

// nestedBody resolves a callee body from inside another declaration's
// resolution (post-hoc inlining). It never waits on the canonical once: the
// entry may be mid-resolution on another worker, and two declarations that
// post-hoc inline each other would then wait on each other forever. A
// finished entry is reused; anything else is resolved again on this chain and
// the duplicate result discarded. The canonical resolution, and its
// diagnostics, still come from Body.
func (t *Translator) nestedBody(id decl.DeclID, resolving map[decl.DeclID]bool) (*ir.Func, bool) {
	entry := t.bodyEntry(id)
	if entry.done.Load() {
		return entry.fn, entry.ok
	}
	fn, _, ok := t.resolveBody(id, resolving)
	return fn, ok
}

func (t *Translator) bodyEntry(id decl.DeclID) *bodyOnce {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.bodies[id]
	if !ok {
		entry = &bodyOnce{}
		t.bodies[id] = entry
	}
	return entry
}

// resolveBody applies the body-source attributes in their mutual-exclusion
// contract and produces IR through the matching path. resolving holds the
// declarations currently being resolved on this chain, id included; it is how
// recursive post-hoc inlines are cut off.
func (t *Translator) resolveBody(id decl.DeclID, resolving map[decl.DeclID]bool) (*ir.Func, []diag.Diagnostic, bool) {
	d := t.prog.Decl(id)
	if d == nil {
		return nil, []diag.Diagnostic{diag.NewError(diag.LowerUnknownDecl, sourceSpanZero,
			"body requested for unknown declaration")}, false
	}
	var diags []diag.Diagnostic
	fail := func(code diag.Code, msg string) (*ir.Func, []diag.Diagnostic, bool) {
		diags = append(diags, diag.NewError(code, d.Span, t.prog.DeclLabel(id)+": "+msg))
		return nil, diags, false
	}

	sources := 0
	if d.Template != nil && d.Template.Kind == decl.Direct {
		sources++
	}
	if d.Template != nil && d.Template.Kind == decl.Inline {
		sources++
	}
	if d.GeneratorRef != "" {
		sources++
	}
	if d.MacroRef != "" {
		sources++
	}
	if sources > 1 {
		return fail(diag.DeclAttrConflict,
			"Direct, Inline, generated and macro body sources are mutually exclusive")
	}
	if d.Constant != nil && sources > 0 {
		return fail(diag.DeclAttrConflict, "a constant declaration carries no other body source")
	}

	switch {
	case d.Constant != nil:
		// Reads are folded at use sites; no body is emitted.
		return nil, diags, false

	case d.Template != nil && d.Template.Kind == decl.Direct:
		spec, err := t.templateSpec(d)
		if err != nil {
			return nil, append(diags, templateDiag(err, d, t.prog)), false
		}
		fn, err := template.BindDirect(spec, d)
		if err != nil {
			return nil, append(diags, templateDiag(err, d, t.prog)), false
		}
		return fn, diags, true

	case d.Template != nil && d.Template.Kind == decl.Inline:
		if d.Template.Mode == decl.InlinePosthoc {
			// Post-hoc inlining keeps the auto-translated body for indirect
			// uses; direct call sites additionally substitute it.
			if d.Body == nil {
				return fail(diag.DeclMissingBody, "post-hoc inline requires a host body")
			}
			return t.autoBody(d, diags, resolving)
		}
		// Inline-replace: the parsed template must be valid even if the
		// declaration is never called, so surface parse errors here.
		if _, err := t.templateSpec(d); err != nil {
			return nil, append(diags, templateDiag(err, d, t.prog)), false
		}
		return nil, diags, false

	case d.GeneratorRef != "":
		lower := func(fn *etree.Func) (*ir.Func, error) {
			return t.lowerLambda(fn, resolving)
		}
		fn, err := gen.Resolve(t.gens, d.GeneratorRef, lower)
		if err != nil {
			return nil, append(diags, generatorDiag(err, d, t.prog)), false
		}
		return fn, diags, true

	case d.MacroRef != "":
		// A macro owns the call sites. The declaration still emits its host
		// body when it has one, which is also what whole-call fallback
		// resolves against.
		if d.Body == nil {
			return nil, diags, false
		}
		return t.autoBody(d, diags, resolving)

	default:
		if d.Body == nil {
			if d.IsAbstract {
				return nil, diags, false
			}
			return fail(diag.DeclMissingBody, "no host body and no body-producing attribute")
		}
		return t.autoBody(d, diags, resolving)
	}
}

// autoBody lowers the host body through the default pipeline.
func (t *Translator) autoBody(d *decl.Decl, diags []diag.Diagnostic, resolving map[decl.DeclID]bool) (*ir.Func, []diag.Diagnostic, bool) {
	fn, err := t.lowerDeclBody(d, resolving)
	if err != nil {
		return nil, append(diags, lowerDiag(err, d, t.prog)), false
	}
	return fn, diags, true
}

// templateSpec parses a declaration's template literal, once.
func (t *Translator) templateSpec(d *decl.Decl) (*template.Spec, error) {
	t.mu.Lock()
	entry, ok := t.specs[d.ID]
	if !ok {
		entry = &specOnce{}
		t.specs[d.ID] = entry
	}
	t.mu.Unlock()
	entry.once.Do(func() {
		entry.spec, entry.err = template.Parse(d.Template.Literal, d.Template.Kind)
	})
	return entry.spec, entry.err
}
