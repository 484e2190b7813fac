package translate

import (
	"errors"

	"lumen/internal/decl"
	"lumen/internal/diag"
	"lumen/internal/gen"
	"lumen/internal/macroexp"
	"lumen/internal/source"
	"lumen/internal/template"
)

var sourceSpanZero = source.Span{}

// passError carries a diagnostic code and span up the lowering recursion.
// One passError aborts translation of the affected declaration or call site;
// the driver keeps going with the rest of the program.
type passError struct {
	code diag.Code
	span source.Span
	msg  string
}

func (e *passError) Error() string { return e.msg }

func lowerFail(code diag.Code, sp source.Span, msg string) error {
	return &passError{code: code, span: sp, msg: msg}
}

// templateDiag maps template parser/binder failures onto the diagnostic
// taxonomy, attributed to the declaration carrying the template.
func templateDiag(err error, d *decl.Decl, prog *decl.Program) diag.Diagnostic {
	label := prog.DeclLabel(d.ID)
	code := diag.TplSyntax
	var unsup *template.UnsupportedInlineError
	var bind *template.BindError
	var self *template.AmbiguousSelfError
	switch {
	case errors.As(err, &unsup):
		code = diag.TplUnsupportedInline
	case errors.As(err, &bind):
		code = diag.TplBadPlaceholder
	case errors.As(err, &self):
		code = diag.TplAmbiguousSelf
	}
	return diag.NewError(code, d.Span, label+": "+err.Error())
}

// generatorDiag maps generator failures: a missing registration is its own
// code, everything raised while running user code is GenInvocation.
func generatorDiag(err error, d *decl.Decl, prog *decl.Program) diag.Diagnostic {
	label := prog.DeclLabel(d.ID)
	var inv *gen.InvocationError
	if errors.As(err, &inv) {
		return diag.NewError(diag.GenInvocation, d.Span, label+": "+err.Error())
	}
	return diag.NewError(diag.GenUnknownRef, d.Span, label+": "+err.Error())
}

// lowerDiag converts an error escaping the lowering recursion into a single
// diagnostic for the declaration being translated. Call-site failures
// (macros, inline binding) surface here with their own codes and spans.
func lowerDiag(err error, d *decl.Decl, prog *decl.Program) diag.Diagnostic {
	label := prog.DeclLabel(d.ID)

	var pe *passError
	if errors.As(err, &pe) {
		sp := pe.span
		if sp == sourceSpanZero {
			sp = d.Span
		}
		return diag.NewError(pe.code, sp, label+": "+pe.msg)
	}
	var macroErr *macroexp.TranslationError
	if errors.As(err, &macroErr) {
		return diag.NewError(diag.MacroTranslation, d.Span, label+": "+err.Error())
	}
	var unsup *template.UnsupportedInlineError
	var bind *template.BindError
	var self *template.AmbiguousSelfError
	var syn *template.SyntaxError
	switch {
	case errors.As(err, &unsup):
		return diag.NewError(diag.TplUnsupportedInline, d.Span, label+": "+err.Error())
	case errors.As(err, &bind):
		return diag.NewError(diag.TplBadPlaceholder, d.Span, label+": "+err.Error())
	case errors.As(err, &self):
		return diag.NewError(diag.TplAmbiguousSelf, d.Span, label+": "+err.Error())
	case errors.As(err, &syn):
		return diag.NewError(diag.TplSyntax, d.Span, label+": "+err.Error())
	}
	return diag.NewError(diag.LowerUnsupported, d.Span, label+": "+err.Error())
}
