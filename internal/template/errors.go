package template

import (
	"fmt"
)

// SyntaxError reports a malformed template literal, naming the offending
// fragment.
type SyntaxError struct {
	Offset   int
	Fragment string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("template syntax at offset %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("template syntax at offset %d near %q: %s", e.Offset, e.Fragment, e.Msg)
}

// UnsupportedInlineError reports a construct outside the inline expression
// subset.
type UnsupportedInlineError struct {
	Offset    int
	Construct string
}

func (e *UnsupportedInlineError) Error() string {
	return fmt.Sprintf("construct %s at offset %d is outside the inline expression subset", e.Construct, e.Offset)
}

// BindError reports a placeholder that cannot be resolved against the
// declaration or the call's arguments.
type BindError struct {
	Hole Placeholder
	Msg  string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("placeholder %s: %s", e.Hole.Display(), e.Msg)
}

// AmbiguousSelfError reports $this shadowed by a parameter literally named
// "this", or $this on a member rewritten into an extension-style static.
type AmbiguousSelfError struct {
	Msg string
}

func (e *AmbiguousSelfError) Error() string {
	return "$this: " + e.Msg
}

// Display renders a placeholder as it appears in the literal.
func (h Placeholder) Display() string {
	switch h.Kind {
	case HoleIndex:
		return fmt.Sprintf("$%d", h.Index)
	case HoleName:
		return "$" + h.Name
	case HoleThis:
		return "$this"
	}
	return "$?"
}
