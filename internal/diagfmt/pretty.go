// Package diagfmt formats diagnostics for terminal and machine consumers.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lumen/internal/diag"
	"lumen/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	pathColor = color.New(color.Bold)
)

// Pretty writes bag's diagnostics in human-readable form, one per line:
// <path>:<offset>: <SEV> <CODE>: <message>, notes indented beneath. Callers
// are expected to bag.Sort() first.
func Pretty(w io.Writer, bag *diag.Bag, files *source.FileTable, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printOne(w, d, files, opts)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, files *source.FileTable, opts PrettyOpts) {
	loc := location(d.Primary, files)
	sev := severityLabel(d.Severity)
	if opts.Color {
		loc = pathColor.Sprint(loc)
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, d.Code.String(), d.Message)
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  note: %s: %s\n", location(n.Span, files), n.Msg)
	}
}

func location(sp source.Span, files *source.FileTable) string {
	path := "<unknown>"
	if files != nil {
		if p := files.Path(sp.File); p != "" {
			path = p
		}
	}
	return fmt.Sprintf("%s:%d", path, sp.Start)
}

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "info"
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	}
	return infoColor
}
