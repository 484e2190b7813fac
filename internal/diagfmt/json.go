package diagfmt

import (
	"encoding/json"
	"io"

	"lumen/internal/diag"
	"lumen/internal/source"
)

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludeNotes bool
	// Max truncates output rows, not the bag. 0 means unlimited.
	Max int
}

type jsonNote struct {
	Path    string `json:"path,omitempty"`
	Start   uint32 `json:"start"`
	Message string `json:"message"`
}

type jsonDiagnostic struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Path     string     `json:"path,omitempty"`
	Start    uint32     `json:"start"`
	End      uint32     `json:"end"`
	Message  string     `json:"message"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

// JSON writes bag's diagnostics as an indented JSON array.
func JSON(w io.Writer, bag *diag.Bag, files *source.FileTable, opts JSONOpts) error {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	rows := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		row := jsonDiagnostic{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.String(),
			Path:     pathOf(d.Primary, files),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				row.Notes = append(row.Notes, jsonNote{
					Path:    pathOf(n.Span, files),
					Start:   n.Span.Start,
					Message: n.Msg,
				})
			}
		}
		rows = append(rows, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func pathOf(sp source.Span, files *source.FileTable) string {
	if files == nil {
		return ""
	}
	return files.Path(sp.File)
}
