package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/source"
)

func testBag() (*diag.Bag, *source.FileTable) {
	files := source.NewFileTable([]string{"src/seq.lm"})
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.TplSyntax, source.Span{File: 1, Start: 12, End: 15},
		"Acme.List.head: unexpected token").
		WithNote(source.Span{File: 1, Start: 3, End: 4}, "template declared here"))
	bag.Add(diag.NewWarning(diag.NameDuplicate, source.Span{File: 1, Start: 40, End: 41},
		"identifier reused"))
	return bag, files
}

func TestPrettyPlain(t *testing.T) {
	bag, files := testBag()
	var sb strings.Builder
	Pretty(&sb, bag, files, PrettyOpts{})

	out := sb.String()
	for _, want := range []string{
		"src/seq.lm:12: error LUM1101: Acme.List.head: unexpected token",
		"src/seq.lm:40: warning LUM1402: identifier reused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note:") {
		t.Error("notes must be hidden unless requested")
	}
}

func TestPrettyShowsNotes(t *testing.T) {
	bag, files := testBag()
	var sb strings.Builder
	Pretty(&sb, bag, files, PrettyOpts{ShowNotes: true})

	if !strings.Contains(sb.String(), "  note: src/seq.lm:3: template declared here") {
		t.Errorf("note line missing:\n%s", sb.String())
	}
}

func TestPrettyUnknownFile(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LowerUnsupported, source.Span{}, "nowhere"))
	var sb strings.Builder
	Pretty(&sb, bag, nil, PrettyOpts{})

	if !strings.Contains(sb.String(), "<unknown>:0:") {
		t.Errorf("expected <unknown> location:\n%s", sb.String())
	}
}

func TestJSONOutput(t *testing.T) {
	bag, files := testBag()
	var sb strings.Builder
	if err := JSON(&sb, bag, files, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(sb.String()), &rows); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["code"] != "LUM1101" || rows[0]["severity"] != "error" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[0]["path"] != "src/seq.lm" {
		t.Errorf("row 0 path = %v", rows[0]["path"])
	}
	notes, ok := rows[0]["notes"].([]any)
	if !ok || len(notes) != 1 {
		t.Errorf("row 0 notes = %v", rows[0]["notes"])
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, files := testBag()
	var sb strings.Builder
	if err := JSON(&sb, bag, files, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(sb.String()), &rows); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}
