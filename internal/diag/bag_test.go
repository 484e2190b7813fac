package diag

import (
	"testing"

	"lumen/internal/source"
)

func span(file, start uint32) source.Span {
	return source.Span{File: source.FileID(file), Start: start, End: start + 1}
}

func TestBagCap(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(TplSyntax, span(1, 0), "one")) {
		t.Fatal("first Add must succeed")
	}
	if !bag.Add(NewError(TplSyntax, span(1, 1), "two")) {
		t.Fatal("second Add must succeed")
	}
	if bag.Add(NewError(TplSyntax, span(1, 2), "three")) {
		t.Error("Add beyond the cap must report the drop")
	}
	if bag.Len() != 2 {
		t.Errorf("Len = %d, want 2", bag.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewWarning(NameDuplicate, span(1, 0), "just a warning"))
	if bag.HasErrors() {
		t.Error("a warning alone is not an error")
	}
	bag.Add(NewError(TplSyntax, span(1, 1), "an error"))
	if !bag.HasErrors() {
		t.Error("an error must be detected")
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(LowerUnsupported, span(2, 5), "late file"))
	bag.Add(NewError(TplSyntax, span(1, 9), "early file, late offset"))
	bag.Add(NewWarning(NameDuplicate, span(1, 3), "early file, early offset"))
	bag.Sort()

	items := bag.Items()
	if items[0].Code != NameDuplicate || items[1].Code != TplSyntax || items[2].Code != LowerUnsupported {
		t.Errorf("sort order wrong: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
}

func TestBagSortSeverityBreaksTies(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewWarning(TplSyntax, span(1, 0), "warning"))
	bag.Add(NewError(TplSyntax, span(1, 0), "error"))
	bag.Sort()
	if bag.Items()[0].Severity != SevError {
		t.Error("errors sort before warnings at the same span")
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(TplSyntax, span(1, 0), "first"))
	bag.Add(NewError(TplSyntax, span(1, 0), "repeat of the same code and span"))
	bag.Add(NewError(TplSyntax, span(1, 7), "same code, other span"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Errorf("Len after Dedup = %d, want 2", bag.Len())
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(TplSyntax, span(1, 0), "a"))
	b := NewBag(2)
	b.Add(NewError(TplSyntax, span(1, 1), "b1"))
	b.Add(NewError(TplSyntax, span(1, 2), "b2"))

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("Len after Merge = %d, want 3", a.Len())
	}
	if !a.Add(NewError(TplSyntax, span(1, 3), "post-merge")) {
		// The grown cap equals the merged total; one more still gets dropped.
		t.Log("cap holds exactly the merged total")
	}
}

func TestBagMergeNil(t *testing.T) {
	a := NewBag(1)
	a.Merge(nil)
	if a.Len() != 0 {
		t.Errorf("Len = %d, want 0", a.Len())
	}
}
