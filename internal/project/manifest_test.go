package project

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"lumen/internal/decl"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const fullManifest = `
[package]
name = "demo"

[translate]
snapshot = "prog.lsnap"
output = "out/demo.dump"
jobs = 3
max_diagnostics = 99

[naming."Acme.ISeq"]
shortname = "Seq"

[naming."Acme.Verbatim"]
empty_name = true
untracked = true
`

func TestLoadFullManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, fullManifest)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Errorf("package name = %q, want demo", m.Package.Name)
	}
	if m.Translate.Jobs != 3 || m.Translate.MaxDiagnostics != 99 {
		t.Errorf("translate section = %+v", m.Translate)
	}
	if got, want := m.SnapshotPath(), filepath.Join(dir, "prog.lsnap"); got != want {
		t.Errorf("SnapshotPath = %q, want %q", got, want)
	}
	if got, want := m.OutputPath(), filepath.Join(dir, "out", "demo.dump"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
	ov, ok := m.Naming["Acme.ISeq"]
	if !ok || ov.ShortName == nil || *ov.ShortName != "Seq" {
		t.Errorf("ISeq override = %+v", ov)
	}
}

func TestLoadMissingPackageSection(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[translate]\nsnapshot = \"p.lsnap\"\n")
	_, err := Load(path)
	if !errors.Is(err, ErrPackageSectionMissing) {
		t.Fatalf("err = %v, want ErrPackageSectionMissing", err)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package]\nname = \"demo\"\n")
	_, err := Load(path)
	if !errors.Is(err, ErrSnapshotMissing) {
		t.Fatalf("err = %v, want ErrSnapshotMissing", err)
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeManifest(t, root, fullManifest)

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest = ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("FindManifest = %q, want %q", got, want)
	}

	gotRoot, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot = ok=%v err=%v", ok, err)
	}
	if gotRoot != root {
		t.Errorf("FindProjectRoot = %q, want %q", gotRoot, root)
	}
}

func TestFindManifestAbsent(t *testing.T) {
	// A nested temp dir guarantees no lumen.toml on the path to the root.
	_, ok, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("FindManifest failed: %v", err)
	}
	if ok {
		t.Skip("a manifest exists above the temp directory")
	}
}

func TestApplyNaming(t *testing.T) {
	path := writeManifest(t, t.TempDir(), fullManifest)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	seq := &decl.Type{Name: "ISeq", FQN: "Acme.ISeq", Kind: decl.KindInterface}
	verb := &decl.Type{Name: "Verbatim", FQN: "Acme.Verbatim", Kind: decl.KindClass}
	prog := decl.NewProgram(nil, []*decl.Type{seq, verb}, nil)

	unknown := m.ApplyNaming(prog)
	if len(unknown) != 0 {
		t.Fatalf("unexpected unknown overrides: %v", unknown)
	}
	if !seq.ShortNameSet || seq.ShortName != "Seq" {
		t.Errorf("ISeq short name not applied: %+v", seq)
	}
	if !verb.EmptyNameMode || verb.Tracking != decl.Untracked {
		t.Errorf("Verbatim overrides not applied: %+v", verb)
	}
}

func TestApplyNamingReportsUnknownTypes(t *testing.T) {
	path := writeManifest(t, t.TempDir(), fullManifest)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	prog := decl.NewProgram(nil, nil, nil)
	unknown := m.ApplyNaming(prog)
	sort.Strings(unknown)
	want := []string{"Acme.ISeq", "Acme.Verbatim"}
	if len(unknown) != len(want) {
		t.Fatalf("unknown = %v, want %v", unknown, want)
	}
	for i := range want {
		if unknown[i] != want[i] {
			t.Errorf("unknown[%d] = %q, want %q", i, unknown[i], want[i])
		}
	}
}

func TestDefaultManifestParses(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, DefaultManifest("demo"))

	m, err := Load(path)
	if err != nil {
		t.Fatalf("generated manifest does not parse: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Errorf("package name = %q, want demo", m.Package.Name)
	}
	if m.Translate.Snapshot == "" {
		t.Error("generated manifest must preset a snapshot path")
	}
}
