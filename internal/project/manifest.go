// Package project locates and parses the lumen.toml manifest: where the
// snapshot lives, where translation artifacts go, and per-type naming
// overrides applied on top of snapshot attributes.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"lumen/internal/decl"
)

// ManifestName is the project manifest file name.
const ManifestName = "lumen.toml"

// NamingOverride adjusts one host type's naming behavior without touching
// the snapshot. Keys in [naming] are fully qualified host type names.
type NamingOverride struct {
	ShortName *string `toml:"shortname"`
	EmptyName bool    `toml:"empty_name"`
	Untracked bool    `toml:"untracked"`
}

// Manifest is one parsed lumen.toml.
type Manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`

	Translate struct {
		Snapshot       string `toml:"snapshot"`
		Output         string `toml:"output"`
		Jobs           int    `toml:"jobs"`
		MaxDiagnostics int    `toml:"max_diagnostics"`
	} `toml:"translate"`

	Naming map[string]NamingOverride `toml:"naming"`

	// Dir is the directory the manifest was loaded from; relative paths in
	// the manifest resolve against it.
	Dir string `toml:"-"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrSnapshotMissing indicates that [translate].snapshot is missing.
	ErrSnapshotMissing = errors.New("missing [translate].snapshot")
)

// FindManifest walks up from startDir to locate lumen.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing lumen.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// Load parses a lumen.toml file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if strings.TrimSpace(m.Translate.Snapshot) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrSnapshotMissing)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// SnapshotPath resolves the snapshot path against the manifest directory.
func (m *Manifest) SnapshotPath() string {
	return m.resolve(m.Translate.Snapshot)
}

// OutputPath resolves the output path; empty means stdout.
func (m *Manifest) OutputPath() string {
	if m.Translate.Output == "" {
		return ""
	}
	return m.resolve(m.Translate.Output)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// ApplyNaming overlays [naming] entries on program types, matched by FQN.
// Unknown FQNs are reported back so the CLI can warn about stale overrides.
func (m *Manifest) ApplyNaming(prog *decl.Program) (unknown []string) {
	if len(m.Naming) == 0 {
		return nil
	}
	byFQN := make(map[string]*decl.Type, len(prog.Types))
	for _, t := range prog.Types {
		byFQN[t.FQN] = t
	}
	for fqn, ov := range m.Naming {
		t, ok := byFQN[fqn]
		if !ok {
			unknown = append(unknown, fqn)
			continue
		}
		if ov.ShortName != nil {
			t.ShortName = *ov.ShortName
			t.ShortNameSet = true
		}
		if ov.EmptyName {
			t.EmptyNameMode = true
		}
		if ov.Untracked {
			t.Tracking = decl.Untracked
		}
	}
	return unknown
}

// DefaultManifest is what `lumen init` writes.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[translate]
snapshot = "program.lsnap"
output = "out/%s.dump"

# Per-type naming overrides, keyed by fully qualified host type name:
# [naming."Corp.Web.Widget"]
# shortname = "W"
# untracked = true
`, name, name)
}
