package decl

import (
	"fmt"
	"sort"

	"lumen/internal/source"
)

// Program is one compilation unit as handed over by the front end. IDs are
// dense and 1-based: Types[i].ID == TypeID(i+1), Decls[i].ID == DeclID(i+1).
type Program struct {
	Files []string
	Types []*Type
	Decls []*Decl

	files *source.FileTable
}

// NewProgram assembles a program and assigns dense IDs.
func NewProgram(files []string, types []*Type, decls []*Decl) *Program {
	for i, t := range types {
		t.ID = TypeID(i + 1)
	}
	for i, d := range decls {
		d.ID = DeclID(i + 1)
	}
	return &Program{
		Files: files,
		Types: types,
		Decls: decls,
		files: source.NewFileTable(files),
	}
}

// Type returns the type for id, or nil for invalid IDs.
func (p *Program) Type(id TypeID) *Type {
	if !id.IsValid() || int(id) > len(p.Types) {
		return nil
	}
	return p.Types[id-1]
}

// Decl returns the declaration for id, or nil for invalid IDs.
func (p *Program) Decl(id DeclID) *Decl {
	if !id.IsValid() || int(id) > len(p.Decls) {
		return nil
	}
	return p.Decls[id-1]
}

// FileTable returns the front-end file table for diagnostics rendering.
func (p *Program) FileTable() *source.FileTable {
	if p.files == nil {
		p.files = source.NewFileTable(p.Files)
	}
	return p.files
}

// DeclsOf returns the declarations owned by a type, sorted by signature so
// callers iterate deterministically regardless of snapshot order.
func (p *Program) DeclsOf(id TypeID) []*Decl {
	var out []*Decl
	for _, d := range p.Decls {
		if d.Owner == id {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}

// DeclLabel renders "Type.member" for diagnostics.
func (p *Program) DeclLabel(id DeclID) string {
	d := p.Decl(id)
	if d == nil {
		return fmt.Sprintf("<decl %d>", id)
	}
	if t := p.Type(d.Owner); t != nil {
		return t.FQN + "." + d.Name
	}
	return d.Name
}

// Validate checks ID integrity of the snapshot: owner references, implement
// edges and call targets must stay inside the program.
func (p *Program) Validate() error {
	for _, t := range p.Types {
		for _, impl := range t.Implements {
			if p.Type(impl) == nil {
				return fmt.Errorf("type %s implements unknown type %d", t.FQN, impl)
			}
		}
	}
	for _, d := range p.Decls {
		if d.Owner != NoTypeID && p.Type(d.Owner) == nil {
			return fmt.Errorf("declaration %s owned by unknown type %d", d.Name, d.Owner)
		}
	}
	return nil
}
