package naming

import (
	"fmt"
	"sort"

	"lumen/internal/decl"
	"lumen/internal/diag"
)

// Resolve computes the binding table for a whole program. Diagnostics go
// into bag; the returned table is already sealed. The pass is deterministic:
// types and members are processed in sorted order, so the result does not
// depend on snapshot declaration order.
func Resolve(prog *decl.Program, bag *diag.Bag) *Table {
	table := NewTable()
	ResolveInto(prog, table, bag)
	table.Seal()
	return table
}

// ResolveInto runs the pass against a caller-owned table, leaving sealing to
// the caller. The driver uses this to keep a cancelled run from ever
// exposing a sealed-but-incomplete table.
func ResolveInto(prog *decl.Program, table *Table, bag *diag.Bag) {
	r := &resolver{
		prog:  prog,
		table: table,
		bag:   bag,
		memo:  make(map[Key][]propName),
		color: make(map[decl.TypeID]uint8),
	}
	r.rejectCycles()
	r.assignAll()
}

// propName is one name assignment flowing down an override chain.
type propName struct {
	value  string
	fixed  bool // explicit fixed name, participates in conflict rule
	origin decl.TypeID
}

type resolver struct {
	prog  *decl.Program
	table *Table
	bag   *diag.Bag
	memo  map[Key][]propName

	// cycle detection colors: 0 unvisited, 1 on stack, 2 done
	color  map[decl.TypeID]uint8
	cyclic map[decl.TypeID]bool
}

// rejectCycles walks the implement/inherit graph and reports every cycle.
// Cyclic types keep plain host names afterwards so the pass can finish and
// report everything else too.
func (r *resolver) rejectCycles() {
	r.cyclic = make(map[decl.TypeID]bool)
	types := r.sortedTypes()
	var stack []decl.TypeID
	var visit func(id decl.TypeID)
	visit = func(id decl.TypeID) {
		switch r.color[id] {
		case 1:
			// Found a back edge: everything from the first occurrence of id
			// on the stack forms the cycle.
			start := 0
			for i, tid := range stack {
				if tid == id {
					start = i
					break
				}
			}
			cycle := stack[start:]
			names := make([]string, len(cycle))
			for i, tid := range cycle {
				r.cyclic[tid] = true
				names[i] = r.prog.Type(tid).FQN
			}
			sort.Strings(names)
			t := r.prog.Type(id)
			r.bag.Add(diag.NewError(diag.NameCycle, t.Span,
				fmt.Sprintf("inheritance cycle through %v", names)))
			return
		case 2:
			return
		}
		r.color[id] = 1
		stack = append(stack, id)
		for _, anc := range r.ancestors(id) {
			visit(anc)
		}
		stack = stack[:len(stack)-1]
		r.color[id] = 2
	}
	for _, t := range types {
		visit(t.ID)
	}
}

// sortedTypes returns all types ordered by FQN for determinism.
func (r *resolver) sortedTypes() []*decl.Type {
	out := make([]*decl.Type, len(r.prog.Types))
	copy(out, r.prog.Types)
	sort.Slice(out, func(i, j int) bool { return out[i].FQN < out[j].FQN })
	return out
}

// ancestors returns the implement/inherit edges of a type sorted by the
// ancestor's FQN.
func (r *resolver) ancestors(id decl.TypeID) []decl.TypeID {
	t := r.prog.Type(id)
	if t == nil {
		return nil
	}
	out := make([]decl.TypeID, 0, len(t.Implements))
	out = append(out, t.Implements...)
	sort.Slice(out, func(i, j int) bool {
		return r.prog.Type(out[i]).FQN < r.prog.Type(out[j]).FQN
	})
	return out
}

// assignAll binds every declaration of every type and then checks each
// type's emission namespace for duplicates.
func (r *resolver) assignAll() {
	for _, t := range r.sortedTypes() {
		members := r.prog.DeclsOf(t.ID)
		bound := make(map[string][]*decl.Decl) // identifier -> members
		fixedIdent := make(map[string]bool)    // identifier arrived via fixed-name contract everywhere
		for _, d := range members {
			name, ok := r.assignOne(t, d)
			if !ok {
				continue
			}
			if err := r.table.Set(Key{Type: t.ID, Signature: d.Signature}, name); err != nil {
				r.bag.Add(diag.NewError(diag.NameConflict, d.Span, err.Error()))
				continue
			}
			if r.memberUntracked(t, d) {
				continue
			}
			prevAllFixed, seen := fixedIdent[name]
			isFixed := r.hasFixedContract(t, d)
			if !seen {
				fixedIdent[name] = isFixed
			} else {
				fixedIdent[name] = prevAllFixed && isFixed
			}
			bound[name] = append(bound[name], d)
		}
		for name, ds := range bound {
			if len(ds) < 2 || fixedIdent[name] {
				continue
			}
			sigs := make([]string, len(ds))
			for i, d := range ds {
				sigs[i] = d.Signature
			}
			sort.Strings(sigs)
			r.bag.Add(diag.NewError(diag.NameDuplicate, ds[0].Span,
				fmt.Sprintf("type %s emits members %v under one identifier %q", t.FQN, sigs, name)))
		}
	}
}

// assignOne resolves the identifier for one member, applying the precedence
// rules: own fixed name, propagated fixed names (with the two-ancestor
// conflict check), generated interface identifiers, plain host name.
func (r *resolver) assignOne(t *decl.Type, d *decl.Decl) (string, bool) {
	// Untracked members are independently named: own fixed name or the host
	// name, no propagation in either direction, no conflict detection.
	if r.memberUntracked(t, d) {
		if d.HasFixedName {
			return r.fixedValue(d), true
		}
		return sanitizeIdent(d.Name), true
	}

	if d.HasFixedName {
		return r.fixedValue(d), true
	}

	inherited := r.inheritedNames(t.ID, d.Signature)
	fixed := distinctFixed(inherited)
	if len(fixed) >= 2 && r.isConcrete(t) {
		r.reportFixedConflict(t, d, fixed)
		return "", false
	}
	if len(fixed) >= 1 {
		// A single fixed contract (or an abstract type carrying several
		// downward; the concrete descendant will check again).
		return fixed[0].value, true
	}

	if t.Kind == decl.KindInterface {
		return r.interfaceIdent(t, d), true
	}

	// No fixed contract: adopt a propagated generated identifier when the
	// member implements interface slots, the lexicographically smallest one
	// for determinism.
	if len(inherited) > 0 {
		values := make([]string, len(inherited))
		for i, pn := range inherited {
			values[i] = pn.value
		}
		sort.Strings(values)
		return values[0], true
	}

	return sanitizeIdent(d.Name), true
}

// interfaceIdent generates the identifier for a tracked interface member
// with no fixed name: EmptyNameMode keeps the host name, ShortName replaces
// the long prefix, otherwise the sanitized FQN is the prefix.
func (r *resolver) interfaceIdent(t *decl.Type, d *decl.Decl) string {
	if t.EmptyNameMode {
		return sanitizeIdent(d.Name)
	}
	prefix := fqnPrefix(t.FQN)
	if t.ShortNameSet {
		prefix = t.ShortName
	}
	return longIdent(prefix, d.Name)
}

// inheritedNames collects the name assignments propagating into (type,
// signature) from its ancestors, deduplicated, in ancestor FQN order.
func (r *resolver) inheritedNames(id decl.TypeID, sig string) []propName {
	var out []propName
	seen := make(map[string]bool)
	for _, anc := range r.ancestors(id) {
		if r.cyclic[anc] {
			continue
		}
		for _, pn := range r.propagated(anc, sig) {
			key := pn.value + "\x00" + fmt.Sprint(pn.fixed)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, pn)
		}
	}
	return out
}

// propagated computes what a type sends down an override chain for one
// signature. Fixed names on abstract or interface members propagate; tracked
// interface members without fixed names propagate their generated
// identifier; everything else forwards whatever arrives from above.
func (r *resolver) propagated(id decl.TypeID, sig string) []propName {
	key := Key{Type: id, Signature: sig}
	if memo, ok := r.memo[key]; ok {
		return memo
	}
	// Seed the memo against accidental recursion; cycles were already cut.
	r.memo[key] = nil

	t := r.prog.Type(id)
	var result []propName
	if t == nil || t.IsUntracked() {
		r.memo[key] = nil
		return nil
	}

	var own *decl.Decl
	for _, d := range r.prog.DeclsOf(id) {
		if d.Signature == sig {
			own = d
			break
		}
	}

	switch {
	case own != nil && own.HasFixedName && r.propagatesFixed(t, own):
		result = []propName{{value: r.fixedValue(own), fixed: true, origin: id}}
	case own != nil && t.Kind == decl.KindInterface && !r.memberUntracked(t, own):
		result = []propName{{value: r.interfaceIdent(t, own), fixed: false, origin: id}}
	default:
		result = r.inheritedNames(id, sig)
	}

	r.memo[key] = result
	return result
}

// propagatesFixed reports whether a fixed name on this member flows to
// overriding/implementing members: interface members and abstract members
// do, concrete class members keep theirs to themselves.
func (r *resolver) propagatesFixed(t *decl.Type, d *decl.Decl) bool {
	if t.Kind == decl.KindInterface {
		return true
	}
	return d.IsAbstract
}

// fixedValue resolves the reserved empty fixed name to the host name.
func (r *resolver) fixedValue(d *decl.Decl) string {
	if d.FixedName == "" {
		return sanitizeIdent(d.Name)
	}
	return sanitizeIdent(d.FixedName)
}

func (r *resolver) isConcrete(t *decl.Type) bool {
	return t.Kind == decl.KindClass && !t.Abstract
}

// hasFixedContract reports whether the member's final identifier arrived
// through a fixed-name contract, which legitimizes sharing it within the
// type's emission namespace.
func (r *resolver) hasFixedContract(t *decl.Type, d *decl.Decl) bool {
	if d.HasFixedName {
		return true
	}
	for _, pn := range r.inheritedNames(t.ID, d.Signature) {
		if pn.fixed {
			return true
		}
	}
	return false
}

func (r *resolver) memberUntracked(t *decl.Type, d *decl.Decl) bool {
	switch d.Tracking {
	case decl.Untracked:
		return true
	case decl.Tracked:
		return false
	}
	return t.IsUntracked()
}

func (r *resolver) reportFixedConflict(t *decl.Type, d *decl.Decl, fixed []propName) {
	origins := make([]string, len(fixed))
	for i, pn := range fixed {
		origins[i] = fmt.Sprintf("%s (fixed %q)", r.prog.Type(pn.origin).FQN, pn.value)
	}
	sort.Strings(origins)
	r.bag.Add(diag.NewError(diag.NameConflict, d.Span,
		fmt.Sprintf("member %s of %s inherits conflicting fixed names from %v",
			d.Signature, t.FQN, origins)))
}

// distinctFixed filters propagated assignments down to distinct fixed
// values, preserving ancestor order.
func distinctFixed(in []propName) []propName {
	var out []propName
	seen := make(map[string]bool)
	for _, pn := range in {
		if !pn.fixed || seen[pn.value] {
			continue
		}
		seen[pn.value] = true
		out = append(out, pn)
	}
	return out
}
