package decl

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/etree"
	"lumen/internal/source"
)

// sampleProgram covers every expression kind and attribute the snapshot
// carries: templates, constants, fixed names, generator and macro refs,
// bodies with receiver calls, lambdas and all literal payloads.
func sampleProgram() *Program {
	sp := source.Span{File: 1, Start: 10, End: 20}

	seq := &Type{
		Name: "ISeq", FQN: "Acme.ISeq", Kind: KindInterface,
		ShortName: "Seq", ShortNameSet: true,
		Span: sp,
	}
	list := &Type{
		Name: "List", FQN: "Acme.List", Kind: KindClass,
		Implements: []TypeID{1},
		Tracking:   Tracked,
		Span:       sp,
	}
	util := &Type{
		Name: "Util", FQN: "Acme.Util", Kind: KindModule,
		EmptyNameMode: true,
	}

	head := &Decl{
		Name: "head", Owner: 1, Signature: "head/0", Kind: KindMethod,
		IsAbstract: true,
		FixedName:  "hd", HasFixedName: true,
		Span: sp,
	}
	templated := &Decl{
		Name: "add", Owner: 3, Signature: "add/2", Kind: KindFunc,
		Template:   &TemplateAttr{Kind: Inline, Literal: "$x + $y", Mode: InlineReplace},
		ParamNames: []string{"x", "y"},
	}
	constant := &Decl{
		Name: "limit", Owner: 3, Signature: "limit/0", Kind: KindProperty,
		IsStatic: true,
		Constant: &etree.LitData{Kind: etree.LitInt, Int: 512},
	}
	generated := &Decl{
		Name: "parse", Owner: 3, Signature: "parse/1", Kind: KindFunc,
		GeneratorRef: "acme.gen.parse",
		ParamNames:   []string{"raw"},
	}
	macroed := &Decl{
		Name: "fold", Owner: 3, Signature: "fold/2", Kind: KindFunc,
		MacroRef:   "acme.macro.fold",
		ParamNames: []string{"a", "b"},
		Tracking:   Untracked,
	}
	bodied := &Decl{
		Name: "describe", Owner: 2, Signature: "describe/1", Kind: KindMethod,
		ParamNames: []string{"verbose"},
		Body: &etree.Func{
			Name:   "describe",
			Params: []etree.Param{{Name: "verbose"}},
			Body: etree.NewCond(
				etree.NewParam(0, "verbose", sp),
				etree.NewBinary(etree.BinAdd,
					etree.NewString("list of ", sp),
					etree.NewCall(1, etree.NewThis(sp), nil, sp),
					sp),
				etree.NewLambda(&etree.Func{
					Name: "fallback",
					Body: etree.NewUnary(etree.UnaryNeg,
						etree.NewPropGet(3, nil, sp), sp),
				}, sp),
				sp),
			Span: sp,
		},
		Span: sp,
	}
	literals := &Decl{
		Name: "mix", Owner: 3, Signature: "mix/0", Kind: KindFunc,
		Body: &etree.Func{
			Name: "mix",
			Body: etree.NewCall(4, nil, []*etree.Expr{
				etree.NewInt(-7, sp),
				etree.NewFloat(2.5, sp),
				etree.NewBool(true, sp),
				etree.NewString("s", sp),
				etree.NewNull(sp),
				etree.NewLocal("tmp", sp),
			}, sp),
		},
	}

	return NewProgram(
		[]string{"src/seq.lm", "src/util.lm"},
		[]*Type{seq, list, util},
		[]*Decl{head, templated, constant, generated, macroed, bodied, literals},
	)
}

func TestSnapshotRoundTrip(t *testing.T) {
	prog := sampleProgram()

	raw, err := MarshalSnapshot(prog)
	if err != nil {
		t.Fatalf("MarshalSnapshot failed: %v", err)
	}
	back, err := UnmarshalSnapshot(raw)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot failed: %v", err)
	}

	// Re-serializing the decoded program must reproduce the bytes exactly:
	// every field the snapshot carries survived.
	again, err := MarshalSnapshot(back)
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}
	if !bytes.Equal(raw, again) {
		t.Fatal("round-tripped snapshot bytes differ")
	}

	if len(back.Types) != 3 || len(back.Decls) != 7 {
		t.Fatalf("got %d types, %d decls; want 3, 7", len(back.Types), len(back.Decls))
	}
	if back.Decls[0].ID != 1 || back.Types[0].ID != 1 {
		t.Error("decoded IDs must be dense and 1-based")
	}

	add := back.Decls[1]
	if add.Template == nil || add.Template.Kind != Inline || add.Template.Literal != "$x + $y" {
		t.Errorf("template attribute lost: %+v", add.Template)
	}
	limit := back.Decls[2]
	if limit.Constant == nil || limit.Constant.Int != 512 {
		t.Errorf("constant attribute lost: %+v", limit.Constant)
	}

	body := back.Decls[5].Body
	if body == nil {
		t.Fatal("body lost")
	}
	cond := body.Body
	if cond.Kind != etree.ExprCond {
		t.Fatalf("body root kind = %d, want conditional", cond.Kind)
	}
	call := cond.Data.(etree.CondData).Then.Data.(etree.BinaryData).Right
	if call.Kind != etree.ExprCall {
		t.Fatalf("expected call, got kind %d", call.Kind)
	}
	cd := call.Data.(etree.CallData)
	if cd.Receiver == nil || cd.Receiver.Kind != etree.ExprThis {
		t.Error("call receiver lost in round trip")
	}
	if cd.Target != 1 || len(cd.Args) != 0 {
		t.Errorf("call target/args = %d/%d, want 1/0", cd.Target, len(cd.Args))
	}

	mix := back.Decls[6].Body.Body.Data.(etree.CallData)
	if mix.Receiver != nil {
		t.Error("receiverless call grew a receiver")
	}
	if len(mix.Args) != 6 {
		t.Fatalf("got %d args, want 6", len(mix.Args))
	}
}

func TestSnapshotSchemaMismatch(t *testing.T) {
	raw, err := msgpack.Marshal(&snapshotPayload{Schema: snapshotSchemaVersion + 1})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if _, err := UnmarshalSnapshot(raw); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}

func TestSnapshotRejectsDanglingOwner(t *testing.T) {
	raw, err := msgpack.Marshal(&snapshotPayload{
		Schema: snapshotSchemaVersion,
		Decls:  []sDecl{{Name: "orphan", Owner: 42}},
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if _, err := UnmarshalSnapshot(raw); err == nil {
		t.Fatal("expected validation error for unknown owner")
	}
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte("not msgpack")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSaveLoadSnapshot(t *testing.T) {
	prog := sampleProgram()
	path := filepath.Join(t.TempDir(), "prog.lms")

	if err := SaveSnapshot(path, prog); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	back, digest, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(back.Decls) != len(prog.Decls) {
		t.Errorf("got %d decls, want %d", len(back.Decls), len(prog.Decls))
	}

	raw, err := MarshalSnapshot(prog)
	if err != nil {
		t.Fatalf("MarshalSnapshot failed: %v", err)
	}
	if digest != DigestBytes(raw) {
		t.Error("load digest differs from content digest")
	}
	if digest == (Digest{}) {
		t.Error("digest must not be zero for real content")
	}
}

func TestDeclArgCount(t *testing.T) {
	m := &Decl{Kind: KindMethod, ParamNames: []string{"a", "b"}}
	if got := m.ArgCount(); got != 3 {
		t.Errorf("instance method ArgCount = %d, want 3", got)
	}
	m.IsStatic = true
	if got := m.ArgCount(); got != 2 {
		t.Errorf("static method ArgCount = %d, want 2", got)
	}
	f := &Decl{Kind: KindFunc, ParamNames: []string{"a"}}
	if f.HasReceiver() {
		t.Error("free function must not take a receiver")
	}
}
