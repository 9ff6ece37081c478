package editscript

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
)

var (
	arrayKind  = tree.Kind{Symbol: 1, Name: "array"}
	numberKind = tree.Kind{Symbol: 2, Name: "number"}
	trueKind   = tree.Kind{Symbol: 3, Name: "true"}
	falseKind  = tree.Kind{Symbol: 4, Name: "false"}
)

func TestKindString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind Kind
		want string
	}{
		{Detach, "DETACH"},
		{Unload, "UNLOAD"},
		{DetachUnload, "DETACH_UNLOAD"},
		{Load, "LOAD"},
		{Attach, "ATTACH"},
		{LoadAttach, "LOAD_ATTACH"},
		{Update, "UPDATE"},
		{Kind(42), "EDIT(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindUnmarshalText_Unknown(t *testing.T) {
	t.Parallel()
	var k Kind
	err := k.UnmarshalText([]byte("MOVE"))
	if err == nil || err.Error() != "Undefined symbol `MOVE`" {
		t.Fatalf("UnmarshalText(MOVE) error = %v", err)
	}
}

func TestBuffer_NegativesFirst(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	buf := NewBuffer(false)
	buf.Add(Edit{Kind: Load, ID: a, Tag: numberKind})
	buf.Add(Edit{Kind: Detach, ID: b, Tag: numberKind})
	buf.Add(Edit{Kind: Attach, ID: a, Tag: numberKind})
	buf.Add(Edit{Kind: Unload, ID: b, Tag: numberKind})
	buf.Add(Edit{Kind: Update, ID: a, Tag: numberKind})

	if buf.Len() != 5 {
		t.Fatalf("Len = %d, want 5", buf.Len())
	}
	got := buf.Finalize().Edits()
	want := []Kind{Detach, Unload, Load, Attach, Update}
	if len(got) != len(want) {
		t.Fatalf("got %d edits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Kind != want[i] {
			t.Errorf("edit %d is %s, want %s", i, got[i].Kind, want[i])
		}
	}
	if buf.Len() != 0 {
		t.Error("Finalize should empty the buffer")
	}
}

func TestBuffer_Fusion(t *testing.T) {
	t.Parallel()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	buf := NewBuffer(true)
	buf.Add(Edit{Kind: Detach, ID: a, Tag: numberKind, Link: Link{Index: 2}})
	buf.Add(Edit{Kind: Unload, ID: a, Tag: numberKind})
	buf.Add(Edit{Kind: Load, ID: b, Tag: numberKind, IsLiteral: true, Literal: "7"})
	buf.Add(Edit{Kind: Attach, ID: b, Tag: numberKind, Link: Link{Index: 2}})
	buf.Add(Edit{Kind: Load, ID: c, Tag: numberKind})
	buf.Add(Edit{Kind: Attach, ID: a, Tag: numberKind})

	got := buf.Finalize().Edits()
	want := []Kind{DetachUnload, LoadAttach, Load, Attach}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i].Kind != want[i] {
			t.Errorf("edit %d is %s, want %s", i, got[i].Kind, want[i])
		}
	}
	if got[0].Link.Index != 2 || got[1].Link.Index != 2 || got[1].Literal != "7" {
		t.Errorf("fused edits lost data: %+v %+v", got[0], got[1])
	}
}

func TestEditString(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	parent := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	kid := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	tests := []struct {
		name string
		edit Edit
		want string
	}{
		{
			name: "attach root",
			edit: Edit{Kind: Attach, ID: id, Tag: arrayKind, ParentTag: tree.RootKind},
			want: "[ATTACH | " + id.String() + "] To parent ROOT on link 0",
		},
		{
			name: "detach field",
			edit: Edit{Kind: Detach, ID: id, Tag: numberKind, Parent: parent, ParentTag: arrayKind, Link: Link{Index: 1, Field: "value"}},
			want: "[DETACH | " + id.String() + `] Node of type "number" from parent ` + parent.String() + ` of type "array" on field value`,
		},
		{
			name: "load leaf",
			edit: Edit{Kind: Load, ID: id, Tag: numberKind, IsLiteral: true, Literal: "1"},
			want: "[LOAD | " + id.String() + `] Load new leaf of type "number"`,
		},
		{
			name: "load subtree",
			edit: Edit{Kind: Load, ID: id, Tag: arrayKind, Kids: []Child{{Link: Link{Index: 0}, ID: kid}}},
			want: "[LOAD | " + id.String() + `] Load new subtree of type "array" with kids [_0:` + kid.String() + "]",
		},
		{
			name: "unload with kids",
			edit: Edit{Kind: Unload, ID: id, Tag: arrayKind, Kids: []Child{{Link: Link{Index: 0, Field: "key"}, ID: kid}}},
			want: "[UNLOAD | " + id.String() + `] Node of type "array" and set its kids free [key:` + kid.String() + "]",
		},
		{
			name: "update",
			edit: Edit{Kind: Update, ID: id, Tag: numberKind, OldSpan: tree.Span{StartByte: 4, EndByte: 5}, NewSpan: tree.Span{StartByte: 4, EndByte: 7}},
			want: "[UPDATE | " + id.String() + "] Old literal from 4 (1) => New literal from 4 (3)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.edit.String(); got != tt.want {
				t.Errorf("String() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestScript_CoreAndCounts(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	s := NewScript(
		Edit{Kind: DetachUnload, ID: a, Tag: numberKind, ParentTag: tree.RootKind},
		Edit{Kind: LoadAttach, ID: b, Tag: numberKind, ParentTag: tree.RootKind, IsLiteral: true, Literal: "2"},
	)
	core := s.Core()
	if core.Len() != 4 {
		t.Fatalf("Core().Len() = %d, want 4", core.Len())
	}
	counts := core.Counts()
	for _, k := range []Kind{Detach, Unload, Load, Attach} {
		if counts[k] != 1 {
			t.Errorf("Counts()[%s] = %d, want 1", k, counts[k])
		}
	}
	if s.Counts()[LoadAttach] != 1 {
		t.Error("the original script should be unchanged")
	}
	if lines := strings.Count(s.String(), "\n"); lines != 2 {
		t.Errorf("String() has %d lines, want 2", lines)
	}
}

func TestScript_EncodeDecode(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	flipped := falseKind
	s := NewScript(
		Edit{Kind: Update, ID: id, Tag: trueKind, OldLiteral: "true", NewLiteral: "false", NewTag: &flipped},
		Edit{Kind: LoadAttach, ID: uuid.New(), Tag: numberKind, ParentTag: tree.RootKind, IsLiteral: true, Literal: "3"},
	)
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"kind": "UPDATE"`) {
		t.Errorf("encoded script should name kinds, got: %s", buf.String())
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.String() != s.String() {
		t.Errorf("decoded script differs:\n%s\nwant\n%s", got, s)
	}
	if e := got.Edits()[0]; e.NewTag == nil || *e.NewTag != falseKind {
		t.Errorf("NewTag = %v, want %v", e.NewTag, falseKind)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()
	_, err := Decode(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("expected an error for malformed input")
	}
	if kind, ok := apperrors.KindOf(err); !ok || kind != apperrors.KindData {
		t.Errorf("KindOf = %v, %v; want data", kind, ok)
	}

	_, err = Decode(failingReader{})
	if err == nil || err.Error() != "disk gone" {
		t.Fatalf("Decode(failing reader) error = %v", err)
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindIO {
		t.Errorf("KindOf = %v, want io", kind)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

// TestCore_PropertyBased checks that expanding fused edits adds exactly one
// edit per fused edit and never leaves a fused kind behind.
func TestCore_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Core expands fused edits", prop.ForAll(
		func(kinds []uint8) bool {
			edits := make([]Edit, len(kinds))
			fused := 0
			for i, k := range kinds {
				edits[i] = Edit{Kind: Kinds[int(k)%len(Kinds)], ID: uuid.New()}
				if edits[i].Kind == LoadAttach || edits[i].Kind == DetachUnload {
					fused++
				}
			}
			core := NewScript(edits...).Core()
			counts := core.Counts()
			return core.Len() == len(edits)+fused && counts[LoadAttach] == 0 && counts[DetachUnload] == 0
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
