package editscript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
)

// Kind identifies the operation an Edit performs.
type Kind uint8

const (
	Detach Kind = iota
	Unload
	DetachUnload
	Load
	Attach
	LoadAttach
	Update
)

var kindNames = [...]string{
	Detach:       "DETACH",
	Unload:       "UNLOAD",
	DetachUnload: "DETACH_UNLOAD",
	Load:         "LOAD",
	Attach:       "ATTACH",
	LoadAttach:   "LOAD_ATTACH",
	Update:       "UPDATE",
}

// Kinds lists every edit kind in declaration order.
var Kinds = []Kind{Detach, Unload, DetachUnload, Load, Attach, LoadAttach, Update}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "EDIT(" + strconv.Itoa(int(k)) + ")"
}

// IsNegative reports whether k removes structure from the source tree.
func (k Kind) IsNegative() bool {
	return k == Detach || k == Unload || k == DetachUnload
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, apperrors.UndefinedSymbol(k.String())
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return apperrors.UndefinedSymbol(name)
}

// Link addresses a child slot of a parent node. Field is empty for
// children that are not bound to a grammar field.
type Link struct {
	Index int    `json:"index"`
	Field string `json:"field,omitempty"`
}

func (l Link) String() string {
	if l.Field != "" {
		return l.Field
	}
	return "_" + strconv.Itoa(l.Index)
}

// Child names the node that hangs on a link of a loaded or unloaded node.
type Child struct {
	Link Link      `json:"link"`
	ID   uuid.UUID `json:"id"`
}

// Edit is one step of an edit script. Which fields are meaningful depends
// on Kind: attach and detach edits carry Parent, ParentTag and Link; load
// and unload edits carry Kids and, for leaves, Literal; updates carry the
// old and new literal with their spans.
type Edit struct {
	Kind      Kind      `json:"kind"`
	ID        uuid.UUID `json:"id"`
	Tag       tree.Kind `json:"tag"`
	Parent    uuid.UUID `json:"parent"`
	ParentTag tree.Kind `json:"parent_tag"`
	Link      Link      `json:"link"`
	Kids      []Child   `json:"kids,omitempty"`
	IsLiteral bool      `json:"is_literal,omitempty"`
	Literal   string    `json:"literal,omitempty"`
	Span      tree.Span `json:"span"`

	OldLiteral string     `json:"old_literal,omitempty"`
	NewLiteral string     `json:"new_literal,omitempty"`
	OldSpan    tree.Span  `json:"old_span"`
	NewSpan    tree.Span  `json:"new_span"`
	NewTag     *tree.Kind `json:"new_tag,omitempty"`
}

// IsLeaf reports whether a load or unload edit has no kids.
func (e Edit) IsLeaf() bool { return len(e.Kids) == 0 }

func (e Edit) parentIsRoot() bool {
	return e.Parent == uuid.Nil && e.ParentTag.IsRoot()
}

// String renders the edit on one line, e.g.
// [ATTACH | 6ba7b810-...] To parent ROOT on link 0.
func (e Edit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s | %s] ", e.Kind, e.ID)
	switch e.Kind {
	case Update:
		fmt.Fprintf(&b, "Old literal from %d (%d) => New literal from %d (%d)",
			e.OldSpan.StartByte, e.OldSpan.Len(), e.NewSpan.StartByte, e.NewSpan.Len())
		if e.NewTag != nil {
			fmt.Fprintf(&b, " retagged %q => %q", e.Tag.Name, e.NewTag.Name)
		}
	case Load:
		e.writeLoad(&b)
	case Attach:
		b.WriteString("To ")
		e.writeParent(&b)
	case LoadAttach:
		e.writeLoad(&b)
		b.WriteString(" and attach to ")
		e.writeParent(&b)
	case Detach:
		fmt.Fprintf(&b, "Node of type %q from ", e.Tag.Name)
		e.writeParent(&b)
	case Unload:
		fmt.Fprintf(&b, "Node of type %q", e.Tag.Name)
		e.writeFreedKids(&b)
	case DetachUnload:
		fmt.Fprintf(&b, "Node of type %q from ", e.Tag.Name)
		e.writeParent(&b)
		e.writeFreedKids(&b)
	}
	return b.String()
}

func (e Edit) writeLoad(b *strings.Builder) {
	if e.IsLeaf() {
		fmt.Fprintf(b, "Load new leaf of type %q", e.Tag.Name)
		return
	}
	fmt.Fprintf(b, "Load new subtree of type %q with kids ", e.Tag.Name)
	writeKids(b, e.Kids)
}

func (e Edit) writeParent(b *strings.Builder) {
	if e.parentIsRoot() {
		fmt.Fprintf(b, "parent ROOT on link %d", e.Link.Index)
		return
	}
	fmt.Fprintf(b, "parent %s of type %q ", e.Parent, e.ParentTag.Name)
	if e.Link.Field != "" {
		fmt.Fprintf(b, "on field %s", e.Link.Field)
	} else {
		fmt.Fprintf(b, "on link %d", e.Link.Index)
	}
}

func (e Edit) writeFreedKids(b *strings.Builder) {
	if len(e.Kids) == 0 {
		return
	}
	b.WriteString(" and set its kids free ")
	writeKids(b, e.Kids)
}

func writeKids(b *strings.Builder, kids []Child) {
	b.WriteByte('[')
	for i, k := range kids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.Link.String())
		b.WriteByte(':')
		b.WriteString(k.ID.String())
	}
	b.WriteByte(']')
}

// Core expands a fused edit into its two primitive edits. Primitive edits
// are returned unchanged.
func (e Edit) Core() []Edit {
	switch e.Kind {
	case LoadAttach:
		load := Edit{Kind: Load, ID: e.ID, Tag: e.Tag, Kids: e.Kids, IsLiteral: e.IsLiteral, Literal: e.Literal, Span: e.Span}
		attach := Edit{Kind: Attach, ID: e.ID, Tag: e.Tag, Parent: e.Parent, ParentTag: e.ParentTag, Link: e.Link}
		return []Edit{load, attach}
	case DetachUnload:
		detach := Edit{Kind: Detach, ID: e.ID, Tag: e.Tag, Parent: e.Parent, ParentTag: e.ParentTag, Link: e.Link}
		unload := Edit{Kind: Unload, ID: e.ID, Tag: e.Tag, Kids: e.Kids}
		return []Edit{detach, unload}
	default:
		return []Edit{e}
	}
}
