package tree

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Symbol is a grammar symbol id as assigned by the parser generator.
type Symbol uint16

// Kind names a node type: the grammar symbol and its display name.
type Kind struct {
	Symbol Symbol `json:"symbol"`
	Name   string `json:"name"`
}

// RootKind tags the virtual parent of a tree's root node.
var RootKind = Kind{Symbol: math.MaxUint16, Name: "ROOT"}

// IsRoot reports whether k is RootKind.
func (k Kind) IsRoot() bool { return k.Symbol == RootKind.Symbol && k.Name == RootKind.Name }

// Point is a zero-based row/column position in the source.
type Point struct {
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

// Span is the source range a node covers.
type Span struct {
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Start     Point  `json:"start"`
	End       Point  `json:"end"`
}

// Len returns the number of bytes in the span.
func (s Span) Len() uint32 {
	if s.EndByte < s.StartByte {
		return 0
	}
	return s.EndByte - s.StartByte
}

// Node is one vertex of a syntax tree. The ID is the node's identity across
// edit scripts: nodes of the old tree that survive a diff keep their IDs.
type Node struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Field     string    `json:"field,omitempty"`
	Literal   string    `json:"literal,omitempty"`
	IsLiteral bool      `json:"is_literal,omitempty"`
	Span      Span      `json:"span"`
	Children  []*Node   `json:"children,omitempty"`
}

// NewID returns a fresh node identity.
var NewID = uuid.New

// New builds an inner node with a fresh ID.
func New(kind Kind, children ...*Node) *Node {
	return &Node{ID: NewID(), Kind: kind, Children: children}
}

// Leaf builds a literal leaf with a fresh ID.
func Leaf(kind Kind, literal string) *Node {
	return &Node{ID: NewID(), Kind: kind, Literal: literal, IsLiteral: true}
}

// WithField sets the field name under which n hangs in its parent and
// returns n.
func (n *Node) WithField(field string) *Node {
	n.Field = field
	return n
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Size returns the number of nodes in the tree rooted at n.
func Size(n *Node) int {
	count := 0
	Walk(n, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Height returns 1 for a leaf and 1 + the tallest child otherwise.
func Height(n *Node) int {
	if n == nil {
		return 0
	}
	h := 0
	for _, c := range n.Children {
		if ch := Height(c); ch > h {
			h = ch
		}
	}
	return h + 1
}

// Find returns the node with the given ID, or nil.
func Find(n *Node, id uuid.UUID) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Index maps every node ID in the tree to its node.
func Index(n *Node) map[uuid.UUID]*Node {
	idx := make(map[uuid.UUID]*Node)
	Walk(n, func(c *Node) bool {
		idx[c.ID] = c
		return true
	})
	return idx
}

// Clone deep-copies the tree, IDs included.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = Clone(c)
		}
	}
	return &cp
}

// Equal compares kinds, fields, literals and shape. IDs and spans are
// ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Field != b.Field || a.IsLiteral != b.IsLiteral || a.Literal != b.Literal {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the tree as an s-expression, e.g.
// (object (pair key: (string "a") value: (number "1"))).
func (n *Node) String() string {
	var b strings.Builder
	writeSexp(&b, n)
	return b.String()
}

func writeSexp(b *strings.Builder, n *Node) {
	if n == nil {
		b.WriteString("()")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.Name)
	if n.IsLiteral {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Literal))
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		if c != nil && c.Field != "" {
			b.WriteString(c.Field)
			b.WriteString(": ")
		}
		writeSexp(b, c)
	}
	b.WriteByte(')')
}
