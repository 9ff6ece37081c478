package truediff

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/agbru/sitterdiff/internal/tree"
)

// Digest is a SHA-256 sum over a subtree.
type Digest [sha256.Size]byte

// Hashed annotates one node with the digests and measures the diff needs.
// Structural covers kinds, child fields and shape; Literal covers the text
// of literal nodes. Two subtrees with equal Structural digests can replace
// one another; equal Literal digests on top of that mean no updates are
// needed.
type Hashed struct {
	Node       *tree.Node
	Structural Digest
	Literal    Digest
	Height     int
	Size       int
	Children   []*Hashed
}

// Prepared is a tree annotated for diffing. It is never modified once
// built, so one Prepared tree can take part in any number of comparisons,
// concurrently.
type Prepared struct {
	Root     *Hashed
	Literals *tree.LiteralMap
}

// Size returns the number of nodes in the prepared tree.
func (p *Prepared) Size() int {
	if p == nil || p.Root == nil {
		return 0
	}
	return p.Root.Size
}

// Prepare hashes every node of root bottom-up.
func Prepare(root *tree.Node, literals *tree.LiteralMap) *Prepared {
	if root == nil {
		return &Prepared{Literals: literals}
	}
	return &Prepared{Root: hashNode(root, literals), Literals: literals}
}

func hashNode(n *tree.Node, literals *tree.LiteralMap) *Hashed {
	h := &Hashed{Node: n}
	structural := sha256.New()
	literal := sha256.New()

	key := structuralKey(n.Kind, literals)
	writeString(structural, key.Name)
	writeSymbol(structural, key.Symbol)
	if n.IsLiteral {
		literal.Write([]byte(n.Literal))
	}

	height, size := 0, 0
	if len(n.Children) > 0 {
		h.Children = make([]*Hashed, len(n.Children))
	}
	for i, c := range n.Children {
		ch := hashNode(c, literals)
		h.Children[i] = ch
		if ch.Height > height {
			height = ch.Height
		}
		size += ch.Size
		writeString(structural, c.Field)
		structural.Write(ch.Structural[:])
		literal.Write(ch.Literal[:])
	}
	h.Height = height + 1
	h.Size = size + 1
	structural.Sum(h.Structural[:0])
	literal.Sum(h.Literal[:0])
	return h
}

func writeString(h hash.Hash, s string) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

func writeSymbol(h hash.Hash, sym tree.Symbol) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(sym))
	h.Write(b[:])
}

// structuralKey is the kind as far as structure is concerned: both members
// of the boolean pair map to one key.
func structuralKey(k tree.Kind, literals *tree.LiteralMap) tree.Kind {
	if literals.IsBool(k.Symbol) {
		return tree.Kind{Name: tree.BooleanKind}
	}
	return k
}
