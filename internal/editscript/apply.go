package editscript

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
)

// slot records where a node currently hangs. A free node has no parent.
type slot struct {
	parent *tree.Node
	index  int
	free   bool
}

type patcher struct {
	root  *tree.Node // virtual parent, one child at link 0
	nodes map[uuid.UUID]*tree.Node
	slots map[uuid.UUID]slot
}

// Apply replays script on a copy of root and returns the patched tree.
// root itself is left untouched. Edits that name unknown nodes fail with
// an undefined-symbol error; edits that violate the shape of the tree
// (detaching from the wrong slot, attaching to an occupied one, leaving a
// link empty) fail with a grammar error.
func Apply(root *tree.Node, script *Script) (*tree.Node, error) {
	p := &patcher{
		root:  &tree.Node{Kind: tree.RootKind, Children: []*tree.Node{tree.Clone(root)}},
		nodes: make(map[uuid.UUID]*tree.Node),
		slots: make(map[uuid.UUID]slot),
	}
	p.index(p.root.Children[0], p.root, 0)

	for _, e := range script.Core().edits {
		if err := p.apply(e); err != nil {
			return nil, err
		}
	}

	out := p.root.Children[0]
	if out == nil {
		return nil, apperrors.Grammar("script leaves the root link empty")
	}
	var hole *tree.Node
	tree.Walk(out, func(n *tree.Node) bool {
		for _, c := range n.Children {
			if c == nil && hole == nil {
				hole = n
			}
		}
		return hole == nil
	})
	if hole != nil {
		return nil, apperrors.Grammarf("script leaves an empty link under %s", hole.ID)
	}
	return out, nil
}

func (p *patcher) index(n, parent *tree.Node, i int) {
	if n == nil {
		return
	}
	p.nodes[n.ID] = n
	p.slots[n.ID] = slot{parent: parent, index: i}
	for ci, c := range n.Children {
		p.index(c, n, ci)
	}
}

func (p *patcher) lookup(id uuid.UUID) (*tree.Node, error) {
	n, ok := p.nodes[id]
	if !ok {
		return nil, apperrors.UndefinedSymbol(id.String())
	}
	return n, nil
}

func (p *patcher) parent(e Edit) (*tree.Node, error) {
	if e.Parent == uuid.Nil && e.ParentTag.IsRoot() {
		return p.root, nil
	}
	return p.lookup(e.Parent)
}

func (p *patcher) apply(e Edit) error {
	switch e.Kind {
	case Detach:
		return p.detach(e)
	case Unload:
		return p.unload(e)
	case Load:
		return p.load(e)
	case Attach:
		return p.attach(e)
	case Update:
		return p.update(e)
	default:
		return apperrors.UndefinedSymbol(e.Kind.String())
	}
}

func (p *patcher) detach(e Edit) error {
	n, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	parent, err := p.parent(e)
	if err != nil {
		return err
	}
	s := p.slots[e.ID]
	if s.free || s.parent != parent || s.index != e.Link.Index {
		return apperrors.Grammarf("node %s is not attached to %s on link %d", e.ID, parentName(parent), e.Link.Index)
	}
	parent.Children[e.Link.Index] = nil
	p.slots[n.ID] = slot{free: true}
	return nil
}

func (p *patcher) unload(e Edit) error {
	n, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	if !p.slots[e.ID].free {
		return apperrors.Grammarf("cannot unload attached node %s", e.ID)
	}
	for _, k := range e.Kids {
		if k.Link.Index < 0 || k.Link.Index >= len(n.Children) {
			return apperrors.Grammarf("node %s has no link %d", e.ID, k.Link.Index)
		}
		kid := n.Children[k.Link.Index]
		if kid == nil || kid.ID != k.ID {
			return apperrors.Grammarf("node %s does not hold %s on link %d", e.ID, k.ID, k.Link.Index)
		}
		p.slots[k.ID] = slot{free: true}
	}
	delete(p.nodes, e.ID)
	delete(p.slots, e.ID)
	return nil
}

func (p *patcher) load(e Edit) error {
	if _, exists := p.nodes[e.ID]; exists {
		return apperrors.Grammarf("node %s is already loaded", e.ID)
	}
	n := &tree.Node{
		ID:        e.ID,
		Kind:      e.Tag,
		Literal:   e.Literal,
		IsLiteral: e.IsLiteral,
		Span:      e.Span,
	}
	if len(e.Kids) > 0 {
		n.Children = make([]*tree.Node, len(e.Kids))
	}
	for _, k := range e.Kids {
		kid, err := p.lookup(k.ID)
		if err != nil {
			return err
		}
		if !p.slots[k.ID].free {
			return apperrors.Grammarf("kid %s of %s is still attached", k.ID, e.ID)
		}
		if k.Link.Index < 0 || k.Link.Index >= len(n.Children) || n.Children[k.Link.Index] != nil {
			return apperrors.Grammarf("invalid link %d for kid %s of %s", k.Link.Index, k.ID, e.ID)
		}
		kid.Field = k.Link.Field
		n.Children[k.Link.Index] = kid
		p.slots[k.ID] = slot{parent: n, index: k.Link.Index}
	}
	p.nodes[n.ID] = n
	p.slots[n.ID] = slot{free: true}
	return nil
}

func (p *patcher) attach(e Edit) error {
	n, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	parent, err := p.parent(e)
	if err != nil {
		return err
	}
	if !p.slots[e.ID].free {
		return apperrors.Grammarf("node %s is already attached", e.ID)
	}
	i := e.Link.Index
	if i < 0 || i >= len(parent.Children) {
		return apperrors.Grammarf("parent %s has no link %d", parentName(parent), i)
	}
	if parent.Children[i] != nil {
		return apperrors.Grammarf("link %d of %s is occupied", i, parentName(parent))
	}
	n.Field = e.Link.Field
	parent.Children[i] = n
	p.slots[n.ID] = slot{parent: parent, index: i}
	return nil
}

func (p *patcher) update(e Edit) error {
	n, err := p.lookup(e.ID)
	if err != nil {
		return err
	}
	if n.Literal != e.OldLiteral {
		return apperrors.Grammarf("node %s holds %q, not %q", e.ID, n.Literal, e.OldLiteral)
	}
	n.Literal = e.NewLiteral
	n.Span = e.NewSpan
	if e.NewTag != nil {
		n.Kind = *e.NewTag
	}
	return nil
}

func parentName(n *tree.Node) string {
	if n.Kind.IsRoot() {
		return tree.RootKind.Name
	}
	return fmt.Sprintf("%s %s", n.Kind.Name, n.ID)
}
