package truediff

import (
	"context"

	"github.com/google/uuid"

	"github.com/agbru/sitterdiff/internal/editscript"
	"github.com/agbru/sitterdiff/internal/tree"
)

// diffNode carries the per-comparison state of one node. A fresh set of
// diffNodes is built for every comparison so Prepared trees stay shared
// and read-only.
type diffNode struct {
	*Hashed
	children []*diffNode
	share    *share
	assigned *diffNode
	seq      int
}

func wrap(h *Hashed, seq *int) *diffNode {
	n := &diffNode{Hashed: h, seq: *seq}
	*seq++
	if len(h.Children) > 0 {
		n.children = make([]*diffNode, len(h.Children))
		for i, c := range h.Children {
			n.children[i] = wrap(c, seq)
		}
	}
	return n
}

func (n *diffNode) walk(fn func(*diffNode)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *diffNode) id() uuid.UUID { return n.Node.ID }

func (n *diffNode) kind() tree.Kind { return n.Node.Kind }

func assignTree(this, that *diffNode) {
	this.assigned = that
	that.assigned = this
	this.share = nil
}

type differ struct {
	reg      *registry
	buf      *editscript.Buffer
	literals *tree.LiteralMap
	prefer   bool
}

// sameShape reports whether this and that can be diffed child by child:
// the same structural kind, the same number of children and the same
// field on every link.
func (d *differ) sameShape(this, that *diffNode) bool {
	if structuralKey(this.kind(), d.literals) != structuralKey(that.kind(), d.literals) {
		return false
	}
	if len(this.children) != len(that.children) {
		return false
	}
	for i := range this.children {
		if this.children[i].Node.Field != that.children[i].Node.Field {
			return false
		}
	}
	return true
}

// assignShares walks both trees top-down in step. Structurally equal
// subtrees at the same position are assigned right away; nodes of the old
// tree that are not are registered as available for reuse.
func (d *differ) assignShares(this, that *diffNode) {
	thisShare := d.reg.assignShare(this)
	thatShare := d.reg.assignShare(that)
	if thisShare == thatShare {
		assignTree(this, that)
		return
	}
	if d.sameShape(this, that) {
		thisShare.register(this)
		for i := range this.children {
			d.assignShares(this.children[i], that.children[i])
		}
		return
	}
	d.reg.registerTree(this)
	d.reg.assignSharesTree(that)
}

// assignSubtrees matches the still unassigned nodes of the new tree
// against available old subtrees, tallest first. Each height level is
// matched on literal digests first, then on structure alone; nodes left
// without a match hand their children to the next levels.
func (d *differ) assignSubtrees(ctx context.Context, root *diffNode) error {
	q := &nodeQueue{}
	q.push(root)
	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		level := q.peekHeight()
		var next []*diffNode
		for q.Len() > 0 && q.peekHeight() == level {
			if n := q.pop(); n.assigned == nil {
				next = append(next, n)
			}
		}
		if d.prefer {
			next = d.selectTrees(next, true)
		}
		next = d.selectTrees(next, false)
		for _, n := range next {
			for _, c := range n.children {
				q.push(c)
			}
		}
	}
	return nil
}

func (d *differ) selectTrees(nodes []*diffNode, preferred bool) []*diffNode {
	var remaining []*diffNode
	for _, n := range nodes {
		if n.assigned != nil {
			continue
		}
		if n.share == nil {
			d.reg.assignShare(n)
		}
		var taken *diffNode
		if preferred {
			taken = n.share.firstPreferred(n.Literal)
		} else {
			taken = n.share.first()
		}
		if taken == nil {
			remaining = append(remaining, n)
			continue
		}
		d.reg.takeTree(taken, n)
		assignTree(taken, n)
	}
	return remaining
}

// computeEditScript emits the edits that turn this into that and returns
// the patched node: that's content under the IDs of reused old nodes.
func (d *differ) computeEditScript(this, that *diffNode, parent uuid.UUID, parentTag tree.Kind, index int) *tree.Node {
	if this.assigned != nil && this.assigned == that {
		this.assigned = nil
		return d.updateLiterals(this, that)
	}
	if this.assigned == nil && that.assigned == nil && d.sameShape(this, that) {
		return d.recurse(this, that)
	}

	d.buf.Add(editscript.Edit{
		Kind:      editscript.Detach,
		ID:        this.id(),
		Tag:       this.kind(),
		Parent:    parent,
		ParentTag: parentTag,
		Link:      editscript.Link{Index: index, Field: this.Node.Field},
	})
	d.unloadUnassigned(this)
	patched := d.loadUnassigned(that)
	d.buf.Add(editscript.Edit{
		Kind:      editscript.Attach,
		ID:        patched.ID,
		Tag:       patched.Kind,
		Parent:    parent,
		ParentTag: parentTag,
		Link:      editscript.Link{Index: index, Field: that.Node.Field},
	})
	return patched
}

func (d *differ) recurse(this, that *diffNode) *tree.Node {
	patched := patchedNode(this, that)
	for i := range this.children {
		patched.Children[i] = d.computeEditScript(this.children[i], that.children[i], this.id(), this.kind(), i)
	}
	d.updateLiteral(this, that)
	return patched
}

// updateLiterals walks two structurally equal subtrees in step and emits
// an update wherever the literal differs.
func (d *differ) updateLiterals(this, that *diffNode) *tree.Node {
	patched := patchedNode(this, that)
	for i := range this.children {
		patched.Children[i] = d.updateLiterals(this.children[i], that.children[i])
	}
	d.updateLiteral(this, that)
	return patched
}

func (d *differ) updateLiteral(this, that *diffNode) {
	if this.Node.Literal == that.Node.Literal && this.kind() == that.kind() {
		return
	}
	e := editscript.Edit{
		Kind:       editscript.Update,
		ID:         this.id(),
		Tag:        this.kind(),
		OldLiteral: this.Node.Literal,
		NewLiteral: that.Node.Literal,
		OldSpan:    this.Node.Span,
		NewSpan:    that.Node.Span,
	}
	if this.kind() != that.kind() {
		tag := that.kind()
		e.NewTag = &tag
	}
	d.buf.Add(e)
}

func (d *differ) unloadUnassigned(this *diffNode) {
	if this.assigned != nil {
		this.assigned = nil
		return
	}
	d.buf.Add(editscript.Edit{
		Kind: editscript.Unload,
		ID:   this.id(),
		Tag:  this.kind(),
		Kids: childLinks(this.children),
	})
	for _, c := range this.children {
		d.unloadUnassigned(c)
	}
}

func (d *differ) loadUnassigned(that *diffNode) *tree.Node {
	if that.assigned != nil {
		return d.updateLiterals(that.assigned, that)
	}
	patched := patchedNode(that, that)
	for i, c := range that.children {
		patched.Children[i] = d.loadUnassigned(c)
	}
	e := editscript.Edit{
		Kind:      editscript.Load,
		ID:        that.id(),
		Tag:       that.kind(),
		IsLiteral: that.Node.IsLiteral,
		Literal:   that.Node.Literal,
		Span:      that.Node.Span,
	}
	if len(patched.Children) > 0 {
		e.Kids = make([]editscript.Child, len(patched.Children))
		for i, c := range patched.Children {
			e.Kids[i] = editscript.Child{Link: editscript.Link{Index: i, Field: c.Field}, ID: c.ID}
		}
	}
	d.buf.Add(e)
	return patched
}

func childLinks(children []*diffNode) []editscript.Child {
	if len(children) == 0 {
		return nil
	}
	out := make([]editscript.Child, len(children))
	for i, c := range children {
		out[i] = editscript.Child{Link: editscript.Link{Index: i, Field: c.Node.Field}, ID: c.id()}
	}
	return out
}

// patchedNode copies that's content under this's identity, with room for
// the children.
func patchedNode(this, that *diffNode) *tree.Node {
	n := &tree.Node{
		ID:        this.id(),
		Kind:      that.kind(),
		Field:     that.Node.Field,
		Literal:   that.Node.Literal,
		IsLiteral: that.Node.IsLiteral,
		Span:      that.Node.Span,
	}
	if len(that.children) > 0 {
		n.Children = make([]*tree.Node, len(that.children))
	}
	return n
}
