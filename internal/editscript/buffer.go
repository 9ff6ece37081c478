package editscript

// Buffer collects edits while a diff runs. Negative edits are kept apart
// from positive ones so the finished script removes structure before it
// builds any.
type Buffer struct {
	fuse     bool
	negative []Edit
	positive []Edit
}

// NewBuffer returns an empty buffer. With fuse set, a Load directly
// followed by the Attach of the same node becomes one LoadAttach, and a
// Detach directly followed by the Unload of the same node becomes one
// DetachUnload.
func NewBuffer(fuse bool) *Buffer {
	return &Buffer{fuse: fuse}
}

// Add appends an edit to the matching half of the buffer.
func (b *Buffer) Add(e Edit) {
	switch e.Kind {
	case Attach:
		if b.fuse && len(b.positive) > 0 {
			last := &b.positive[len(b.positive)-1]
			if last.Kind == Load && last.ID == e.ID {
				last.Kind = LoadAttach
				last.Parent = e.Parent
				last.ParentTag = e.ParentTag
				last.Link = e.Link
				return
			}
		}
		b.positive = append(b.positive, e)
	case Unload:
		if b.fuse && len(b.negative) > 0 {
			last := &b.negative[len(b.negative)-1]
			if last.Kind == Detach && last.ID == e.ID {
				last.Kind = DetachUnload
				last.Kids = e.Kids
				return
			}
		}
		b.negative = append(b.negative, e)
	default:
		if e.Kind.IsNegative() {
			b.negative = append(b.negative, e)
		} else {
			b.positive = append(b.positive, e)
		}
	}
}

// Len returns the number of buffered edits.
func (b *Buffer) Len() int { return len(b.negative) + len(b.positive) }

// Finalize returns the script: negative edits first, then positive ones.
// The buffer is empty afterwards.
func (b *Buffer) Finalize() *Script {
	edits := make([]Edit, 0, b.Len())
	edits = append(edits, b.negative...)
	edits = append(edits, b.positive...)
	b.negative, b.positive = nil, nil
	return &Script{edits: edits}
}
