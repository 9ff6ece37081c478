package truediff

// share groups every subtree with one structural digest. Old subtrees that
// are free to be reused are available; the preferred index narrows them
// down by literal digest and is built on first use.
type share struct {
	available map[*diffNode]struct{}
	order     []*diffNode
	preferred map[Digest][]*diffNode
}

func newShare() *share {
	return &share{available: make(map[*diffNode]struct{})}
}

func (s *share) register(n *diffNode) {
	if _, ok := s.available[n]; ok {
		return
	}
	s.available[n] = struct{}{}
	s.order = append(s.order, n)
	if s.preferred != nil {
		s.preferred[n.Literal] = append(s.preferred[n.Literal], n)
	}
}

func (s *share) remove(n *diffNode) {
	delete(s.available, n)
}

func (s *share) isAvailable(n *diffNode) bool {
	_, ok := s.available[n]
	return ok
}

// first returns the oldest available tree, or nil.
func (s *share) first() *diffNode {
	for len(s.order) > 0 {
		n := s.order[0]
		if s.isAvailable(n) {
			return n
		}
		s.order = s.order[1:]
	}
	return nil
}

// firstPreferred returns the oldest available tree with the given literal
// digest, or nil.
func (s *share) firstPreferred(literal Digest) *diffNode {
	if s.preferred == nil {
		s.preferred = make(map[Digest][]*diffNode)
		for _, n := range s.order {
			if s.isAvailable(n) {
				s.preferred[n.Literal] = append(s.preferred[n.Literal], n)
			}
		}
	}
	candidates := s.preferred[literal]
	for len(candidates) > 0 {
		n := candidates[0]
		if s.isAvailable(n) {
			s.preferred[literal] = candidates
			return n
		}
		candidates = candidates[1:]
	}
	delete(s.preferred, literal)
	return nil
}

// registry maps structural digests to shares.
type registry struct {
	shares map[Digest]*share
}

func newRegistry() *registry {
	return &registry{shares: make(map[Digest]*share)}
}

// assignShare clears any assignment of n and points it at the share for
// its structural digest.
func (r *registry) assignShare(n *diffNode) *share {
	n.assigned = nil
	s, ok := r.shares[n.Structural]
	if !ok {
		s = newShare()
		r.shares[n.Structural] = s
	}
	n.share = s
	return s
}

func (r *registry) assignShareAndRegister(n *diffNode) *share {
	s := r.assignShare(n)
	s.register(n)
	return s
}

// assignSharesTree gives every node of the subtree its share.
func (r *registry) assignSharesTree(n *diffNode) {
	n.walk(func(c *diffNode) { r.assignShare(c) })
}

// registerTree makes every node of an old subtree available.
func (r *registry) registerTree(n *diffNode) {
	n.walk(func(c *diffNode) { r.assignShareAndRegister(c) })
}

// takeTree withdraws the old subtree taken, which that is about to claim.
// Its descendants stop being available, and any assignment inside that's
// subtree is released so the old node it pointed at can be reused
// elsewhere.
func (r *registry) takeTree(taken, that *diffNode) {
	if taken.share != nil {
		taken.share.remove(taken)
		taken.share = nil
	}
	for _, c := range taken.children {
		r.deregister(c)
	}
	that.walk(func(n *diffNode) {
		if n.assigned == nil {
			return
		}
		old := n.assigned
		n.assigned = nil
		r.assignShareAndRegister(old)
	})
}

// deregister withdraws an old node whose ancestor was taken.
func (r *registry) deregister(n *diffNode) {
	switch {
	case n.share != nil:
		n.share.remove(n)
		n.share = nil
		for _, c := range n.children {
			r.deregister(c)
		}
	case n.assigned != nil:
		partner := n.assigned
		n.assigned = nil
		partner.assigned = nil
		r.assignSharesTree(partner)
	}
}
