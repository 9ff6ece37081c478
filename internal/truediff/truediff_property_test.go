package truediff

import (
	"context"
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/sitterdiff/internal/editscript"
	"github.com/agbru/sitterdiff/internal/tree"
)

// randomTree builds a JSON-shaped tree of bounded depth.
func randomTree(r *rand.Rand, depth int) *tree.Node {
	if depth <= 0 || r.Intn(4) == 0 {
		return randomLeaf(r)
	}
	switch r.Intn(3) {
	case 0:
		return tree.New(pairKind, tree.Leaf(stringKind, randomWord(r)).WithField("key"), randomTree(r, depth-1).WithField("value"))
	case 1:
		n := r.Intn(4)
		members := make([]*tree.Node, n)
		for i := range members {
			members[i] = tree.New(pairKind, tree.Leaf(stringKind, randomWord(r)).WithField("key"), randomTree(r, depth-1).WithField("value"))
		}
		return tree.New(objectKind, members...)
	default:
		n := r.Intn(4)
		items := make([]*tree.Node, n)
		for i := range items {
			items[i] = randomTree(r, depth-1)
		}
		return tree.New(arrayKind, items...)
	}
}

func randomLeaf(r *rand.Rand) *tree.Node {
	switch r.Intn(4) {
	case 0:
		return tree.Leaf(trueKind, "true")
	case 1:
		return tree.Leaf(falseKind, "false")
	case 2:
		return tree.Leaf(stringKind, randomWord(r))
	default:
		return tree.Leaf(numberKind, strconv.Itoa(r.Intn(5)))
	}
}

func randomWord(r *rand.Rand) string {
	return string(rune('a' + r.Intn(4)))
}

// freshCopy deep-copies n under new IDs, as a second parse would.
func freshCopy(n *tree.Node) *tree.Node {
	cp := tree.Clone(n)
	tree.Walk(cp, func(c *tree.Node) bool {
		c.ID = tree.NewID()
		return true
	})
	return cp
}

// mutate returns a fresh copy of n with a few random local changes.
func mutate(r *rand.Rand, n *tree.Node) *tree.Node {
	out := freshCopy(n)
	var nodes []*tree.Node
	tree.Walk(out, func(c *tree.Node) bool {
		nodes = append(nodes, c)
		return true
	})
	for steps := r.Intn(3) + 1; steps > 0; steps-- {
		target := nodes[r.Intn(len(nodes))]
		switch r.Intn(4) {
		case 0:
			if target.IsLiteral && target.Kind == numberKind {
				target.Literal = strconv.Itoa(r.Intn(5))
			}
		case 1:
			if target.Kind == arrayKind && len(target.Children) > 1 {
				i, j := r.Intn(len(target.Children)), r.Intn(len(target.Children))
				target.Children[i], target.Children[j] = target.Children[j], target.Children[i]
			}
		case 2:
			if target.Kind == arrayKind && len(target.Children) > 0 {
				target.Children = target.Children[:len(target.Children)-1]
			}
		default:
			if target.Kind == arrayKind {
				target.Children = append(target.Children, freshCopy(randomTree(r, 2)))
			}
		}
	}
	return out
}

// TestCompare_PropertyBased checks that applying the computed script to the
// old tree always yields the new tree, with the IDs the patched tree
// reports.
func TestCompare_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	check := func(oldRoot, newRoot *tree.Node, fuse, prefer bool) bool {
		opts := DefaultOptions()
		opts.FuseEdits = fuse
		opts.PreferLiterals = prefer
		res, err := Diff(context.Background(), oldRoot, newRoot, testLiterals(), opts)
		if err != nil {
			return false
		}
		got, err := editscript.Apply(oldRoot, res.Script)
		if err != nil {
			return false
		}
		return tree.Equal(got, newRoot) && sameIDs(got, res.Patched)
	}

	properties.Property("script turns a mutated tree back into its target", prop.ForAll(
		func(seed int64, fuse, prefer bool) bool {
			r := rand.New(rand.NewSource(seed))
			oldRoot := randomTree(r, 4)
			return check(oldRoot, mutate(r, oldRoot), fuse, prefer)
		},
		gen.Int64(), gen.Bool(), gen.Bool(),
	))

	properties.Property("script turns any tree into any other", prop.ForAll(
		func(seed int64, fuse, prefer bool) bool {
			r := rand.New(rand.NewSource(seed))
			return check(randomTree(r, 4), randomTree(r, 4), fuse, prefer)
		},
		gen.Int64(), gen.Bool(), gen.Bool(),
	))

	properties.Property("a tree compared with a fresh copy of itself needs no edits", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			oldRoot := randomTree(r, 4)
			res, err := Diff(context.Background(), oldRoot, freshCopy(oldRoot), testLiterals(), DefaultOptions())
			return err == nil && res.Script.Len() == 0 && res.Stats.Reused == tree.Size(oldRoot)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
