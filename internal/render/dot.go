package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
	"github.com/agbru/sitterdiff/internal/truediff"
)

// palette holds the fill colours for matched subtrees. Pairs beyond its
// length start over at the first colour.
var palette = [...][3]uint8{
	{213, 255, 0}, {255, 0, 86}, {158, 0, 142}, {14, 76, 161},
	{255, 229, 2}, {0, 95, 57}, {0, 255, 0}, {149, 0, 58},
	{255, 147, 126}, {164, 36, 0}, {0, 21, 68}, {145, 208, 203},
	{98, 14, 0}, {107, 104, 130}, {0, 0, 255}, {0, 125, 181},
	{106, 130, 108}, {0, 174, 126}, {194, 140, 159}, {190, 153, 112},
	{0, 143, 156},
}

// WriteDOT writes two Graphviz digraphs, the old tree followed by the new
// one. Nodes reused by the diff are filled with the same colour in both
// graphs; descendants of a coloured node share its colour.
func WriteDOT(w io.Writer, res *truediff.Result) error {
	if res == nil || res.Old.Size() == 0 || res.New.Size() == 0 {
		return apperrors.Grammar("nothing to draw: diff result has no trees")
	}
	g := newDOTGraph(w)
	for _, m := range res.Matches {
		g.matched[m.Old] = m.Old
		g.matched[m.New] = m.Old
	}

	for _, root := range []*tree.Node{res.Old.Root.Node, res.New.Root.Node} {
		fmt.Fprint(g.w, "digraph tree {\n")
		fmt.Fprint(g.w, "edge [arrowhead=none]\n")
		g.node(root, -1)
		fmt.Fprint(g.w, "}\n")
	}
	return apperrors.FromIO(g.w.Flush())
}

type dotGraph struct {
	w *bufio.Writer
	// matched maps every reused node, old or new, to the old ID of its pair.
	matched map[uuid.UUID]uuid.UUID
	// colors is keyed by the old ID of a pair.
	colors map[uuid.UUID]int
	next   int
}

func newDOTGraph(w io.Writer) *dotGraph {
	return &dotGraph{
		w:       bufio.NewWriter(w),
		matched: make(map[uuid.UUID]uuid.UUID),
		colors:  make(map[uuid.UUID]int),
	}
}

func (g *dotGraph) node(n *tree.Node, color int) {
	fmt.Fprintf(g.w, "%s [label=\"%s\"", dotID(n.ID), escapeDOT(label(n)))
	if n.IsLeaf() {
		fmt.Fprint(g.w, ", shape=plaintext")
	}
	if pair, ok := g.matched[n.ID]; ok {
		if color < 0 {
			c, seen := g.colors[pair]
			if !seen {
				c = g.next % len(palette)
				g.next++
			}
			color = c
		}
		g.colors[pair] = color
	}
	if color >= 0 {
		rgb := palette[color]
		fmt.Fprintf(g.w, ", style=filled, fillcolor=\"#%02X%02X%02X\"", rgb[0], rgb[1], rgb[2])
	}
	fmt.Fprint(g.w, "]\n")

	for i, child := range n.Children {
		g.node(child, color)
		fmt.Fprintf(g.w, "%s -> %s [tooltip=%d]\n", dotID(n.ID), dotID(child.ID), i)
	}
}

func label(n *tree.Node) string {
	if n.IsLiteral && n.Literal != "" {
		return n.Kind.Name + "\n" + n.Literal
	}
	return n.Kind.Name
}

func dotID(id uuid.UUID) string {
	return "tree_" + strings.ReplaceAll(id.String(), "-", "")
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, "\n", `\n`)

func escapeDOT(s string) string { return dotEscaper.Replace(s) }
