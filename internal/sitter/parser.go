package sitter

import (
	"context"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
)

const defaultMaxIdle = 4

// Parser turns source text into tree.Node trees. It is safe for concurrent
// use; tree-sitter parsers are pooled internally because a single one must
// not be shared between goroutines.
type Parser struct {
	lang     *Language
	literals *tree.LiteralMap

	// AllowSyntaxErrors keeps ERROR and MISSING nodes in the tree instead
	// of rejecting the source.
	AllowSyntaxErrors bool

	mu      sync.Mutex
	idle    []*ts.Parser
	maxIdle int
}

// NewParser builds a parser for lang. literals may be nil, in which case
// no node is treated as a literal and no token is dropped.
func NewParser(lang *Language, literals *tree.LiteralMap) *Parser {
	return &Parser{lang: lang, literals: literals, maxIdle: defaultMaxIdle}
}

// Language returns the grammar the parser was built for.
func (p *Parser) Language() *Language { return p.lang }

// Literals returns the literal map applied while converting trees.
func (p *Parser) Literals() *tree.LiteralMap { return p.literals }

// Parse parses source and converts the result. Sources with syntax errors
// fail with a grammar error naming the one-based row and column of the
// first error node.
func (p *Parser) Parse(ctx context.Context, source []byte) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parser, err := p.get()
	if err != nil {
		return nil, err
	}
	parsed := parser.Parse(source, nil)
	p.put(parser)
	if parsed == nil {
		return nil, apperrors.Grammarf("parser for %s produced no tree", p.lang.Name())
	}
	defer parsed.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := parsed.RootNode()
	if !p.AllowSyntaxErrors && root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, apperrors.Grammarf("source does not match grammar at %d:%d", pos.Row+1, pos.Column+1)
		}
	}

	cursor := root.Walk()
	defer cursor.Close()
	return p.convert(cursor, source), nil
}

// Close releases the pooled tree-sitter parsers.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, parser := range p.idle {
		parser.Close()
	}
	p.idle = nil
}

func (p *Parser) get() (*ts.Parser, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		parser := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return parser, nil
	}
	p.mu.Unlock()

	parser := ts.NewParser()
	if err := parser.SetLanguage(p.lang.inner); err != nil {
		parser.Close()
		return nil, apperrors.Grammarf("cannot load language %s: %v", p.lang.Name(), err)
	}
	return parser, nil
}

func (p *Parser) put(parser *ts.Parser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle) >= p.maxIdle {
		parser.Close()
		return
	}
	parser.Reset()
	p.idle = append(p.idle, parser)
}

// convert builds the node under the cursor. Literal kinds become leaves
// holding their source text; anonymous tokens listed in the literal map
// are skipped.
func (p *Parser) convert(cursor *ts.TreeCursor, source []byte) *tree.Node {
	n := cursor.Node()
	sym := tree.Symbol(n.KindId())
	out := &tree.Node{
		ID:   tree.NewID(),
		Kind: tree.Kind{Symbol: sym, Name: n.Kind()},
		Span: spanOf(n),
	}
	if p.literals.IsLiteral(sym) {
		out.IsLiteral = true
		out.Literal = n.Utf8Text(source)
		return out
	}

	if !cursor.GotoFirstChild() {
		return out
	}
	for {
		child := cursor.Node()
		childSym := tree.Symbol(child.KindId())
		if child.IsNamed() || !p.literals.IsUnnamedToken(childSym) {
			field := cursor.FieldName()
			out.Children = append(out.Children, p.convert(cursor, source).WithField(field))
		}
		if !cursor.GotoNextSibling() {
			break
		}
	}
	cursor.GotoParent()
	return out
}

func spanOf(n *ts.Node) tree.Span {
	start, end := n.StartPosition(), n.EndPosition()
	return tree.Span{
		StartByte: uint32(n.StartByte()),
		EndByte:   uint32(n.EndByte()),
		Start:     tree.Point{Row: uint32(start.Row), Column: uint32(start.Column)},
		End:       tree.Point{Row: uint32(end.Row), Column: uint32(end.Column)},
	}
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(n *ts.Node) *ts.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}
