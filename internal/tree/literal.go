package tree

// Language resolves grammar symbols to names and back.
type Language interface {
	Name() string
	SymbolCount() uint32
	SymbolName(sym Symbol) string
	// SymbolForName returns the symbol for a node kind. named selects
	// between a named rule and an anonymous token of the same spelling.
	SymbolForName(name string, named bool) (Symbol, bool)
}

// LiteralMap records, per symbol, whether nodes of that kind carry literal
// text that should be compared by value, and whether unnamed tokens of that
// kind are dropped when trees are built.
type LiteralMap struct {
	symbolCount uint32
	literals    []uint8
	unnamed     []uint8
	booleans    [2]Symbol
	hasBooleans bool
}

// NewLiteralMap allocates an empty map for a language with symbolCount
// symbols.
func NewLiteralMap(symbolCount uint32) *LiteralMap {
	size := symbolCount/8 + 1
	return &LiteralMap{
		symbolCount: symbolCount,
		literals:    make([]uint8, size),
		unnamed:     make([]uint8, size),
	}
}

// SymbolCount returns the number of symbols the map was sized for.
func (m *LiteralMap) SymbolCount() uint32 { return m.symbolCount }

func (m *LiteralMap) inRange(sym Symbol) bool { return uint32(sym) < m.symbolCount }

// AddLiteral marks sym as a literal kind. Out-of-range symbols are ignored.
func (m *LiteralMap) AddLiteral(sym Symbol) {
	if m.inRange(sym) {
		m.literals[sym/8] |= 1 << (sym % 8)
	}
}

// AddUnnamedToken marks sym as a token to drop. Out-of-range symbols are
// ignored.
func (m *LiteralMap) AddUnnamedToken(sym Symbol) {
	if m.inRange(sym) {
		m.unnamed[sym/8] |= 1 << (sym % 8)
	}
}

// SetBooleans declares the two symbols that spell boolean values. Both are
// treated as literals and hash as one structural kind, so flipping a
// boolean is an update rather than a replacement.
func (m *LiteralMap) SetBooleans(falseSym, trueSym Symbol) {
	m.booleans = [2]Symbol{falseSym, trueSym}
	m.hasBooleans = true
	m.AddLiteral(falseSym)
	m.AddLiteral(trueSym)
}

// IsLiteral reports whether sym was marked as a literal kind.
func (m *LiteralMap) IsLiteral(sym Symbol) bool {
	if m == nil || !m.inRange(sym) {
		return false
	}
	return m.literals[sym/8]&(1<<(sym%8)) != 0
}

// IsUnnamedToken reports whether sym was marked as a token to drop.
func (m *LiteralMap) IsUnnamedToken(sym Symbol) bool {
	if m == nil || !m.inRange(sym) {
		return false
	}
	return m.unnamed[sym/8]&(1<<(sym%8)) != 0
}

// IsBool reports whether sym is one of the two boolean symbols.
func (m *LiteralMap) IsBool(sym Symbol) bool {
	if m == nil || !m.hasBooleans {
		return false
	}
	return sym == m.booleans[0] || sym == m.booleans[1]
}

// BooleanKind is the structural name shared by both boolean symbols.
const BooleanKind = "boolean"

// StructuralName returns the name under which a node of kind k is hashed
// and matched.
func (m *LiteralMap) StructuralName(k Kind) string {
	if m.IsBool(k.Symbol) {
		return BooleanKind
	}
	return k.Name
}
