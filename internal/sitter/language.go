package sitter

import (
	"sort"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
)

// Language is a tree-sitter grammar together with the name it is known by.
// It implements tree.Language.
type Language struct {
	name  string
	inner *ts.Language
}

// NewLanguage wraps the language pointer exported by a grammar's Go
// bindings, e.g. tree_sitter_json.Language().
func NewLanguage(name string, ptr unsafe.Pointer) *Language {
	return &Language{name: name, inner: ts.NewLanguage(ptr)}
}

// Name returns the name the language was registered under.
func (l *Language) Name() string { return l.name }

// SymbolCount returns the number of grammar symbols, named and anonymous.
func (l *Language) SymbolCount() uint32 { return l.inner.NodeKindCount() }

// SymbolName returns the node kind spelled by sym.
func (l *Language) SymbolName(sym tree.Symbol) string {
	return l.inner.NodeKindForId(uint16(sym))
}

// SymbolForName looks up the symbol of a named rule (named) or an
// anonymous token. Symbol 0 is the end-of-input token and never a valid
// answer.
func (l *Language) SymbolForName(name string, named bool) (tree.Symbol, bool) {
	id := l.inner.IdForNodeKind(name, named)
	if id == 0 {
		return 0, false
	}
	return tree.Symbol(id), true
}

// IsNamed reports whether sym is a named rule rather than an anonymous
// token.
func (l *Language) IsNamed(sym tree.Symbol) bool {
	return l.inner.NodeKindIsNamed(uint16(sym))
}

type builtin struct {
	language func() unsafe.Pointer
	profile  string
}

var builtins = map[string]builtin{
	"json": {language: tsjson.Language, profile: jsonProfile},
}

const jsonProfile = `
language: json
literals: [string, number]
booleans: ["false", "true"]
drop: ["{", "}", "[", "]", ",", ":"]
`

// Builtin returns a grammar compiled into this module.
func Builtin(name string) (*Language, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, apperrors.UndefinedSymbol(name)
	}
	return NewLanguage(name, b.language()), nil
}

// BuiltinProfile returns the default literal profile for a built-in grammar.
func BuiltinProfile(name string) (*Profile, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, apperrors.UndefinedSymbol(name)
	}
	return ParseProfile([]byte(b.profile))
}

// Builtins lists the built-in grammar names in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
