package sitter

import (
	"bytes"
	"errors"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/tree"
)

// Profile declares, per language, which node kinds carry literal text,
// which two kinds spell booleans and which anonymous tokens are left out
// of the tree.
//
//	language: json
//	literals: [string, number]
//	literal_patterns: ["_literal$"]
//	booleans: ["false", "true"]
//	drop: ["{", "}", ","]
type Profile struct {
	Language        string   `yaml:"language"`
	Literals        []string `yaml:"literals"`
	LiteralPatterns []string `yaml:"literal_patterns"`
	Booleans        []string `yaml:"booleans"`
	Drop            []string `yaml:"drop"`
}

// LoadProfile reads a profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.FromIO(err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile. Unknown keys are rejected. An empty
// document yields an empty profile.
func ParseProfile(data []byte) (*Profile, error) {
	p := &Profile{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return nil, apperrors.FromYAML(err)
	}
	return p, nil
}

// LiteralMap resolves the profile's kind names against lang.
//
// Returns:
//   - *tree.LiteralMap: The resolved map.
//   - error: Undefined symbol for a kind the grammar does not know, a regex
//     error for a bad pattern, a grammar error for a profile written for
//     another language or with a boolean list that is not a pair.
func (p *Profile) LiteralMap(lang tree.Language) (*tree.LiteralMap, error) {
	if p.Language != "" && p.Language != lang.Name() {
		return nil, apperrors.Grammarf("profile is for language %q, not %q", p.Language, lang.Name())
	}
	m := tree.NewLiteralMap(lang.SymbolCount())

	for _, name := range p.Literals {
		sym, ok := lang.SymbolForName(name, true)
		if !ok {
			return nil, apperrors.UndefinedSymbol(name)
		}
		m.AddLiteral(sym)
	}

	if len(p.LiteralPatterns) > 0 {
		patterns := make([]*regexp.Regexp, 0, len(p.LiteralPatterns))
		for _, expr := range p.LiteralPatterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, apperrors.Convert(err)
			}
			patterns = append(patterns, re)
		}
		for i := uint32(0); i < lang.SymbolCount(); i++ {
			sym := tree.Symbol(i)
			name := lang.SymbolName(sym)
			if named, ok := lang.SymbolForName(name, true); !ok || named != sym {
				continue
			}
			for _, re := range patterns {
				if re.MatchString(name) {
					m.AddLiteral(sym)
					break
				}
			}
		}
	}

	if len(p.Booleans) > 0 {
		if len(p.Booleans) != 2 {
			return nil, apperrors.Grammarf("booleans must name exactly two kinds, got %d", len(p.Booleans))
		}
		var pair [2]tree.Symbol
		for i, name := range p.Booleans {
			sym, ok := lang.SymbolForName(name, true)
			if !ok {
				return nil, apperrors.UndefinedSymbol(name)
			}
			pair[i] = sym
		}
		m.SetBooleans(pair[0], pair[1])
	}

	for _, name := range p.Drop {
		sym, ok := lang.SymbolForName(name, false)
		if !ok {
			return nil, apperrors.UndefinedSymbol(name)
		}
		m.AddUnnamedToken(sym)
	}
	return m, nil
}
