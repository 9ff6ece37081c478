// Package sitter adapts tree-sitter grammars to the tree model.
//
// A Profile names the node kinds of a grammar that carry literal text, the
// pair of kinds that spell booleans and the punctuation tokens that add
// nothing to a diff. Resolved against a Language it yields the
// tree.LiteralMap that both the Parser and the differ consult.
package sitter
