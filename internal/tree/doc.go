// Package tree holds the language-independent syntax tree that the differ
// works on, together with the per-language facts the differ needs: which
// symbols carry literal text, which unnamed tokens are dropped, and which
// pair of symbols encodes a boolean.
package tree
