// Package logging provides a unified logging interface for sitterdiff.
// It abstracts the underlying logging implementation, allowing consistent
// logging across the parser, the differ and the renderers while supporting
// zerolog and standard library backends.
package logging
