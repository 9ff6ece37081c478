// Package apperrors defines the single error value used throughout sitterdiff.
//
// Failures that originate inside sitterdiff (grammar profile problems, bad
// literal patterns, references to node kinds a language does not define) are
// built with the labelled constructors Grammar, Regex and UndefinedSymbol.
// Failures that come from third-party code (file system, JSON and YAML
// decoding, Sass compilation) are converted with FromIO, FromJSON, FromYAML
// and FromStylesheet, which keep the foreign message verbatim and retain the
// foreign error as the Unwrap cause. Convert dispatches on the foreign type so
// call sites can forward any error through one result channel.
//
// Every Error carries a Kind so callers can branch on the origin of a
// failure with KindOf or errors.As instead of matching message text.
package apperrors
