package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp/syntax"
	"strings"

	"github.com/bep/godartsass/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Application exit codes define the standard exit statuses for a program
// embedding sitterdiff. ExitCode maps an error onto one of them.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorGrammar  = 3   // Indicates a grammar, regex or symbol error.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorIO       = 5   // Indicates a file system or stream error.
	ExitErrorData     = 6   // Indicates malformed JSON or YAML input.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

const (
	grammarLabel = "Grammar error: "
	regexLabel   = "Regex error: "
	yamlPrefix   = "yaml: "
)

// Kind identifies where an Error originated.
type Kind int

const (
	// KindMessage is a plain message, converted from a string or from a
	// foreign error without a more specific origin.
	KindMessage Kind = iota
	// KindGrammar is a problem with a grammar or language profile.
	KindGrammar
	// KindRegex is an invalid pattern handed to the regex engine.
	KindRegex
	// KindUndefinedSymbol is a lookup of a name that has no definition.
	KindUndefinedSymbol
	// KindData is a JSON or YAML encoding or decoding failure.
	KindData
	// KindIO is a file system or stream failure.
	KindIO
	// KindStylesheet is a stylesheet compilation failure.
	KindStylesheet
)

var kindNames = [...]string{
	KindMessage:         "message",
	KindGrammar:         "grammar",
	KindRegex:           "regex",
	KindUndefinedSymbol: "undefined-symbol",
	KindData:            "data",
	KindIO:              "io",
	KindStylesheet:      "stylesheet",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is the unified error value. It is immutable once built: the message
// is fixed at construction and never re-labelled as it travels upward.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// Error returns the human-readable message.
func (e *Error) Error() string { return e.message }

// Message returns the same text as Error.
func (e *Error) Message() string { return e.message }

// Kind reports the origin of the error.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap returns the foreign error this value was converted from, or nil for
// errors built by the labelled constructors.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same kind and message.
// It lets callers compare against a freshly built value, e.g.
// errors.Is(err, UndefinedSymbol("identifier")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.message == t.message
}

// Grammar builds an error for a malformed grammar or language profile.
// The message is prefixed with "Grammar error: ".
func Grammar(message string) *Error {
	return &Error{kind: KindGrammar, message: grammarLabel + message}
}

// Grammarf is Grammar with fmt.Sprintf formatting.
func Grammarf(format string, a ...any) *Error {
	return Grammar(fmt.Sprintf(format, a...))
}

// Regex builds an error for an invalid pattern. The message is prefixed with
// "Regex error: ".
func Regex(message string) *Error {
	return &Error{kind: KindRegex, message: regexLabel + message}
}

// UndefinedSymbol builds an error reporting that name was referenced but
// never defined. The name is back-tick quoted: Undefined symbol `name`.
func UndefinedSymbol(name string) *Error {
	return &Error{kind: KindUndefinedSymbol, message: "Undefined symbol `" + name + "`"}
}

// FromString uses s itself as the message.
func FromString(s string) *Error {
	return &Error{kind: KindMessage, message: s}
}

// FromJSON converts a JSON encoding or decoding failure. The message is the
// foreign error's text, unchanged.
//
// Parameters:
//   - err: The failure returned by the JSON codec.
//
// Returns:
//   - error: An *Error of KindData wrapping err, or nil if err is nil.
func FromJSON(err error) error {
	return passThrough(KindData, err)
}

// FromYAML converts a YAML decoding failure. It shares KindData with FromJSON.
func FromYAML(err error) error {
	return passThrough(KindData, err)
}

// FromIO converts a file system or stream failure, keeping its text.
// errors.Is(converted, fs.ErrNotExist) keeps working through Unwrap.
func FromIO(err error) error {
	return passThrough(KindIO, err)
}

// FromStylesheet converts a stylesheet compilation failure, keeping its text.
func FromStylesheet(err error) error {
	return passThrough(KindStylesheet, err)
}

func passThrough(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*Error); ok {
		return existing
	}
	return &Error{kind: kind, message: err.Error(), cause: err}
}

// Convert maps any error onto the unified value by inspecting its type.
// An *Error, or an error chain that already contains one, is returned as is.
// Regex syntax errors gain the regex label; JSON, YAML, I/O and Sass errors
// pass through with their text unchanged; anything else becomes a
// KindMessage error that still unwraps to the original.
func Convert(err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	var regexErr *syntax.Error
	if errors.As(err, &regexErr) {
		converted := Regex(err.Error())
		converted.cause = err
		return converted
	}

	switch {
	case isDataError(err):
		return passThrough(KindData, err)
	case isIOError(err):
		return passThrough(KindIO, err)
	case isStylesheetError(err):
		return passThrough(KindStylesheet, err)
	}
	return passThrough(KindMessage, err)
}

func isDataError(err error) bool {
	var (
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		unmarshalErr   *json.InvalidUnmarshalError
		unsupportedErr *json.UnsupportedTypeError
		valueErr       *json.UnsupportedValueError
		marshalerErr   *json.MarshalerError
		yamlErr        *yaml.TypeError
	)
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &unmarshalErr) ||
		errors.As(err, &unsupportedErr) ||
		errors.As(err, &valueErr) ||
		errors.As(err, &marshalerErr) ||
		errors.As(err, &yamlErr) ||
		isYAMLSyntaxError(err)
}

// isYAMLSyntaxError reports yaml.v3 parser and scanner failures, which are
// plain errors identified only by their "yaml: " prefix.
func isYAMLSyntaxError(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if strings.HasPrefix(err.Error(), yamlPrefix) {
			return true
		}
	}
	return false
}

func isIOError(err error) bool {
	var (
		pathErr    *fs.PathError
		linkErr    *os.LinkError
		syscallErr *os.SyscallError
	)
	if errors.As(err, &pathErr) || errors.As(err, &linkErr) || errors.As(err, &syscallErr) {
		return true
	}
	for _, sentinel := range []error{
		io.EOF, io.ErrUnexpectedEOF, io.ErrShortWrite, io.ErrShortBuffer, io.ErrClosedPipe,
		fs.ErrNotExist, fs.ErrExist, fs.ErrPermission, fs.ErrClosed,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isStylesheetError(err error) bool {
	var sassErr godartsass.SassError
	return errors.As(err, &sassErr)
}

// KindOf returns the Kind of the first *Error in err's chain.
//
// Returns:
//   - Kind: The kind found, and true; or KindMessage and false when the chain
//     holds no *Error (including a nil err).
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return KindMessage, false
}

// ConfigError represents a user configuration error, such as an invalid
// environment value. It indicates that sitterdiff cannot proceed due to
// incorrect settings.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ExitCode maps err onto one of the Exit* constants. Context errors and
// configuration errors take precedence over the Kind of an *Error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ExitErrorCanceled
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		return ExitErrorConfig
	}
	kind, ok := KindOf(err)
	if !ok {
		return ExitErrorGeneric
	}
	switch kind {
	case KindGrammar, KindRegex, KindUndefinedSymbol:
		return ExitErrorGrammar
	case KindIO:
		return ExitErrorIO
	case KindData:
		return ExitErrorData
	default:
		return ExitErrorGeneric
	}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
