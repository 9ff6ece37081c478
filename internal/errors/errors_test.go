// Package apperrors provides tests for the unified error value.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/bep/godartsass/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

func TestLabelledConstructors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *Error
		expected string
		kind     Kind
	}{
		{
			name:     "Grammar prefixes label",
			err:      Grammar("unexpected token"),
			expected: "Grammar error: unexpected token",
			kind:     KindGrammar,
		},
		{
			name:     "Grammar with empty message keeps label",
			err:      Grammar(""),
			expected: "Grammar error: ",
			kind:     KindGrammar,
		},
		{
			name:     "Grammarf formats before labelling",
			err:      Grammarf("booleans must name %d kinds, got %d", 2, 3),
			expected: "Grammar error: booleans must name 2 kinds, got 3",
			kind:     KindGrammar,
		},
		{
			name:     "Regex prefixes label",
			err:      Regex("missing closing )"),
			expected: "Regex error: missing closing )",
			kind:     KindRegex,
		},
		{
			name:     "UndefinedSymbol quotes name with back-ticks",
			err:      UndefinedSymbol("foo"),
			expected: "Undefined symbol `foo`",
			kind:     KindUndefinedSymbol,
		},
		{
			name:     "UndefinedSymbol keeps spaces in the name",
			err:      UndefinedSymbol("string content"),
			expected: "Undefined symbol `string content`",
			kind:     KindUndefinedSymbol,
		},
		{
			name:     "FromString is identity",
			err:      FromString("already readable"),
			expected: "already readable",
			kind:     KindMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.err.Message() != tt.expected {
				t.Errorf("Message() = %q, want %q", tt.err.Message(), tt.expected)
			}
			if tt.err.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.err.Kind(), tt.kind)
			}
			if tt.err.Unwrap() != nil {
				t.Errorf("labelled errors should not carry a cause, got %v", tt.err.Unwrap())
			}
		})
	}
}

func TestPassThroughConversions(t *testing.T) {
	t.Parallel()

	var decoded map[string]any
	jsonErr := json.Unmarshal([]byte(`{"kind":`), &decoded)
	if jsonErr == nil {
		t.Fatal("expected truncated JSON to fail")
	}

	var node yaml.Node
	yamlErr := yaml.Unmarshal([]byte("literals: [a, b"), &node)
	if yamlErr == nil {
		t.Fatal("expected truncated YAML to fail")
	}

	_, ioErr := os.Open(filepath.Join(t.TempDir(), "missing.scss"))
	if ioErr == nil {
		t.Fatal("expected missing file to fail")
	}

	sassErr := godartsass.SassError{Message: `expected "}".`}

	tests := []struct {
		name    string
		convert func(error) error
		source  error
		kind    Kind
	}{
		{"FromJSON keeps decoder text", FromJSON, jsonErr, KindData},
		{"FromYAML keeps decoder text", FromYAML, yamlErr, KindData},
		{"FromIO keeps path error text", FromIO, ioErr, KindIO},
		{"FromIO keeps plain text", FromIO, errors.New("file not found"), KindIO},
		{"FromStylesheet keeps sass text", FromStylesheet, sassErr, KindStylesheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			converted := tt.convert(tt.source)
			if converted == nil {
				t.Fatal("conversion returned nil for a non-nil error")
			}
			if converted.Error() != tt.source.Error() {
				t.Errorf("expected verbatim %q, got %q", tt.source.Error(), converted.Error())
			}
			kind, ok := KindOf(converted)
			if !ok || kind != tt.kind {
				t.Errorf("KindOf = (%v, %v), want (%v, true)", kind, ok, tt.kind)
			}
			if !errors.Is(converted, tt.source) {
				t.Error("converted error should unwrap to its source")
			}
		})
	}
}

func TestFromIO_FileNotFoundScenario(t *testing.T) {
	t.Parallel()
	err := FromIO(errors.New("file not found"))
	if err.Error() != "file not found" {
		t.Errorf("expected no prefix, got %q", err.Error())
	}
}

func TestFromIO_PreservesSentinels(t *testing.T) {
	t.Parallel()
	_, err := os.ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	converted := FromIO(err)
	if !errors.Is(converted, fs.ErrNotExist) {
		t.Error("errors.Is(converted, fs.ErrNotExist) should hold")
	}
	var pathErr *fs.PathError
	if !errors.As(converted, &pathErr) {
		t.Error("errors.As should still find *fs.PathError")
	}
}

func TestConversions_NilInput(t *testing.T) {
	t.Parallel()
	for name, convert := range map[string]func(error) error{
		"FromJSON":       FromJSON,
		"FromYAML":       FromYAML,
		"FromIO":         FromIO,
		"FromStylesheet": FromStylesheet,
		"Convert":        Convert,
	} {
		if got := convert(nil); got != nil {
			t.Errorf("%s(nil) = %v, want nil", name, got)
		}
	}
}

func TestConversions_DoNotRewrap(t *testing.T) {
	t.Parallel()
	original := UndefinedSymbol("pair")
	for name, convert := range map[string]func(error) error{
		"FromJSON":       FromJSON,
		"FromIO":         FromIO,
		"FromStylesheet": FromStylesheet,
		"Convert":        Convert,
	} {
		got := convert(original)
		if got != error(original) {
			t.Errorf("%s should return an *Error untouched, got %#v", name, got)
		}
	}

	wrapped := fmt.Errorf("loading profile: %w", original)
	if got := Convert(wrapped); got != wrapped {
		t.Errorf("Convert should leave chains holding an *Error alone, got %v", got)
	}
}

func TestConvert_Dispatch(t *testing.T) {
	t.Parallel()

	_, regexErr := regexp.Compile(`string_(content`)
	if regexErr == nil {
		t.Fatal("expected invalid pattern to fail")
	}
	var target struct{ N int }
	jsonErr := json.Unmarshal([]byte(`{"N":"x"}`), &target)
	if jsonErr == nil {
		t.Fatal("expected type mismatch to fail")
	}
	_, ioErr := os.Stat(filepath.Join(t.TempDir(), "nope"))
	var doc map[string]any
	yamlSyntaxErr := yaml.Unmarshal([]byte("a: [1, 2\nb: c"), &doc)
	if yamlSyntaxErr == nil {
		t.Fatal("expected unterminated flow sequence to fail")
	}
	var n int
	yamlTypeErr := yaml.Unmarshal([]byte("text"), &n)
	if yamlTypeErr == nil {
		t.Fatal("expected string into int to fail")
	}

	tests := []struct {
		name     string
		source   error
		kind     Kind
		expected string
	}{
		{"regex syntax error gains label", regexErr, KindRegex, "Regex error: " + regexErr.Error()},
		{"json type error passes through", jsonErr, KindData, jsonErr.Error()},
		{"yaml syntax error is data", yamlSyntaxErr, KindData, yamlSyntaxErr.Error()},
		{"wrapped yaml syntax error is data", fmt.Errorf("reading config: %w", yamlSyntaxErr), KindData, "reading config: " + yamlSyntaxErr.Error()},
		{"yaml type error is data", yamlTypeErr, KindData, yamlTypeErr.Error()},
		{"stat error passes through", ioErr, KindIO, ioErr.Error()},
		{"io.EOF is an io error", io.EOF, KindIO, "EOF"},
		{"wrapped unexpected EOF is an io error", fmt.Errorf("reading script: %w", io.ErrUnexpectedEOF), KindIO, "reading script: unexpected EOF"},
		{"sass error passes through", godartsass.SassError{Message: "undefined variable"}, KindStylesheet, godartsass.SassError{Message: "undefined variable"}.Error()},
		{"unknown error becomes message", errors.New("something odd"), KindMessage, "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			converted := Convert(tt.source)
			if converted.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, converted.Error())
			}
			kind, ok := KindOf(converted)
			if !ok || kind != tt.kind {
				t.Errorf("KindOf = (%v, %v), want (%v, true)", kind, ok, tt.kind)
			}
			if !errors.Is(converted, tt.source) {
				t.Error("converted error should unwrap to its source")
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("applying script: %w", UndefinedSymbol("9f1c"))
	if !errors.Is(err, UndefinedSymbol("9f1c")) {
		t.Error("errors.Is should match an equal kind and message")
	}
	if errors.Is(err, UndefinedSymbol("other")) {
		t.Error("errors.Is should not match a different message")
	}
	if errors.Is(FromString("Undefined symbol `9f1c`"), UndefinedSymbol("9f1c")) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindMessage, "message"},
		{KindGrammar, "grammar"},
		{KindRegex, "regex"},
		{KindUndefinedSymbol, "undefined-symbol"},
		{KindData, "data"},
		{KindIO, "io"},
		{KindStylesheet, "stylesheet"},
		{Kind(42), "kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.expected)
		}
	}
}

func TestKindOf_NoError(t *testing.T) {
	t.Parallel()
	if _, ok := KindOf(nil); ok {
		t.Error("KindOf(nil) should report false")
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf on a foreign error should report false")
	}
}

func TestConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("invalid value %q for %s", "loud", "SITTERDIFF_LOG_LEVEL")
	expected := `invalid value "loud" for SITTERDIFF_LOG_LEVEL`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	var configErr ConfigError
	if !errors.As(err, &configErr) {
		t.Error("expected error to be ConfigError type")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"grammar", Grammar("x"), ExitErrorGrammar},
		{"regex", Regex("x"), ExitErrorGrammar},
		{"undefined symbol", UndefinedSymbol("x"), ExitErrorGrammar},
		{"io", FromIO(io.ErrUnexpectedEOF), ExitErrorIO},
		{"data", FromJSON(errors.New("bad json")), ExitErrorData},
		{"stylesheet", FromStylesheet(errors.New("bad scss")), ExitErrorGeneric},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"deadline", WrapError(context.DeadlineExceeded, "diff"), ExitErrorTimeout},
		{"canceled through Convert", Convert(context.Canceled), ExitErrorCanceled},
		{"yaml syntax through Convert", Convert(errors.New("yaml: line 2: found character that cannot start any token")), ExitErrorData},
		{"foreign", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCode(tt.err); got != tt.expected {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorGrammar":  ExitErrorGrammar,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorIO":       ExitErrorIO,
		"ExitErrorData":     ExitErrorData,
		"ExitErrorCanceled": ExitErrorCanceled,
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}
	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load profile",
			expectedMsg: "failed to load profile: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "diff timed out",
			expectedMsg: "diff timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    Grammar("bad"),
			format:      "pair %d of %d",
			args:        []any{2, 5},
			expectedMsg: "pair 2 of 5: Grammar error: bad",
			checkIs:     Grammar("bad"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)
			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}
			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"expired context", ctx.Err(), true},
		{"converted context.Canceled", Convert(context.Canceled), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}
