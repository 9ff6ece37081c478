package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	testErr := errors.New("Undefined symbol `pair`")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("language", "json"), "language", "json"},
		{"Int", Int("edits", 12), "edits", 12},
		{"Uint64", Uint64("nodes", 18446744073709551615), "nodes", uint64(18446744073709551615)},
		{"Float64", Float64("ratio", 0.75), "ratio", 0.75},
		{"Bool", Bool("fused", true), "fused", true},
		{"Duration", Duration("elapsed", 3*time.Millisecond), "elapsed", 3 * time.Millisecond},
		{"Err", Err(testErr), "error", testErr},
		{"Err with nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestNewLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "truediff")
	logger.Info("compare finished", Int("edits", 4))

	output := buf.String()
	for _, want := range []string{`"component":"truediff"`, "compare finished", `"edits":4`, `"level":"info"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "render")
	logger.Warn("palette exhausted", Int("pairs", 30))

	output := buf.String()
	for _, want := range []string{"WRN", "palette exhausted", "pairs=30"} {
		if !strings.Contains(output, want) {
			t.Errorf("console output should contain %q, got: %s", want, output)
		}
	}
}

func TestNewDefaultAndNopLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
	nop := NewNopLogger()
	if nop == nil {
		t.Fatal("NewNopLogger returned nil")
	}
	nop.Info("dropped")
	nop.Error("dropped", errors.New("x"))
}

func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "debug",
			log:      func(l Logger) { l.Debug("hashing subtree", String("kind", "object")) },
			contains: []string{`"level":"debug"`, "hashing subtree", "object"},
		},
		{
			name:     "warn",
			log:      func(l Logger) { l.Warn("syntax errors tolerated") },
			contains: []string{`"level":"warn"`, "syntax errors tolerated"},
		},
		{
			name:     "error with cause and fields",
			log:      func(l Logger) { l.Error("profile rejected", errors.New("Regex error: bad"), String("path", "json.yaml")) },
			contains: []string{`"level":"error"`, "profile rejected", "Regex error: bad", "json.yaml"},
		},
		{
			name:     "error with nil cause",
			log:      func(l Logger) { l.Error("no cause", nil) },
			contains: []string{`"level":"error"`, "no cause"},
		},
		{
			name:     "printf",
			log:      func(l Logger) { l.Printf("%d edits for %s", 7, "a.json") },
			contains: []string{"7 edits for a.json"},
		},
		{
			name:     "println",
			log:      func(l Logger) { l.Println("old", "new") },
			contains: []string{"old new"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))
			tt.log(logger)
			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestZerologAdapter_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test").WithLevel(zerolog.WarnLevel)
	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info entry should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("warn entry should pass, got: %s", output)
	}
}

func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "pi", Value: 3.14}, "3.14"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"duration field", Field{Key: "took", Value: 1500 * time.Millisecond}, "1500"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info("test", tt.field)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, buf.String())
			}
		})
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "debug",
			log:      func(l Logger) { l.Debug("trace", Int("line", 42)) },
			contains: []string{"[DEBUG]", "trace", "line=42"},
		},
		{
			name:     "info",
			log:      func(l Logger) { l.Info("loaded profile", String("language", "json")) },
			contains: []string{"[INFO]", "loaded profile", "language=json"},
		},
		{
			name:     "warn",
			log:      func(l Logger) { l.Warn("cache disabled") },
			contains: []string{"[WARN]", "cache disabled"},
		},
		{
			name:     "error",
			log:      func(l Logger) { l.Error("apply failed", errors.New("boom"), String("script", "s.json")) },
			contains: []string{"[ERROR]", "apply failed", "error=boom", "script=s.json"},
		},
		{
			name:     "printf",
			log:      func(l Logger) { l.Printf("value is %d", 123) },
			contains: []string{"value is 123"},
		},
		{
			name:     "println",
			log:      func(l Logger) { l.Println("a", "b", "c") },
			contains: []string{"a b c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))
			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggerInterface(t *testing.T) {
	var buf bytes.Buffer
	var _ Logger = NewLogger(&buf, "test")
	var _ Logger = NewStdLoggerAdapter(log.New(&buf, "", 0))
}
