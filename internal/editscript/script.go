package editscript

import (
	"bytes"
	"io"
	"strings"

	"github.com/goccy/go-json"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
)

// Script is a finished edit script.
type Script struct {
	edits []Edit
}

// NewScript wraps edits in a Script without reordering them.
func NewScript(edits ...Edit) *Script {
	return &Script{edits: append([]Edit(nil), edits...)}
}

// Edits returns a copy of the edits in order.
func (s *Script) Edits() []Edit {
	if s == nil {
		return nil
	}
	return append([]Edit(nil), s.edits...)
}

// Len returns the number of edits.
func (s *Script) Len() int {
	if s == nil {
		return 0
	}
	return len(s.edits)
}

// Core returns the script with every fused edit expanded into its
// primitive edits.
func (s *Script) Core() *Script {
	out := &Script{}
	for _, e := range s.Edits() {
		out.edits = append(out.edits, e.Core()...)
	}
	return out
}

// Counts returns the number of edits per kind.
func (s *Script) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range s.Edits() {
		counts[e.Kind]++
	}
	return counts
}

// String renders one edit per line.
func (s *Script) String() string {
	var b strings.Builder
	for _, e := range s.Edits() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type scriptJSON struct {
	Edits []Edit `json:"edits"`
}

// MarshalJSON implements json.Marshaler.
func (s *Script) MarshalJSON() ([]byte, error) {
	edits := s.Edits()
	if edits == nil {
		edits = []Edit{}
	}
	data, err := json.Marshal(scriptJSON{Edits: edits})
	if err != nil {
		return nil, apperrors.FromJSON(err)
	}
	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Script) UnmarshalJSON(data []byte) error {
	var raw scriptJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.FromJSON(err)
	}
	s.edits = raw.Edits
	return nil
}

// Encode writes the script to w as indented JSON.
func (s *Script) Encode(w io.Writer) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return apperrors.FromJSON(err)
	}
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return apperrors.FromIO(err)
	}
	return nil
}

// Decode reads a script written by Encode.
func Decode(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.FromIO(err)
	}
	s := &Script{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}
