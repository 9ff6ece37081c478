package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sitterdiff/internal/editscript"
	"github.com/agbru/sitterdiff/internal/truediff"
)

// Terminal renders edit scripts for a terminal, one coloured line per
// edit. Colours are dropped when the output is not a colour terminal.
type Terminal struct {
	kinds   map[editscript.Kind]lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	summary lipgloss.Style
}

// NewTerminal builds the styles for output written to w.
func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)
	negative := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"})
	positive := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "82"})
	return &Terminal{
		kinds: map[editscript.Kind]lipgloss.Style{
			editscript.Detach:       negative,
			editscript.Unload:       negative,
			editscript.DetachUnload: negative.Bold(true),
			editscript.Attach:       positive,
			editscript.Load:         positive,
			editscript.LoadAttach:   positive.Bold(true),
			editscript.Update:       r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "220"}),
		},
		label:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}),
		value:   r.NewStyle().Bold(true),
		summary: r.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false),
	}
}

// Render returns the script, one edit per line, in script order.
func (t *Terminal) Render(script *editscript.Script) string {
	var b strings.Builder
	for _, e := range script.Edits() {
		style, ok := t.kinds[e.Kind]
		if !ok {
			style = t.label
		}
		b.WriteString(style.Render(e.String()))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderStats returns a short block summarising a comparison.
func (t *Terminal) RenderStats(stats truediff.Stats) string {
	rows := []struct {
		name  string
		value string
	}{
		{"nodes", fmt.Sprintf("%d -> %d", stats.OldNodes, stats.NewNodes)},
		{"reused", fmt.Sprint(stats.Reused)},
		{"loaded", fmt.Sprint(stats.Loaded)},
		{"unloaded", fmt.Sprint(stats.Unloaded)},
		{"updated", fmt.Sprint(stats.Updated)},
		{"edits", fmt.Sprint(stats.Edits)},
		{"time", stats.Duration.String()},
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = t.label.Render(fmt.Sprintf("%-9s", row.name)) + t.value.Render(row.value)
	}
	return t.summary.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
