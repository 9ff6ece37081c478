package render

import (
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bep/godartsass/v2"
	"github.com/google/uuid"

	"github.com/agbru/sitterdiff/internal/editscript"
	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/logging"
	"github.com/agbru/sitterdiff/internal/tree"
	"github.com/agbru/sitterdiff/internal/truediff"
)

// HTMLOptions selects the report theme.
type HTMLOptions struct {
	Title string
	// StylesheetPath names a .css, .scss or .sass theme. Empty selects the
	// built-in theme.
	StylesheetPath string
	// SassBinary is the Dart Sass executable used for .scss and .sass
	// themes. Without it those themes fall back to the built-in one.
	SassBinary string
	Logger     logging.Logger
}

// HTML writes self-contained report pages.
type HTML struct {
	title string
	css   template.CSS
}

// NewHTML loads and, when needed, compiles the theme.
func NewHTML(opts HTMLOptions) (*HTML, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	title := opts.Title
	if title == "" {
		title = "sitterdiff report"
	}
	css, err := loadTheme(opts, logger)
	if err != nil {
		return nil, err
	}
	return &HTML{title: title, css: template.CSS(css)}, nil
}

func loadTheme(opts HTMLOptions, logger logging.Logger) (string, error) {
	if opts.StylesheetPath == "" {
		return defaultCSS, nil
	}
	data, err := os.ReadFile(opts.StylesheetPath)
	if err != nil {
		return "", apperrors.FromIO(err)
	}

	var syntax godartsass.SourceSyntax
	switch strings.ToLower(filepath.Ext(opts.StylesheetPath)) {
	case ".css":
		return string(data), nil
	case ".sass":
		syntax = godartsass.SourceSyntaxSASS
	default:
		syntax = godartsass.SourceSyntaxSCSS
	}
	if opts.SassBinary == "" {
		logger.Warn("no sass binary configured, using the built-in theme",
			logging.String("stylesheet", opts.StylesheetPath))
		return defaultCSS, nil
	}
	return CompileStylesheet(opts.SassBinary, string(data), syntax)
}

// CompileStylesheet runs source through the Dart Sass binary at binary.
func CompileStylesheet(binary, source string, syntax godartsass.SourceSyntax) (string, error) {
	transpiler, err := godartsass.Start(godartsass.Options{DartSassEmbeddedFilename: binary})
	if err != nil {
		return "", apperrors.FromStylesheet(err)
	}
	defer transpiler.Close()

	res, err := transpiler.Execute(godartsass.Args{
		Source:       source,
		SourceSyntax: syntax,
		OutputStyle:  godartsass.OutputStyleCompressed,
	})
	if err != nil {
		return "", apperrors.FromStylesheet(err)
	}
	return res.CSS, nil
}

type htmlNode struct {
	Kind     string
	Field    string
	Literal  string
	Class    string
	Children []htmlNode
}

type htmlEdit struct {
	Kind string
	Text string
}

type htmlPage struct {
	Title string
	CSS   template.CSS
	Old   htmlNode
	New   htmlNode
	Edits []htmlEdit
	Stats truediff.Stats
}

// Write renders the report for res to w. Old nodes that are dropped and
// new nodes that are loaded are marked, as are literals that change.
func (h *HTML) Write(w io.Writer, res *truediff.Result) error {
	if res == nil || res.Old.Size() == 0 || res.New.Size() == 0 {
		return apperrors.Grammar("nothing to render: diff result has no trees")
	}
	reusedOld := make(map[uuid.UUID]bool, len(res.Matches))
	oldOf := make(map[uuid.UUID]uuid.UUID, len(res.Matches))
	for _, m := range res.Matches {
		reusedOld[m.Old] = true
		oldOf[m.New] = m.Old
	}
	updated := make(map[uuid.UUID]bool)
	page := htmlPage{Title: h.title, CSS: h.css, Stats: res.Stats}
	for _, e := range res.Script.Edits() {
		if e.Kind == editscript.Update {
			updated[e.ID] = true
		}
		page.Edits = append(page.Edits, htmlEdit{Kind: strings.ToLower(e.Kind.String()), Text: e.String()})
	}

	page.Old = buildNode(res.Old.Root.Node, func(n *tree.Node) string {
		switch {
		case updated[n.ID]:
			return "updated"
		case reusedOld[n.ID]:
			return "kept"
		}
		return "removed"
	})
	page.New = buildNode(res.New.Root.Node, func(n *tree.Node) string {
		old, ok := oldOf[n.ID]
		switch {
		case ok && updated[old]:
			return "updated"
		case ok:
			return "kept"
		}
		return "added"
	})

	if err := reportTemplate.Execute(w, page); err != nil {
		return apperrors.Convert(err)
	}
	return nil
}

func buildNode(n *tree.Node, class func(*tree.Node) string) htmlNode {
	out := htmlNode{Kind: n.Kind.Name, Field: n.Field, Literal: n.Literal, Class: class(n)}
	for _, c := range n.Children {
		out.Children = append(out.Children, buildNode(c, class))
	}
	return out
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="stats">{{.Stats.OldNodes}} old nodes, {{.Stats.NewNodes}} new nodes, {{.Stats.Reused}} reused, {{.Stats.Edits}} edits</p>
<div class="trees">
<section class="tree old"><h2>Old</h2><ul>{{template "node" .Old}}</ul></section>
<section class="tree new"><h2>New</h2><ul>{{template "node" .New}}</ul></section>
</div>
<section class="edits"><h2>Edits</h2>
<ol>{{range .Edits}}<li class="edit {{.Kind}}"><code>{{.Text}}</code></li>{{end}}</ol>
</section>
</body>
</html>
{{define "node"}}<li class="{{.Class}}">{{if .Field}}<span class="field">{{.Field}}:</span> {{end}}<span class="kind">{{.Kind}}</span>{{if .Literal}} <code class="literal">{{.Literal}}</code>{{end}}{{if .Children}}<ul>{{range .Children}}{{template "node" .}}{{end}}</ul>{{end}}</li>{{end}}
`))

const defaultCSS = `body{font-family:system-ui,sans-serif;margin:2rem;color:#222}
.trees{display:flex;gap:2rem}
.tree{flex:1}
.tree ul{list-style:none;padding-left:1.2rem;border-left:1px dotted #bbb}
.field{color:#777}
.kind{font-weight:600}
.literal{background:#f4f4f4;padding:0 .2rem}
.removed>.kind{color:#c62828;text-decoration:line-through}
.added>.kind{color:#2e7d32}
.updated>.literal{background:#fff3c4}
.edit.detach,.edit.unload,.edit.detach_unload{color:#c62828}
.edit.attach,.edit.load,.edit.load_attach{color:#2e7d32}
.edit.update{color:#8a6d00}
`
