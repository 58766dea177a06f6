// Package docs renders a static HTML site for installed skills and can
// serve it for local preview.
package docs

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Page is one skill's documentation source.
type Page struct {
	Name        string
	Description string
	Source      string // source identifier the skill came from
	Markdown    []byte // full SKILL.md content, front matter included
}

// Site generates the static site.
type Site struct {
	Title string
	md    goldmark.Markdown
}

// NewSite creates a generator.
func NewSite(title string) *Site {
	if title == "" {
		title = "Skills"
	}
	return &Site{
		Title: title,
		md: goldmark.New(
			goldmark.WithExtensions(meta.Meta),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Generate writes index.html plus one page per skill into outDir. Pages
// are emitted in name order so regeneration is deterministic.
func (s *Site) Generate(outDir string, pages []Page) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	sorted := make([]Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, p := range sorted {
		body, err := s.render(p.Markdown)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", p.Name, err)
		}
		out := filepath.Join(outDir, p.Name+".html")
		if err := s.writePage(out, p.Name, body); err != nil {
			return err
		}
	}

	return s.writeIndex(filepath.Join(outDir, "index.html"), sorted)
}

// render converts markdown to HTML, stripping the front matter.
func (s *Site) render(markdown []byte) (template.HTML, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := s.md.Convert(markdown, &buf, parser.WithContext(ctx)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · {{.Site}}</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: ui-monospace, monospace; }
a { color: #7c3aed; }
nav { margin-bottom: 2rem; }
</style>
</head>
<body>
<nav><a href="index.html">← all skills</a></nav>
{{.Body}}
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Site}}</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
a { color: #7c3aed; text-decoration: none; }
li { margin-bottom: 0.5rem; }
.desc { color: #6b7280; }
.src { color: #9ca3af; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Site}}</h1>
<ul>
{{range .Pages}}<li><a href="{{.Name}}.html">{{.Name}}</a> <span class="desc">{{.Description}}</span> <span class="src">{{.Source}}</span></li>
{{end}}</ul>
</body>
</html>
`))

func (s *Site) writePage(path, title string, body template.HTML) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return pageTemplate.Execute(f, struct {
		Title string
		Site  string
		Body  template.HTML
	}{Title: title, Site: s.Title, Body: body})
}

func (s *Site) writeIndex(path string, pages []Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return indexTemplate.Execute(f, struct {
		Site  string
		Pages []Page
	}{Site: s.Title, Pages: pages})
}

// Serve hosts a generated site directory on addr until the listener
// fails. Blocks.
func Serve(addr, dir string) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(dir)))
	return http.ListenAndServe(addr, mux)
}
