// Package richtext renders Markdown message text for the terminal.
package richtext

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tessro/chatsurface/internal/presentation"
)

// Styles are applied to inline and block elements.
type Styles struct {
	Emphasis lipgloss.Style
	Strong   lipgloss.Style
	Strike   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	Heading  lipgloss.Style
	Quote    lipgloss.Style
}

// ThemeStyles derives styles from a theme.
func ThemeStyles(theme *presentation.Theme) Styles {
	if theme == nil {
		theme = presentation.DefaultTheme()
	}
	return Styles{
		Emphasis: lipgloss.NewStyle().Italic(true),
		Strong:   lipgloss.NewStyle().Bold(true),
		Strike:   lipgloss.NewStyle().Strikethrough(true),
		Code:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)),
		Link:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent)).Underline(true),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Text)),
		Quote:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SecondaryText)),
	}
}

// PlainStyles returns styles that add no attributes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Emphasis: plain,
		Strong:   plain,
		Strike:   plain,
		Code:     plain,
		Link:     plain,
		Heading:  plain,
		Quote:    plain,
	}
}

// Renderer converts Markdown to styled, wrapped terminal text.
type Renderer struct {
	md     goldmark.Markdown
	styles Styles
}

// New returns a renderer with bare URL detection and strikethrough enabled.
func New(styles Styles) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Linkify,
				extension.Strikethrough,
			),
		),
		styles: styles,
	}
}

// Render renders src wrapped to width. A width of zero or less disables wrapping.
func (r *Renderer) Render(src string, width int) string {
	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source))
	w := &walker{r: r, source: source}
	return strings.TrimRight(w.blocks(doc, width, "\n\n"), "\n")
}

// Plain returns the unstyled text of src on a single line.
func (r *Renderer) Plain(src string) string {
	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source))
	w := &walker{r: &Renderer{md: r.md, styles: PlainStyles()}, source: source}
	return strings.Join(strings.Fields(w.blocks(doc, 0, " ")), " ")
}

// URLs returns link destinations in src in order of appearance, including
// bare URLs.
func (r *Renderer) URLs(src string) []string {
	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source))
	var urls []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.AutoLink:
			urls = append(urls, string(n.URL(source)))
		case *ast.Link:
			urls = append(urls, string(n.Destination))
		}
		return ast.WalkContinue, nil
	})
	return urls
}

type walker struct {
	r      *Renderer
	source []byte
}

func (w *walker) blocks(parent ast.Node, width int, sep string) string {
	var parts []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s := w.block(c, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (w *walker) block(n ast.Node, width int) string {
	st := w.r.styles
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return wrap(w.inlines(n), width)
	case *ast.Heading:
		return wrap(st.Heading.Render(w.inlines(n)), width)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(w.source))
		}
		code := strings.TrimRight(b.String(), "\n")
		return indent.String(st.Code.Render(code), 2)
	case *ast.Blockquote:
		inner := w.blocks(n, width-2, "\n")
		return prefixLines(inner, st.Quote.Render("│ "))
	case *ast.List:
		return w.list(n, width)
	case *ast.ThematicBreak:
		return strings.Repeat("─", max(min(width, 20), 3))
	case *ast.HTMLBlock:
		return ""
	default:
		return w.blocks(n, width, "\n")
	}
}

func (w *walker) list(l *ast.List, width int) string {
	var items []string
	num := l.Start
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		body := w.blocks(c, width-len(marker), "\n")
		pad := strings.Repeat(" ", len(marker))
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = marker + lines[i]
			} else {
				lines[i] = pad + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func (w *walker) inlines(parent ast.Node) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(w.inline(c))
	}
	return b.String()
}

func (w *walker) inline(n ast.Node) string {
	st := w.r.styles
	switch n := n.(type) {
	case *ast.Text:
		s := string(n.Segment.Value(w.source))
		switch {
		case n.HardLineBreak():
			s += "\n"
		case n.SoftLineBreak():
			s += " "
		}
		return s
	case *ast.String:
		return string(n.Value)
	case *ast.Emphasis:
		if n.Level >= 2 {
			return st.Strong.Render(w.inlines(n))
		}
		return st.Emphasis.Render(w.inlines(n))
	case *east.Strikethrough:
		return st.Strike.Render(w.inlines(n))
	case *ast.CodeSpan:
		return st.Code.Render(w.inlines(n))
	case *ast.Link:
		return st.Link.Render(w.inlines(n))
	case *ast.AutoLink:
		return st.Link.Render(string(n.Label(w.source)))
	case *ast.RawHTML:
		return ""
	default:
		return w.inlines(n)
	}
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
