// Package markdown renders post bodies to HTML with goldmark and exposes the
// result as a templ component.
package markdown

import (
	"bytes"
	"context"
	"html"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

type options struct {
	unsafeHTML bool
	hardWraps  bool
}

// Option configures a Renderer.
type Option func(*options)

// WithUnsafeHTML passes raw HTML in the Markdown source through to the output.
func WithUnsafeHTML() Option {
	return func(o *options) { o.unsafeHTML = true }
}

// WithHardWraps renders single newlines inside paragraphs as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// New builds a CommonMark + GFM renderer.
func New(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var rendererOpts []renderer.Option
	if o.unsafeHTML {
		rendererOpts = append(rendererOpts, gmhtml.WithUnsafe())
	}
	if o.hardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps())
	}
	rendererOpts = append(rendererOpts,
		renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{}, 100)))

	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)}
}

var defaultRenderer = New()

// RenderMarkdown writes the HTML representation of md to buf.
func (r *Renderer) RenderMarkdown(buf *bytes.Buffer, md string) error {
	return r.md.Convert([]byte(md), buf)
}

// HTML converts md and returns it as trusted template HTML.
func (r *Renderer) HTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.RenderMarkdown(&buf, md); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Component returns a templ.Component that renders md as HTML.
func (r *Renderer) Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := r.RenderMarkdown(&buf, md); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Markdown returns a templ.Component that renders md with the default renderer.
func Markdown(content string) templ.Component {
	return defaultRenderer.Component(content)
}

// RenderMarkdown writes md as HTML to buf with the default renderer.
func RenderMarkdown(buf *bytes.Buffer, md string) error {
	return defaultRenderer.RenderMarkdown(buf, md)
}

// codeBlockRenderer wraps fenced code with a language badge.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := html.EscapeString(string(n.Language(source)))
	if lang != "" {
		_, _ = w.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + lang + `">` + lang + `</span>`)
		_, _ = w.WriteString(`<pre class="code-block"><code class="language-` + lang + `">`)
	} else {
		_, _ = w.WriteString(`<pre class="code-block"><code>`)
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	_, _ = w.WriteString("</code></pre>")
	if lang != "" {
		_, _ = w.WriteString("</div>")
	}
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
