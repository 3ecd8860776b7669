// Package markdown converts Markdown into HTML for posts and files.
//
// Rendering is CommonMark plus the GitHub extensions (tables, strikethrough,
// task lists, autolinks) and math. Raw HTML from the trusted content corpus
// passes through; links and images with dangerous schemes are unwrapped.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML. It is safe for concurrent use and
// deterministic: the same input always yields the same bytes.
type Renderer struct {
	md goldmark.Markdown
}

type options struct {
	trustedHTML bool
	hardWraps   bool
}

// Option configures a Renderer.
type Option func(*options)

// WithTrustedHTML controls raw HTML passthrough (default true). When false,
// raw HTML is replaced by a comment.
func WithTrustedHTML(trusted bool) Option {
	return func(o *options) {
		o.trustedHTML = trusted
	}
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps() Option {
	return func(o *options) {
		o.hardWraps = true
	}
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	o := options{trustedHTML: true}
	for _, opt := range opts {
		opt(&o)
	}
	var rendererOpts []goldmark.Option
	var htmlOpts []renderer.Option
	if o.trustedHTML {
		htmlOpts = append(htmlOpts, gmhtml.WithUnsafe())
	}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}
	rendererOpts = append(rendererOpts,
		goldmark.WithExtensions(extension.GFM, &mathExtension{}, &linkPolicy{}),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &Renderer{md: goldmark.New(rendererOpts...)}
}

// Default is the renderer pages use.
var Default = New()

// Render returns the HTML for src.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
