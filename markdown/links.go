package markdown

import (
	"html"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/segv/websegment/route"
)

// SafeURL validates a link target. It returns the trimmed URL, or "" when
// the scheme is not one a page may link to. Relative references are safe.
// Character references are decoded and control characters dropped before
// the scheme is read, the way a browser would.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	decoded := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(html.UnescapeString(val)))
	if decoded == "" {
		return ""
	}
	if strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "#") || strings.HasPrefix(decoded, "?") {
		return val
	}
	parsed, err := url.Parse(decoded)
	if err != nil {
		return ""
	}
	if parsed.Scheme == "" {
		return val
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}

// linkPolicy unwraps links and images whose destination fails SafeURL and
// tags internal links that name a known route with data-route, so the shell
// can navigate to them without a reload.
type linkPolicy struct{}

func (e *linkPolicy) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&linkPolicyTransformer{}, 200),
	))
}

type linkPolicyTransformer struct{}

func (t *linkPolicyTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var unsafe []ast.Node
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			if SafeURL(string(v.Destination)) == "" {
				unsafe = append(unsafe, v)
				return ast.WalkContinue, nil
			}
			if r, ok := internalRoute(string(v.Destination)); ok {
				v.SetAttributeString("data-route", []byte(r.Path()))
			}
		case *ast.Image:
			if SafeURL(string(v.Destination)) == "" {
				unsafe = append(unsafe, v)
			}
		case *ast.AutoLink:
			if SafeURL(string(v.URL(source))) == "" {
				unsafe = append(unsafe, v)
			}
		}
		return ast.WalkContinue, nil
	})
	// Children are collected first; the tree is not mutated while walking.
	for i := len(unsafe) - 1; i >= 0; i-- {
		unwrap(unsafe[i], source)
	}
}

func internalRoute(dest string) (route.Route, bool) {
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return route.Route{}, false
	}
	return route.Parse(dest)
}

// unwrap replaces n with its children, or with its label for autolinks.
func unwrap(n ast.Node, source []byte) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	if al, ok := n.(*ast.AutoLink); ok {
		parent.ReplaceChild(parent, n, ast.NewString(al.Label(source)))
		return
	}
	for c := n.FirstChild(); c != nil; {
		next := c.NextSibling()
		parent.InsertBefore(parent, n, c)
		c = next
	}
	parent.RemoveChild(parent, n)
}
