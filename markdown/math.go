package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	KindMath      = ast.NewNodeKind("Math")
	KindMathBlock = ast.NewNodeKind("MathBlock")
)

// Math is inline math: $x$ or, displayed, $$x$$ within a line.
type Math struct {
	ast.BaseInline
	Display bool
	Literal []byte
}

func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Literal": string(n.Literal)}, nil)
}

// MathBlock is flow math written as a fenced block with the "math" info string.
type MathBlock struct {
	ast.BaseBlock
	Literal []byte
}

func (n *MathBlock) Kind() ast.NodeKind {
	return KindMathBlock
}

func (n *MathBlock) IsRaw() bool {
	return true
}

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Literal": string(n.Literal)}, nil)
}

type mathExtension struct{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&inlineMathParser{}, 150)),
		parser.WithASTTransformers(util.Prioritized(&mathFenceTransformer{}, 100)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 500),
	))
}

type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse follows the pandoc rules for single dollars so prices are left
// alone: no space just inside the delimiters and no digit right after the
// closing one.
func (p *inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if bytes.HasPrefix(line, []byte("$$")) {
		delim = 2
	}
	if len(line) <= 2*delim {
		return nil
	}
	body := line[delim:]
	end := bytes.Index(body, line[:delim])
	if end <= 0 {
		return nil
	}
	literal := body[:end]
	if delim == 1 {
		if literal[0] == ' ' || literal[len(literal)-1] == ' ' {
			return nil
		}
		if after := 2*delim + end; after < len(line) && line[after] >= '0' && line[after] <= '9' {
			return nil
		}
	}
	block.Advance(2*delim + end)
	return &Math{Display: delim == 2, Literal: append([]byte(nil), literal...)}
}

type mathFenceTransformer struct{}

func (t *mathFenceTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var fences []*ast.FencedCodeBlock
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fc, ok := n.(*ast.FencedCodeBlock); ok && string(fc.Language(source)) == "math" {
			fences = append(fences, fc)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, fc := range fences {
		var b bytes.Buffer
		lines := fc.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		parent := fc.Parent()
		parent.ReplaceChild(parent, fc, &MathBlock{Literal: b.Bytes()})
	}
}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
	reg.Register(KindMathBlock, r.renderMathBlock)
}

func (r *mathRenderer) renderMath(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	m := n.(*Math)
	class := "math math-inline"
	if m.Display {
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.Write(util.EscapeHTML(m.Literal))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderMathBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	m := n.(*MathBlock)
	_, _ = w.WriteString(`<div class="math math-display">`)
	_, _ = w.Write(util.EscapeHTML(m.Literal))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
