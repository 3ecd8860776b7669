package page

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/a-h/templ"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/transform"
	"github.com/segv/websegment/views"
)

// TextIndex lists the text files that may be shown.
const TextIndex = "/texts/index.list"

// MarkdownFile renders /files/<filename>.
type MarkdownFile struct {
	filename string
	machine  *fetch.Machine[string]
}

func newMarkdownFile(env *Env, filename string, notify func()) *MarkdownFile {
	load := func(ctx context.Context, filename string) (string, error) {
		body, err := env.Source.Get(ctx, "/files/"+url.PathEscape(filename))
		if err != nil {
			return "", err
		}
		html, err := env.renderer().Render(string(body))
		if err != nil {
			return "", &fetch.ParseError{What: "markdown", Err: err}
		}
		return html, nil
	}
	return &MarkdownFile{
		filename: filename,
		machine: fetch.NewMachine(env.Loop, load,
			fetch.WithCache[string](env.Stores.Files),
			fetch.WithLogger[string](env.Log),
			onChange[string](notify),
		),
	}
}

func (p *MarkdownFile) Kind() route.Name { return route.File }

func (p *MarkdownFile) Show(r route.Route) { p.filename = r.Param }

func (p *MarkdownFile) View() View {
	p.machine.Sync(p.filename)
	model := p.machine.Tick()
	body, redirect := render(model.State, func() templ.Component {
		return views.Document(model.Content)
	})
	return View{Title: p.filename, Body: body, State: model.State, Redirect: redirect, OGType: "article"}
}

func (p *MarkdownFile) Unmount() { p.machine.Detach() }

// Text shows a plain text file, but only one named in the text index.
type Text struct {
	filename string
	machine  *fetch.Machine[string]
}

func newText(env *Env, filename string, notify func()) *Text {
	return &Text{
		filename: filename,
		machine: fetch.NewMachine(env.Loop, LoadText(env.Source),
			fetch.WithCache[string](env.Stores.Texts),
			fetch.WithLogger[string](env.Log),
			onChange[string](notify),
		),
	}
}

// LoadText checks filename against the text index before fetching it. A
// name absent from the index is not found without requesting the file; a
// missing index lists nothing.
func LoadText(src Fetcher) fetch.Loader[string] {
	return func(ctx context.Context, filename string) (string, error) {
		var names []string
		index, err := src.Get(ctx, TextIndex)
		switch {
		case errors.Is(err, fetch.ErrNotFound):
		case err != nil:
			return "", fmt.Errorf("couldn't fetch index.list, %w", err)
		default:
			if names, err = transform.DecodeList[string]("index.list file", index); err != nil {
				return "", err
			}
		}
		ref := "/texts/" + url.PathEscape(filename)
		if !slices.Contains(names, filename) {
			return "", &fetch.NotFoundError{URL: ref}
		}
		body, err := src.Get(ctx, ref)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}
}

func (p *Text) Kind() route.Name { return route.Text }

func (p *Text) Show(r route.Route) { p.filename = r.Param }

func (p *Text) View() View {
	p.machine.Sync(p.filename)
	model := p.machine.Tick()
	body, redirect := render(model.State, func() templ.Component {
		return views.Text(model.Content, "/texts/"+url.PathEscape(p.filename))
	})
	return View{Title: p.filename, Body: body, State: model.State, Redirect: redirect}
}

func (p *Text) Unmount() { p.machine.Detach() }
