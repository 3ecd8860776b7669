package page

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/transform"
	"github.com/segv/websegment/views"
)

// PostsIndex is the reference of the posts index, also its store key.
const PostsIndex = "/posts.json"

// PostList shows /posts.json as cards. A missing index is an empty list.
type PostList struct {
	machine *fetch.Machine[[]transform.PostEntry]
}

func newPostList(env *Env, notify func()) *PostList {
	return &PostList{
		machine: fetch.NewMachine(env.Loop, LoadPostIndex(env.Source),
			fetch.AsList[[]transform.PostEntry](),
			fetch.WithCache[[]transform.PostEntry](env.Stores.Posts),
			fetch.WithLogger[[]transform.PostEntry](env.Log),
			onChange[[]transform.PostEntry](notify),
		),
	}
}

// LoadPostIndex fetches and decodes the posts index at ref.
func LoadPostIndex(src Fetcher) fetch.Loader[[]transform.PostEntry] {
	return func(ctx context.Context, ref string) ([]transform.PostEntry, error) {
		body, err := src.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		return transform.DecodeList[transform.PostEntry]("posts.json", body)
	}
}

func (p *PostList) Kind() route.Name { return route.Posts }

func (p *PostList) Show(route.Route) {}

func (p *PostList) View() View {
	p.machine.Sync(PostsIndex)
	model := p.machine.Tick()
	body, redirect := render(model.State, func() templ.Component {
		if len(model.Content) == 0 {
			return views.Empty()
		}
		cards := make([]views.Card, 0, len(model.Content))
		for _, e := range model.Content {
			cards = append(cards, views.Card{
				Title:    e.Title,
				Subtext:  e.Date,
				URL:      route.Route{Name: route.Post, Param: e.Filename}.Path(),
				Internal: true,
			})
		}
		return views.CardGrid(cards)
	})
	return View{Title: "Posts", Body: body, State: model.State, Redirect: redirect}
}

func (p *PostList) Unmount() { p.machine.Detach() }

// Post shows /texts/<filename> as a post: a title line, a date line and a
// Markdown body.
type Post struct {
	env      *Env
	filename string
	machine  *fetch.Machine[PostData]
}

func newPost(env *Env, filename string, notify func()) *Post {
	return &Post{
		env:      env,
		filename: filename,
		machine: fetch.NewMachine(env.Loop, loadPost(env),
			fetch.WithCache[PostData](env.Stores.Post),
			fetch.WithLogger[PostData](env.Log),
			onChange[PostData](notify),
		),
	}
}

func loadPost(env *Env) fetch.Loader[PostData] {
	return func(ctx context.Context, filename string) (PostData, error) {
		body, err := env.Source.Get(ctx, "/texts/"+url.PathEscape(filename))
		if err != nil {
			return PostData{}, err
		}
		meta, md, err := transform.SplitPost(string(body))
		if err != nil {
			return PostData{}, err
		}
		html, err := env.renderer().Render(md)
		if err != nil {
			return PostData{}, &fetch.ParseError{What: "markdown", Err: err}
		}
		return PostData{Meta: meta, Body: html}, nil
	}
}

func (p *Post) Kind() route.Name { return route.Post }

func (p *Post) Show(r route.Route) { p.filename = r.Param }

func (p *Post) View() View {
	p.machine.Sync(p.filename)
	model := p.machine.Tick()
	title, ld := "Post", ""
	body, redirect := render(model.State, func() templ.Component {
		meta := model.Content.Meta
		title = meta.Title
		ld = views.PostingJsonLD(p.env.Site, meta.Title, meta.Date, p.filename)
		return views.Post(meta.Title, meta.Date, model.Content.Body)
	})
	return View{Title: title, Body: body, State: model.State, Redirect: redirect, OGType: "article", JSONLD: ld}
}

func (p *Post) Unmount() { p.machine.Detach() }
