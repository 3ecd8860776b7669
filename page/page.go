// Package page implements the site's pages. Data-backed pages each own one
// fetch.Machine; static pages render straight from configuration.
//
// Every method of a Page runs on the event loop.
package page

import (
	"context"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/gommon/log"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/markdown"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/views"
)

// Fetcher returns the body behind an origin-relative or absolute reference.
// A missing resource is reported with an error matching fetch.ErrNotFound.
type Fetcher interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Projects selects where the projects gallery comes from.
type Projects struct {
	Source        string // "pinned", "starred" or "index"
	PinnedAPI     string // aggregator base; the username is appended
	GitHubAPI     string // GitHub REST base
	CardImageBase string // repository card images; empty disables them
	CORSProxy     string // prefixed to page URLs when scraping the index
	Concurrency   int    // parallel page scrapes for the index source
}

// Env is what pages share: the loop, the content source, the renderer and
// the stores. It is created once by the application and passed to every
// page it constructs.
type Env struct {
	Loop     *fetch.Loop
	Source   Fetcher
	Markdown *markdown.Renderer
	Stores   *Stores
	Site     views.SiteConfig
	Projects Projects
	Log      *log.Logger
	Now      func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *log.Logger {
	if e.Log != nil {
		return e.Log
	}
	return log.New("page")
}

func (e *Env) renderer() *markdown.Renderer {
	if e.Markdown != nil {
		return e.Markdown
	}
	return markdown.Default
}

// View is one render of a page.
type View struct {
	Title    string
	Body     templ.Component
	State    fetch.State
	Redirect string // set when the page asks to navigate elsewhere
	Status   int    // HTTP status for a full document; zero means 200
	OGType   string
	JSONLD   string
}

// Page is a mounted page. Show rebinds a page of the same kind to a new
// route, View is the render tick, and Unmount detaches it so late results
// are discarded.
type Page interface {
	Kind() route.Name
	Show(r route.Route)
	View() View
	Unmount()
}

// New mounts the page for r. notify, when non-nil, is called on the loop
// after every state transition of the page's machine.
func New(env *Env, r route.Route, notify func()) Page {
	switch r.Name {
	case route.Home:
		return newHome(env)
	case route.Links:
		return &static{kind: route.Links, title: r.Title(), body: views.Links(env.Site)}
	case route.Posts:
		return newPostList(env, notify)
	case route.Post:
		return newPost(env, r.Param, notify)
	case route.File:
		return newMarkdownFile(env, r.Param, notify)
	case route.Text:
		return newText(env, r.Param, notify)
	case route.Projects:
		return newProjectList(env, notify)
	default:
		return &static{kind: route.NotFound, title: "Not Found", body: views.NotFound(), status: 404}
	}
}

func onChange[T any](notify func()) fetch.Option[T] {
	return fetch.OnChange[T](func(fetch.State) {
		if notify != nil {
			notify()
		}
	})
}

// render maps a state onto a body. complete is only called in Complete.
func render(st fetch.State, complete func() templ.Component) (templ.Component, string) {
	switch st.Stage {
	case fetch.Ongoing:
		return views.Fetching(), ""
	case fetch.Complete:
		return complete(), ""
	case fetch.NotFound:
		return nil, route.Route{Name: route.NotFound}.Path()
	case fetch.Failed:
		return views.ErrorMessage(st.Message), ""
	default:
		return nil, ""
	}
}
