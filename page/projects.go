package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/transform"
	"github.com/segv/websegment/views"
)

const (
	SourcePinned  = "pinned"
	SourceStarred = "starred"
	SourceIndex   = "index"

	// ProjectsIndex lists project page URLs for the index source.
	ProjectsIndex = "/projects.json"

	// cardImagePeriod is how long a generated repository card image is reused.
	cardImagePeriod = 300
)

// ErrNoUsername fails the repository sources when no GitHub user is set.
var ErrNoUsername = errors.New("no GitHub username configured")

// ProjectList is the projects gallery.
type ProjectList struct {
	env     *Env
	key     string
	machine *fetch.Machine[[]Project]
}

func newProjectList(env *Env, notify func()) *ProjectList {
	src := env.Projects.Source
	if src == "" {
		src = SourcePinned
	}
	return &ProjectList{
		env: env,
		key: src + ":" + env.Site.GitHubUsername,
		machine: fetch.NewMachine(env.Loop, LoadProjects(env),
			fetch.AsList[[]Project](),
			fetch.WithCache[[]Project](env.Stores.Projects),
			fetch.WithLogger[[]Project](env.Log),
			onChange[[]Project](notify),
		),
	}
}

// LoadProjects returns the loader for the configured source. Its key is
// "<source>:<username>".
func LoadProjects(env *Env) fetch.Loader[[]Project] {
	return func(ctx context.Context, key string) ([]Project, error) {
		src, user, _ := strings.Cut(key, ":")
		switch src {
		case SourceStarred:
			return loadStarred(ctx, env, user)
		case SourceIndex:
			return loadIndex(ctx, env)
		default:
			return loadPinned(ctx, env, user)
		}
	}
}

func loadPinned(ctx context.Context, env *Env, user string) ([]Project, error) {
	if user == "" {
		return nil, ErrNoUsername
	}
	body, err := env.Source.Get(ctx, strings.TrimSuffix(env.Projects.PinnedAPI, "/")+"/"+url.PathEscape(user))
	if err != nil {
		return nil, err
	}
	repos, err := transform.DecodeList[transform.PinnedRepo]("pinned repositories", body)
	if err != nil {
		return nil, err
	}
	projects := make([]Project, 0, len(repos))
	for _, r := range repos {
		full := r.FullName()
		projects = append(projects, Project{
			Title: full,
			URL:   "https://github.com/" + full,
			Repo:  full,
		})
	}
	return projects, nil
}

func loadStarred(ctx context.Context, env *Env, user string) ([]Project, error) {
	if user == "" {
		return nil, ErrNoUsername
	}
	ref := fmt.Sprintf("%s/users/%s/starred", strings.TrimSuffix(env.Projects.GitHubAPI, "/"), url.PathEscape(user))
	body, err := env.Source.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	repos, err := transform.DecodeList[transform.StarredRepo]("starred repositories", body)
	if err != nil {
		return nil, err
	}
	projects := make([]Project, 0, len(repos))
	for _, r := range repos {
		projects = append(projects, Project{
			Title:       r.FullName,
			Description: r.Description,
			URL:         r.HTMLURL,
			Repo:        r.FullName,
		})
	}
	return projects, nil
}

// loadIndex scrapes every page listed in the projects index. A page that is
// missing or lacks an og:image is left out of the gallery. Any other fetch
// failure fails the whole load so a partial gallery is never cached.
func loadIndex(ctx context.Context, env *Env) ([]Project, error) {
	body, err := env.Source.Get(ctx, ProjectsIndex)
	if err != nil {
		return nil, err
	}
	pages, err := transform.DecodeList[string]("projects.json", body)
	if err != nil {
		return nil, err
	}

	scraped := make([]*Project, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	limit := env.Projects.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i, pageURL := range pages {
		i, pageURL := i, pageURL
		g.Go(func() error {
			html, err := env.Source.Get(gctx, env.Projects.CORSProxy+pageURL)
			if errors.Is(err, fetch.ErrNotFound) {
				env.logger().Warnf("page: project %s: %v", pageURL, err)
				return nil
			}
			if err != nil {
				return err
			}
			og, err := transform.ScrapeOpenGraph(pageURL, bytes.NewReader(html))
			if err != nil {
				env.logger().Warnf("page: project %s: %v", pageURL, err)
				return nil
			}
			scraped[i] = &Project{Title: og.Title, URL: og.URL, Image: og.Image}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(pages))
	for _, p := range scraped {
		if p != nil {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}

// CardImage is the social card URL of a repository for the current
// five-minute period, or "" when no card image base is configured.
func CardImage(base, repo string, unix int64) string {
	if base == "" || repo == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d/%s", strings.TrimSuffix(base, "/"), unix/cardImagePeriod, repo)
}

func (p *ProjectList) Kind() route.Name { return route.Projects }

func (p *ProjectList) Show(route.Route) {}

func (p *ProjectList) View() View {
	p.machine.Sync(p.key)
	model := p.machine.Tick()
	body, redirect := render(model.State, func() templ.Component {
		if len(model.Content) == 0 {
			return views.Empty()
		}
		now := p.env.now().Unix()
		cards := make([]views.Card, 0, len(model.Content))
		for _, pr := range model.Content {
			img := pr.Image
			if img == "" {
				img = CardImage(p.env.Projects.CardImageBase, pr.Repo, now)
			}
			cards = append(cards, views.Card{
				Title:   pr.Title,
				Subtext: pr.Description,
				URL:     pr.URL,
				Image:   img,
			})
		}
		return views.CardGrid(cards)
	})
	return View{Title: "Projects", Body: body, State: model.State, Redirect: redirect}
}

func (p *ProjectList) Unmount() { p.machine.Detach() }
