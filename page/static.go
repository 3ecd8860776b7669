package page

import (
	"github.com/a-h/templ"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/views"
)

// static is a page with no remote content. It is always Complete.
type static struct {
	kind   route.Name
	title  string
	body   templ.Component
	status int
}

func newHome(env *Env) *static {
	var intro templ.Component = templ.NopComponent
	if env.Site.Intro != "" {
		html, err := env.renderer().Render(env.Site.Intro)
		if err != nil {
			env.logger().Errorf("page: render intro: %v", err)
			intro = views.ErrorMessage(err.Error())
		} else {
			intro = templ.Raw(html)
		}
	}
	return &static{kind: route.Home, title: route.Route{Name: route.Home}.Title(), body: views.Home(env.Site, intro)}
}

func (s *static) Kind() route.Name { return s.kind }

func (s *static) Show(route.Route) {}

func (s *static) View() View {
	return View{
		Title:  s.title,
		Body:   s.body,
		State:  fetch.State{Stage: fetch.Complete},
		Status: s.status,
	}
}

func (s *static) Unmount() {}
