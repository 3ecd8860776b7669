// Package route maps URL paths onto the closed set of site locations.
package route

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name identifies a location. Post, Text and File carry a filename parameter.
type Name int

const (
	Home Name = iota
	Projects
	Posts
	Post
	Text
	File
	Links
	NotFound
)

var names = map[Name]string{
	Home:     "home",
	Projects: "projects",
	Posts:    "posts",
	Post:     "post",
	Text:     "text",
	File:     "file",
	Links:    "links",
	NotFound: "not found",
}

func (n Name) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return "unknown"
}

// Route is one location. Equality is structural.
type Route struct {
	Name  Name
	Param string
}

// Displayable lists the routes shown in the navigation bar, in order.
var Displayable = []Route{{Name: Home}, {Name: Projects}, {Name: Posts}, {Name: Links}}

// Title is the human-readable name of the route.
func (r Route) Title() string {
	// A Caser holds state, so each call gets its own.
	return cases.Title(language.English).String(r.Name.String())
}

// Path returns the URL path for r.
func (r Route) Path() string {
	switch r.Name {
	case Home:
		return "/"
	case Projects:
		return "/projects"
	case Posts:
		return "/posts"
	case Post:
		return "/post/" + url.PathEscape(r.Param)
	case Text:
		return "/text/" + url.PathEscape(r.Param)
	case File:
		return "/file/" + url.PathEscape(r.Param)
	case Links:
		return "/links"
	default:
		return "/404"
	}
}

// Parse resolves a URL path. The query and fragment are ignored, a trailing
// slash is tolerated, and ok is false for paths that name no location.
func Parse(p string) (Route, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	switch p {
	case "", "/":
		return Route{Name: Home}, true
	case "/projects":
		return Route{Name: Projects}, true
	case "/posts":
		return Route{Name: Posts}, true
	case "/links":
		return Route{Name: Links}, true
	case "/404", "/404.html":
		return Route{Name: NotFound}, true
	}
	for prefix, name := range map[string]Name{"/post/": Post, "/text/": Text, "/file/": File} {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		param, err := url.PathUnescape(p[len(prefix):])
		if err != nil || !validParam(param) {
			return Route{}, false
		}
		return Route{Name: name, Param: param}, true
	}
	return Route{}, false
}

// Resolve is Parse with unknown paths mapped to NotFound.
func Resolve(p string) Route {
	r, ok := Parse(p)
	if !ok {
		return Route{Name: NotFound}
	}
	return r
}

// validParam accepts a single non-empty path segment that cannot climb out
// of the content directory.
func validParam(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\\x00")
}
