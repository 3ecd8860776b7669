package websegment

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/views"
)

const (
	// viewPrefix serves outlet fragments for in-app navigation.
	viewPrefix = "/_view"

	headerState = "X-Fetch-State"
	headerTitle = "X-Page-Title"
	headerRoute = "X-Route"
)

func (a *App) handlePage(c echo.Context) error {
	return a.servePage(c, c.Request().URL.EscapedPath(), false)
}

func (a *App) handleView(c echo.Context) error {
	return a.servePage(c, strings.TrimPrefix(c.Request().URL.EscapedPath(), viewPrefix), true)
}

// servePage mounts the route on the session's shell and writes the settled
// view. Fragments carry the page state in headers so the shell script can
// keep polling while content is still loading.
func (a *App) servePage(c echo.Context, p string, fragment bool) error {
	r := route.Resolve(p)
	id, err := a.shellID(c)
	if err != nil {
		return err
	}
	v, err := a.settle(c.Request().Context(), id, r)
	switch {
	case errors.Is(err, errNavigatedAway):
		return echo.NewHTTPError(http.StatusConflict, "navigation superseded")
	case errors.Is(err, fetch.ErrLoopClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "shutting down")
	case err != nil:
		return err
	}

	if v.Redirect != "" {
		target := v.Redirect
		if fragment {
			target = viewPrefix + target
		}
		return c.Redirect(http.StatusSeeOther, target)
	}
	return a.renderView(c, r, v, fragment)
}

// serveContent serves one file of a content subdirectory. The name is
// checked the same way route parameters are.
func (a *App) serveContent(dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		rest := strings.TrimPrefix(c.Request().URL.EscapedPath(), "/"+dir+"/")
		r, ok := route.Parse("/file/" + rest)
		if !ok {
			return echo.ErrNotFound
		}
		return c.File(filepath.Join(a.Config.ContentDir, dir, r.Param))
	}
}

func (a *App) serveContentIndex(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.File(filepath.Join(a.Config.ContentDir, name))
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.postIndex(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.postIndex(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.staticDir, "favicon.svg"))
}

// handleRobots serves the site's robots.txt, or one allowing everything
// and pointing at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	file := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(file); err == nil {
		return c.File(file)
	}
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.errorDocument("Not Found", views.NotFound()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.errorDocument("Server Error", views.ServerError()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
