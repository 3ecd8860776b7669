package websegment

import (
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/page"
	"github.com/segv/websegment/route"
	"github.com/segv/websegment/views"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderView writes v as a full document, or as the outlet's inner HTML
// with the page state in headers when fragment is set.
func (a *App) renderView(c echo.Context, r route.Route, v page.View, fragment bool) error {
	status := v.Status
	if status == 0 {
		status = http.StatusOK
	}
	if fragment {
		h := c.Response().Header()
		h.Set(headerState, v.State.Stage.String())
		h.Set(headerTitle, url.PathEscape(v.Title))
		h.Set(headerRoute, r.Path())
		return RenderStatus(c, status, views.Fragment(v.Body))
	}
	meta := views.PageMeta{
		Title:  v.Title,
		URL:    BuildURL(a.Config.URL, r.Path()),
		OGType: v.OGType,
		JSONLD: v.JSONLD,
	}
	return RenderStatus(c, status, views.Layout(a.env.Site, meta, r, v.State.Stage.String(), v.Body))
}

func (a *App) errorDocument(title string, body templ.Component) templ.Component {
	meta := views.PageMeta{Title: title}
	return views.Layout(a.env.Site, meta, route.Route{Name: route.NotFound}, fetch.Complete.String(), body)
}
