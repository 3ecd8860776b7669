package websegment

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/segv/websegment/route"
	"github.com/segv/websegment/transform"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the navigation routes followed by every post.
func (a *App) renderSitemap(c echo.Context, posts []transform.PostEntry) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(route.Displayable)+len(posts))
	for _, r := range route.Displayable {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, r.Path())})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(base, route.Route{Name: route.Post, Param: p.Filename}.Path())}
		if t, ok := postDate(p.Date); ok {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
