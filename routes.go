package websegment

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) setupRoutes() {
	e := a.Echo

	// Serve the embedded shell assets. Everything else under /public/ comes
	// from the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/shell.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/shell.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Content the pages fetch from the origin.
	e.GET("/posts.json", a.serveContentIndex("posts.json"))
	e.GET("/projects.json", a.serveContentIndex("projects.json"))
	e.GET("/texts/*", a.serveContent("texts"))
	e.GET("/files/*", a.serveContent("files"))

	// Pages.
	for _, p := range []string{"/", "/projects", "/posts", "/links", "/404", "/404.html"} {
		e.GET(p, a.handlePage)
	}
	e.GET("/post/:filename", a.handlePage)
	e.GET("/text/:filename", a.handlePage)
	e.GET("/file/:filename", a.handlePage)

	// Outlet fragments.
	e.GET(viewPrefix, a.handleView)
	e.GET(viewPrefix+"/*", a.handleView)
}
