package transform

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/segv/websegment/fetch"
)

// OpenGraph is the card data scraped from a project page.
type OpenGraph struct {
	Title string `json:"title"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// ScrapeOpenGraph reads og:title, og:image and og:url from an HTML page
// fetched from pageURL. A page without og:image fails. A missing title
// falls back to the page path ("owner/repo" for a repository page) and a
// missing url to pageURL itself. A relative image is resolved against
// pageURL.
func ScrapeOpenGraph(pageURL string, r io.Reader) (OpenGraph, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return OpenGraph{}, &fetch.ParseError{What: "page", Err: err}
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return OpenGraph{}, &fetch.ParseError{What: "page url", Err: err}
	}

	og := OpenGraph{
		Title: property(doc, "og:title"),
		Image: property(doc, "og:image"),
		URL:   property(doc, "og:url"),
	}
	if og.Image == "" {
		return OpenGraph{}, &fetch.ParseError{
			What: "page",
			Err:  fmt.Errorf("no og:image in %s", pageURL),
		}
	}
	if img, err := url.Parse(og.Image); err == nil {
		og.Image = base.ResolveReference(img).String()
	}
	if og.Title == "" {
		og.Title = titleFromURL(base)
	}
	if og.URL == "" {
		og.URL = pageURL
	}
	return og, nil
}

func property(doc *goquery.Document, name string) string {
	sel := doc.Find(`meta[property="` + name + `"]`).First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

func titleFromURL(u *url.URL) string {
	if p := strings.Trim(u.Path, "/"); p != "" {
		return p
	}
	return u.Host
}
