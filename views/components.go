package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Status is the neutral status line, e.g. while a fetch is in flight.
func Status(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p class=\"status\">"+esc(msg)+"</p>\n")
		return err
	})
}

// Fetching is the status shown while a page is Ongoing.
func Fetching() templ.Component {
	return Status("Fetching...")
}

// ErrorMessage shows a failure inline with its raw diagnostic.
func ErrorMessage(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p class=\"status error\">"+esc(msg)+"</p>\n")
		return err
	})
}

// Empty is shown for a list with no items.
func Empty() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>Nothing to see here.</p>\n")
		return err
	})
}

// CardGrid lays out cards in order.
func CardGrid(cards []Card) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<div class=\"card-grid\">\n")
		for _, c := range cards {
			p.component(ctx, CardTile(c))
		}
		p.raw("</div>\n")
		return p.err
	})
}

// CardTile is a single card. Its URL is sanitized; internal cards carry
// data-route so the shell navigates without a reload.
func CardTile(c Card) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		href := string(templ.URL(c.URL))
		p.rawf("<a class=\"card hover-scale\" href=\"%s\"", esc(href))
		if c.Internal {
			p.rawf(" data-route=\"%s\"", esc(href))
		}
		p.raw(">\n<div class=\"card-head\">")
		p.rawf("<h3>%s</h3>", esc(c.Title))
		if c.Subtext != "" {
			p.rawf("<small class=\"card-subtext\">%s</small>", esc(c.Subtext))
		}
		p.raw("</div>\n")
		if c.Image != "" {
			p.rawf("<img class=\"card-image\" src=\"%s\" alt=\"%s\" loading=\"lazy\">\n",
				esc(string(templ.URL(c.Image))), esc(c.Title))
		}
		p.raw("</a>\n")
		return p.err
	})
}

// Post is a post with its header. body is trusted HTML.
func Post(title, date, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<article class=\"post\">\n")
		p.rawf("<h1>%s</h1>\n<small>%s</small>\n<br/>\n<br/>\n", esc(title), esc(date))
		p.component(ctx, templ.Raw(body))
		p.raw("</article>\n")
		return p.err
	})
}

// Document is a rendered Markdown file. body is trusted HTML.
func Document(body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<div class=\"markdown\">\n")
		p.component(ctx, templ.Raw(body))
		p.raw("</div>\n")
		return p.err
	})
}

// Text is a plain text file, preformatted, with a link to the raw file.
func Text(text, rawURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<div class=\"paragraph\">")
		p.rawf("<pre>%s</pre>", esc(text))
		p.raw("</div>\n")
		p.rawf("<a class=\"view-raw\" href=\"%s\">View Raw</a>\n", esc(rawURL))
		return p.err
	})
}

// Home is the landing page. intro renders the configured introduction.
func Home(cfg SiteConfig, intro templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<section class=\"home\">\n")
		if cfg.Author != "" {
			p.rawf("<p class=\"greeting\">I am %s.</p>\n", esc(cfg.Author))
		}
		p.component(ctx, intro)
		p.raw("</section>\n")
		return p.err
	})
}

// Links lists the ways to reach the site owner.
func Links(cfg SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<ul class=\"links\">\n")
		if cfg.GitHubUsername != "" {
			p.rawf("<li><h4>GitHub</h4> <sup><a href=\"%s\">[link]</a></sup></li>\n",
				esc("https://github.com/"+cfg.GitHubUsername))
		}
		if cfg.Email != "" {
			p.rawf("<li><h4>E-mail:</h4> <a href=\"%s\">%s</a></li>\n",
				esc("mailto:"+cfg.Email), esc(cfg.Email))
		}
		if repo := repositoryURL(cfg); repo != "" {
			p.rawf("<li><h4>Source</h4> <sup><a href=\"%s\">[link]</a></sup></li>\n", esc(repo))
		}
		p.raw("</ul>\n")
		return p.err
	})
}

// NotFound is the body of the 404 page.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<section class=\"not-found\">\n"+
			"<h1>404</h1>\n"+
			"<p>There is nothing at this address.</p>\n"+
			"<a href=\"/\" data-route=\"/\">Back home</a>\n"+
			"</section>\n")
		return err
	})
}

// ServerError is the body shown when a request fails outside any page.
func ServerError() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<section class=\"server-error\">\n"+
			"<h1>Something went wrong</h1>\n"+
			"<p class=\"status error\">The server could not complete this request.</p>\n"+
			"</section>\n")
		return err
	})
}
