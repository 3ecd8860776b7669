package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/segv/websegment/route"
)

// OutletID is the element the shell script swaps on navigation.
const OutletID = "outlet"

// Layout is the full document: head, splash screen, navigation bar, the
// outlet holding body, and the footer. state is the fetch stage of the
// page, exposed to the shell script as data-state.
func Layout(cfg SiteConfig, meta PageMeta, active route.Route, state string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		title := cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + cfg.Name
		}
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		p.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n")
		p.raw("<meta charset=\"utf-8\">\n")
		p.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		p.rawf("<title>%s</title>\n", esc(title))
		if description != "" {
			p.rawf("<meta name=\"description\" content=\"%s\">\n", esc(description))
			p.rawf("<meta property=\"og:description\" content=\"%s\">\n", esc(description))
		}
		p.rawf("<meta property=\"og:title\" content=\"%s\">\n", esc(title))
		p.rawf("<meta property=\"og:type\" content=\"%s\">\n", esc(ogType))
		p.rawf("<meta property=\"og:site_name\" content=\"%s\">\n", esc(cfg.Name))
		if meta.URL != "" {
			p.rawf("<meta property=\"og:url\" content=\"%s\">\n", esc(meta.URL))
			p.rawf("<link rel=\"canonical\" href=\"%s\">\n", esc(meta.URL))
		}
		p.rawf("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"%s\" href=\"/feed.xml\">\n", esc(cfg.Name))
		p.raw("<link rel=\"stylesheet\" href=\"/public/shell.css\">\n")
		p.raw("<link rel=\"stylesheet\" href=\"/public/style.css\">\n")
		p.rawf("<script type=\"application/ld+json\">%s</script>\n", WebsiteJsonLD(cfg))
		if meta.JSONLD != "" {
			p.rawf("<script type=\"application/ld+json\">%s</script>\n", meta.JSONLD)
		}
		p.raw("<script src=\"/public/shell.js\" defer></script>\n")
		p.raw("</head>\n<body>\n")

		if cfg.Splash > 0 {
			p.rawf("<div id=\"splash\" class=\"splash\" data-duration=\"%d\"><h1>%s</h1></div>\n",
				cfg.Splash.Milliseconds(), esc(cfg.Name))
			p.raw("<noscript><style>.splash{display:none}</style></noscript>\n")
		}

		p.raw("<div id=\"app\" class=\"app fade\">\n")
		p.component(ctx, NavigationBar(cfg, active))
		p.rawf("<main id=\"%s\" class=\"outlet\" data-state=\"%s\" data-title=\"%s\">\n",
			OutletID, esc(state), esc(title))
		p.component(ctx, body)
		p.raw("</main>\n")
		p.component(ctx, Footer(cfg))
		p.raw("</div>\n</body>\n</html>\n")
		return p.err
	})
}

// NavigationBar lists the displayable routes with active marked.
func NavigationBar(cfg SiteConfig, active route.Route) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<nav class=\"nav-bar\">\n")
		p.rawf("<h2 class=\"nav-head\"><a href=\"/\" data-route=\"/\">%s</a></h2>\n", esc(cfg.Name))
		p.raw("<ul class=\"nav-links\">\n")
		for _, r := range route.Displayable {
			current := r == active
			class := classes("nav-link", activeClass(current))
			p.rawf("<li><a class=\"%s\" href=\"%s\" data-route=\"%s\"", class, esc(r.Path()), esc(r.Path()))
			if current {
				p.raw(" aria-current=\"page\"")
			}
			p.rawf("><small>%s</small></a></li>\n", esc(r.Title()))
		}
		p.raw("</ul>\n</nav>\n")
		return p.err
	})
}

func activeClass(on bool) string {
	if on {
		return "active"
	}
	return ""
}

// Footer links to the GitHub profile, the e-mail address and the source
// repository. Links without a configured value are left out.
func Footer(cfg SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<footer class=\"footer\">\n<p>")
		var links []string
		if cfg.GitHubUsername != "" {
			links = append(links, "<a href=\""+esc("https://github.com/"+cfg.GitHubUsername)+"\">GitHub</a>")
		}
		if cfg.Email != "" {
			links = append(links, "<a href=\""+esc("mailto:"+cfg.Email)+"\">E-mail</a>")
		}
		for i, l := range links {
			if i > 0 {
				p.raw("<span class=\"separator\">|</span>")
			}
			p.raw(l)
		}
		p.raw("</p>\n")
		if repo := repositoryURL(cfg); repo != "" {
			p.rawf("<a href=\"%s\">Source Code</a>\n", esc(repo))
		}
		p.raw("</footer>\n")
		return p.err
	})
}

// repositoryURL accepts a full URL or a repository name under the GitHub user.
func repositoryURL(cfg SiteConfig) string {
	switch {
	case cfg.Repository == "":
		return ""
	case strings.HasPrefix(cfg.Repository, "http://"), strings.HasPrefix(cfg.Repository, "https://"):
		return cfg.Repository
	case cfg.GitHubUsername != "":
		return "https://github.com/" + cfg.GitHubUsername + "/" + cfg.Repository
	default:
		return ""
	}
}

// Fragment renders body alone, for outlet swaps. The title and state travel
// in response headers, so the fragment is the outlet's inner HTML.
func Fragment(body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if body == nil {
			return nil
		}
		return body.Render(ctx, w)
	})
}
