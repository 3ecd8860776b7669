package views

import "time"

// SiteConfig holds the site-wide settings every layout needs. The root
// package fills it from its own configuration so nothing is hardcoded.
type SiteConfig struct {
	Name        string // site title, shown in the splash and the nav bar
	URL         string // canonical URL
	Description string
	Author      string
	Intro       string // Markdown shown on the home page

	GitHubUsername string
	Email          string
	Repository     string // source code link in the footer

	Splash time.Duration // how long the splash stays up; zero disables it
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string // extra structured data, e.g. a BlogPosting
}

// Card is one tile of a card grid. Internal cards navigate within the app.
type Card struct {
	Title    string
	Subtext  string
	URL      string
	Image    string
	Internal bool
}
