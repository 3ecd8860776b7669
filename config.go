package websegment

import (
	"time"

	"github.com/labstack/gommon/log"

	"github.com/segv/websegment/page"
)

// SiteConfig holds all configuration for a websegment site.
type SiteConfig struct {
	Name        string // Site name (default "web segment")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD and the home page
	Intro       string // Markdown introduction on the home page

	GitHubUsername string // Profile link and repository projects source
	Email          string
	Repository     string // Repository name under GitHubUsername, or a full URL

	Addr       string // Listen address (default ":3000")
	ContentDir string // Directory served as /posts.json, /texts, /files (default "content")
	Origin     string // Where content is fetched from (default URL)

	ProjectsSource string // "pinned" (default), "starred" or "index"
	PinnedAPI      string // Pinned-repo aggregator base URL
	GitHubAPI      string // GitHub REST API base URL
	CardImageBase  string // Repository social card image base URL
	CORSProxy      string // Prefix for project page URLs in the index source

	ContentDatabasePath string // SQLite mirror of the content stores; empty disables it

	SessionSecret string        // Session cookie signing secret; generated when empty
	CookieSecure  bool          // Set true for HTTPS
	SessionTTL    time.Duration // Idle time before a browser session is dropped (default 12h)

	FetchTimeout  time.Duration // Content request timeout (default 15s)
	SettleTimeout time.Duration // How long a request waits for its page to finish loading (default 3s)
	Splash        time.Duration // Splash screen duration (default 800ms, negative disables)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "web segment"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.Origin == "" {
		c.Origin = c.URL
	}
	if c.ProjectsSource == "" {
		c.ProjectsSource = page.SourcePinned
	}
	if c.PinnedAPI == "" {
		c.PinnedAPI = "https://pinned.berrysauce.dev/get"
	}
	if c.GitHubAPI == "" {
		c.GitHubAPI = "https://api.github.com"
	}
	if c.CardImageBase == "" {
		c.CardImageBase = "https://opengraph.githubassets.com"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 12 * time.Hour
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.SettleTimeout == 0 {
		c.SettleTimeout = 3 * time.Second
	}
	if c.Splash == 0 {
		c.Splash = 800 * time.Millisecond
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContentDir overrides SiteConfig.ContentDir.
func WithContentDir(dir string) Option {
	return func(a *App) {
		a.Config.ContentDir = dir
	}
}

// WithSource replaces the HTTP content source, e.g. with one reading a
// different origin in tests.
func WithSource(src page.Fetcher) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithLogger sets the logger shared by Echo, the loop and the pages.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}
