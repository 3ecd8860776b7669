// Package websegment serves a personal website as a single-page app built
// with Go, Echo, and templ. Every browser session gets a shell on the
// server holding its mounted page; pages load their content through fetch
// state machines and the browser swaps the rendered outlet on navigation.
package websegment

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/segv/websegment/content"
	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/markdown"
	"github.com/segv/websegment/page"
	"github.com/segv/websegment/source"
	"github.com/segv/websegment/views"
)

const (
	sweepInterval = time.Minute
	closeTimeout  = 5 * time.Second
)

var errNavigatedAway = errors.New("websegment: session navigated away")

// App is the central websegment application. It wires together the loop,
// the content stores, the session shells, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Loop   *fetch.Loop
	Stores *page.Stores
	Mirror *content.SQLiteMirror

	env          *page.Env
	shells       *shells
	source       page.Fetcher
	logger       *log.Logger
	customRoutes []func(*App)
	staticDir    string

	stop     context.CancelFunc
	loopDone chan struct{}
}

// New creates a new websegment App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = log.New("websegment")
	}
	a.Echo.Logger = a.logger
	a.Echo.HideBanner = true

	return a
}

// Init validates the configuration, starts the loop and registers
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo through httptest.
func (a *App) Init() error {
	if a.Loop != nil {
		return nil
	}
	switch a.Config.ProjectsSource {
	case page.SourcePinned, page.SourceStarred, page.SourceIndex:
	default:
		return fmt.Errorf("websegment: unknown projects source %q", a.Config.ProjectsSource)
	}
	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = uuid.NewString() + uuid.NewString()
		a.logger.Warn("websegment: SessionSecret not set, sessions will not survive a restart")
	}

	if a.source == nil {
		client, err := source.New(a.Config.Origin,
			source.WithTimeout(a.Config.FetchTimeout),
			source.WithUserAgent("websegment"),
		)
		if err != nil {
			return err
		}
		a.source = client
	}

	var mirror content.Mirror
	if a.Config.ContentDatabasePath != "" {
		m, err := content.NewSQLiteMirror(a.Config.ContentDatabasePath)
		if err != nil {
			return fmt.Errorf("websegment: init mirror: %w", err)
		}
		a.Mirror = m
		mirror = m
	}
	stores, err := page.NewStores(mirror)
	if err != nil {
		a.closeMirror()
		return err
	}
	a.Stores = stores

	a.Loop = fetch.NewLoop(0, a.logger)
	a.shells = newShells(a.Config.SessionTTL)
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	a.loopDone = make(chan struct{})
	go func() {
		defer close(a.loopDone)
		_ = a.Loop.Run(ctx)
	}()
	go a.sweepShells(ctx, sweepInterval)

	a.env = &page.Env{
		Loop:     a.Loop,
		Source:   a.source,
		Markdown: markdown.New(),
		Stores:   a.Stores,
		Site:     a.siteView(),
		Projects: page.Projects{
			Source:        a.Config.ProjectsSource,
			PinnedAPI:     a.Config.PinnedAPI,
			GitHubAPI:     a.Config.GitHubAPI,
			CardImageBase: a.Config.CardImageBase,
			CORSProxy:     a.Config.CORSProxy,
		},
		Log: a.logger,
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close unmounts every shell, stops the loop and closes the mirror. Call
// this when the app is shutting down.
func (a *App) Close() error {
	if a.Loop == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	_ = a.Loop.Call(ctx, a.shells.closeAll)
	a.stop()
	<-a.loopDone
	return a.closeMirror()
}

func (a *App) closeMirror() error {
	if a.Mirror == nil {
		return nil
	}
	err := a.Mirror.Close()
	a.Mirror = nil
	return err
}

func (a *App) siteView() views.SiteConfig {
	splash := a.Config.Splash
	if splash < 0 {
		splash = 0
	}
	return views.SiteConfig{
		Name:           a.Config.Name,
		URL:            a.Config.URL,
		Description:    a.Config.Description,
		Author:         a.Config.Author,
		Intro:          a.Config.Intro,
		GitHubUsername: a.Config.GitHubUsername,
		Email:          a.Config.Email,
		Repository:     a.Config.Repository,
		Splash:         splash,
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		stdlog.Fatalf("websegment: required environment variable %s is not set", key)
	}
	return v
}
