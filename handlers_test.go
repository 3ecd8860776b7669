package websegment

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPost = "Hello\n2024-01-02\n# Hi there\n\nSome *text*.\n"

type testSite struct {
	t      *testing.T
	app    *App
	url    string
	client *http.Client
}

// writeContent lays out a content directory from path -> body.
func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

// newTestSite serves an app whose content origin is the app itself, as in
// a default deployment.
func newTestSite(t *testing.T, files map[string]string, opts ...Option) *testSite {
	t.Helper()
	logger := log.New("test")
	logger.SetLevel(log.OFF)

	cfg := SiteConfig{
		Name:          "test site",
		URL:           "http://example.test",
		Description:   "a test site",
		SessionSecret: "test-secret",
		Splash:        -1,
		SettleTimeout: 2 * time.Second,
	}
	opts = append([]Option{
		WithContentDir(writeContent(t, files)),
		WithStaticDir(t.TempDir()),
		WithLogger(logger),
	}, opts...)
	app := New(cfg, opts...)

	srv := httptest.NewServer(app.Echo)
	t.Cleanup(srv.Close)
	app.Config.Origin = srv.URL
	require.NoError(t, app.Init())
	t.Cleanup(func() { _ = app.Close() })

	return &testSite{t: t, app: app, url: srv.URL, client: newClient(t)}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *testSite) get(path string) (*http.Response, string) {
	s.t.Helper()
	res, err := s.client.Get(s.url + path)
	require.NoError(s.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res, string(body)
}

func (s *testSite) shellCount() int {
	var n int
	require.NoError(s.t, s.app.Loop.Call(context.Background(), func() { n = len(s.app.shells.m) }))
	return n
}

func TestHomeRendersFullDocument(t *testing.T) {
	s := newTestSite(t, nil)
	res, body := s.get("/")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "no-store", res.Header.Get("Cache-Control"))
	assert.Contains(t, body, "<title>Home | test site</title>")
	assert.Contains(t, body, `<main id="outlet" class="outlet" data-state="complete"`)
	assert.Contains(t, body, `<link rel="canonical" href="http://example.test/">`)
	assert.Contains(t, body, `<script src="/public/shell.js" defer></script>`)
	assert.NotEmpty(t, res.Header.Get("Set-Cookie"))
}

func TestPostsFragment(t *testing.T) {
	s := newTestSite(t, map[string]string{
		"posts.json": `[{"title":"Hello","date":"2024-01-02","filename":"hello.md"}]`,
	})
	res, body := s.get("/_view/posts")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "complete", res.Header.Get(headerState))
	assert.Equal(t, "Posts", res.Header.Get(headerTitle))
	assert.Equal(t, "/posts", res.Header.Get(headerRoute))
	assert.Contains(t, body, `href="/post/hello.md" data-route="/post/hello.md"`)
	assert.NotContains(t, body, "<html")
}

func TestPostPage(t *testing.T) {
	s := newTestSite(t, map[string]string{"texts/hello.md": testPost})
	res, body := s.get("/post/hello.md")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<title>Hello | test site</title>")
	assert.Contains(t, body, "<h1>Hello</h1>\n<small>2024-01-02</small>")
	assert.Contains(t, body, "<em>text</em>")
	assert.Contains(t, body, `"@type":"BlogPosting"`)
	assert.Contains(t, body, `<meta property="og:type" content="article">`)
}

func TestFragmentTitleIsEscaped(t *testing.T) {
	s := newTestSite(t, map[string]string{"texts/a.md": "Ünïcode & more\n2024\nbody\n"})
	res, _ := s.get("/_view/post/a.md")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "%C3%9Cn%C3%AFcode%20&%20more", res.Header.Get(headerTitle))
}

func TestMissingTextRedirectsToNotFound(t *testing.T) {
	s := newTestSite(t, map[string]string{"texts/index.list": `["b.md"]`, "texts/b.md": "b"})

	res, _ := s.get("/_view/text/c.md")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/_view/404", res.Header.Get("Location"))

	res, _ = s.get("/text/c.md")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/404", res.Header.Get("Location"))

	res, body := s.get("/404")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "<h1>404</h1>")
}

func TestListedTextRenders(t *testing.T) {
	s := newTestSite(t, map[string]string{"texts/index.list": `["b.md"]`, "texts/b.md": "plain <text>"})
	res, body := s.get("/_view/text/b.md")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "complete", res.Header.Get(headerState))
	assert.Contains(t, body, "plain &lt;text&gt;")
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	s := newTestSite(t, nil)
	res, body := s.get("/nowhere/at/all")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "<h1>404</h1>")
	assert.Contains(t, body, "<title>Not Found | test site</title>")
}

func TestUnknownFragmentRendersNotFound(t *testing.T) {
	s := newTestSite(t, nil)
	res, body := s.get("/_view/nowhere")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "/404", res.Header.Get(headerRoute))
	assert.Contains(t, body, "<h1>404</h1>")
	assert.NotContains(t, body, "<html")
}

func TestTrailingSlashRedirects(t *testing.T) {
	s := newTestSite(t, nil)
	res, _ := s.get("/posts/")

	assert.Equal(t, http.StatusMovedPermanently, res.StatusCode)
	assert.Equal(t, "/posts", res.Header.Get("Location"))
}

func TestContentFiles(t *testing.T) {
	s := newTestSite(t, map[string]string{"files/about.md": "# About", "secret.txt": "nope"})

	res, body := s.get("/files/about.md")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "# About", body)
	assert.Equal(t, "public, max-age=300", res.Header.Get("Cache-Control"))

	res, _ = s.get("/files/..%2fsecret.txt")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = s.get("/files/missing.md")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMarkdownFilePage(t *testing.T) {
	s := newTestSite(t, map[string]string{"files/about.md": "# About\n\nme"})
	res, body := s.get("/_view/file/about.md")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "About</h1>")
}

func TestSitemap(t *testing.T) {
	s := newTestSite(t, map[string]string{
		"posts.json": `[{"title":"Hello","date":"2024-01-02","filename":"hello world.md"}]`,
	})
	res, body := s.get("/sitemap.xml")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "public, max-age=86400", res.Header.Get("Cache-Control"))
	for _, loc := range []string{
		"<loc>http://example.test/</loc>",
		"<loc>http://example.test/projects</loc>",
		"<loc>http://example.test/posts</loc>",
		"<loc>http://example.test/links</loc>",
		"<loc>http://example.test/post/hello%20world.md</loc><lastmod>2024-01-02</lastmod>",
	} {
		assert.Contains(t, body, loc)
	}
}

func TestFeed(t *testing.T) {
	s := newTestSite(t, map[string]string{
		"posts.json": `[{"title":"Hello","date":"2024-01-02","filename":"hello.md"},{"title":"Undated","date":"someday","filename":"u.md"}]`,
	})
	res, body := s.get("/feed.xml")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "application/rss+xml"))
	assert.Contains(t, body, "<title>Hello</title>")
	assert.Contains(t, body, "<link>http://example.test/post/hello.md</link>")
	assert.Contains(t, body, "<pubDate>Tue, 02 Jan 2024 00:00:00 +0000</pubDate>")
	assert.Contains(t, body, "<title>Undated</title>")
}

func TestFeedWithoutPostsIndex(t *testing.T) {
	s := newTestSite(t, nil)
	res, body := s.get("/feed.xml")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<title>test site</title>")
	assert.NotContains(t, body, "<item>")
}

func TestRobotsGenerated(t *testing.T) {
	s := newTestSite(t, nil)
	res, body := s.get("/robots.txt")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Sitemap: http://example.test/sitemap.xml")
}

func TestEmbeddedShellAssets(t *testing.T) {
	s := newTestSite(t, nil)

	res, body := s.get("/public/shell.js")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "/_view")

	res, _ = s.get("/public/shell.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "public, max-age=31536000, immutable", res.Header.Get("Cache-Control"))
}

func TestSessionKeepsItsShell(t *testing.T) {
	s := newTestSite(t, nil)

	s.get("/")
	s.get("/links")
	assert.Equal(t, 1, s.shellCount())

	other := newClient(t)
	res, err := other.Get(s.url + "/")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 2, s.shellCount())
}

func TestCustomRoutes(t *testing.T) {
	s := newTestSite(t, nil, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/ping", func(c echo.Context) error {
			return c.String(http.StatusOK, "pong")
		})
	}))
	res, body := s.get("/ping")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "pong", body)
}

func TestInitRejectsUnknownProjectsSource(t *testing.T) {
	app := New(SiteConfig{ProjectsSource: "gitlab", SessionSecret: "x"})
	err := app.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown projects source "gitlab"`)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"http://example.test", []string{"/"}, "http://example.test/"},
		{"http://example.test/", []string{"/posts"}, "http://example.test/posts"},
		{"http://example.test/blog", []string{"/post/a%20b.md"}, "http://example.test/blog/post/a%20b.md"},
		{"http://example.test", []string{"sitemap.xml"}, "http://example.test/sitemap.xml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segs...), "BuildURL(%q, %q)", tt.base, tt.segs)
	}
}
