package websegment

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segv/websegment/page"
	"github.com/segv/websegment/route"
)

func TestShellKeepsPageOfSameKind(t *testing.T) {
	env := &page.Env{}
	sh := &Shell{}

	sh.navigate(env, route.Route{Name: route.Home})
	home := sh.page
	sh.navigate(env, route.Route{Name: route.Home})
	assert.Same(t, home, sh.page, "same kind should rebind the mounted page")

	sh.navigate(env, route.Route{Name: route.Links})
	assert.Equal(t, route.Links, sh.page.Kind())
	assert.Equal(t, route.Route{Name: route.Links}, sh.route)
}

func TestShellNotifyClosesWatchers(t *testing.T) {
	sh := &Shell{}
	a, b := sh.watch(), sh.watch()
	sh.notify()

	for _, ch := range []<-chan struct{}{a, b} {
		select {
		case <-ch:
		default:
			t.Fatal("watcher should be closed after notify")
		}
	}
	assert.Empty(t, sh.watchers)
	sh.notify() // no watchers left, must not panic on a second close
}

func TestShellsSweepDropsIdle(t *testing.T) {
	now := time.Unix(1000, 0)
	reg := newShells(time.Hour)
	reg.now = func() time.Time { return now }

	old := reg.get("old")
	old.navigate(&page.Env{}, route.Route{Name: route.Home})
	ch := old.watch()

	now = now.Add(30 * time.Minute)
	reg.get("fresh")
	now = now.Add(45 * time.Minute)

	assert.Equal(t, 1, reg.sweep())
	assert.NotContains(t, reg.m, "old")
	assert.Contains(t, reg.m, "fresh")
	assert.Nil(t, old.page)
	_, open := <-ch
	assert.False(t, open, "sweeping a shell releases its waiters")
}

func TestShellsGetReturnsSameShell(t *testing.T) {
	reg := newShells(time.Hour)
	assert.Same(t, reg.get("a"), reg.get("a"))
	assert.NotSame(t, reg.get("a"), reg.get("b"))
}

// gate is a content source that holds every request until released.
type gate struct {
	mu      sync.Mutex
	release chan struct{}
	body    []byte
}

func (g *gate) Get(ctx context.Context, ref string) ([]byte, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.body, nil
}

func TestFragmentReportsLoadingUntilSettled(t *testing.T) {
	g := &gate{
		release: make(chan struct{}),
		body:    []byte(`[{"title":"Hello","date":"2024-01-02","filename":"hello.md"}]`),
	}
	s := newTestSite(t, nil, WithSource(g))
	s.app.Config.SettleTimeout = 50 * time.Millisecond

	res, body := s.get("/_view/posts")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, []string{"pending", "ongoing"}, res.Header.Get(headerState))
	assert.NotContains(t, body, "Hello")

	close(g.release)
	require.Eventually(t, func() bool {
		res, err := s.client.Get(s.url + "/_view/posts")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.Header.Get(headerState) == "complete"
	}, 2*time.Second, 20*time.Millisecond)

	_, body = s.get("/_view/posts")
	assert.Contains(t, body, "<h3>Hello</h3>")
}

func TestSettleWaitsForContent(t *testing.T) {
	g := &gate{release: make(chan struct{}), body: []byte(`[]`)}
	s := newTestSite(t, nil, WithSource(g))

	time.AfterFunc(50*time.Millisecond, func() { close(g.release) })
	res, body := s.get("/_view/posts")

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "complete", res.Header.Get(headerState))
	assert.Contains(t, body, "Nothing to see here.")
}

func TestPurgeEmptiesStores(t *testing.T) {
	s := newTestSite(t, map[string]string{
		"posts.json": `[{"title":"Hello","date":"2024-01-02","filename":"hello.md"}]`,
	})
	s.get("/_view/posts")

	var n int
	count := func() {
		require.NoError(t, s.app.Loop.Call(context.Background(), func() { n = s.app.Stores.Posts.Len() }))
	}
	count()
	require.Equal(t, 1, n)

	require.NoError(t, s.app.Purge(context.Background()))
	count()
	assert.Equal(t, 0, n)
}
