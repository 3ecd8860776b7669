package websegment

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/segv/websegment/fetch"
	"github.com/segv/websegment/page"
	"github.com/segv/websegment/transform"
)

// BuildURL joins a base URL with already-escaped path segments. The result
// has no trailing slash unless it is the site root.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u = u.JoinPath(pathSegments...)
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	}
	return u.String()
}

// postDate parses a post's date line, which is free text. Only ISO dates
// are usable in feeds and sitemaps.
func postDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return t, err == nil
}

// postIndex returns the posts index, loading it into the posts store when
// no page has done so yet. A missing index is an empty one.
func (a *App) postIndex(ctx context.Context) ([]transform.PostEntry, error) {
	var (
		entries []transform.PostEntry
		ok      bool
	)
	if err := a.Loop.Call(ctx, func() {
		entries, ok = a.Stores.Posts.Get(page.PostsIndex)
	}); err != nil {
		return nil, err
	}
	if ok {
		return entries, nil
	}

	entries, err := page.LoadPostIndex(a.source)(ctx, page.PostsIndex)
	if errors.Is(err, fetch.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Loop.Post(func() {
		if err := a.Stores.Posts.Set(page.PostsIndex, entries); err != nil {
			a.logger.Warnf("websegment: store posts index: %v", err)
		}
	})
	return entries, nil
}
