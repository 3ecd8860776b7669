package websegment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/segv/websegment/page"
	"github.com/segv/websegment/route"
)

const (
	sessionName = "websegment"
	shellKey    = "shell"
)

// Shell is the application state of one browser session: the mounted page
// and the requests waiting for it to change. It is only touched from the
// loop.
type Shell struct {
	id       string
	route    route.Route
	page     page.Page
	seen     time.Time
	watchers []chan struct{}
}

// navigate shows r. A page of the same kind is kept and rebound, so its
// machine re-arms on the next render; otherwise the old page is unmounted.
func (s *Shell) navigate(env *page.Env, r route.Route) {
	if s.page != nil && s.page.Kind() == r.Name {
		s.page.Show(r)
	} else {
		if s.page != nil {
			s.page.Unmount()
		}
		s.page = page.New(env, r, s.notify)
	}
	s.route = r
}

func (s *Shell) notify() {
	for _, w := range s.watchers {
		close(w)
	}
	s.watchers = nil
}

// watch returns a channel closed on the next state change of the page.
func (s *Shell) watch() <-chan struct{} {
	ch := make(chan struct{})
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Shell) close() {
	if s.page != nil {
		s.page.Unmount()
		s.page = nil
	}
	s.notify()
}

// shells maps session ids to shells. Like Shell it lives on the loop, so it
// needs no lock.
type shells struct {
	m   map[string]*Shell
	ttl time.Duration
	now func() time.Time
}

func newShells(ttl time.Duration) *shells {
	return &shells{m: make(map[string]*Shell), ttl: ttl, now: time.Now}
}

func (r *shells) get(id string) *Shell {
	s, ok := r.m[id]
	if !ok {
		s = &Shell{id: id}
		r.m[id] = s
	}
	s.seen = r.now()
	return s
}

// sweep unmounts and drops shells idle for longer than the TTL.
func (r *shells) sweep() int {
	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, s := range r.m {
		if s.seen.Before(cutoff) {
			s.close()
			delete(r.m, id)
			n++
		}
	}
	return n
}

func (r *shells) closeAll() {
	for id, s := range r.m {
		s.close()
		delete(r.m, id)
	}
}

// sweepShells drops idle shells every interval until ctx is done.
func (a *App) sweepShells(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Loop.Post(func() {
				if n := a.shells.sweep(); n > 0 {
					a.logger.Debugf("shells: dropped %d idle sessions", n)
				}
			})
		}
	}
}

// shellID returns the shell id stored in the session cookie, issuing one
// when the browser has none.
func (a *App) shellID(c echo.Context) (string, error) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return "", err
	}
	if err != nil {
		// A cookie signed with another secret yields a fresh session.
		c.Logger().Debugf("session: %v", err)
	}
	if id, ok := sess.Values[shellKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[shellKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return id, nil
}

// settle navigates the session's shell to r and renders it, waiting up to
// SettleTimeout for the page to reach a terminal state. A view that is still
// loading is returned as is when the wait runs out.
func (a *App) settle(ctx context.Context, id string, r route.Route) (page.View, error) {
	timer := time.NewTimer(a.Config.SettleTimeout)
	defer timer.Stop()

	var mounted page.Page
	for {
		var (
			v    page.View
			wait <-chan struct{}
			gone bool
		)
		err := a.Loop.Call(ctx, func() {
			sh := a.shells.get(id)
			if mounted == nil {
				sh.navigate(a.env, r)
				mounted = sh.page
			} else if sh.page != mounted {
				// Another request from this session navigated away.
				gone = true
				return
			}
			v = mounted.View()
			if !v.State.Terminal() && v.Redirect == "" {
				wait = sh.watch()
			}
		})
		if err != nil {
			return page.View{}, err
		}
		if gone {
			return v, errNavigatedAway
		}
		if wait == nil {
			return v, nil
		}
		select {
		case <-wait:
		case <-timer.C:
			return v, nil
		case <-ctx.Done():
			return v, ctx.Err()
		}
	}
}
