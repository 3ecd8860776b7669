package fetch

import (
	"context"
	"errors"
	"sync"

	"github.com/labstack/gommon/log"
)

// ErrLoopClosed is returned by Call once the loop has stopped.
var ErrLoopClosed = errors.New("fetch: loop closed")

// Loop is the single logical thread every state transition runs on.
// Posted functions execute one at a time in posting order. Work started
// with Go runs on its own goroutine and only its continuation comes back
// onto the loop.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
	log   *log.Logger

	// ctx is the lifetime of background work; it ends when Run returns.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop creates a loop with a queue of the given depth. Run must be called
// for posted functions to execute.
func NewLoop(depth int, logger *log.Logger) *Loop {
	if depth <= 0 {
		depth = 64
	}
	if logger == nil {
		logger = log.New("fetch")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		queue:  make(chan func(), depth),
		done:   make(chan struct{}),
		log:    logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run drains the queue until ctx is done. Background work still in flight
// is cancelled and waited for before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.once.Do(func() { close(l.done) })
		l.cancel()
		l.wg.Wait()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("loop: recovered panic: %v", r)
		}
	}()
	fn()
}

// Post enqueues fn. It reports false when the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go runs work off the loop and posts the continuation it returns. There is
// no per-task cancellation; ctx only ends when the loop stops.
func (l *Loop) Go(work func(ctx context.Context) func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		next := work(l.ctx)
		if next == nil {
			return
		}
		if !l.Post(next) {
			l.log.Debugf("loop: dropped continuation after shutdown")
		}
	}()
}
