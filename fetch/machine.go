package fetch

import (
	"context"

	"github.com/labstack/gommon/log"
)

// Loader fetches and parses the content bound to key. It runs off the loop.
type Loader[T any] func(ctx context.Context, key string) (T, error)

// Cache is the slice of the content store a machine needs.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T) error
	Remove(key string) error
}

// Machine coordinates one logical fetch-and-parse operation at a time.
type Machine[T any] struct {
	model  Model[T]
	armed  bool
	active bool
	list   bool

	loop     *Loop
	load     Loader[T]
	cache    Cache[T]
	onChange func(State)
	log      *log.Logger
}

// Option configures a Machine.
type Option[T any] func(*Machine[T])

// WithCache makes completions write through to c and lets Arm answer from it.
func WithCache[T any](c Cache[T]) Option[T] {
	return func(m *Machine[T]) {
		m.cache = c
	}
}

// AsList treats a missing resource as a complete, empty result.
func AsList[T any]() Option[T] {
	return func(m *Machine[T]) {
		m.list = true
	}
}

// OnChange registers fn to be called on the loop after every transition.
func OnChange[T any](fn func(State)) Option[T] {
	return func(m *Machine[T]) {
		m.onChange = fn
	}
}

// WithLogger sets the logger used for dropped results and store failures.
func WithLogger[T any](l *log.Logger) Option[T] {
	return func(m *Machine[T]) {
		m.log = l
	}
}

// NewMachine returns an unarmed machine. Sync or Arm binds it to a key.
func NewMachine[T any](loop *Loop, load Loader[T], opts ...Option[T]) *Machine[T] {
	m := &Machine[T]{
		loop:   loop,
		load:   load,
		active: true,
		model:  Model[T]{State: State{Stage: Pending}},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = loop.log
	}
	return m
}

// Model returns a copy of the current model.
func (m *Machine[T]) Model() Model[T] {
	return m.model
}

// State returns the current state.
func (m *Machine[T]) State() State {
	return m.model.State
}

// Key returns the bound identifier.
func (m *Machine[T]) Key() string {
	return m.model.Key
}

// Sync binds the machine to key, re-arming it when the key changed since
// the last render. It reports whether a re-arm happened.
func (m *Machine[T]) Sync(key string) bool {
	if m.armed && m.model.Key == key {
		return false
	}
	m.Arm(key)
	return true
}

// Arm resets the machine for key. Content already in the cache completes
// the machine immediately; otherwise it waits in Pending for the next render.
func (m *Machine[T]) Arm(key string) {
	m.armed = true
	m.active = true
	next := Model[T]{Key: key, State: State{Stage: Pending}}
	if m.cache != nil {
		if v, ok := m.cache.Get(key); ok {
			next.Content = v
			next.State = State{Stage: Complete}
		}
	}
	m.model = next
	m.changed()
}

// Tick is the render hook: a machine observed in Pending schedules its fetch.
// It returns the state as it was observed, before the fetch was scheduled.
func (m *Machine[T]) Tick() Model[T] {
	observed := m.model
	if observed.State.Stage == Pending && m.armed {
		m.FetchData()
	}
	return observed
}

// FetchData issues the request for the bound key. It is a no-op unless the
// machine is Pending, and the machine is Ongoing before it returns.
func (m *Machine[T]) FetchData() bool {
	next, issue := Update(m.model, Message[T]{Kind: FetchData, Key: m.model.Key})
	if !issue {
		return false
	}
	m.model = next
	key := next.Key
	load, list := m.load, m.list
	m.loop.Go(func(ctx context.Context) func() {
		v, err := load(ctx, key)
		msg := resultMessage(key, v, err, list)
		return func() { m.Dispatch(msg) }
	})
	m.changed()
	return true
}

func resultMessage[T any](key string, v T, err error, list bool) Message[T] {
	st := Outcome(err, list)
	if st.Stage == Complete {
		if err != nil {
			var zero T
			v = zero
		}
		return Message[T]{Kind: SetContent, Key: key, Content: v}
	}
	return Message[T]{Kind: SetState, Key: key, State: st}
}

// SetContent records parsed content for the bound key and completes the
// machine. It only applies while the machine is Ongoing; in any other stage
// the call is logged and ignored.
func (m *Machine[T]) SetContent(v T) {
	if m.model.State.Stage != Ongoing {
		m.log.Warnf("fetch: SetContent for %q ignored in %s", m.model.Key, m.model.State)
		return
	}
	m.Dispatch(Message[T]{Kind: SetContent, Key: m.model.Key, Content: v})
}

// SetState forces st for the bound key. Like SetContent it only applies
// while the machine is Ongoing.
func (m *Machine[T]) SetState(st State) {
	if m.model.State.Stage != Ongoing {
		m.log.Warnf("fetch: SetState(%s) for %q ignored in %s", st, m.model.Key, m.model.State)
		return
	}
	m.Dispatch(Message[T]{Kind: SetState, Key: m.model.Key, State: st})
}

// Dispatch feeds msg through Update and applies the store side effects of
// the resulting transition. Messages reaching a detached machine are dropped.
func (m *Machine[T]) Dispatch(msg Message[T]) {
	if msg.Kind == FetchData {
		m.FetchData()
		return
	}
	if !m.active {
		m.log.Debugf("fetch: dropped result for %q: machine detached", msg.Key)
		return
	}
	prev := m.model.State
	next, _ := Update(m.model, msg)
	if next.State == prev {
		m.log.Debugf("fetch: dropped stale result for %q (bound to %q, %s)", msg.Key, m.model.Key, prev)
		return
	}
	m.model = next
	if m.cache != nil {
		switch next.State.Stage {
		case Complete:
			if err := m.cache.Set(next.Key, next.Content); err != nil {
				m.log.Warnf("fetch: store %q: %v", next.Key, err)
			}
		case NotFound:
			if err := m.cache.Remove(next.Key); err != nil {
				m.log.Warnf("fetch: remove %q: %v", next.Key, err)
			}
		}
	}
	switch next.State.Stage {
	case NotFound:
		m.log.Debugf("fetch: %q not found", next.Key)
	case Failed:
		m.log.Warnf("fetch: %q failed: %s", next.Key, next.State.Message)
	}
	m.changed()
}

// Detach marks the machine inactive; in-flight results are discarded when
// they arrive. A later Arm or Sync reactivates it.
func (m *Machine[T]) Detach() {
	m.active = false
	m.armed = false
}

func (m *Machine[T]) changed() {
	if m.onChange != nil {
		m.onChange(m.model.State)
	}
}
