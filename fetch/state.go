// Package fetch drives a single remote load-and-parse operation through its
// lifecycle and exposes the current stage for rendering.
//
// A Machine is a Model plus the effects the pure Update function asks for.
// Every method of Machine must be called from the Loop that owns it.
package fetch

// Stage is the active tag of a State.
type Stage int

const (
	Pending Stage = iota
	Ongoing
	Complete
	NotFound
	Failed
)

func (s Stage) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ongoing:
		return "ongoing"
	case Complete:
		return "complete"
	case NotFound:
		return "not-found"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// State is the tagged fetch state. Message is only meaningful when Stage is Failed.
type State struct {
	Stage   Stage
	Message string
}

// Error returns the Failed state carrying msg.
func Error(msg string) State {
	return State{Stage: Failed, Message: msg}
}

// Terminal reports whether no further transition happens without a re-arm.
func (s State) Terminal() bool {
	return s.Stage == Complete || s.Stage == NotFound || s.Stage == Failed
}

func (s State) String() string {
	if s.Stage == Failed {
		return "error(" + s.Message + ")"
	}
	return s.Stage.String()
}

// Kind selects what a Message asks the machine to do.
type Kind int

const (
	FetchData Kind = iota
	SetContent
	SetState
)

// Message is the input of Update. Key names the identifier the message was
// produced for; results for another identifier are dropped.
type Message[T any] struct {
	Kind    Kind
	Key     string
	Content T
	State   State
}

// Model is the explicit state object of one machine.
type Model[T any] struct {
	Key     string
	State   State
	Content T
}

// Update is the reducer. It returns the next model and whether a request
// for next.Key must be issued.
//
// FetchData is honoured only from Pending. Results are honoured only while
// the model is Ongoing for the same key, which both enforces terminality and
// drops late answers for an identifier the machine has moved away from.
func Update[T any](m Model[T], msg Message[T]) (Model[T], bool) {
	switch msg.Kind {
	case FetchData:
		if m.State.Stage != Pending {
			return m, false
		}
		m.State = State{Stage: Ongoing}
		return m, true
	case SetContent:
		if msg.Key != m.Key || m.State.Stage != Ongoing {
			return m, false
		}
		m.Content = msg.Content
		m.State = State{Stage: Complete}
		return m, false
	case SetState:
		if msg.Key != m.Key || m.State.Stage != Ongoing {
			return m, false
		}
		m.State = msg.State
		if msg.State.Stage != Complete {
			var zero T
			m.Content = zero
		}
		return m, false
	}
	return m, false
}
