package population

// EventKind identifies a session mutation
type EventKind int

const (
	EventWeightChanged EventKind = iota
	EventReshuffled
)

func (k EventKind) String() string {
	switch k {
	case EventWeightChanged:
		return "weight_changed"
	case EventReshuffled:
		return "reshuffled"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after a mutation completes
type Event struct {
	Kind   EventKind
	Round  int
	Weight float64
}

// Listener receives session events on the mutating goroutine
type Listener func(Event)

// Subscribe registers a listener for all subsequent events
func (s *Session) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
}

func (s *Session) emit(kind EventKind) {
	ev := Event{Kind: kind, Round: s.round, Weight: s.weight}
	for _, l := range s.listeners {
		l(ev)
	}
}
