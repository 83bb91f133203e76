package specindex

import (
	"sync"
	"time"
)

// EventKind identifies what a stage is reporting.
type EventKind string

const (
	EventTOCPage       EventKind = "toc_page"
	EventTOCEmpty      EventKind = "toc_empty"
	EventEntryDropped  EventKind = "entry_dropped"
	EventFrontMatter   EventKind = "front_matter"
	EventUnresolved    EventKind = "unresolved_heading"
	EventTOCFallback   EventKind = "toc_fallback"
	EventStageComplete EventKind = "stage_complete"
)

// Event is a structured record emitted by a stage.
type Event struct {
	Stage     string
	Kind      EventKind
	SectionID string
	Page      int
	Detail    string
	Count     int
	Duration  time.Duration
}

// Observer receives events from the stages. The Processor calls it from
// concurrent stages, so implementations must be safe for concurrent use.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type discard struct{}

func (discard) Observe(Event) {}

func observerOrDiscard(o Observer) Observer {
	if o == nil {
		return discard{}
	}
	return o
}

// Recorder is an Observer that keeps every event. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Observe appends e.
func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns the recorded events of the given kind.
func (r *Recorder) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// fanOut forwards every event to each observer in turn.
type fanOut []Observer

func (f fanOut) Observe(e Event) {
	for _, o := range f {
		o.Observe(e)
	}
}
