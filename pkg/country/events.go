package country

import (
	"sync"

	"github.com/kass/mercator-puzzle/pkg/models"
)

// EventKind tells moves apart from the terminal fixed event
type EventKind int

const (
	// Moved is published after every successful current center write.
	Moved EventKind = iota
	// Fixed is published once, when the country is placed correctly.
	Fixed
)

func (k EventKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Change records one current center write
type Change struct {
	ID       string
	Previous models.LatLng
	Current  models.LatLng
}

// Event is delivered to sinks in write order per country
type Event struct {
	Kind EventKind
	Change
}

// Sink receives country events. Publish is called outside the country's lock.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event)

// Publish calls f(e).
func (f SinkFunc) Publish(e Event) {
	f(e)
}

// ChannelSink forwards events into a buffered channel. Publish blocks when the
// buffer is full, so the consumer must keep reading; Close stops forwarding.
type ChannelSink struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Events returns the receiving side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// Publish sends e unless the sink is closed.
func (s *ChannelSink) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- e
}

// Close closes the channel; later events are dropped.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// MultiSink fans events out to several sinks in order
type MultiSink []Sink

// Publish delivers e to every sink.
func (m MultiSink) Publish(e Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(e)
		}
	}
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
