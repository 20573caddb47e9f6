// Package signal implements the execution signal shared by every fiber
// of a run: two one-shot latches (cancelled, fast-forward) with channel
// and callback notification.
//
// Both latches are monotone. Once latched they never reset, repeated
// latching is a no-op, and the first cancel reason sticks.
package signal

import (
	"log/slog"
	"sync"
)

// Kind identifies which latch an Event reports.
type Kind string

const (
	KindCancel      Kind = "cancel"
	KindFastForward Kind = "fast_forward"
)

// Event describes one latch transition delivered to subscribers.
type Event struct {
	Kind   Kind
	Reason string
}

// Option configures a Signal.
type Option func(*Signal)

// WithLogger sets the logger used to report subscriber panics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Signal) {
		s.logger = logger
	}
}

// Signal is the execution signal of one run.
// The zero value is not usable; construct with New.
type Signal struct {
	mu          sync.Mutex
	cancelled   bool
	reason      string
	fastForward bool

	done      chan struct{}
	forwarded chan struct{}

	subscribers map[int]func(Event)
	nextSubID   int

	logger *slog.Logger
}

// New creates an unlatched signal.
func New(opts ...Option) *Signal {
	s := &Signal{
		done:        make(chan struct{}),
		forwarded:   make(chan struct{}),
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cancel latches the cancelled flag with the given reason and notifies
// subscribers. Only the first call has any effect.
func (s *Signal) Cancel(reason string) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.reason = reason
	close(s.done)
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.notify(subs, Event{Kind: KindCancel, Reason: reason})
}

// FastForward latches the fast-forward flag and notifies subscribers.
// Only the first call has any effect.
func (s *Signal) FastForward() {
	s.mu.Lock()
	if s.fastForward {
		s.mu.Unlock()
		return
	}
	s.fastForward = true
	close(s.forwarded)
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.notify(subs, Event{Kind: KindFastForward})
}

// Cancelled reports whether the cancel latch is set.
func (s *Signal) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Reason returns the reason of the first Cancel, or "".
func (s *Signal) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// FastForwarding reports whether the fast-forward latch is set.
func (s *Signal) FastForwarding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fastForward
}

// Done returns a channel closed when the cancel latch sets.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// FastForwarded returns a channel closed when the fast-forward latch
// sets.
func (s *Signal) FastForwarded() <-chan struct{} {
	return s.forwarded
}

// Subscribe registers fn for future latch transitions and returns an
// unsubscribe function. Latches already set when Subscribe is called
// are replayed immediately so late subscribers observe them.
func (s *Signal) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	replay := make([]Event, 0, 2)
	if s.cancelled {
		replay = append(replay, Event{Kind: KindCancel, Reason: s.reason})
	}
	if s.fastForward {
		replay = append(replay, Event{Kind: KindFastForward})
	}
	s.mu.Unlock()

	for _, ev := range replay {
		s.dispatch(fn, ev)
	}

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Signal) snapshotSubscribers() []func(Event) {
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (s *Signal) notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		s.dispatch(fn, ev)
	}
}

func (s *Signal) dispatch(fn func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil && s.logger != nil {
			s.logger.Error("signal subscriber panicked",
				slog.String("kind", string(ev.Kind)),
				slog.Any("panic", r))
		}
	}()
	fn(ev)
}
