// Package event provides the in-process event gateway that on-event
// nodes subscribe to. Hosts emit named events with a payload; handlers
// run synchronously on the emitter's goroutine.
package event

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is one emitted occurrence.
type Event struct {
	// ID is a ULID assigned at emit time, sortable by emission order.
	ID      string
	Name    string
	Payload any
	Time    time.Time
}

// Handler consumes one event.
type Handler func(Event)

// Gateway is the subscription surface nodes see. On registers a
// handler for a named event and returns an unsubscribe function.
type Gateway interface {
	On(name string, handler Handler) (func(), error)
}

// LocalGateway is an in-process Gateway with synchronous dispatch.
// The zero value is not usable; construct with NewLocalGateway.
type LocalGateway struct {
	mu       sync.RWMutex
	handlers map[string]map[int]Handler
	nextID   int
	closed   bool

	logger *slog.Logger
}

// GatewayOption configures a LocalGateway.
type GatewayOption func(*LocalGateway)

// WithLogger sets the logger used to report handler panics.
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *LocalGateway) {
		g.logger = logger
	}
}

// NewLocalGateway creates an empty gateway.
func NewLocalGateway(opts ...GatewayOption) *LocalGateway {
	g := &LocalGateway{
		handlers: make(map[string]map[int]Handler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// On registers a handler for the named event and returns an
// unsubscribe function. Unsubscribing twice is a no-op.
func (g *LocalGateway) On(name string, handler Handler) (func(), error) {
	if name == "" {
		return nil, fmt.Errorf("subscribe: empty event name")
	}
	if handler == nil {
		return nil, fmt.Errorf("subscribe %q: nil handler", name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, fmt.Errorf("subscribe %q: gateway closed", name)
	}

	id := g.nextID
	g.nextID++
	if g.handlers[name] == nil {
		g.handlers[name] = make(map[int]Handler)
	}
	g.handlers[name][id] = handler

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if hs := g.handlers[name]; hs != nil {
			delete(hs, id)
			if len(hs) == 0 {
				delete(g.handlers, name)
			}
		}
	}, nil
}

// Emit delivers an event to every handler registered for its name,
// synchronously and in unspecified order. It returns the assigned
// event id. Emitting on a closed gateway is a no-op.
func (g *LocalGateway) Emit(name string, payload any) string {
	ev := Event{
		ID:      ulid.Make().String(),
		Name:    name,
		Payload: payload,
		Time:    time.Now(),
	}

	g.mu.RLock()
	if g.closed {
		g.mu.RUnlock()
		return ev.ID
	}
	handlers := make([]Handler, 0, len(g.handlers[name]))
	for _, h := range g.handlers[name] {
		handlers = append(handlers, h)
	}
	g.mu.RUnlock()

	for _, h := range handlers {
		g.dispatch(h, ev)
	}
	return ev.ID
}

// SubscriberCount returns how many handlers are registered for name.
func (g *LocalGateway) SubscriberCount(name string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.handlers[name])
}

// Close drops all handlers and rejects further subscriptions.
func (g *LocalGateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.handlers = make(map[string]map[int]Handler)
}

func (g *LocalGateway) dispatch(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil && g.logger != nil {
			g.logger.Error("event handler panicked",
				slog.String("event", ev.Name),
				slog.String("event_id", ev.ID),
				slog.Any("panic", r))
		}
	}()
	h(ev)
}
