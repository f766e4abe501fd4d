package telemetry

import (
	"sync"
	"time"
)

// EventType identifies a construction lifecycle event.
type EventType string

const (
	// EventConstructionStarted is emitted when a family construction begins.
	EventConstructionStarted EventType = "construction.started"

	// EventStateChanged is emitted on every pipeline state transition.
	EventStateChanged EventType = "construction.state_changed"

	// EventResourceCreated is emitted when an individual resource is created.
	EventResourceCreated EventType = "resource.created"

	// EventConstructionCompleted is emitted when a construction reaches a
	// terminal state.
	EventConstructionCompleted EventType = "construction.completed"

	// EventTemplateRegistered is emitted when a template is registered.
	EventTemplateRegistered EventType = "template.registered"

	// EventTemplateCloned is emitted when a template is cloned.
	EventTemplateCloned EventType = "template.cloned"
)

// Event is a single construction lifecycle event.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Provider  string         `json:"provider,omitempty"`
	Region    string         `json:"region,omitempty"`
	State     string         `json:"state,omitempty"`
	Resource  string         `json:"resource,omitempty"`
	Template  string         `json:"template,omitempty"`
	Error     string         `json:"error,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// EventHandler receives published events.
type EventHandler func(Event)

// EventPublisher fan-outs construction events to subscribed handlers.
// Publishing never blocks the construction pipeline: when the buffer is
// full the event is dropped.
type EventPublisher struct {
	mu       sync.RWMutex
	handlers []EventHandler
	ch       chan Event
	done     chan struct{}
	enabled  bool
	closed   bool
}

// NewEventPublisher creates an event publisher. When cfg.Enabled is
// false a no-op publisher is returned.
func NewEventPublisher(cfg EventsConfig) *EventPublisher {
	p := &EventPublisher{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return p
	}

	p.ch = make(chan Event, cfg.BufferSize)
	p.done = make(chan struct{})
	go p.dispatch()
	return p
}

// Subscribe registers a handler for all subsequent events.
func (p *EventPublisher) Subscribe(h EventHandler) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Publish sends an event to all subscribers. The event timestamp is set
// when absent.
func (p *EventPublisher) Publish(e Event) {
	if !p.enabled {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return
	}

	select {
	case p.ch <- e:
	default:
		// Buffer full, drop rather than block the pipeline.
	}
}

func (p *EventPublisher) dispatch() {
	defer close(p.done)
	for e := range p.ch {
		p.mu.RLock()
		handlers := p.handlers
		p.mu.RUnlock()
		for _, h := range handlers {
			h(e)
		}
	}
}

// Close stops the publisher and waits for in-flight events to drain.
func (p *EventPublisher) Close() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.ch)
	<-p.done
}
