// Package events fans events out to subscribers, synchronously and in
// subscription order.
package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventType represents the type of event
type EventType string

const (
	EventCommandExecuted  EventType = "COMMAND_EXECUTED"
	EventGameFinished     EventType = "GAME_FINISHED"
	EventSessionLoaded    EventType = "SESSION_LOADED"
	EventSessionReset     EventType = "SESSION_RESET"
	EventConnectionClosed EventType = "CONNECTION_CLOSED"

	// EventAll subscribes a handler to every event type.
	EventAll EventType = "*"
)

// Event represents an event in the system
type Event struct {
	Type      EventType
	SessionID string // Optional, can be empty for non-session events
	Payload   any
}

// Handler is a function that processes events
type Handler func(event Event)

// SubscriptionID identifies one subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id        SubscriptionID
	eventType EventType
	handler   Handler
}

// Publisher delivers each event to its subscribers one after another on
// the publishing goroutine. A panicking handler is logged and skipped.
type Publisher struct {
	mu     sync.RWMutex
	nextID SubscriptionID
	subs   []subscription

	logger *zap.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{logger: logger}
}

// Subscribe registers a handler for a specific event type
func (p *Publisher) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	p.subs = append(p.subs, subscription{id: p.nextID, eventType: eventType, handler: handler})
	return p.nextID
}

// SubscribeAll registers a handler for all event types
func (p *Publisher) SubscribeAll(handler Handler) SubscriptionID {
	return p.Subscribe(EventAll, handler)
}

// Unsubscribe removes a subscription. It reports whether id was found.
func (p *Publisher) Unsubscribe(id SubscriptionID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of live subscriptions.
func (p *Publisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Publish broadcasts an event to all subscribers including "all events"
// handlers. Handlers run without the publisher lock held, so they may
// subscribe or unsubscribe.
func (p *Publisher) Publish(event Event) {
	p.mu.RLock()
	handlers := make([]subscription, 0, len(p.subs))
	for _, s := range p.subs {
		if s.eventType == event.Type || s.eventType == EventAll {
			handlers = append(handlers, s)
		}
	}
	p.mu.RUnlock()

	for _, s := range handlers {
		p.deliver(s, event)
	}
}

func (p *Publisher) deliver(s subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("event handler panicked",
				zap.String("event", string(event.Type)),
				zap.Uint64("subscription", uint64(s.id)),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.handler(event)
}
