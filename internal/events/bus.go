package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type funcHandler struct {
	id string
	fn EventHandler
}

// EventBus delivers events synchronously, subscribers first in the order
// they subscribed, then function handlers for the event's type.
type EventBus struct {
	mu        sync.RWMutex
	subs      []Subscriber
	funcs     map[string][]funcHandler
	published map[string]int
	logger    zerolog.Logger
}

func NewEventBus() *EventBus {
	return &EventBus{
		funcs:     make(map[string][]funcHandler),
		published: make(map[string]int),
		logger:    log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds s. A subscriber with the same ID is replaced in place.
func (eb *EventBus) Subscribe(s Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, existing := range eb.subs {
		if existing.ID() == s.ID() {
			eb.subs[i] = s
			return
		}
	}
	eb.subs = append(eb.subs, s)
	eb.logger.Debug().Str("subscriber_id", s.ID()).Msg("Subscribed")
}

func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, s := range eb.subs {
		if s.ID() == subscriberID {
			eb.subs = append(eb.subs[:i], eb.subs[i+1:]...)
			eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Unsubscribed")
			return
		}
	}
}

// SubscribeFunc registers fn for one event type and returns its handler id.
func (eb *EventBus) SubscribeFunc(eventType string, fn EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := fmt.Sprintf("%s#%d", eventType, len(eb.funcs[eventType])+1)
	eb.funcs[eventType] = append(eb.funcs[eventType], funcHandler{id: id, fn: fn})
	return id
}

// Publish delivers event to every interested handler. A panicking handler
// is logged and skipped.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.Lock()
	eb.published[eventType]++
	subs := append([]Subscriber(nil), eb.subs...)
	funcs := append([]funcHandler(nil), eb.funcs[eventType]...)
	eb.mu.Unlock()

	for _, s := range subs {
		if s.InterestedIn(eventType) {
			eb.deliver(s.ID(), event, s.HandleEvent)
		}
	}
	for _, h := range funcs {
		eb.deliver(h.id, event, h.fn)
	}
}

func (eb *EventBus) deliver(handlerID string, event Event, fn EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("handler_id", handlerID).
				Str("event_type", event.Type()).
				Str("request_id", event.RequestID()).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	fn(event)
}

func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subs)
}

func (eb *EventBus) FuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcs[eventType])
}

// Published returns how many events of eventType have been published.
func (eb *EventBus) Published(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.published[eventType]
}

// PublishedTotal returns how many events have been published.
func (eb *EventBus) PublishedTotal() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	n := 0
	for _, c := range eb.published {
		n += c
	}
	return n
}
