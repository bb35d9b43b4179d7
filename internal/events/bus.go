// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events is the change-notification bus. Every successful content
// write publishes the topic of the entity it touched; listeners treat the
// event as "something changed, re-sync" and carry no payload beyond the
// topic itself.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Topic identifies the entity collection that changed.
type Topic string

const (
	TopicSettings     Topic = "settings"
	TopicLeads        Topic = "leads"
	TopicPortfolio    Topic = "portfolio"
	TopicBlog         Topic = "blog"
	TopicBlogHeader   Topic = "blog-header"
	TopicNewsletter   Topic = "newsletter"
	TopicHero         Topic = "hero"
	TopicTestimonials Topic = "testimonials"
	TopicServices     Topic = "services"
	TopicPricing      Topic = "pricing"
	TopicAnalytics    Topic = "analytics"
)

// Topics lists every known topic.
var Topics = []Topic{
	TopicSettings, TopicLeads, TopicPortfolio, TopicBlog, TopicBlogHeader,
	TopicNewsletter, TopicHero, TopicTestimonials, TopicServices, TopicPricing,
	TopicAnalytics,
}

// EventName is the wire name of the topic, e.g. "storage-leads-updated".
func (t Topic) EventName() string {
	return "storage-" + string(t) + "-updated"
}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	for _, known := range Topics {
		if t == known {
			return true
		}
	}
	return false
}

// Event is a single change notification.
type Event struct {
	Topic Topic
	At    time.Time
	// Remote is set when the event arrived through a Relay from another
	// instance rather than from a local write.
	Remote bool
}

// Listener handles an event. Listeners run synchronously on the
// publisher's goroutine and must not block.
type Listener func(Event)

// Bus fans events out to registered listeners.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[Topic]map[uint64]Listener
	all    map[uint64]Listener
	logger *slog.Logger
}

// NewBus creates an empty bus. A nil logger falls back to slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		topics: make(map[Topic]map[uint64]Listener),
		all:    make(map[uint64]Listener),
		logger: logger,
	}
}

// Subscribe registers fn for a single topic. The returned function removes
// the listener; calling it more than once is harmless.
func (b *Bus) Subscribe(topic Topic, fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[uint64]Listener)
	}
	b.topics[topic][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.topics[topic], id)
			if len(b.topics[topic]) == 0 {
				delete(b.topics, topic)
			}
			b.mu.Unlock()
		})
	}
}

// SubscribeAll registers fn for every topic.
func (b *Bus) SubscribeAll(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.all[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.all, id)
			b.mu.Unlock()
		})
	}
}

// Publish dispatches a local event for topic to every listener before
// returning. A panicking listener is logged and does not stop delivery.
func (b *Bus) Publish(ctx context.Context, topic Topic) {
	b.dispatch(ctx, Event{Topic: topic, At: time.Now()})
}

func (b *Bus) dispatch(ctx context.Context, ev Event) {
	b.mu.RLock()
	listeners := make([]Listener, 0, len(b.topics[ev.Topic])+len(b.all))
	for _, fn := range b.topics[ev.Topic] {
		listeners = append(listeners, fn)
	}
	for _, fn := range b.all {
		listeners = append(listeners, fn)
	}
	b.mu.RUnlock()

	b.logger.DebugContext(ctx, "event published",
		"event", ev.Topic.EventName(),
		"listeners", len(listeners),
		"remote", ev.Remote,
	)

	for _, fn := range listeners {
		b.call(ctx, fn, ev)
	}
}

func (b *Bus) call(ctx context.Context, fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event listener panicked",
				"event", ev.Topic.EventName(),
				"panic", r,
			)
		}
	}()
	fn(ev)
}

// Listeners returns how many listeners would receive an event for topic,
// counting catch-all listeners.
func (b *Bus) Listeners(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic]) + len(b.all)
}
