// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Valkey pub/sub channel used by the relay.
const DefaultChannel = "synctech:events"

// relayBuffer bounds the number of local events waiting to be forwarded.
const relayBuffer = 256

// relayMessage is the JSON envelope exchanged between instances.
type relayMessage struct {
	Instance string    `json:"instance"`
	Topic    Topic     `json:"topic"`
	At       time.Time `json:"at"`
}

// Relay mirrors local events to a Valkey channel and re-publishes events
// from other instances on the local bus, so page caches and admin streams
// stay in sync across replicas.
type Relay struct {
	bus      *Bus
	client   *redis.Client
	channel  string
	instance string
	logger   *slog.Logger
	outbox   chan Event
}

// NewRelay creates a relay for bus over client. An empty channel selects
// DefaultChannel.
func NewRelay(bus *Bus, client *redis.Client, channel string, logger *slog.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		bus:      bus,
		client:   client,
		channel:  channel,
		instance: uuid.NewString(),
		logger:   logger,
		outbox:   make(chan Event, relayBuffer),
	}
}

// Instance returns the id this relay stamps on outgoing messages.
func (r *Relay) Instance() string {
	return r.instance
}

// Run forwards events in both directions until ctx is cancelled. It
// returns once the subscription is torn down.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription confirmation so no remote message published
	// after Run starts is missed.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("relay subscribe: %w", err)
	}

	unsubscribe := r.bus.SubscribeAll(func(ev Event) {
		if ev.Remote {
			return
		}
		select {
		case r.outbox <- ev:
		default:
			r.logger.Warn("relay outbox full, dropping event", "event", ev.Topic.EventName())
		}
	})
	defer unsubscribe()

	r.logger.Info("event relay started", "channel", r.channel, "instance", r.instance)

	incoming := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.outbox:
			r.forward(ctx, ev)
		case msg, ok := <-incoming:
			if !ok {
				return nil
			}
			r.receive(ctx, msg.Payload)
		}
	}
}

func (r *Relay) forward(ctx context.Context, ev Event) {
	payload, err := json.Marshal(relayMessage{Instance: r.instance, Topic: ev.Topic, At: ev.At})
	if err != nil {
		r.logger.Error("relay encode failed", "error", err)
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("relay publish failed", "event", ev.Topic.EventName(), "error", err)
	}
}

func (r *Relay) receive(ctx context.Context, payload string) {
	var msg relayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.logger.Warn("relay message malformed", "error", err)
		return
	}
	if msg.Instance == r.instance {
		return
	}
	if !msg.Topic.Valid() {
		r.logger.Warn("relay message has unknown topic", "topic", msg.Topic)
		return
	}
	r.bus.dispatch(ctx, Event{Topic: msg.Topic, At: msg.At, Remote: true})
}
