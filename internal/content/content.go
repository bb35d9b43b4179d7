// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content is the storage layer the handlers talk to. Each entity
// gets a service built from a repository interface and the shared event
// bus. The services apply one policy everywhere:
//
//   - List reads are fail-soft: a repository error yields an empty Result
//     whose Err records the cause, and the failure is logged.
//   - Writes propagate repository errors to the caller.
//   - Every successful write publishes exactly one event for the entity.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"synctech/internal/events"
)

// ErrInvalid marks input rejected before it reached the repository.
var ErrInvalid = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Result is the outcome of a fail-soft list read. Items is never nil, so
// templates can range over it directly.
type Result[T any] struct {
	Items []T
	Err   error
}

// Failed reports whether the read fell back to empty because of an error,
// as opposed to the collection being empty.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Len returns the number of items.
func (r Result[T]) Len() int {
	return len(r.Items)
}

// listResult builds a Result, logging and emptying it on error.
func listResult[T any](ctx context.Context, entity string, items []T, err error) Result[T] {
	if err != nil {
		slog.ErrorContext(ctx, "list failed, serving empty collection", "entity", entity, "error", err)
		return Result[T]{Items: []T{}, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items}
}

// publisher publishes the change event for one topic.
type publisher struct {
	bus   *events.Bus
	topic events.Topic
}

// changed publishes the topic. A nil bus is allowed for tools that write
// without listeners.
func (p publisher) changed(ctx context.Context) {
	if p.bus != nil {
		p.bus.Publish(ctx, p.topic)
	}
}
