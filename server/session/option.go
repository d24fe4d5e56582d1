// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-a2a/a2a-session"
	"github.com/go-a2a/a2a-session/server/task"
)

// Option represents an option for configuring the [Processor].
type Option func(*Processor)

// WithStore sets the [task.Store] the [Processor] seeds from and persists to.
func WithStore(store task.Store) Option {
	return func(p *Processor) {
		p.store = store
	}
}

// WithInitialTask seeds the [Processor] with the last known state of its task.
// It takes precedence over the store when the first task event arrives.
func WithInitialTask(task *a2a.Task) Option {
	return func(p *Processor) {
		p.initial = task
	}
}

// WithSubscriberBuffer sets the queue size of each subscriber.
func WithSubscriberBuffer(size int) Option {
	return func(p *Processor) {
		p.bufferSize = size
	}
}

// WithLogger sets the [*slog.Logger] for the [Processor].
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithTracer sets the [trace.Tracer] for the [Processor].
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Processor) {
		p.tracer = tracer
	}
}

// WithMeterProvider sets the [metric.MeterProvider] the [Processor] records metrics with.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(p *Processor) {
		p.meterProvider = mp
	}
}

// WithMirror sets a [Mirror] that receives a copy of every accepted event.
func WithMirror(mirror Mirror) Option {
	return func(p *Processor) {
		p.mirror = mirror
	}
}
