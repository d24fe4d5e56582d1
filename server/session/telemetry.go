// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/go-a2a/a2a-session"
)

const instrumentationName = "github.com/go-a2a/a2a-session/server/session"

// telemetry holds the metric instruments of a processor.
type telemetry struct {
	accepted    metric.Int64Counter
	rejected    metric.Int64Counter
	subscribers metric.Int64UpDownCounter
	broadcast   metric.Float64Histogram
}

func newTelemetry(mp metric.MeterProvider) *telemetry {
	m := mp.Meter(instrumentationName)
	t := new(telemetry)
	var err error

	t.accepted, err = m.Int64Counter("a2a.session.events.accepted",
		metric.WithDescription("Count of events accepted by sessions"),
	)
	if err != nil {
		otel.Handle(err)
		t.accepted = noop.Int64Counter{}
	}

	t.rejected, err = m.Int64Counter("a2a.session.events.rejected",
		metric.WithDescription("Count of events rejected by sessions"),
	)
	if err != nil {
		otel.Handle(err)
		t.rejected = noop.Int64Counter{}
	}

	t.subscribers, err = m.Int64UpDownCounter("a2a.session.subscribers",
		metric.WithDescription("Number of attached session subscribers"),
	)
	if err != nil {
		otel.Handle(err)
		t.subscribers = noop.Int64UpDownCounter{}
	}

	t.broadcast, err = m.Float64Histogram("a2a.session.broadcast.duration",
		metric.WithDescription("Time spent delivering an event to every subscriber"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
		t.broadcast = noop.Float64Histogram{}
	}

	return t
}

func (t *telemetry) recordAccepted(ctx context.Context, kind a2a.EventKind) {
	t.accepted.Add(ctx, 1, metric.WithAttributes(attribute.String("a2a.event_kind", string(kind))))
}

func (t *telemetry) recordRejected(ctx context.Context, kind a2a.EventKind, reason RejectReason) {
	t.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("a2a.event_kind", string(kind)),
		attribute.String("reason", reason.String()),
	))
}

func (t *telemetry) recordBroadcast(ctx context.Context, d time.Duration) {
	t.broadcast.Record(ctx, d.Seconds())
}

func (t *telemetry) subscriberHook(delta int64) {
	t.subscribers.Add(context.Background(), delta)
}
