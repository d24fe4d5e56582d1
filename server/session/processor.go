// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package session enforces the sequencing rules of one A2A task or message
// exchange, persists the task snapshot it produces and distributes its events
// to any number of subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/go-a2a/a2a-session"
	"github.com/go-a2a/a2a-session/server/event"
	"github.com/go-a2a/a2a-session/server/task"
)

// Mirror receives a copy of every event a [Processor] accepts, after local
// subscribers have been served.
type Mirror interface {
	Publish(ctx context.Context, event a2a.Event) error
}

// Processor is the event processor of one session, identified by a context ID
// and a task ID.
//
// SendMessage and SendTaskEvent are serialized by a single lock: an event is
// validated, persisted, broadcast and recorded before the next one is looked
// at. Cancelling the work that produces events does not close the Processor;
// only Close does, and Close does not wait for a send stuck on a subscriber.
type Processor struct {
	contextID string
	taskID    string

	sem *semaphore.Weighted

	// mu guards machine. Only senders holding sem change machine.state.
	mu      sync.RWMutex
	machine machine

	broadcaster *event.Broadcaster
	telemetry   *telemetry

	store         task.Store
	initial       *a2a.Task
	bufferSize    int
	mirror        Mirror
	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
}

// NewProcessor returns a Processor for taskID in contextID. Its event stream
// is live immediately.
func NewProcessor(contextID, taskID string, opts ...Option) (*Processor, error) {
	if contextID == "" {
		return nil, fmt.Errorf("context ID cannot be empty")
	}
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	p := &Processor{
		contextID: contextID,
		taskID:    taskID,
		sem:       semaphore.NewWeighted(1),
		machine: machine{
			contextID: contextID,
			taskID:    taskID,
			state:     Uninitialized{},
		},
		bufferSize:    event.DefaultBufferSize,
		logger:        slog.Default(),
		tracer:        otel.GetTracerProvider().Tracer(instrumentationName),
		meterProvider: otel.GetMeterProvider(),
	}
	for _, o := range opts {
		o(p)
	}

	if t := p.initial; t != nil {
		if t.ID != taskID || t.ContextID != contextID {
			return nil, fmt.Errorf("initial task %s/%s does not match session %s/%s", t.ContextID, t.ID, contextID, taskID)
		}
	}

	p.logger = p.logger.With(slog.String("context_id", contextID), slog.String("task_id", taskID))
	p.telemetry = newTelemetry(p.meterProvider)
	p.broadcaster = event.NewBroadcaster(
		event.WithBufferSize(p.bufferSize),
		event.WithSubscriberHook(p.telemetry.subscriberHook),
		event.WithLogger(p.logger),
	)
	return p, nil
}

// ContextID returns the context ID of the session.
func (p *Processor) ContextID() string { return p.contextID }

// TaskID returns the task ID of the session.
func (p *Processor) TaskID() string { return p.taskID }

// State returns the current type of the session.
func (p *Processor) State() SessionType {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.machine.state
}

// Closed reports whether Close has been called.
func (p *Processor) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.machine.closed
}

// SendMessage accepts msg as the one and only event of a message session.
//
// It returns a [*RejectError] when msg is not acceptable in the current state.
func (p *Processor) SendMessage(ctx context.Context, msg *a2a.Message) error {
	if isNil(msg) {
		return fmt.Errorf("message cannot be nil")
	}
	return p.send(ctx, "a2a.session.SendMessage", msg)
}

// SendTaskEvent accepts ev as the next event of the task session.
//
// It returns a [*RejectError] when ev is not acceptable in the current state,
// or the store error when the snapshot could not be updated; in both cases
// the session is unchanged and nothing was delivered. Once the snapshot is
// updated the event is delivered to every subscriber even if ctx ends; only a
// subscriber's own cancellation or Close stops that delivery.
func (p *Processor) SendTaskEvent(ctx context.Context, ev a2a.TaskEvent) error {
	if isNil(ev) {
		return fmt.Errorf("task event cannot be nil")
	}
	return p.send(ctx, "a2a.session.SendTaskEvent", ev)
}

func (p *Processor) send(ctx context.Context, spanName string, ev a2a.Event) (err error) {
	ctx, span := p.tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("a2a.context_id", p.contextID),
			attribute.String("a2a.task_id", p.taskID),
			attribute.String("a2a.event_kind", string(ev.Kind())),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for session: %w", err)
	}
	defer p.sem.Release(1)

	p.mu.RLock()
	m := p.machine
	p.mu.RUnlock()

	next, err := m.next(ev, func() (a2a.TaskState, error) { return p.seed(ctx) })
	if err != nil {
		if reason, ok := IsRejected(err); ok {
			p.telemetry.recordRejected(ctx, ev.Kind(), reason)
			p.logger.WarnContext(ctx, "event rejected",
				slog.String("event_kind", string(ev.Kind())),
				slog.String("reason", reason.String()),
				slog.Any("error", err),
			)
		}
		return err
	}

	if te, ok := ev.(a2a.TaskEvent); ok && p.store != nil {
		if err := p.store.Update(ctx, te); err != nil {
			p.logger.ErrorContext(ctx, "persist task event", slog.String("event_kind", string(ev.Kind())), slog.Any("error", err))
			return fmt.Errorf("persist %s event: %w", ev.Kind(), err)
		}
	}

	// The event is persisted: it reaches every subscriber no matter what
	// happens to the sender's context.
	deliverCtx := context.WithoutCancel(ctx)

	start := time.Now()
	if err := p.broadcaster.Publish(deliverCtx, ev); err != nil {
		// Only Close stops a detached publish; the stream of every
		// subscriber has ended with it.
		p.logger.DebugContext(ctx, "session closed during broadcast", slog.String("event_kind", string(ev.Kind())), slog.Any("error", err))
	}
	p.telemetry.recordBroadcast(ctx, time.Since(start))

	p.mu.Lock()
	p.machine.state = next
	p.mu.Unlock()
	p.telemetry.recordAccepted(ctx, ev.Kind())
	p.logger.DebugContext(ctx, "event accepted", slog.String("event_kind", string(ev.Kind())))

	if p.mirror != nil {
		if err := p.mirror.Publish(deliverCtx, ev); err != nil {
			p.logger.ErrorContext(ctx, "mirror event", slog.String("event_kind", string(ev.Kind())), slog.Any("error", err))
		}
	}
	return nil
}

// seed returns the last known state of the task from the initial task or
// the store. An unknown task has the empty state. An initial task the store
// does not hold yet is written to it, so that later updates have a snapshot
// to apply to.
func (p *Processor) seed(ctx context.Context) (a2a.TaskState, error) {
	if p.initial != nil {
		if err := p.storeInitial(ctx); err != nil {
			return "", err
		}
		return p.initial.Status.State, nil
	}
	if p.store == nil {
		return "", nil
	}

	snapshot, err := p.store.Get(ctx, p.taskID)
	if err != nil {
		if errors.As(err, new(a2a.TaskNotFoundError)) {
			return "", nil
		}
		return "", fmt.Errorf("load task %s: %w", p.taskID, err)
	}
	return snapshot.Status.State, nil
}

func (p *Processor) storeInitial(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	_, err := p.store.Get(ctx, p.taskID)
	switch {
	case err == nil:
		return nil
	case !errors.As(err, new(a2a.TaskNotFoundError)):
		return fmt.Errorf("load task %s: %w", p.taskID, err)
	}
	if err := p.store.Update(ctx, p.initial.Clone()); err != nil {
		return fmt.Errorf("store initial task %s: %w", p.taskID, err)
	}
	return nil
}

// isNil reports whether ev is nil or a nil event pointer.
func isNil(ev a2a.Event) bool {
	switch e := ev.(type) {
	case *a2a.Message:
		return e == nil
	case *a2a.Task:
		return e == nil
	case *a2a.TaskStatusUpdateEvent:
		return e == nil
	case *a2a.TaskArtifactUpdateEvent:
		return e == nil
	default:
		return ev == nil
	}
}

// Subscribe attaches a subscriber that receives every event accepted from now
// on. The stream ends when the Processor is closed; subscribing afterwards
// yields a stream that has already ended.
func (p *Processor) Subscribe() *event.Subscription {
	return p.broadcaster.Subscribe()
}

// Close closes the session. Later sends are rejected with
// [ReasonSessionClosed] and every subscriber's stream ends after the events
// already queued for it. A send blocked on a subscriber that does not read is
// stopped; the event it carries stays persisted. Close is idempotent.
func (p *Processor) Close() error {
	p.mu.Lock()
	if p.machine.closed {
		p.mu.Unlock()
		return nil
	}
	p.machine.closed = true
	p.mu.Unlock()

	p.broadcaster.Close()
	p.logger.Debug("session closed")
	return nil
}
