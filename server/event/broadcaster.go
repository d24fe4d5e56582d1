// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package event distributes session events from a single producer to any
// number of subscribers.
package event

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/go-a2a/a2a-session"
)

// DefaultBufferSize is the default per-subscriber queue size.
const DefaultBufferSize = 1024

var (
	// ErrBroadcasterClosed is returned when publishing to a closed Broadcaster.
	ErrBroadcasterClosed = errors.New("event broadcaster is closed")
)

// Broadcaster fans out published events to every attached [Subscription].
//
// A Broadcaster is live from construction: events published before anyone
// subscribes are simply not delivered to anyone, and every subscriber sees
// every event published after it attached, in publish order. Publish never
// drops events; it waits while a subscriber's queue is full.
type Broadcaster struct {
	// pubMu serializes Publish, Close and the removal of cancelled
	// subscriptions so that no channel is closed while a send is pending.
	pubMu sync.Mutex

	// closing is closed first thing in Close so that a Publish stuck on a
	// stalled subscriber gives up pubMu.
	closing   chan struct{}
	closeOnce sync.Once

	mu     sync.RWMutex
	subs   map[string]*Subscription
	seq    uint64
	closed bool

	bufferSize int
	hook       func(delta int64)
	logger     *slog.Logger
}

// Option configures a [Broadcaster].
type Option func(*Broadcaster)

// WithBufferSize sets the per-subscriber queue size. A size of zero makes
// every delivery a direct hand-off; negative sizes select [DefaultBufferSize].
func WithBufferSize(size int) Option {
	return func(b *Broadcaster) {
		if size < 0 {
			size = DefaultBufferSize
		}
		b.bufferSize = size
	}
}

// WithSubscriberHook registers fn to be called with +1 when a subscriber
// attaches and -1 when it detaches.
func WithSubscriberHook(fn func(delta int64)) Option {
	return func(b *Broadcaster) {
		b.hook = fn
	}
}

// WithLogger sets the logger of the Broadcaster.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// NewBroadcaster returns a started Broadcaster.
func NewBroadcaster(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		subs:       make(map[string]*Subscription),
		closing:    make(chan struct{}),
		bufferSize: DefaultBufferSize,
		hook:       func(int64) {},
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Publish delivers event to every current subscriber.
//
// Publish blocks while a subscriber's queue is full. A subscriber that
// cancels is skipped. Publish returns ctx.Err() if ctx is done, and
// [ErrBroadcasterClosed] if the Broadcaster closes, before every subscriber
// received the event; subscribers served before that point keep the event.
// Callers that must not stop halfway pass a context without cancellation.
func (b *Broadcaster) Publish(ctx context.Context, event a2a.Event) error {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBroadcasterClosed
	}
	subs := slices.SortedFunc(maps.Values(b.subs), func(x, y *Subscription) int {
		return cmp.Compare(x.seq, y.seq)
	})
	b.mu.RUnlock()

	for _, s := range subs {
		// Free queue space wins over a concurrent Close.
		select {
		case s.ch <- event:
			continue
		default:
		}
		select {
		case s.ch <- event:
		case <-s.done:
		case <-b.closing:
			return ErrBroadcasterClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe attaches a new subscriber that receives every event published
// from now on. Subscribing to a closed Broadcaster returns a Subscription
// whose stream has already ended.
func (b *Broadcaster) Subscribe() *Subscription {
	s := &Subscription{
		id:   uuid.NewString(),
		ch:   make(chan a2a.Event, b.bufferSize),
		done: make(chan struct{}),
		b:    b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(s.ch)
		return s
	}
	b.seq++
	s.seq = b.seq
	b.subs[s.id] = s
	b.mu.Unlock()

	b.hook(1)
	b.logger.Debug("subscriber attached", slog.String("subscription_id", s.id))
	return s
}

// Close ends the stream of every subscriber. Events already queued are still
// delivered. A Publish blocked on a full queue is stopped rather than waited
// for. Close is idempotent.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() { close(b.closing) })

	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[string]*Subscription)
	b.mu.Unlock()

	for _, s := range subs {
		close(s.ch)
		b.hook(-1)
	}
	b.logger.Debug("broadcaster closed", slog.Int("subscribers", len(subs)))
}

// Closed reports whether Close has been called.
func (b *Broadcaster) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Subscribers returns the number of attached subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// remove detaches s. It waits for an in-flight Publish, which never blocks on
// s once s.done is closed.
func (b *Broadcaster) remove(s *Subscription) {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.Lock()
	_, ok := b.subs[s.id]
	delete(b.subs, s.id)
	b.mu.Unlock()

	if ok {
		close(s.ch)
		b.hook(-1)
		b.logger.Debug("subscriber detached", slog.String("subscription_id", s.id))
	}
}
