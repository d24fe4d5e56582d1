// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"iter"
	"sync"

	"github.com/go-a2a/a2a-session"
)

// Subscription is one subscriber's view of a [Broadcaster].
type Subscription struct {
	id   string
	seq  uint64
	ch   chan a2a.Event
	done chan struct{}
	once sync.Once
	b    *Broadcaster
}

// ID returns the unique identifier of the subscription.
func (s *Subscription) ID() string { return s.id }

// Events returns the channel on which events are delivered. The channel is
// closed when the Broadcaster closes or the subscription is cancelled.
func (s *Subscription) Events() <-chan a2a.Event { return s.ch }

// All returns an iterator over the events of the subscription. Iteration
// stops when the stream ends or ctx is done. Leaving the loop early cancels
// the subscription; it cannot be iterated again.
func (s *Subscription) All(ctx context.Context) iter.Seq[a2a.Event] {
	return func(yield func(a2a.Event) bool) {
		defer s.Cancel()
		for {
			select {
			case ev, ok := <-s.ch:
				if !ok || !yield(ev) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

// Cancel detaches the subscription. It does not affect the producer or any
// other subscriber. Cancel is idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.b.remove(s)
	})
}
