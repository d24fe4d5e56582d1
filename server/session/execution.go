// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-a2a/a2a-session"
)

// Producer is the agent work that drives a task forward through u.
// It should return once ctx is done.
type Producer func(ctx context.Context, u *Updater) error

// Execution runs a [Producer] for one [Processor] and lets another code path
// cancel it.
//
// The producer's context is detached from the processor: cancelling the
// producer leaves the processor open, so the cancel path can still deliver
// the canceled status to every subscriber.
type Execution struct {
	p      *Processor
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Start runs produce in a new goroutine. The producer's context carries the
// values of ctx but not its cancellation.
func Start(ctx context.Context, p *Processor, produce Producer) *Execution {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e := &Execution{
		p:      p,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(e.done)
		defer cancel()
		err := produce(ctx, NewUpdater(p))
		e.mu.Lock()
		e.err = err
		e.mu.Unlock()
	}()
	return e
}

// Cancel stops the producer and sends a final canceled status through the
// processor. text, when not empty, is attached as an agent message.
//
// A session that is already closed is not an error. A task that already
// reached a final or terminal state returns a2a.TaskNotCancelableError.
func (e *Execution) Cancel(ctx context.Context, text string) error {
	e.cancel()

	err := NewUpdater(e.p).Cancel(ctx, text)
	reason, rejected := IsRejected(err)
	switch {
	case err == nil:
		return nil
	case !rejected:
		return err
	case reason == ReasonSessionClosed:
		return nil
	case reason == ReasonFinalAlreadySent, reason == ReasonTerminalStateReached:
		state := a2a.TaskStateUnknown
		if ts, ok := e.p.State().(TaskSession); ok {
			state = ts.TaskState
		}
		return a2a.TaskNotCancelableError{TaskID: e.p.TaskID(), State: state}
	default:
		return err
	}
}

// Done returns a channel that is closed when the producer has returned.
func (e *Execution) Done() <-chan struct{} { return e.done }

// Wait waits for the producer and returns its error. A producer stopped by
// Cancel usually returns context.Canceled.
func (e *Execution) Wait() error {
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Stopped reports whether err is the error of a producer stopped by Cancel.
func Stopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
