// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"

	"github.com/go-a2a/a2a-session"
)

// Updater builds the task events of one [Processor] for agent code.
//
// Every method sends through the processor and returns its error unchanged.
// Terminal transitions are always flagged final.
type Updater struct {
	p *Processor
}

// NewUpdater returns an Updater sending through p.
func NewUpdater(p *Processor) *Updater {
	return &Updater{p: p}
}

// Processor returns the processor the Updater sends through.
func (u *Updater) Processor() *Processor { return u.p }

// NewAgentMessage returns an agent message bound to the task of the session.
func (u *Updater) NewAgentMessage(text string) *a2a.Message {
	return a2a.NewAgentTextMessage(text, u.p.ContextID(), u.p.TaskID())
}

// Submit creates the task in the submitted state. A non-nil request becomes
// the first entry of the task history.
func (u *Updater) Submit(ctx context.Context, request *a2a.Message) error {
	task := &a2a.Task{
		ID:        u.p.TaskID(),
		ContextID: u.p.ContextID(),
		Status:    a2a.NewTaskStatus(a2a.TaskStateSubmitted, nil),
	}
	if request != nil {
		task.History = []*a2a.Message{request}
	}
	return u.p.SendTaskEvent(ctx, task)
}

// UpdateStatus moves the task into state. text, when not empty, is attached as
// an agent message. final is forced for terminal states.
func (u *Updater) UpdateStatus(ctx context.Context, state a2a.TaskState, text string, final bool) error {
	var msg *a2a.Message
	if text != "" {
		msg = u.NewAgentMessage(text)
	}
	ev := a2a.NewStatusUpdateEvent(u.p.TaskID(), u.p.ContextID(), state, msg, final || state.Terminal())
	return u.p.SendTaskEvent(ctx, ev)
}

// AddArtifact sends artifact. With append set its parts extend the artifact
// of the same ID.
func (u *Updater) AddArtifact(ctx context.Context, artifact *a2a.Artifact, append bool) error {
	if artifact == nil {
		return fmt.Errorf("artifact cannot be nil")
	}
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("artifact validation failed: %w", err)
	}
	return u.p.SendTaskEvent(ctx, a2a.NewArtifactUpdateEvent(u.p.TaskID(), u.p.ContextID(), artifact, append))
}

// StartWork marks the task as working.
func (u *Updater) StartWork(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateWorking, text, false)
}

// RequiresInput pauses the task until the client sends more input. The
// update is final for this exchange.
func (u *Updater) RequiresInput(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateInputRequired, text, true)
}

// RequiresAuth pauses the task until the client authenticates. The update is
// final for this exchange.
func (u *Updater) RequiresAuth(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateAuthRequired, text, true)
}

// Complete marks the task as completed.
func (u *Updater) Complete(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateCompleted, text, true)
}

// Failed marks the task as failed.
func (u *Updater) Failed(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateFailed, text, true)
}

// Reject marks the task as rejected.
func (u *Updater) Reject(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateRejected, text, true)
}

// Cancel marks the task as canceled.
func (u *Updater) Cancel(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateCanceled, text, true)
}
