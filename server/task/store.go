// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task keeps the latest snapshot of every task a session has
// accepted events for.
package task

import (
	"context"
	"fmt"

	"github.com/go-a2a/a2a-session"
)

// Store keeps task snapshots keyed by task ID.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the latest snapshot of the task.
	// Returns a2a.TaskNotFoundError if the task is unknown.
	Get(ctx context.Context, taskID string) (*a2a.Task, error)

	// Update folds event into the snapshot of its task as described by [Apply].
	Update(ctx context.Context, event a2a.TaskEvent) error
}

// Apply returns the snapshot that results from folding event into snapshot.
// snapshot is never modified and may be nil when the task is unknown.
//
// A Task replaces the snapshot. A status update moves the previous status
// message into the history, sets the new status and merges the event
// metadata. An artifact update adds, replaces or extends an artifact. Both
// updates require an existing snapshot.
func Apply(ctx context.Context, snapshot *a2a.Task, event a2a.TaskEvent) (*a2a.Task, error) {
	if snapshot != nil && snapshot.ID != event.GetTaskID() {
		return nil, fmt.Errorf("event for task %s applied to snapshot of task %s", event.GetTaskID(), snapshot.ID)
	}

	switch ev := event.(type) {
	case *a2a.Task:
		if err := ev.Validate(); err != nil {
			return nil, NewTaskValidationError(ev.ID, err)
		}
		return ev.Clone(), nil

	case *a2a.TaskStatusUpdateEvent:
		if snapshot == nil {
			return nil, a2a.TaskNotFoundError{TaskID: ev.TaskID}
		}
		next := snapshot.Clone()
		a2a.ApplyStatus(next, ev.Status)
		a2a.MergeMetadata(next, ev.Metadata)
		return next, nil

	case *a2a.TaskArtifactUpdateEvent:
		if snapshot == nil {
			return nil, a2a.TaskNotFoundError{TaskID: ev.TaskID}
		}
		if ev.Artifact == nil {
			return nil, NewTaskValidationError(ev.TaskID, fmt.Errorf("artifact update without artifact"))
		}
		next := snapshot.Clone()
		a2a.AppendArtifactToTask(ctx, next, ev)
		return next, nil

	default:
		return nil, fmt.Errorf("unsupported task event %T", event)
	}
}
