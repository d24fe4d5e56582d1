// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Task is the full record of a unit of asynchronous work tracked from
// submission to a terminal outcome.
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	History   []*Message     `json:"history,omitzero"`
	Artifacts []*Artifact    `json:"artifacts,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

var _ TaskEvent = (*Task)(nil)

// Kind returns [KindTask].
func (t *Task) Kind() EventKind { return KindTask }

// GetContextID returns the context the task belongs to.
func (t *Task) GetContextID() string { return t.ContextID }

// GetTaskID returns the task ID.
func (t *Task) GetTaskID() string { return t.ID }

func (*Task) isEvent()     {}
func (*Task) isTaskEvent() {}

// Validate ensures the Task is valid.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if t.ContextID == "" {
		return fmt.Errorf("task context ID cannot be empty")
	}
	if !t.Status.State.Valid() {
		return fmt.Errorf("invalid task state: %q", t.Status.State)
	}
	return nil
}

// NewTask creates a submitted Task from the client's request message.
//
// The task ID and context ID are taken from the message when present and
// generated otherwise. The request message becomes the first history entry.
func NewTask(request *Message) (*Task, error) {
	if request == nil {
		return nil, fmt.Errorf("request message cannot be nil")
	}
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request message: %w", err)
	}

	taskID := request.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	contextID := request.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}

	return &Task{
		ID:        taskID,
		ContextID: contextID,
		Status:    NewTaskStatus(TaskStateSubmitted, nil),
		History:   []*Message{request},
	}, nil
}

// TaskStatusUpdateEvent informs the client of a task status transition.
type TaskStatusUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	Final     bool           `json:"final"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

var _ TaskEvent = (*TaskStatusUpdateEvent)(nil)

// NewStatusUpdateEvent creates a [TaskStatusUpdateEvent] for taskID moving into state.
func NewStatusUpdateEvent(taskID, contextID string, state TaskState, message *Message, final bool) *TaskStatusUpdateEvent {
	return &TaskStatusUpdateEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Status:    NewTaskStatus(state, message),
		Final:     final,
	}
}

// Kind returns [KindStatusUpdate].
func (e *TaskStatusUpdateEvent) Kind() EventKind { return KindStatusUpdate }

// GetContextID returns the context the event belongs to.
func (e *TaskStatusUpdateEvent) GetContextID() string { return e.ContextID }

// GetTaskID returns the ID of the updated task.
func (e *TaskStatusUpdateEvent) GetTaskID() string { return e.TaskID }

// Validate ensures the status update carries a known task state.
func (e *TaskStatusUpdateEvent) Validate() error {
	if !e.Status.State.Valid() {
		return fmt.Errorf("invalid task state: %q", e.Status.State)
	}
	return nil
}

func (*TaskStatusUpdateEvent) isEvent()     {}
func (*TaskStatusUpdateEvent) isTaskEvent() {}

// TaskArtifactUpdateEvent carries a new or updated artifact for a task.
type TaskArtifactUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Artifact  *Artifact      `json:"artifact"`
	Append    bool           `json:"append,omitzero"`
	LastChunk bool           `json:"lastChunk,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

var _ TaskEvent = (*TaskArtifactUpdateEvent)(nil)

// NewArtifactUpdateEvent creates a [TaskArtifactUpdateEvent] for taskID.
func NewArtifactUpdateEvent(taskID, contextID string, artifact *Artifact, append bool) *TaskArtifactUpdateEvent {
	return &TaskArtifactUpdateEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Artifact:  artifact,
		Append:    append,
	}
}

// Kind returns [KindArtifactUpdate].
func (e *TaskArtifactUpdateEvent) Kind() EventKind { return KindArtifactUpdate }

// GetContextID returns the context the event belongs to.
func (e *TaskArtifactUpdateEvent) GetContextID() string { return e.ContextID }

// GetTaskID returns the ID of the updated task.
func (e *TaskArtifactUpdateEvent) GetTaskID() string { return e.TaskID }

func (*TaskArtifactUpdateEvent) isEvent()     {}
func (*TaskArtifactUpdateEvent) isTaskEvent() {}

// Clone returns a deep copy of t. Parts are shared; they are never modified
// in place.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Status.Message = t.Status.Message.Clone()
	if t.History != nil {
		c.History = make([]*Message, len(t.History))
		for i, m := range t.History {
			c.History[i] = m.Clone()
		}
	}
	if t.Artifacts != nil {
		c.Artifacts = make([]*Artifact, len(t.Artifacts))
		for i, a := range t.Artifacts {
			c.Artifacts[i] = a.Clone()
		}
	}
	c.Metadata = maps.Clone(t.Metadata)
	return &c
}
