// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

// EventKind is the discriminator of an [Event] on the wire.
type EventKind string

// Event kinds.
const (
	KindMessage        EventKind = "message"
	KindTask           EventKind = "task"
	KindStatusUpdate   EventKind = "status-update"
	KindArtifactUpdate EventKind = "artifact-update"
)

// Event is one of the four values an agent may emit during a session:
// [*Message], [*Task], [*TaskStatusUpdateEvent] or [*TaskArtifactUpdateEvent].
//
// The set is closed; code that branches on an Event should switch over
// exactly these four types.
type Event interface {
	// Kind returns the wire discriminator of the event.
	Kind() EventKind

	// GetContextID returns the conversation the event belongs to.
	GetContextID() string

	isEvent()
}

// TaskEvent is an [Event] bound to a task: [*Task],
// [*TaskStatusUpdateEvent] or [*TaskArtifactUpdateEvent].
type TaskEvent interface {
	Event

	// GetTaskID returns the task the event belongs to.
	GetTaskID() string

	isTaskEvent()
}

// IsFinal reports whether event ends a valid event stream: a standalone
// [*Message], a status update flagged final, or a task or status update
// that reached a terminal state.
func IsFinal(event Event) bool {
	switch e := event.(type) {
	case *Message:
		return true
	case *Task:
		return e.Status.State.Terminal()
	case *TaskStatusUpdateEvent:
		return e.Final || e.Status.State.Terminal()
	case *TaskArtifactUpdateEvent:
		return false
	default:
		return false
	}
}
