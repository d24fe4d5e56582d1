// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides the Agent-to-Agent (A2A) protocol types used by the
// session event processor: messages, tasks, task status and the streaming
// update events exchanged between an agent and its clients.
package a2a

import (
	"time"
)

// Version is the A2A protocol version these types follow.
const Version = "0.2.5"

// TaskState represents the state of a Task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been received and acknowledged.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateInputRequired indicates the agent needs more input from the client.
	TaskStateInputRequired TaskState = "input-required"

	// TaskStateAuthRequired indicates the agent needs the client to authenticate.
	TaskStateAuthRequired TaskState = "auth-required"

	// TaskStateCompleted indicates the task has been completed.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task has been canceled.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task has failed.
	TaskStateFailed TaskState = "failed"

	// TaskStateRejected indicates the agent refused to perform the task.
	TaskStateRejected TaskState = "rejected"

	// TaskStateUnknown indicates the state cannot be determined.
	TaskStateUnknown TaskState = "unknown"
)

// Terminal reports whether no further task events are legal once a task reaches s.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the known task states.
func (s TaskState) Valid() bool {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired, TaskStateAuthRequired,
		TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected, TaskStateUnknown:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (s TaskState) String() string {
	return string(s)
}

// TaskStatus represents the status of a task at a point in time.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// NewTaskStatus returns a TaskStatus in state with the current UTC timestamp.
func NewTaskStatus(state TaskState, message *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
