// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
)

// Error codes for A2A protocol.
const (
	ErrorCodeJSONParse            = -32700
	ErrorCodeInvalidRequest       = -32600
	ErrorCodeMethodNotFound       = -32601
	ErrorCodeInvalidParams        = -32602
	ErrorCodeInternalError        = -32603
	ErrorCodeTaskNotFound         = -32001
	ErrorCodeTaskNotCancelable    = -32002
	ErrorCodeUnsupportedOperation = -32004
	ErrorCodeInvalidAgentResponse = -32006
)

// A2AError is an error that can be surfaced as an A2A protocol error.
type A2AError interface {
	error
	Code() int
	Message() string
}

// TaskNotFoundError represents an error when a task is not found.
type TaskNotFoundError struct {
	TaskID string
}

var _ A2AError = TaskNotFoundError{}

// Error returns the error message.
func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// Code returns the error code.
func (e TaskNotFoundError) Code() int {
	return ErrorCodeTaskNotFound
}

// Message returns the error message.
func (e TaskNotFoundError) Message() string {
	return "A2A specific error indicating the requested task ID was not found"
}

// TaskNotCancelableError represents an error when a task cannot be canceled.
type TaskNotCancelableError struct {
	TaskID string
	State  TaskState
}

var _ A2AError = TaskNotCancelableError{}

// Error returns the error message.
func (e TaskNotCancelableError) Error() string {
	return fmt.Sprintf("task %s cannot be canceled in state %s", e.TaskID, e.State)
}

// Code returns the error code.
func (e TaskNotCancelableError) Code() int {
	return ErrorCodeTaskNotCancelable
}

// Message returns the error message.
func (e TaskNotCancelableError) Message() string {
	return "A2A specific error indicating the task is in a state where it cannot be canceled"
}
