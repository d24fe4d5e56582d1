// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"

	"github.com/go-a2a/a2a-session"
)

// RejectReason names the rule an event broke.
type RejectReason int

// Reject reasons.
const (
	// ReasonSessionClosed: the session was closed before the event arrived.
	ReasonSessionClosed RejectReason = iota + 1
	// ReasonContextMismatch: the event belongs to another context.
	ReasonContextMismatch
	// ReasonTaskIDMismatch: the task event belongs to another task.
	ReasonTaskIDMismatch
	// ReasonMessageAlreadySent: the session already carried a message.
	ReasonMessageAlreadySent
	// ReasonTaskAlreadyInitialized: a message arrived in a task session.
	ReasonTaskAlreadyInitialized
	// ReasonTaskDoesNotExist: a task update arrived before the task itself.
	ReasonTaskDoesNotExist
	// ReasonFinalAlreadySent: a task event arrived after a final status update.
	ReasonFinalAlreadySent
	// ReasonTerminalStateReached: a task event arrived after the task ended.
	ReasonTerminalStateReached
	// ReasonFinalFlagRequired: a status update reached a terminal state without final set.
	ReasonFinalFlagRequired
)

// Sentinel errors matched by [RejectError] through errors.Is.
var (
	ErrSessionClosed          = errors.New("session closed")
	ErrContextMismatch        = errors.New("context mismatch")
	ErrTaskIDMismatch         = errors.New("task id mismatch")
	ErrMessageAlreadySent     = errors.New("message already sent")
	ErrTaskAlreadyInitialized = errors.New("task already initialized")
	ErrTaskDoesNotExist       = errors.New("task does not exist")
	ErrFinalAlreadySent       = errors.New("final event already sent")
	ErrTerminalStateReached   = errors.New("terminal state reached")
	ErrFinalFlagRequired      = errors.New("terminal status update requires final flag")
)

var reasonErrors = map[RejectReason]error{
	ReasonSessionClosed:          ErrSessionClosed,
	ReasonContextMismatch:        ErrContextMismatch,
	ReasonTaskIDMismatch:         ErrTaskIDMismatch,
	ReasonMessageAlreadySent:     ErrMessageAlreadySent,
	ReasonTaskAlreadyInitialized: ErrTaskAlreadyInitialized,
	ReasonTaskDoesNotExist:       ErrTaskDoesNotExist,
	ReasonFinalAlreadySent:       ErrFinalAlreadySent,
	ReasonTerminalStateReached:   ErrTerminalStateReached,
	ReasonFinalFlagRequired:      ErrFinalFlagRequired,
}

// String returns the sentinel message of r.
func (r RejectReason) String() string {
	if err, ok := reasonErrors[r]; ok {
		return err.Error()
	}
	return fmt.Sprintf("RejectReason(%d)", int(r))
}

// RejectError is returned when a session refuses an event. The session state
// is unchanged and a different, valid event may still be accepted, except
// after [ReasonSessionClosed].
type RejectError struct {
	Reason RejectReason
	Detail string
}

var _ a2a.A2AError = (*RejectError)(nil)

func reject(reason RejectReason, format string, args ...any) *RejectError {
	return &RejectError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Error returns the error message.
func (e *RejectError) Error() string {
	if e.Detail == "" {
		return "event rejected: " + e.Reason.String()
	}
	return fmt.Sprintf("event rejected: %s: %s", e.Reason, e.Detail)
}

// Unwrap returns the sentinel error of the reason.
func (e *RejectError) Unwrap() error {
	return reasonErrors[e.Reason]
}

// Code returns the JSON-RPC error code the rejection surfaces as: an invalid
// agent response for sequencing violations, an internal error otherwise.
func (e *RejectError) Code() int {
	switch e.Reason {
	case ReasonSessionClosed, ReasonContextMismatch, ReasonTaskIDMismatch:
		return a2a.ErrorCodeInternalError
	default:
		return a2a.ErrorCodeInvalidAgentResponse
	}
}

// Message returns the error message.
func (e *RejectError) Message() string {
	return e.Error()
}

// IsRejected reports whether err is a [RejectError], and returns its reason.
func IsRejected(err error) (RejectReason, bool) {
	var rej *RejectError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return 0, false
}
