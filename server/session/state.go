// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"

	"github.com/go-a2a/a2a-session"
)

// SessionType is the kind of exchange a session has settled into:
// [Uninitialized], [MessageSession] or [TaskSession].
type SessionType interface {
	sessionType()
}

// Uninitialized is the type of a session that has not accepted any event.
type Uninitialized struct{}

// MessageSession is the type of a session that accepted a standalone message.
// Such a session accepts nothing else.
type MessageSession struct{}

// TaskSession is the type of a session that carries task events.
type TaskSession struct {
	TaskID string
	// TaskState is empty until the task is known to exist.
	TaskState a2a.TaskState
	// FinalReceived is set once a status update flagged final was accepted.
	FinalReceived bool
}

func (Uninitialized) sessionType()  {}
func (MessageSession) sessionType() {}
func (TaskSession) sessionType()    {}

// Exists reports whether the task of the session has been established.
func (s TaskSession) Exists() bool { return s.TaskState != "" }

// machine is the sequencing state machine of one session.
type machine struct {
	contextID string
	taskID    string
	state     SessionType
	closed    bool
}

// seedFunc returns the last known state of the task; the empty state means
// the task is unknown.
type seedFunc func() (a2a.TaskState, error)

// next validates event against the current state and returns the state the
// session moves to if event is accepted. m itself is not modified.
//
// seed is consulted only when the first task event arrives; its errors are
// returned as they are. A task or status update without a known state is
// invalid, which is reported as a plain error rather than a rejection.
func (m *machine) next(event a2a.Event, seed seedFunc) (SessionType, error) {
	if m.closed {
		return nil, reject(ReasonSessionClosed, "")
	}
	if got := event.GetContextID(); got != m.contextID {
		return nil, reject(ReasonContextMismatch, "event context %q, session context %q", got, m.contextID)
	}

	switch ev := event.(type) {
	case *a2a.Message:
		switch m.state.(type) {
		case MessageSession:
			return nil, reject(ReasonMessageAlreadySent, "")
		case TaskSession:
			return nil, reject(ReasonTaskAlreadyInitialized, "session carries task %s", m.taskID)
		default:
			return MessageSession{}, nil
		}

	case *a2a.Task:
		return m.nextTask(ev, seed)
	case *a2a.TaskStatusUpdateEvent:
		return m.nextTask(ev, seed)
	case *a2a.TaskArtifactUpdateEvent:
		return m.nextTask(ev, seed)

	default:
		panic("session: unknown event type")
	}
}

func (m *machine) nextTask(event a2a.TaskEvent, seed seedFunc) (SessionType, error) {
	if got := event.GetTaskID(); got != m.taskID {
		return nil, reject(ReasonTaskIDMismatch, "event task %q, session task %q", got, m.taskID)
	}

	var ts TaskSession
	switch s := m.state.(type) {
	case MessageSession:
		return nil, reject(ReasonMessageAlreadySent, "")
	case TaskSession:
		ts = s
	default:
		state, err := seed()
		if err != nil {
			return nil, err
		}
		ts = TaskSession{TaskID: m.taskID, TaskState: state}
	}

	_, isTask := event.(*a2a.Task)
	switch {
	case !ts.Exists() && !isTask:
		return nil, reject(ReasonTaskDoesNotExist, "first event of task %s is a %s", m.taskID, event.Kind())
	case ts.FinalReceived:
		return nil, reject(ReasonFinalAlreadySent, "")
	case ts.Exists() && ts.TaskState.Terminal():
		return nil, reject(ReasonTerminalStateReached, "task %s is %s", m.taskID, ts.TaskState)
	}

	// An accepted event never takes the task back to the empty state.
	switch ev := event.(type) {
	case *a2a.Task:
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("invalid task: %w", err)
		}
		ts.TaskState = ev.Status.State
	case *a2a.TaskStatusUpdateEvent:
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("invalid status update: %w", err)
		}
		if ev.Status.State.Terminal() && !ev.Final {
			return nil, reject(ReasonFinalFlagRequired, "status %s", ev.Status.State)
		}
		ts.TaskState = ev.Status.State
		ts.FinalReceived = ev.Final
	case *a2a.TaskArtifactUpdateEvent:
		// artifacts do not move the task
	}
	return ts, nil
}
