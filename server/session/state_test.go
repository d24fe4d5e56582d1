// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/a2a-session"
)

func msg(contextID string) *a2a.Message {
	return &a2a.Message{MessageID: "m", Role: a2a.RoleAgent, Parts: a2a.Parts{a2a.NewTextPart("hi")}, ContextID: contextID}
}

func taskEv(state a2a.TaskState) *a2a.Task {
	return &a2a.Task{ID: "t1", ContextID: "c1", Status: a2a.TaskStatus{State: state}}
}

func status(state a2a.TaskState, final bool) *a2a.TaskStatusUpdateEvent {
	return &a2a.TaskStatusUpdateEvent{TaskID: "t1", ContextID: "c1", Status: a2a.TaskStatus{State: state}, Final: final}
}

func artifact() *a2a.TaskArtifactUpdateEvent {
	return &a2a.TaskArtifactUpdateEvent{
		TaskID: "t1", ContextID: "c1",
		Artifact: &a2a.Artifact{ArtifactID: "a1", Parts: a2a.Parts{a2a.NewTextPart("x")}},
	}
}

type step struct {
	event a2a.Event
	want  RejectReason // zero means accepted
}

// run feeds steps through a fresh machine, advancing only on acceptance.
func run(t *testing.T, seedState a2a.TaskState, steps []step) SessionType {
	t.Helper()

	m := &machine{contextID: "c1", taskID: "t1", state: Uninitialized{}}
	seed := func() (a2a.TaskState, error) { return seedState, nil }
	for i, s := range steps {
		next, err := m.next(s.event, seed)
		reason, rejected := IsRejected(err)
		switch {
		case err != nil && !rejected:
			t.Fatalf("step %d: unexpected error %v", i, err)
		case s.want == 0 && rejected:
			t.Fatalf("step %d (%s): rejected with %v, want accepted", i, s.event.Kind(), reason)
		case s.want != 0 && reason != s.want:
			t.Fatalf("step %d (%s): got %v (err %v), want rejection %v", i, s.event.Kind(), reason, err, s.want)
		}
		if err == nil {
			m.state = next
		}
	}
	return m.state
}

func TestMachineSequences(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		seed  a2a.TaskState
		steps []step
		want  SessionType
	}{
		"single message": {
			steps: []step{{msg("c1"), 0}},
			want:  MessageSession{},
		},
		"second message": {
			steps: []step{{msg("c1"), 0}, {msg("c1"), ReasonMessageAlreadySent}},
			want:  MessageSession{},
		},
		"task event after message": {
			steps: []step{{msg("c1"), 0}, {taskEv(a2a.TaskStateSubmitted), ReasonMessageAlreadySent}, {status(a2a.TaskStateWorking, false), ReasonMessageAlreadySent}},
			want:  MessageSession{},
		},
		"message after task": {
			steps: []step{{taskEv(a2a.TaskStateSubmitted), 0}, {msg("c1"), ReasonTaskAlreadyInitialized}},
			want:  TaskSession{TaskID: "t1", TaskState: a2a.TaskStateSubmitted},
		},
		"update before task": {
			steps: []step{{status(a2a.TaskStateWorking, false), ReasonTaskDoesNotExist}, {artifact(), ReasonTaskDoesNotExist}},
			want:  Uninitialized{},
		},
		"full task lifecycle": {
			steps: []step{
				{taskEv(a2a.TaskStateSubmitted), 0},
				{status(a2a.TaskStateWorking, false), 0},
				{artifact(), 0},
				{status(a2a.TaskStateCompleted, true), 0},
				{artifact(), ReasonFinalAlreadySent},
			},
			want: TaskSession{TaskID: "t1", TaskState: a2a.TaskStateCompleted, FinalReceived: true},
		},
		"terminal without final": {
			steps: []step{
				{taskEv(a2a.TaskStateSubmitted), 0},
				{status(a2a.TaskStateCompleted, false), ReasonFinalFlagRequired},
				{status(a2a.TaskStateCompleted, true), 0},
				{status(a2a.TaskStateWorking, false), ReasonFinalAlreadySent},
			},
			want: TaskSession{TaskID: "t1", TaskState: a2a.TaskStateCompleted, FinalReceived: true},
		},
		"non terminal final": {
			steps: []step{
				{taskEv(a2a.TaskStateWorking), 0},
				{status(a2a.TaskStateInputRequired, true), 0},
				{status(a2a.TaskStateWorking, false), ReasonFinalAlreadySent},
			},
			want: TaskSession{TaskID: "t1", TaskState: a2a.TaskStateInputRequired, FinalReceived: true},
		},
		"terminal task record": {
			steps: []step{
				{taskEv(a2a.TaskStateFailed), 0},
				{artifact(), ReasonTerminalStateReached},
			},
			want: TaskSession{TaskID: "t1", TaskState: a2a.TaskStateFailed},
		},
		"seeded working task": {
			seed: a2a.TaskStateWorking,
			steps: []step{
				{status(a2a.TaskStateWorking, false), 0},
				{status(a2a.TaskStateCanceled, true), 0},
			},
			want: TaskSession{TaskID: "t1", TaskState: a2a.TaskStateCanceled, FinalReceived: true},
		},
		"seeded terminal task": {
			seed: a2a.TaskStateCompleted,
			steps: []step{
				{status(a2a.TaskStateWorking, false), ReasonTerminalStateReached},
				{taskEv(a2a.TaskStateWorking), ReasonTerminalStateReached},
			},
			want: Uninitialized{},
		},
		"context mismatch": {
			steps: []step{
				{msg("other"), ReasonContextMismatch},
				{&a2a.TaskStatusUpdateEvent{TaskID: "t1", ContextID: "other"}, ReasonContextMismatch},
				{msg("c1"), 0},
			},
			want: MessageSession{},
		},
		"task id mismatch": {
			steps: []step{
				{&a2a.Task{ID: "t2", ContextID: "c1", Status: a2a.TaskStatus{State: a2a.TaskStateWorking}}, ReasonTaskIDMismatch},
				{taskEv(a2a.TaskStateWorking), 0},
			},
			want: TaskSession{TaskID: "t1", TaskState: a2a.TaskStateWorking},
		},
		"task id checked before message session": {
			steps: []step{
				{msg("c1"), 0},
				{&a2a.Task{ID: "t2", ContextID: "c1"}, ReasonTaskIDMismatch},
			},
			want: MessageSession{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := run(t, tt.seed, tt.steps)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("final state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMachineFinalFlagRequiredAlways(t *testing.T) {
	t.Parallel()

	for _, state := range []a2a.TaskState{a2a.TaskStateCompleted, a2a.TaskStateCanceled, a2a.TaskStateFailed, a2a.TaskStateRejected} {
		for _, seed := range []a2a.TaskState{a2a.TaskStateSubmitted, a2a.TaskStateWorking, a2a.TaskStateInputRequired} {
			run(t, seed, []step{{status(state, false), ReasonFinalFlagRequired}})
		}
	}
}

func TestMachineInvalidState(t *testing.T) {
	t.Parallel()

	tests := map[string]a2a.TaskEvent{
		"status without state": &a2a.TaskStatusUpdateEvent{TaskID: "t1", ContextID: "c1"},
		"status unknown value": status("paused", false),
		"task without state":   &a2a.Task{ID: "t1", ContextID: "c1"},
	}
	for name, ev := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			working := TaskSession{TaskID: "t1", TaskState: a2a.TaskStateWorking}
			m := &machine{contextID: "c1", taskID: "t1", state: working}
			_, err := m.next(ev, func() (a2a.TaskState, error) { return "", nil })
			if err == nil {
				t.Fatal("next() error = nil")
			}
			if _, rejected := IsRejected(err); rejected {
				t.Errorf("invalid event reported as rejection: %v", err)
			}

			// The task keeps its state and accepts the next valid update.
			if _, err := m.next(status(a2a.TaskStateWorking, false), nil); err != nil {
				t.Errorf("next(working) after invalid event error = %v", err)
			}
		})
	}
}

func TestMachineClosed(t *testing.T) {
	t.Parallel()

	m := &machine{contextID: "c1", taskID: "t1", state: Uninitialized{}, closed: true}
	for _, ev := range []a2a.Event{msg("c1"), msg("other"), taskEv(a2a.TaskStateWorking)} {
		_, err := m.next(ev, func() (a2a.TaskState, error) { return "", nil })
		if !errors.Is(err, ErrSessionClosed) {
			t.Errorf("next(%s) on closed session error = %v, want %v", ev.Kind(), err, ErrSessionClosed)
		}
	}
}

func TestMachineSeed(t *testing.T) {
	t.Parallel()

	m := &machine{contextID: "c1", taskID: "t1", state: Uninitialized{}}
	calls := 0
	wantErr := errors.New("store down")
	seed := func() (a2a.TaskState, error) {
		calls++
		return "", wantErr
	}

	if _, err := m.next(msg("c1"), seed); err != nil {
		t.Fatalf("next(message) error = %v", err)
	}
	if calls != 0 {
		t.Errorf("seed consulted %d times for a message, want 0", calls)
	}

	_, err := m.next(taskEv(a2a.TaskStateWorking), seed)
	if !errors.Is(err, wantErr) {
		t.Errorf("next(task) error = %v, want %v", err, wantErr)
	}
	if _, rejected := IsRejected(err); rejected {
		t.Errorf("seed failure reported as rejection: %v", err)
	}

	m.state = TaskSession{TaskID: "t1", TaskState: a2a.TaskStateWorking}
	calls = 0
	if _, err := m.next(status(a2a.TaskStateWorking, false), seed); err != nil {
		t.Fatalf("next(status) error = %v", err)
	}
	if calls != 0 {
		t.Errorf("seed consulted %d times for an initialized session, want 0", calls)
	}
}

func TestRejectError(t *testing.T) {
	t.Parallel()

	tests := map[RejectReason]struct {
		sentinel error
		code     int
	}{
		ReasonSessionClosed:          {ErrSessionClosed, a2a.ErrorCodeInternalError},
		ReasonContextMismatch:        {ErrContextMismatch, a2a.ErrorCodeInternalError},
		ReasonTaskIDMismatch:         {ErrTaskIDMismatch, a2a.ErrorCodeInternalError},
		ReasonMessageAlreadySent:     {ErrMessageAlreadySent, a2a.ErrorCodeInvalidAgentResponse},
		ReasonTaskAlreadyInitialized: {ErrTaskAlreadyInitialized, a2a.ErrorCodeInvalidAgentResponse},
		ReasonTaskDoesNotExist:       {ErrTaskDoesNotExist, a2a.ErrorCodeInvalidAgentResponse},
		ReasonFinalAlreadySent:       {ErrFinalAlreadySent, a2a.ErrorCodeInvalidAgentResponse},
		ReasonTerminalStateReached:   {ErrTerminalStateReached, a2a.ErrorCodeInvalidAgentResponse},
		ReasonFinalFlagRequired:      {ErrFinalFlagRequired, a2a.ErrorCodeInvalidAgentResponse},
	}
	for reason, tt := range tests {
		t.Run(reason.String(), func(t *testing.T) {
			t.Parallel()

			err := error(reject(reason, "detail"))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			var rej *RejectError
			if !errors.As(err, &rej) || rej.Code() != tt.code {
				t.Errorf("Code() = %d, want %d", rej.Code(), tt.code)
			}
		})
	}

	if got := RejectReason(99).String(); got != "RejectReason(99)" {
		t.Errorf("String() = %q", got)
	}
}
