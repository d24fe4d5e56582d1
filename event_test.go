// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"testing"
)

func TestTaskStateTerminal(t *testing.T) {
	t.Parallel()

	tests := map[TaskState]bool{
		TaskStateSubmitted:     false,
		TaskStateWorking:       false,
		TaskStateInputRequired: false,
		TaskStateAuthRequired:  false,
		TaskStateUnknown:       false,
		TaskStateCompleted:     true,
		TaskStateCanceled:      true,
		TaskStateFailed:        true,
		TaskStateRejected:      true,
	}
	for state, want := range tests {
		t.Run(state.String(), func(t *testing.T) {
			t.Parallel()

			if got := state.Terminal(); got != want {
				t.Errorf("%s.Terminal() = %v, want %v", state, got, want)
			}
			if !state.Valid() {
				t.Errorf("%s.Valid() = false, want true", state)
			}
		})
	}

	if TaskState("bogus").Valid() {
		t.Error(`TaskState("bogus").Valid() = true, want false`)
	}
}

func TestIsFinal(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		event Event
		want  bool
	}{
		"message": {
			event: NewAgentTextMessage("hi", "c1", ""),
			want:  true,
		},
		"working task": {
			event: &Task{ID: "t1", ContextID: "c1", Status: TaskStatus{State: TaskStateWorking}},
			want:  false,
		},
		"completed task": {
			event: &Task{ID: "t1", ContextID: "c1", Status: TaskStatus{State: TaskStateCompleted}},
			want:  true,
		},
		"working update": {
			event: NewStatusUpdateEvent("t1", "c1", TaskStateWorking, nil, false),
			want:  false,
		},
		"input required final update": {
			event: NewStatusUpdateEvent("t1", "c1", TaskStateInputRequired, nil, true),
			want:  true,
		},
		"canceled update": {
			event: NewStatusUpdateEvent("t1", "c1", TaskStateCanceled, nil, true),
			want:  true,
		},
		"artifact update": {
			event: NewArtifactUpdateEvent("t1", "c1", &Artifact{ArtifactID: "a1"}, false),
			want:  false,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := IsFinal(tt.event); got != tt.want {
				t.Errorf("IsFinal(%s) = %v, want %v", tt.event.Kind(), got, tt.want)
			}
		})
	}
}

func TestEventIdentifiers(t *testing.T) {
	t.Parallel()

	events := map[string]TaskEvent{
		"task":            &Task{ID: "t1", ContextID: "c1"},
		"status-update":   NewStatusUpdateEvent("t1", "c1", TaskStateWorking, nil, false),
		"artifact-update": NewArtifactUpdateEvent("t1", "c1", nil, false),
	}
	for kind, ev := range events {
		if got := string(ev.Kind()); got != kind {
			t.Errorf("Kind() = %q, want %q", got, kind)
		}
		if got := ev.GetTaskID(); got != "t1" {
			t.Errorf("%s: GetTaskID() = %q, want t1", kind, got)
		}
		if got := ev.GetContextID(); got != "c1" {
			t.Errorf("%s: GetContextID() = %q, want c1", kind, got)
		}
	}
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	msg := NewUserTextMessage("do it", "c1", "")
	task, err := NewTask(msg)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.ID == "" {
		t.Error("NewTask() generated empty task ID")
	}
	if task.ContextID != "c1" {
		t.Errorf("NewTask().ContextID = %q, want c1", task.ContextID)
	}
	if task.Status.State != TaskStateSubmitted {
		t.Errorf("NewTask().Status.State = %q, want %q", task.Status.State, TaskStateSubmitted)
	}
	if len(task.History) != 1 || task.History[0] != msg {
		t.Errorf("NewTask().History = %v, want [request]", task.History)
	}

	if _, err := NewTask(nil); err == nil {
		t.Error("NewTask(nil) error = nil, want error")
	}
	if _, err := NewTask(&Message{Role: RoleUser}); err == nil {
		t.Error("NewTask(message without ID) error = nil, want error")
	}
}
