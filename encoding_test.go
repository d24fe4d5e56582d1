// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEventRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := map[string]struct {
		event    Event
		wantKind string
	}{
		"message": {
			event: &Message{
				MessageID: "m1",
				Role:      RoleAgent,
				Parts:     Parts{NewTextPart("hello"), NewDataPart(map[string]any{"k": "v"})},
				ContextID: "c1",
			},
			wantKind: `"kind":"message"`,
		},
		"task": {
			event: &Task{
				ID:        "t1",
				ContextID: "c1",
				Status:    TaskStatus{State: TaskStateWorking, Timestamp: ts},
				History: []*Message{{
					MessageID: "m0",
					Role:      RoleUser,
					Parts:     Parts{NewTextPart("go")},
				}},
				Metadata: map[string]any{"origin": "test"},
			},
			wantKind: `"kind":"task"`,
		},
		"status update": {
			event: &TaskStatusUpdateEvent{
				TaskID:    "t1",
				ContextID: "c1",
				Status: TaskStatus{
					State:     TaskStateCompleted,
					Message:   &Message{MessageID: "m2", Role: RoleAgent, Parts: Parts{NewTextPart("done")}},
					Timestamp: ts,
				},
				Final: true,
			},
			wantKind: `"kind":"status-update"`,
		},
		"artifact update": {
			event: &TaskArtifactUpdateEvent{
				TaskID:    "t1",
				ContextID: "c1",
				Artifact: &Artifact{
					ArtifactID: "a1",
					Name:       "report",
					Parts: Parts{&FilePart{
						Kind: FilePartKind,
						File: File{Name: "r.txt", MimeType: "text/plain", Bytes: []byte("abc")},
					}},
				},
				Append:    true,
				LastChunk: true,
			},
			wantKind: `"kind":"artifact-update"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := MarshalEvent(tt.event)
			if err != nil {
				t.Fatalf("MarshalEvent() error = %v", err)
			}
			if !strings.Contains(string(data), tt.wantKind) {
				t.Errorf("MarshalEvent() = %s, want it to contain %s", data, tt.wantKind)
			}

			got, err := UnmarshalEvent(data)
			if err != nil {
				t.Fatalf("UnmarshalEvent() error = %v", err)
			}
			if diff := cmp.Diff(tt.event, got); diff != "" {
				t.Errorf("UnmarshalEvent() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalEventErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"invalid json":  `{"kind":`,
		"missing kind":  `{"taskId":"t1"}`,
		"unknown kind":  `{"kind":"push-notification"}`,
		"unknown part":  `{"kind":"message","messageId":"m1","role":"agent","parts":[{"kind":"video"}]}`,
		"wrong field":   `{"kind":"status-update","final":"yes"}`,
		"not an object": `[1,2,3]`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if ev, err := UnmarshalEvent([]byte(input)); err == nil {
				t.Errorf("UnmarshalEvent(%s) = %v, want error", input, ev)
			}
		})
	}
}

func TestMarshalEventNil(t *testing.T) {
	t.Parallel()

	if _, err := MarshalEvent(nil); err == nil {
		t.Error("MarshalEvent(nil) error = nil, want error")
	}
}

func TestWriteEvent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ev := NewStatusUpdateEvent("t1", "c1", TaskStateWorking, nil, false)
	if err := WriteEvent(&buf, ev); err != nil {
		t.Fatalf("WriteEvent() error = %v", err)
	}
	got, err := UnmarshalEvent(buf.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalEvent() error = %v", err)
	}
	if diff := cmp.Diff(Event(ev), got); diff != "" {
		t.Errorf("WriteEvent() round trip mismatch (-want +got):\n%s", diff)
	}
}
