// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/a2a-session/internal/pool"
)

// envelope adds the "kind" discriminator in front of an inlined event body.
type envelope[T any] struct {
	Kind EventKind `json:"kind"`
	Body T         `json:",inline"`
}

// MarshalEvent encodes event as a JSON object carrying its "kind" member.
func MarshalEvent(event Event) ([]byte, error) {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	if err := marshalEvent(buf, event); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// WriteEvent encodes event to w the same way [MarshalEvent] does, in a single
// Write call.
func WriteEvent(w io.Writer, event Event) error {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	if err := marshalEvent(buf, event); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func marshalEvent(w io.Writer, event Event) error {
	switch e := event.(type) {
	case *Message:
		return json.MarshalWrite(w, envelope[Message]{Kind: KindMessage, Body: *e})
	case *Task:
		return json.MarshalWrite(w, envelope[Task]{Kind: KindTask, Body: *e})
	case *TaskStatusUpdateEvent:
		return json.MarshalWrite(w, envelope[TaskStatusUpdateEvent]{Kind: KindStatusUpdate, Body: *e})
	case *TaskArtifactUpdateEvent:
		return json.MarshalWrite(w, envelope[TaskArtifactUpdateEvent]{Kind: KindArtifactUpdate, Body: *e})
	case nil:
		return fmt.Errorf("cannot marshal nil event")
	default:
		return fmt.Errorf("unsupported event type %T", event)
	}
}

// UnmarshalEvent decodes a JSON object produced by [MarshalEvent] into the
// concrete event type named by its "kind" member.
func UnmarshalEvent(data []byte) (Event, error) {
	var head struct {
		Kind EventKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("unmarshal event kind: %w", err)
	}

	var event Event
	switch head.Kind {
	case KindMessage:
		event = new(Message)
	case KindTask:
		event = new(Task)
	case KindStatusUpdate:
		event = new(TaskStatusUpdateEvent)
	case KindArtifactUpdate:
		event = new(TaskArtifactUpdateEvent)
	case "":
		return nil, fmt.Errorf("event has no kind")
	default:
		return nil, fmt.Errorf("unknown event kind %q", head.Kind)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", head.Kind, err)
	}
	return event, nil
}
