// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in the A2A protocol.
type Role string

// Role constants for message senders.
const (
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// Message is a single turn of communication between a client and an agent.
//
// When produced by an agent as a standalone reply it is also an [Event]: a
// session that accepts a Message is finished.
type Message struct {
	MessageID string         `json:"messageId"`
	Role      Role           `json:"role"`
	Parts     Parts          `json:"parts"`
	ContextID string         `json:"contextId,omitzero"`
	TaskID    string         `json:"taskId,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

var _ Event = (*Message)(nil)

// Kind returns [KindMessage].
func (m *Message) Kind() EventKind { return KindMessage }

// GetContextID returns the context the message belongs to.
func (m *Message) GetContextID() string { return m.ContextID }

func (*Message) isEvent() {}

// Validate ensures the Message is valid.
func (m *Message) Validate() error {
	if m.Role != RoleAgent && m.Role != RoleUser {
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if m.MessageID == "" {
		return fmt.Errorf("message ID cannot be empty")
	}
	for i, part := range m.Parts {
		if part == nil {
			return fmt.Errorf("message part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// Text joins the text of all text parts of m with delimiter.
func (m *Message) Text(delimiter string) string {
	if m == nil {
		return ""
	}
	var texts []string
	for _, part := range m.Parts {
		if tp, ok := part.(*TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return strings.Join(texts, delimiter)
}

// NewAgentTextMessage creates an agent message containing a single [TextPart].
// taskID may be empty for messages that are not bound to a task.
func NewAgentTextMessage(text, contextID, taskID string) *Message {
	return &Message{
		MessageID: uuid.NewString(),
		Role:      RoleAgent,
		Parts:     Parts{NewTextPart(text)},
		ContextID: contextID,
		TaskID:    taskID,
	}
}

// NewUserTextMessage creates a user message containing a single [TextPart].
func NewUserTextMessage(text, contextID, taskID string) *Message {
	m := NewAgentTextMessage(text, contextID, taskID)
	m.Role = RoleUser
	return m
}

// Clone returns a copy of m with its own part list and metadata.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	c.Parts = slices.Clone(m.Parts)
	c.Metadata = maps.Clone(m.Metadata)
	return &c
}
