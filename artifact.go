// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Artifact represents a generated output from a task, which can contain multiple parts.
type Artifact struct {
	ArtifactID  string         `json:"artifactId"`
	Name        string         `json:"name,omitzero"`
	Description string         `json:"description,omitzero"`
	Parts       Parts          `json:"parts"`
	Extensions  []string       `json:"extensions,omitzero"`
	Metadata    map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Artifact is valid.
func (a *Artifact) Validate() error {
	if a.ArtifactID == "" {
		return fmt.Errorf("artifact ID cannot be empty")
	}
	if len(a.Parts) == 0 {
		return fmt.Errorf("artifact must contain at least one part")
	}
	for i, part := range a.Parts {
		if part == nil {
			return fmt.Errorf("artifact part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("artifact part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewArtifact creates a new Artifact object from a list of parts, a name, and an optional description.
// It generates a unique artifactId.
func NewArtifact(parts []Part, name, description string) (*Artifact, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("artifact must contain at least one part")
	}
	for i, part := range parts {
		if part == nil {
			return nil, fmt.Errorf("part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return nil, fmt.Errorf("part at index %d is invalid: %w", i, err)
		}
	}

	return &Artifact{
		ArtifactID:  uuid.NewString(),
		Name:        name,
		Description: description,
		Parts:       Parts(parts),
	}, nil
}

// NewTextArtifact creates a new Artifact object containing only a single TextPart.
func NewTextArtifact(name, text, description string) (*Artifact, error) {
	if text == "" {
		return nil, fmt.Errorf("text content cannot be empty")
	}
	return NewArtifact([]Part{NewTextPart(text)}, name, description)
}

// NewDataArtifact creates a new Artifact object containing only a single DataPart.
func NewDataArtifact(name string, data map[string]any, description string) (*Artifact, error) {
	if data == nil {
		return nil, fmt.Errorf("data content cannot be nil")
	}
	return NewArtifact([]Part{NewDataPart(data)}, name, description)
}

// Clone returns a copy of a with its own part list, extensions and metadata.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	c := *a
	c.Parts = slices.Clone(a.Parts)
	c.Extensions = slices.Clone(a.Extensions)
	c.Metadata = maps.Clone(a.Metadata)
	return &c
}
