// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Part kinds.
const (
	TextPartKind = "text"
	DataPartKind = "data"
	FilePartKind = "file"
)

// Part represents a part of a message's or artifact's content.
// It can be a text part, data part, or file part.
type Part interface {
	GetKind() string
	GetMetadata() map[string]any
	Validate() error
}

// TextPart represents a plain text segment.
type TextPart struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

var _ Part = (*TextPart)(nil)

// NewTextPart returns a [TextPart] holding text.
func NewTextPart(text string) *TextPart {
	return &TextPart{Kind: TextPartKind, Text: text}
}

// GetKind returns the part kind.
func (tp *TextPart) GetKind() string { return tp.Kind }

// GetMetadata returns the part metadata.
func (tp *TextPart) GetMetadata() map[string]any { return tp.Metadata }

// Validate ensures the TextPart is valid.
func (tp *TextPart) Validate() error {
	if tp.Kind != TextPartKind {
		return fmt.Errorf("text part kind must be %q, got %q", TextPartKind, tp.Kind)
	}
	return nil
}

// DataPart represents a structured data segment.
type DataPart struct {
	Kind     string         `json:"kind"`
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

var _ Part = (*DataPart)(nil)

// NewDataPart returns a [DataPart] holding data.
func NewDataPart(data map[string]any) *DataPart {
	return &DataPart{Kind: DataPartKind, Data: data}
}

// GetKind returns the part kind.
func (dp *DataPart) GetKind() string { return dp.Kind }

// GetMetadata returns the part metadata.
func (dp *DataPart) GetMetadata() map[string]any { return dp.Metadata }

// Validate ensures the DataPart is valid.
func (dp *DataPart) Validate() error {
	if dp.Kind != DataPartKind {
		return fmt.Errorf("data part kind must be %q, got %q", DataPartKind, dp.Kind)
	}
	if dp.Data == nil {
		return fmt.Errorf("data part data cannot be nil")
	}
	return nil
}

// File describes file content either inline (Bytes, base64 encoded on the
// wire) or by reference (URI). Exactly one of them is set.
type File struct {
	Name     string `json:"name,omitzero"`
	MimeType string `json:"mimeType,omitzero"`
	Bytes    []byte `json:"bytes,omitzero"`
	URI      string `json:"uri,omitzero"`
}

// FilePart represents a file segment.
type FilePart struct {
	Kind     string         `json:"kind"`
	File     File           `json:"file"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

var _ Part = (*FilePart)(nil)

// GetKind returns the part kind.
func (fp *FilePart) GetKind() string { return fp.Kind }

// GetMetadata returns the part metadata.
func (fp *FilePart) GetMetadata() map[string]any { return fp.Metadata }

// Validate ensures the FilePart is valid.
func (fp *FilePart) Validate() error {
	if fp.Kind != FilePartKind {
		return fmt.Errorf("file part kind must be %q, got %q", FilePartKind, fp.Kind)
	}
	hasBytes, hasURI := len(fp.File.Bytes) > 0, fp.File.URI != ""
	if hasBytes == hasURI {
		return fmt.Errorf("file part must set exactly one of bytes or uri")
	}
	return nil
}

// Parts is a list of heterogeneous [Part] values that decodes each element
// according to its "kind" member.
type Parts []Part

// UnmarshalJSON implements [json.Unmarshaler].
func (ps *Parts) UnmarshalJSON(data []byte) error {
	var raws []jsontext.Value
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("unmarshal parts: %w", err)
	}

	out := make(Parts, 0, len(raws))
	for i, raw := range raws {
		var kind struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(raw, &kind); err != nil {
			return fmt.Errorf("unmarshal kind of part %d: %w", i, err)
		}

		var part Part
		switch kind.Kind {
		case TextPartKind:
			part = new(TextPart)
		case DataPartKind:
			part = new(DataPart)
		case FilePartKind:
			part = new(FilePart)
		default:
			return fmt.Errorf("unknown kind %q of part %d", kind.Kind, i)
		}
		if err := json.Unmarshal(raw, part); err != nil {
			return fmt.Errorf("unmarshal %s part %d: %w", kind.Kind, i, err)
		}
		out = append(out, part)
	}

	*ps = out
	return nil
}
