// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"context"
	"log/slog"
)

// AppendArtifactToTask folds an artifact update into task.
//
// Without the append flag the artifact replaces the one with the same ID, or
// is added when none exists. With the append flag its parts are appended to
// the existing artifact; a chunk for an unknown artifact is ignored.
func AppendArtifactToTask(ctx context.Context, task *Task, event *TaskArtifactUpdateEvent) {
	if event.Artifact == nil {
		return
	}
	logger := slog.Default()

	artifactID := event.Artifact.ArtifactID
	idx := -1
	for i, artifact := range task.Artifacts {
		if artifact != nil && artifact.ArtifactID == artifactID {
			idx = i
			break
		}
	}

	switch {
	case !event.Append && idx == -1:
		logger.DebugContext(ctx, "adding artifact", slog.String("artifact_id", artifactID), slog.String("task_id", task.ID))
		task.Artifacts = append(task.Artifacts, event.Artifact)
	case !event.Append:
		logger.DebugContext(ctx, "replacing artifact", slog.String("artifact_id", artifactID), slog.String("task_id", task.ID))
		task.Artifacts[idx] = event.Artifact
	case idx != -1:
		logger.DebugContext(ctx, "appending artifact parts", slog.String("artifact_id", artifactID), slog.String("task_id", task.ID))
		existing := *task.Artifacts[idx]
		existing.Parts = append(append(Parts(nil), existing.Parts...), event.Artifact.Parts...)
		task.Artifacts[idx] = &existing
	default:
		logger.WarnContext(ctx, "ignoring append for unknown artifact", slog.String("artifact_id", artifactID), slog.String("task_id", task.ID))
	}
}

// ApplyStatus moves task into status. The message of the previous status, if
// any, is kept in the task history.
func ApplyStatus(task *Task, status TaskStatus) {
	if task.Status.Message != nil {
		task.History = append(task.History, task.Status.Message)
	}
	task.Status = status
}

// MergeMetadata copies every entry of src into the metadata of task.
func MergeMetadata(task *Task, src map[string]any) {
	if len(src) == 0 {
		return
	}
	if task.Metadata == nil {
		task.Metadata = make(map[string]any, len(src))
	}
	for k, v := range src {
		task.Metadata[k] = v
	}
}
