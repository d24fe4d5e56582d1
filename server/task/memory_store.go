// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/a2a-session"
)

// InMemoryStore is an in-memory implementation of [Store].
// Snapshots are copied on the way in and out, so callers never share them.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tasks: make(map[string]*a2a.Task),
	}
}

// Get retrieves the snapshot of taskID.
func (s *InMemoryStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}
	return task.Clone(), nil
}

// Update applies event to the stored snapshot of its task.
func (s *InMemoryStore) Update(ctx context.Context, event a2a.TaskEvent) error {
	if event == nil {
		return fmt.Errorf("task event cannot be nil")
	}
	taskID := event.GetTaskID()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Apply(ctx, s.tasks[taskID], event)
	if err != nil {
		return NewTaskStoreError("update", taskID, err)
	}
	s.tasks[taskID] = next
	return nil
}

// Delete removes the snapshot of taskID.
func (s *InMemoryStore) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	delete(s.tasks, taskID)
	return nil
}

// Size returns the number of stored snapshots.
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
