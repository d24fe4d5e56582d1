// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-a2a/a2a-session"
	"github.com/go-a2a/a2a-session/server/event"
)

// ProcessorExistsError is returned when a processor is already registered
// for a task.
type ProcessorExistsError struct {
	TaskID string
}

// Error returns the error message.
func (e ProcessorExistsError) Error() string {
	return fmt.Sprintf("session processor for task %s already exists", e.TaskID)
}

// Registry tracks the live processors of a server by task ID, so that a
// client reconnecting to a running task can resubscribe to its events.
type Registry struct {
	mu         sync.RWMutex
	processors map[string]*Processor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		processors: make(map[string]*Processor),
	}
}

// Add registers p under its task ID.
// Returns ProcessorExistsError if another processor serves the same task.
func (r *Registry) Add(p *Processor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.processors[p.TaskID()]; ok {
		return ProcessorExistsError{TaskID: p.TaskID()}
	}
	r.processors[p.TaskID()] = p
	return nil
}

// Get returns the processor of taskID.
// Returns a2a.TaskNotFoundError if no processor serves the task.
func (r *Registry) Get(taskID string) (*Processor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.processors[taskID]
	if !ok {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}
	return p, nil
}

// Resubscribe attaches a new subscriber to the processor of taskID.
func (r *Registry) Resubscribe(taskID string) (*event.Subscription, error) {
	p, err := r.Get(taskID)
	if err != nil {
		return nil, err
	}
	return p.Subscribe(), nil
}

// Close closes the processor of taskID and removes it.
func (r *Registry) Close(taskID string) error {
	r.mu.Lock()
	p, ok := r.processors[taskID]
	delete(r.processors, taskID)
	r.mu.Unlock()

	if !ok {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	return p.Close()
}

// CloseAll closes and removes every processor.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	processors := r.processors
	r.processors = make(map[string]*Processor)
	r.mu.Unlock()

	var errs []error
	for _, p := range processors {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session of task %s: %w", p.TaskID(), err))
		}
	}
	return errors.Join(errs...)
}

// List returns the task IDs of every registered processor in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.processors))
	for id := range r.processors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of registered processors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}
