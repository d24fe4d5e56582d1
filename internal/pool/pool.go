// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides typed object pooling and the [*bytes.Buffer] pool
// used by the event encoders.
package pool

import (
	"bytes"
	"sync"
)

// maxBufferSize bounds the buffers kept by [Bytes]. Larger buffers are
// dropped so that one huge artifact does not pin its memory.
const maxBufferSize = 1 << 20

// Pool is a generics wrapper around [sync.Pool].
type Pool[T any] struct {
	p    sync.Pool
	keep func(T) bool
}

// Resetter is implemented by pooled values that are reset before reuse.
type Resetter interface {
	Reset()
}

// New returns a new [Pool] for T, using fn to construct new values when the
// pool is empty.
func New[T any](fn func() T) *Pool[T] {
	return &Pool[T]{
		p: sync.Pool{
			New: func() any {
				return fn()
			},
		},
	}
}

// Get gets a T from the pool, or creates a new one if the pool is empty.
func (p *Pool[T]) Get() T {
	return p.p.Get().(T)
}

// Put resets x and returns it into the pool.
func (p *Pool[T]) Put(x T) {
	if p.keep != nil && !p.keep(x) {
		return
	}
	if r, ok := any(x).(Resetter); ok {
		r.Reset()
	}
	p.p.Put(x)
}

// Bytes provides the [*bytes.Buffer] pooling objects.
var Bytes = func() *Pool[*bytes.Buffer] {
	p := New(func() *bytes.Buffer { return new(bytes.Buffer) })
	p.keep = func(b *bytes.Buffer) bool { return b.Cap() <= maxBufferSize }
	return p
}()
