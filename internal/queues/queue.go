// Copyright © Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package queues implements the shared multi-producer/multi-consumer
// channels of spec.md §4.D: the task queue, the index-data queue and
// the status queue. (The fourth queue, the logger queue, is owned by
// internal/logging since its single sink is the logger itself.)
//
// A Queue[T] is a thin, context-aware wrapper around a buffered Go
// channel. Buffering makes it bounded; Push blocks when full rather
// than dropping, satisfying the "producers must block rather than
// drop" requirement, and Push/Pop both honor ctx cancellation so a
// shutdown doesn't wedge a producer against a full queue forever.
package queues

import "context"

type Queue[T any] struct {
	ch chan T
}

// New creates a queue buffered to hold size items before Push blocks.
func New[T any](size int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, size)}
}

// Push enqueues v, blocking while the queue is full, and returns
// ctx.Err() if ctx is done first.
func (q *Queue[T]) Push(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop dequeues the next value. ok is false if the queue was closed
// and drained, or if ctx was done first.
func (q *Queue[T]) Pop(ctx context.Context) (v T, ok bool) {
	select {
	case v, ok = <-q.ch:
		return v, ok
	case <-ctx.Done():
		return v, false
	}
}

// Len reports the number of items currently buffered (best-effort;
// meaningful only as a quiescence hint, not a synchronization point).
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Close signals that no further values will be pushed. Pop continues
// to drain any buffered values before reporting !ok.
func (q *Queue[T]) Close() {
	close(q.ch)
}
