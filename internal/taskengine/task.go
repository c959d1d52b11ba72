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

package taskengine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/datamover/engine/internal/logging"
	"github.com/pkg/errors"
)

// nextTaskID is the process-wide monotonic task-id counter (spec.md
// §9: "Global task-id counter becomes a single atomic integer").
var nextTaskID int64

// Task is an immutable descriptor produced by decomposition and
// consumed by a worker (spec.md §3). Params holds one of the
// per-operation structs in model.go.
type Task struct {
	id        int64
	Operation Operation
	Params    interface{}
}

// NewTask allocates a unique id and returns an immutable Task. id
// allocation is atomic, so concurrent producers never collide
// (spec.md §8 "Task-id uniqueness").
func NewTask(op Operation, params interface{}) *Task {
	return &Task{
		id:        atomic.AddInt64(&nextTaskID, 1),
		Operation: op,
		Params:    params,
	}
}

func (t *Task) ID() int64 { return t.id }

// Executor runs the operation-specific logic for a task. It may push
// new tasks, index-data batches and status messages onto rc's queues,
// and must update rc.Progress as its operation's contract requires.
type Executor func(ctx context.Context, t *Task, rc *RuntimeContext) error

var registry = map[Operation]Executor{}

// RegisterExecutor binds an Executor to an Operation. Executor
// packages (internal/fsindex, internal/objectstore, internal/transfer)
// call this from an init() func so that importing them for side
// effect is enough to wire the dispatch table — the same registration
// idiom database/sql uses for drivers.
func RegisterExecutor(op Operation, fn Executor) {
	registry[op] = fn
}

// Execute dispatches t to its registered Executor. No exception
// escapes a task boundary (spec.md §7): a panicking executor is
// recovered, logged, and treated as a non-retried failure — the task
// is simply dropped, exactly as Task.start() in the source catches
// and logs rather than propagating.
func (t *Task) Execute(ctx context.Context, rc *RuntimeContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = nil // logged, not retried, not propagated past the task boundary
			if rc.Logger != nil {
				rc.Logger.Log(logging.ELogLevel.Error(), fmt.Sprintf("task %d (%s) panicked: %v", t.id, t.Operation, r))
			}
		}
	}()

	fn, ok := registry[t.Operation]
	if !ok {
		return errors.Errorf("task %d: no executor registered for operation %s", t.id, t.Operation)
	}
	if execErr := fn(ctx, t, rc); execErr != nil {
		if rc.Logger != nil {
			rc.Logger.Log(logging.ELogLevel.Error(), fmt.Sprintf("task %d (%s): %v", t.id, t.Operation, execErr))
		}
		return nil // logged, not retried, not propagated past the task boundary
	}
	return nil
}
