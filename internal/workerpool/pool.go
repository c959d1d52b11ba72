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

// Package workerpool implements the N-symmetric-worker runtime of
// spec.md §4.G on top of golang.org/x/sync/errgroup, the same module
// the teacher already depends on for common/parallel's semaphore.
package workerpool

import (
	"context"
	"time"

	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/taskengine"
	"golang.org/x/sync/errgroup"
)

// StoreFactory builds one worker's private object-store connection
// (spec.md §4.G: "each constructs its own object-store client at
// start"). A worker whose factory call fails runs in degraded mode:
// it still drains the task queue but every task it executes against
// Store will fail (spec.md §7, taxonomy item 3).
type StoreFactory func() (taskengine.Store, error)

// Pool runs Workers symmetric goroutines, each popping *taskengine.Task
// off base.Tasks and executing it against its own RuntimeContext until
// the task queue is closed and drained or ctx is cancelled.
type Pool struct {
	Workers      int
	Base         *taskengine.RuntimeContext
	StoreFactory StoreFactory
	// Root is the seed key (directory path or prefix) registered in
	// Base.Progress; PollInterval governs how often the terminator
	// checks Base.Progress.Quiescent(Root).
	Root         string
	PollInterval time.Duration
}

// Run starts the pool and blocks until every worker has exited. It
// returns the first worker error, if any (errgroup.Group semantics).
// Executor errors and panics never reach this level, since
// Task.Execute logs and swallows them; a task whose operation has no
// registered executor makes Execute return an error, which ends that
// worker and is returned here.
func (p *Pool) Run(ctx context.Context) error {
	if p.PollInterval <= 0 {
		p.PollInterval = 200 * time.Millisecond
	}

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < p.Workers; i++ {
		g.Go(func() error {
			return p.runWorker(gctx)
		})
	}

	g.Go(func() error {
		return p.watchForQuiescence(gctx)
	})

	return g.Wait()
}

func (p *Pool) runWorker(ctx context.Context) error {
	rc := p.Base
	if p.StoreFactory != nil {
		store, err := p.StoreFactory()
		if err != nil {
			if rc.Logger != nil {
				rc.Logger.Log(logging.ELogLevel.Error(), "worker: running in degraded mode, store construction failed: "+err.Error())
			}
			rc = rc.WithStore(nil)
		} else {
			rc = rc.WithStore(store)
		}
	}

	for {
		task, ok := rc.Tasks.Pop(ctx)
		if !ok {
			return nil
		}
		if err := task.Execute(ctx, rc); err != nil {
			return err
		}
	}
}

// watchForQuiescence polls the progress tracker and, once the root's
// subtree has fully drained, closes the index-data queue and returns
// nil. Returning nil does not cancel gctx: workers blocked in
// rc.Tasks.Pop exit when the task queue is closed (by the index-data
// dispatcher) or ctx is cancelled. This plays the role the source's master process plays
// when it decides the traversal is globally complete (spec.md §8,
// "Termination-detection soundness").
func (p *Pool) watchForQuiescence(ctx context.Context) error {
	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if p.Base.Progress.Quiescent(p.Root) {
				// No further index/list executor will ever push
				// another batch; it is now safe to close the
				// index-data queue. Closing the task queue is left to
				// the index-data dispatcher, which must drain every
				// already-queued batch into a put/get/del task first.
				p.Base.IndexData.Close()
				return nil
			}
		}
	}
}
