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

// Package engine wires the queues, progress tracker, object-store
// backend and worker pool into the options shape SPEC_FULL.md's
// ambient-stack section describes: construction takes an explicit
// options struct, never a config file or flag set (config *loading*
// stays out of scope; cmd/datamover owns that).
package engine

import (
	"context"
	"io"
	"os"
	"time"

	_ "github.com/datamover/engine/internal/fsindex"
	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/objectstore"
	"github.com/datamover/engine/internal/progress"
	"github.com/datamover/engine/internal/queues"
	"github.com/datamover/engine/internal/status"
	"github.com/datamover/engine/internal/taskengine"
	_ "github.com/datamover/engine/internal/transfer"
	"github.com/datamover/engine/internal/workerpool"
)

// Options configures one engine run. It is the explicit construction
// surface SPEC_FULL.md §2 calls for in place of config loading.
type Options struct {
	Operation    taskengine.Operation
	Dir          string // index seed
	Prefix       string // list seed
	NFSCluster   string
	MaxIndexSize int
	Workers      int

	S3Config        taskengine.S3Config
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Secure          bool
	PrefixIndexPath string // required for list

	// DownstreamOp names the executor (Put, Get or Del) that consumes
	// the IndexDataBatches this run's index/list traversal emits. Any
	// value other than Get or Del selects Put. Run seeds a list
	// traversal when Operation is List and an index traversal otherwise.
	DownstreamOp taskengine.Operation

	DestPath string // required for get
	DryRun   bool

	LogWriter io.Writer
	LogLevel  logging.LogLevel
}

// Engine is a constructed, ready-to-run instance: the shared queues,
// progress tracker and logger already wired, waiting for Run to seed
// the task queue and start the worker pool.
type Engine struct {
	opts    Options
	closeLogger func()
	rc      *taskengine.RuntimeContext
	factory workerpool.StoreFactory
}

// New constructs an Engine from opts, loading prefix_index_data when
// the run is a list (spec.md §6: "a missing file is a fatal error for
// list/get executors but not for index/put").
func New(opts Options) (*Engine, error) {
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stderr
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxIndexSize <= 0 {
		opts.MaxIndexSize = 1000
	}

	ql := logging.NewQueueLogger(opts.LogWriter, opts.LogLevel)

	var prefixIndex taskengine.PrefixIndex
	needsIndex := opts.Operation == taskengine.EOperation.List() || opts.Operation == taskengine.EOperation.Get()
	if needsIndex {
		idx, err := objectstore.LoadPrefixIndex(opts.PrefixIndexPath)
		if err != nil {
			return nil, err
		}
		prefixIndex = idx
	}

	rc := &taskengine.RuntimeContext{
		Tasks:       queues.New[*taskengine.Task](1024),
		IndexData:   queues.New[taskengine.IndexDataBatch](1024),
		Status:      queues.New[taskengine.StatusMessage](1024),
		Logger:      ql,
		Progress:    progress.NewMap(),
		PrefixIndex: prefixIndex,
	}

	factory := func() (taskengine.Store, error) {
		return objectstore.New(opts.S3Config.ClientLib, objectstore.Endpoints{
			Endpoint:  opts.Endpoint,
			AccessKey: opts.AccessKey,
			SecretKey: opts.SecretKey,
			Secure:    opts.Secure,
		})
	}

	return &Engine{opts: opts, closeLogger: ql.Close, rc: rc, factory: factory}, nil
}

// Run seeds the task queue with opts' root operation, starts the
// status aggregator and the worker pool, and blocks until the
// traversal's progress tracker reaches quiescence (spec.md §8).
func (e *Engine) Run(ctx context.Context) error {
	defer e.closeLogger()

	go status.Run(ctx, e.rc.Status)
	go e.dispatchIndexData(ctx)

	root, seed := e.seed()
	e.rc.Progress.Register(root)
	if err := e.rc.Tasks.Push(ctx, seed); err != nil {
		return err
	}

	pool := &workerpool.Pool{
		Workers:      e.opts.Workers,
		Base:         e.rc,
		StoreFactory: e.factory,
		Root:         root,
		PollInterval: 200 * time.Millisecond,
	}
	return pool.Run(ctx)
}

// dispatchIndexData drains rc.IndexData, converting each batch the
// index/list traversal emits into one put/get/del task per
// opts.DownstreamOp (spec.md §3: "IndexDataBatches: created by
// index/list, destroyed after consumer put/get/del produces a
// StatusMessage"). It closes the task queue once IndexData is closed
// and fully drained, which is the only point at which no further task
// can possibly be produced.
func (e *Engine) dispatchIndexData(ctx context.Context) {
	defer e.rc.Tasks.Close()

	for {
		batch, ok := e.rc.IndexData.Pop(ctx)
		if !ok {
			return
		}
		task := e.taskFor(batch)
		if err := e.rc.Tasks.Push(ctx, task); err != nil {
			return
		}
	}
}

func (e *Engine) taskFor(batch taskengine.IndexDataBatch) *taskengine.Task {
	switch e.opts.DownstreamOp {
	case taskengine.EOperation.Get():
		return taskengine.NewTask(taskengine.EOperation.Get(), taskengine.GetParams{
			Batch:    batch,
			S3Config: e.opts.S3Config,
			DestPath: e.opts.DestPath,
			DryRun:   e.opts.DryRun,
		})
	case taskengine.EOperation.Del():
		return taskengine.NewTask(taskengine.EOperation.Del(), taskengine.DelParams{
			Batch:    batch,
			S3Config: e.opts.S3Config,
			DryRun:   e.opts.DryRun,
		})
	default:
		return taskengine.NewTask(taskengine.EOperation.Put(), taskengine.PutParams{
			Batch:    batch,
			S3Config: e.opts.S3Config,
			DryRun:   e.opts.DryRun,
		})
	}
}

func (e *Engine) seed() (string, *taskengine.Task) {
	switch e.opts.Operation {
	case taskengine.EOperation.List():
		return e.opts.Prefix, taskengine.NewTask(taskengine.EOperation.List(), taskengine.ListParams{
			Prefix:       e.opts.Prefix,
			S3Config:     e.opts.S3Config,
			MaxIndexSize: e.opts.MaxIndexSize,
		})
	default:
		return e.opts.Dir, taskengine.NewTask(taskengine.EOperation.Index(), taskengine.IndexParams{
			Dir:          e.opts.Dir,
			NFSCluster:   e.opts.NFSCluster,
			MaxIndexSize: e.opts.MaxIndexSize,
		})
	}
}
