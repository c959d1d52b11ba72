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

	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/progress"
	"github.com/datamover/engine/internal/queues"
)

// Store is the object-store capability consumed by list/put/get/del
// (spec.md §4.A). The two backends in internal/objectstore (minio and
// dss) each implement this without either one appearing by name on
// the executor path — the client_lib discriminator lives only in the
// factory that builds a Store, per the §9 design note.
type Store interface {
	Put(ctx context.Context, bucket, localPath string) error
	Get(ctx context.Context, bucket, key, destPath string) error
	Delete(ctx context.Context, bucket, key string) error
	// List returns a lazy, single-consume sequence of keys under prefix.
	List(ctx context.Context, bucket, prefix string) (<-chan string, error)
}

// PrefixIndex reports whether prefix is an interior node of the
// indexed object-store tree (spec.md §6, prefix_index_data). The list
// executor gates its recursion on it; index/put never consult it.
// internal/objectstore's loaded PrefixIndex type satisfies this
// structurally, so taskengine never imports objectstore.
type PrefixIndex interface {
	Has(prefix string) bool
}

// RuntimeContext bundles everything a task executor needs: the
// shared queues, the progress tracker, the logger, and the
// caller's object-store connection. One RuntimeContext is built per
// worker (each gets its own Store, per spec.md §4.G / §5); everything
// else is shared by reference across the whole pool.
type RuntimeContext struct {
	Tasks       *queues.Queue[*Task]
	IndexData   *queues.Queue[IndexDataBatch]
	Status      *queues.Queue[StatusMessage]
	Logger      logging.ILogger
	Progress    *progress.Map
	Store       Store
	PrefixIndex PrefixIndex
}

// WithStore returns a shallow copy of rc bound to a different Store.
// Used by the worker pool to hand each worker its own long-lived
// object-store connection while sharing the rest of the runtime.
func (rc *RuntimeContext) WithStore(store Store) *RuntimeContext {
	clone := *rc
	clone.Store = store
	return &clone
}
