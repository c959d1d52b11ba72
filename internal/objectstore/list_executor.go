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

package objectstore

import (
	"context"
	"fmt"

	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/taskengine"
	"github.com/pkg/errors"
)

func init() {
	taskengine.RegisterExecutor(taskengine.EOperation.List(), executeList)
}

// executeList implements the list executor of spec.md §4.F: analogous
// to index, but walking object-store prefixes instead of directories,
// gated by whether rc.PrefixIndex knows the prefix is an interior node.
func executeList(ctx context.Context, t *taskengine.Task, rc *taskengine.RuntimeContext) error {
	params, ok := t.Params.(taskengine.ListParams)
	if !ok {
		return errors.Errorf("list task: unexpected params type %T", t.Params)
	}
	prefix := params.Prefix
	bucket := params.S3Config.BucketOrDefault()

	rc.Progress.Register(prefix)

	keys, err := rc.Store.List(ctx, bucket, prefix)
	if err != nil {
		return errors.Wrapf(err, "list: cannot enumerate prefix %s", prefix)
	}

	if rc.PrefixIndex != nil && rc.PrefixIndex.Has(prefix) {
		return listKnownPrefix(ctx, t, rc, params, prefix, bucket, keys)
	}
	return listUnknownPrefix(ctx, rc, params, prefix, keys)
}

// listKnownPrefix handles the prefix ∈ prefix_index_data branch: each
// returned key is itself checked against the index to decide whether
// it is a sub-prefix (spawns a list task) or a leaf object key
// (accumulated into a batch), exactly as list_object_keys does in
// original_source/task.py.
func listKnownPrefix(ctx context.Context, t *taskengine.Task, rc *taskengine.RuntimeContext, params taskengine.ListParams, prefix, bucket string, keys <-chan string) error {
	var batch []string
	lowestLevel := true
	sawAnyKey := false

	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		out := taskengine.IndexDataBatch{Dir: prefix, Files: batch}
		batch = nil
		return rc.IndexData.Push(ctx, out)
	}

	for key := range keys {
		sawAnyKey = true
		if rc.PrefixIndex.Has(key) {
			lowestLevel = false
			rc.Progress.Increment(prefix)
			child := taskengine.NewTask(taskengine.EOperation.List(), taskengine.ListParams{
				Prefix:       key,
				S3Config:     params.S3Config,
				MaxIndexSize: params.MaxIndexSize,
			})
			if err := rc.Tasks.Push(ctx, child); err != nil {
				return err
			}
			continue
		}

		if len(batch) == params.MaxIndexSize {
			if err := flushBatch(); err != nil {
				return err
			}
		}
		batch = append(batch, key)
	}
	if err := flushBatch(); err != nil {
		return err
	}

	if !sawAnyKey {
		if rc.Logger != nil {
			rc.Logger.Log(logging.ELogLevel.Error(), fmt.Sprintf("list: no object keys under prefix %s", prefix))
		}
		// Empty listings do not bubble (spec.md §4.F, §9): the prefix
		// stays pinned in the progress map rather than draining here.
		return nil
	}

	if lowestLevel {
		rc.Progress.DecrementAndBubble(prefix)
	}
	return nil
}

// listUnknownPrefix handles the prefix ∉ prefix_index_data branch:
// every returned key is treated as a sub-prefix.
func listUnknownPrefix(ctx context.Context, rc *taskengine.RuntimeContext, params taskengine.ListParams, prefix string, keys <-chan string) error {
	sawAnyKey := false
	for key := range keys {
		sawAnyKey = true
		rc.Progress.Increment(prefix)
		child := taskengine.NewTask(taskengine.EOperation.List(), taskengine.ListParams{
			Prefix:       key,
			S3Config:     params.S3Config,
			MaxIndexSize: params.MaxIndexSize,
		})
		if err := rc.Tasks.Push(ctx, child); err != nil {
			return err
		}
	}
	if !sawAnyKey && rc.Logger != nil {
		rc.Logger.Log(logging.ELogLevel.Error(), fmt.Sprintf("list: no object keys under prefix %s", prefix))
	}
	return nil
}
