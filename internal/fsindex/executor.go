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

package fsindex

import (
	"context"
	"fmt"

	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/taskengine"
	"github.com/pkg/errors"
)

func init() {
	taskengine.RegisterExecutor(taskengine.EOperation.Index(), execute)
}

// execute implements the index executor of spec.md §4.F. It registers
// dir, walks it via Iterate, fans a subdirectory out into a new index
// task (bumping dir's outstanding-child count), forwards each file
// batch onto the index-data queue, and bubbles dir's own completion
// once it is clear no children were spawned.
func execute(ctx context.Context, t *taskengine.Task, rc *taskengine.RuntimeContext) error {
	params, ok := t.Params.(taskengine.IndexParams)
	if !ok {
		return errors.Errorf("index task: unexpected params type %T", t.Params)
	}
	dir := params.Dir

	rc.Progress.Register(dir)

	entries, err := Iterate(ctx, dir, params.MaxIndexSize)
	if err != nil {
		if rc.Logger != nil {
			rc.Logger.Log(logging.ELogLevel.Error(), fmt.Sprintf("index: cannot enumerate %s: %v", dir, err))
		}
		// Nothing underneath could be discovered; treat dir as a
		// (failed) leaf so it doesn't strand its parent's count.
		rc.Progress.DecrementAndBubble(dir)
		return nil
	}

	sawSubdir := false
	for entry := range entries {
		switch entry.Kind {
		case EntrySubdir:
			sawSubdir = true
			rc.Progress.Increment(dir)
			child := taskengine.NewTask(taskengine.EOperation.Index(), taskengine.IndexParams{
				Dir:          entry.SubdirPath,
				NFSCluster:   params.NFSCluster,
				MaxIndexSize: params.MaxIndexSize,
			})
			if pushErr := rc.Tasks.Push(ctx, child); pushErr != nil {
				return pushErr
			}
		case EntryBatch:
			batch := taskengine.IndexDataBatch{
				Dir:        entry.Dir,
				Files:      entry.Files,
				Size:       entry.Size,
				NFSCluster: params.NFSCluster,
			}
			if pushErr := rc.IndexData.Push(ctx, batch); pushErr != nil {
				return pushErr
			}
		}
	}

	if !sawSubdir {
		rc.Progress.DecrementAndBubble(dir)
	}
	return nil
}
