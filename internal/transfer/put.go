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

// Package transfer implements the put/get/del executors of spec.md
// §4.F, the three operations that drain the index-data queue against
// an object-store Store.
package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/datamover/engine/internal/logging"
	"github.com/datamover/engine/internal/taskengine"
)

func init() {
	taskengine.RegisterExecutor(taskengine.EOperation.Put(), executePut)
}

// executePut uploads each file named in the batch, tallying
// success/failure and the total size of files that failed to upload.
// A missing file is logged and counted as failure without aborting
// the rest of the batch (spec.md §7, taxonomy item 2). Dry-run still
// opens and fully reads every file, exercising real I/O cost without
// touching the object store (SPEC_FULL.md §4, "Dry-run read-through").
func executePut(ctx context.Context, t *taskengine.Task, rc *taskengine.RuntimeContext) error {
	params, ok := t.Params.(taskengine.PutParams)
	if !ok {
		return fmt.Errorf("put task: unexpected params type %T", t.Params)
	}
	batch := params.Batch
	bucket := params.S3Config.BucketOrDefault()

	success := 0
	var failedBytes int64

	for _, name := range batch.Files {
		absolute := filepath.Join(batch.Dir, name)
		info, err := os.Stat(absolute)
		if err != nil {
			logf(rc, "put: file %s does not exist", absolute)
			continue
		}

		if params.DryRun {
			if drainErr := readThrough(absolute); drainErr != nil {
				logf(rc, "put: dry-run read of %s failed: %v", absolute, drainErr)
				failedBytes += info.Size()
				continue
			}
			success++
			continue
		}

		if err := rc.Store.Put(ctx, bucket, absolute); err != nil {
			logf(rc, "put: %s: %v", absolute, err)
			failedBytes += info.Size()
			continue
		}
		success++
	}

	status := taskengine.StatusMessage{
		Success: success,
		Failure: len(batch.Files) - success,
		Dir:     batch.Dir,
		Size:    failedBytes,
	}
	return rc.Status.Push(ctx, status)
}

// readThrough fully drains a file's contents without retaining them,
// matching task.py's dry-run FH.readlines() call.
func readThrough(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(io.Discard, f)
	return err
}

func logf(rc *taskengine.RuntimeContext, format string, args ...interface{}) {
	if rc.Logger != nil {
		rc.Logger.Log(logging.ELogLevel.Error(), fmt.Sprintf(format, args...))
	}
}
