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

package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datamover/engine/internal/taskengine"
)

func init() {
	taskengine.RegisterExecutor(taskengine.EOperation.Get(), executeGet)
}

// executeGet downloads each object key named in the batch into
// DestPath/Batch.Dir, deriving the local filename from the key's last
// path segment (spec.md §4.F "get", §8 round-trip property). The
// destination directory is created once per batch, as task.py's
// os.makedirs(dest_dir) does before the key loop.
func executeGet(ctx context.Context, t *taskengine.Task, rc *taskengine.RuntimeContext) error {
	params, ok := t.Params.(taskengine.GetParams)
	if !ok {
		return fmt.Errorf("get task: unexpected params type %T", t.Params)
	}
	batch := params.Batch
	bucket := params.S3Config.BucketOrDefault()

	destDir := filepath.Join(params.DestPath, batch.Dir)
	if !params.DryRun {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("get: cannot create %s: %w", destDir, err)
		}
	}

	success := 0
	for _, key := range batch.Files {
		if params.DryRun {
			success++
			continue
		}

		destFile := filepath.Join(destDir, lastSegment(key))
		if err := rc.Store.Get(ctx, bucket, key, destFile); err != nil {
			logf(rc, "get: %s: %v", key, err)
			continue
		}
		success++
	}

	status := taskengine.StatusMessage{
		Success: success,
		Failure: len(batch.Files) - success,
		Dir:     batch.Dir,
	}
	return rc.Status.Push(ctx, status)
}

func lastSegment(key string) string {
	parts := strings.Split(key, "/")
	return parts[len(parts)-1]
}
