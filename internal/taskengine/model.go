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

// Package taskengine holds the data model shared by every executor:
// Task, IndexDataBatch, StatusMessage and the per-operation parameter
// shapes from spec.md §3 and §6.
package taskengine

// IndexDataBatch is a bounded group of leaf entries under a common
// directory or prefix, the unit of work handed from index/list to
// put/get/del. See spec.md §3.
type IndexDataBatch struct {
	Dir        string
	Files      []string
	Size       int64
	NFSCluster string
}

// StatusMessage is emitted once per batch operation by put/get/del.
type StatusMessage struct {
	Success int
	Failure int
	Dir     string
	Size    int64
}

// S3Config addresses the bucket and selects the backend a Store is
// built from (see internal/objectstore). Bucket defaults to "bucket"
// if empty, matching the source's s3config.get("bucket","bucket").
type S3Config struct {
	Bucket    string
	ClientLib ClientLib
}

func (c S3Config) BucketOrDefault() string {
	if c.Bucket == "" {
		return "bucket"
	}
	return c.Bucket
}

// IndexParams seeds or continues a filesystem index walk.
type IndexParams struct {
	Dir          string
	NFSCluster   string
	MaxIndexSize int
}

// ListParams seeds or continues an object-store prefix walk.
type ListParams struct {
	Prefix       string
	S3Config     S3Config
	MaxIndexSize int
}

// PutParams uploads a batch of local files found under Batch.Dir.
type PutParams struct {
	Batch    IndexDataBatch
	S3Config S3Config
	DryRun   bool
}

// GetParams downloads a batch of object keys into DestPath/Batch.Dir.
type GetParams struct {
	Batch    IndexDataBatch
	S3Config S3Config
	DestPath string
	DryRun   bool
}

// DelParams deletes a batch of object keys.
type DelParams struct {
	Batch    IndexDataBatch
	S3Config S3Config
	DryRun   bool
}
