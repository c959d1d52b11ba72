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

	"github.com/minio/minio-go"
	"github.com/pkg/errors"
)

// minioStore is the "minio" client_lib variant of spec.md §4.A: its
// ListObjects yields minio.ObjectInfo values carrying the key in a
// .Key field, matching s3Models.go's own minio.ObjectInfo embedding in
// the teacher.
type minioStore struct {
	client *minio.Client
}

// NewMinioStore dials an S3-compatible endpoint with the minio-go v6
// client, the exact dependency the teacher vendors for its S3 source
// traverser (common/s3Models.go).
func NewMinioStore(endpoint, accessKey, secretKey string, secure bool) (Store, error) {
	client, err := minio.New(endpoint, accessKey, secretKey, secure)
	if err != nil {
		return nil, errors.Wrap(err, "minio: cannot construct client")
	}
	return &minioStore{client: client}, nil
}

func (s *minioStore) Put(ctx context.Context, bucket, localPath string) error {
	_, err := s.client.FPutObject(bucket, KeyFromLocalPath(localPath), localPath, minio.PutObjectOptions{})
	return errors.Wrapf(err, "minio: put %s", localPath)
}

func (s *minioStore) Get(ctx context.Context, bucket, key, destPath string) error {
	err := s.client.FGetObject(bucket, key, destPath, minio.GetObjectOptions{})
	return errors.Wrapf(err, "minio: get %s", key)
}

func (s *minioStore) Delete(ctx context.Context, bucket, key string) error {
	err := s.client.RemoveObject(bucket, key)
	return errors.Wrapf(err, "minio: delete %s", key)
}

func (s *minioStore) List(ctx context.Context, bucket, prefix string) (<-chan string, error) {
	doneCh := make(chan struct{})
	objects := s.client.ListObjects(bucket, prefix, false, doneCh)

	out := make(chan string)
	go func() {
		defer close(out)
		defer close(doneCh)
		for obj := range objects {
			if obj.Err != nil {
				return
			}
			select {
			case out <- obj.Key:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

