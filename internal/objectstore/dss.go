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
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// dssStore is the "dss_client" client_lib variant of spec.md §4.A,
// standing in for the proprietary dss_client.py wrapper the original
// cannot fetch: same four-operation shape, bare string keys out of
// ListObjectsV2's Contents rather than a descriptor with a field.
type dssStore struct {
	client *s3.Client
}

// NewDSSStore builds an aws-sdk-go-v2 S3 client pointed at an
// S3-compatible endpoint, the way gurre-ddb-pitr's aws package wraps
// s3.NewFromConfig for its own S3Client abstraction.
func NewDSSStore(endpoint, accessKey, secretKey string) (Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "dss: cannot load aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
		o.UsePathStyle = true
	})
	return &dssStore{client: client}, nil
}

func (s *dssStore) Put(ctx context.Context, bucket, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errors.Wrapf(err, "dss: open %s", localPath)
	}
	defer f.Close()

	key := KeyFromLocalPath(localPath)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   f,
	})
	return errors.Wrapf(err, "dss: put %s", localPath)
}

func (s *dssStore) Get(ctx context.Context, bucket, key, destPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return errors.Wrapf(err, "dss: get %s", key)
	}
	defer out.Body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, "dss: create %s", destPath)
	}
	defer f.Close()

	if _, err := f.ReadFrom(out.Body); err != nil {
		return errors.Wrapf(err, "dss: write %s", destPath)
	}
	return nil
}

func (s *dssStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key})
	return errors.Wrapf(err, "dss: delete %s", key)
}

func (s *dssStore) List(ctx context.Context, bucket, prefix string) (<-chan string, error) {
	out := make(chan string)
	go func() {
		defer close(out)

		var token *string
		for {
			page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
				Bucket:            &bucket,
				Prefix:            &prefix,
				ContinuationToken: token,
			})
			if err != nil {
				return
			}
			for _, obj := range page.Contents {
				if obj.Key == nil {
					continue
				}
				select {
				case out <- *obj.Key:
				case <-ctx.Done():
					return
				}
			}
			if page.IsTruncated == nil || !*page.IsTruncated {
				return
			}
			token = page.NextContinuationToken
		}
	}()
	return out, nil
}
