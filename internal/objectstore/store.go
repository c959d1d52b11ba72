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

// Package objectstore provides the two client_lib backends of spec.md
// §4.A behind taskengine.Store, and the prefix_index_data loader
// consumed by the list executor.
package objectstore

import (
	"strings"

	"github.com/datamover/engine/internal/taskengine"
	"github.com/pkg/errors"
)

// Store is taskengine.Store under this package's own name, so backend
// constructors read naturally as "objectstore.NewX() (objectstore.Store, error)".
type Store = taskengine.Store

// Endpoints carries the connection details a worker uses to build its
// own backend instance (spec.md §4.G: one client per worker).
type Endpoints struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// New builds the Store variant named by clientLib, matching the
// selection dss_client.py and minio_client.py made via config at
// connection time. Once built, the executor path never branches on
// clientLib again — see taskengine.ClientLib's doc comment.
func New(clientLib taskengine.ClientLib, ep Endpoints) (Store, error) {
	switch clientLib {
	case taskengine.EClientLib.Minio():
		return NewMinioStore(ep.Endpoint, ep.AccessKey, ep.SecretKey, ep.Secure)
	case taskengine.EClientLib.DSS():
		return NewDSSStore(ep.Endpoint, ep.AccessKey, ep.SecretKey)
	default:
		return nil, errors.Errorf("objectstore: unknown client_lib %s", clientLib)
	}
}

// KeyFromLocalPath derives the object key put() uploads a local file
// under: the absolute path with its leading slash stripped, exactly as
// dss_client.py's putObject does before handing the key to the
// underlying client (both backends share this convention).
func KeyFromLocalPath(localPath string) string {
	return strings.TrimPrefix(localPath, "/")
}
