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
	"os"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// PrefixEntry is the per-prefix record of the prefix_index_data file
// (spec.md §6): `{ "<prefix>": { "files": integer, "size": integer } }`.
type PrefixEntry struct {
	Files int `json:"files"`
	Size  int `json:"size"`
}

// PrefixIndex is the decoded, read-only prefix_index_data mapping the
// list executor gates its recursion on. Safe for concurrent readers
// without locking once loaded (spec.md §5, "prefix_index_data").
type PrefixIndex map[string]PrefixEntry

// Has reports whether prefix is a known interior node of the indexed
// tree, i.e. whether listing should recurse into it rather than treat
// it as a leaf object key.
func (p PrefixIndex) Has(prefix string) bool {
	_, ok := p[prefix]
	return ok
}

// LoadPrefixIndex decodes the prefix_index_data JSON document at path
// with goccy/go-json, the drop-in encoding/json replacement
// gurre-ddb-pitr depends on for exactly this kind of large-document
// decode. A missing or malformed file is fatal for list/get callers,
// per spec.md §6, but never for index/put (those never call this).
func LoadPrefixIndex(path string) (PrefixIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "prefix_index_data: cannot read %s", path)
	}
	var idx PrefixIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrapf(err, "prefix_index_data: malformed document %s", path)
	}
	return idx, nil
}
