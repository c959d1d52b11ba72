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

// Package progress implements the shared progress-of-indexing map and
// its termination-detection protocol (spec.md §3 ProgressMap, §4.E).
// It replaces the source's process-shared dict-plus-Manager with a
// single coarse mutex guarding a plain map, per the §9 design note.
package progress

import (
	"strings"
	"sync"
)

// Map tracks, for each directory/prefix hash-key, the number of
// direct children whose indexing/listing has not yet drained into it.
// The zero value is not usable; construct with NewMap.
type Map struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMap returns an empty progress map.
func NewMap() *Map {
	return &Map{counts: make(map[string]int)}
}

// Register sets key's count to 0 if it is not already present.
func (m *Map) Register(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counts[key]; !ok {
		m.counts[key] = 0
	}
}

// Increment raises key's count by one, creating it at 1 if absent.
func (m *Map) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

// Get returns key's current count and whether it is present. Intended
// for tests and diagnostics, not for making termination decisions
// (use DecrementAndBubble for that, so the read-then-act is atomic).
func (m *Map) Get(key string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.counts[key]
	return v, ok
}

// Len returns the number of keys currently tracked.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counts)
}

// Snapshot returns a copy of the whole map, for tests.
func (m *Map) Snapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Quiescent reports whether root is the only surviving key and its
// count has reached zero — the global-completion condition of
// spec.md §8 ("Termination-detection soundness").
func (m *Map) Quiescent(root string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.counts) != 1 {
		return false
	}
	count, ok := m.counts[root]
	return ok && count == 0
}

// depth is the number of path segments in key, counting the empty
// segment produced by a trailing slash — matching the source's
// len(key.split("/")).
func depth(key string) int {
	return len(strings.Split(key, "/"))
}

// parent returns key's parent hash-key and whether one exists. It
// generalizes the two shapes the source uses: a leading-slash,
// no-trailing-slash directory path ("/A/B" -> "/A"), and a
// trailing-slash prefix ("A/B/" -> "A/").
func parent(key string) (string, bool) {
	trimmed := strings.TrimSuffix(key, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "", false
	}
	p := trimmed[:idx]
	if strings.HasSuffix(key, "/") {
		p += "/"
	}
	return p, true
}

// DecrementAndBubble implements the termination-detection protocol of
// spec.md §4.E. It is iterative, not recursive, so that the lock is
// never held across what would otherwise be a recursive call and so
// stack depth stays O(1) regardless of tree depth (§9).
//
// Open question resolved (spec.md §9): the source's
// check_listing_progress deletes listing_progress[prefix] and then
// goes on to read listing_progress[prefix] again, which looks like a
// bug against an already-removed key. We do not port that: the count
// used to decide whether to bubble further is the value captured
// under the same lock that performed the decrement, never a map read
// issued after the key may have been deleted.
func (m *Map) DecrementAndBubble(key string) {
	for {
		m.mu.Lock()
		count, present := m.counts[key]
		if present && count > 0 {
			count--
			m.counts[key] = count
		}
		m.mu.Unlock()

		if !present || count != 0 || depth(key) <= 2 {
			return
		}

		parentKey, hasParent := parent(key)
		if !hasParent {
			return
		}

		m.mu.Lock()
		_, parentPresent := m.counts[parentKey]
		if parentPresent {
			delete(m.counts, key)
		}
		m.mu.Unlock()

		if !parentPresent {
			return
		}
		key = parentKey
	}
}
