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

package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1 (spec.md §8): empty directory. Seed index("/root").
// ProgressMap transitions {} -> {"/root": 0} -> {"/root": 0}.
func TestEmptyDirStaysAtRoot(t *testing.T) {
	m := NewMap()
	m.Register("/root")
	m.DecrementAndBubble("/root")

	count, ok := m.Get("/root")
	require.True(t, ok)
	assert.Equal(t, 0, count)
	assert.Equal(t, 1, m.Len())
}

// Scenario 4 (spec.md §8): a two-level tree /A with children /A/B and
// /A/C. ProgressMap reaches {"/A":2,"/A/B":0,"/A/C":0}, then after B
// bubbles {"/A":1,"/A/C":0}, then {"/A":0}.
func TestTwoLevelTreeBubblesBothChildren(t *testing.T) {
	m := NewMap()
	m.Register("/A")
	m.Increment("/A")
	m.Register("/A/B")
	m.Increment("/A")
	m.Register("/A/C")

	count, _ := m.Get("/A")
	require.Equal(t, 2, count)

	m.DecrementAndBubble("/A/B")
	count, ok := m.Get("/A")
	require.True(t, ok)
	assert.Equal(t, 1, count)
	_, bPresent := m.Get("/A/B")
	assert.False(t, bPresent, "B drained to 0 at depth 3 and should have been removed")

	m.DecrementAndBubble("/A/C")
	assert.True(t, m.Quiescent("/A"))
}

// A three-level tree: /root/A/B. B bubbles into A; A, now at 0 and
// deep enough, removes itself and bubbles into root.
func TestBubbleThroughIntermediateNode(t *testing.T) {
	m := NewMap()
	m.Register("/root")
	m.Increment("/root") // root waits on /root/A
	m.Register("/root/A")
	m.Increment("/root/A") // A waits on /root/A/B
	m.Register("/root/A/B")

	m.DecrementAndBubble("/root/A/B")

	assert.True(t, m.Quiescent("/root"))
	_, aStillPresent := m.Get("/root/A")
	assert.False(t, aStillPresent, "A should have been removed once it drained and bubbled")
}

// Two siblings finishing concurrently must both decrement the parent
// exactly once each, and the parent must never go negative or be
// removed before reaching 0 (spec.md §4.E races (i)).
func TestConcurrentSiblingsDecrementSafely(t *testing.T) {
	m := NewMap()
	m.Register("/root")
	const n = 50
	for i := 0; i < n; i++ {
		m.Increment("/root")
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.DecrementAndBubble("/root")
		}()
	}
	wg.Wait()

	count, ok := m.Get("/root")
	require.True(t, ok)
	assert.Equal(t, 0, count)
}

func TestDepthAndParent(t *testing.T) {
	assert.Equal(t, 3, depth("/A/B"))
	assert.Equal(t, 2, depth("/A"))
	assert.Equal(t, 4, depth("A/B/C/"))
	assert.Equal(t, 2, depth("A/"))

	p, ok := parent("/A/B")
	require.True(t, ok)
	assert.Equal(t, "/A", p)

	p, ok = parent("A/B/C/")
	require.True(t, ok)
	assert.Equal(t, "A/B/", p)
}

func TestDecrementAndBubbleNeverGoesNegative(t *testing.T) {
	m := NewMap()
	m.Register("/root")
	m.DecrementAndBubble("/root")
	m.DecrementAndBubble("/root")

	count, ok := m.Get("/root")
	require.True(t, ok)
	assert.GreaterOrEqual(t, count, 0)
}
