// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package aggregate

import "github.com/vectorsql/vectorsql/internal/physical"

// groupEntry is GroupMap's value: an accumulator per aggregate position
// plus a scratch row-index buffer, reset after each input batch.
type groupEntry struct {
	cells   []physical.Scalar
	accums  []physical.Accumulator
	indices []int
}

// GroupMap maps a GroupKey to (AccumulatorSet, RowIndexBuffer). Keyed
// internally by the xxhash64 digest of the key's canonical byte
// encoding, with exact-equality chaining to resolve collisions — the map
// itself never reports a false match. Owned exclusively by one
// HashAggregateExec for the duration of one execute() call.
type GroupMap struct {
	buckets map[uint64][]*groupEntry
	count   int
}

func NewGroupMap() *GroupMap {
	return &GroupMap{buckets: make(map[uint64][]*groupEntry)}
}

// Len returns the number of distinct group keys observed so far.
func (m *GroupMap) Len() int { return m.count }

// GetOrCreate looks up cells; on miss it calls newAccums to build a fresh
// AccumulatorSet and inserts (cells, accums, empty index buffer).
func (m *GroupMap) GetOrCreate(cells []physical.Scalar, newAccums func() ([]physical.Accumulator, error)) (*groupEntry, error) {
	keyBytes := canonicalKeyBytes(cells)
	h := hashKeyBytes(keyBytes)
	bucket := m.buckets[h]
	for _, e := range bucket {
		if cellsEqual(e.cells, cells) {
			return e, nil
		}
	}
	accums, err := newAccums()
	if err != nil {
		return nil, err
	}
	e := &groupEntry{cells: cells, accums: accums}
	m.buckets[h] = append(bucket, e)
	m.count++
	return e, nil
}

// Each calls fn once per distinct entry, in the map's (unspecified) iteration order.
func (m *GroupMap) Each(fn func(*groupEntry)) {
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			fn(e)
		}
	}
}
