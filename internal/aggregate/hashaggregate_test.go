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

package aggregate_test

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorsql/vectorsql/internal/aggregate"
	"github.com/vectorsql/vectorsql/internal/physical"
	"github.com/vectorsql/vectorsql/internal/testutil"
)

// sliceSource replays a fixed slice of records, then reports EOF via
// (nil, nil), matching the Source contract.
type sliceSource struct {
	schema  *arrow.Schema
	records []arrow.Record
	pos     int
}

func newSliceSource(schema *arrow.Schema, records []arrow.Record) *sliceSource {
	return &sliceSource{schema: schema, records: records}
}

func (s *sliceSource) Schema() *arrow.Schema { return s.schema }

func (s *sliceSource) Next() (arrow.Record, error) {
	if s.pos >= len(s.records) {
		return nil, nil
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

func groupValues(t *testing.T, rec arrow.Record, col int) map[int64]int {
	t.Helper()
	arr := rec.Column(col)
	out := make(map[int64]int)
	for i := 0; i < arr.Len(); i++ {
		out[arr.(interface{ Value(int) int64 }).Value(i)] = i
	}
	return out
}

// TestHashAggregateScenarioSix reproduces spec §8 scenario 6 exactly:
// two input batches (a=[2,3,4,4], b=[1,2,3,4]) and (a=[2,3,3,4],
// b=[1,2,3,4]), grouped by a with AVG(b). A single Partial stage over
// both batches must yield states (n, sum) of (2, 2.0) for key 2,
// (3, 7.0) for key 3 and (3, 11.0) for key 4; a Final stage over that
// partial output must then yield {2 -> 1.0, 3 -> 7/3, 4 -> 11/3}.
func TestHashAggregateScenarioSix(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()

	batch1 := testutil.OrdersBatch(mem, []int64{2, 3, 4, 4}, []float64{1, 2, 3, 4}, nil)
	defer batch1.Release()
	batch2 := testutil.OrdersBatch(mem, []int64{2, 3, 3, 4}, []float64{1, 2, 3, 4}, nil)
	defer batch2.Release()

	groupExprs := []physical.PhysicalExpr{physical.Column("customer_id")}
	groupNames := []string{"customer_id"}
	aggExprs := []physical.AggregateExpr{physical.NewAvg(physical.Column("amount"), "avg_amount")}

	ctx := context.Background()

	partial := aggregate.New(aggregate.Partial, groupExprs, groupNames, aggExprs,
		newSliceSource(testutil.OrdersSchema, []arrow.Record{batch1, batch2}), mem, nil)
	partialRec, err := partial.Execute(ctx)
	require.NoError(t, err)
	defer partialRec.Release()

	require.EqualValues(t, 3, partialRec.NumRows())
	idxByKey := groupValues(t, partialRec, 0)
	countCol := partialRec.Column(1)
	sumCol := partialRec.Column(2)

	assert.EqualValues(t, 2, countCol.(interface{ Value(int) int64 }).Value(idxByKey[2]))
	assert.InDelta(t, 2.0, sumCol.(interface{ Value(int) float64 }).Value(idxByKey[2]), 1e-9)
	assert.EqualValues(t, 3, countCol.(interface{ Value(int) int64 }).Value(idxByKey[3]))
	assert.InDelta(t, 7.0, sumCol.(interface{ Value(int) float64 }).Value(idxByKey[3]), 1e-9)
	assert.EqualValues(t, 3, countCol.(interface{ Value(int) int64 }).Value(idxByKey[4]))
	assert.InDelta(t, 11.0, sumCol.(interface{ Value(int) float64 }).Value(idxByKey[4]), 1e-9)

	partialSchema := partialRec.Schema()
	final := aggregate.New(aggregate.Final, groupExprs, groupNames, aggExprs,
		newSliceSource(partialSchema, []arrow.Record{partialRec}), mem, nil)
	result, err := final.Execute(ctx)
	require.NoError(t, err)
	defer result.Release()

	require.EqualValues(t, 3, result.NumRows())
	finalIdx := groupValues(t, result, 0)
	avgCol := result.Column(1)

	assert.InDelta(t, 1.0, avgCol.(interface{ Value(int) float64 }).Value(finalIdx[2]), 1e-9)
	assert.InDelta(t, 7.0/3.0, avgCol.(interface{ Value(int) float64 }).Value(finalIdx[3]), 1e-9)
	assert.InDelta(t, 11.0/3.0, avgCol.(interface{ Value(int) float64 }).Value(finalIdx[4]), 1e-9)
}

func TestHashAggregateEmptyInputYieldsEmptyBatchWithSchema(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()

	groupExprs := []physical.PhysicalExpr{physical.Column("customer_id")}
	groupNames := []string{"customer_id"}
	aggExprs := []physical.AggregateExpr{physical.NewCount(physical.Column("amount"), "n")}

	exec := aggregate.New(aggregate.Partial, groupExprs, groupNames, aggExprs,
		newSliceSource(testutil.OrdersSchema, nil), mem, nil)
	rec, err := exec.Execute(context.Background())
	require.NoError(t, err)
	defer rec.Release()

	assert.EqualValues(t, 0, rec.NumRows())
	assert.Equal(t, "customer_id", rec.Schema().Field(0).Name)
}

func TestHashAggregateUngroupedCount(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()

	batch := testutil.OrdersBatch(mem, []int64{1, 2, 3}, []float64{1, 2, 3}, nil)
	defer batch.Release()

	aggExprs := []physical.AggregateExpr{physical.NewCount(physical.Column("amount"), "n")}
	exec := aggregate.New(aggregate.Partial, nil, nil, aggExprs,
		newSliceSource(testutil.OrdersSchema, []arrow.Record{batch}), mem, nil)

	rec, err := exec.Execute(context.Background())
	require.NoError(t, err)
	defer rec.Release()

	require.EqualValues(t, 1, rec.NumRows())
	countArr := rec.Column(0)
	assert.EqualValues(t, 3, countArr.(interface{ Value(int) int64 }).Value(0))
}
