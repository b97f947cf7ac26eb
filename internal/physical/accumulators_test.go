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

package physical_test

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorsql/vectorsql/internal/physical"
)

func float64Column(mem memory.Allocator, values []float64, valid []bool) arrow.Array {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	if valid == nil {
		b.AppendValues(values, nil)
	} else {
		for i, v := range values {
			if valid[i] {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
	}
	return b.NewArray()
}

// roundTrip feeds values into a fresh accumulator via UpdateBatch
// (Partial), serializes its State(), then merges that state into a
// second fresh accumulator via MergeBatch (Final), and returns both so
// the caller can assert that their Evaluate() results agree — the
// invariant spec §8 requires of every accumulator.
func roundTrip(t *testing.T, mem memory.Allocator, newAcc func() physical.Accumulator, col arrow.Array) (partial physical.Accumulator, final physical.Accumulator) {
	t.Helper()

	partial = newAcc()
	require.NoError(t, partial.UpdateBatch([]arrow.Array{col}))

	states, err := partial.State()
	require.NoError(t, err)

	stateCols := make([]arrow.Array, len(states))
	for i, s := range states {
		switch s.Kind {
		case physical.ScalarInt64:
			b := array.NewInt64Builder(mem)
			b.Append(s.I64)
			stateCols[i] = b.NewArray()
			b.Release()
		case physical.ScalarFloat64:
			b := array.NewFloat64Builder(mem)
			if s.Valid {
				b.Append(s.F64)
			} else {
				b.AppendNull()
			}
			stateCols[i] = b.NewArray()
			b.Release()
		default:
			t.Fatalf("unexpected state scalar kind %v", s.Kind)
		}
	}

	final = newAcc()
	require.NoError(t, final.MergeBatch(stateCols))
	for _, c := range stateCols {
		c.Release()
	}
	return partial, final
}

func TestCountAccumulatorSkipsNulls(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	col := float64Column(mem, []float64{1, 0, 3}, []bool{true, false, true})
	defer col.Release()

	partial, final := roundTrip(t, mem, func() physical.Accumulator {
		a, err := physical.NewCount(physical.Column("amount"), "n").CreateAccumulator()
		require.NoError(t, err)
		return a
	}, col)

	pv, err := partial.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, physical.Int64Scalar(2), pv)

	fv, err := final.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, physical.Int64Scalar(2), fv)
}

func TestSumAccumulatorRoundTrip(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	col := float64Column(mem, []float64{2, 3, 11}, nil)
	defer col.Release()

	partial, final := roundTrip(t, mem, func() physical.Accumulator {
		a, err := physical.NewSum(physical.Column("amount"), "s").CreateAccumulator()
		require.NoError(t, err)
		return a
	}, col)

	pv, err := partial.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 16.0, pv.F64, 1e-9)

	fv, err := final.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 16.0, fv.F64, 1e-9)
}

func TestSumAccumulatorAllNullYieldsNull(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	col := float64Column(mem, []float64{0, 0}, []bool{false, false})
	defer col.Release()

	a, err := physical.NewSum(physical.Column("amount"), "s").CreateAccumulator()
	require.NoError(t, err)
	require.NoError(t, a.UpdateBatch([]arrow.Array{col}))

	v, err := a.Evaluate()
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

// TestAvgAccumulatorScenario exercises the Avg Partial/Final protocol:
// two partial accumulators receive amounts 3.0 and 11.0 respectively,
// and merging their states gives a count of 2 and a sum of 14.0, i.e.
// an average of 7.0.
func TestAvgAccumulatorScenario(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()

	batch1 := float64Column(mem, []float64{3.0}, nil)
	defer batch1.Release()
	batch2 := float64Column(mem, []float64{11.0}, nil)
	defer batch2.Release()

	p1, err := physical.NewAvg(physical.Column("amount"), "avg").CreateAccumulator()
	require.NoError(t, err)
	require.NoError(t, p1.UpdateBatch([]arrow.Array{batch1}))
	s1, err := p1.State()
	require.NoError(t, err)
	assert.Equal(t, physical.Int64Scalar(1), s1[0])
	assert.Equal(t, physical.Float64Scalar(3.0), s1[1])

	p2, err := physical.NewAvg(physical.Column("amount"), "avg").CreateAccumulator()
	require.NoError(t, err)
	require.NoError(t, p2.UpdateBatch([]arrow.Array{batch2}))
	s2, err := p2.State()
	require.NoError(t, err)
	assert.Equal(t, physical.Int64Scalar(1), s2[0])
	assert.Equal(t, physical.Float64Scalar(11.0), s2[1])

	countBldr := array.NewInt64Builder(mem)
	countBldr.AppendValues([]int64{s1[0].I64, s2[0].I64}, nil)
	countCol := countBldr.NewArray()
	countBldr.Release()
	defer countCol.Release()

	sumBldr := array.NewFloat64Builder(mem)
	sumBldr.AppendValues([]float64{s1[1].F64, s2[1].F64}, nil)
	sumCol := sumBldr.NewArray()
	sumBldr.Release()
	defer sumCol.Release()

	final, err := physical.NewAvg(physical.Column("amount"), "avg").CreateAccumulator()
	require.NoError(t, err)
	require.NoError(t, final.MergeBatch([]arrow.Array{countCol, sumCol}))

	v, err := final.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, v.F64, 1e-9)
}

func TestAvgAccumulatorEmptyYieldsNull(t *testing.T) {
	t.Parallel()
	a, err := physical.NewAvg(physical.Column("amount"), "avg").CreateAccumulator()
	require.NoError(t, err)
	v, err := a.Evaluate()
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestMinMaxAccumulators(t *testing.T) {
	t.Parallel()
	mem := memory.NewGoAllocator()
	col := float64Column(mem, []float64{5, 1, 9, 3}, nil)
	defer col.Release()

	minAcc, err := physical.NewMin(physical.Column("amount"), "m").CreateAccumulator()
	require.NoError(t, err)
	require.NoError(t, minAcc.UpdateBatch([]arrow.Array{col}))
	minV, err := minAcc.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1.0, minV.F64)

	maxAcc, err := physical.NewMax(physical.Column("amount"), "m").CreateAccumulator()
	require.NoError(t, err)
	require.NoError(t, maxAcc.UpdateBatch([]arrow.Array{col}))
	maxV, err := maxAcc.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 9.0, maxV.F64)
}

func TestColumnExprRejectsUnknownColumn(t *testing.T) {
	t.Parallel()
	schema := arrow.NewSchema([]arrow.Field{{Name: "a", Type: arrow.PrimitiveTypes.Int64}}, nil)
	_, err := physical.Column("missing").DataType(schema)
	assert.Error(t, err)
}
