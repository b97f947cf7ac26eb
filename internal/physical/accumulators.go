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

package physical

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

// countAggregate, sumAggregate, avgAggregate, minAggregate and
// maxAggregate are the reference AggregateExpr implementations: one
// input expression, a fixed state-field shape, and a fresh Accumulator
// per group. They exist to drive the hash-aggregate operator end to end
// (spec §8 scenario 6 exercises Avg specifically) and to give the
// Accumulator contract concrete, testable implementations.

type aggregateBase struct {
	input   PhysicalExpr
	outName string
}

func (a *aggregateBase) Expressions() []PhysicalExpr { return []PhysicalExpr{a.input} }

// --- Count ---

type CountAggregate struct{ aggregateBase }

func NewCount(input PhysicalExpr, outName string) *CountAggregate {
	return &CountAggregate{aggregateBase{input: input, outName: outName}}
}

func (c *CountAggregate) StateFields() ([]arrow.Field, error) {
	return []arrow.Field{{Name: c.outName + "[count]", Type: arrow.PrimitiveTypes.Int64, Nullable: false}}, nil
}

func (c *CountAggregate) Field() (arrow.Field, error) {
	return arrow.Field{Name: c.outName, Type: arrow.PrimitiveTypes.Int64, Nullable: false}, nil
}

func (c *CountAggregate) CreateAccumulator() (Accumulator, error) { return &countAccumulator{}, nil }

type countAccumulator struct{ n int64 }

func (a *countAccumulator) UpdateBatch(values []arrow.Array) error {
	col := values[0]
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			a.n++
		}
	}
	return nil
}

func (a *countAccumulator) MergeBatch(states []arrow.Array) error {
	counts, ok := states[0].(*array.Int64)
	if !ok {
		return engineerr.Internalf("physical.countAccumulator.MergeBatch", "state column is not an int64 array: %T", states[0])
	}
	for i := 0; i < counts.Len(); i++ {
		if !counts.IsNull(i) {
			a.n += counts.Value(i)
		}
	}
	return nil
}

func (a *countAccumulator) State() ([]Scalar, error) { return []Scalar{Int64Scalar(a.n)}, nil }
func (a *countAccumulator) Evaluate() (Scalar, error) { return Int64Scalar(a.n), nil }

// --- Sum ---

type SumAggregate struct{ aggregateBase }

func NewSum(input PhysicalExpr, outName string) *SumAggregate {
	return &SumAggregate{aggregateBase{input: input, outName: outName}}
}

func (s *SumAggregate) StateFields() ([]arrow.Field, error) {
	return []arrow.Field{{Name: s.outName + "[sum]", Type: arrow.PrimitiveTypes.Float64, Nullable: true}}, nil
}

func (s *SumAggregate) Field() (arrow.Field, error) {
	return arrow.Field{Name: s.outName, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, nil
}

func (s *SumAggregate) CreateAccumulator() (Accumulator, error) { return &sumAccumulator{}, nil }

type sumAccumulator struct {
	sum    float64
	anySet bool
}

func (a *sumAccumulator) UpdateBatch(values []arrow.Array) error {
	col := values[0]
	for i := 0; i < col.Len(); i++ {
		v, valid, err := numericAt(col, i)
		if err != nil {
			return err
		}
		if valid {
			a.sum += v
			a.anySet = true
		}
	}
	return nil
}

func (a *sumAccumulator) MergeBatch(states []arrow.Array) error { return a.UpdateBatch(states) }

func (a *sumAccumulator) State() ([]Scalar, error) {
	if !a.anySet {
		return []Scalar{NullScalar(ScalarFloat64)}, nil
	}
	return []Scalar{Float64Scalar(a.sum)}, nil
}

func (a *sumAccumulator) Evaluate() (Scalar, error) {
	if !a.anySet {
		return NullScalar(ScalarFloat64), nil
	}
	return Float64Scalar(a.sum), nil
}

// --- Avg ---

// AvgAggregate's state is (n, sum), matching spec §8 scenario 6 exactly.
type AvgAggregate struct{ aggregateBase }

func NewAvg(input PhysicalExpr, outName string) *AvgAggregate {
	return &AvgAggregate{aggregateBase{input: input, outName: outName}}
}

func (s *AvgAggregate) StateFields() ([]arrow.Field, error) {
	return []arrow.Field{
		{Name: s.outName + "[count]", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: s.outName + "[sum]", Type: arrow.PrimitiveTypes.Float64, Nullable: false},
	}, nil
}

func (s *AvgAggregate) Field() (arrow.Field, error) {
	return arrow.Field{Name: s.outName, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, nil
}

func (s *AvgAggregate) CreateAccumulator() (Accumulator, error) { return &avgAccumulator{}, nil }

type avgAccumulator struct {
	n   int64
	sum float64
}

func (a *avgAccumulator) UpdateBatch(values []arrow.Array) error {
	col := values[0]
	for i := 0; i < col.Len(); i++ {
		v, valid, err := numericAt(col, i)
		if err != nil {
			return err
		}
		if valid {
			a.n++
			a.sum += v
		}
	}
	return nil
}

func (a *avgAccumulator) MergeBatch(states []arrow.Array) error {
	if len(states) != 2 {
		return engineerr.Internalf("physical.avgAccumulator.MergeBatch", "expected 2 state columns, got %d", len(states))
	}
	countCol, sumCol := states[0], states[1]
	for i := 0; i < countCol.Len(); i++ {
		n, nValid, err := numericAt(countCol, i)
		if err != nil {
			return err
		}
		s, sValid, err := numericAt(sumCol, i)
		if err != nil {
			return err
		}
		if nValid {
			a.n += int64(n)
		}
		if sValid {
			a.sum += s
		}
	}
	return nil
}

func (a *avgAccumulator) State() ([]Scalar, error) {
	return []Scalar{Int64Scalar(a.n), Float64Scalar(a.sum)}, nil
}

func (a *avgAccumulator) Evaluate() (Scalar, error) {
	if a.n == 0 {
		return NullScalar(ScalarFloat64), nil
	}
	return Float64Scalar(a.sum / float64(a.n)), nil
}

// --- Min / Max ---

type extremeKind int

const (
	extremeMin extremeKind = iota
	extremeMax
)

type extremeAggregate struct {
	aggregateBase
	kind extremeKind
}

func NewMin(input PhysicalExpr, outName string) AggregateExpr {
	return &extremeAggregate{aggregateBase{input: input, outName: outName}, extremeMin}
}

func NewMax(input PhysicalExpr, outName string) AggregateExpr {
	return &extremeAggregate{aggregateBase{input: input, outName: outName}, extremeMax}
}

func (e *extremeAggregate) StateFields() ([]arrow.Field, error) {
	return []arrow.Field{{Name: e.outName, Type: arrow.PrimitiveTypes.Float64, Nullable: true}}, nil
}

func (e *extremeAggregate) Field() (arrow.Field, error) {
	return arrow.Field{Name: e.outName, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, nil
}

func (e *extremeAggregate) CreateAccumulator() (Accumulator, error) {
	return &extremeAccumulator{kind: e.kind}, nil
}

type extremeAccumulator struct {
	kind   extremeKind
	value  float64
	anySet bool
}

func (a *extremeAccumulator) fold(v float64) {
	if !a.anySet {
		a.value, a.anySet = v, true
		return
	}
	if a.kind == extremeMin && v < a.value {
		a.value = v
	} else if a.kind == extremeMax && v > a.value {
		a.value = v
	}
}

func (a *extremeAccumulator) UpdateBatch(values []arrow.Array) error {
	col := values[0]
	for i := 0; i < col.Len(); i++ {
		v, valid, err := numericAt(col, i)
		if err != nil {
			return err
		}
		if valid {
			a.fold(v)
		}
	}
	return nil
}

func (a *extremeAccumulator) MergeBatch(states []arrow.Array) error { return a.UpdateBatch(states) }

func (a *extremeAccumulator) State() ([]Scalar, error) {
	if !a.anySet {
		return []Scalar{NullScalar(ScalarFloat64)}, nil
	}
	return []Scalar{Float64Scalar(a.value)}, nil
}

func (a *extremeAccumulator) Evaluate() (Scalar, error) {
	if !a.anySet {
		return NullScalar(ScalarFloat64), nil
	}
	return Float64Scalar(a.value), nil
}
