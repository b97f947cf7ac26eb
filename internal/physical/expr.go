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

// Package physical defines the collaborator contracts the hash-aggregate
// operator depends on — PhysicalExpr, AggregateExpr and Accumulator —
// plus the handful of concrete implementations needed to exercise them:
// a column-reference expression and the Sum/Count/Avg/Min/Max
// accumulators.
package physical

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// PhysicalExpr evaluates to a single column, given a batch.
type PhysicalExpr interface {
	// Evaluate produces one column with the same row count as batch.
	Evaluate(batch arrow.Record) (arrow.Array, error)
	// DataType is the result type against the given input schema.
	DataType(input *arrow.Schema) (arrow.DataType, error)
	// Nullable reports whether the result may contain nulls against the given input schema.
	Nullable(input *arrow.Schema) (bool, error)
	// Name is a human-readable label. State-field and output-field names
	// come from the aggregate's own output name, not from this label.
	Name() string
}

// AggregateExpr describes one aggregate computation: its inputs, its
// serialized partial-state shape, its final output field, and how to
// create a fresh per-group Accumulator.
type AggregateExpr interface {
	// Expressions are evaluated against each input batch in Partial mode.
	Expressions() []PhysicalExpr
	// StateFields describes the accumulator's serialized state.
	StateFields() ([]arrow.Field, error)
	// Field describes the final aggregate output.
	Field() (arrow.Field, error)
	// CreateAccumulator returns a fresh, zeroed accumulator instance.
	CreateAccumulator() (Accumulator, error)
}

// Accumulator is a per-group aggregation instance.
type Accumulator interface {
	// UpdateBatch folds one batch of input values into internal state (Partial mode).
	UpdateBatch(values []arrow.Array) error
	// MergeBatch folds one batch of previously-serialized partial states (Final mode).
	// The column layout matches StateFields().
	MergeBatch(states []arrow.Array) error
	// State serializes current state as scalars, one per StateFields() entry.
	State() ([]Scalar, error)
	// Evaluate computes the final aggregate value.
	Evaluate() (Scalar, error)
}
