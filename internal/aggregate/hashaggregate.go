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

// Package aggregate implements the two-phase (Partial/Final) grouped
// hash-aggregate operator: spec §4.4. It consumes an upstream batch
// producer, maintains a GroupKey -> accumulator-state mapping via
// GroupMap, updates state through columnar gather+batch-update, and
// finalizes into a single output batch per partition.
package aggregate

import (
	"context"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/compute"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/vectorsql/vectorsql/internal/engineerr"
	"github.com/vectorsql/vectorsql/internal/physical"
)

// Mode selects which half of the two-phase protocol an execution runs.
type Mode int

const (
	// Partial is applied per input partition; emits group columns plus
	// each aggregate's state columns.
	Partial Mode = iota
	// Final requires a single, merged input partition; emits group
	// columns plus each aggregate's final value column.
	Final
)

// Source is the upstream batch producer contract this operator depends
// on: schema() plus a sequential next() returning (nil, nil) at EOF. It
// is satisfied by both *parquetio.Reader and *partition.Stream.
type Source interface {
	Schema() *arrow.Schema
	Next() (arrow.Record, error)
}

// HashAggregateExec is the grouped/ungrouped hash-aggregate operator.
type HashAggregateExec struct {
	mode       Mode
	groupExprs []physical.PhysicalExpr
	groupNames []string
	aggExprs   []physical.AggregateExpr
	input      Source
	mem        memory.Allocator
	logger     log.Logger
}

// New builds an operator. groupExprs/groupNames describe the grouping
// columns in output order (both empty selects the ungrouped path).
func New(mode Mode, groupExprs []physical.PhysicalExpr, groupNames []string, aggExprs []physical.AggregateExpr, input Source, mem memory.Allocator, logger log.Logger) *HashAggregateExec {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &HashAggregateExec{
		mode:       mode,
		groupExprs: groupExprs,
		groupNames: groupNames,
		aggExprs:   aggExprs,
		input:      input,
		mem:        mem,
		logger:     logger,
	}
}

// Schema is the deterministic output schema: grouping columns first, in
// declared order, followed by state columns (Partial) or value columns
// (Final).
func (h *HashAggregateExec) Schema() (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(h.groupExprs)+len(h.aggExprs))
	input := h.input.Schema()
	for i, ge := range h.groupExprs {
		dt, err := ge.DataType(input)
		if err != nil {
			return nil, err
		}
		nullable, err := ge.Nullable(input)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: h.groupNames[i], Type: dt, Nullable: nullable})
	}
	for _, ae := range h.aggExprs {
		if h.mode == Partial {
			sf, err := ae.StateFields()
			if err != nil {
				return nil, err
			}
			fields = append(fields, sf...)
		} else {
			f, err := ae.Field()
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

// perAggregateExprs returns, for each aggregate, the expressions to
// evaluate against each input batch: aggr.Expressions() in Partial mode,
// or synthetic column references by state-field name in Final mode, so
// partial-state columns are read back positionally (spec §4.4 step 2).
func (h *HashAggregateExec) perAggregateExprs() ([][]physical.PhysicalExpr, error) {
	out := make([][]physical.PhysicalExpr, len(h.aggExprs))
	for i, ae := range h.aggExprs {
		if h.mode == Partial {
			out[i] = ae.Expressions()
			continue
		}
		fields, err := ae.StateFields()
		if err != nil {
			return nil, err
		}
		exprs := make([]physical.PhysicalExpr, len(fields))
		for j, f := range fields {
			exprs[j] = physical.Column(f.Name)
		}
		out[i] = exprs
	}
	return out, nil
}

func (h *HashAggregateExec) newAccumulators() ([]physical.Accumulator, error) {
	accums := make([]physical.Accumulator, len(h.aggExprs))
	for i, ae := range h.aggExprs {
		a, err := ae.CreateAccumulator()
		if err != nil {
			return nil, err
		}
		accums[i] = a
	}
	return accums, nil
}

// Execute runs the operator to completion and returns the single output
// batch for this partition.
func (h *HashAggregateExec) Execute(ctx context.Context) (arrow.Record, error) {
	if len(h.groupExprs) == 0 {
		return h.executeUngrouped(ctx)
	}
	return h.executeGrouped(ctx)
}

func (h *HashAggregateExec) executeGrouped(ctx context.Context) (arrow.Record, error) {
	aggExprLists, err := h.perAggregateExprs()
	if err != nil {
		return nil, err
	}
	gm := NewGroupMap()

	for {
		batch, err := h.input.Next()
		if err != nil {
			return nil, err
		}
		if batch == nil {
			break
		}

		groupCols := make([]arrow.Array, len(h.groupExprs))
		for i, ge := range h.groupExprs {
			col, err := ge.Evaluate(batch)
			if err != nil {
				return nil, engineerr.WrapArrow("aggregate.executeGrouped", err)
			}
			groupCols[i] = col
		}

		inputCols := make([][]arrow.Array, len(h.aggExprs))
		for j, exprs := range aggExprLists {
			cols := make([]arrow.Array, len(exprs))
			for k, e := range exprs {
				col, err := e.Evaluate(batch)
				if err != nil {
					return nil, engineerr.WrapArrow("aggregate.executeGrouped", err)
				}
				cols[k] = col
			}
			inputCols[j] = cols
		}

		nrows := int(batch.NumRows())
		touched := make([]*groupEntry, 0, nrows)
		for r := 0; r < nrows; r++ {
			cells, err := groupKeyAt(groupCols, r)
			if err != nil {
				return nil, err
			}
			entry, err := gm.GetOrCreate(cells, h.newAccumulators)
			if err != nil {
				return nil, err
			}
			if len(entry.indices) == 0 {
				touched = append(touched, entry)
			}
			entry.indices = append(entry.indices, r)
		}

		for _, entry := range touched {
			for j := range h.aggExprs {
				gathered, err := takeColumns(ctx, inputCols[j], entry.indices)
				if err != nil {
					return nil, err
				}
				if h.mode == Partial {
					err = entry.accums[j].UpdateBatch(gathered)
				} else {
					err = entry.accums[j].MergeBatch(gathered)
				}
				if err != nil {
					return nil, err
				}
			}
			entry.indices = entry.indices[:0]
		}

		level.Debug(h.logger).Log("event", "batch_folded", "rows", nrows, "groups", gm.Len())
	}

	schema, err := h.Schema()
	if err != nil {
		return nil, err
	}
	return h.materialize(schema, gm)
}

func (h *HashAggregateExec) executeUngrouped(ctx context.Context) (arrow.Record, error) {
	aggExprLists, err := h.perAggregateExprs()
	if err != nil {
		return nil, err
	}
	accums, err := h.newAccumulators()
	if err != nil {
		return nil, err
	}
	var sawAnyRow bool

	for {
		batch, err := h.input.Next()
		if err != nil {
			return nil, err
		}
		if batch == nil {
			break
		}
		if batch.NumRows() > 0 {
			sawAnyRow = true
		}
		for j, exprs := range aggExprLists {
			cols := make([]arrow.Array, len(exprs))
			for k, e := range exprs {
				col, err := e.Evaluate(batch)
				if err != nil {
					return nil, engineerr.WrapArrow("aggregate.executeUngrouped", err)
				}
				cols[k] = col
			}
			if h.mode == Partial {
				err = accums[j].UpdateBatch(cols)
			} else {
				err = accums[j].MergeBatch(cols)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	schema, err := h.Schema()
	if err != nil {
		return nil, err
	}
	if !sawAnyRow {
		return array.NewRecord(schema, nil, 0), nil
	}
	return h.materializeSingleRow(schema, accums)
}

// takeColumns gathers the rows named by indices from each column via the
// Take compute kernel.
func takeColumns(ctx context.Context, cols []arrow.Array, indices []int) ([]arrow.Array, error) {
	idxBuilder := array.NewInt32Builder(memory.DefaultAllocator)
	defer idxBuilder.Release()
	idx32 := make([]int32, len(indices))
	for i, v := range indices {
		idx32[i] = int32(v)
	}
	idxBuilder.AppendValues(idx32, nil)
	idxArr := idxBuilder.NewInt32Array()
	defer idxArr.Release()

	out := make([]arrow.Array, len(cols))
	for i, col := range cols {
		gathered, err := compute.TakeArray(ctx, col, idxArr)
		if err != nil {
			return nil, engineerr.WrapArrow("aggregate.takeColumns", err)
		}
		out[i] = gathered
	}
	return out, nil
}
