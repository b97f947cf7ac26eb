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

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vectorsql/vectorsql/internal/engineerr"
	"github.com/vectorsql/vectorsql/internal/physical"
)

// materialize builds the final output batch from the group map: one
// output row per distinct group key, in the map's (unspecified)
// iteration order. Per spec §4.4 step 4, each entry contributes a
// one-row array per output column; the per-entry column-lists are then
// concatenated along rows to obtain the final columns.
func (h *HashAggregateExec) materialize(schema *arrow.Schema, gm *GroupMap) (arrow.Record, error) {
	nCols := schema.NumFields()
	if gm.Len() == 0 {
		return array.NewRecord(schema, nil, 0), nil
	}

	perColumn := make([][]arrow.Array, nCols)
	var outerErr error
	gm.Each(func(e *groupEntry) {
		if outerErr != nil {
			return
		}
		row, err := h.entryRow(schema, e)
		if err != nil {
			outerErr = err
			return
		}
		for c, a := range row {
			perColumn[c] = append(perColumn[c], a)
		}
	})
	if outerErr != nil {
		return nil, outerErr
	}

	cols := make([]arrow.Array, nCols)
	var nrows int64
	for c := 0; c < nCols; c++ {
		merged, err := array.Concatenate(perColumn[c], h.mem)
		if err != nil {
			return nil, engineerr.WrapArrow("aggregate.materialize", err)
		}
		cols[c] = merged
		nrows = int64(merged.Len())
	}
	return array.NewRecord(schema, cols, nrows), nil
}

// entryRow builds one one-row array per output column for a single group
// entry: the grouping cells, then the payload (state or evaluated value).
func (h *HashAggregateExec) entryRow(schema *arrow.Schema, e *groupEntry) ([]arrow.Array, error) {
	out := make([]arrow.Array, schema.NumFields())
	col := 0
	for i := range h.groupExprs {
		a, err := scalarToArray(h.mem, schema.Field(col), e.cells[i])
		if err != nil {
			return nil, err
		}
		out[col] = a
		col++
	}
	for j := range h.aggExprs {
		var scalars []physical.Scalar
		var err error
		if h.mode == Partial {
			scalars, err = e.accums[j].State()
		} else {
			var s physical.Scalar
			s, err = e.accums[j].Evaluate()
			scalars = []physical.Scalar{s}
		}
		if err != nil {
			return nil, err
		}
		for _, s := range scalars {
			a, err := scalarToArray(h.mem, schema.Field(col), s)
			if err != nil {
				return nil, err
			}
			out[col] = a
			col++
		}
	}
	return out, nil
}

// materializeSingleRow builds the ungrouped path's single output row
// directly, without a group map.
func (h *HashAggregateExec) materializeSingleRow(schema *arrow.Schema, accums []physical.Accumulator) (arrow.Record, error) {
	cols := make([]arrow.Array, schema.NumFields())
	col := 0
	for j := range h.aggExprs {
		var scalars []physical.Scalar
		var err error
		if h.mode == Partial {
			scalars, err = accums[j].State()
		} else {
			var s physical.Scalar
			s, err = accums[j].Evaluate()
			scalars = []physical.Scalar{s}
		}
		if err != nil {
			return nil, err
		}
		for _, s := range scalars {
			a, err := scalarToArray(h.mem, schema.Field(col), s)
			if err != nil {
				return nil, err
			}
			cols[col] = a
			col++
		}
	}
	return array.NewRecord(schema, cols, 1), nil
}

// scalarToArray builds a single-element (or single-null-element) array
// of field.Type holding s.
func scalarToArray(mem memory.Allocator, field arrow.Field, s physical.Scalar) (arrow.Array, error) {
	switch field.Type.ID() {
	case arrow.INT8:
		b := array.NewInt8Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(int8(s.I64))
		}
		return b.NewArray(), nil
	case arrow.INT16:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(int16(s.I64))
		}
		return b.NewArray(), nil
	case arrow.INT32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(int32(s.I64))
		}
		return b.NewArray(), nil
	case arrow.INT64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(s.I64)
		}
		return b.NewArray(), nil
	case arrow.UINT8:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(uint8(s.U64))
		}
		return b.NewArray(), nil
	case arrow.UINT16:
		b := array.NewUint16Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(uint16(s.U64))
		}
		return b.NewArray(), nil
	case arrow.UINT32:
		b := array.NewUint32Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(uint32(s.U64))
		}
		return b.NewArray(), nil
	case arrow.UINT64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(s.U64)
		}
		return b.NewArray(), nil
	case arrow.FLOAT64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(s.F64)
		}
		return b.NewArray(), nil
	case arrow.STRING:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(s.Str)
		}
		return b.NewArray(), nil
	case arrow.BOOL:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		if !s.Valid {
			b.AppendNull()
		} else {
			b.Append(s.Bool)
		}
		return b.NewArray(), nil
	default:
		return nil, engineerr.Internalf("aggregate.scalarToArray", "unsupported output field type %s for %q", field.Type, field.Name)
	}
}
