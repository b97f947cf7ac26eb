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

// Package parquetio decodes Parquet row groups directly into
// schema-projected Arrow record batches, without delegating to a
// higher-level Arrow-aware record reader: every column is read through
// the low-level file.ColumnChunkReader.ReadBatch primitive and assembled
// into typed Arrow arrays by hand, including manual definition-level
// driven null handling and INT96-to-nanosecond rebasing.
package parquetio

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/file"

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

const DefaultBatchSize = 1024

// Reader is a lazy, finite sequence of RecordBatches decoded from one
// Parquet file under a fixed projection. Not safe for concurrent use;
// see the partition package for a thread-safe wrapper.
type Reader struct {
	mem   memory.Allocator
	pf    *file.Reader
	path  string

	fullSchema      *arrow.Schema
	projection      []int
	projectedSchema *arrow.Schema
	batchSize       int64

	rowGroupCursor int
	numRowGroups   int

	// set once a row group is loaded; nil between row groups.
	columnReaders    []file.ColumnChunkReader
	rowGroupRowsLeft int64 // only meaningful for the zero-column projection path
}

// Open opens path, reads its metadata, derives the full Arrow schema from
// the Parquet schema descriptor, and validates projection (nil means
// "all columns", in file order). batchSize <= 0 uses DefaultBatchSize.
func Open(path string, projection []int, batchSize int64, mem memory.Allocator) (*Reader, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, engineerr.WrapIO("parquetio.Open", fmt.Errorf("opening %q: %w", path, err))
	}

	descr := pf.MetaData().Schema
	numCols := descr.NumColumns()

	fields := make([]arrow.Field, numCols)
	for i := 0; i < numCols; i++ {
		col := descr.Column(i)
		if col.MaxRepetitionLevel() > 0 {
			pf.Close()
			return nil, engineerr.NotImplementedf("parquetio.Open", "column %q is repeated (nested); nested columnar types are not supported", col.Name())
		}
		f, err := arrowFieldFor(col)
		if err != nil {
			pf.Close()
			return nil, err
		}
		fields[i] = f
	}
	fullSchema := arrow.NewSchema(fields, nil)

	if projection == nil {
		projection = IdentityProjection(numCols)
	}
	projectedSchema, err := Project(fullSchema, projection)
	if err != nil {
		pf.Close()
		return nil, err
	}

	return &Reader{
		mem:             mem,
		pf:              pf,
		path:            path,
		fullSchema:      fullSchema,
		projection:      projection,
		projectedSchema: projectedSchema,
		batchSize:       batchSize,
		numRowGroups:    pf.NumRowGroups(),
	}, nil
}

// Schema returns the projected schema.
func (r *Reader) Schema() *arrow.Schema { return r.projectedSchema }

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.pf.Close()
}

// Next produces the next batch, or (nil, nil) once all row groups are
// exhausted, matching the BatchProducer/Source contract used throughout
// the engine.
func (r *Reader) Next() (arrow.Record, error) {
	for {
		if r.columnReaders == nil && r.rowGroupRowsLeft == 0 {
			if err := r.loadNextRowGroup(); err != nil {
				return nil, err
			}
			if r.columnReaders == nil && r.rowGroupRowsLeft == 0 {
				return nil, nil // no more row groups
			}
		}

		rec, rows, err := r.readOneBatch()
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			// row group exhausted: advance to the next row group and try
			// again, skipping any row groups that yield no rows.
			r.columnReaders = nil
			r.rowGroupRowsLeft = 0
			continue
		}
		return rec, nil
	}
}

// loadNextRowGroup advances the row-group cursor and opens a column
// reader per projected column. When the projection is empty there are no
// column readers to open; the row group's row count alone drives batching.
func (r *Reader) loadNextRowGroup() error {
	if r.rowGroupCursor >= r.numRowGroups {
		return nil // signalled by caller via the nil/0 check
	}
	rg := r.pf.RowGroup(r.rowGroupCursor)
	r.rowGroupCursor++

	if len(r.projection) == 0 {
		r.rowGroupRowsLeft = rg.NumRows()
		r.columnReaders = nil
		return nil
	}

	readers := make([]file.ColumnChunkReader, len(r.projection))
	for i, colIdx := range r.projection {
		cr, err := rg.Column(colIdx)
		if err != nil {
			return engineerr.WrapIO("parquetio.loadNextRowGroup", fmt.Errorf("opening column %d of row group %d: %w", colIdx, r.rowGroupCursor-1, err))
		}
		readers[i] = cr
	}
	r.columnReaders = readers
	return nil
}

// readOneBatch pulls up to batchSize rows from the currently loaded row
// group and assembles them into one Record. Returns rows == 0 when the
// row group has no more rows to give.
func (r *Reader) readOneBatch() (arrow.Record, int64, error) {
	if len(r.projection) == 0 {
		if r.rowGroupRowsLeft == 0 {
			return nil, 0, nil
		}
		n := r.batchSize
		if n > r.rowGroupRowsLeft {
			n = r.rowGroupRowsLeft
		}
		r.rowGroupRowsLeft -= n
		return array.NewRecord(r.projectedSchema, nil, n), n, nil
	}

	cols := make([]arrow.Array, len(r.columnReaders))
	var rows int64
	for i, cr := range r.columnReaders {
		field := r.projectedSchema.Field(i)
		arr, n, err := readColumnBatch(cr, field, r.batchSize, r.mem)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 {
			rows = n
		} else if n != rows {
			return nil, 0, engineerr.Internalf("parquetio.readOneBatch", "column %q returned %d rows, expected %d", field.Name, n, rows)
		}
		cols[i] = arr
	}
	if rows == 0 {
		return nil, 0, nil
	}
	rec := array.NewRecord(r.projectedSchema, cols, rows)
	return rec, rows, nil
}

// readColumnBatch pulls up to batchSize rows from one column chunk reader
// and builds the corresponding typed Arrow array, handling definition
// levels when the field is nullable.
func readColumnBatch(cr file.ColumnChunkReader, field arrow.Field, batchSize int64, mem memory.Allocator) (arrow.Array, int64, error) {
	nullable := field.Nullable
	var defLevels []int16
	if nullable {
		defLevels = make([]int16, batchSize)
	}

	switch typed := cr.(type) {
	case *file.BooleanColumnChunkReader:
		values := make([]bool, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		appendBool(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil

	case *file.Int32ColumnChunkReader:
		values := make([]int32, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		return buildFromInt32(mem, field.Type, values, valuesRead, defLevels, levelsRead)

	case *file.Int64ColumnChunkReader:
		values := make([]int64, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		return buildFromInt64(mem, field.Type, values, valuesRead, defLevels, levelsRead)

	case *file.Int96ColumnChunkReader:
		values := make([]parquet.Int96, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		b := array.NewTimestampBuilder(mem, field.Type.(*arrow.TimestampType))
		defer b.Release()
		appendInt96AsTimestamp(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil

	case *file.Float32ColumnChunkReader:
		values := make([]float32, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		appendFloat32(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil

	case *file.Float64ColumnChunkReader:
		values := make([]float64, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		appendFloat64(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil

	case *file.ByteArrayColumnChunkReader:
		values := make([]parquet.ByteArray, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		b := array.NewStringBuilder(mem)
		defer b.Release()
		appendByteArrayAsUTF8(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil

	case *file.FixedLenByteArrayColumnChunkReader:
		values := make([]parquet.FixedLenByteArray, batchSize)
		levelsRead, valuesRead, err := typed.ReadBatch(batchSize, values, defLevels, nil)
		if err != nil {
			return nil, 0, engineerr.WrapIO("parquetio.readColumnBatch", err)
		}
		b := array.NewStringBuilder(mem)
		defer b.Release()
		appendFixedLenByteArrayAsUTF8(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil

	default:
		return nil, 0, engineerr.NotImplementedf("parquetio.readColumnBatch", "unsupported column chunk reader type %T", cr)
	}
}

func buildFromInt32(mem memory.Allocator, dt arrow.DataType, values []int32, valuesRead int, defLevels []int16, levelsRead int64) (arrow.Array, int64, error) {
	switch dt.ID() {
	case arrow.DATE32:
		b := array.NewDate32Builder(mem)
		defer b.Release()
		appendDate32(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil
	case arrow.TIME32:
		b := array.NewTime32Builder(mem, dt.(*arrow.Time32Type))
		defer b.Release()
		appendTime32(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil
	default:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		appendInt32(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil
	}
}

func buildFromInt64(mem memory.Allocator, dt arrow.DataType, values []int64, valuesRead int, defLevels []int16, levelsRead int64) (arrow.Array, int64, error) {
	switch dt.ID() {
	case arrow.TIME64:
		b := array.NewTime64Builder(mem, dt.(*arrow.Time64Type))
		defer b.Release()
		appendTime64(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil
	case arrow.TIMESTAMP:
		b := array.NewTimestampBuilder(mem, dt.(*arrow.TimestampType))
		defer b.Release()
		appendTimestampFromInt64(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil
	default:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		appendInt64(b, values, valuesRead, defLevels, levelsRead)
		return b.NewArray(), levelsRead, nil
	}
}
