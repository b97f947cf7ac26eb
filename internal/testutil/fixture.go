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

// Package testutil generates small, deterministic Parquet fixtures
// in-process for use by package tests, rather than checking in binary
// files.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/apache/arrow/go/v17/parquet/schema"
)

// OrdersSchema is the fixture schema used across the group-by/aggregate
// tests: an integer grouping column and a float payload column,
// matching spec §8 scenario 6's shape exactly.
var OrdersSchema = arrow.NewSchema([]arrow.Field{
	{Name: "customer_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "amount", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
}, nil)

// WriteParquetFixture writes one row group per element of batches into
// a new Parquet file under t.TempDir(), and returns its path. The file
// is removed automatically when the test completes.
func WriteParquetFixture(t *testing.T, schema *arrow.Schema, batches []arrow.Record) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("testutil: failed to create fixture file: %v", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	writerProps := parquet.NewWriterProperties(
		parquet.WithAllocator(mem),
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	writer, err := pqarrow.NewFileWriter(schema, f, writerProps, pqarrow.DefaultWriterProps())
	if err != nil {
		t.Fatalf("testutil: failed to create parquet writer: %v", err)
	}

	for _, batch := range batches {
		if err := writer.Write(batch); err != nil {
			writer.Close()
			t.Fatalf("testutil: failed to write batch: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("testutil: failed to close parquet writer: %v", err)
	}
	return path
}

// OrdersBatch builds one record batch of the OrdersSchema shape from
// parallel customerIDs/amounts slices. A negative-length-mismatch is a
// test-author error and panics immediately.
func OrdersBatch(mem memory.Allocator, customerIDs []int64, amounts []float64, amountValid []bool) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if len(customerIDs) != len(amounts) {
		panic("testutil.OrdersBatch: customerIDs and amounts must be the same length")
	}

	idBldr := array.NewInt64Builder(mem)
	defer idBldr.Release()
	idBldr.AppendValues(customerIDs, nil)

	amtBldr := array.NewFloat64Builder(mem)
	defer amtBldr.Release()
	if amountValid == nil {
		amtBldr.AppendValues(amounts, nil)
	} else {
		for i, v := range amounts {
			if amountValid[i] {
				amtBldr.Append(v)
			} else {
				amtBldr.AppendNull()
			}
		}
	}

	idArr := idBldr.NewArray()
	defer idArr.Release()
	amtArr := amtBldr.NewArray()
	defer amtArr.Release()

	return array.NewRecord(OrdersSchema, []arrow.Array{idArr, amtArr}, int64(len(customerIDs)))
}

// julianUnixEpochDay and nanosPerDay mirror the constants in
// internal/parquetio/dispatch.go: this file builds the inverse of that
// package's int96ToNanos so fixtures can embed exact, pre-computed
// nanosecond values.
const (
	julianUnixEpochDay = 2440588
	nanosPerDay        = int64(86400) * 1e9
)

// Scenario5Nanoseconds are the exact nanosecond-since-epoch values spec §8
// scenario 5 requires an INT96 column to decode to: four distinct
// midnight-UTC instants and, for each, the instant 60 seconds later.
var Scenario5Nanoseconds = []int64{
	1235865600000000000, 1235865660000000000,
	1238544000000000000, 1238544060000000000,
	1233446400000000000, 1233446460000000000,
	1230768000000000000, 1230768060000000000,
}

// nanosToInt96 is the write-side inverse of int96ToNanos: it splits
// nanoseconds-since-epoch into the (nanos_low, nanos_high, julian_day)
// little-endian u32 words the INT96 physical encoding expects.
func nanosToInt96(ns int64) parquet.Int96 {
	julianDay := julianUnixEpochDay + ns/nanosPerDay
	timeOfDayNanos := uint64(ns % nanosPerDay)

	var v parquet.Int96
	binary.LittleEndian.PutUint32(v[0:4], uint32(timeOfDayNanos))
	binary.LittleEndian.PutUint32(v[4:8], uint32(timeOfDayNanos>>32))
	binary.LittleEndian.PutUint32(v[8:12], uint32(julianDay))
	return v
}

// typedFixtureRows is the row count shared by every column built by
// WriteTypedParquetFixture.
const typedFixtureRows = 8

// WriteTypedParquetFixture writes, via the low-level parquet/file schema
// and writer APIs (the high-level pqarrow writer used by
// WriteParquetFixture cannot produce an INT96 physical column or
// arbitrary converted/logical-type INT32/INT64 columns), a single
// row-group Parquet file exercising every branch of
// internal/parquetio's physical-type dispatch table beyond plain
// int64/float64:
//
//	ts96      INT96                                       -> Timestamp(ns), scenario 5 values
//	ts_nanos  INT64 + TimestampLogicalType(nanos)          -> Timestamp(ns)
//	ts_millis INT64 + ConvertedType.TimestampMillis        -> Timestamp(ms)
//	ts_micros INT64 + ConvertedType.TimestampMicros        -> Timestamp(us)
//	d         INT32 + ConvertedType.Date                   -> Date32
//	t_millis  INT32 + ConvertedType.TimeMillis             -> Time32(ms)
//	t_micros  INT64 + ConvertedType.TimeMicros              -> Time64(us)
//	name      ByteArray + ConvertedType.UTF8               -> String
//	flag      Boolean                                      -> Bool
//
// All columns are Optional with every row present (definition level 1),
// since nullability itself is already covered by OrdersBatch/
// TestReaderNullHandlingSlowPath.
func WriteTypedParquetFixture(t *testing.T) string {
	t.Helper()

	nodes := []schema.Node{
		schema.MustPrimitive(schema.NewPrimitiveNode("ts96", parquet.Repetitions.Optional, parquet.Types.Int96, 0, -1)),
		schema.MustPrimitive(schema.NewPrimitiveNodeLogical("ts_nanos", parquet.Repetitions.Optional, schema.NewTimestampLogicalType(false, schema.TimeUnitNanos), parquet.Types.Int64, 0, 1)),
		schema.MustPrimitive(schema.NewPrimitiveNodeConverted("ts_millis", parquet.Repetitions.Optional, parquet.Types.Int64, schema.ConvertedTypes.TimestampMillis, 0, 0, 0, 2)),
		schema.MustPrimitive(schema.NewPrimitiveNodeConverted("ts_micros", parquet.Repetitions.Optional, parquet.Types.Int64, schema.ConvertedTypes.TimestampMicros, 0, 0, 0, 3)),
		schema.MustPrimitive(schema.NewPrimitiveNodeConverted("d", parquet.Repetitions.Optional, parquet.Types.Int32, schema.ConvertedTypes.Date, 0, 0, 0, 4)),
		schema.MustPrimitive(schema.NewPrimitiveNodeConverted("t_millis", parquet.Repetitions.Optional, parquet.Types.Int32, schema.ConvertedTypes.TimeMillis, 0, 0, 0, 5)),
		schema.MustPrimitive(schema.NewPrimitiveNodeConverted("t_micros", parquet.Repetitions.Optional, parquet.Types.Int64, schema.ConvertedTypes.TimeMicros, 0, 0, 0, 6)),
		schema.MustPrimitive(schema.NewPrimitiveNodeConverted("name", parquet.Repetitions.Optional, parquet.Types.ByteArray, schema.ConvertedTypes.UTF8, 0, 0, 0, 7)),
		schema.MustPrimitive(schema.NewPrimitiveNode("flag", parquet.Repetitions.Optional, parquet.Types.Boolean, 8, -1)),
	}
	root := schema.MustGroup(schema.NewGroupNode("schema", parquet.Repetitions.Required, nodes, -1))

	path := filepath.Join(t.TempDir(), "typed_fixture.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("testutil: failed to create typed fixture file: %v", err)
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	pw := file.NewParquetWriter(f, root, file.WithWriterProps(props))

	defLevels := make([]int16, typedFixtureRows)
	for i := range defLevels {
		defLevels[i] = 1
	}

	int96s := make([]parquet.Int96, typedFixtureRows)
	for i, ns := range Scenario5Nanoseconds {
		int96s[i] = nanosToInt96(ns)
	}

	tsNanos := append([]int64{}, Scenario5Nanoseconds...)
	tsMillis := []int64{1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000}
	tsMicros := []int64{10, 20, 30, 40, 50, 60, 70, 80}
	dates := []int32{19000, 19001, 19002, 19003, 19004, 19005, 19006, 19007}
	timeMillis := []int32{0, 3600000, 7200000, 10800000, 14400000, 18000000, 21600000, 25200000}
	timeMicros := []int64{0, 3600000000, 7200000000, 10800000000, 14400000000, 18000000000, 21600000000, 25200000000}
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	flags := []bool{true, false, true, false, true, false, true, false}

	rg := pw.AppendBufferedRowGroup()

	col := func(idx int) interface{} {
		cw, err := rg.Column(idx)
		if err != nil {
			t.Fatalf("testutil: failed to open column %d: %v", idx, err)
		}
		return cw
	}

	if w, ok := col(0).(*file.Int96ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(int96s, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing ts96: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 0 is not an Int96ColumnChunkWriter")
	}
	if w, ok := col(1).(*file.Int64ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(tsNanos, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing ts_nanos: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 1 is not an Int64ColumnChunkWriter")
	}
	if w, ok := col(2).(*file.Int64ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(tsMillis, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing ts_millis: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 2 is not an Int64ColumnChunkWriter")
	}
	if w, ok := col(3).(*file.Int64ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(tsMicros, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing ts_micros: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 3 is not an Int64ColumnChunkWriter")
	}
	if w, ok := col(4).(*file.Int32ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(dates, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing d: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 4 is not an Int32ColumnChunkWriter")
	}
	if w, ok := col(5).(*file.Int32ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(timeMillis, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing t_millis: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 5 is not an Int32ColumnChunkWriter")
	}
	if w, ok := col(6).(*file.Int64ColumnChunkWriter); ok {
		if _, err := w.WriteBatch(timeMicros, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing t_micros: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 6 is not an Int64ColumnChunkWriter")
	}
	if w, ok := col(7).(*file.ByteArrayColumnChunkWriter); ok {
		byteArrays := make([]parquet.ByteArray, len(names))
		for i, s := range names {
			byteArrays[i] = parquet.ByteArray(s)
		}
		if _, err := w.WriteBatch(byteArrays, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing name: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 7 is not a ByteArrayColumnChunkWriter")
	}
	if w, ok := col(8).(*file.BooleanColumnChunkWriter); ok {
		if _, err := w.WriteBatch(flags, defLevels, nil); err != nil {
			t.Fatalf("testutil: writing flag: %v", err)
		}
	} else {
		t.Fatalf("testutil: column 8 is not a BooleanColumnChunkWriter")
	}

	rg.Close()
	if err := pw.FlushWithFooter(); err != nil {
		t.Fatalf("testutil: failed to flush typed fixture footer: %v", err)
	}
	if err := pw.Close(); err != nil {
		t.Fatalf("testutil: failed to close typed fixture writer: %v", err)
	}
	return path
}
