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

package parquetio

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/parquet"
)

// Each appendX function implements the fast/slow-path rule from spec
// §4.1: when valuesRead == levelsRead every row in this pull carries a
// value, so the full slice is appended in one call; otherwise definition
// levels and values are consumed in lock-step, a null appended wherever
// the definition level is <= 0.
//
// For non-nullable fields defLevels is nil and levelsRead == int64(valuesRead)
// by construction (every row is present), so the fast path is always taken.

func appendBool(b *array.BooleanBuilder, values []bool, valuesRead int, defLevels []int16, levelsRead int64) {
	if defLevels == nil || int64(valuesRead) == levelsRead {
		b.AppendValues(values[:valuesRead], nil)
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			b.Append(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendInt32(b *array.Int32Builder, values []int32, valuesRead int, defLevels []int16, levelsRead int64) {
	if defLevels == nil || int64(valuesRead) == levelsRead {
		b.AppendValues(values[:valuesRead], nil)
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			b.Append(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendInt64(b *array.Int64Builder, values []int64, valuesRead int, defLevels []int16, levelsRead int64) {
	if defLevels == nil || int64(valuesRead) == levelsRead {
		b.AppendValues(values[:valuesRead], nil)
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			b.Append(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendFloat32(b *array.Float32Builder, values []float32, valuesRead int, defLevels []int16, levelsRead int64) {
	if defLevels == nil || int64(valuesRead) == levelsRead {
		b.AppendValues(values[:valuesRead], nil)
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			b.Append(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendFloat64(b *array.Float64Builder, values []float64, valuesRead int, defLevels []int16, levelsRead int64) {
	if defLevels == nil || int64(valuesRead) == levelsRead {
		b.AppendValues(values[:valuesRead], nil)
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			b.Append(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendDate32(b *array.Date32Builder, values []int32, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v int32) { b.Append(arrow.Date32(v)) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendTime32(b *array.Time32Builder, values []int32, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v int32) { b.Append(arrow.Time32(v)) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendTime64(b *array.Time64Builder, values []int64, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v int64) { b.Append(arrow.Time64(v)) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendTimestampFromInt64(b *array.TimestampBuilder, values []int64, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v int64) { b.Append(arrow.Timestamp(v)) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendInt96AsTimestamp(b *array.TimestampBuilder, values []parquet.Int96, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v parquet.Int96) { b.Append(arrow.Timestamp(int96ToNanos(v))) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendByteArrayAsUTF8(b *array.StringBuilder, values []parquet.ByteArray, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v parquet.ByteArray) { b.Append(string(v)) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}

func appendFixedLenByteArrayAsUTF8(b *array.StringBuilder, values []parquet.FixedLenByteArray, valuesRead int, defLevels []int16, levelsRead int64) {
	appendCell := func(v parquet.FixedLenByteArray) { b.Append(string(v)) }
	if defLevels == nil || int64(valuesRead) == levelsRead {
		for _, v := range values[:valuesRead] {
			appendCell(v)
		}
		return
	}
	vi := 0
	for i := int64(0); i < levelsRead; i++ {
		if defLevels[i] > 0 {
			appendCell(values[vi])
			vi++
		} else {
			b.AppendNull()
		}
	}
}
