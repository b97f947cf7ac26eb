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
	"encoding/binary"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/schema"

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

// julianUnixEpochDay is the Julian day number of 1970-01-01, the fixed
// rebasing constant for INT96 timestamps.
const julianUnixEpochDay = 2440588

const nanosPerDay = int64(86400) * 1e9

// arrowFieldFor derives the target Arrow field for one Parquet leaf column,
// per the physical-type x converted-type dispatch table. Repetition is
// ignored: nested/repeated columns are rejected by the caller before this
// is reached.
func arrowFieldFor(col *schema.Column) (arrow.Field, error) {
	nullable := col.MaxDefinitionLevel() > 0
	name := col.Name()

	switch col.PhysicalType() {
	case parquet.Types.Boolean:
		return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean, Nullable: nullable}, nil

	case parquet.Types.Int32:
		switch col.ConvertedType() {
		case schema.ConvertedTypes.Date:
			return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Date32, Nullable: nullable}, nil
		case schema.ConvertedTypes.TimeMillis:
			return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Time32ms, Nullable: nullable}, nil
		default:
			return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32, Nullable: nullable}, nil
		}

	case parquet.Types.Int64:
		// INT64 nanosecond timestamps are carried via LogicalType, not
		// ConvertedType (ConvertedType has no TimestampNanos member; per
		// spec §9 this must still be recognized and mapped to
		// Timestamp(ns) rather than falling through to plain Int64).
		if ts, ok := col.LogicalType().(*schema.TimestampLogicalType); ok && ts.TimeUnit == schema.TimeUnitNanos {
			return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Timestamp_ns, Nullable: nullable}, nil
		}
		switch col.ConvertedType() {
		case schema.ConvertedTypes.TimeMicros:
			return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Time64us, Nullable: nullable}, nil
		case schema.ConvertedTypes.TimestampMillis:
			return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Timestamp_ms, Nullable: nullable}, nil
		case schema.ConvertedTypes.TimestampMicros:
			return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Timestamp_us, Nullable: nullable}, nil
		default:
			return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: nullable}, nil
		}

	case parquet.Types.Int96:
		// Always Timestamp(ns); see int96ToNanos. The "likely a bug"
		// INT64-nanosecond mapping noted in the reference source does not
		// apply here since INT96 has no converted-type ambiguity.
		return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Timestamp_ns, Nullable: nullable}, nil

	case parquet.Types.Float:
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float32, Nullable: nullable}, nil

	case parquet.Types.Double:
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: nullable}, nil

	case parquet.Types.ByteArray, parquet.Types.FixedLenByteArray:
		return arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: nullable}, nil

	default:
		return arrow.Field{}, engineerr.NotImplementedf("parquetio.arrowFieldFor", "unsupported parquet physical type %s for column %q", col.PhysicalType(), name)
	}
}

// int96ToNanos interprets the 12 INT96 bytes as three little-endian u32
// words (nanos_low, nanos_high, julian_day) and rebases onto the Unix
// epoch. parquet.Int96 is a [12]byte, not a [3]uint32, so the words must
// be decoded with binary.LittleEndian rather than indexed directly.
//
//	nanoseconds = (julian_day - 2440588) * 86400 * 1e9 + ((nanos_high << 32) | nanos_low)
func int96ToNanos(v parquet.Int96) int64 {
	nanosLow := uint64(binary.LittleEndian.Uint32(v[0:4]))
	nanosHigh := uint64(binary.LittleEndian.Uint32(v[4:8]))
	julianDay := int64(binary.LittleEndian.Uint32(v[8:12]))

	dayOffsetNanos := (julianDay - julianUnixEpochDay) * nanosPerDay
	timeOfDayNanos := int64((nanosHigh << 32) | nanosLow)
	return dayOffsetNanos + timeOfDayNanos
}
