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
	"encoding/binary"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/cespare/xxhash/v2"

	"github.com/vectorsql/vectorsql/internal/engineerr"
	"github.com/vectorsql/vectorsql/internal/physical"
)

// groupKeyAt reads the cell at row r from each grouping column, dispatching
// by data type. Only signed/unsigned integers of any width and UTF-8
// strings are supported group-key cell types; anything else (float,
// binary, ...) is an Internal error, per spec §3/§9 — the caller is
// responsible for ensuring grouping columns are of supported types.
func groupKeyAt(cols []arrow.Array, r int) ([]physical.Scalar, error) {
	cells := make([]physical.Scalar, len(cols))
	for i, col := range cols {
		if col.IsNull(r) {
			cells[i] = physical.NullScalar(physical.ScalarInt64)
			continue
		}
		cell, err := scalarCellAt(col, r)
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}
	return cells, nil
}

func scalarCellAt(col arrow.Array, r int) (physical.Scalar, error) {
	switch a := col.(type) {
	case *array.Int8:
		return physical.Int64Scalar(int64(a.Value(r))), nil
	case *array.Int16:
		return physical.Int64Scalar(int64(a.Value(r))), nil
	case *array.Int32:
		return physical.Int64Scalar(int64(a.Value(r))), nil
	case *array.Int64:
		return physical.Int64Scalar(a.Value(r)), nil
	case *array.Uint8:
		return physical.Uint64Scalar(uint64(a.Value(r))), nil
	case *array.Uint16:
		return physical.Uint64Scalar(uint64(a.Value(r))), nil
	case *array.Uint32:
		return physical.Uint64Scalar(uint64(a.Value(r))), nil
	case *array.Uint64:
		return physical.Uint64Scalar(a.Value(r)), nil
	case *array.String:
		return physical.StringScalar(a.Value(r)), nil
	default:
		return physical.Scalar{}, engineerr.Internalf("aggregate.scalarCellAt", "unsupported group-key column type %T", col)
	}
}

// canonicalKeyBytes produces a stable, type-tagged byte encoding of a
// GroupKey's cells, per spec §9 ("hash cells using a stable, type-tagged
// byte canonicalization so that equal keys of different in-memory
// representations still collide correctly"). Two cell sequences produce
// equal byte strings iff they are pairwise equal.
func canonicalKeyBytes(cells []physical.Scalar) []byte {
	buf := make([]byte, 0, len(cells)*9)
	var scratch [8]byte
	for _, c := range cells {
		if !c.Valid {
			buf = append(buf, 0xFF)
			continue
		}
		switch c.Kind {
		case physical.ScalarInt64:
			buf = append(buf, 'i')
			binary.BigEndian.PutUint64(scratch[:], uint64(c.I64))
			buf = append(buf, scratch[:]...)
		case physical.ScalarUint64:
			buf = append(buf, 'u')
			binary.BigEndian.PutUint64(scratch[:], c.U64)
			buf = append(buf, scratch[:]...)
		case physical.ScalarString:
			buf = append(buf, 's')
			binary.BigEndian.PutUint32(scratch[:4], uint32(len(c.Str)))
			buf = append(buf, scratch[:4]...)
			buf = append(buf, c.Str...)
		default:
			buf = append(buf, 0xFE)
		}
	}
	return buf
}

func hashKeyBytes(b []byte) uint64 { return xxhash.Sum64(b) }

func cellsEqual(a, b []physical.Scalar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Valid != b[i].Valid {
			return false
		}
		if !a[i].Valid {
			continue
		}
		if a[i].Kind != b[i].Kind {
			return false
		}
		switch a[i].Kind {
		case physical.ScalarInt64:
			if a[i].I64 != b[i].I64 {
				return false
			}
		case physical.ScalarUint64:
			if a[i].U64 != b[i].U64 {
				return false
			}
		case physical.ScalarString:
			if a[i].Str != b[i].Str {
				return false
			}
		}
	}
	return true
}
