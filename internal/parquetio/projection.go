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

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

// Project validates indices against schema and builds the schema obtained
// by selecting those fields, in the given order. Shared between the
// Parquet reader (projecting the on-disk schema) and higher layers that
// need to re-derive a schema from a column subset.
func Project(schema *arrow.Schema, indices []int) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= schema.NumFields() {
			return nil, engineerr.InvalidColumnf("parquetio.Project", "projection index %d out of range for schema with %d fields", idx, schema.NumFields())
		}
		fields[i] = schema.Field(idx)
	}
	return arrow.NewSchema(fields, nil), nil
}

// IdentityProjection returns [0..n) for a schema with n fields, the
// default projection when the caller asks for "all columns".
func IdentityProjection(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
