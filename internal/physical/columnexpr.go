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

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

// ColumnExpr is the minimal concrete PhysicalExpr: a reference to a
// column by name. It drives both the grouping expressions (in the
// typical case grouping is by a source column) and the Final-mode
// synthetic expressions that read back a partial state column
// positionally by its state-field name (spec §4.4 step 2).
type ColumnExpr struct {
	ColumnName string
}

func Column(name string) *ColumnExpr { return &ColumnExpr{ColumnName: name} }

func (c *ColumnExpr) Name() string { return c.ColumnName }

func (c *ColumnExpr) fieldIndex(schema *arrow.Schema) (int, error) {
	indices := schema.FieldIndices(c.ColumnName)
	if len(indices) == 0 {
		return 0, engineerr.InvalidColumnf("physical.ColumnExpr", "no column named %q in schema", c.ColumnName)
	}
	return indices[0], nil
}

func (c *ColumnExpr) Evaluate(batch arrow.Record) (arrow.Array, error) {
	idx, err := c.fieldIndex(batch.Schema())
	if err != nil {
		return nil, err
	}
	return batch.Column(idx), nil
}

func (c *ColumnExpr) DataType(input *arrow.Schema) (arrow.DataType, error) {
	idx, err := c.fieldIndex(input)
	if err != nil {
		return nil, err
	}
	return input.Field(idx).Type, nil
}

func (c *ColumnExpr) Nullable(input *arrow.Schema) (bool, error) {
	idx, err := c.fieldIndex(input)
	if err != nil {
		return false, err
	}
	return input.Field(idx).Nullable, nil
}
