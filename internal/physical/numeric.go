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
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/vectorsql/vectorsql/internal/engineerr"
)

// numericAt widens row i of arr to a float64, for the numeric
// accumulators (Sum/Avg/Min/Max). Reports valid=false for a null cell.
// Non-numeric arrays are rejected with an Internal error: the caller is
// responsible for ensuring aggregate input columns are numeric, per
// spec §9's "fail Internal on unsupported types" guidance for the
// analogous GroupKey dispatch.
func numericAt(arr arrow.Array, i int) (value float64, valid bool, err error) {
	if arr.IsNull(i) {
		return 0, false, nil
	}
	switch a := arr.(type) {
	case *array.Int8:
		return float64(a.Value(i)), true, nil
	case *array.Int16:
		return float64(a.Value(i)), true, nil
	case *array.Int32:
		return float64(a.Value(i)), true, nil
	case *array.Int64:
		return float64(a.Value(i)), true, nil
	case *array.Uint8:
		return float64(a.Value(i)), true, nil
	case *array.Uint16:
		return float64(a.Value(i)), true, nil
	case *array.Uint32:
		return float64(a.Value(i)), true, nil
	case *array.Uint64:
		return float64(a.Value(i)), true, nil
	case *array.Float32:
		return float64(a.Value(i)), true, nil
	case *array.Float64:
		return a.Value(i), true, nil
	default:
		return 0, false, engineerr.Internalf("physical.numericAt", "unsupported numeric column type %T", arr)
	}
}
