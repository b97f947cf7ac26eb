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

// ScalarKind tags the variant held by a Scalar.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarInt64
	ScalarUint64
	ScalarFloat64
	ScalarString
	ScalarBool
)

// Scalar is a single tagged value, used both for accumulator
// state/evaluate results and (via the aggregate package's GroupKey) for
// group-by cell values.
type Scalar struct {
	Kind  ScalarKind
	Valid bool
	I64   int64
	U64   uint64
	F64   float64
	Str   string
	Bool  bool
}

func NullScalar(kind ScalarKind) Scalar       { return Scalar{Kind: kind, Valid: false} }
func Int64Scalar(v int64) Scalar             { return Scalar{Kind: ScalarInt64, Valid: true, I64: v} }
func Uint64Scalar(v uint64) Scalar           { return Scalar{Kind: ScalarUint64, Valid: true, U64: v} }
func Float64Scalar(v float64) Scalar         { return Scalar{Kind: ScalarFloat64, Valid: true, F64: v} }
func StringScalar(v string) Scalar           { return Scalar{Kind: ScalarString, Valid: true, Str: v} }
func BoolScalar(v bool) Scalar               { return Scalar{Kind: ScalarBool, Valid: true, Bool: v} }
